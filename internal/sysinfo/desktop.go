package sysinfo

import (
	"path/filepath"
	"strings"
)

var windowManagers = []string{
	"hyprland", "sway", "river", "niri", "wayfire", "labwc", "weston",
	"kwin_wayland", "kwin_x11", "kwin", "mutter", "gnome-shell", "xfwm4",
	"openbox", "i3", "bspwm", "awesome", "dwm", "qtile", "herbstluftwm",
	"xmonad", "fluxbox", "icewm", "spectrwm", "leftwm", "marco", "muffin",
}

var shells = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "fish": true, "dash": true,
	"ksh": true, "tcsh": true, "csh": true, "nu": true, "elvish": true,
	"xonsh": true, "login": true, "sudo": true, "doas": true, "tmux": true,
	"screen": true, "loopfetch": true,
}

// matchWindowManager returns the first known window manager found among the
// running process names, in table order.
func matchWindowManager(names []string) (string, bool) {
	running := make(map[string]bool, len(names))
	for _, n := range names {
		running[strings.ToLower(n)] = true
	}
	for _, wm := range windowManagers {
		if running[wm] {
			return normalizeWM(wm), true
		}
	}
	return "", false
}

func normalizeWM(name string) string {
	switch {
	case strings.HasPrefix(name, "kwin"):
		return "kwin"
	case name == "gnome-shell":
		return "mutter"
	default:
		return name
	}
}

// pickTerminal walks a parent chain (nearest first) and returns the first
// process that is not a shell or multiplexer.
func pickTerminal(chain []string) (string, bool) {
	for _, name := range chain {
		name = strings.ToLower(filepath.Base(name))
		if name == "" || shells[name] || strings.HasPrefix(name, "-") {
			continue
		}
		return name, true
	}
	return "", false
}

// firstDesktop picks the first entry of a colon separated
// XDG_CURRENT_DESKTOP value.
func firstDesktop(v string) string {
	if i := strings.IndexByte(v, ':'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}
