package media

import (
	"strings"
	"time"

	"codeberg.org/mutker/loopfetch/internal/telemetry"
	"github.com/godbus/dbus/v5"
)

// playerName prefers the advertised identity and falls back to the bus name
// suffix ("org.mpris.MediaPlayer2.spotify" becomes "spotify").
func playerName(busName string, identity dbus.Variant) string {
	if id, ok := identity.Value().(string); ok && strings.TrimSpace(id) != "" {
		return strings.ToLower(strings.TrimSpace(id))
	}
	return strings.ToLower(strings.TrimPrefix(busName, busPrefix))
}

// fromMetadata builds a player from MPRIS properties. Absent or mistyped
// values stay empty and become sentinels downstream.
func fromMetadata(name string, metadata map[string]dbus.Variant, position, status dbus.Variant) telemetry.MediaPlayer {
	p := telemetry.MediaPlayer{
		Name:   name,
		Song:   variantString(metadata["xesam:title"]),
		Album:  variantString(metadata["xesam:album"]),
		ArtURL: variantString(metadata["mpris:artUrl"]),
		Length: micros(metadata["mpris:length"]),
	}

	switch artists := metadata["xesam:artist"].Value().(type) {
	case []string:
		p.Artist = telemetry.JoinArtists(artists)
	case string:
		p.Artist = telemetry.JoinArtists([]string{artists})
	}

	p.Elapsed = micros(position)
	if p.Length > 0 && p.Elapsed > p.Length {
		p.Elapsed = p.Length
	}

	s, _ := status.Value().(string)
	p.Paused = s != "Playing"

	return p
}

func variantString(v dbus.Variant) string {
	switch val := v.Value().(type) {
	case string:
		return val
	case dbus.ObjectPath:
		return string(val)
	default:
		return ""
	}
}

// micros converts an MPRIS microsecond count. Players disagree on the integer
// type, so every width is accepted.
func micros(v dbus.Variant) time.Duration {
	var us int64
	switch val := v.Value().(type) {
	case int64:
		us = val
	case uint64:
		us = int64(val)
	case int32:
		us = int64(val)
	case uint32:
		us = int64(val)
	case float64:
		us = int64(val)
	default:
		return 0
	}
	if us < 0 {
		return 0
	}
	return time.Duration(us) * time.Microsecond
}
