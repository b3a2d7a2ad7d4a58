package sysinfo

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/loopfetch/internal/telemetry"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanCPUName(t *testing.T) {
	tests := map[string]string{
		"Intel(R) Core(TM) i7-8750H CPU @ 2.20GHz": "i7-8750h",
		"AMD Ryzen 7 5800X 8-Core Processor":       "ryzen 7 5800x",
		"Apple M1":                                 "m1",
		"":                                         telemetry.Unknown,
	}

	for raw, want := range tests {
		assert.Equal(t, want, CleanCPUName(raw), raw)
	}
}

func TestCPUTemperature(t *testing.T) {
	temps := []host.TemperatureStat{
		{SensorKey: "nvme_composite", Temperature: 40},
		{SensorKey: "k10temp_tctl", Temperature: 55.5},
		{SensorKey: "coretemp_package_id_0", Temperature: 0},
	}
	got, ok := cpuTemperature(temps)
	require.True(t, ok)
	assert.Equal(t, 55.5, got)

	_, ok = cpuTemperature([]host.TemperatureStat{{SensorKey: "acpitz", Temperature: 30}})
	assert.False(t, ok)
}

func TestMatchWindowManager(t *testing.T) {
	wm, ok := matchWindowManager([]string{"systemd", "Hyprland", "waybar"})
	require.True(t, ok)
	assert.Equal(t, "hyprland", wm)

	wm, ok = matchWindowManager([]string{"kwin_wayland", "plasmashell"})
	require.True(t, ok)
	assert.Equal(t, "kwin", wm)

	_, ok = matchWindowManager([]string{"bash"})
	assert.False(t, ok)
}

func TestPickTerminal(t *testing.T) {
	term, ok := pickTerminal([]string{"zsh", "tmux", "-bash", "/usr/bin/Alacritty"})
	require.True(t, ok)
	assert.Equal(t, "alacritty", term)

	_, ok = pickTerminal([]string{"bash", "sudo"})
	assert.False(t, ok)
}

func TestSessionAndEnv(t *testing.T) {
	env := map[string]string{
		"USER":                "Alice",
		"SHELL":               "/usr/bin/zsh",
		"EDITOR":              "/usr/bin/nvim",
		"XDG_SESSION_TYPE":    "Wayland",
		"XDG_CURRENT_DESKTOP": "KDE:plasma",
	}
	s := New(WithEnv(func(k string) string { return env[k] }))
	snap := telemetry.Blank()

	s.sampleEnv(&snap)
	s.sampleSession(&snap)

	assert.Equal(t, "alice", snap.User)
	assert.Equal(t, "zsh", snap.Shell)
	assert.Equal(t, "nvim", snap.Editor)
	assert.Equal(t, "wayland", snap.WindowProtocol)
	require.NotNil(t, snap.DesktopEnv)
	assert.Equal(t, "kde", *snap.DesktopEnv)
}

func TestSampleProduct(t *testing.T) {
	root := t.TempDir()
	product := filepath.Join(root, productNamePath)
	require.NoError(t, os.MkdirAll(filepath.Dir(product), 0o755))
	require.NoError(t, os.WriteFile(product, []byte("ThinkPad X1\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, efiPath), 0o755))

	dm := filepath.Join(root, displayManager)
	require.NoError(t, os.MkdirAll(filepath.Dir(dm), 0o755))
	require.NoError(t, os.Symlink("/usr/lib/systemd/system/sddm.service", dm))

	snap := telemetry.Blank()
	New(WithRoot(root)).sampleProduct(&snap)

	assert.Equal(t, "THINKPAD X1", snap.Device)
	assert.Equal(t, telemetry.BiosUEFI, snap.BiosMode)
	assert.Equal(t, "sddm", snap.LoginManager)

	snap = telemetry.Blank()
	New(WithRoot(t.TempDir())).sampleProduct(&snap)
	assert.Equal(t, telemetry.Unknown, snap.Device)
	assert.Equal(t, telemetry.BiosLegacy, snap.BiosMode)
}

func TestOSName(t *testing.T) {
	assert.Equal(t, "arch", osName("Arch Linux"))
	assert.Equal(t, "ubuntu", osName("ubuntu"))
}
