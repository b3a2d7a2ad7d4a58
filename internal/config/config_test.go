package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/loopfetch/internal/config"
	"codeberg.org/mutker/loopfetch/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every XDG lookup into a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("LOOPFETCH_CONFIG", "")
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "loopfetch.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config", "loopfetch", "init.lua"), cfg.Script)
	assert.Equal(t, filepath.Join(dir, "state", "loopfetch", "loopfetch.log"), cfg.LogFile)
	assert.Equal(t, "warning", cfg.LogLevel)
	assert.Equal(t, uint32(0), cfg.ReloadEvery)
	assert.Equal(t, config.DefaultScriptTimeout, cfg.ScriptTimeout)
	assert.True(t, cfg.Watch)
	assert.True(t, cfg.GPU)
	assert.True(t, cfg.Media)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.File)
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `
script = "/tmp/dash.lua"
log_level = "debug"
reload_every = 10
watch = false
script_timeout = "1s"
gpu = false
media = false
debug = true
`)

	cfg, err := config.Load(config.WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/dash.lua", cfg.Script)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint32(10), cfg.ReloadEvery)
	assert.False(t, cfg.Watch)
	assert.Equal(t, time.Second, cfg.ScriptTimeout)
	assert.False(t, cfg.GPU)
	assert.False(t, cfg.Media)
	assert.True(t, cfg.Debug)
	assert.Equal(t, path, cfg.File)
}

func TestLoadDefaultLocation(t *testing.T) {
	dir := isolate(t)
	confDir := filepath.Join(dir, "config", "loopfetch")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	writeConfig(t, confDir, `reload_every = 3`)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), cfg.ReloadEvery)
	assert.Equal(t, filepath.Join(confDir, "loopfetch.toml"), cfg.File)
}

func TestLoadConfigEnv(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `log_level = "error"`)
	t.Setenv("LOOPFETCH_CONFIG", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, `reload_every = 2`)
	t.Setenv("LOOPFETCH_RELOAD_EVERY", "5")

	cfg, err := config.Load(config.WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, uint32(5), cfg.ReloadEvery)
}

func TestCustomEnvPrefix(t *testing.T) {
	isolate(t)
	t.Setenv("DASH_DEBUG", "true")

	cfg, err := config.Load(config.WithEnvPrefix("DASH"))
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}

func TestFlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("LOOPFETCH_RELOAD_EVERY", "5")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Uint32("reload-every", 0, "")
	fs.Bool("watch", true, "")
	require.NoError(t, fs.Parse([]string{"--reload-every=9"}))

	cfg, err := config.Load(config.WithFlags(fs))
	require.NoError(t, err)
	assert.Equal(t, uint32(9), cfg.ReloadEvery)
	assert.True(t, cfg.Watch)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{"bad toml", `log_level = `, errors.ErrReadConfig},
		{"bad log level", `log_level = "loud"`, errors.ErrInvalidLogLevel},
		{"empty script", `script = " "`, errors.ErrInvalidConfig},
		{"negative timeout", `script_timeout = "-1s"`, errors.ErrInvalidInterval},
		{"divisor too large", `reload_every = 70000`, errors.ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := writeConfig(t, dir, tt.content)

			_, err := config.Load(config.WithConfigFile(path))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := config.Load(config.WithConfigFile(filepath.Join(dir, "nope.toml")))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestLogLevel(t *testing.T) {
	assert.True(t, config.LogLevelDebug.IsValid())
	assert.True(t, config.LogLevel("warn").IsValid())
	assert.False(t, config.LogLevel("verbose").IsValid())
	assert.Equal(t, "info", config.LogLevelInfo.String())
}
