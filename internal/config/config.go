package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/settings"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix     = "LOOPFETCH"
	DefaultLogLevel      = LogLevelWarning
	DefaultScriptTimeout = 250 * time.Millisecond

	appName    = "loopfetch"
	configName = "loopfetch.toml"
	scriptName = "init.lua"
	logName    = "loopfetch.log"
)

// Keys, also used as flag names with '_' replaced by '-'.
const (
	KeyScript        = "script"
	KeyLogLevel      = "log_level"
	KeyLogFile       = "log_file"
	KeyReloadEvery   = "reload_every"
	KeyWatch         = "watch"
	KeyScriptTimeout = "script_timeout"
	KeyGPU           = "gpu"
	KeyMedia         = "media"
	KeyDebug         = "debug"
)

var keys = []string{
	KeyScript, KeyLogLevel, KeyLogFile, KeyReloadEvery, KeyWatch,
	KeyScriptTimeout, KeyGPU, KeyMedia, KeyDebug,
}

// Config holds the runtime settings that are not owned by the script.
// ReloadEvery counts refreshes; 0 disables periodic reloads. A zero
// ScriptTimeout disables the evaluation bound. File is the configuration
// file that was read, if any.
type Config struct {
	Script        string        `mapstructure:"script"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFile       string        `mapstructure:"log_file"`
	ReloadEvery   uint32        `mapstructure:"reload_every"`
	Watch         bool          `mapstructure:"watch"`
	ScriptTimeout time.Duration `mapstructure:"script_timeout"`
	GPU           bool          `mapstructure:"gpu"`
	Media         bool          `mapstructure:"media"`
	Debug         bool          `mapstructure:"debug"`
	File          string        `mapstructure:"-"`
}

// ConfigDir is $XDG_CONFIG_HOME/loopfetch.
func ConfigDir() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), appName)
}

// StateDir is $XDG_STATE_HOME/loopfetch.
func StateDir() string {
	return filepath.Join(xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state")), appName)
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), fallback)
	}
	return filepath.Join(home, fallback)
}

// Load reads defaults, the configuration file, the environment and flags,
// in increasing precedence, and validates the result.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if o.flags != nil {
		for _, key := range keys {
			if f := o.flags.Lookup(flagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errFactory.Wrap(errors.ErrBindFlags, err)
				}
			}
		}
	}

	path, required := o.configPath, o.configPath != ""
	if !required {
		if env := os.Getenv(o.envPrefix + "_CONFIG"); env != "" {
			path, required = env, true
		} else {
			path = filepath.Join(ConfigDir(), configName)
		}
	}

	v.SetConfigFile(expandHome(path))
	v.SetConfigType("toml")
	file := v.ConfigFileUsed()
	if err := v.ReadInConfig(); err != nil {
		if required || !os.IsNotExist(unwrapPathErr(err)) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err).WithData(file)
		}
		file = ""
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	cfg.File = file
	cfg.Script = expandHome(cfg.Script)
	cfg.LogFile = expandHome(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyScript, filepath.Join(ConfigDir(), scriptName))
	v.SetDefault(KeyLogLevel, string(DefaultLogLevel))
	v.SetDefault(KeyLogFile, filepath.Join(StateDir(), logName))
	v.SetDefault(KeyReloadEvery, 0)
	v.SetDefault(KeyWatch, true)
	v.SetDefault(KeyScriptTimeout, DefaultScriptTimeout)
	v.SetDefault(KeyGPU, true)
	v.SetDefault(KeyMedia, true)
	v.SetDefault(KeyDebug, false)
}

// Validate checks every field and reports the first invalid one.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, FieldError{
			Field: KeyLogLevel, Value: c.LogLevel, Reason: "must be debug, info, warning or error",
		})
	}

	if strings.TrimSpace(c.Script) == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, FieldError{
			Field: KeyScript, Value: c.Script, Reason: "must not be empty",
		})
	}

	if c.ScriptTimeout < 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, FieldError{
			Field: KeyScriptTimeout, Value: c.ScriptTimeout, Reason: "must not be negative",
		})
	}

	if c.ReloadEvery > settings.MaxDivisor {
		return errFactory.WithData(errors.ErrInvalidInterval, FieldError{
			Field: KeyReloadEvery, Value: c.ReloadEvery, Reason: "must be at most 65535",
		})
	}

	return nil
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// unwrapPathErr digs the *os.PathError out of viper's wrapping.
func unwrapPathErr(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr
	}
	return err
}
