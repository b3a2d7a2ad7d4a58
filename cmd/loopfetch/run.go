package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"codeberg.org/mutker/loopfetch/internal/config"
	"codeberg.org/mutker/loopfetch/internal/engine"
	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/gpu"
	"codeberg.org/mutker/loopfetch/internal/logger"
	"codeberg.org/mutker/loopfetch/internal/media"
	"codeberg.org/mutker/loopfetch/internal/metrics"
	"codeberg.org/mutker/loopfetch/internal/pid"
	"codeberg.org/mutker/loopfetch/internal/reload"
	"codeberg.org/mutker/loopfetch/internal/script"
	"codeberg.org/mutker/loopfetch/internal/sysinfo"
	"codeberg.org/mutker/loopfetch/internal/telemetry"
	"codeberg.org/mutker/loopfetch/internal/ui"
	"github.com/spf13/cobra"
)

const (
	scriptDirPerm  = 0o755
	scriptFilePerm = 0o644
)

func runDashboard(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger.Info().Str("script", cfg.Script).Str("config", cfg.File).Msg("Starting loopfetch")

	if _, err := writeScript(cfg.Script, false); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng, err := newEngine(ctx, cfg, metrics.NewLoop(true))
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			warn(errors.New().Wrap(errors.ErrShutdownFailed, err), "Failed to release telemetry samplers")
		}
	}()

	reloads := make(chan struct{}, 1)
	notify := func() {
		select {
		case reloads <- struct{}{}:
		default:
		}
	}

	go forwardHangups(ctx, notify)

	if cfg.Watch {
		go func() {
			if err := reload.Watch(ctx, cfg.Script, reload.DefaultDebounce, notify); err != nil {
				warn(err, "Script watcher stopped")
			}
		}()
	}

	registry := pid.NewRegistry(pid.DefaultDir())
	if err := registry.Write(); err != nil {
		warn(err, "Failed to register pid; reload command will not reach this instance")
	} else {
		defer func() {
			if err := registry.Remove(); err != nil {
				warn(err, "Failed to remove pid file")
			}
		}()
	}

	if err := ui.Run(ctx, ui.New(ctx, eng, ui.WithDebug(cfg.Debug)), reloads); err != nil {
		return errors.New().Wrap(errors.ErrMainLoop, err)
	}

	logger.Info().Msg("Exiting...")

	return nil
}

// forwardHangups turns SIGHUP into reload requests until ctx is done.
func forwardHangups(ctx context.Context, notify func()) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Debug().Msg("Received SIGHUP")
			notify()
		}
	}
}

func setupLogging(cfg *config.Config) (io.Closer, error) {
	f, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.LogLevel, f)
	logger.Debug().Str("file", cfg.LogFile).Msg("Logger initialized")

	return f, nil
}

// newSource builds the collector from the samplers the configuration
// enables. The system sampler is always present.
func newSource(cfg *config.Config) (*telemetry.Collector, error) {
	samplers := []telemetry.Sampler{sysinfo.New()}
	if cfg.GPU {
		samplers = append(samplers, gpu.New(0))
	}
	if cfg.Media {
		samplers = append(samplers, media.New())
	}

	return telemetry.NewCollector(samplers...)
}

func newEngine(ctx context.Context, cfg *config.Config, meters metrics.Recorder) (*engine.Engine, error) {
	source, err := newSource(cfg)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrInitApp, err)
	}

	bridge := script.New(
		script.WithTimeout(cfg.ScriptTimeout),
		script.WithChunkName(filepath.Base(cfg.Script)),
	)

	return engine.New(ctx, engine.Config{
		Source:      source,
		Loader:      reload.FileLoader{Path: cfg.Script},
		Bridge:      bridge,
		Meters:      meters,
		ReloadEvery: cfg.ReloadEvery,
	}), nil
}

// writeScript writes the embedded default script to path. An existing file
// is kept unless force is set. It reports whether the file was written.
func writeScript(path string, force bool) (bool, error) {
	errFactory := errors.New()

	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		} else if !os.IsNotExist(err) {
			return false, errFactory.Wrap(errors.ErrWriteScript, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), scriptDirPerm); err != nil {
		return false, errFactory.Wrap(errors.ErrWriteScript, err)
	}

	if err := os.WriteFile(path, []byte(script.DefaultSource), scriptFilePerm); err != nil {
		return false, errFactory.Wrap(errors.ErrWriteScript, err)
	}

	logger.Info().Str("script", path).Msg("Wrote default script")

	return true, nil
}

// warn logs a recovered error, with its code when it carries one.
func warn(err error, msg string) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.WarnWithCode(appErr).Msg(msg)
		return
	}
	logger.Warn().Err(err).Msg(msg)
}
