// Package engine runs the logic pass: it ties the scheduler, the reload
// controller, the telemetry source and the script bridge together in a
// fixed order.
package engine

import (
	"context"
	"time"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/logger"
	"codeberg.org/mutker/loopfetch/internal/metrics"
	"codeberg.org/mutker/loopfetch/internal/reload"
	"codeberg.org/mutker/loopfetch/internal/scheduler"
	"codeberg.org/mutker/loopfetch/internal/script"
	"codeberg.org/mutker/loopfetch/internal/settings"
	"codeberg.org/mutker/loopfetch/internal/styled"
	"codeberg.org/mutker/loopfetch/internal/telemetry"
)

// maxReported bounds the set of remembered error messages.
const maxReported = 64

// Action is a user request queued between passes.
type Action uint8

const (
	ToggleLayout Action = iota + 1
	ToggleOrder
	RequestReload
)

// Frame is the render-facing result of one pass.
type Frame struct {
	Settings  settings.Settings
	Lines     styled.Set
	Snapshot  telemetry.Snapshot
	Loop      metrics.LoopSnapshot
	Tick      uint64
	Refreshed bool
	Reloaded  bool
	// Err joins every error of the pass, nil on a clean pass.
	Err error
}

type Config struct {
	Source      telemetry.Source
	Loader      reload.Loader
	Bridge      *script.Bridge
	Meters      metrics.Recorder
	ReloadEvery uint32
}

// Engine owns all mutable dashboard state. Pass and MarkFrame must be called
// from one goroutine; RequestReload is safe from any.
type Engine struct {
	source   telemetry.Source
	bridge   *script.Bridge
	store    *settings.Store
	sched    *scheduler.Scheduler
	ctrl     *reload.Controller
	meters   metrics.Recorder
	snap     telemetry.Snapshot
	lines    styled.Set
	started  bool
	reported map[string]struct{}
	now      func() time.Time
}

// New fetches the first snapshot and queues the initial script load for the
// first pass.
func New(ctx context.Context, cfg Config) *Engine {
	if cfg.Bridge == nil {
		cfg.Bridge = script.New()
	}
	if cfg.Meters == nil {
		cfg.Meters = metrics.NewLoop(false)
	}

	e := &Engine{
		source:   cfg.Source,
		bridge:   cfg.Bridge,
		store:    settings.NewStore(),
		sched:    scheduler.New(cfg.ReloadEvery),
		ctrl:     reload.NewController(cfg.Loader),
		meters:   cfg.Meters,
		lines:    styled.Set{},
		reported: make(map[string]struct{}),
		now:      time.Now,
	}

	e.snap = e.source.Fetch(ctx, e.store.Vars().Comp)
	e.ctrl.Request()

	return e
}

// RequestReload queues a script reload for the next pass.
func (e *Engine) RequestReload() {
	e.ctrl.Request()
}

// MarkFrame advances the render counter.
func (e *Engine) MarkFrame() {
	e.sched.AdvanceFrame()
	e.meters.MarkFrame(e.now())
}

// Settings returns the current settings.
func (e *Engine) Settings() settings.Settings {
	return e.store.Current()
}

// Pass runs one logic pass: queued actions, scheduling, refresh, reload,
// push, evaluate, pull. The script pull is the last settings writer.
func (e *Engine) Pass(ctx context.Context, actions []Action) Frame {
	start := e.now()
	var errs []error

	for _, a := range actions {
		switch a {
		case ToggleLayout:
			e.store.ToggleLayout()
		case ToggleOrder:
			e.store.ToggleOrder()
		case RequestReload:
			e.ctrl.Request()
		}
	}

	decision := e.sched.Decide(e.store.Current())
	if decision.Reload {
		e.ctrl.Request()
	}

	if decision.Refresh {
		e.snap = e.source.Refresh(ctx, e.store.Vars().Comp)
	}

	source, reloading, err := e.ctrl.Begin()
	if reloading {
		if err == nil {
			err = e.bridge.Reload(source)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	snap := e.snap
	snap.Comp = e.store.Vars().Comp
	if snap.Comp == "" {
		snap.Comp = telemetry.Unknown
	}

	if err := e.bridge.Push(script.Globals{
		Snapshot:     snap,
		Settings:     e.store.Current(),
		Loop:         e.loop(),
		SkipSettings: reloading,
	}); err != nil {
		errs = append(errs, err)
	}

	scriptErr := e.bridge.Evaluate(ctx)
	if scriptErr == nil {
		st, lines := e.bridge.Pull()
		e.store.Apply(st)
		e.lines = lines
	} else {
		errs = append(errs, scriptErr)
	}

	e.ctrl.Finish()
	e.sched.AdvanceTick()

	passErr := errors.Join(errs...)
	e.report(passErr)

	e.meters.MarkPass(start, e.now().Sub(start), metrics.PassResult{
		Refreshed:   decision.Refresh,
		Reloaded:    reloading,
		ScriptError: scriptErr != nil,
	})

	frame := Frame{
		Settings:  e.store.Current(),
		Lines:     e.lines,
		Snapshot:  snap,
		Loop:      e.meters.Snapshot(),
		Tick:      e.sched.Tick(),
		Refreshed: decision.Refresh,
		Reloaded:  reloading && e.started,
		Err:       passErr,
	}
	e.started = true

	return frame
}

func (e *Engine) loop() script.Loop {
	m := e.meters.Snapshot()
	return script.Loop{
		Frame:     e.sched.Frame(),
		Tick:      e.sched.Tick(),
		FPS:       m.FPS,
		TPS:       m.TPS,
		TargetFPS: e.store.FPS(),
		TargetTPS: e.store.TPS(),
	}
}

// report logs each distinct error message once. A clean pass forgets what was
// logged so a recurring failure is reported again.
func (e *Engine) report(err error) bool {
	if err == nil {
		clear(e.reported)
		return false
	}

	msg := err.Error()
	if _, seen := e.reported[msg]; seen {
		return false
	}
	if len(e.reported) >= maxReported {
		clear(e.reported)
	}
	e.reported[msg] = struct{}{}

	logger.Warn().Err(err).Uint64("tick", e.sched.Tick()).Msg("Logic pass degraded")

	return true
}

// Close releases the script environment and the telemetry source.
func (e *Engine) Close() error {
	e.bridge.Close()
	return e.source.Close()
}
