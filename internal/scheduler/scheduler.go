// Package scheduler keeps the render and logic counters and derives, once
// per logic pass, whether telemetry is resampled and whether the script is
// reloaded.
package scheduler

import (
	"time"

	"codeberg.org/mutker/loopfetch/internal/settings"
)

// Decision is what the current logic pass has to do besides evaluating the
// script.
type Decision struct {
	Refresh bool
	Reload  bool
}

// Scheduler owns the two monotonic counters. Both wrap only at the uint64
// range.
type Scheduler struct {
	frame       uint64
	tick        uint64
	reloadEvery uint64
}

// New returns a scheduler. reloadEvery is the multiple K of the refresh
// divisor at which a reload is requested; zero leaves reloads to input.
func New(reloadEvery uint32) *Scheduler {
	return &Scheduler{reloadEvery: uint64(reloadEvery)}
}

// Decide evaluates the derived triggers for the current tick.
func (s *Scheduler) Decide(st settings.Settings) Decision {
	rps := uint64(settings.ClampDivisor(st.RPS))

	d := Decision{Refresh: s.tick%rps == 0}
	if s.reloadEvery > 0 {
		d.Reload = s.tick%(rps*s.reloadEvery) == 0
	}

	return d
}

func (s *Scheduler) AdvanceFrame() { s.frame++ }
func (s *Scheduler) AdvanceTick()  { s.tick++ }

func (s *Scheduler) Frame() uint64 { return s.frame }
func (s *Scheduler) Tick() uint64  { return s.tick }

// FrameInterval is the render period for fps.
func FrameInterval(fps uint32) time.Duration {
	return interval(fps)
}

// TickInterval is the logic period for tps.
func TickInterval(tps uint32) time.Duration {
	return interval(tps)
}

func interval(rate uint32) time.Duration {
	return time.Second / time.Duration(settings.ClampRate(rate))
}
