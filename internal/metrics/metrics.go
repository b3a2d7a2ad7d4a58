package metrics

import (
	"sync"
	"time"

	"codeberg.org/mutker/loopfetch/internal/logger"
)

// busyWeight is the smoothing factor of the pass time average.
const busyWeight = 0.2

type loopMeters struct {
	frames   *Meter
	passes   *Meter
	now      func() time.Time
	passTime time.Duration
	counts   LoopSnapshot
	mu       sync.Mutex
}

// No-op implementation
type noopRecorder struct{}

// NewLoop creates meters for the render and logic loops. A disabled loop
// returns a no-op recorder.
func NewLoop(enabled bool) Recorder {
	if !enabled {
		logger.Debug().Msg("Loop metrics disabled, using no-op recorder")
		return noopRecorder{}
	}

	frames, _ := NewMeter(DefaultWindow)
	passes, _ := NewMeter(DefaultWindow)

	return &loopMeters{
		frames: frames,
		passes: passes,
		now:    time.Now,
	}
}

func (l *loopMeters) MarkFrame(at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.frames.Mark(at)
	l.counts.Frames++
}

func (l *loopMeters) MarkPass(at time.Time, busy time.Duration, result PassResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.passes.Mark(at)
	l.counts.Passes++
	if result.Refreshed {
		l.counts.Refreshes++
	}
	if result.Reloaded {
		l.counts.Reloads++
	}
	if result.ScriptError {
		l.counts.ScriptErrors++
	}

	if l.counts.Passes == 1 {
		l.passTime = busy
	} else {
		l.passTime += time.Duration(busyWeight * float64(busy-l.passTime))
	}
}

func (l *loopMeters) Snapshot() LoopSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	snap := l.counts
	snap.FPS = l.frames.Rate(now)
	snap.TPS = l.passes.Rate(now)
	snap.PassTime = l.passTime

	return snap
}

func (noopRecorder) MarkFrame(time.Time) {}

func (noopRecorder) MarkPass(time.Time, time.Duration, PassResult) {}

func (noopRecorder) Snapshot() LoopSnapshot { return LoopSnapshot{} }
