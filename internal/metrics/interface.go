package metrics

import "time"

// Recorder receives loop events. Implementations must be cheap enough to be
// called on every frame.
type Recorder interface {
	MarkFrame(at time.Time)
	MarkPass(at time.Time, busy time.Duration, result PassResult)
	Snapshot() LoopSnapshot
}

// PassResult describes what a logic pass did.
type PassResult struct {
	Refreshed   bool
	Reloaded    bool
	ScriptError bool
}

// LoopSnapshot is a point-in-time view of the loop meters.
type LoopSnapshot struct {
	FPS          float64
	TPS          float64
	PassTime     time.Duration
	Frames       uint64
	Passes       uint64
	Refreshes    uint64
	Reloads      uint64
	ScriptErrors uint64
}
