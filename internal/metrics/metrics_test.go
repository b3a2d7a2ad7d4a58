package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeterRate(t *testing.T) {
	m, err := NewMeter(time.Second)
	require.NoError(t, err)

	start := time.Unix(1000, 0)
	for i := 0; i < 24; i++ {
		m.Mark(start.Add(time.Duration(i) * time.Second / 24))
	}

	assert.InDelta(t, 24, m.Rate(start.Add(999*time.Millisecond)), 0.001)
	assert.InDelta(t, 0, m.Rate(start.Add(3*time.Second)), 0.001)
}

func TestMeterInvalidWindow(t *testing.T) {
	_, err := NewMeter(0)
	require.Error(t, err)
}

func TestLoopCounts(t *testing.T) {
	rec := NewLoop(true)
	l, ok := rec.(*loopMeters)
	require.True(t, ok)

	at := time.Unix(2000, 0)
	l.now = func() time.Time { return at.Add(500 * time.Millisecond) }

	rec.MarkFrame(at)
	rec.MarkFrame(at.Add(100 * time.Millisecond))
	rec.MarkPass(at, 10*time.Millisecond, PassResult{Refreshed: true})
	rec.MarkPass(at.Add(80*time.Millisecond), 20*time.Millisecond, PassResult{Reloaded: true, ScriptError: true})

	snap := rec.Snapshot()
	assert.Equal(t, uint64(2), snap.Frames)
	assert.Equal(t, uint64(2), snap.Passes)
	assert.Equal(t, uint64(1), snap.Refreshes)
	assert.Equal(t, uint64(1), snap.Reloads)
	assert.Equal(t, uint64(1), snap.ScriptErrors)
	assert.InDelta(t, 2, snap.FPS, 0.001)
	assert.InDelta(t, 2, snap.TPS, 0.001)
	assert.Equal(t, 12*time.Millisecond, snap.PassTime)
}

func TestNoopRecorder(t *testing.T) {
	rec := NewLoop(false)
	rec.MarkFrame(time.Now())
	rec.MarkPass(time.Now(), time.Second, PassResult{Reloaded: true})
	assert.Equal(t, LoopSnapshot{}, rec.Snapshot())
}
