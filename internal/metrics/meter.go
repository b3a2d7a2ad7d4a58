package metrics

import (
	"time"

	"codeberg.org/mutker/loopfetch/internal/errors"
)

const (
	DefaultWindow  = time.Second
	maxMeterEvents = 1024
)

// Meter measures an event rate over a sliding window.
type Meter struct {
	window time.Duration
	events []time.Time
}

func NewMeter(window time.Duration) (*Meter, error) {
	if window <= 0 {
		return nil, errors.New().WithData(ErrInvalidWindow, window)
	}
	return &Meter{window: window}, nil
}

// Mark records one event.
func (m *Meter) Mark(at time.Time) {
	m.events = append(m.events, at)
	m.trim(at)
}

// Rate returns events per second over the window ending at now.
func (m *Meter) Rate(now time.Time) float64 {
	m.trim(now)
	return float64(len(m.events)) / m.window.Seconds()
}

func (m *Meter) trim(now time.Time) {
	cutoff := now.Add(-m.window)
	drop := 0
	for drop < len(m.events) && !m.events[drop].After(cutoff) {
		drop++
	}
	if over := len(m.events) - drop - maxMeterEvents; over > 0 {
		drop += over
	}
	if drop > 0 {
		m.events = append(m.events[:0], m.events[drop:]...)
	}
}
