// Package reload decides when the script program is replaced and where its
// text comes from.
package reload

import (
	"sync/atomic"

	"codeberg.org/mutker/loopfetch/internal/logger"
)

// State is the reload lifecycle of the current pass.
type State uint8

const (
	Stable State = iota
	Reloading
)

func (s State) String() string {
	if s == Reloading {
		return "reloading"
	}
	return "stable"
}

// Loader supplies the full script text.
type Loader interface {
	Load() (string, error)
}

// Controller is a two-state machine. Reloading lasts from Begin to Finish
// within one logic pass. Request may be called from any goroutine; the other
// methods belong to the logic pass.
type Controller struct {
	loader  Loader
	pending atomic.Bool
	state   State
}

func NewController(loader Loader) *Controller {
	return &Controller{loader: loader}
}

// Request records that the script should be reloaded at the next pass.
// Repeated requests before that pass collapse into one.
func (c *Controller) Request() {
	c.pending.Store(true)
}

func (c *Controller) Pending() bool {
	return c.pending.Load()
}

func (c *Controller) State() State {
	return c.state
}

// Begin consumes a pending request. It returns ok == false when nothing was
// requested. Otherwise the controller is Reloading and source holds the new
// text, or err tells why the text could not be read; in both cases Finish
// must follow.
func (c *Controller) Begin() (source string, ok bool, err error) {
	if !c.pending.Swap(false) {
		return "", false, nil
	}

	c.state = Reloading
	source, err = c.loader.Load()
	if err != nil {
		logger.Debug().Err(err).Msg("Script source unavailable, keeping current program")
	}

	return source, true, err
}

// Finish returns to Stable.
func (c *Controller) Finish() {
	c.state = Stable
}
