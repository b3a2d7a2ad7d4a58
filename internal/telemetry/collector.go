package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/logger"
)

// Collector is a Source composed of samplers. Static fields are read once at
// Fetch and reused by every later Refresh.
type Collector struct {
	samplers   []Sampler
	static     Snapshot
	fetched    bool
	now        func() time.Time
	errFactory errors.Factory
	mu         sync.Mutex
}

// NewCollector creates a collector over the given samplers, in order. A later
// sampler may overwrite fields written by an earlier one.
func NewCollector(samplers ...Sampler) (*Collector, error) {
	errFactory := errors.New()
	if len(samplers) == 0 {
		return nil, errFactory.New(ErrNoSamplers)
	}

	return &Collector{
		samplers:   samplers,
		now:        time.Now,
		errFactory: errFactory,
	}, nil
}

// Fetch reads static and dynamic fields and returns the first snapshot.
func (c *Collector) Fetch(ctx context.Context, comp string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	static := Blank()
	for _, s := range c.samplers {
		if err := s.SampleStatic(ctx, &static); err != nil {
			c.logSampleErr(s, err)
		}
	}
	fillSentinels(&static)
	static.Disks = nil
	static.Media = nil
	c.static = static
	c.fetched = true

	return c.sample(ctx, comp)
}

// Refresh returns a new snapshot with dynamic fields re-read. It falls back to
// Fetch when called first.
func (c *Collector) Refresh(ctx context.Context, comp string) Snapshot {
	c.mu.Lock()
	if !c.fetched {
		c.mu.Unlock()
		return c.Fetch(ctx, comp)
	}
	defer c.mu.Unlock()

	return c.sample(ctx, comp)
}

func (c *Collector) sample(ctx context.Context, comp string) Snapshot {
	snap := c.static
	for _, s := range c.samplers {
		if ctx.Err() != nil {
			break
		}
		if err := s.Sample(ctx, &snap); err != nil {
			c.logSampleErr(s, err)
		}
	}

	snap.Comp = comp
	snap.SampledAt = c.now()
	fillSentinels(&snap)

	return snap
}

func (c *Collector) logSampleErr(s Sampler, err error) {
	logger.Debug().
		Str("sampler", s.Name()).
		Err(c.errFactory.Wrap(ErrSampleFailed, err)).
		Msg("sampler degraded")
}

// Close closes every sampler, returning all failures joined.
func (c *Collector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, s := range c.samplers {
		if err := s.Close(); err != nil {
			errs = append(errs, c.errFactory.Wrap(ErrSamplerClose, fmt.Errorf("%s: %w", s.Name(), err)))
		}
	}

	return errors.Join(errs...)
}
