package telemetry

import "context"

// Source provides complete snapshots on demand. Fetch is called once at
// startup; every later value comes from Refresh and replaces the previous
// snapshot wholesale.
type Source interface {
	Fetch(ctx context.Context, comp string) Snapshot
	Refresh(ctx context.Context, comp string) Snapshot
	Close() error
}

// Sampler fills part of a snapshot. SampleStatic runs once at Fetch for
// values that do not change while the process lives; Sample runs on every
// refresh. A sampler must leave fields it cannot read untouched.
type Sampler interface {
	Name() string
	SampleStatic(ctx context.Context, s *Snapshot) error
	Sample(ctx context.Context, s *Snapshot) error
	Close() error
}
