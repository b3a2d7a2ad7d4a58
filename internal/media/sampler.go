package media

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/logger"
	"codeberg.org/mutker/loopfetch/internal/telemetry"
	"github.com/godbus/dbus/v5"
)

const defaultQueryTimeout = 200 * time.Millisecond

// Sampler lists MPRIS players on the session bus. Without a session bus it
// reports no players.
type Sampler struct {
	dial       func() (bus, error)
	conn       bus
	timeout    time.Duration
	degraded   bool
	errFactory errors.Factory
	mu         sync.Mutex
}

func New() *Sampler {
	return newSampler(dialSession)
}

func newSampler(dial func() (bus, error)) *Sampler {
	return &Sampler{
		dial:       dial,
		timeout:    defaultQueryTimeout,
		errFactory: errors.New(),
	}
}

func (*Sampler) Name() string { return "media" }

func (s *Sampler) SampleStatic(context.Context, *telemetry.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.connect()
}

func (s *Sampler) connect() error {
	if s.conn != nil {
		return nil
	}
	if s.degraded {
		return s.errFactory.New(ErrNotConnected)
	}

	conn, err := s.dial()
	if err != nil {
		s.degraded = true
		logger.Info().Err(err).Msg("Session bus unavailable, media fields disabled")
		return err
	}
	s.conn = conn

	return nil
}

// Sample replaces the player list. Players that fail to answer within the
// query timeout are skipped.
func (s *Sampler) Sample(ctx context.Context, snap *telemetry.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	names, err := s.conn.ListNames(ctx)
	if err != nil {
		return err
	}

	var players []string
	for _, n := range names {
		if strings.HasPrefix(n, busPrefix) {
			players = append(players, n)
		}
	}
	sort.Strings(players)

	var errs []error
	media := make([]telemetry.MediaPlayer, 0, len(players))
	for _, name := range players {
		p, err := s.query(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		media = append(media, p)
	}
	snap.Media = media

	return errors.Join(errs...)
}

func (s *Sampler) query(ctx context.Context, name string) (telemetry.MediaPlayer, error) {
	metaVar, err := s.conn.Property(ctx, name, playerIface, "Metadata")
	if err != nil {
		return telemetry.MediaPlayer{}, err
	}
	metadata, _ := metaVar.Value().(map[string]dbus.Variant)

	// optional properties, not every player implements them
	identity, _ := s.conn.Property(ctx, name, rootIface, "Identity")
	position, _ := s.conn.Property(ctx, name, playerIface, "Position")
	status, _ := s.conn.Property(ctx, name, playerIface, "PlaybackStatus")

	return fromMetadata(playerName(name, identity), metadata, position, status), nil
}

func (s *Sampler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil

	return err
}
