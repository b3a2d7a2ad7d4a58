package media

import (
	"context"
	"fmt"
	"testing"
	"time"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/telemetry"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	names  []string
	props  map[string]dbus.Variant
	closed bool
}

func (b *fakeBus) ListNames(context.Context) ([]string, error) { return b.names, nil }

func (b *fakeBus) Property(_ context.Context, dest, _, prop string) (dbus.Variant, error) {
	v, ok := b.props[dest+"/"+prop]
	if !ok {
		return dbus.Variant{}, fmt.Errorf("no property %s", prop)
	}
	return v, nil
}

func (b *fakeBus) Close() error {
	b.closed = true
	return nil
}

func TestSampleListsPlayers(t *testing.T) {
	spotify := busPrefix + "spotify"
	b := &fakeBus{
		names: []string{"org.freedesktop.Notifications", spotify, busPrefix + "broken"},
		props: map[string]dbus.Variant{
			spotify + "/Identity": dbus.MakeVariant("Spotify"),
			spotify + "/Metadata": dbus.MakeVariant(map[string]dbus.Variant{
				"xesam:title":  dbus.MakeVariant("Song"),
				"xesam:artist": dbus.MakeVariant([]string{"A", "B"}),
				"mpris:length": dbus.MakeVariant(int64(180_000_000)),
			}),
			spotify + "/Position":       dbus.MakeVariant(int64(30_000_000)),
			spotify + "/PlaybackStatus": dbus.MakeVariant("Playing"),
		},
	}

	s := newSampler(func() (bus, error) { return b, nil })
	snap := telemetry.Blank()
	require.NoError(t, s.SampleStatic(context.Background(), &snap))

	err := s.Sample(context.Background(), &snap)
	require.Error(t, err)
	require.Len(t, snap.Media, 1)

	p := snap.Media[0]
	assert.Equal(t, "spotify", p.Name)
	assert.Equal(t, "Song", p.Song)
	assert.Equal(t, "A, B", p.Artist)
	assert.Equal(t, "", p.Album)
	assert.Equal(t, 3*time.Minute, p.Length)
	assert.Equal(t, 30*time.Second, p.Elapsed)
	assert.False(t, p.Paused)

	require.NoError(t, s.Close())
	assert.True(t, b.closed)
}

func TestFromMetadataDefaults(t *testing.T) {
	p := fromMetadata("mpv", nil, dbus.Variant{}, dbus.MakeVariant("Paused"))
	assert.Equal(t, "mpv", p.Name)
	assert.Empty(t, p.Song)
	assert.Zero(t, p.Length)
	assert.True(t, p.Paused)
}

func TestPlayerNameFallback(t *testing.T) {
	assert.Equal(t, "vlc", playerName(busPrefix+"vlc", dbus.Variant{}))
	assert.Equal(t, "mozilla firefox", playerName(busPrefix+"firefox.instance_1", dbus.MakeVariant("Mozilla Firefox")))
}

func TestMicros(t *testing.T) {
	assert.Equal(t, time.Second, micros(dbus.MakeVariant(uint64(1_000_000))))
	assert.Zero(t, micros(dbus.MakeVariant(int64(-5))))
	assert.Zero(t, micros(dbus.MakeVariant("x")))
}

func TestDegradedWithoutBus(t *testing.T) {
	s := newSampler(func() (bus, error) { return nil, errors.New().New(ErrBusConnect) })
	snap := telemetry.Blank()

	require.Error(t, s.SampleStatic(context.Background(), &snap))
	require.NoError(t, s.Sample(context.Background(), &snap))
	assert.Empty(t, snap.Media)
	assert.True(t, errors.HasCode(s.SampleStatic(context.Background(), &snap), ErrNotConnected))
}
