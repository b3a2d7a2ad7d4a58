package telemetry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveMedia(t *testing.T) {
	tests := []struct {
		name    string
		players []string
		want    int
		wantOK  bool
	}{
		{"precedence over order", []string{"vlc", "spotify"}, 1, true},
		{"no match uses first", []string{"browser-x"}, 0, true},
		{"empty", nil, 0, false},
		{"substring and case", []string{"Mozilla Firefox", "org.mpris.MediaPlayer2.mpv"}, 1, true},
		{"first of equal rank", []string{"chrome", "chromium-chrome"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			players := make([]MediaPlayer, len(tt.players))
			for i, n := range tt.players {
				players[i] = MediaPlayer{Name: n}
			}
			idx, ok := ActiveMedia(players)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, idx)
			}
		})
	}
}

func TestFilterDisks(t *testing.T) {
	in := []Disk{
		{Mount: "/", Mem: Mem{Available: 10, Total: 100}},
		{Mount: "/boot/efi"},
		{Mount: "/home"},
		{Mount: "/run/user/1000"},
		{Mount: "/mnt/data/"},
		{Mount: "/variety"},
	}

	out := FilterDisks(in)
	require.Len(t, out, 4)
	assert.Equal(t, "root", out[0].Name)
	assert.Equal(t, Mem{Available: 10, Total: 100}, out[0].Mem)
	assert.Equal(t, "home", out[1].Name)
	assert.Equal(t, "data", out[2].Name)
	assert.Equal(t, "variety", out[3].Name)
}

func TestMemUsed(t *testing.T) {
	assert.Equal(t, uint64(60), Mem{Available: 40, Total: 100}.Used())
	assert.Equal(t, uint64(0), Mem{Available: 200, Total: 100}.Used())
}

func TestJoinArtists(t *testing.T) {
	assert.Equal(t, Unknown, JoinArtists(nil))
	assert.Equal(t, "A, B", JoinArtists([]string{"A", " ", "B"}))
}

func TestBlankSentinels(t *testing.T) {
	s := Blank()
	assert.Equal(t, UnknownUser, s.User)
	assert.Equal(t, UnknownHost, s.Host)
	assert.Equal(t, NoEditor, s.Editor)
	assert.Equal(t, Unknown, s.Kernel)
	assert.Equal(t, Unknown, s.Comp)
	assert.NotNil(t, s.Disks)
	assert.NotNil(t, s.Media)
	assert.Nil(t, s.DesktopEnv)
}

type fakeSampler struct {
	name        string
	staticCalls int
	calls       int
	failDynamic bool
	closeErr    error
}

func (f *fakeSampler) Name() string { return f.name }

func (f *fakeSampler) SampleStatic(_ context.Context, s *Snapshot) error {
	f.staticCalls++
	s.Kernel = "6.1.0"
	s.CPUCores = 8
	return nil
}

func (f *fakeSampler) Sample(_ context.Context, s *Snapshot) error {
	f.calls++
	if f.failDynamic {
		return fmt.Errorf("sensor gone")
	}
	s.CPUUsage = float64(f.calls)
	s.Disks = []Disk{{Mount: "/", Name: "root"}}
	return nil
}

func (f *fakeSampler) Close() error { return f.closeErr }

func TestCollectorStaticOnce(t *testing.T) {
	f := &fakeSampler{name: "fake"}
	c, err := NewCollector(f)
	require.NoError(t, err)

	first := c.Fetch(context.Background(), "picom")
	assert.Equal(t, "6.1.0", first.Kernel)
	assert.Equal(t, "picom", first.Comp)
	assert.Equal(t, 1.0, first.CPUUsage)

	second := c.Refresh(context.Background(), "")
	assert.Equal(t, 1, f.staticCalls)
	assert.Equal(t, 2, f.calls)
	assert.Equal(t, "6.1.0", second.Kernel)
	assert.Equal(t, uint32(8), second.CPUCores)
	assert.Equal(t, 2.0, second.CPUUsage)
	assert.Equal(t, Unknown, second.Comp)

	// snapshots are independent values
	assert.Equal(t, 1.0, first.CPUUsage)
}

func TestCollectorDegradedSampler(t *testing.T) {
	f := &fakeSampler{name: "fake", failDynamic: true}
	c, err := NewCollector(f)
	require.NoError(t, err)

	s := c.Refresh(context.Background(), "x")
	assert.Equal(t, 1, f.staticCalls)
	assert.Equal(t, 0.0, s.CPUUsage)
	assert.Empty(t, s.Disks)
	assert.Equal(t, UnknownUser, s.User)
}

func TestCollectorSampledAt(t *testing.T) {
	c, err := NewCollector(&fakeSampler{name: "fake"})
	require.NoError(t, err)
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return at }

	assert.Equal(t, at, c.Fetch(context.Background(), "").SampledAt)
}

func TestCollectorClose(t *testing.T) {
	_, err := NewCollector()
	require.Error(t, err)

	c, err := NewCollector(&fakeSampler{name: "a"}, &fakeSampler{name: "b", closeErr: fmt.Errorf("busy")})
	require.NoError(t, err)
	err = c.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
}
