package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleIsInvolution(t *testing.T) {
	for _, l := range []Layout{Horizontal, Vertical} {
		assert.NotEqual(t, l, l.Toggle())
		assert.Equal(t, l, l.Toggle().Toggle())
	}
	for _, o := range []Order{TelemetryFirst, SecondaryFirst} {
		assert.NotEqual(t, o, o.Toggle())
		assert.Equal(t, o, o.Toggle().Toggle())
	}
}

func TestStoreTogglesTwiceRestore(t *testing.T) {
	s := NewStore()
	s.Apply(Settings{FPS: 30, TPS: 10, RPS: 2, Layout: Vertical, Order: SecondaryFirst, Vars: Vars{Comp: "picom"}})
	before := s.Current()

	s.ToggleLayout()
	assert.Equal(t, Horizontal, s.Layout())
	s.ToggleLayout()
	s.ToggleOrder()
	assert.Equal(t, TelemetryFirst, s.Order())
	s.ToggleOrder()

	assert.Equal(t, before, s.Current())
}

func TestParseLayout(t *testing.T) {
	tests := map[string]Layout{
		"horizontal": Horizontal,
		"Vertical":   Vertical,
		"v":          Vertical,
		"VERT":       Vertical,
		"hz":         Horizontal,
		"diagonal":   Horizontal,
		"":           Horizontal,
		" vertical":  Horizontal,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLayout(in), in)
	}
}

func TestParseOrder(t *testing.T) {
	tests := map[string]Order{
		"info":  TelemetryFirst,
		"ascii": SecondaryFirst,
		"Ascii": SecondaryFirst,
		"I":     TelemetryFirst,
		"zzz":   TelemetryFirst,
		"":      TelemetryFirst,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseOrder(in), in)
	}
}

func TestApplyIsFullReplaceAndClamps(t *testing.T) {
	s := NewStore()
	s.ToggleLayout()

	s.Apply(Settings{})

	got := s.Current()
	assert.Equal(t, uint32(1), got.FPS)
	assert.Equal(t, uint32(1), got.TPS)
	assert.Equal(t, uint32(1), got.RPS)
	assert.Equal(t, Horizontal, got.Layout)
	assert.Equal(t, DefaultComp, got.Vars.Comp)

	s.Apply(Settings{FPS: 1000, TPS: 500, RPS: 70000, Vars: Vars{Comp: "x"}})
	assert.Equal(t, MaxRate, s.FPS())
	assert.Equal(t, MaxRate, s.TPS())
	assert.Equal(t, MaxDivisor, s.RPS())
	assert.Equal(t, "x", s.Vars().Comp)
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, uint32(24), d.FPS)
	assert.Equal(t, uint32(12), d.TPS)
	assert.Equal(t, uint32(3), d.RPS)
	assert.Equal(t, Horizontal, d.Layout)
	assert.Equal(t, TelemetryFirst, d.Order)
	assert.Equal(t, "unknown", d.Vars.Comp)
	assert.Equal(t, [2]string{"info", "ascii"}, d.Order.Names())
	assert.Equal(t, "vertical", Vertical.String())
}
