// Package settings holds the typed, defaulted configuration a script may
// declare, and the store that owns the current value.
package settings

import "unicode"

const (
	DefaultFPS  uint32 = 24
	DefaultTPS  uint32 = 12
	DefaultRPS  uint32 = 3
	DefaultComp        = "unknown"

	MaxRate    uint32 = 240
	MaxDivisor uint32 = 65535
)

// Layout is the axis along which the two display regions are stacked.
type Layout uint8

const (
	Horizontal Layout = iota
	Vertical
)

// Toggle returns the other layout.
func (l Layout) Toggle() Layout {
	if l == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (l Layout) String() string {
	if l == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseLayout matches the first character of s case-insensitively. Anything
// unrecognized is the default layout.
func ParseLayout(s string) Layout {
	switch firstLower(s) {
	case 'h':
		return Horizontal
	case 'v':
		return Vertical
	default:
		return Horizontal
	}
}

// Order decides which region is drawn first.
type Order uint8

const (
	TelemetryFirst Order = iota
	SecondaryFirst
)

// Toggle returns the other order.
func (o Order) Toggle() Order {
	if o == TelemetryFirst {
		return SecondaryFirst
	}
	return TelemetryFirst
}

// Names returns the script representation, first element first.
func (o Order) Names() [2]string {
	if o == SecondaryFirst {
		return [2]string{"ascii", "info"}
	}
	return [2]string{"info", "ascii"}
}

func (o Order) String() string {
	return o.Names()[0] + "," + o.Names()[1]
}

// ParseOrder matches the first character of the leading element name.
func ParseOrder(first string) Order {
	switch firstLower(first) {
	case 'i':
		return TelemetryFirst
	case 'a':
		return SecondaryFirst
	default:
		return TelemetryFirst
	}
}

func firstLower(s string) rune {
	for _, r := range s {
		return unicode.ToLower(r)
	}
	return 0
}

// Vars is the free-form bag shared with the script.
type Vars struct {
	Comp string
}

type Settings struct {
	FPS    uint32
	TPS    uint32
	RPS    uint32
	Layout Layout
	Order  Order
	Vars   Vars
}

// Default returns the compile-time defaults.
func Default() Settings {
	return Settings{
		FPS:    DefaultFPS,
		TPS:    DefaultTPS,
		RPS:    DefaultRPS,
		Layout: Horizontal,
		Order:  TelemetryFirst,
		Vars:   Vars{Comp: DefaultComp},
	}
}

// ClampRate bounds a render or logic rate to [1, MaxRate].
func ClampRate(v uint32) uint32 {
	return clamp(v, 1, MaxRate)
}

// ClampDivisor bounds the refresh divisor to [1, MaxDivisor]. Zero is never
// a valid divisor.
func ClampDivisor(v uint32) uint32 {
	return clamp(v, 1, MaxDivisor)
}

func clamp(value, minValue, maxValue uint32) uint32 {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}

	return value
}
