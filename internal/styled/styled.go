// Package styled holds the render-ready line model shared by the script
// bridge and the display.
package styled

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Channel values used when a hex pair does not parse.
const (
	fallbackRed   = 255
	fallbackGreen = 0
	fallbackBlue  = 0
)

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses a 6 digit hex color with optional leading '#'. A string of
// the wrong length yields ok == false. Pairs that are not valid hex are
// replaced with the fallback channel value instead of failing.
func ParseHex(s string) (RGB, bool) {
	s = strings.TrimLeft(s, "#")
	if len(s) != 6 {
		return RGB{}, false
	}

	return RGB{
		R: parsePair(s[0:2], fallbackRed),
		G: parsePair(s[2:4], fallbackGreen),
		B: parsePair(s[4:6], fallbackBlue),
	}, true
}

func parsePair(pair string, fallback uint8) uint8 {
	v, err := strconv.ParseUint(pair, 16, 8)
	if err != nil {
		return fallback
	}
	return uint8(v)
}

// Style is the subset of terminal styling a span can carry. Nil colors are
// unset.
type Style struct {
	FG     *RGB
	BG     *RGB
	Bold   bool
	Italic bool
}

// IsZero reports whether no attribute is set.
func (s Style) IsZero() bool {
	return s.FG == nil && s.BG == nil && !s.Bold && !s.Italic
}

type Span struct {
	Text  string
	Style Style
}

type Line []Span

// Width is the number of runes across all spans.
func (l Line) Width() int {
	n := 0
	for _, s := range l {
		n += utf8.RuneCountInString(s.Text)
	}
	return n
}

// Text concatenates the span texts.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Set is an ordered sequence of lines.
type Set []Line

// Width is the widest line of the set.
func (s Set) Width() int {
	w := 0
	for _, l := range s {
		w = max(w, l.Width())
	}
	return w
}

// Plain builds a set of unstyled single-span lines.
func Plain(lines ...string) Set {
	set := make(Set, 0, len(lines))
	for _, l := range lines {
		set = append(set, Line{{Text: l}})
	}
	return set
}
