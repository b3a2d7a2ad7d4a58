package script

import (
	"codeberg.org/mutker/loopfetch/internal/settings"
	"codeberg.org/mutker/loopfetch/internal/styled"
	lua "github.com/yuin/gopher-lua"
)

// Pull reads SETTINGS and INFO_LINES back. It never fails: anything absent or
// malformed becomes its default, field by field.
func (b *Bridge) Pull() (settings.Settings, styled.Set) {
	return parseSettings(b.L.GetGlobal(GlobalSettings)), parseLines(b.L.GetGlobal(GlobalLines))
}

func parseSettings(v lua.LValue) settings.Settings {
	st := settings.Default()

	t, ok := tableOf(v)
	if !ok {
		return st
	}

	st.FPS = uintOr(field(t, "fps"), st.FPS, settings.ClampRate)
	st.TPS = uintOr(field(t, "tps"), st.TPS, settings.ClampRate)
	st.RPS = uintOr(field(t, "rps"), st.RPS, settings.ClampDivisor)

	if s := stringOr(field(t, "layout"), ""); s != "" {
		st.Layout = settings.ParseLayout(s)
	}
	if first, ok := firstString(field(t, "order")); ok {
		st.Order = settings.ParseOrder(first)
	}
	if vars, ok := tableOf(field(t, "vars")); ok {
		st.Vars.Comp = stringOr(field(vars, "comp"), st.Vars.Comp)
	}

	return st
}

// parseLines keeps one output line per sequence index so a malformed entry
// never shifts the lines after it.
func parseLines(v lua.LValue) styled.Set {
	t, ok := tableOf(v)
	if !ok {
		return styled.Set{}
	}

	n := t.Len()
	set := make(styled.Set, 0, n)
	for i := 1; i <= n; i++ {
		set = append(set, parseLine(t.RawGetInt(i)))
	}

	return set
}

func parseLine(v lua.LValue) styled.Line {
	t, ok := tableOf(v)
	if !ok {
		return styled.Line{}
	}

	n := t.Len()
	line := make(styled.Line, 0, n)
	for i := 1; i <= n; i++ {
		span, ok := tableOf(t.RawGetInt(i))
		if !ok {
			continue
		}
		line = append(line, styled.Span{
			Text:  stringOr(field(span, "text"), ""),
			Style: parseStyle(field(span, "style")),
		})
	}

	return line
}

func parseStyle(v lua.LValue) styled.Style {
	var st styled.Style

	t, ok := tableOf(v)
	if !ok {
		return st
	}

	st.FG = parseColor(field(t, "fg"))
	st.BG = parseColor(field(t, "bg"))
	st.Bold = boolOr(field(t, "bold"), false)
	st.Italic = boolOr(field(t, "italic"), false)

	return st
}

func parseColor(v lua.LValue) *styled.RGB {
	s := stringOr(v, "")
	if s == "" {
		return nil
	}
	c, ok := styled.ParseHex(s)
	if !ok {
		return nil
	}
	return &c
}
