package script

import (
	"math"

	lua "github.com/yuin/gopher-lua"
)

// The accessors below are the only way values leave the script. Each one
// returns def when the value is absent, of the wrong type or empty.

func tableOf(v lua.LValue) (*lua.LTable, bool) {
	t, ok := v.(*lua.LTable)
	return t, ok
}

func field(t *lua.LTable, key string) lua.LValue {
	if t == nil {
		return lua.LNil
	}
	return t.RawGetString(key)
}

func stringOr(v lua.LValue, def string) string {
	switch s := v.(type) {
	case lua.LString:
		if s != "" {
			return string(s)
		}
	case lua.LNumber:
		return s.String()
	}
	return def
}

func numberOr(v lua.LValue, def float64) float64 {
	n, ok := v.(lua.LNumber)
	if !ok || math.IsNaN(float64(n)) {
		return def
	}
	return float64(n)
}

// uintOr truncates a number to uint32, saturating at both ends, then applies
// clamp.
func uintOr(v lua.LValue, def uint32, clamp func(uint32) uint32) uint32 {
	n := numberOr(v, math.NaN())
	if math.IsNaN(n) {
		return def
	}

	var u uint32
	switch {
	case n <= 0:
		u = 0
	case n >= math.MaxUint32:
		u = math.MaxUint32
	default:
		u = uint32(n)
	}

	return clamp(u)
}

func boolOr(v lua.LValue, def bool) bool {
	b, ok := v.(lua.LBool)
	if !ok {
		return def
	}
	return bool(b)
}

// firstString reads element 1 of a sequence as a string.
func firstString(v lua.LValue) (string, bool) {
	t, ok := tableOf(v)
	if !ok {
		return "", false
	}
	s := stringOr(t.RawGetInt(1), "")
	return s, s != ""
}
