package script

import (
	"strings"

	"codeberg.org/mutker/loopfetch/internal/logger"
	"github.com/dustin/go-humanize"
	lua "github.com/yuin/gopher-lua"
)

// Global names shared with the script.
const (
	GlobalSettings = "SETTINGS"
	GlobalLines    = "INFO_LINES"
	GlobalInfo     = "Info"
	GlobalLoop     = "Loop"
	EntryPoint     = "update"
)

// unsafeGlobals are base library functions that reach the filesystem.
var unsafeGlobals = []string{"dofile", "loadfile", "require", "module"}

// newState creates an environment with only the base, table, string and math
// libraries plus the formatting helpers.
func newState(chunk string) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			logger.Error().Err(err).Str("lib", lib.name).Msg("Failed to open script library")
		}
	}

	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(logPrint(chunk)))
	L.SetGlobal("fmt_bytes", L.NewFunction(fmtBytes))
	L.SetGlobal("fmt_duration", L.NewFunction(fmtDuration))

	return L
}

func logPrint(chunk string) lua.LGFunction {
	return func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		logger.Debug().Str("script", chunk).Msg(strings.Join(parts, "\t"))
		return 0
	}
}

// fmt_bytes(n) formats a byte count with binary prefixes.
func fmtBytes(L *lua.LState) int {
	n := float64(L.CheckNumber(1))
	if n < 0 {
		n = 0
	}
	L.Push(lua.LString(humanize.IBytes(uint64(n))))
	return 1
}

// fmt_duration(secs) formats seconds as "2d 3h 4m", dropping leading zero
// units. Durations under a minute read "0m".
func fmtDuration(L *lua.LState) int {
	L.Push(lua.LString(formatDuration(uint64(max(0, float64(L.CheckNumber(1)))))))
	return 1
}

func formatDuration(secs uint64) string {
	days := secs / 86400
	hours := secs % 86400 / 3600
	mins := secs % 3600 / 60

	var b strings.Builder
	if days > 0 {
		b.WriteString(humanize.Comma(int64(days)) + "d ")
	}
	if days > 0 || hours > 0 {
		b.WriteString(humanize.Comma(int64(hours)) + "h ")
	}
	b.WriteString(humanize.Comma(int64(mins)) + "m")

	return b.String()
}
