package script

import (
	"strconv"
	"unicode/utf8"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/settings"
	"codeberg.org/mutker/loopfetch/internal/telemetry"
	lua "github.com/yuin/gopher-lua"
)

// Loop describes the running loops to the script.
type Loop struct {
	Frame     uint64
	Tick      uint64
	FPS       float64
	TPS       float64
	TargetFPS uint32
	TargetTPS uint32
}

// Globals is everything pushed into the environment before an evaluation.
type Globals struct {
	Snapshot telemetry.Snapshot
	Settings settings.Settings
	Loop     Loop
	// SkipSettings leaves SETTINGS alone so a freshly loaded script sees only
	// its own declarations.
	SkipSettings bool
}

// tableWriter sets fields on a new table. A string that cannot be passed
// keeps the value the same path held in prev, if any.
type tableWriter struct {
	t    *lua.LTable
	prev *lua.LTable
	path string
	errs *[]error
}

func newWriter(L *lua.LState, prev lua.LValue, path string, errs *[]error) tableWriter {
	p, _ := tableOf(prev)
	return tableWriter{t: L.NewTable(), prev: p, path: path, errs: errs}
}

func (w tableWriter) str(key, v string) {
	if utf8.ValidString(v) {
		w.t.RawSetString(key, lua.LString(v))
		return
	}

	*w.errs = append(*w.errs, errors.New().WithData(ErrMarshal, w.path+"."+key))
	if w.prev != nil {
		w.t.RawSetString(key, w.prev.RawGetString(key))
	}
}

func (w tableWriter) num(key string, v float64) {
	w.t.RawSetString(key, lua.LNumber(v))
}

func (w tableWriter) flag(key string, v bool) {
	w.t.RawSetString(key, lua.LBool(v))
}

// prevItem returns the previous element at the 0-based index i.
func (w tableWriter) prevItem(i int) lua.LValue {
	if w.prev == nil {
		return lua.LNil
	}
	return w.prev.RawGetInt(i + 1)
}

func (w tableWriter) mem(L *lua.LState, key string, m telemetry.Mem) {
	c := newWriter(L, field(w.prev, key), w.path+"."+key, w.errs)
	c.num("available", float64(m.Available))
	c.num("total", float64(m.Total))
	w.t.RawSetString(key, c.t)
}

// Push writes the Info and Loop tables, and SETTINGS unless skipped. Every
// field is written independently; the joined MarshalErrors name the fields
// that kept their previous value.
func (b *Bridge) Push(g Globals) error {
	var errs []error
	L := b.L

	L.SetGlobal(GlobalInfo, b.infoTable(g.Snapshot, &errs))
	L.SetGlobal(GlobalLoop, loopTable(L, g.Loop))

	if !g.SkipSettings {
		b.pushSettings(g.Settings, &errs)
	}

	return errors.Join(errs...)
}

func (b *Bridge) infoTable(s telemetry.Snapshot, errs *[]error) *lua.LTable {
	L := b.L
	w := newWriter(L, L.GetGlobal(GlobalInfo), GlobalInfo, errs)

	w.str("user", s.User)
	w.str("host", s.Host)
	w.str("device", s.Device)
	w.str("bios", s.BiosMode)
	w.num("uptime", float64(s.Uptime))

	w.str("os_name", s.OSName)
	w.str("os_version", s.OSVersion)
	w.str("kernel", s.Kernel)
	w.str("login_manager", s.LoginManager)
	if s.DesktopEnv != nil {
		w.str("desktop_env", *s.DesktopEnv)
	}
	w.str("window_manager", s.WindowManager)
	w.str("window_protocol", s.WindowProtocol)
	w.str("terminal", s.Terminal)
	w.str("shell", s.Shell)
	w.str("editor", s.Editor)

	w.str("cpu_name", s.CPUName)
	w.num("cpu_cores", float64(s.CPUCores))
	w.num("cpu_usage", s.CPUUsage)
	w.num("cpu_temp", s.CPUTemp)
	w.mem(L, "ram", s.RAM)

	w.str("gpu_name", s.GPUName)
	w.num("gpu_freq", s.GPUFreq)
	w.num("gpu_temp", s.GPUTemp)
	w.num("gpu_fan", s.GPUFan)
	w.num("gpu_power", s.GPUPower)
	w.mem(L, "vram", s.VRAM)

	disks := newWriter(L, field(w.prev, "disks"), GlobalInfo+".disks", errs)
	for i, d := range s.Disks {
		item := newWriter(L, disks.prevItem(i), indexPath(disks.path, i), errs)
		item.str("mount", d.Mount)
		item.str("name", d.Name)
		item.mem(L, "mem", d.Mem)
		disks.t.RawSetInt(i+1, item.t)
	}
	w.t.RawSetString("disks", disks.t)

	media := newWriter(L, field(w.prev, "media"), GlobalInfo+".media", errs)
	for i, m := range s.Media {
		item := newWriter(L, media.prevItem(i), indexPath(media.path, i), errs)
		item.str("name", m.Name)
		item.str("song", m.Song)
		item.str("artist", m.Artist)
		item.str("album", m.Album)
		item.str("art_url", m.ArtURL)
		item.num("elapsed", m.Elapsed.Seconds())
		item.num("length", m.Length.Seconds())
		item.flag("paused", m.Paused)
		media.t.RawSetInt(i+1, item.t)
	}
	w.t.RawSetString("media", media.t)

	if idx, ok := telemetry.ActiveMedia(s.Media); ok {
		w.num("active_media", float64(idx+1))
	}

	w.str("comp", s.Comp)

	return w.t
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i+1) + "]"
}

func loopTable(L *lua.LState, l Loop) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("frame", lua.LNumber(l.Frame))
	t.RawSetString("tick", lua.LNumber(l.Tick))
	t.RawSetString("fps", lua.LNumber(l.FPS))
	t.RawSetString("tps", lua.LNumber(l.TPS))
	t.RawSetString("target_fps", lua.LNumber(l.TargetFPS))
	t.RawSetString("target_tps", lua.LNumber(l.TargetTPS))
	return t
}

// pushSettings writes into the existing SETTINGS table so script-side keys
// the native side does not know survive.
func (b *Bridge) pushSettings(st settings.Settings, errs *[]error) {
	L := b.L

	t, ok := tableOf(L.GetGlobal(GlobalSettings))
	if !ok {
		t = L.NewTable()
		L.SetGlobal(GlobalSettings, t)
	}

	t.RawSetString("fps", lua.LNumber(st.FPS))
	t.RawSetString("tps", lua.LNumber(st.TPS))
	t.RawSetString("rps", lua.LNumber(st.RPS))
	t.RawSetString("layout", lua.LString(st.Layout.String()))

	names := st.Order.Names()
	order := L.NewTable()
	order.RawSetInt(1, lua.LString(names[0]))
	order.RawSetInt(2, lua.LString(names[1]))
	t.RawSetString("order", order)

	vars, ok := tableOf(t.RawGetString("vars"))
	if !ok {
		vars = L.NewTable()
		t.RawSetString("vars", vars)
	}
	w := tableWriter{t: vars, prev: vars, path: GlobalSettings + ".vars", errs: errs}
	w.str("comp", st.Vars.Comp)
}
