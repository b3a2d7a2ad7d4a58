package sysinfo

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/telemetry"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	productNamePath = "sys/devices/virtual/dmi/id/product_name"
	efiPath         = "sys/firmware/efi"
	displayManager  = "etc/systemd/system/display-manager.service"
	maxParentHops   = 16
)

// Sampler reads host, CPU, memory, disk and desktop session state through
// gopsutil, the environment and a few well-known files.
type Sampler struct {
	root       string
	getenv     func(string) string
	errFactory errors.Factory
}

type Option func(*Sampler)

// WithRoot resolves sysfs and /etc paths below root.
func WithRoot(root string) Option {
	return func(s *Sampler) { s.root = root }
}

// WithEnv replaces os.Getenv.
func WithEnv(getenv func(string) string) Option {
	return func(s *Sampler) { s.getenv = getenv }
}

func New(opts ...Option) *Sampler {
	s := &Sampler{
		root:       "/",
		getenv:     os.Getenv,
		errFactory: errors.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (*Sampler) Name() string { return "sysinfo" }

func (*Sampler) Close() error { return nil }

// SampleStatic reads values fixed for the life of the process.
func (s *Sampler) SampleStatic(ctx context.Context, snap *telemetry.Snapshot) error {
	var errs []error

	s.sampleProduct(snap)
	s.sampleSession(snap)

	if info, err := host.InfoWithContext(ctx); err == nil {
		snap.OSName = osName(info.Platform)
		snap.OSVersion = info.PlatformVersion
		snap.Kernel = info.KernelVersion
	} else {
		errs = append(errs, s.errFactory.Wrap(ErrHostInfo, err))
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		snap.CPUName = CleanCPUName(infos[0].ModelName)
	} else if err != nil {
		errs = append(errs, s.errFactory.Wrap(ErrCPUInfo, err))
	}
	if cores, err := cpu.CountsWithContext(ctx, true); err == nil && cores > 0 {
		snap.CPUCores = uint32(cores)
	}

	if names, err := processNames(ctx); err == nil {
		if wm, ok := matchWindowManager(names); ok {
			snap.WindowManager = wm
		}
	} else {
		errs = append(errs, s.errFactory.Wrap(ErrProcessInfo, err))
	}

	// prime the usage counter so the first refresh has a delta
	if _, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		errs = append(errs, s.errFactory.Wrap(ErrCPUInfo, err))
	}

	return errors.Join(errs...)
}

func (s *Sampler) sampleProduct(snap *telemetry.Snapshot) {
	if b, err := os.ReadFile(s.path(productNamePath)); err == nil {
		if name := strings.TrimSpace(string(b)); name != "" {
			snap.Device = strings.ToUpper(name)
		}
	}

	snap.BiosMode = telemetry.BiosLegacy
	if _, err := os.Stat(s.path(efiPath)); err == nil {
		snap.BiosMode = telemetry.BiosUEFI
	}

	if target, err := os.Readlink(s.path(displayManager)); err == nil {
		snap.LoginManager = strings.TrimSuffix(filepath.Base(target), ".service")
	}
}

func (s *Sampler) sampleSession(snap *telemetry.Snapshot) {
	snap.WindowProtocol = strings.ToLower(s.getenv("XDG_SESSION_TYPE"))
	if de := firstDesktop(s.getenv("XDG_CURRENT_DESKTOP")); de != "" {
		snap.DesktopEnv = &de
	}
}

// Sample reads values that change while the process runs.
func (s *Sampler) Sample(ctx context.Context, snap *telemetry.Snapshot) error {
	var errs []error

	s.sampleEnv(snap)

	if info, err := host.InfoWithContext(ctx); err == nil {
		snap.Host = strings.ToLower(info.Hostname)
		snap.Uptime = info.Uptime
	} else {
		errs = append(errs, s.errFactory.Wrap(ErrHostInfo, err))
	}

	if chain, err := parentNames(ctx, int32(os.Getppid())); err == nil {
		if term, ok := pickTerminal(chain); ok {
			snap.Terminal = term
		}
	}

	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		snap.CPUUsage = pct[0]
	} else if err != nil {
		errs = append(errs, s.errFactory.Wrap(ErrCPUInfo, err))
	}

	if temps, err := host.SensorsTemperaturesWithContext(ctx); len(temps) > 0 {
		if t, ok := cpuTemperature(temps); ok {
			snap.CPUTemp = t
		}
	} else if err != nil {
		errs = append(errs, s.errFactory.Wrap(ErrSensorInfo, err))
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.RAM = telemetry.Mem{Available: vm.Available, Total: vm.Total}
	} else {
		errs = append(errs, s.errFactory.Wrap(ErrMemoryInfo, err))
	}

	if disks, err := s.disks(ctx); err == nil {
		snap.Disks = disks
	} else {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (s *Sampler) sampleEnv(snap *telemetry.Snapshot) {
	snap.User = strings.ToLower(s.getenv("USER"))
	if sh := s.getenv("SHELL"); sh != "" {
		snap.Shell = strings.ToLower(filepath.Base(sh))
	}
	if ed := s.getenv("EDITOR"); ed != "" {
		snap.Editor = strings.ToLower(filepath.Base(ed))
	}
}

func (s *Sampler) disks(ctx context.Context) ([]telemetry.Disk, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, s.errFactory.Wrap(ErrDiskInfo, err)
	}

	seen := make(map[string]bool, len(parts))
	out := make([]telemetry.Disk, 0, len(parts))
	for _, p := range parts {
		if seen[p.Mountpoint] || telemetry.IsReservedMount(p.Mountpoint) {
			continue
		}
		seen[p.Mountpoint] = true

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			continue
		}
		out = append(out, telemetry.Disk{
			Mount: p.Mountpoint,
			Mem:   telemetry.Mem{Available: usage.Free, Total: usage.Total},
		})
	}

	return telemetry.FilterDisks(out), nil
}

func (s *Sampler) path(rel string) string {
	return filepath.Join(s.root, rel)
}

func osName(platform string) string {
	name := strings.ToLower(platform)
	if strings.Contains(name, "linux") {
		name = strings.TrimSpace(strings.ReplaceAll(name, "linux", ""))
	}
	return name
}

func processNames(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(procs))
	for _, p := range procs {
		if name, err := p.NameWithContext(ctx); err == nil {
			names = append(names, name)
		}
	}
	return names, nil
}

// parentNames returns process names from pid upwards, nearest first.
func parentNames(ctx context.Context, pid int32) ([]string, error) {
	var chain []string
	for hop := 0; hop < maxParentHops && pid > 1; hop++ {
		p, err := process.NewProcessWithContext(ctx, pid)
		if err != nil {
			if hop == 0 {
				return nil, err
			}
			break
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			break
		}
		chain = append(chain, name)

		if pid, err = p.PpidWithContext(ctx); err != nil {
			break
		}
	}
	return chain, nil
}
