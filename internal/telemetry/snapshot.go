package telemetry

import "time"

// Sentinel values used whenever real data is unavailable.
const (
	Unknown     = "unknown"
	UnknownUser = "user"
	UnknownHost = "host"
	NoEditor    = "none"

	BiosUEFI   = "UEFI"
	BiosLegacy = "BIOS"
)

// Mem is an available/total byte pair.
type Mem struct {
	Available uint64
	Total     uint64
}

// Used returns Total - Available, never negative.
func (m Mem) Used() uint64 {
	if m.Available > m.Total {
		return 0
	}
	return m.Total - m.Available
}

type Disk struct {
	Mount string
	Name  string
	Mem   Mem
}

type MediaPlayer struct {
	Name    string
	Song    string
	Artist  string
	Album   string
	ArtURL  string
	Elapsed time.Duration
	Length  time.Duration
	Paused  bool
}

// Snapshot is one complete sample of machine state. It is replaced as a
// whole on every refresh and never mutated once handed out.
type Snapshot struct {
	SampledAt time.Time

	// identity
	User     string
	Host     string
	Device   string
	BiosMode string
	Uptime   uint64

	// software
	OSName         string
	OSVersion      string
	Kernel         string
	LoginManager   string
	DesktopEnv     *string
	WindowManager  string
	WindowProtocol string
	Terminal       string
	Shell          string
	Editor         string

	// compute
	CPUName  string
	CPUCores uint32
	CPUUsage float64
	CPUTemp  float64
	RAM      Mem

	// graphics
	GPUName  string
	GPUFreq  float64
	GPUTemp  float64
	GPUFan   float64
	GPUPower float64
	VRAM     Mem

	Disks []Disk
	Media []MediaPlayer

	Comp string
}

// Blank returns a snapshot with every string field set to its sentinel.
func Blank() Snapshot {
	var s Snapshot
	fillSentinels(&s)
	return s
}

// fillSentinels replaces every empty string with its sentinel value.
func fillSentinels(s *Snapshot) {
	orDefault(&s.User, UnknownUser)
	orDefault(&s.Host, UnknownHost)
	orDefault(&s.Device, Unknown)
	orDefault(&s.BiosMode, BiosLegacy)
	orDefault(&s.OSName, Unknown)
	orDefault(&s.OSVersion, Unknown)
	orDefault(&s.Kernel, Unknown)
	orDefault(&s.LoginManager, Unknown)
	orDefault(&s.WindowManager, Unknown)
	orDefault(&s.WindowProtocol, Unknown)
	orDefault(&s.Terminal, Unknown)
	orDefault(&s.Shell, Unknown)
	orDefault(&s.Editor, NoEditor)
	orDefault(&s.CPUName, Unknown)
	orDefault(&s.GPUName, Unknown)
	orDefault(&s.Comp, Unknown)

	if s.DesktopEnv != nil && (*s.DesktopEnv == "" || *s.DesktopEnv == s.WindowManager) {
		s.DesktopEnv = nil
	}

	if s.Disks == nil {
		s.Disks = []Disk{}
	}
	for i := range s.Disks {
		orDefault(&s.Disks[i].Mount, Unknown)
		orDefault(&s.Disks[i].Name, Unknown)
	}

	if s.Media == nil {
		s.Media = []MediaPlayer{}
	}
	for i := range s.Media {
		m := &s.Media[i]
		orDefault(&m.Name, Unknown)
		orDefault(&m.Song, Unknown)
		orDefault(&m.Artist, Unknown)
		orDefault(&m.Album, Unknown)
		orDefault(&m.ArtURL, Unknown)
	}
}

func orDefault(field *string, sentinel string) {
	if *field == "" {
		*field = sentinel
	}
}
