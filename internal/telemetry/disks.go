package telemetry

import (
	"path"
	"strings"
)

// reservedMounts are system mount prefixes that are never shown.
var reservedMounts = []string{"/run", "/boot", "/dev", "/proc", "/sys", "/tmp", "/var", "/snap"}

// IsReservedMount reports whether mnt is one of the reserved prefixes or
// lives below one.
func IsReservedMount(mnt string) bool {
	for _, p := range reservedMounts {
		if mnt == p || strings.HasPrefix(mnt, p+"/") {
			return true
		}
	}
	return false
}

// DiskName is "root" for the root mount and the last path element otherwise.
func DiskName(mnt string) string {
	if mnt == "/" {
		return "root"
	}
	name := path.Base(strings.TrimRight(mnt, "/"))
	if name == "" || name == "." || name == "/" {
		return Unknown
	}
	return name
}

// FilterDisks drops reserved mounts and names the rest, keeping order.
func FilterDisks(disks []Disk) []Disk {
	out := make([]Disk, 0, len(disks))
	for _, d := range disks {
		if IsReservedMount(d.Mount) {
			continue
		}
		d.Name = DiskName(d.Mount)
		out = append(out, d)
	}
	return out
}
