package sysinfo

import (
	"strings"

	"codeberg.org/mutker/loopfetch/internal/telemetry"
	"github.com/shirou/gopsutil/v3/host"
)

var cpuNoise = []string{"(R)", "(TM)", "CPU", "Processor", "Intel", "AMD", "Apple"}

// cpuSensors are hwmon chip names that report the package temperature.
var cpuSensors = []string{"coretemp", "k10temp", "zenpower"}

// CleanCPUName strips vendor words, the clock suffix after '@' and core count
// words from a model name. The result is lowercase.
func CleanCPUName(raw string) string {
	for _, noise := range cpuNoise {
		raw = strings.ReplaceAll(raw, noise, "")
	}
	if at := strings.IndexByte(raw, '@'); at >= 0 {
		raw = raw[:at]
	}

	var parts []string
	for _, word := range strings.Fields(raw) {
		lw := strings.ToLower(word)
		if lw == "core" || strings.HasSuffix(lw, "-core") {
			continue
		}
		parts = append(parts, lw)
	}

	if len(parts) == 0 {
		return telemetry.Unknown
	}

	return strings.Join(parts, " ")
}

// cpuTemperature returns the first reading from a known CPU sensor chip.
func cpuTemperature(temps []host.TemperatureStat) (float64, bool) {
	for _, chip := range cpuSensors {
		for _, t := range temps {
			if strings.Contains(t.SensorKey, chip) && t.Temperature > 0 {
				return t.Temperature, true
			}
		}
	}
	return 0, false
}
