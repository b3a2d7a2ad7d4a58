package gpu

import (
	"strings"
	"unicode"

	"codeberg.org/mutker/loopfetch/internal/telemetry"
)

var vendorNoise = []string{
	"NVIDIA", "GeForce", "AMD", "Radeon", "Intel", "Graphics",
	"Series", "Laptop", "GPU", "(R)", "(TM)",
}

// CleanName strips vendor and marketing words from a device name and glues a
// purely alphabetic suffix onto a preceding model number ("1650 Ti" becomes
// "1650ti"). The result is lowercase.
func CleanName(raw string) string {
	for _, noise := range vendorNoise {
		raw = strings.ReplaceAll(raw, noise, "")
	}

	var parts []string
	for _, word := range strings.Fields(raw) {
		if n := len(parts); n > 0 && allOf(parts[n-1], unicode.IsDigit) && allOf(word, unicode.IsLetter) {
			parts[n-1] += word
			continue
		}
		parts = append(parts, word)
	}

	if len(parts) == 0 {
		return telemetry.Unknown
	}

	return strings.ToLower(strings.Join(parts, " "))
}

func allOf(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !pred(r) {
			return false
		}
	}
	return s != ""
}
