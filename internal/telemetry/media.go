package telemetry

import (
	"strings"
)

// mediaPrecedence ranks players, best first. Names are matched as
// substrings of the lowercased player name.
var mediaPrecedence = []string{"spotify", "vlc", "mpv", "rhythmbox", "firefox", "chrome"}

// ActiveMedia selects the player to show. The first entry matching the
// highest ranked name wins; without any match the first entry is used. ok is
// false for an empty list. The result is computed on every call.
func ActiveMedia(players []MediaPlayer) (idx int, ok bool) {
	if len(players) == 0 {
		return 0, false
	}

	best := 0
	bestRank := len(mediaPrecedence)
	for i, p := range players {
		name := strings.ToLower(p.Name)
		for rank, pref := range mediaPrecedence[:bestRank] {
			if strings.Contains(name, pref) {
				best, bestRank = i, rank
				break
			}
		}
	}

	return best, true
}

// JoinArtists joins multiple artists with ", ", returning the sentinel when
// there are none.
func JoinArtists(artists []string) string {
	var kept []string
	for _, a := range artists {
		if a = strings.TrimSpace(a); a != "" {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		return Unknown
	}
	return strings.Join(kept, ", ")
}
