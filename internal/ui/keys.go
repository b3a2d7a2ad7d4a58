package ui

import tea "github.com/charmbracelet/bubbletea"

// Key is a decoded input command.
type Key uint8

const (
	KeyNone Key = iota
	KeyQuit
	KeyDebug
	KeyReload
	KeyLayout
	KeyOrder
)

// DecodeKey maps a key press to a command. bubbletea only reports presses,
// so there is no release or repeat to filter.
func DecodeKey(msg tea.KeyMsg) Key {
	switch msg.String() {
	case "q", "ctrl+c":
		return KeyQuit
	case "d":
		return KeyDebug
	case "r":
		return KeyReload
	case "up", "down":
		return KeyLayout
	case "left", "right":
		return KeyOrder
	default:
		return KeyNone
	}
}
