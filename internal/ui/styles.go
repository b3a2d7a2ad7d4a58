package ui

import (
	"strings"

	"codeberg.org/mutker/loopfetch/internal/styled"
	"github.com/charmbracelet/lipgloss"
)

var (
	dim    = lipgloss.Color("8")
	accent = lipgloss.Color("4")
	alert  = lipgloss.Color("9")

	boxStyle = lipgloss.NewStyle().
			Padding(0, 1)

	debugInfoBox = boxStyle.
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("2"))

	debugStatusBox = boxStyle.
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("5"))

	statusLabel = lipgloss.NewStyle().Foreground(dim)
	statusValue = lipgloss.NewStyle().Foreground(accent).Bold(true)
	reloadStyle = lipgloss.NewStyle().Foreground(alert).Italic(true)
)

// spanStyle converts a script style into a lipgloss style.
func spanStyle(s styled.Style) lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.FG != nil {
		st = st.Foreground(lipgloss.Color(s.FG.Hex()))
	}
	if s.BG != nil {
		st = st.Background(lipgloss.Color(s.BG.Hex()))
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	return st
}

// renderLines draws a line set; an empty line keeps its row.
func renderLines(set styled.Set) string {
	rows := make([]string, len(set))
	for i, line := range set {
		var b strings.Builder
		for _, span := range line {
			if span.Style.IsZero() {
				b.WriteString(span.Text)
				continue
			}
			b.WriteString(spanStyle(span.Style).Render(span.Text))
		}
		rows[i] = b.String()
	}
	return strings.Join(rows, "\n")
}
