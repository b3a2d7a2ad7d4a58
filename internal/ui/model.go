// Package ui is the terminal display: a bubbletea program that drives the
// logic pass on one ticker and renders on another.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/mutker/loopfetch/internal/engine"
	"codeberg.org/mutker/loopfetch/internal/errors"
	"codeberg.org/mutker/loopfetch/internal/scheduler"
	"codeberg.org/mutker/loopfetch/internal/settings"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// reloadedFor is how long the reload indicator stays visible.
const reloadedFor = time.Second

type (
	frameMsg time.Time
	logicMsg time.Time
)

// ReloadMsg asks for a script reload at the next pass.
type ReloadMsg struct{}

type Model struct {
	ctx           context.Context
	engine        *engine.Engine
	frame         engine.Frame
	actions       []engine.Action
	width         int
	height        int
	debug         bool
	reloadedUntil time.Time
	view          string
	now           func() time.Time
}

type Option func(*Model)

// WithDebug starts with the debug overlay shown.
func WithDebug(debug bool) Option {
	return func(m *Model) { m.debug = debug }
}

func New(ctx context.Context, eng *engine.Engine, opts ...Option) Model {
	m := Model{
		ctx:    ctx,
		engine: eng,
		frame:  engine.Frame{Settings: eng.Settings()},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the program on the alternate screen and blocks until it quits
// or ctx is done. Messages sent on reloads trigger a script reload.
func Run(ctx context.Context, m Model, reloads <-chan struct{}) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-reloads:
				if !ok {
					return
				}
				p.Send(ReloadMsg{})
			}
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func logicCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return logicMsg(t)
	})
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return logicMsg(m.now()) },
		frameCmd(scheduler.FrameInterval(m.frame.Settings.FPS)),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch DecodeKey(msg) {
		case KeyQuit:
			return m, tea.Quit
		case KeyDebug:
			m.debug = !m.debug
			m.view = m.render()
		case KeyReload:
			m.actions = append(m.actions, engine.RequestReload)
		case KeyLayout:
			m.actions = append(m.actions, engine.ToggleLayout)
		case KeyOrder:
			m.actions = append(m.actions, engine.ToggleOrder)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view = m.render()

	case ReloadMsg:
		m.actions = append(m.actions, engine.RequestReload)

	case logicMsg:
		m.frame = m.engine.Pass(m.ctx, m.actions)
		m.actions = nil
		if m.frame.Reloaded {
			m.reloadedUntil = m.now().Add(reloadedFor)
		}
		return m, logicCmd(scheduler.TickInterval(m.frame.Settings.TPS))

	case frameMsg:
		m.engine.MarkFrame()
		m.view = m.render()
		return m, frameCmd(scheduler.FrameInterval(m.frame.Settings.FPS))
	}

	return m, nil
}

func (m Model) View() string {
	if m.view == "" {
		return m.render()
	}
	return m.view
}

func (m Model) render() string {
	info := renderLines(m.frame.Lines)
	status := m.statusLines()

	infoBox, statusBox := boxStyle, boxStyle
	if m.debug {
		infoBox, statusBox = debugInfoBox, debugStatusBox
		status += "\n" + m.debugLines()
	}

	first, second := infoBox.Render(info), statusBox.Render(status)
	if m.frame.Settings.Order == settings.SecondaryFirst {
		first, second = second, first
	}

	var body string
	if m.frame.Settings.Layout == settings.Vertical {
		body = lipgloss.JoinVertical(lipgloss.Center, first, second)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Center, first, "  ", second)
	}

	if m.width <= 0 || m.height <= 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) statusLines() string {
	st := m.frame.Settings
	loop := m.frame.Loop

	rows := []string{
		statusRow("fps", fmt.Sprintf("%.1f/%d", loop.FPS, st.FPS)),
		statusRow("tps", fmt.Sprintf("%.1f/%d", loop.TPS, st.TPS)),
		statusRow("rps", fmt.Sprintf("%d", st.RPS)),
	}
	if m.now().Before(m.reloadedUntil) {
		rows = append(rows, reloadStyle.Render("reloaded..."))
	}

	return strings.Join(rows, "\n")
}

func (m Model) debugLines() string {
	loop := m.frame.Loop
	rows := []string{
		statusRow("area", fmt.Sprintf("%dx%d", m.width, m.height)),
		statusRow("layout", m.frame.Settings.Layout.String()),
		statusRow("order", m.frame.Settings.Order.String()),
		statusRow("tick", humanize.Comma(int64(m.frame.Tick))),
		statusRow("frames", humanize.Comma(int64(loop.Frames))),
		statusRow("pass", loop.PassTime.Round(time.Microsecond).String()),
		statusRow("refresh", humanize.Comma(int64(loop.Refreshes))),
		statusRow("reloads", humanize.Comma(int64(loop.Reloads))),
		statusRow("errors", humanize.Comma(int64(loop.ScriptErrors))),
	}
	if m.frame.Err != nil {
		msg := m.frame.Err.Error()
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
		rows = append(rows, reloadStyle.Render(truncate(msg, 48)))
	}
	return strings.Join(rows, "\n")
}

func statusRow(label, value string) string {
	return statusLabel.Render(fmt.Sprintf("%-7s", label)) + " " + statusValue.Render(value)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
