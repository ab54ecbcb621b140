package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	clockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// Model counts down while the block holds. Quitting early (q, ctrl+c)
// ends the wait; the caller's deferred restore still runs.
type Model struct {
	timer   timer.Model
	domains []string
	done    bool
}

func NewCountdown(d time.Duration, domains []string) Model {
	return Model{
		timer:   timer.NewWithInterval(d, 100*time.Millisecond),
		domains: domains,
	}
}

func (m Model) Init() tea.Cmd {
	return m.timer.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case timer.TimeoutMsg:
		m.done = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	}
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	s := headerStyle.Render(fmt.Sprintf("Blocking %d domain(s)", len(m.domains))) + "\n"
	s += clockStyle.Render(fmt.Sprintf("%.2f seconds left.", m.timer.Timeout.Seconds())) + "\n"
	s += faintStyle.Render("press q to stop early and restore") + "\n"
	return s
}

// RunCountdown blocks until the timer runs out, the user quits, or ctx
// is cancelled (e.g. by a signal).
func RunCountdown(ctx context.Context, d time.Duration, domains []string) error {
	_, err := tea.NewProgram(NewCountdown(d, domains), tea.WithContext(ctx)).Run()
	return err
}
