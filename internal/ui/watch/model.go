// Package watch is a live view that re-runs a pull request status query
// on an interval.
package watch

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/workstatus/internal/keys"
	"github.com/nhle/workstatus/internal/model"
	"github.com/nhle/workstatus/internal/theme"
	"github.com/nhle/workstatus/internal/ui/render"
)

// Model is the watch view.
type Model struct {
	title    string
	fetch    FetchFunc
	interval time.Duration
	timeout  time.Duration

	keys    *keys.KeyMap
	help    help.Model
	spinner spinner.Model

	pr       *model.PRStatus
	err      error
	updated  time.Time
	loading  bool
	showHelp bool
	gen      int
	width    int
}

// New creates a watch view titled title that calls fetch every interval.
func New(title string, fetch FetchFunc, interval time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	timeout := interval
	if timeout > 30*time.Second {
		timeout = 30 * time.Second
	}

	return Model{
		title:    title,
		fetch:    fetch,
		interval: interval,
		timeout:  timeout,
		keys:     keys.DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		loading:  true,
	}
}

// Init starts the first query.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchCmd(m.fetch, m.timeout))
}

// Update handles messages for the watch view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		m.loading = false
		m.updated = msg.at
		m.err = msg.err
		if msg.err == nil {
			m.pr = msg.pr
		}
		m.gen++
		return m, scheduleTick(m.interval, m.gen)

	case tickMsg:
		if msg.gen != m.gen || m.loading {
			return m, nil
		}
		return m.startRefresh()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return m, nil
		}
		return m.startRefresh()
	}
	return m, nil
}

func (m Model) startRefresh() (tea.Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, fetchCmd(m.fetch, m.timeout))
}

// View renders the last good status, the last error (if any) and the
// refresh state.
func (m Model) View() string {
	var header string
	switch {
	case m.loading:
		header = m.spinner.View() + " refreshing " + m.title
	case !m.updated.IsZero():
		header = fmt.Sprintf("%s  updated %s, next in %s",
			m.title, m.updated.Format("15:04:05"), m.interval)
	default:
		header = m.title
	}

	parts := []string{theme.HelpStyle.Render(header)}
	if m.err != nil {
		parts = append(parts, theme.ErrorStyle.Render("error: "+m.err.Error()))
	}
	if m.pr != nil {
		parts = append(parts, render.PRStatus(m.pr))
	}

	m.help.ShowAll = m.showHelp
	parts = append(parts, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
