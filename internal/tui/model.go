// Package tui implements the live environment watcher behind
// `rolldev-mcp status --watch`.
package tui

import (
	"context"
	"time"

	"rolldevmcp/internal/config"
	"rolldevmcp/internal/executor"
	"rolldevmcp/internal/rolldev"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// refreshInterval is how often `rolldev status` is re-run while watching.
const refreshInterval = 5 * time.Second

// statusMessageTTL is how long transient status bar messages stay visible.
const statusMessageTTL = 3 * time.Second

// statusLoadedMsg carries a fresh set of environment records.
type statusLoadedMsg struct {
	environments []rolldev.Environment
	exitCode     int
}

// statusErrMsg reports a failed status run.
type statusErrMsg struct {
	err error
}

type tickMsg time.Time

type clearStatusMsg struct{}

// Model is the bubbletea model for the watch view.
type Model struct {
	cfg config.Config
	run func(ctx context.Context, spec executor.Spec) (executor.Result, error)

	environments []rolldev.Environment
	selected     int
	loading      bool
	lastErr      error
	lastRefresh  time.Time
	statusMsg    string
	width        int

	spinner  spinner.Model
	quitting bool
}

// NewModel creates the watch model. The first refresh fires from Init.
func NewModel(cfg config.Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		cfg:     cfg,
		run:     executor.Run,
		loading: true,
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd())
}

// refreshCmd runs `rolldev status` off the UI loop and delivers the
// parsed result as a message.
func (m Model) refreshCmd() tea.Cmd {
	cfg := m.cfg
	run := m.run
	return func() tea.Msg {
		result, err := run(context.Background(), executor.Spec{
			Program: cfg.RollDev.Binary,
			Args:    []string{"status"},
			Timeout: cfg.Timeouts.General,
		})
		if err != nil {
			return statusErrMsg{err: err}
		}
		return statusLoadedMsg{
			environments: rolldev.ParseStatus(result.Stdout),
			exitCode:     result.ExitCode,
		}
	}
}

func scheduleTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(statusMessageTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.environments)-1 {
				m.selected++
			}
			return m, nil
		case "r":
			m.loading = true
			return m, m.refreshCmd()
		case "c":
			return m.copySelectedURL()
		}
		return m, nil

	case statusLoadedMsg:
		m.loading = false
		m.lastErr = nil
		m.environments = msg.environments
		m.lastRefresh = time.Now()
		if m.selected >= len(m.environments) {
			m.selected = max(0, len(m.environments)-1)
		}
		return m, scheduleTick()

	case statusErrMsg:
		m.loading = false
		m.lastErr = msg.err
		m.lastRefresh = time.Now()
		return m, scheduleTick()

	case tickMsg:
		m.loading = true
		return m, m.refreshCmd()

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// copySelectedURL puts the selected environment's URL on the clipboard.
func (m Model) copySelectedURL() (tea.Model, tea.Cmd) {
	if m.selected >= len(m.environments) {
		return m, nil
	}
	env := m.environments[m.selected]
	if env.URL == "" {
		m.statusMsg = "Selected environment has no URL"
		return m, clearStatusAfter()
	}
	if err := clipboard.WriteAll(env.URL); err != nil {
		m.statusMsg = "Copy failed: " + err.Error()
		return m, clearStatusAfter()
	}
	m.statusMsg = "URL copied: " + env.URL
	return m, clearStatusAfter()
}
