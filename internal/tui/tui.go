// Package tui provides a Bubble Tea progress display for download rounds.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/batch-downloader/internal/download"
	"github.com/handiism/batch-downloader/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateRunning State = iota
	StateDone
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Message types
type (
	// OutcomeMsg is sent when an item finishes.
	OutcomeMsg struct {
		ItemID  string
		Outcome model.Outcome
	}

	// EventMsg carries a notice to show in the log area.
	EventMsg struct {
		Event download.ProgressEvent
	}

	// EndMsg is sent when the round is over.
	EndMsg struct{}
)

// Model is the Bubble Tea model for one round.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	logs     []LogEntry

	total     int
	completed int
	skipped   int
	failed    int
}

// NewModel creates a model for a round of total items.
func NewModel(total int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	return Model{
		state:    StateRunning,
		spinner:  sp,
		progress: prog,
		total:    total,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case spinner.TickMsg:
		if m.state == StateDone {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case OutcomeMsg:
		level := download.LevelSuccess
		text := "Downloaded " + msg.ItemID
		switch msg.Outcome.Kind {
		case model.OutcomeCompleted:
			m.completed++
		case model.OutcomeSkipped:
			m.skipped++
			level = download.LevelVerbose
			text = "Already present " + msg.ItemID
		default:
			m.failed++
			level = download.LevelError
			text = fmt.Sprintf("%s: %s", msg.ItemID, msg.Outcome.Message)
		}
		m.addLog(LogEntry{Message: text, Level: level})

	case EventMsg:
		m.addLog(LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})

	case EndMsg:
		m.state = StateDone
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) addLog(entry LogEntry) {
	m.logs = append(m.logs, entry)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Done returns the number of items with an outcome.
func (m Model) Done() int {
	return m.completed + m.skipped + m.failed
}

// Percent returns the finished fraction of the round.
func (m Model) Percent() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.Done()) / float64(m.total)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	if m.state == StateRunning {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Processing %d/%d", m.Done(), m.total)))
	b.WriteString("\n")

	b.WriteString(m.progress.ViewAs(m.Percent()))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Completed: %d | Skipped: %d | Failed: %d",
		m.completed, m.skipped, m.failed,
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())
	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}
