// Package tui provides terminal user interface components for den
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/denhq/den/internal/dashboard"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionAttach
	ActionOpen
	ActionStop
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action  Action
	Session *dashboard.ContainerState
}

// sessionItem implements list.Item for session display
type sessionItem struct {
	state dashboard.ContainerState
	now   time.Time
}

func (i sessionItem) Title() string {
	return i.state.Name
}

func (i sessionItem) Description() string {
	port := "no port"
	if i.state.TerminalPort > 0 {
		port = fmt.Sprintf("port %d", i.state.TerminalPort)
	}
	return fmt.Sprintf("● %s | %s | %s",
		ago(i.now, i.state.LastChange),
		port,
		firstLine(i.state.PaneContent, 40),
	)
}

func (i sessionItem) FilterValue() string {
	return i.state.Name
}

func ago(now, t time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(diff.Hours()))
}

func firstLine(content string, maxLen int) string {
	line := content
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if len(line) > maxLen {
		return line[:maxLen-3] + "..."
	}
	return line
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the session picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	width    int
	height   int
}

// NewPicker creates a new session picker
func NewPicker(states []dashboard.ContainerState) Model {
	now := time.Now()
	items := make([]list.Item, len(states))
	for i, state := range states {
		items[i] = sessionItem{state: state, now: now}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "den - Select Session"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(sessionItem); ok {
				state := item.state
				m.result = PickerResult{Action: ActionAttach, Session: &state}
				m.quitting = true
				return m, tea.Quit
			}

		case "o":
			if item, ok := m.list.SelectedItem().(sessionItem); ok {
				state := item.state
				m.result = PickerResult{Action: ActionOpen, Session: &state}
				m.quitting = true
				return m, tea.Quit
			}

		case "x":
			if item, ok := m.list.SelectedItem().(sessionItem); ok {
				state := item.state
				m.result = PickerResult{Action: ActionStop, Session: &state}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Attach  [o] Open  [x] Stop  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive session picker
func RunPicker(states []dashboard.ContainerState) (PickerResult, error) {
	if len(states) == 0 {
		return PickerResult{Action: ActionQuit}, nil
	}

	m := NewPicker(states)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// ListView is a non-interactive rendering that just lists sessions
func ListView(states []dashboard.ContainerState) string {
	var sb strings.Builder

	sb.WriteString("den - Sessions\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(states) == 0 {
		sb.WriteString("No sessions running.\n")
		sb.WriteString("Start one with: den run <agent>\n")
		return sb.String()
	}

	now := time.Now()
	for _, state := range states {
		sb.WriteString(fmt.Sprintf("%-24s %-10s %s\n",
			state.Name,
			ago(now, state.LastChange),
			firstLine(state.PaneContent, 40),
		))
	}
	return sb.String()
}
