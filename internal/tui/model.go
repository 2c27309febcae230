package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vito/progrock"
)

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusCached    = "cached"
)

// openPrefix names the vertices recorded for the dependencies of a top-level object.
const openPrefix = "open "

// VertexState is the displayed state of one recorded vertex.
type VertexState struct {
	ID               string
	Name             string
	Status           string
	Err              string
	IndentationLevel int
}

type styles struct {
	running   lipgloss.Style
	completed lipgloss.Style
	failed    lipgloss.Style
	cached    lipgloss.Style
}

// Model is the Bubble Tea model following a load session's tape.
type Model struct {
	tape     TapeSource
	vertices []VertexState
	index    map[string]int
	width    int
	height   int
	spinner  spinner.Model
	styles   styles
}

// NewModel creates a new model reading from tape.
func NewModel(tape TapeSource) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))

	return &Model{
		tape:    tape,
		index:   make(map[string]int),
		spinner: s,
		styles: styles{
			running:   lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")),
			completed: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // Green
			failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")), // Red
			cached:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")), // Gray
		},
	}
}

// Init starts reading from the tape.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForTape(m.tape),
		m.spinner.Tick,
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgTapeUpdate:
		for _, v := range msg.Update.GetVertexes() {
			m.apply(v)
		}
		return m, WaitForTape(m.tape)
	case MsgTapeEnded:
		return m, tea.Quit
	}
	return m, nil
}

// apply merges a vertex update into the displayed list. Updates carry the
// whole vertex, so the latest one wins.
func (m *Model) apply(v *progrock.Vertex) {
	state := VertexState{
		ID:     v.GetId(),
		Name:   v.GetName(),
		Status: statusRunning,
		Err:    v.GetError(),
	}
	if strings.HasPrefix(state.Name, openPrefix) {
		state.IndentationLevel = 1
	}
	switch {
	case v.GetCached():
		state.Status = statusCached
	case v.GetCompleted() != nil && v.Error != nil:
		state.Status = statusFailed
	case v.GetCompleted() != nil:
		state.Status = statusCompleted
	}

	if i, ok := m.index[state.ID]; ok {
		m.vertices[i] = state
		return
	}
	m.index[state.ID] = len(m.vertices)
	m.vertices = append(m.vertices, state)
}

// View renders the most recent vertices that fit the terminal, followed by a summary.
func (m *Model) View() string {
	var s strings.Builder

	rows := len(m.vertices)
	if m.height > 1 && rows > m.height-1 {
		rows = m.height - 1
	}

	for _, v := range m.vertices[len(m.vertices)-rows:] {
		var icon string
		var style lipgloss.Style
		switch v.Status {
		case statusRunning:
			icon = m.spinner.View()
			style = m.styles.running
		case statusCompleted:
			icon = "✓"
			style = m.styles.completed
		case statusFailed:
			icon = "✗"
			style = m.styles.failed
		default:
			icon = "•"
			style = m.styles.cached
		}

		indent := strings.Repeat("  ", v.IndentationLevel)
		line := fmt.Sprintf("%s%s %s", indent, style.Render(icon), v.Name)
		if v.Status == statusCached {
			line += style.Render(" (already loaded)")
		}
		if v.Err != "" {
			line += style.Render(": " + v.Err)
		}
		s.WriteString(line)
		s.WriteByte('\n')
	}

	s.WriteString(m.summary())
	s.WriteByte('\n')
	return s.String()
}

func (m *Model) summary() string {
	var done, failed, running int
	for _, v := range m.vertices {
		if v.IndentationLevel > 0 {
			continue
		}
		switch v.Status {
		case statusRunning:
			running++
		case statusFailed:
			failed++
		default:
			done++
		}
	}
	return fmt.Sprintf("%d loaded, %d failed, %d in progress", done, failed, running)
}
