package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vito/progrock"
	"go.trai.ch/xform/internal/ui/style"
)

// Status is the display state of a file.
type Status int

const (
	// StatusRunning means the file is being transformed.
	StatusRunning Status = iota
	// StatusDone means the transformation finished.
	StatusDone
	// StatusFailed means the transformation failed.
	StatusFailed
)

// VertexState is one file as shown in the view.
type VertexState struct {
	ID     string
	Name   string
	Status Status
	Cached bool
}

type styles struct {
	running lipgloss.Style
	done    lipgloss.Style
	failed  lipgloss.Style
	cached  lipgloss.Style
	summary lipgloss.Style
}

// Model is the Bubble Tea model listing files as they are transformed.
type Model struct {
	tape     TapeSource
	vertices []VertexState
	index    map[string]int
	height   int
	spinner  spinner.Model
	styles   styles
}

// NewModel creates a model reading from tape.
func NewModel(tape TapeSource) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(style.Yellow)

	return &Model{
		tape:    tape,
		index:   make(map[string]int),
		spinner: s,
		styles: styles{
			running: lipgloss.NewStyle().Foreground(style.Yellow),
			done:    lipgloss.NewStyle().Foreground(style.Green),
			failed:  lipgloss.NewStyle().Foreground(style.Red),
			cached:  lipgloss.NewStyle().Foreground(style.Slate),
			summary: lipgloss.NewStyle().Foreground(style.Iris).Bold(true),
		},
	}
}

// Vertices returns a copy of the current file states.
func (m *Model) Vertices() []VertexState {
	return append([]VertexState(nil), m.vertices...)
}

// Init starts reading from the tape.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(WaitForTape(m.tape), m.spinner.Tick)
}

// Update handles incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgTapeUpdate:
		if msg.Update != nil {
			for _, v := range msg.Update.Vertexes {
				m.apply(v)
			}
		}
		return m, WaitForTape(m.tape)
	case MsgTapeEnded:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) apply(v *progrock.Vertex) {
	i, ok := m.index[v.Id]
	if !ok {
		i = len(m.vertices)
		m.index[v.Id] = i
		m.vertices = append(m.vertices, VertexState{ID: v.Id, Name: v.Name})
	}

	state := &m.vertices[i]
	state.Cached = state.Cached || v.Cached
	switch {
	case v.Completed == nil:
		state.Status = StatusRunning
	case v.Error != nil:
		state.Status = StatusFailed
	default:
		state.Status = StatusDone
	}
}

// View renders the most recent files that fit the terminal, then a summary line.
func (m *Model) View() string {
	var b strings.Builder

	visible := m.vertices
	if m.height > 1 && len(visible) > m.height-1 {
		visible = visible[len(visible)-(m.height-1):]
	}

	for _, v := range visible {
		var icon string
		var st lipgloss.Style
		switch {
		case v.Status == StatusRunning:
			icon, st = m.spinner.View(), m.styles.running
		case v.Status == StatusFailed:
			icon, st = style.Cross, m.styles.failed
		case v.Cached:
			icon, st = style.Tilde, m.styles.cached
		default:
			icon, st = style.Check, m.styles.done
		}
		fmt.Fprintf(&b, "%s %s\n", st.Render(icon), v.Name)
	}

	b.WriteString(m.styles.summary.Render(m.summary()))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) summary() string {
	var done, cached, failed int
	for _, v := range m.vertices {
		switch {
		case v.Status == StatusFailed:
			failed++
		case v.Status == StatusDone && v.Cached:
			cached++
		case v.Status == StatusDone:
			done++
		}
	}
	return fmt.Sprintf("%d/%d files, %d cached, %d failed", done+cached+failed, len(m.vertices), cached, failed)
}
