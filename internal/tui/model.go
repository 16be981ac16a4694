// ABOUTME: Bubble Tea chat interface for asking questions about the indexed courses
// ABOUTME: Queries run as async commands so the UI stays responsive while the model answers
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harper/coursemate/internal/core"
)

// Asker is the TUI-facing subset of the RAG system
type Asker interface {
	Query(ctx context.Context, text, sessionID string) (*core.QueryResult, error)
	ClearSession(sessionID string)
}

type role int

const (
	roleUser role = iota
	roleAssistant
	roleError
)

type entry struct {
	role    role
	text    string
	sources []string
}

// answerMsg carries a finished query back to Update
type answerMsg struct {
	result *core.QueryResult
	err    error
}

// Model is the Bubble Tea model for the chat application
type Model struct {
	ctx       context.Context
	asker     Asker
	input     textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	entries   []entry
	sessionID string
	summary   string
	status    string
	waiting   bool
	ready     bool
}

// New creates a chat model. summary is shown under the header.
func New(ctx context.Context, asker Asker, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your courses, /clear for a new session"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		asker:    asker,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		summary:  summary,
		status:   "Ready. Enter to ask, Ctrl+C to quit.",
	}
}

// Init starts the cursor blinking
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and answer messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := boxStyle.GetFrameSize()
		reserved := 2 + 1 + 3 + fh // header, summary, status, input box
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-fh)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.entries = append(m.entries, entry{role: roleError, text: msg.err.Error()})
			m.status = "Query failed."
		} else {
			m.sessionID = msg.result.SessionID
			e := entry{role: roleAssistant, text: msg.result.Answer}
			for _, s := range msg.result.Sources {
				if link := s.Link(); link != "" {
					e.sources = append(e.sources, fmt.Sprintf("%s (%s)", s.Text, link))
				} else {
					e.sources = append(e.sources, s.Text)
				}
			}
			m.entries = append(m.entries, e)
			m.status = fmt.Sprintf("Session %s", m.sessionID)
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
		if msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	q := strings.TrimSpace(m.input.Value())
	if q == "" || m.waiting {
		return m, nil
	}
	m.input.SetValue("")

	if q == "/clear" {
		if m.sessionID != "" {
			m.asker.ClearSession(m.sessionID)
		}
		m.sessionID = ""
		m.entries = nil
		m.status = "Started a new session."
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	}

	m.entries = append(m.entries, entry{role: roleUser, text: q})
	m.waiting = true
	m.status = "Thinking..."
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()

	return m, tea.Batch(m.spinner.Tick, ask(m.ctx, m.asker, q, m.sessionID))
}

// ask runs one query off the UI goroutine
func ask(ctx context.Context, asker Asker, q, sessionID string) tea.Cmd {
	return func() tea.Msg {
		res, err := asker.Query(ctx, q, sessionID)
		return answerMsg{result: res, err: err}
	}
}

// View renders the transcript, input, and status line
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Course Materials Assistant")
	summary := dimStyle.Render(m.summary)
	status := statusStyle.Render(m.status)
	if m.waiting {
		status = m.spinner.View() + " " + status
	}
	return header + "\n" + summary + "\n" + boxStyle.Render(m.viewport.View()) + "\n" +
		boxStyle.Render(m.input.View()) + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.entries) == 0 {
		return dimStyle.Render("No questions yet.")
	}

	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch e.role {
		case roleUser:
			b.WriteString(userStyle.Render("You: ") + e.text)
		case roleAssistant:
			b.WriteString(assistantStyle.Render("Assistant: ") + e.text)
			for _, s := range e.sources {
				b.WriteString("\n" + dimStyle.Render("  • "+s))
			}
		case roleError:
			b.WriteString(errorStyle.Render("Error: " + e.text))
		}
	}
	return b.String()
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
