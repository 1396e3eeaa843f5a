// Package tui is the interactive question-answering loop.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docrag/internal/domain"
)

// AskPort is the TUI-facing subset of the answer service.
type AskPort interface {
	Ask(ctx context.Context, question string) ([]domain.RetrievalResult, string, error)
}

// Model is the Bubble Tea model for the ask loop.
type Model struct {
	service    AskPort
	collection string
	input      textinput.Model
	viewport   viewport.Model
	results    []domain.RetrievalResult
	answer     string
	status     string
	cursor     int
	ready      bool
}

// New creates a new TUI model instance.
func New(service AskPort, collection string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:    service,
		collection: collection,
		input:      ti,
		viewport:   vp,
		status:     "Ready. Ask away.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, query frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderContent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.ask(q)
				m.viewport.SetContent(m.renderContent())
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderContent())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderContent())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) ask(question string) {
	m.status = "Thinking..."
	results, reply, err := m.service.Ask(context.Background(), question)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
		m.answer = ""
		return
	}
	if len(results) == 0 {
		m.status = fmt.Sprintf("No relevant excerpts in %q", m.collection)
		m.results = nil
		m.answer = ""
		return
	}
	m.status = fmt.Sprintf("Answered from %d excerpts (up/down to browse)", len(results))
	m.results = results
	m.answer = reply
	m.cursor = 0
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docrag — " + m.collection)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderContent() string {
	if m.answer == "" {
		return "No answer yet."
	}
	r := m.results[m.cursor]
	excerpt := fmt.Sprintf("[Excerpt %d/%d]  %s  score=%.3f\n%s",
		m.cursor+1, len(m.results), r.Metadata.Filename, r.Score, r.Text)
	return answerStyle.Render(m.answer) + "\n\n" + excerptStyle.Render(excerpt)
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	excerptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
