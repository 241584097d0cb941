// Package ui implements the interactive translator: an editable input pane
// on the left, live Prolog output on the right, and a status bar with match
// counts. Output refreshes on every keystroke.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clausify/internal/lexicon"
	"clausify/internal/parser"
	"clausify/internal/review"
)

const middleGap = 3

// Model is the interactive translator state.
type Model struct {
	width  int
	height int

	input  textarea.Model
	output viewport.Model

	lex        *lexicon.DB
	translator *parser.Translator
	stats      parser.Stats
	rendered   string

	styles Styles
}

// Styles collects the pane styles.
type Styles struct {
	PaneTitle lipgloss.Style
	Pane      lipgloss.Style
	StatusBar lipgloss.Style
}

// DefaultStyles returns the default look.
func DefaultStyles() Styles {
	return Styles{
		PaneTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Pane:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// New creates the translator model. The review log may be nil.
func New(lex *lexicon.DB, log *review.Log, initial string) Model {
	input := textarea.New()
	input.Placeholder = "Enter natural language text here...\n\nExample:\nBear is an animal.\nCat is a mammal.\nMammals are animals."
	input.SetValue(initial)
	input.Focus()

	m := Model{
		input:      input,
		output:     viewport.New(0, 0),
		lex:        lex,
		translator: parser.NewTranslator(lex, log),
		styles:     DefaultStyles(),
	}
	m.retranslate()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+l":
			m.input.Reset()
			m.retranslate()
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.retranslate()
	}
	return m, cmd
}

func (m *Model) retranslate() {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		m.rendered = "% Translated Prolog clauses will appear here..."
		m.stats = parser.Stats{}
		m.output.SetContent(m.rendered)
		return
	}
	// Recompile patterns each pass so lexicon hot-reloads take effect.
	m.translator.ReloadPatterns()
	results, stats := m.translator.TranslateDocument(text)
	m.stats = stats
	m.rendered = parser.Render(results, false)
	m.output.SetContent(m.rendered)
}

func (m *Model) layout() {
	paneWidth := (m.width - middleGap) / 2
	if paneWidth < 20 {
		paneWidth = 20
	}
	paneHeight := m.height - 5
	if paneHeight < 5 {
		paneHeight = 5
	}
	m.input.SetWidth(paneWidth - 4)
	m.input.SetHeight(paneHeight - 2)
	m.output.Width = paneWidth - 4
	m.output.Height = paneHeight - 2
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.PaneTitle.Render("Input Text"),
		m.styles.Pane.Render(m.input.View()),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.PaneTitle.Render("Prolog Output"),
		m.styles.Pane.Render(m.output.View()),
	)

	status := fmt.Sprintf(
		" %d sentences | %d matched | %d fallback | %d unknown words | esc to quit, ctrl+l to clear",
		m.stats.Sentences, m.stats.Matched, m.stats.Fallback, m.stats.UnknownWords)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", middleGap), right),
		m.styles.StatusBar.Render(status),
	)
}

// Rendered exposes the current translated output.
func (m Model) Rendered() string {
	return m.rendered
}
