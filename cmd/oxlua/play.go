package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oxlua/oxlua/oxlua"
)

var (
	accentColor  = lipgloss.Color("#3B82F6")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	outputStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

const sampleSource = `fn abs(x: i32) -> i32 {
    if x > 0 { x } else { -x }
}

fn main() {
    for i in 0..3 {
        print(abs(1 - i));
    }
}
`

type playKeyMap struct {
	Quit   key.Binding
	Format key.Binding
	Reset  key.Binding
}

var playKeys = playKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Format: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "format source"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset sample"),
	),
}

type playModel struct {
	editor      textarea.Model
	output      string
	outputIsErr bool
	width       int
	height      int
	quitting    bool
	initialized bool
}

func newPlayModel() playModel {
	ta := textarea.New()
	ta.Placeholder = "type a program..."
	ta.SetValue(sampleSource)
	ta.Focus()

	m := playModel{editor: ta}
	m.recompile()
	return m
}

func (m *playModel) recompile() {
	src := m.editor.Value()
	if strings.TrimSpace(src) == "" {
		m.output = ""
		m.outputIsErr = false
		return
	}
	emitted, err := oxlua.Transpile(src)
	if err != nil {
		m.output = oxlua.WrapWithSource(err, src).Error()
		m.outputIsErr = true
		return
	}
	m.output = emitted
	m.outputIsErr = false
}

func (m playModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tea.EnterAltScreen)
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		paneWidth := max(20, m.width/2-4)
		m.editor.SetWidth(paneWidth)
		m.editor.SetHeight(max(5, m.height-6))
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, playKeys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, playKeys.Format):
			if formatted, err := oxlua.Format(m.editor.Value()); err == nil {
				m.editor.SetValue(formatted)
				m.recompile()
			}
			return m, nil

		case key.Matches(msg, playKeys.Reset):
			m.editor.SetValue(sampleSource)
			m.recompile()
			return m, nil
		}
	}

	m.editor, cmd = m.editor.Update(msg)
	m.recompile()
	return m, cmd
}

func (m playModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("oxlua playground")
	b.WriteString(header + "\n")

	paneWidth := max(20, m.width/2-4)
	paneHeight := max(5, m.height-6)

	source := paneStyle.Width(paneWidth).Height(paneHeight).Render(m.editor.View())

	rendered := m.output
	if m.outputIsErr {
		rendered = errorStyle.Render(rendered)
	} else {
		rendered = outputStyle.Render(rendered)
	}
	rendered = clampLines(rendered, paneHeight)
	output := paneStyle.Width(paneWidth).Height(paneHeight).Render(rendered)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, source, output))
	b.WriteString("\n")

	footer := mutedStyle.Render("ctrl+f format  ctrl+r reset  ctrl+c quit")
	b.WriteString(footer)

	return b.String()
}

func clampLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

func runPlayground() error {
	p := tea.NewProgram(newPlayModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
