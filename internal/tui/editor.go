package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"codeberg.org/echowrite/server/echowrite/generation"
	"codeberg.org/echowrite/server/internal/logger"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	editorTitle = "ECHOWRITE"
	editorHelp  = "[Enter: Send] [/help: Commands] [Ctrl+L: Clear] [Ctrl+C: Back]"

	// rows taken by header, text preview, input box and status line
	editorChrome = 10
)

// returns a new editor
func NewEditor(service Service, store Store) *EditorModel {
	ti := textinput.New()
	ti.Placeholder = "type or paste text, or a /command..."
	ti.Focus()
	ti.CharLimit = generation.MaxTextLength
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return &EditorModel{
		service:  service,
		store:    store,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(80, 12),
		output:   helpMarkdown(),
	}
}

func (m *EditorModel) Init() tea.Cmd {
	m.refresh()
	return textinput.Blink
}

func (m *EditorModel) Update(msg tea.Msg) (*EditorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.submit()

		case "ctrl+l":
			m.clear()
			return m, nil

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)

			return m, cmd
		}

	case ResultMsg:
		m.isFetching = false
		m.output = msg.Markdown
		m.status = msg.Status
		m.refresh()
		m.viewport.GotoTop()

		return m, nil

	case FailureMsg:
		m.isFetching = false
		m.status = fmt.Sprintf("%s failed: %s", msg.Command, ErrorText(msg.Err))

		return m, nil

	case spinner.TickMsg:
		if !m.isFetching {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, msg.Width-10)
		m.viewport.Width = max(20, msg.Width-4)
		m.viewport.Height = max(5, msg.Height-editorChrome)
		m.renderer = nil
		m.refresh()

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// handles one line from the input box
func (m *EditorModel) submit() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	if line == "" || m.isFetching {
		return nil
	}

	m.input.SetValue("")

	if !strings.HasPrefix(line, "/") {
		m.text = line
		m.status = fmt.Sprintf("text set (%d characters)", utf8.RuneCountInString(line))

		return nil
	}

	name, arg := parseCommand(line)

	switch name {
	case "/help":
		m.output = helpMarkdown()
		m.refresh()

		return nil

	case "/clear":
		m.clear()
		return nil

	case "/usage":
		return m.fetch(name, usageCmd(m.service, m.store))

	case "/upgrade":
		return m.fetch(name, upgradeCmd(m.service, m.store))

	case "/history":
		return historyCmd(m.store)

	case "/variations", "/translate", "/rephrase", "/lengths", "/visual", "/all":
		if m.text == "" {
			m.status = "type some text first"
			return nil
		}

		return m.fetch(name, generationCmd(m.service, m.store, name, arg, m.text))

	default:
		m.status = fmt.Sprintf("unknown command %s, try /help", name)
		return nil
	}
}

func (m *EditorModel) fetch(name string, cmd tea.Cmd) tea.Cmd {
	m.isFetching = true
	m.status = name

	return tea.Batch(m.spinner.Tick, cmd)
}

func (m *EditorModel) clear() {
	m.input.SetValue("")
	m.text = ""
	m.status = ""
	m.isFetching = false
	m.output = helpMarkdown()
	m.refresh()
}

// re-renders the output markdown into the viewport
func (m *EditorModel) refresh() {
	if m.renderer == nil {
		renderer, err := newRenderer(m.viewport.Width)
		if err != nil {
			logger.Warn("failed to create markdown renderer", "error", err)
		}

		m.renderer = renderer
	}

	content := m.output

	if m.renderer != nil {
		if rendered, err := m.renderer.Render(m.output); err == nil {
			content = rendered
		}
	}

	m.viewport.SetContent(content)
	m.ready = true
}

func (m *EditorModel) View() string {
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(editorTitle)
	help := lipgloss.NewStyle().Foreground(colorGray).Render(editorHelp)

	headerLine := lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(1, m.width-len(editorTitle)-len(editorHelp)-2)),
		help,
	)

	b.WriteString(headerLine)
	b.WriteString("\n\n")

	if m.ready {
		b.WriteString(boxStyle.Width(max(20, m.width-2)).Render(m.viewport.View()))
		b.WriteString("\n")
	}

	b.WriteString(infoStyle.Render("text: " + preview(m.text, max(20, m.width-12))))
	b.WriteString("\n")

	b.WriteString(boxStyle.Width(max(20, m.width-2)).Padding(0, 1).Render(m.input.View()))
	b.WriteString("\n")

	switch {
	case m.isFetching:
		b.WriteString(m.spinner.View() + " " + infoStyle.Render("running "+m.status+"..."))
	case m.status != "":
		b.WriteString(infoStyle.Render(m.status))
	}

	return b.String()
}

// returns the working text the slash commands act on
func (m *EditorModel) Text() string {
	return m.text
}

func preview(text string, width int) string {
	if text == "" {
		return "(none)"
	}

	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= width {
		return text
	}

	return string([]rune(text)[:width-1]) + "…"
}
