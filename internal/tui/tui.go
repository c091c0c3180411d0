package tui

import (
	"fmt"

	"codeberg.org/echowrite/server/internal/client"
	tea "github.com/charmbracelet/bubbletea"
)

// profile may be nil when no snapshot is cached yet
func NewApp(service Service, store Store, profile *client.ProfileSnapshot) *Model {
	return &Model{
		state:   StateWelcome,
		welcome: NewWelcome(profile),
		editor:  NewEditor(service, store),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// only quit from welcome screen, not from editor
		if msg.String() == "ctrl+c" && m.state == StateWelcome {
			return m, tea.Quit
		}

		// in editor, ctrl+c should go back to welcome
		if msg.String() == "ctrl+c" && m.state == StateEditor {
			m.state = StateWelcome
			return m, nil
		}

		// any key dismisses an error
		if m.err != nil {
			m.err = nil
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)

		return m, cmd

	case ErrorMsg:
		m.err = msg.err
		return m, nil

	case EnterEditorMsg:
		m.state = StateEditor
		return m, m.editor.Init()
	}

	switch m.state {
	case StateWelcome:
		return m.updateWelcome(msg)

	case StateEditor:
		return m.updateEditor(msg)

	default:
		return m, nil
	}
}

func (m *Model) View() string {
	if m.err != nil {
		return errorView(m.err)
	}

	switch m.state {
	case StateWelcome:
		return m.welcome.View()

	case StateEditor:
		return m.editor.View()

	default:
		return "Unknown state"
	}
}

func (m *Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.welcome, cmd = m.welcome.Update(msg)

	return m, cmd
}

func (m *Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)

	return m, cmd
}

func errorView(err error) string {
	return fmt.Sprintf("\n  %s %v\n\n  %s\n",
		errorStyle.Render("Error:"), err,
		helpStyle.Render("press any key to continue, ctrl+c to exit"))
}
