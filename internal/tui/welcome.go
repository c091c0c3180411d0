package tui

import (
	"fmt"
	"strings"

	"codeberg.org/echowrite/server/internal/client"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// returns a new welcome screen
func NewWelcome(profile *client.ProfileSnapshot) *Welcome {
	return &Welcome{
		profile: profile,
		commands: []Command{
			{Name: "editor", Description: "write and transform text"},
			{Name: "quit", Description: "exit echowrite"},
		},
	}
}

func (m *Welcome) Update(msg tea.Msg) (*Welcome, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			cmd := m.executeCommand()
			m.input = ""

			return m, cmd
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			if len(msg.String()) == 1 {
				m.input += msg.String()
			}
		}
	}

	return m, nil
}

func (m *Welcome) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("rewrite, translate and visualize your words"))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(accountLine(m.profile)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render("commands:"))
	b.WriteString("\n\n")

	for _, cmd := range m.commands {
		line := fmt.Sprintf("  %s %s",
			commandStyle.Render(cmd.Name),
			commandDescStyle.Render("- "+cmd.Description),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")

	prompt := promptStyle.Render("> ")
	input := inputStyle.Render(m.input + "_")
	b.WriteString(prompt + input)
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("type a command and press enter. press ctrl+c to quit."))

	return b.String()
}

func (m *Welcome) executeCommand() tea.Cmd {
	cmd := strings.TrimSpace(m.input)

	switch cmd {
	case "quit", "q":
		return tea.Quit

	case "editor", "e":
		return func() tea.Msg {
			return EnterEditorMsg{}
		}

	case "":
		return nil

	default:
		return func() tea.Msg {
			return ErrorMsg{err: fmt.Errorf("unknown command: %s", cmd)}
		}
	}
}

func accountLine(profile *client.ProfileSnapshot) string {
	if profile == nil {
		return "not bootstrapped yet, run `echowrite bootstrap` first"
	}

	who := profile.UserID
	if profile.Name != "" {
		who = profile.Name
	}

	if profile.Role == "premium" {
		return fmt.Sprintf("signed in as %s · premium", who)
	}

	return fmt.Sprintf("signed in as %s · %d/%d generations used", who, profile.UsageCount, profile.MaxUsage)
}
