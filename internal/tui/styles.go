package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorAccent    = lipgloss.Color("#7C9CFF")
	colorRed       = lipgloss.Color("#FF6B6B")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			MarginBottom(1)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	commandDescStyle = lipgloss.NewStyle().
				Foreground(colorGray).
				PaddingLeft(1)

	inputStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorLightGray)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorGray)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)
)

const logo = `
 ███████╗ ██████╗██╗  ██╗ ██████╗ ██╗    ██╗██████╗ ██╗████████╗███████╗
 ██╔════╝██╔════╝██║  ██║██╔═══██╗██║    ██║██╔══██╗██║╚══██╔══╝██╔════╝
 █████╗  ██║     ███████║██║   ██║██║ █╗ ██║██████╔╝██║   ██║   █████╗
 ██╔══╝  ██║     ██╔══██║██║   ██║██║███╗██║██╔══██╗██║   ██║   ██╔══╝
 ███████╗╚██████╗██║  ██║╚██████╔╝╚███╔███╔╝██║  ██║██║   ██║   ███████╗
 ╚══════╝ ╚═════╝╚═╝  ╚═╝ ╚═════╝  ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝   ╚═╝   ╚══════╝
`
