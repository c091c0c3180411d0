package tui

import (
	"context"

	"codeberg.org/echowrite/server/echowrite/generation"
	"codeberg.org/echowrite/server/internal/client"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateEditor
)

// generation and account calls used by the editor; *client.Client implements it
type Service interface {
	Variations(ctx context.Context, text, style string) (*generation.VariationsResult, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
	Rephrase(ctx context.Context, text string) (string, error)
	LengthVariations(ctx context.Context, text string, lengthType generation.LengthType) (*generation.LengthVariationsResult, error)
	GenerateVisual(ctx context.Context, text string, visualType generation.VisualType) (*generation.VisualResult, error)
	GenerateAll(ctx context.Context, text string) *client.AllResult
	Usage(ctx context.Context) (*client.Usage, error)
	ActivatePremium(ctx context.Context) (*client.Account, error)
}

// local history and profile cache; *client.LocalStore implements it
type Store interface {
	AddHistory(entry client.HistoryEntry) error
	History() ([]client.HistoryEntry, error)
	Profile() (*client.ProfileSnapshot, error)
	SaveProfile(profile client.ProfileSnapshot) error
}

// main TUI application model
type Model struct {
	state   AppState
	width   int
	height  int
	err     error
	welcome *Welcome
	editor  *EditorModel
}

// sent when an error occurs outside the editor
type ErrorMsg struct {
	err error
}

// sent to transition to the editor state
type EnterEditorMsg struct{}

// text editor with slash commands
type EditorModel struct {
	service  Service
	store    Store
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	width  int
	height int

	text       string // working text the slash commands act on
	output     string // markdown of the last result
	status     string
	isFetching bool
	ready      bool
}

// sent when a command completes; Markdown replaces the output panel
type ResultMsg struct {
	Command  string
	Markdown string
	Status   string
}

// sent when a command fails
type FailureMsg struct {
	Command string
	Err     error
}

// welcome screen model
type Welcome struct {
	profile  *client.ProfileSnapshot
	input    string
	commands []Command
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
}
