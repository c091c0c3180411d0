package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/echowrite/server/internal/tui"
	"github.com/charmbracelet/x/term"
)

// joins args, or reads stdin when there are none or the only arg is "-"
func (a *app) inputText(args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text given, pass it as arguments or on stdin")
	}

	return text, nil
}

// prints value as JSON with --json, otherwise the markdown, styled on a terminal
func (a *app) print(value any, markdown string) error {
	if a.v.GetBool(keyJSON) {
		encoder := json.NewEncoder(a.stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(value)
	}

	if width, ok := a.terminalWidth(); ok {
		rendered, err := tui.RenderMarkdown(markdown, width)
		if err == nil {
			_, err = io.WriteString(a.stdout, rendered)
			return err
		}
	}

	_, err := io.WriteString(a.stdout, markdown)

	return err
}

// reports the width when stdout is an interactive terminal
func (a *app) terminalWidth() (int, bool) {
	file, ok := a.stdout.(*os.File)
	if !ok || !term.IsTerminal(file.Fd()) {
		return 0, false
	}

	width, _, err := term.GetSize(file.Fd())
	if err != nil || width <= 0 {
		return 80, true
	}

	return width, true
}
