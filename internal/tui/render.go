package tui

import (
	"errors"
	"fmt"
	"strings"

	"codeberg.org/echowrite/server/echowrite/generation"
	"codeberg.org/echowrite/server/internal/client"
	"github.com/charmbracelet/glamour"
)

const degradedNote = "_the model's reply could not be parsed, showing its raw output_\n\n"

// renders markdown for a terminal of the given width
func RenderMarkdown(markdown string, width int) (string, error) {
	renderer, err := newRenderer(width)
	if err != nil {
		return "", err
	}

	return renderer.Render(markdown)
}

func newRenderer(width int) (*glamour.TermRenderer, error) {
	if width <= 0 {
		width = 80
	}

	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
}

func VariationsMarkdown(result *generation.VariationsResult) string {
	var b strings.Builder

	b.WriteString("## Variations\n\n")

	if result.Degraded {
		b.WriteString(degradedNote)
	}

	for _, v := range result.Variations {
		b.WriteString(fmt.Sprintf("### %s", v.Label))

		if v.Tone != "" {
			b.WriteString(fmt.Sprintf(" · _%s_", v.Tone))
		}

		b.WriteString("\n\n")
		b.WriteString(v.Text)
		b.WriteString("\n\n")

		if v.Changes != "" {
			b.WriteString(fmt.Sprintf("> %s\n\n", v.Changes))
		}
	}

	return b.String()
}

func LengthsMarkdown(result *generation.LengthVariationsResult) string {
	var b strings.Builder

	b.WriteString("## Length variations\n\n")

	if result.Degraded {
		b.WriteString(degradedNote)
	}

	buckets := []struct {
		title string
		items []string
	}{
		{"Simple", result.Simple},
		{"Medium", result.Medium},
		{"Long", result.Long},
	}

	for _, bucket := range buckets {
		if len(bucket.items) == 0 {
			continue
		}

		b.WriteString(fmt.Sprintf("### %s\n\n", bucket.title))

		for i, item := range bucket.items {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
		}

		b.WriteString("\n")
	}

	return b.String()
}

func VisualMarkdown(result *generation.VisualResult) string {
	var b strings.Builder

	title := result.Title
	if title == "" {
		title = "Diagram"
	}

	b.WriteString(fmt.Sprintf("## %s\n\n", title))

	if result.Degraded {
		b.WriteString(degradedNote)
	}

	if result.Description != "" {
		b.WriteString(result.Description)
		b.WriteString("\n\n")
	}

	if result.MermaidCode != "" {
		b.WriteString("```mermaid\n")
		b.WriteString(strings.TrimRight(result.MermaidCode, "\n"))
		b.WriteString("\n```\n")
	}

	return b.String()
}

// translate and rephrase output
func TextMarkdown(title, text string) string {
	return fmt.Sprintf("## %s\n\n%s\n", title, text)
}

// one section per panel; failed panels show their error
func AllMarkdown(result *client.AllResult) string {
	var b strings.Builder

	if result.Variations != nil {
		b.WriteString(VariationsMarkdown(result.Variations))
	} else {
		b.WriteString(panelError("Variations", result.Errors[generation.ActionVariations]))
	}

	if result.Lengths != nil {
		b.WriteString(LengthsMarkdown(result.Lengths))
	} else {
		b.WriteString(panelError("Length variations", result.Errors[generation.ActionLengthVariations]))
	}

	if result.Visual != nil {
		b.WriteString(VisualMarkdown(result.Visual))
	} else {
		b.WriteString(panelError("Diagram", result.Errors[generation.ActionGenerateVisual]))
	}

	return b.String()
}

func panelError(title string, err error) string {
	return fmt.Sprintf("## %s\n\n**failed:** %s\n\n", title, ErrorText(err))
}

func UsageMarkdown(usage *client.Usage) string {
	if usage.Remaining < 0 {
		return fmt.Sprintf("## Usage\n\n**premium**, %d generations so far, no limit\n", usage.UsageCount)
	}

	return fmt.Sprintf("## Usage\n\n%d of %d generations used, **%d remaining**\n",
		usage.UsageCount, usage.MaxUsage, usage.Remaining)
}

func HistoryMarkdown(entries []client.HistoryEntry) string {
	if len(entries) == 0 {
		return "## History\n\n_nothing yet_\n"
	}

	var b strings.Builder

	b.WriteString("## History\n\n")

	for _, entry := range entries {
		b.WriteString(fmt.Sprintf("- **%s** %s · %s\n  %s\n",
			entry.Action,
			entry.CreatedAt.Local().Format("Jan 2 15:04"),
			entry.Input,
			entry.Summary,
		))
	}

	return b.String()
}

// user-facing text for a failed call, with the follow-up the kind calls for
func ErrorText(err error) string {
	if err == nil {
		return "unknown error"
	}

	kind := client.KindOf(err)
	message := err.Error()

	var clientErr *client.Error
	if errors.As(err, &clientErr) {
		message = clientErr.Message
	}

	switch {
	case kind.NeedsLogin():
		return message + ". sign in again with `echowrite login`"
	case kind.NeedsUpgrade():
		return message + ". run `/upgrade` or `echowrite upgrade` to continue"
	case kind.Retryable():
		return message + ". please try again"
	default:
		return message
	}
}
