package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/echowrite/server/echowrite/generation"
	"codeberg.org/echowrite/server/internal/client"
	"codeberg.org/echowrite/server/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
)

// history label for the combined panels
const actionAll generation.Action = "all"

// timeout for one slash command; GenerateAll fans out in parallel so one budget covers it
const commandTimeout = 90 * time.Second

// slash commands understood by the editor
var slashCommands = []Command{
	{Name: "/variations [style]", Description: "eight style variations"},
	{Name: "/translate [language]", Description: "translate (English by default)"},
	{Name: "/rephrase", Description: "clean up wording"},
	{Name: "/lengths [simple|medium|long|all]", Description: "shorter and longer versions"},
	{Name: "/visual [flowchart|mindmap|sequence|timeline]", Description: "mermaid diagram"},
	{Name: "/all", Description: "variations, lengths and a flowchart at once"},
	{Name: "/usage", Description: "generations used and remaining"},
	{Name: "/upgrade", Description: "activate premium"},
	{Name: "/history", Description: "last ten generations"},
	{Name: "/clear", Description: "clear text and output"},
	{Name: "/help", Description: "show this list"},
}

// splits "/name rest of line" into name and argument
func parseCommand(line string) (string, string) {
	line = strings.TrimSpace(line)

	name, arg, _ := strings.Cut(line, " ")

	return strings.ToLower(name), strings.TrimSpace(arg)
}

// builds the command for a generation slash command over text
func generationCmd(service Service, store Store, name, arg, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		var (
			action   generation.Action
			result   any
			markdown string
			err      error
		)

		switch name {
		case "/variations":
			action = generation.ActionVariations

			var r *generation.VariationsResult
			if r, err = service.Variations(ctx, text, arg); err == nil {
				result, markdown = r, VariationsMarkdown(r)
			}

		case "/translate":
			action = generation.ActionTranslate

			var translated string
			if translated, err = service.Translate(ctx, text, arg); err == nil {
				language := arg
				if language == "" {
					language = generation.DefaultTargetLanguage
				}

				result, markdown = translated, TextMarkdown("Translation ("+language+")", translated)
			}

		case "/rephrase":
			action = generation.ActionRephrase

			var rephrased string
			if rephrased, err = service.Rephrase(ctx, text); err == nil {
				result, markdown = rephrased, TextMarkdown("Rephrased", rephrased)
			}

		case "/lengths":
			action = generation.ActionLengthVariations

			var r *generation.LengthVariationsResult
			if r, err = service.LengthVariations(ctx, text, generation.LengthType(arg).Normalize()); err == nil {
				result, markdown = r, LengthsMarkdown(r)
			}

		case "/visual":
			action = generation.ActionGenerateVisual

			var r *generation.VisualResult
			if r, err = service.GenerateVisual(ctx, text, generation.VisualType(arg).Normalize()); err == nil {
				result, markdown = r, VisualMarkdown(r)
			}

		case "/all":
			action = actionAll

			r := service.GenerateAll(ctx, text)
			result, markdown = r, AllMarkdown(r)

		default:
			return FailureMsg{Command: name, Err: fmt.Errorf("unknown command %s", name)}
		}

		if err != nil {
			return FailureMsg{Command: name, Err: err}
		}

		if err := store.AddHistory(client.NewHistoryEntry(action, text, result)); err != nil {
			logger.Warn("failed to save history", "error", err)
		}

		return ResultMsg{Command: name, Markdown: markdown, Status: "done"}
	}
}

func usageCmd(service Service, store Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		usage, err := service.Usage(ctx)
		if err != nil {
			return FailureMsg{Command: "/usage", Err: err}
		}

		saveSnapshot(store, usage.UserID, usage.Role, usage.UsageCount, usage.MaxUsage)

		return ResultMsg{Command: "/usage", Markdown: UsageMarkdown(usage)}
	}
}

func upgradeCmd(service Service, store Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		account, err := service.ActivatePremium(ctx)
		if err != nil {
			return FailureMsg{Command: "/upgrade", Err: err}
		}

		saveSnapshot(store, account.UserID, account.Role, account.UsageCount, account.MaxUsage)

		return ResultMsg{
			Command:  "/upgrade",
			Markdown: "## Premium activated\n\nno more generation limit.\n",
			Status:   "premium",
		}
	}
}

func historyCmd(store Store) tea.Cmd {
	return func() tea.Msg {
		entries, err := store.History()
		if err != nil {
			return FailureMsg{Command: "/history", Err: err}
		}

		return ResultMsg{Command: "/history", Markdown: HistoryMarkdown(entries)}
	}
}

func helpMarkdown() string {
	var b strings.Builder

	b.WriteString("## Commands\n\nType or paste text and press enter to set it, then run a command.\n\n")

	for _, cmd := range slashCommands {
		b.WriteString(fmt.Sprintf("- `%s` %s\n", cmd.Name, cmd.Description))
	}

	return b.String()
}

// refreshes the cached counters, keeping the cached name and email
func saveSnapshot(store Store, userID, role string, usageCount, maxUsage int) {
	snapshot := client.ProfileSnapshot{}

	if cached, err := store.Profile(); err == nil && cached != nil && cached.UserID == userID {
		snapshot = *cached
	}

	snapshot.UserID = userID
	snapshot.Role = role
	snapshot.UsageCount = usageCount
	snapshot.MaxUsage = maxUsage
	snapshot.UpdatedAt = time.Now().UTC()

	if err := store.SaveProfile(snapshot); err != nil {
		logger.Warn("failed to save profile snapshot", "error", err)
	}
}
