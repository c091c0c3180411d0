package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/echowrite/server/echowrite/generation"
	"codeberg.org/echowrite/server/internal/client"
	"codeberg.org/echowrite/server/internal/logger"
	"codeberg.org/echowrite/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login --token <token>",
		Short: "Save an access token for later commands",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			token := a.v.GetString(keyToken)
			if token == "" {
				return fmt.Errorf("--token is required")
			}

			if err := a.store.SaveToken(token); err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, "token saved") //nolint:errcheck

			return nil
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token, history and profile",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.store.Logout(); err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, "signed out") //nolint:errcheck

			return nil
		},
	}
}

func (a *app) bootstrapCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create your account record (safe to repeat)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			account, err := api.Bootstrap(cmd.Context(), name)
			if err != nil {
				return err
			}

			a.saveAccount(account, name)

			return a.print(account, fmt.Sprintf("## Account ready\n\n%s, %d of %d generations used\n",
				account.Role, account.UsageCount, account.MaxUsage))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name stored on your profile")

	return cmd
}

func (a *app) upgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Activate premium (no generation limit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			account, err := api.ActivatePremium(cmd.Context())
			if err != nil {
				return err
			}

			a.saveAccount(account, "")

			return a.print(account, "## Premium activated\n\nno more generation limit.\n")
		},
	}
}

func (a *app) usageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show generations used and remaining",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			usage, err := api.Usage(cmd.Context())
			if err != nil {
				return err
			}

			a.saveAccount(&client.Account{
				UserID:     usage.UserID,
				Role:       usage.Role,
				UsageCount: usage.UsageCount,
				MaxUsage:   usage.MaxUsage,
			}, "")

			return a.print(usage, tui.UsageMarkdown(usage))
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List your last ten generations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			entries, err := a.store.History()
			if err != nil {
				return err
			}

			return a.print(entries, tui.HistoryMarkdown(entries))
		},
	}
}

func (a *app) variationsCmd() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "variations [text]",
		Short: "Eight style variations of the text",
		RunE: a.generate(generation.ActionVariations, func(ctx context.Context, api *client.Client, text string) (any, string, error) {
			result, err := api.Variations(ctx, text, style)
			if err != nil {
				return nil, "", err
			}

			return result, tui.VariationsMarkdown(result), nil
		}),
	}

	cmd.Flags().StringVar(&style, "style", "", "style every variation leans towards")

	return cmd
}

func (a *app) translateCmd() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate the text",
		RunE: a.generate(generation.ActionTranslate, func(ctx context.Context, api *client.Client, text string) (any, string, error) {
			translated, err := api.Translate(ctx, text, language)
			if err != nil {
				return nil, "", err
			}

			return generation.TextResult{Text: translated}, tui.TextMarkdown("Translation", translated), nil
		}),
	}

	cmd.Flags().StringVar(&language, "to", generation.DefaultTargetLanguage, "target language")

	return cmd
}

func (a *app) rephraseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rephrase [text]",
		Short: "Rephrase the text so it reads clearly",
		RunE: a.generate(generation.ActionRephrase, func(ctx context.Context, api *client.Client, text string) (any, string, error) {
			rephrased, err := api.Rephrase(ctx, text)
			if err != nil {
				return nil, "", err
			}

			return generation.TextResult{Text: rephrased}, tui.TextMarkdown("Rephrased", rephrased), nil
		}),
	}
}

func (a *app) lengthsCmd() *cobra.Command {
	var lengthType string

	cmd := &cobra.Command{
		Use:   "lengths [text]",
		Short: "Shorter and longer versions of the text",
		RunE: a.generate(generation.ActionLengthVariations, func(ctx context.Context, api *client.Client, text string) (any, string, error) {
			result, err := api.LengthVariations(ctx, text, generation.LengthType(lengthType).Normalize())
			if err != nil {
				return nil, "", err
			}

			return result, tui.LengthsMarkdown(result), nil
		}),
	}

	cmd.Flags().StringVar(&lengthType, "type", string(generation.LengthAll), "simple, medium, long or all")

	return cmd
}

func (a *app) visualCmd() *cobra.Command {
	var visualType string

	cmd := &cobra.Command{
		Use:   "visual [text]",
		Short: "Turn the text into a Mermaid diagram",
		RunE: a.generate(generation.ActionGenerateVisual, func(ctx context.Context, api *client.Client, text string) (any, string, error) {
			result, err := api.GenerateVisual(ctx, text, generation.VisualType(visualType).Normalize())
			if err != nil {
				return nil, "", err
			}

			return result, tui.VisualMarkdown(result), nil
		}),
	}

	cmd.Flags().StringVar(&visualType, "type", string(generation.VisualFlowchart), "flowchart, mindmap, sequence or timeline")

	return cmd
}

func (a *app) allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all [text]",
		Short: "Variations, length variations and a flowchart in one go",
		RunE: a.generate("all", func(ctx context.Context, api *client.Client, text string) (any, string, error) {
			result := api.GenerateAll(ctx, text)

			// every panel failed: surface the first error
			if result.Variations == nil && result.Lengths == nil && result.Visual == nil {
				for _, action := range []generation.Action{generation.ActionVariations, generation.ActionLengthVariations, generation.ActionGenerateVisual} {
					if err := result.Errors[action]; err != nil {
						return nil, "", err
					}
				}
			}

			return result, tui.AllMarkdown(result), nil
		}),
	}
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}

			profile, err := a.store.Profile()
			if err != nil {
				logger.Warn("failed to read profile snapshot", "error", err)
			}

			model := tui.NewApp(api, a.store, profile)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

			_, err = p.Run()

			return err
		},
	}
}

type runFunc func(ctx context.Context, api *client.Client, text string) (any, string, error)

// wraps a generation: reads the text, calls the API, records history, prints
func (a *app) generate(action generation.Action, run runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		text, err := a.inputText(args)
		if err != nil {
			return err
		}

		api, err := a.api()
		if err != nil {
			return err
		}

		result, markdown, err := run(cmd.Context(), api, text)
		if err != nil {
			return err
		}

		if err := a.store.AddHistory(client.NewHistoryEntry(action, text, summaryValue(result))); err != nil {
			logger.Warn("failed to save history", "error", err)
		}

		return a.print(result, markdown)
	}
}

// text results are summarized by their text
func summaryValue(result any) any {
	if text, ok := result.(generation.TextResult); ok {
		return text.Text
	}

	return result
}

// keeps the local profile snapshot in step with the server
func (a *app) saveAccount(account *client.Account, name string) {
	snapshot := client.ProfileSnapshot{}

	if cached, err := a.store.Profile(); err == nil && cached != nil && cached.UserID == account.UserID {
		snapshot = *cached
	}

	snapshot.UserID = account.UserID
	snapshot.Role = account.Role
	snapshot.UsageCount = account.UsageCount
	snapshot.MaxUsage = account.MaxUsage
	snapshot.UpdatedAt = time.Now().UTC()

	if name != "" {
		snapshot.Name = name
	}

	if err := a.store.SaveProfile(snapshot); err != nil {
		logger.Warn("failed to save profile snapshot", "error", err)
	}
}
