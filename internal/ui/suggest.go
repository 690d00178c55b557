package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/suggest"
)

func (a *App) suggestCmd() *cobra.Command {
	var (
		date   string
		model  string
		apply  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the LLM where to place backlog tasks",
		Long: `Ask the configured LLM to place backlog tasks into the free time of a
day. Recurring blocks and already scheduled tasks are treated as busy.

Examples:
  timegrid suggest
  timegrid suggest --date=tomorrow --dry-run

Interactive mode:
  After the proposal is shown, you can:
  - [a]ccept: Schedule the proposed tasks
  - [m]odify: Give feedback to adjust the proposal
  - [c]ancel: Exit without changes`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.root.PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.ensureStores()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if model != "" {
				a.config.LLM.Model = model
			}
			day, err := parseDay(date, time.Now())
			if err != nil {
				return err
			}
			p, err := a.planner()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			ctx := context.Background()

			fmt.Fprintln(w, "Looking for free slots...")
			result, err := p.Suggest(ctx, a.config.Owner.ID, day)
			if err != nil {
				return fmt.Errorf("suggesting: %w", err)
			}

			reader := bufio.NewReader(os.Stdin)
			for {
				displaySuggestion(w, result)

				if len(result.Proposals) == 0 {
					return nil
				}
				if dryRun {
					fmt.Fprintln(w, "\n(Dry run - nothing scheduled)")
					return nil
				}
				if apply {
					return applySuggestion(ctx, w, p, a.config.Owner.ID, result)
				}

				fmt.Fprint(w, "\n[a]ccept / [m]odify / [c]ancel: ")
				choice, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("reading input: %w", err)
				}

				switch strings.TrimSpace(strings.ToLower(choice)) {
				case "a", "accept":
					return applySuggestion(ctx, w, p, a.config.Owner.ID, result)

				case "m", "modify":
					fmt.Fprint(w, "What would you like to change? ")
					feedback, err := reader.ReadString('\n')
					if err != nil {
						return fmt.Errorf("reading input: %w", err)
					}
					feedback = strings.TrimSpace(feedback)
					if feedback == "" {
						fmt.Fprintln(w, "No feedback given, showing current proposal...")
						continue
					}
					fmt.Fprintln(w, "\nAsking again...")
					result, err = p.Refine(ctx, feedback)
					if err != nil {
						return fmt.Errorf("refining: %w", err)
					}

				case "c", "cancel":
					fmt.Fprintln(w, "Nothing scheduled.")
					return nil

				default:
					fmt.Fprintln(w, "Invalid choice. Please enter 'a', 'm', or 'c'.")
				}
			}
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to fill (YYYY-MM-DD, today, tomorrow, monday)")
	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (from config if not set)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Schedule the proposal without asking")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the proposal without scheduling")

	return cmd
}

func applySuggestion(ctx context.Context, w io.Writer, p *suggest.Planner, ownerID string, result *suggest.Result) error {
	placed, err := p.Apply(ctx, ownerID, result)
	if err != nil {
		return fmt.Errorf("scheduled %d of %d tasks: %w", len(placed), len(result.Proposals), err)
	}
	fmt.Fprintf(w, "\nScheduled %d tasks on %s\n", len(placed), result.Date.Format("Monday, January 2"))
	return nil
}

// displaySuggestion prints the proposals of a suggestion run.
func displaySuggestion(w io.Writer, result *suggest.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, formatHeader("Suggestions for "+result.Date.Format("Monday, January 2, 2006")))

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, msg := range result.Warnings {
			fmt.Fprintf(w, "  %s\n", formatWarn("! "+msg))
		}
	}

	if result.HasValidationErrors() {
		fmt.Fprintln(w, "\nRejected placements (retry limit reached):")
		for _, ve := range result.ValidationErrors {
			fmt.Fprintf(w, "  - %s\n", ve.Message)
		}
	}

	if len(result.Proposals) == 0 {
		fmt.Fprintln(w, "\nNo placements proposed.")
		return
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	total := 0
	for _, prop := range result.Proposals {
		fmt.Fprintf(w, "  %s-%s  %s\n",
			formatTask(prop.At.Format("15:04")),
			formatTask(prop.End().Format("15:04")),
			prop.Task.TaskName)
		if prop.Reason != "" {
			fmt.Fprintf(w, "               %s\n", formatMuted(prop.Reason))
		}
		total += prop.Duration
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Total: %d tasks, %s\n", len(result.Proposals), FormatDuration(total))
}
