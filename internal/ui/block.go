package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/block"
)

func (a *App) blockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manage the weekly template of recurring time blocks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.root.PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return a.ensureStores()
		},
	}
	cmd.AddCommand(a.blockAddCmd())
	cmd.AddCommand(a.blockListCmd())
	cmd.AddCommand(a.blockEditCmd())
	cmd.AddCommand(a.blockDeleteCmd())
	cmd.AddCommand(a.blockCopyCmd())
	cmd.AddCommand(a.importCmd())
	cmd.AddCommand(a.exportCmd())
	return cmd
}

func (a *App) blockAddCmd() *cobra.Command {
	var (
		day         string
		start       string
		end         string
		category    string
		color       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a recurring block",
		Example: `  timegrid block add "Deep work" --day=mon --start=09:00 --end=11:00 --category=work
  timegrid block add Lunch --day=1 --start=12:00 --end=13:00 --category=break`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := block.ParseDay(day)
			if err != nil {
				return err
			}
			cat, err := block.ParseCategory(category)
			if err != nil {
				return err
			}

			b, err := a.blocks.Create(context.Background(), a.config.Owner.ID, block.NewTimeBlock{
				Title:       strings.Join(args, " "),
				Description: description,
				DayOfWeek:   d,
				StartTime:   start,
				EndTime:     end,
				Category:    cat,
				Color:       color,
			})
			if err != nil {
				return fmt.Errorf("creating block: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created block %s: %s %s-%s %s\n",
				shortID(b.ID), block.DayName(b.DayOfWeek), b.StartTime, b.EndTime,
				formatCategory(b.Category, b.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day of week (0-6 or name, 0 = Sunday)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&category, "category", string(block.CategoryWork), "Category: "+categoryNames())
	cmd.Flags().StringVar(&color, "color", "", "Color override (#rrggbb, default: category color)")
	cmd.Flags().StringVar(&description, "description", "", "Longer description")

	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) blockListCmd() *cobra.Command {
	var day string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blocks, grouped by day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			w := cmd.OutOrStdout()

			var (
				blocks []*block.TimeBlock
				err    error
			)
			if day != "" {
				d, perr := block.ParseDay(day)
				if perr != nil {
					return perr
				}
				blocks, err = a.blocks.ListDay(ctx, a.config.Owner.ID, d)
			} else {
				blocks, err = a.blocks.List(ctx, a.config.Owner.ID)
			}
			if err != nil {
				return fmt.Errorf("listing blocks: %w", err)
			}

			if len(blocks) == 0 {
				fmt.Fprintln(w, "No blocks found.")
				return nil
			}

			current := -1
			for _, b := range blocks {
				if b.DayOfWeek != current {
					if current != -1 {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "=== %s ===\n", formatHeader(block.DayName(b.DayOfWeek)))
					current = b.DayOfWeek
				}
				PrintBlockRow(w, b, 30)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only this day (0-6 or name)")
	return cmd
}

func (a *App) blockEditCmd() *cobra.Command {
	var (
		title, description, day, start, end, category, color string
	)

	cmd := &cobra.Command{
		Use:     "edit [id]",
		Short:   "Change fields of a block",
		Example: `  timegrid block edit 3f2a9c1e --start=10:00 --category=meeting`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := a.resolveBlockID(ctx, args[0])
			if err != nil {
				return err
			}

			var patch block.Patch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("day") {
				d, err := block.ParseDay(day)
				if err != nil {
					return err
				}
				patch.DayOfWeek = &d
			}
			if flags.Changed("start") {
				patch.StartTime = &start
			}
			if flags.Changed("end") {
				patch.EndTime = &end
			}
			if flags.Changed("category") {
				c, err := block.ParseCategory(category)
				if err != nil {
					return err
				}
				patch.Category = &c
			}
			if flags.Changed("color") {
				patch.Color = &color
			}
			if patch.Empty() {
				return fmt.Errorf("%w: nothing to change", apperr.ErrValidation)
			}

			b, err := a.blocks.Update(ctx, a.config.Owner.ID, id, patch)
			if err != nil {
				return fmt.Errorf("updating block: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated block %s:\n", shortID(b.ID))
			PrintBlockRow(cmd.OutOrStdout(), b, 30)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&day, "day", "", "New day of week")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "New end time (HH:MM)")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&color, "color", "", "New color")
	return cmd
}

func (a *App) blockDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := a.resolveBlockID(ctx, args[0])
			if errors.Is(err, apperr.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to delete.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := a.blocks.Delete(ctx, a.config.Owner.ID, id); err != nil {
				return fmt.Errorf("deleting block: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted block %s\n", shortID(id))
			return nil
		},
	}
}

func (a *App) blockCopyCmd() *cobra.Command {
	var to []string

	cmd := &cobra.Command{
		Use:   "copy [day]",
		Short: "Replace the blocks of other days with copies of one day",
		Long: `Copy every block of a day onto the target days. Existing blocks on the
target days are removed first. The source day is never a target.`,
		Example: `  timegrid block copy mon --to=tue,wed,thu,fri`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := block.ParseDay(args[0])
			if err != nil {
				return err
			}
			targets := make([]int, 0, len(to))
			for _, s := range to {
				d, err := block.ParseDay(s)
				if err != nil {
					return err
				}
				targets = append(targets, d)
			}

			n, err := a.blocks.CopyDay(context.Background(), a.config.Owner.ID, source, targets)
			if err != nil {
				return fmt.Errorf("copying %s: %w", block.DayName(source), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d blocks from %s\n", n, block.DayName(source))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&to, "to", nil, "Target days (comma-separated)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// resolveBlockID expands a unique ID prefix, as printed by block list.
func (a *App) resolveBlockID(ctx context.Context, prefix string) (string, error) {
	blocks, err := a.blocks.List(ctx, a.config.Owner.ID)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, b := range blocks {
		if b.ID == prefix {
			return b.ID, nil
		}
		if strings.HasPrefix(b.ID, prefix) {
			matches = append(matches, b.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: block %s", apperr.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d blocks", apperr.ErrValidation, prefix, len(matches))
	}
}

func categoryNames() string {
	names := make([]string, 0, len(block.Categories()))
	for _, c := range block.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
