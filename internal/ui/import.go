package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/block"
)

// yamlTemplate is the root of a block template file.
type yamlTemplate struct {
	Blocks []yamlBlock `yaml:"blocks"`
}

// yamlBlock is one block of a template file.
type yamlBlock struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description,omitempty"`
	Day         yamlDay `yaml:"day"`
	Start       string  `yaml:"start"`
	End         string  `yaml:"end"`
	Category    string  `yaml:"category,omitempty"`
	Color       string  `yaml:"color,omitempty"`
}

// yamlDay accepts 0-6 or a weekday name and writes the name back.
type yamlDay int

func (d *yamlDay) UnmarshalYAML(value *yaml.Node) error {
	day, err := block.ParseDay(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = yamlDay(day)
	return nil
}

func (d yamlDay) MarshalYAML() (any, error) {
	return strings.ToLower(block.DayName(int(d))), nil
}

type blockCreator interface {
	Create(ctx context.Context, ownerID string, in block.NewTimeBlock) (*block.TimeBlock, error)
}

func (a *App) importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file.yaml]",
		Short: "Create blocks from a YAML template",
		Long: `Create blocks from a YAML template. Existing blocks are kept.

Template format:
  blocks:
    - title: Deep work
      day: monday        # 0-6 (0 = Sunday) or a weekday name
      start: "09:00"
      end: "11:00"
      category: work     # optional, default work
      color: "#3b82f6"   # optional, default from category`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading template: %w", err)
			}

			if dryRun {
				tmpl, err := parseTemplate(data)
				if err != nil {
					return err
				}
				for _, yb := range tmpl.Blocks {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-9s %s-%s  %s\n", block.DayName(int(yb.Day)), yb.Start, yb.End, yb.Title)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n(Dry run - %d blocks not saved)\n", len(tmpl.Blocks))
				return nil
			}

			count, err := importBlocks(context.Background(), a.blocks, a.config.Owner.ID, data)
			if err != nil {
				return fmt.Errorf("imported %d blocks before failing: %w", count, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d blocks from %s\n", count, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the blocks without saving")
	return cmd
}

func parseTemplate(data []byte) (*yamlTemplate, error) {
	var tmpl yamlTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("%w: YAML parse error: %v", apperr.ErrValidation, err)
	}
	if len(tmpl.Blocks) == 0 {
		return nil, fmt.Errorf("%w: no blocks found in template", apperr.ErrEmptySource)
	}
	return &tmpl, nil
}

// importBlocks creates every block of a template and returns how many were
// created. It stops at the first invalid block.
func importBlocks(ctx context.Context, dest blockCreator, ownerID string, data []byte) (int, error) {
	tmpl, err := parseTemplate(data)
	if err != nil {
		return 0, err
	}

	imported := 0
	for i, yb := range tmpl.Blocks {
		var cat block.Category
		if yb.Category != "" {
			cat, err = block.ParseCategory(yb.Category)
			if err != nil {
				return imported, fmt.Errorf("block %d (%q): %w", i+1, yb.Title, err)
			}
		}

		_, err := dest.Create(ctx, ownerID, block.NewTimeBlock{
			Title:       yb.Title,
			Description: yb.Description,
			DayOfWeek:   int(yb.Day),
			StartTime:   yb.Start,
			EndTime:     yb.End,
			Category:    cat,
			Color:       yb.Color,
		})
		if err != nil {
			return imported, fmt.Errorf("block %d (%q): %w", i+1, yb.Title, err)
		}
		imported++
	}

	return imported, nil
}

func (a *App) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.yaml]",
		Short: "Write the blocks as a YAML template (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks, err := a.blocks.List(context.Background(), a.config.Owner.ID)
			if err != nil {
				return fmt.Errorf("listing blocks: %w", err)
			}
			data, err := exportBlocks(blocks)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("writing template: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d blocks to %s\n", len(blocks), path)
			return nil
		},
	}
}

func exportBlocks(blocks []*block.TimeBlock) ([]byte, error) {
	tmpl := yamlTemplate{Blocks: make([]yamlBlock, 0, len(blocks))}
	for _, b := range blocks {
		yb := yamlBlock{
			Title:       b.Title,
			Description: b.Description,
			Day:         yamlDay(b.DayOfWeek),
			Start:       b.StartTime,
			End:         b.EndTime,
			Category:    string(b.Category),
		}
		if b.Color != b.Category.DefaultColor() {
			yb.Color = b.Color
		}
		tmpl.Blocks = append(tmpl.Blocks, yb)
	}
	data, err := yaml.Marshal(tmpl)
	if err != nil {
		return nil, fmt.Errorf("encoding template: %w", err)
	}
	return data, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
