package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/config"
	"github.com/javiermolinar/timegrid/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Show the configuration file and optionally edit it field by field.

A file with default values is written first if none exists. Press enter
to keep a value.

Example:
  timegrid config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return editConfig(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
}

// configField is one editable setting.
type configField struct {
	label string
	get   func(*config.Config) string
	set   func(*config.Config, string) error
}

func textField(label string, ptr func(*config.Config) *string) configField {
	return configField{
		label: label,
		get:   func(c *config.Config) string { return *ptr(c) },
		set:   func(c *config.Config, v string) error { *ptr(c) = v; return nil },
	}
}

func intField(label string, ptr func(*config.Config) *int) configField {
	return configField{
		label: label,
		get:   func(c *config.Config) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", apperr.ErrValidation, v)
			}
			*ptr(c) = n
			return nil
		},
	}
}

var configFields = []configField{
	textField("Owner id", func(c *config.Config) *string { return &c.Owner.ID }),
	textField("Default view (day, week, month)", func(c *config.Config) *string { return &c.Grid.DefaultView }),
	intField("First visible hour", func(c *config.Config) *int { return &c.Grid.ViewportStart }),
	intField("Hour after the last visible one", func(c *config.Config) *int { return &c.Grid.ViewportEnd }),
	intField("Tasks per month cell", func(c *config.Config) *int { return &c.Grid.MonthMaxTasks }),
	textField("Suggestions from", func(c *config.Config) *string { return &c.Suggest.DayStart }),
	textField("Suggestions until", func(c *config.Config) *string { return &c.Suggest.DayEnd }),
	textField("LLM provider (ollama, lmstudio)", func(c *config.Config) *string { return &c.LLM.Provider }),
	textField("LLM model", func(c *config.Config) *string { return &c.LLM.Model }),
	textField("LLM base URL", func(c *config.Config) *string { return &c.LLM.BaseURL }),
	textField("Database path", func(c *config.Config) *string { return &c.Storage.DBPath }),
	textField("Storage timeout", func(c *config.Config) *string { return &c.Storage.Timeout }),
	{
		label: "UI theme (" + strings.Join(theme.Available(), ", ") + ")",
		get:   func(c *config.Config) string { return c.UI.Theme },
		set: func(c *config.Config, v string) error {
			if !theme.IsAvailable(v) {
				return fmt.Errorf("%w: unknown theme %q", apperr.ErrValidation, v)
			}
			c.UI.Theme = strings.ToLower(v)
			return nil
		},
	},
}

func editConfig(in io.Reader, w io.Writer, path string) error {
	fmt.Fprintf(w, "Config file: %s\n\n", path)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(w, "No config file found, wrote defaults to %s\n\n", path)
	}

	if err := printConfig(w, cfg); err != nil {
		return err
	}

	p := prompter{in: bufio.NewReader(in), out: w}
	if !p.confirm("\nEdit the configuration?") {
		return nil
	}
	for _, f := range configFields {
		for {
			v, ok := p.ask(f.label, f.get(cfg))
			if !ok {
				break
			}
			err := f.set(cfg, v)
			if err == nil {
				break
			}
			fmt.Fprintf(w, "  %s\n", apperr.Message(err))
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintln(w, "\nConfiguration saved.")
	return nil
}

// printConfig shows cfg exactly as it is stored on disk.
func printConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, formatHeader("Current configuration"))
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("printing config: %w", err)
	}
	return nil
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p prompter) confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	line, _ := p.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// ask returns the typed value, or ok=false when the line is empty or input
// has ended and current should stay.
func (p prompter) ask(label, current string) (string, bool) {
	if current == "" {
		fmt.Fprintf(p.out, "  %s: ", label)
	} else {
		fmt.Fprintf(p.out, "  %s [%s]: ", label, current)
	}
	line, _ := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	return line, true
}
