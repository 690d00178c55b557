// Package ui provides the timegrid command line interface.
package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timegrid/internal/block"
	"github.com/javiermolinar/timegrid/internal/config"
	"github.com/javiermolinar/timegrid/internal/db"
	"github.com/javiermolinar/timegrid/internal/debuglog"
	"github.com/javiermolinar/timegrid/internal/llm"
	"github.com/javiermolinar/timegrid/internal/suggest"
	"github.com/javiermolinar/timegrid/internal/task"
	"github.com/javiermolinar/timegrid/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	db     *db.SQLite
	blocks *block.Store
	tasks  *task.Store
	root   *cobra.Command
	debug  bool // Enable debug logging
}

// NewApp creates a new CLI application with the given config. The database
// is opened lazily by the commands that need it.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "timegrid",
		Short: "Weekly time blocks and a drag-and-drop task grid",
		Long: `timegrid keeps a weekly template of recurring time blocks and
lets you schedule tasks onto a 30-minute grid by dragging them.

Run without a subcommand to open the calendar.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return debuglog.Init(a.debug, debuglog.DefaultPath)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStores(); err != nil {
				return err
			}
			deps := tui.Deps{Tasks: a.tasks, Blocks: a.blocks}
			if planner, err := a.planner(); err == nil {
				deps.Suggester = planner
			} else {
				debuglog.Error("llm client", err)
			}
			return tui.Run(deps, a.config)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+debuglog.DefaultPath+")")
	a.root.PersistentFlags().StringVar(&a.config.Owner.ID, "owner", a.config.Owner.ID, "Owner whose blocks and tasks are used")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.blockCmd())
	a.root.AddCommand(a.taskCmd())
	a.root.AddCommand(a.viewCmd())
	a.root.AddCommand(a.suggestCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "timegrid %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureStores opens the database and builds the stores on first use.
func (a *App) ensureStores() error {
	if a.db != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	store, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.useDB(store)
	return nil
}

func (a *App) useDB(store *db.SQLite) {
	a.db = store
	a.blocks = block.NewStore(store, a.config.Timeout())
	a.tasks = task.NewStore(store, a.config.Timeout())
}

// planner builds the suggestion planner from the [llm] and [suggest] config.
func (a *App) planner() (*suggest.Planner, error) {
	client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	return suggest.New(client, a.tasks, a.blocks, suggest.Options{
		DayStart:   a.config.Suggest.DayStart,
		DayEnd:     a.config.Suggest.DayEnd,
		MaxRetries: a.config.Suggest.MaxRetries,
	}), nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database and the debug log.
func (a *App) Close() error {
	debuglog.Close()
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
