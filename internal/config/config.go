// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/layout"
	"github.com/javiermolinar/timegrid/internal/slot"
)

// envPrefix prefixes every environment override.
const envPrefix = "TIMEGRID_"

// Config holds the application configuration.
type Config struct {
	Owner   OwnerConfig   `toml:"owner"`
	Grid    GridConfig    `toml:"grid"`
	Storage StorageConfig `toml:"storage"`
	Suggest SuggestConfig `toml:"suggest"`
	LLM     LLMConfig     `toml:"llm"`
	UI      UIConfig      `toml:"ui"`
}

// OwnerConfig identifies whose blocks and tasks are read and written.
type OwnerConfig struct {
	ID string `toml:"id"`
}

// GridConfig holds geometry and view settings.
type GridConfig struct {
	SlotHeight    int    `toml:"slot_height"`
	Gap           int    `toml:"gap"`
	MinHeight     int    `toml:"min_height"`
	ViewportStart int    `toml:"viewport_start"` // first visible hour
	ViewportEnd   int    `toml:"viewport_end"`   // hour after the last visible one
	MonthMaxTasks int    `toml:"month_max_tasks"`
	DefaultView   string `toml:"default_view"` // "day", "week", "month"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath  string `toml:"db_path"`
	Timeout string `toml:"timeout"` // Go duration, e.g. "10s"
}

// SuggestConfig bounds the placement suggestions.
type SuggestConfig struct {
	DayStart   string `toml:"day_start"` // e.g., "08:00"
	DayEnd     string `toml:"day_end"`   // e.g., "18:00"
	MaxRetries int    `toml:"max_retries"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "ollama" or "lmstudio"
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Owner: OwnerConfig{
			ID: defaultOwner(),
		},
		Grid: GridConfig{
			SlotHeight:    layout.DefaultSlotHeight,
			Gap:           layout.DefaultGap,
			MinHeight:     layout.DefaultMinHeight,
			ViewportStart: layout.DefaultViewportStart,
			ViewportEnd:   layout.DefaultViewportEnd,
			MonthMaxTasks: calendar.DefaultMonthMaxTasks,
			DefaultView:   "week",
		},
		Storage: StorageConfig{
			DBPath:  defaultDBPath(),
			Timeout: "10s",
		},
		Suggest: SuggestConfig{
			DayStart:   "08:00",
			DayEnd:     "18:00",
			MaxRetries: 3,
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1",
			BaseURL:  "http://localhost:11434",
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

func defaultOwner() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timegrid.db"
	}
	return filepath.Join(home, ".local", "share", "timegrid", "timegrid.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timegrid", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"OWNER_ID":          &cfg.Owner.ID,
		"DEFAULT_VIEW":      &cfg.Grid.DefaultView,
		"DB_PATH":           &cfg.Storage.DBPath,
		"STORAGE_TIMEOUT":   &cfg.Storage.Timeout,
		"SUGGEST_DAY_START": &cfg.Suggest.DayStart,
		"SUGGEST_DAY_END":   &cfg.Suggest.DayEnd,
		"LLM_PROVIDER":      &cfg.LLM.Provider,
		"LLM_MODEL":         &cfg.LLM.Model,
		"LLM_BASE_URL":      &cfg.LLM.BaseURL,
		"UI_THEME":          &cfg.UI.Theme,
	}
	for name, dst := range strs {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SLOT_HEIGHT":         &cfg.Grid.SlotHeight,
		"GAP":                 &cfg.Grid.Gap,
		"MIN_HEIGHT":          &cfg.Grid.MinHeight,
		"VIEWPORT_START":      &cfg.Grid.ViewportStart,
		"VIEWPORT_END":        &cfg.Grid.ViewportEnd,
		"MONTH_MAX_TASKS":     &cfg.Grid.MonthMaxTasks,
		"SUGGEST_MAX_RETRIES": &cfg.Suggest.MaxRetries,
	}
	for name, dst := range ints {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s must be an integer, got %q", envPrefix, name, v)
		}
		*dst = n
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{apperr.ErrValidation}, args...)...)
}

// Validate checks if the configuration is valid. Every failure wraps
// apperr.ErrValidation.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Owner.ID) == "" {
		return invalid("owner id must be set")
	}

	g := c.Grid
	if g.SlotHeight <= 0 {
		return invalid("slot_height must be positive")
	}
	if g.Gap < 0 || g.Gap >= g.SlotHeight {
		return invalid("gap must be between 0 and slot_height")
	}
	if g.MinHeight < 0 {
		return invalid("min_height must not be negative")
	}
	if g.ViewportStart < 0 || g.ViewportEnd > 24 || g.ViewportStart >= g.ViewportEnd {
		return invalid("viewport must satisfy 0 <= start < end <= 24, got %d-%d", g.ViewportStart, g.ViewportEnd)
	}
	if g.MonthMaxTasks <= 0 {
		return invalid("month_max_tasks must be positive")
	}
	if _, err := calendar.ParseMode(g.DefaultView); err != nil {
		return invalid("default_view: %v", err)
	}

	if c.Storage.DBPath == "" {
		return invalid("db_path must be set")
	}
	if d, err := time.ParseDuration(c.Storage.Timeout); err != nil || d <= 0 {
		return invalid("timeout must be a positive duration, got %q", c.Storage.Timeout)
	}

	if err := validateTime(c.Suggest.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Suggest.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Suggest.DayStart >= c.Suggest.DayEnd {
		return invalid("day_start must be before day_end")
	}
	if c.Suggest.MaxRetries < 0 {
		return invalid("max_retries must not be negative")
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if _, _, err := slot.ParseClock(t); err != nil {
		return invalid("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

// Geometry returns the grid geometry described by the config.
func (c *Config) Geometry() layout.Geometry {
	return layout.Geometry{
		SlotHeight: c.Grid.SlotHeight,
		Gap:        c.Grid.Gap,
		MinHeight:  c.Grid.MinHeight,
		Viewport:   layout.Viewport{StartHour: c.Grid.ViewportStart, EndHour: c.Grid.ViewportEnd},
	}
}

// View returns the configured default view. Validate guarantees it parses.
func (c *Config) View() calendar.Mode {
	m, _ := calendar.ParseMode(c.Grid.DefaultView)
	return m
}

// Timeout returns the per-call persistence timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Storage.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
