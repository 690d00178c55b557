package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/timegrid/internal/apperr"
	"github.com/javiermolinar/timegrid/internal/calendar"
	"github.com/javiermolinar/timegrid/internal/layout"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Geometry() != layout.Default() {
		t.Errorf("expected default geometry, got %+v", cfg.Geometry())
	}
	if cfg.Grid.MonthMaxTasks != 3 {
		t.Errorf("expected month_max_tasks 3, got %d", cfg.Grid.MonthMaxTasks)
	}
	if cfg.View() != calendar.Week {
		t.Errorf("expected default view week, got %s", cfg.View())
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("expected timeout 10s, got %s", cfg.Timeout())
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.BaseURL != "http://localhost:11434" {
		t.Errorf("expected base_url http://localhost:11434, got %s", cfg.LLM.BaseURL)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.SlotHeight != layout.DefaultSlotHeight {
		t.Errorf("expected default slot_height, got %d", cfg.Grid.SlotHeight)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[owner]
id = "acme-42"

[grid]
slot_height = 1
gap = 0
min_height = 1
viewport_start = 6
viewport_end = 22
month_max_tasks = 5
default_view = "month"

[storage]
db_path = "/tmp/test.db"
timeout = "3s"

[llm]
provider = "lmstudio"
model = "qwen2.5"
base_url = "http://localhost:1234/v1"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Owner.ID != "acme-42" {
		t.Errorf("expected owner acme-42, got %s", cfg.Owner.ID)
	}
	geo := cfg.Geometry()
	if geo.SlotHeight != 1 || geo.Gap != 0 || geo.MinHeight != 1 {
		t.Errorf("unexpected geometry: %+v", geo)
	}
	if geo.Viewport != (layout.Viewport{StartHour: 6, EndHour: 22}) {
		t.Errorf("unexpected viewport: %+v", geo.Viewport)
	}
	if cfg.Grid.MonthMaxTasks != 5 {
		t.Errorf("expected month_max_tasks 5, got %d", cfg.Grid.MonthMaxTasks)
	}
	if cfg.View() != calendar.Month {
		t.Errorf("expected month view, got %s", cfg.View())
	}
	if cfg.Timeout() != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", cfg.Timeout())
	}
	if cfg.LLM.Provider != "lmstudio" || cfg.LLM.Model != "qwen2.5" {
		t.Errorf("unexpected llm config: %+v", cfg.LLM)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	// Untouched sections keep their defaults.
	if cfg.Suggest.DayStart != "08:00" {
		t.Errorf("expected default suggest day_start, got %s", cfg.Suggest.DayStart)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[owner]
id = "from-file"

[grid]
viewport_start = 7

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("TIMEGRID_OWNER_ID", "from-env")
	t.Setenv("TIMEGRID_SLOT_HEIGHT", "30")
	t.Setenv("TIMEGRID_LLM_MODEL", "mistral")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Owner.ID != "from-env" {
		t.Errorf("expected owner from env, got %s", cfg.Owner.ID)
	}
	if cfg.Grid.SlotHeight != 30 {
		t.Errorf("expected slot_height 30 from env, got %d", cfg.Grid.SlotHeight)
	}
	if cfg.Grid.ViewportStart != 7 {
		t.Errorf("expected viewport_start 7 from file, got %d", cfg.Grid.ViewportStart)
	}
	if cfg.LLM.Model != "mistral" {
		t.Errorf("expected model mistral from env, got %s", cfg.LLM.Model)
	}
}

func TestLoadFrom_BadIntegerEnv(t *testing.T) {
	t.Setenv("TIMEGRID_GAP", "wide")

	if _, err := LoadFrom("/nonexistent/config.toml"); err == nil {
		t.Error("expected error for non-integer env override")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty owner", func(c *Config) { c.Owner.ID = " " }},
		{"zero slot height", func(c *Config) { c.Grid.SlotHeight = 0 }},
		{"gap as tall as a slot", func(c *Config) { c.Grid.Gap = c.Grid.SlotHeight }},
		{"negative min height", func(c *Config) { c.Grid.MinHeight = -1 }},
		{"viewport reversed", func(c *Config) { c.Grid.ViewportStart, c.Grid.ViewportEnd = 20, 8 }},
		{"viewport past midnight", func(c *Config) { c.Grid.ViewportEnd = 25 }},
		{"zero month tasks", func(c *Config) { c.Grid.MonthMaxTasks = 0 }},
		{"unknown view", func(c *Config) { c.Grid.DefaultView = "year" }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"bad timeout", func(c *Config) { c.Storage.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.Storage.Timeout = "-1s" }},
		{"bad suggest start", func(c *Config) { c.Suggest.DayStart = "8:00" }},
		{"suggest start after end", func(c *Config) { c.Suggest.DayStart, c.Suggest.DayEnd = "18:00", "08:00" }},
		{"negative retries", func(c *Config) { c.Suggest.MaxRetries = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("Validate() = %v, want ErrValidation", err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Owner.ID = "builder"
	cfg.Grid.ViewportStart = 6
	cfg.Grid.DefaultView = "day"
	cfg.UI.Theme = "latte"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Owner.ID != "builder" {
		t.Errorf("expected owner builder, got %s", loaded.Owner.ID)
	}
	if loaded.Grid.ViewportStart != 6 {
		t.Errorf("expected viewport_start 6, got %d", loaded.Grid.ViewportStart)
	}
	if loaded.View() != calendar.Day {
		t.Errorf("expected day view, got %s", loaded.View())
	}
	if loaded.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", loaded.UI.Theme)
	}
}
