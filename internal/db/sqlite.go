// Package db provides the SQLite persistence collaborator for blocks and
// tasks.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/timegrid/internal/block"
	"github.com/javiermolinar/timegrid/internal/task"
)

// dueLayout stores due dates as local wall-clock time so that the midnight
// backlog convention survives a round trip regardless of zone.
const dueLayout = "2006-01-02T15:04"

// SQLite implements block.Repository, block.DayReplacer and task.Repository.
type SQLite struct {
	db *sql.DB
}

var (
	_ block.Repository  = (*SQLite)(nil)
	_ block.DayReplacer = (*SQLite)(nil)
	_ task.Repository   = (*SQLite)(nil)
)

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// The TUI and a CLI command may hold the database at the same time.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(time.RFC3339)
}

func formatDue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dueLayout)
}

func parseDue(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dueLayout, s.String, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parsing due date %q: %w", s.String, err)
	}
	return &t, nil
}

// parseDate parses a timestamp in the formats SQLite might return.
// Date-only values are parsed in the local timezone.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
