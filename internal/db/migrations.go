package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS time_blocks (
			id           TEXT PRIMARY KEY,
			owner_id     TEXT NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			day_of_week  INTEGER NOT NULL CHECK(day_of_week BETWEEN 0 AND 6),
			start_time   TEXT NOT NULL,
			end_time     TEXT NOT NULL,
			category     TEXT NOT NULL CHECK(category IN (
				'work', 'personal', 'meeting', 'break', 'family',
				'site_visit', 'church', 'rest', 'exercise'
			)),
			color        TEXT NOT NULL,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK(start_time < end_time)
		);

		CREATE INDEX IF NOT EXISTS idx_time_blocks_owner_day ON time_blocks(owner_id, day_of_week);

		CREATE TABLE IF NOT EXISTS tasks (
			id            TEXT PRIMARY KEY,
			owner_id      TEXT NOT NULL,
			task_name     TEXT NOT NULL,
			project_name  TEXT NOT NULL DEFAULT '',
			task_type     TEXT NOT NULL DEFAULT '',
			priority      TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL DEFAULT 'todo',
			due_date      TEXT,
			duration      INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_owner_due ON tasks(owner_id, due_date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
