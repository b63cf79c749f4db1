package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied idempotently on every open.
// Card uniqueness per (board, task) is deliberately not a storage constraint:
// the projection synchronizer enforces it with an existence check.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS units (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		project_id INTEGER,
		unit_id INTEGER,
		status TEXT NOT NULL CHECK (status IN ('BACKLOG', 'TODO', 'IN_PROGRESS', 'BLOCKED', 'DONE')),
		priority TEXT NOT NULL DEFAULT 'MEDIUM',
		estimated_hours INTEGER NOT NULL DEFAULT 0 CHECK (estimated_hours >= 0),
		completed_at DATETIME,
		created_by INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		CHECK ((status = 'DONE') = (completed_at IS NOT NULL)),
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE SET NULL,
		FOREIGN KEY (unit_id) REFERENCES units(id) ON DELETE SET NULL,
		FOREIGN KEY (created_by) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS task_assignees (
		task_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		PRIMARY KEY (task_id, user_id),
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS activity_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		field TEXT NOT NULL DEFAULT '',
		actor_id INTEGER NOT NULL,
		message TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
		FOREIGN KEY (actor_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS boards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		project_id INTEGER,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS board_columns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		board_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('TODO', 'IN_PROGRESS', 'REVIEW', 'DONE')),
		display_order INTEGER NOT NULL,
		UNIQUE (board_id, status),
		FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS cards (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		board_id INTEGER NOT NULL,
		column_id INTEGER NOT NULL,
		task_id INTEGER,
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT NOT NULL,
		assignee_id INTEGER,
		card_order INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE,
		FOREIGN KEY (column_id) REFERENCES board_columns(id) ON DELETE CASCADE,
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE SET NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id, id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_unit ON tasks(unit_id)`,
	`CREATE INDEX IF NOT EXISTS idx_task_assignees_user ON task_assignees(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_task ON activity_events(task_id, id)`,
	`CREATE INDEX IF NOT EXISTS idx_boards_project ON boards(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_column_order ON cards(column_id, card_order)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_board_task ON cards(board_id, task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_task ON cards(task_id)`,
}

// runMigrations creates the database schema if needed
func runMigrations(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i, err)
			}
		}
		return nil
	})
}
