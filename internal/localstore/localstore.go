// Package localstore provides the device-local task database.
//
// The local store is an embedded SQLite database (WAL mode) that holds the
// user's tasks and groups while no cloud account is active, and serves as an
// offline read-through cache of the cloud store after sign-in.
//
// Records created here get "local-"-prefixed identifiers so the sync engine
// can tell device-born data from cached cloud data.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quadranthq/quadrant/internal/model"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store wraps the SQLite connection holding local tasks and groups.
type Store struct {
	conn *sql.DB
	path string
}

// Open creates a new database connection at the specified path.
//
// The database is opened in embedded mode with WAL for concurrent reads.
// If the database doesn't exist, it is created; call InitSchema before use.
//
// The caller MUST call Close() when done.
//
// Example:
//
//	store, err := localstore.Open("~/.quadrant/local.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{
		conn: conn,
		path: path,
	}

	if _, err := s.conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := s.conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := s.conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
// Performs a WAL checkpoint to ensure all changes are persisted.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	if _, err := s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.conn = nil
	return nil
}

// InitSchema creates the database schema if it doesn't exist.
// This is idempotent - safe to call multiple times.
func (s *Store) InitSchema() error {
	return s.InitSchemaContext(context.Background())
}

// InitSchemaContext creates the database schema with context support.
func (s *Store) InitSchemaContext(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT,
		position REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		notes TEXT,
		urgent INTEGER,      -- NULL = not yet prioritized
		important INTEGER,   -- NULL = not yet prioritized
		due_date TEXT,
		due_time TEXT,
		auto_urgent_days INTEGER,
		group_id TEXT REFERENCES groups(id),
		position REAL NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_group ON tasks(group_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);
	CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date);
	CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position);
	`

	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// CreateTask inserts a new task, assigning a local identifier when the task
// has none. Used by the CRUD screens, not by the sync engine.
func (s *Store) CreateTask(task *model.Task) error {
	return s.CreateTaskContext(context.Background(), task)
}

// CreateTaskContext inserts a new task with context support.
func (s *Store) CreateTaskContext(ctx context.Context, task *model.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	if task.ID == "" {
		task.ID = model.NewLocalID()
	}
	task.SetDefaults()

	if task.Position == 0 {
		pos, err := s.nextPosition(ctx, "tasks")
		if err != nil {
			return err
		}
		task.Position = pos
	}

	return insertTask(ctx, s.conn, task)
}

// CreateGroup inserts a new group, assigning a local identifier when the
// group has none.
func (s *Store) CreateGroup(group *model.TaskGroup) error {
	return s.CreateGroupContext(context.Background(), group)
}

// CreateGroupContext inserts a new group with context support.
func (s *Store) CreateGroupContext(ctx context.Context, group *model.TaskGroup) error {
	if err := group.Validate(); err != nil {
		return fmt.Errorf("invalid group: %w", err)
	}

	if group.ID == "" {
		group.ID = model.NewLocalID()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now()
	}

	if group.Position == 0 {
		pos, err := s.nextPosition(ctx, "groups")
		if err != nil {
			return err
		}
		group.Position = pos
	}

	return insertGroup(ctx, s.conn, group)
}

// Tasks returns all tasks ordered by position, then creation time.
func (s *Store) Tasks(ctx context.Context) ([]*model.Task, error) {
	rows, err := s.conn.QueryContext(ctx, `
	SELECT id, title, notes, urgent, important, due_date, due_time,
	       auto_urgent_days, group_id, position, completed,
	       created_at, updated_at
	FROM tasks
	ORDER BY position ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Groups returns all groups ordered by position, then creation time.
func (s *Store) Groups(ctx context.Context) ([]*model.TaskGroup, error) {
	rows, err := s.conn.QueryContext(ctx, `
	SELECT id, name, color, position, created_at
	FROM groups
	ORDER BY position ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	return scanGroups(rows)
}

// TaskCount returns the total number of tasks.
func (s *Store) TaskCount(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get task count: %w", err)
	}
	return count, nil
}

// GroupCount returns the total number of groups.
func (s *Store) GroupCount(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM groups").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get group count: %w", err)
	}
	return count, nil
}

// MarkUrgent flips a task's urgent flag to true. Used by the scheduler when
// a task enters its auto-urgent window.
func (s *Store) MarkUrgent(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx,
		"UPDATE tasks SET urgent = 1, updated_at = ? WHERE id = ?",
		time.Now().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to mark task %s urgent: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}

// ReplaceAll atomically swaps the entire store contents for the given records,
// identifiers unchanged. Used by the download path to cache cloud data.
func (s *Store) ReplaceAll(ctx context.Context, tasks []*model.Task, groups []*model.TaskGroup) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM groups"); err != nil {
		return fmt.Errorf("failed to clear groups: %w", err)
	}

	// Groups first so task references resolve under foreign keys.
	for _, group := range groups {
		if err := insertGroup(ctx, tx, group); err != nil {
			return err
		}
	}
	for _, task := range tasks {
		if err := insertTask(ctx, tx, task); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Clear removes every task and group. All-or-nothing: runs in a single
// transaction.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM groups"); err != nil {
		return fmt.Errorf("failed to clear groups: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// nextPosition returns max(position)+1 for the given table.
func (s *Store) nextPosition(ctx context.Context, table string) (float64, error) {
	var pos float64
	query := "SELECT COALESCE(MAX(position), 0) + 1 FROM " + table
	if err := s.conn.QueryRowContext(ctx, query).Scan(&pos); err != nil {
		return 0, fmt.Errorf("failed to compute next position: %w", err)
	}
	return pos, nil
}
