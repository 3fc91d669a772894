// Package cloudstore provides the server-held, multi-device task database.
//
// The cloud store is a remote libSQL (Turso) database keyed by account
// identity. It is authoritative once populated: identifiers are assigned at
// insert time and never reuse the device-local "local-" prefix.
//
// Two connection modes are supported:
//   - Open: direct connection to the remote primary
//   - OpenEmbeddedReplica: local replica file synced against the primary,
//     giving fast reads with the same write path
package cloudstore

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/tursodatabase/go-libsql"

	"github.com/quadranthq/quadrant/internal/model"
)

// Store wraps the libSQL connection holding cloud tasks and groups.
type Store struct {
	conn      *sql.DB
	connector *libsql.Connector // nil for direct connections
}

// Open connects directly to a remote libSQL database.
//
// Example:
//
//	store, err := cloudstore.Open("libsql://quadrant-acme.turso.io", token)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(url, authToken string) (*Store, error) {
	connStr := url
	if authToken != "" {
		connStr += "?authToken=" + authToken
	}

	conn, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open cloud database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping cloud database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(time.Minute)

	return &Store{conn: conn}, nil
}

// OpenEmbeddedReplica opens a local replica at path, synced against the
// remote primary at url.
func OpenEmbeddedReplica(path, url, authToken string) (*Store, error) {
	connector, err := libsql.NewEmbeddedReplicaConnector(path, url,
		libsql.WithAuthToken(authToken),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create replica connector: %w", err)
	}

	conn := sql.OpenDB(connector)
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		_ = connector.Close()
		return nil, fmt.Errorf("failed to ping replica: %w", err)
	}

	return &Store{conn: conn, connector: connector}, nil
}

// Sync pulls the latest primary state into the embedded replica.
// No-op for direct connections.
func (s *Store) Sync() error {
	if s.connector == nil {
		return nil
	}
	if _, err := s.connector.Sync(); err != nil {
		return fmt.Errorf("failed to sync replica: %w", err)
	}
	return nil
}

// Close closes the connection and, for replicas, the underlying connector.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	if s.connector != nil {
		if cerr := s.connector.Close(); err == nil {
			err = cerr
		}
	}
	s.conn = nil
	s.connector = nil

	if err != nil {
		return fmt.Errorf("failed to close cloud database: %w", err)
	}
	return nil
}

// InitSchema creates the cloud schema if it doesn't exist.
// This is idempotent - safe to call multiple times.
func (s *Store) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color TEXT,
		position REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		title TEXT NOT NULL,
		notes TEXT,
		urgent INTEGER,
		important INTEGER,
		due_date TEXT,
		due_time TEXT,
		auto_urgent_days INTEGER,
		group_id TEXT,
		position REAL NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_groups_account ON groups(account_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_account ON tasks(account_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_account_position ON tasks(account_id, position);
	`

	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize cloud schema: %w", err)
	}

	return nil
}

// CreateTask inserts a task for the given account and returns the assigned
// identifier. The id and timestamps on the input are ignored; the store
// assigns its own.
func (s *Store) CreateTask(ctx context.Context, accountID string, task *model.Task) (string, error) {
	id := newID()
	now := time.Now()

	query := `
	INSERT INTO tasks (
		id, account_id, title, notes, urgent, important, due_date, due_time,
		auto_urgent_days, group_id, position, completed, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.conn.ExecContext(ctx, query,
		id,
		accountID,
		task.Title,
		task.Notes,
		boolToNull(task.Urgent),
		boolToNull(task.Important),
		timeToNullString(task.DueDate),
		stringToNull(task.DueTime),
		intToNull(task.AutoUrgentDays),
		stringToNull(task.GroupID),
		task.Position,
		task.Completed,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create cloud task: %w", err)
	}

	return id, nil
}

// CreateGroup inserts a group for the given account and returns the assigned
// identifier. The id and creation timestamp on the input are ignored.
func (s *Store) CreateGroup(ctx context.Context, accountID string, group *model.TaskGroup) (string, error) {
	id := newID()

	query := `
	INSERT INTO groups (id, account_id, name, color, position, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.conn.ExecContext(ctx, query,
		id,
		accountID,
		group.Name,
		stringToNull(group.Color),
		group.Position,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create cloud group: %w", err)
	}

	return id, nil
}

// TasksOrdered returns the account's tasks ordered by position, then
// creation time.
func (s *Store) TasksOrdered(ctx context.Context, accountID string) ([]*model.Task, error) {
	rows, err := s.conn.QueryContext(ctx, `
	SELECT id, title, notes, urgent, important, due_date, due_time,
	       auto_urgent_days, group_id, position, completed,
	       created_at, updated_at
	FROM tasks
	WHERE account_id = ?
	ORDER BY position ASC, created_at ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cloud tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// GroupsOrdered returns the account's groups ordered by position, then
// creation time.
func (s *Store) GroupsOrdered(ctx context.Context, accountID string) ([]*model.TaskGroup, error) {
	rows, err := s.conn.QueryContext(ctx, `
	SELECT id, name, color, position, created_at
	FROM groups
	WHERE account_id = ?
	ORDER BY position ASC, created_at ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cloud groups: %w", err)
	}
	defer rows.Close()

	return scanGroups(rows)
}

// TaskCount returns the number of tasks held for the account.
func (s *Store) TaskCount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE account_id = ?", accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get cloud task count: %w", err)
	}
	return count, nil
}

// GroupCount returns the number of groups held for the account.
func (s *Store) GroupCount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM groups WHERE account_id = ?", accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get cloud group count: %w", err)
	}
	return count, nil
}

// newID mints a server-side identifier. Never carries the "local-" prefix,
// so cloud records are always distinguishable from pending-local ones.
func newID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("cloudstore: rand.Read: " + err.Error())
	}
	return hex.EncodeToString(b[:])
}
