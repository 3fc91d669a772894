// Package backup exports and imports the local store as a YAML snapshot.
//
// Backups are an offline convenience: they carry record identifiers verbatim
// so a restore reproduces the store exactly, including the local-id tags the
// sync engine relies on.
package backup

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quadranthq/quadrant/internal/model"
)

// Snapshot is the YAML document layout for a backup file.
type Snapshot struct {
	ExportedAt time.Time          `yaml:"exported_at"`
	Groups     []*model.TaskGroup `yaml:"groups,omitempty"`
	Tasks      []*model.Task      `yaml:"tasks,omitempty"`
}

// Store is the slice of the local store the backup needs.
type Store interface {
	Tasks(ctx context.Context) ([]*model.Task, error)
	Groups(ctx context.Context) ([]*model.TaskGroup, error)
	ReplaceAll(ctx context.Context, tasks []*model.Task, groups []*model.TaskGroup) error
}

// Export writes the store contents to path as YAML.
func Export(ctx context.Context, store Store, path string) (*Snapshot, error) {
	tasks, err := store.Tasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	groups, err := store.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read groups: %w", err)
	}

	snap := &Snapshot{
		ExportedAt: time.Now(),
		Groups:     groups,
		Tasks:      tasks,
	}

	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	return snap, nil
}

// Import reads a YAML snapshot from path and replaces the store contents
// with it. Identifiers and timestamps come through unchanged.
func Import(ctx context.Context, store Store, path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse backup file: %w", err)
	}

	for _, task := range snap.Tasks {
		if task.ID == "" || task.Title == "" {
			return nil, fmt.Errorf("invalid backup: task missing id or title")
		}
	}
	for _, group := range snap.Groups {
		if group.ID == "" || group.Name == "" {
			return nil, fmt.Errorf("invalid backup: group missing id or name")
		}
	}

	if err := store.ReplaceAll(ctx, snap.Tasks, snap.Groups); err != nil {
		return nil, fmt.Errorf("failed to restore backup: %w", err)
	}

	return &snap, nil
}
