// Package sync provides the sign-in reconciliation engine between the
// device-local store and the cloud store.
package sync

import (
	"context"

	"github.com/quadranthq/quadrant/internal/model"
)

// LocalStore is the device-resident side of a reconciliation.
//
// The engine reads it during detection, replaces its contents wholesale
// during a download, and clears it after a completed upload or merge. It
// never deletes individual records.
type LocalStore interface {
	// Tasks returns every local task.
	Tasks(ctx context.Context) ([]*model.Task, error)

	// Groups returns every local group.
	Groups(ctx context.Context) ([]*model.TaskGroup, error)

	// ReplaceAll atomically swaps the store contents for the given records,
	// identifiers unchanged.
	ReplaceAll(ctx context.Context, tasks []*model.Task, groups []*model.TaskGroup) error

	// Clear removes every task and group in one atomic operation.
	Clear(ctx context.Context) error
}

// CloudStore is the server-held side of a reconciliation, scoped by account.
//
// The engine only ever reads existing records and creates new ones; it never
// mutates or deletes what the server already holds.
type CloudStore interface {
	// TasksOrdered returns the account's tasks in server sort order.
	TasksOrdered(ctx context.Context, accountID string) ([]*model.Task, error)

	// GroupsOrdered returns the account's groups in server sort order.
	GroupsOrdered(ctx context.Context, accountID string) ([]*model.TaskGroup, error)

	// CreateTask stores a new task and returns the server-assigned id.
	CreateTask(ctx context.Context, accountID string, task *model.Task) (string, error)

	// CreateGroup stores a new group and returns the server-assigned id.
	CreateGroup(ctx context.Context, accountID string, group *model.TaskGroup) (string, error)
}

// Events receives notifications about reconciliation progress. All methods
// are called synchronously from the sync flow; implementations should return
// quickly. See NopEvents for a default.
type Events interface {
	// ScenarioDetected fires after detection classifies the sign-in.
	ScenarioDetected(accountID string, scenario Scenario)

	// MergeRequired fires when both stores hold data and a decision is
	// needed. pending lists the local tasks up for merging.
	MergeRequired(accountID string, pending []*model.Task)

	// SyncCompleted fires when a migration path finishes successfully.
	// migrated counts the records written to the cloud store (zero for
	// download and discard).
	SyncCompleted(accountID string, scenario Scenario, migrated int)
}

// NopEvents is an Events implementation that ignores everything.
type NopEvents struct{}

func (NopEvents) ScenarioDetected(string, Scenario)         {}
func (NopEvents) MergeRequired(string, []*model.Task)       {}
func (NopEvents) SyncCompleted(string, Scenario, int)       {}
