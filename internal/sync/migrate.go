package sync

import (
	"context"
	"fmt"

	"github.com/quadranthq/quadrant/internal/model"
)

// uploadAll copies every local record into the cloud store, remapping group
// references, then clears the local store.
//
// Writes are issued sequentially, one record at a time: a group must be
// created and its id known before any task referencing it goes up. A failure
// partway through leaves the already-written records in the cloud and the
// local store untouched; retrying re-creates the uploaded subset (see the
// known-limitations note in doc.go).
func (o *Orchestrator) uploadAll(ctx context.Context, snap snapshot) (int, error) {
	groupIDs := make(map[string]string, len(snap.groups))

	for _, group := range snap.groups {
		cloudID, err := o.cloud.CreateGroup(ctx, o.accountID, group)
		if err != nil {
			return 0, fmt.Errorf("failed to upload group %q: %w", group.Name, err)
		}
		groupIDs[group.ID] = cloudID
	}

	for _, task := range snap.tasks {
		if _, err := o.cloud.CreateTask(ctx, o.accountID, remapGroup(task, groupIDs)); err != nil {
			return 0, fmt.Errorf("failed to upload task %q: %w", task.Title, err)
		}
	}

	// Only clear after every create returned; on any failure above the local
	// data stays put so the user can retry.
	if err := o.local.Clear(ctx); err != nil {
		return 0, fmt.Errorf("upload complete but failed to clear local store: %w", err)
	}

	return len(snap.groups) + len(snap.tasks), nil
}

// downloadAll replaces the local store contents with the cloud snapshot,
// identifiers unchanged. No cloud writes occur.
func (o *Orchestrator) downloadAll(ctx context.Context, snap snapshot) error {
	if err := o.local.ReplaceAll(ctx, snap.tasks, snap.groups); err != nil {
		return fmt.Errorf("failed to cache cloud data locally: %w", err)
	}
	return nil
}

// remapGroup returns a copy of task with its group reference translated
// through groupIDs. References not in the table (including the empty general
// bucket) pass through unchanged.
func remapGroup(task *model.Task, groupIDs map[string]string) *model.Task {
	remapped := *task
	if remapped.GroupID != "" {
		if cloudID, ok := groupIDs[remapped.GroupID]; ok {
			remapped.GroupID = cloudID
		}
	}
	return &remapped
}
