package sync

import (
	"context"
	"fmt"
)

// merge reconciles the pending local data into the cloud store.
//
// selected holds the local task ids the caller chose to keep; an empty set
// means every pending task participates. Groups are deduplicated against the
// cloud by case-insensitive name: a local group whose name already exists
// cloud-side maps to the existing cloud group and no duplicate is created.
//
// Regardless of the selection, the local store ends empty: unselected tasks
// are discarded with it.
func (o *Orchestrator) merge(ctx context.Context, selected map[string]bool) (int, error) {
	cloudGroups, err := o.cloud.GroupsOrdered(ctx, o.accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to read cloud groups: %w", err)
	}

	byName := make(map[string]string, len(cloudGroups))
	for _, group := range cloudGroups {
		byName[group.NameKey()] = group.ID
	}

	groupIDs := make(map[string]string, len(o.pendingGroups))
	created := 0

	for _, group := range o.pendingGroups {
		if cloudID, ok := byName[group.NameKey()]; ok {
			groupIDs[group.ID] = cloudID
			continue
		}
		cloudID, err := o.cloud.CreateGroup(ctx, o.accountID, group)
		if err != nil {
			return 0, fmt.Errorf("failed to upload group %q: %w", group.Name, err)
		}
		groupIDs[group.ID] = cloudID
		created++
	}

	for _, task := range o.pendingTasks {
		if len(selected) > 0 && !selected[task.ID] {
			continue
		}
		if _, err := o.cloud.CreateTask(ctx, o.accountID, remapGroup(task, groupIDs)); err != nil {
			return 0, fmt.Errorf("failed to upload task %q: %w", task.Title, err)
		}
		created++
	}

	// Unconditional: unselected local tasks are discarded along with
	// everything else.
	if err := o.local.Clear(ctx); err != nil {
		return 0, fmt.Errorf("merge complete but failed to clear local store: %w", err)
	}

	return created, nil
}

// discard abandons the local data without touching the cloud store.
func (o *Orchestrator) discard(ctx context.Context) error {
	if err := o.local.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear local store: %w", err)
	}
	return nil
}
