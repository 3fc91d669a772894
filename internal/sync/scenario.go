package sync

import (
	"context"
	"fmt"

	"github.com/quadranthq/quadrant/internal/model"
)

// Scenario classifies the sign-in-time data distribution across the two
// stores. Exactly one applies per sign-in.
type Scenario int

const (
	// ScenarioUnknown means detection has not run (or failed).
	ScenarioUnknown Scenario = iota

	// ScenarioNone: no tasks anywhere, nothing to do.
	ScenarioNone

	// ScenarioUpload: local tasks only; migrate them to the cloud.
	ScenarioUpload

	// ScenarioDownload: cloud tasks only; cache them locally.
	ScenarioDownload

	// ScenarioMergeNeeded: both stores hold tasks; the caller must decide.
	ScenarioMergeNeeded
)

// String implements fmt.Stringer.
func (s Scenario) String() string {
	switch s {
	case ScenarioNone:
		return "none"
	case ScenarioUpload:
		return "upload"
	case ScenarioDownload:
		return "download"
	case ScenarioMergeNeeded:
		return "merge_needed"
	default:
		return "unknown"
	}
}

// snapshot holds the records read from one store during detection.
type snapshot struct {
	tasks  []*model.Task
	groups []*model.TaskGroup
}

// readResult carries one store's snapshot across the detection goroutines.
type readResult struct {
	snap snapshot
	err  error
}

// detect reads both stores concurrently and classifies the situation.
//
// Classification is by task presence only. A store holding groups but zero
// tasks counts as empty here; see the package documentation for the known
// consequence on the download path.
func detect(ctx context.Context, local LocalStore, cloud CloudStore, accountID string) (Scenario, snapshot, snapshot, error) {
	localCh := make(chan readResult, 1)
	cloudCh := make(chan readResult, 1)

	go func() {
		var r readResult
		r.snap.tasks, r.err = local.Tasks(ctx)
		if r.err == nil {
			r.snap.groups, r.err = local.Groups(ctx)
		}
		localCh <- r
	}()

	go func() {
		var r readResult
		r.snap.tasks, r.err = cloud.TasksOrdered(ctx, accountID)
		if r.err == nil {
			r.snap.groups, r.err = cloud.GroupsOrdered(ctx, accountID)
		}
		cloudCh <- r
	}()

	localRes := <-localCh
	cloudRes := <-cloudCh

	if localRes.err != nil {
		return ScenarioUnknown, snapshot{}, snapshot{}, fmt.Errorf("failed to read local store: %w", localRes.err)
	}
	if cloudRes.err != nil {
		return ScenarioUnknown, snapshot{}, snapshot{}, fmt.Errorf("failed to read cloud store: %w", cloudRes.err)
	}

	scenario := classify(len(localRes.snap.tasks), len(cloudRes.snap.tasks))
	return scenario, localRes.snap, cloudRes.snap, nil
}

// classify maps task counts to a scenario.
func classify(localCount, cloudCount int) Scenario {
	switch {
	case localCount == 0 && cloudCount == 0:
		return ScenarioNone
	case localCount > 0 && cloudCount == 0:
		return ScenarioUpload
	case localCount == 0 && cloudCount > 0:
		return ScenarioDownload
	default:
		return ScenarioMergeNeeded
	}
}
