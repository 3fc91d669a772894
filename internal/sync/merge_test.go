package sync

import (
	"context"
	"testing"

	"github.com/quadranthq/quadrant/internal/model"
)

// mergeFixture signs in with data on both sides and parks the orchestrator
// in the awaiting-merge state.
func mergeFixture(t *testing.T, local *memLocal, cloud *memCloud) *Orchestrator {
	t.Helper()

	orch := New(local, cloud, testLogger(), nil)
	scenario, err := orch.OnSignIn(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("OnSignIn failed: %v", err)
	}
	if scenario != ScenarioMergeNeeded {
		t.Fatalf("expected scenario merge_needed, got %v", scenario)
	}
	return orch
}

func TestConfirmMerge_GroupDedupIsCaseInsensitive(t *testing.T) {
	local := &memLocal{
		groups: []*model.TaskGroup{newLocalGroup("local-g1", "Work")},
		tasks:  []*model.Task{newLocalTask("local-t1", "Write report", "local-g1")},
	}
	cloud := &memCloud{
		groups: []*model.TaskGroup{newLocalGroup("c-g1", "work")},
		tasks:  []*model.Task{newLocalTask("c-t1", "Existing", "c-g1")},
	}
	orch := mergeFixture(t, local, cloud)

	if err := orch.ConfirmMerge(context.Background(), nil); err != nil {
		t.Fatalf("ConfirmMerge failed: %v", err)
	}

	// No second group named Work in any casing.
	if len(cloud.groups) != 1 {
		t.Fatalf("expected 1 cloud group after merge, got %d", len(cloud.groups))
	}

	// The merged task lands in the pre-existing cloud group.
	for _, task := range cloud.tasks {
		if task.Title == "Write report" && task.GroupID != "c-g1" {
			t.Errorf("expected merged task to reference c-g1, got %q", task.GroupID)
		}
	}
	if len(local.tasks) != 0 || len(local.groups) != 0 {
		t.Error("expected local store cleared after merge")
	}
}

func TestConfirmMerge_NewGroupCreated(t *testing.T) {
	local := &memLocal{
		groups: []*model.TaskGroup{newLocalGroup("local-g1", "Garden")},
		tasks:  []*model.Task{newLocalTask("local-t1", "Prune roses", "local-g1")},
	}
	cloud := &memCloud{
		groups: []*model.TaskGroup{newLocalGroup("c-g1", "Work")},
		tasks:  []*model.Task{newLocalTask("c-t1", "Existing", "c-g1")},
	}
	orch := mergeFixture(t, local, cloud)

	if err := orch.ConfirmMerge(context.Background(), nil); err != nil {
		t.Fatalf("ConfirmMerge failed: %v", err)
	}

	if len(cloud.groups) != 2 {
		t.Fatalf("expected Garden to be created cloud-side, got %d groups", len(cloud.groups))
	}

	var gardenID string
	for _, group := range cloud.groups {
		if group.Name == "Garden" {
			gardenID = group.ID
		}
	}
	if gardenID == "" {
		t.Fatal("Garden group missing cloud-side")
	}
	for _, task := range cloud.tasks {
		if task.Title == "Prune roses" && task.GroupID != gardenID {
			t.Errorf("expected task to reference %q, got %q", gardenID, task.GroupID)
		}
	}
}

func TestConfirmMerge_SubsetSelection(t *testing.T) {
	local := &memLocal{
		tasks: []*model.Task{
			newLocalTask("local-t1", "Keep me", ""),
			newLocalTask("local-t2", "Drop me", ""),
			newLocalTask("local-t3", "Keep me too", ""),
		},
	}
	cloud := &memCloud{tasks: []*model.Task{newLocalTask("c-t1", "Existing", "")}}
	orch := mergeFixture(t, local, cloud)

	if err := orch.ConfirmMerge(context.Background(), []string{"local-t1", "local-t3"}); err != nil {
		t.Fatalf("ConfirmMerge failed: %v", err)
	}

	titles := cloudTaskTitles(cloud)
	if !titles["Keep me"] || !titles["Keep me too"] {
		t.Error("selected tasks missing from cloud after merge")
	}
	if titles["Drop me"] {
		t.Error("unselected task was uploaded")
	}
	if len(local.tasks) != 0 {
		t.Error("local store must end empty regardless of selection size")
	}
}

func TestConfirmMerge_EmptySelectionMergesEverything(t *testing.T) {
	local := &memLocal{
		tasks: []*model.Task{
			newLocalTask("local-t1", "One", ""),
			newLocalTask("local-t2", "Two", ""),
		},
	}
	cloud := &memCloud{tasks: []*model.Task{newLocalTask("c-t1", "Existing", "")}}
	orch := mergeFixture(t, local, cloud)

	if err := orch.ConfirmMerge(context.Background(), nil); err != nil {
		t.Fatalf("ConfirmMerge failed: %v", err)
	}

	if len(cloud.tasks) != 3 {
		t.Errorf("expected all local tasks merged, got %d cloud tasks", len(cloud.tasks))
	}
}

func TestDiscardLocal(t *testing.T) {
	local := &memLocal{
		groups: []*model.TaskGroup{newLocalGroup("local-g1", "Work")},
		tasks:  []*model.Task{newLocalTask("local-t1", "Gone", "local-g1")},
	}
	cloud := &memCloud{tasks: []*model.Task{newLocalTask("c-t1", "Existing", "")}}
	orch := mergeFixture(t, local, cloud)

	if err := orch.DiscardLocal(context.Background()); err != nil {
		t.Fatalf("DiscardLocal failed: %v", err)
	}

	if len(local.tasks) != 0 || len(local.groups) != 0 {
		t.Error("expected local store empty after discard")
	}
	if cloud.createCalls != 0 {
		t.Errorf("discard must not issue cloud writes, got %d", cloud.createCalls)
	}
	if len(cloud.tasks) != 1 {
		t.Errorf("cloud store changed during discard: %d tasks", len(cloud.tasks))
	}
	if orch.State() != StateIdle {
		t.Errorf("expected idle after discard, got %v", orch.State())
	}
}

func TestConfirmMerge_PartialFailureKeepsLocal(t *testing.T) {
	local := &memLocal{
		tasks: []*model.Task{
			newLocalTask("local-t1", "First", ""),
			newLocalTask("local-t2", "Second", ""),
		},
	}
	cloud := &memCloud{tasks: []*model.Task{newLocalTask("c-t1", "Existing", "")}}
	orch := mergeFixture(t, local, cloud)

	cloud.failCreateAt = cloud.createCalls + 2 // first merge create succeeds, second fails

	err := orch.ConfirmMerge(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error from failing cloud write")
	}
	if local.clearCalls != 0 {
		t.Error("local store must not be cleared after a partial merge")
	}
	if orch.Busy() {
		t.Error("busy flag must clear even on failure")
	}
}
