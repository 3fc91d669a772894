package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/quadranthq/quadrant/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		localCount int
		cloudCount int
		want       Scenario
	}{
		{"both empty", 0, 0, ScenarioNone},
		{"local only", 3, 0, ScenarioUpload},
		{"cloud only", 0, 5, ScenarioDownload},
		{"both populated", 2, 4, ScenarioMergeNeeded},
		{"single task each side", 1, 1, ScenarioMergeNeeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.localCount, tt.cloudCount); got != tt.want {
				t.Errorf("classify(%d, %d) = %v, want %v", tt.localCount, tt.cloudCount, got, tt.want)
			}
		})
	}
}

func TestDetect_GroupsDoNotCount(t *testing.T) {
	// A store holding groups but zero tasks classifies as empty.
	local := &memLocal{groups: []*model.TaskGroup{newLocalGroup("local-g1", "Errands")}}
	cloud := &memCloud{}

	scenario, localSnap, _, err := detect(context.Background(), local, cloud, "acct-1")
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if scenario != ScenarioNone {
		t.Errorf("expected scenario none with groups-only local data, got %v", scenario)
	}
	if len(localSnap.groups) != 1 {
		t.Errorf("expected snapshot to still carry the local group, got %d", len(localSnap.groups))
	}
}

func TestDetect_LocalReadFailure(t *testing.T) {
	local := &memLocal{readErr: errors.New("disk gone")}
	cloud := &memCloud{}

	scenario, _, _, err := detect(context.Background(), local, cloud, "acct-1")
	if err == nil {
		t.Fatal("expected error from local read failure")
	}
	if scenario != ScenarioUnknown {
		t.Errorf("expected scenario unknown on read failure, got %v", scenario)
	}
}

func TestDetect_CloudReadFailure(t *testing.T) {
	local := &memLocal{tasks: []*model.Task{newLocalTask("local-t1", "Buy milk", "")}}
	cloud := &memCloud{readErr: errors.New("network unreachable")}

	scenario, _, _, err := detect(context.Background(), local, cloud, "acct-1")
	if err == nil {
		t.Fatal("expected error from cloud read failure")
	}
	if scenario != ScenarioUnknown {
		t.Errorf("expected scenario unknown on read failure, got %v", scenario)
	}
	if local.clearCalls != 0 || local.replaceCalls != 0 {
		t.Error("detection must not mutate the local store")
	}
}

func TestScenarioString(t *testing.T) {
	tests := []struct {
		scenario Scenario
		want     string
	}{
		{ScenarioUnknown, "unknown"},
		{ScenarioNone, "none"},
		{ScenarioUpload, "upload"},
		{ScenarioDownload, "download"},
		{ScenarioMergeNeeded, "merge_needed"},
	}

	for _, tt := range tests {
		if got := tt.scenario.String(); got != tt.want {
			t.Errorf("Scenario(%d).String() = %q, want %q", tt.scenario, got, tt.want)
		}
	}
}
