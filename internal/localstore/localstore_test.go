package localstore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quadranthq/quadrant/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "quadrant.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.InitSchema(); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	return store
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "quadrant.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
}

func TestInitSchemaIdempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.InitSchema(); err != nil {
		t.Fatalf("second InitSchema failed: %v", err)
	}
}

func TestCreateTaskAssignsLocalID(t *testing.T) {
	store := newTestStore(t)

	task := &model.Task{Title: "Write report"}
	if err := store.CreateTask(task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if task.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if !model.IsLocalID(task.ID) {
		t.Errorf("expected a local id, got %q", task.ID)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreateTaskRejectsEmptyTitle(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateTask(&model.Task{Title: ""})
	if err == nil {
		t.Fatal("expected validation error for empty title")
	}
	if !strings.Contains(err.Error(), "invalid task") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTasksRoundTripPreservesPriority(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	tasks := []*model.Task{
		{Title: "unprioritized"},
		{Title: "urgent only", Urgent: model.Bool(true)},
		{Title: "explicitly not important", Important: model.Bool(false)},
		{Title: "scheduled", DueDate: &due, DueTime: "14:30", AutoUrgentDays: model.Int(3)},
	}
	for _, task := range tasks {
		if err := store.CreateTaskContext(ctx, task); err != nil {
			t.Fatalf("CreateTask(%q) failed: %v", task.Title, err)
		}
	}

	got, err := store.Tasks(ctx)
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(got))
	}

	byTitle := make(map[string]*model.Task)
	for _, task := range got {
		byTitle[task.Title] = task
	}

	if task := byTitle["unprioritized"]; task.Urgent != nil || task.Important != nil {
		t.Error("unprioritized task should keep nil priority flags")
	}
	if task := byTitle["urgent only"]; task.Urgent == nil || !*task.Urgent {
		t.Error("urgent flag lost on round trip")
	}
	if task := byTitle["explicitly not important"]; task.Important == nil || *task.Important {
		t.Error("important=false should survive as false, not nil")
	}

	scheduled := byTitle["scheduled"]
	if scheduled.DueDate == nil || !scheduled.DueDate.Equal(due) {
		t.Errorf("due date lost: %v", scheduled.DueDate)
	}
	if scheduled.DueTime != "14:30" {
		t.Errorf("due time lost: %q", scheduled.DueTime)
	}
	if scheduled.AutoUrgentDays == nil || *scheduled.AutoUrgentDays != 3 {
		t.Error("auto urgent days lost")
	}
}

func TestTasksOrderedByPosition(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, seed := range []struct {
		title    string
		position float64
	}{
		{"third", 30},
		{"first", 10},
		{"second", 20},
	} {
		task := &model.Task{Title: seed.title, Position: seed.position}
		if err := store.CreateTaskContext(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	got, err := store.Tasks(ctx)
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}

	want := []string{"first", "second", "third"}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d: got %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestCreateTaskAssignsIncreasingPositions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := &model.Task{Title: "a"}
	b := &model.Task{Title: "b"}
	for _, task := range []*model.Task{a, b} {
		if err := store.CreateTaskContext(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	if b.Position <= a.Position {
		t.Errorf("expected b after a, got positions %v and %v", a.Position, b.Position)
	}
}

func TestGroupsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &model.TaskGroup{Name: "Work", Color: "#ff8800"}
	if err := store.CreateGroupContext(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	groups, err := store.Groups(ctx)
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Name != "Work" || groups[0].Color != "#ff8800" {
		t.Errorf("group mangled on round trip: %+v", groups[0])
	}
}

func TestCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateGroupContext(ctx, &model.TaskGroup{Name: "Home"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := store.CreateTaskContext(ctx, &model.Task{Title: "t"}); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	tasks, err := store.TaskCount(ctx)
	if err != nil {
		t.Fatalf("TaskCount failed: %v", err)
	}
	if tasks != 3 {
		t.Errorf("TaskCount = %d, want 3", tasks)
	}

	groups, err := store.GroupCount(ctx)
	if err != nil {
		t.Fatalf("GroupCount failed: %v", err)
	}
	if groups != 1 {
		t.Errorf("GroupCount = %d, want 1", groups)
	}
}

func TestMarkUrgent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := &model.Task{Title: "deadline looming"}
	if err := store.CreateTaskContext(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := store.MarkUrgent(ctx, task.ID); err != nil {
		t.Fatalf("MarkUrgent failed: %v", err)
	}

	got, err := store.Tasks(ctx)
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if got[0].Urgent == nil || !*got[0].Urgent {
		t.Error("expected task to be urgent after MarkUrgent")
	}
}

func TestMarkUrgentUnknownID(t *testing.T) {
	store := newTestStore(t)

	err := store.MarkUrgent(context.Background(), "local-missing")
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReplaceAllSwapsContents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateGroupContext(ctx, &model.TaskGroup{Name: "Old"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if err := store.CreateTaskContext(ctx, &model.Task{Title: "old task"}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	now := time.Now()
	newGroups := []*model.TaskGroup{
		{ID: "cloud-g1", Name: "New", CreatedAt: now},
	}
	newTasks := []*model.Task{
		{ID: "cloud-t1", Title: "new task", GroupID: "cloud-g1", CreatedAt: now, UpdatedAt: now},
	}

	if err := store.ReplaceAll(ctx, newTasks, newGroups); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	tasks, err := store.Tasks(ctx)
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "cloud-t1" {
		t.Fatalf("expected only the replacement task, got %+v", tasks)
	}

	groups, err := store.Groups(ctx)
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != "cloud-g1" {
		t.Fatalf("expected only the replacement group, got %+v", groups)
	}
}

func TestReplaceAllWithEmptySets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateTaskContext(ctx, &model.Task{Title: "doomed"}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := store.ReplaceAll(ctx, nil, nil); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	count, err := store.TaskCount(ctx)
	if err != nil {
		t.Fatalf("TaskCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty store, got %d tasks", count)
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.CreateGroupContext(ctx, &model.TaskGroup{Name: "Work"}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if err := store.CreateTaskContext(ctx, &model.Task{Title: "task"}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	tasks, _ := store.TaskCount(ctx)
	groups, _ := store.GroupCount(ctx)
	if tasks != 0 || groups != 0 {
		t.Errorf("expected empty store, got %d tasks and %d groups", tasks, groups)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadrant.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.InitSchema(); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}
	task := &model.Task{Title: "survives restart"}
	if err := store.CreateTask(task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	tasks, err := reopened.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "survives restart" {
		t.Fatalf("task did not survive reopen: %+v", tasks)
	}
}
