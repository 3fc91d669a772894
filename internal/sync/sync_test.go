package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/quadranthq/quadrant/internal/model"
)

// memLocal is an in-memory LocalStore for tests.
type memLocal struct {
	tasks  []*model.Task
	groups []*model.TaskGroup

	readErr  error
	clearErr error

	replaceCalls int
	clearCalls   int
}

func (m *memLocal) Tasks(ctx context.Context) ([]*model.Task, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return append([]*model.Task(nil), m.tasks...), nil
}

func (m *memLocal) Groups(ctx context.Context) ([]*model.TaskGroup, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return append([]*model.TaskGroup(nil), m.groups...), nil
}

func (m *memLocal) ReplaceAll(ctx context.Context, tasks []*model.Task, groups []*model.TaskGroup) error {
	m.replaceCalls++
	m.tasks = append([]*model.Task(nil), tasks...)
	m.groups = append([]*model.TaskGroup(nil), groups...)
	return nil
}

func (m *memLocal) Clear(ctx context.Context) error {
	m.clearCalls++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.tasks = nil
	m.groups = nil
	return nil
}

// memCloud is an in-memory CloudStore for tests. Created records get ids
// c-1, c-2, ... in creation order.
type memCloud struct {
	tasks  []*model.Task
	groups []*model.TaskGroup

	readErr error

	// failCreateAt makes the Nth create call (1-based, tasks and groups
	// combined) fail. 0 disables.
	failCreateAt int

	createCalls int
	nextID      int
}

func (m *memCloud) assignID() string {
	m.nextID++
	return fmt.Sprintf("c-%d", m.nextID)
}

func (m *memCloud) checkCreate() error {
	m.createCalls++
	if m.failCreateAt > 0 && m.createCalls >= m.failCreateAt {
		return errors.New("cloud write failed")
	}
	return nil
}

func (m *memCloud) TasksOrdered(ctx context.Context, accountID string) ([]*model.Task, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return append([]*model.Task(nil), m.tasks...), nil
}

func (m *memCloud) GroupsOrdered(ctx context.Context, accountID string) ([]*model.TaskGroup, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return append([]*model.TaskGroup(nil), m.groups...), nil
}

func (m *memCloud) CreateTask(ctx context.Context, accountID string, task *model.Task) (string, error) {
	if err := m.checkCreate(); err != nil {
		return "", err
	}
	stored := *task
	stored.ID = m.assignID()
	m.tasks = append(m.tasks, &stored)
	return stored.ID, nil
}

func (m *memCloud) CreateGroup(ctx context.Context, accountID string, group *model.TaskGroup) (string, error) {
	if err := m.checkCreate(); err != nil {
		return "", err
	}
	stored := *group
	stored.ID = m.assignID()
	m.groups = append(m.groups, &stored)
	return stored.ID, nil
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", 0)
}

func newLocalTask(id, title, groupID string) *model.Task {
	return &model.Task{
		ID:        id,
		Title:     title,
		GroupID:   groupID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func newLocalGroup(id, name string) *model.TaskGroup {
	return &model.TaskGroup{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

func cloudTaskTitles(cloud *memCloud) map[string]bool {
	titles := make(map[string]bool, len(cloud.tasks))
	for _, task := range cloud.tasks {
		titles[task.Title] = true
	}
	return titles
}
