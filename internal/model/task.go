// Package model provides the task and group data structures shared by the
// local and cloud stores.
package model

import (
	"fmt"
	"time"
)

// Task represents a single to-do item.
//
// The Urgent and Important flags are tri-state: nil means the task has not
// been prioritized yet and belongs to no Eisenhower quadrant. DueTime is
// meaningful only when DueDate is set.
type Task struct {
	// ===== Identification =====
	// ID is assigned by whichever store created the record. Identifiers
	// created on-device carry the "local-" prefix (see NewLocalID) so they
	// can never be confused with server-assigned ones.
	ID string `json:"id"`

	// ===== Content =====
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`

	// ===== Prioritization =====
	Urgent    *bool `json:"urgent"`
	Important *bool `json:"important"`

	// ===== Scheduling =====
	DueDate *time.Time `json:"due_date,omitempty"` // calendar date, time portion ignored
	DueTime string     `json:"due_time,omitempty"` // "15:04", empty = none

	// AutoUrgentDays promotes the task to urgent this many days before the
	// due date. Owned by the scheduler, carried verbatim through migrations.
	AutoUrgentDays *int `json:"auto_urgent_days,omitempty"`

	// ===== Grouping & Ordering =====
	// GroupID references a TaskGroup in the same store, or "" for the
	// implicit general bucket.
	GroupID  string  `json:"group_id,omitempty"`
	Position float64 `json:"order"`

	// ===== State =====
	Completed bool `json:"completed"`

	// ===== Timestamps =====
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quadrant names for prioritized tasks.
const (
	QuadrantDoFirst   = "do_first"  // urgent and important
	QuadrantSchedule  = "schedule"  // important, not urgent
	QuadrantDelegate  = "delegate"  // urgent, not important
	QuadrantEliminate = "eliminate" // neither
)

// Quadrant returns the Eisenhower quadrant for the task, or "" when either
// flag is still unset.
func (t *Task) Quadrant() string {
	if t.Urgent == nil || t.Important == nil {
		return ""
	}
	switch {
	case *t.Urgent && *t.Important:
		return QuadrantDoFirst
	case *t.Important:
		return QuadrantSchedule
	case *t.Urgent:
		return QuadrantDelegate
	default:
		return QuadrantEliminate
	}
}

// Validate checks field values for task creation. The sync engine migrates
// records as-is and does not call this.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(t.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(t.Title))
	}
	if t.DueTime != "" && t.DueDate == nil {
		return fmt.Errorf("due_time requires due_date")
	}
	if t.AutoUrgentDays != nil && *t.AutoUrgentDays < 0 {
		return fmt.Errorf("auto_urgent_days must not be negative (got %d)", *t.AutoUrgentDays)
	}
	return nil
}

// SetDefaults applies default values for optional fields.
func (t *Task) SetDefaults() {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
}

// UpdateTimestamp sets UpdatedAt to current time.
func (t *Task) UpdateTimestamp() {
	t.UpdatedAt = time.Now()
}

// Bool returns a pointer to v, for filling the tri-state flags.
func Bool(v bool) *bool {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
