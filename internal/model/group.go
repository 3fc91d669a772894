package model

import (
	"fmt"
	"strings"
	"time"
)

// TaskGroup is a named bucket of tasks.
//
// Group identifiers are never comparable across stores; the only cross-store
// identity signal is the name, compared case-insensitively.
type TaskGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Position  float64   `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks field values for group creation.
func (g *TaskGroup) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// NameKey returns the case-folded form of the group name, the identity key
// used to deduplicate groups across stores.
func (g *TaskGroup) NameKey() string {
	return strings.ToLower(g.Name)
}
