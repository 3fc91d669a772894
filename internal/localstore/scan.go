package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quadranthq/quadrant/internal/model"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTask(ctx context.Context, e execer, task *model.Task) error {
	query := `
	INSERT INTO tasks (
		id, title, notes, urgent, important, due_date, due_time,
		auto_urgent_days, group_id, position, completed,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := e.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Notes,
		boolToNull(task.Urgent),
		boolToNull(task.Important),
		timeToNullString(task.DueDate),
		stringToNull(task.DueTime),
		intToNull(task.AutoUrgentDays),
		stringToNull(task.GroupID),
		task.Position,
		task.Completed,
		task.CreatedAt.Format(time.RFC3339),
		task.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task %s: %w", task.ID, err)
	}

	return nil
}

func insertGroup(ctx context.Context, e execer, group *model.TaskGroup) error {
	query := `
	INSERT INTO groups (id, name, color, position, created_at)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err := e.ExecContext(ctx, query,
		group.ID,
		group.Name,
		stringToNull(group.Color),
		group.Position,
		group.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert group %s: %w", group.ID, err)
	}

	return nil
}

// scanTasks is a helper function to scan multiple tasks from query results.
func scanTasks(rows *sql.Rows) ([]*model.Task, error) {
	var tasks []*model.Task

	for rows.Next() {
		var task model.Task
		var notes, dueTime, groupID sql.NullString
		var urgent, important sql.NullBool
		var autoUrgentDays sql.NullInt64
		var dueDate sql.NullString
		var createdAt, updatedAt string

		err := rows.Scan(
			&task.ID,
			&task.Title,
			&notes,
			&urgent,
			&important,
			&dueDate,
			&dueTime,
			&autoUrgentDays,
			&groupID,
			&task.Position,
			&task.Completed,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		task.Notes = notes.String
		task.Urgent = nullToBool(urgent)
		task.Important = nullToBool(important)
		task.DueDate = nullStringToTime(dueDate)
		task.DueTime = dueTime.String
		task.AutoUrgentDays = nullToInt(autoUrgentDays)
		task.GroupID = groupID.String

		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			task.CreatedAt = t
		}
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			task.UpdatedAt = t
		}

		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// scanGroups is a helper function to scan multiple groups from query results.
func scanGroups(rows *sql.Rows) ([]*model.TaskGroup, error) {
	var groups []*model.TaskGroup

	for rows.Next() {
		var group model.TaskGroup
		var color sql.NullString
		var createdAt string

		err := rows.Scan(
			&group.ID,
			&group.Name,
			&color,
			&group.Position,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}

		group.Color = color.String
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			group.CreatedAt = t
		}

		groups = append(groups, &group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	return groups, nil
}

// boolToNull converts a tri-state flag to a nullable SQL bool.
func boolToNull(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

// nullToBool converts a nullable SQL bool back to a tri-state flag.
func nullToBool(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	v := nb.Bool
	return &v
}

func intToNull(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullToInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timeToNullString converts a time pointer to a nullable string for SQL.
func timeToNullString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

// nullStringToTime converts a nullable SQL string to a time pointer.
func nullStringToTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}
