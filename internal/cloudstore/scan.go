package cloudstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quadranthq/quadrant/internal/model"
)

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
			return nil, fmt.Errorf("failed to scan cloud task: %w", err)
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
		return nil, fmt.Errorf("error iterating cloud tasks: %w", err)
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
			return nil, fmt.Errorf("failed to scan cloud group: %w", err)
		}

		group.Color = color.String
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			group.CreatedAt = t
		}

		groups = append(groups, &group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cloud groups: %w", err)
	}

	return groups, nil
}

func boolToNull(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

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

func timeToNullString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

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
