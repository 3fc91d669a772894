package main

import (
	"context"
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/quadranthq/quadrant/internal/localstore"
	"github.com/quadranthq/quadrant/internal/model"
	"github.com/quadranthq/quadrant/internal/ui"
)

var (
	addNotes          string
	addGroup          string
	addDue            string
	addUrgent         bool
	addImportant      bool
	addAutoUrgentDays int
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the local store",
	Long: `Add a task to the device-local store.

Due dates accept natural language, e.g.:
  qd add "File taxes" --due "next friday"
  qd add "Standup notes" --due "tomorrow at 9am" --group Work

Priority flags are optional; a task with neither --urgent nor --important
set stays unprioritized and outside the Eisenhower quadrants.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openLocal()
		if err != nil {
			fail("Error opening local store: %v", err)
		}
		defer store.Close()

		task := &model.Task{
			Title: args[0],
			Notes: addNotes,
		}

		if cmd.Flags().Changed("urgent") {
			task.Urgent = model.Bool(addUrgent)
		}
		if cmd.Flags().Changed("important") {
			task.Important = model.Bool(addImportant)
		}
		if cmd.Flags().Changed("auto-urgent-days") {
			task.AutoUrgentDays = model.Int(addAutoUrgentDays)
		}

		if addDue != "" {
			dueDate, dueTime, err := parseDue(addDue)
			if err != nil {
				fail("Error parsing due date: %v", err)
			}
			task.DueDate = dueDate
			task.DueTime = dueTime
		}

		if addGroup != "" {
			groupID, err := findOrCreateGroup(cmd.Context(), store, addGroup)
			if err != nil {
				fail("Error resolving group: %v", err)
			}
			task.GroupID = groupID
		}

		if err := store.CreateTask(task); err != nil {
			fail("Error creating task: %v", err)
		}

		fmt.Printf("%s Added %s %s\n", ui.RenderPass("✓"), task.Title, ui.RenderDim("("+task.ID+")"))
		if task.DueDate != nil {
			due := task.DueDate.Format("2006-01-02")
			if task.DueTime != "" {
				due += " " + task.DueTime
			}
			fmt.Printf("   Due: %s\n", due)
		}
	},
}

// parseDue parses a natural-language due expression into a date and an
// optional time-of-day.
func parseDue(expr string) (*time.Time, string, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(expr, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %q: %w", expr, err)
	}
	if result == nil {
		return nil, "", fmt.Errorf("could not understand %q", expr)
	}

	date := time.Date(result.Time.Year(), result.Time.Month(), result.Time.Day(),
		0, 0, 0, 0, result.Time.Location())

	// A midnight result means no time-of-day was given.
	dueTime := ""
	if result.Time.Hour() != 0 || result.Time.Minute() != 0 {
		dueTime = result.Time.Format("15:04")
	}

	return &date, dueTime, nil
}

// findOrCreateGroup resolves a group name to its id, creating the group if
// it doesn't exist. Matching is case-insensitive, mirroring the identity
// rule the sync engine applies during merges.
func findOrCreateGroup(ctx context.Context, store *localstore.Store, name string) (string, error) {
	groups, err := store.Groups(ctx)
	if err != nil {
		return "", err
	}

	probe := model.TaskGroup{Name: name}
	for _, group := range groups {
		if group.NameKey() == probe.NameKey() {
			return group.ID, nil
		}
	}

	group := &model.TaskGroup{Name: name}
	if err := store.CreateGroup(group); err != nil {
		return "", err
	}
	return group.ID, nil
}

func init() {
	addCmd.Flags().StringVar(&addNotes, "notes", "", "free-text notes")
	addCmd.Flags().StringVar(&addGroup, "group", "", "group name (created if missing)")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date, natural language accepted")
	addCmd.Flags().BoolVar(&addUrgent, "urgent", false, "mark urgent")
	addCmd.Flags().BoolVar(&addImportant, "important", false, "mark important")
	addCmd.Flags().IntVar(&addAutoUrgentDays, "auto-urgent-days", 0,
		"auto-promote to urgent this many days before the due date")
	rootCmd.AddCommand(addCmd)
}
