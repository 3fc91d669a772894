package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quadranthq/quadrant/internal/model"
	"github.com/quadranthq/quadrant/internal/ui"
)

var listCompleted bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List local tasks grouped by their group",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openLocal()
		if err != nil {
			fail("Error opening local store: %v", err)
		}
		defer store.Close()

		ctx := cmd.Context()
		tasks, err := store.Tasks(ctx)
		if err != nil {
			fail("Error reading tasks: %v", err)
		}
		groups, err := store.Groups(ctx)
		if err != nil {
			fail("Error reading groups: %v", err)
		}

		groupNames := make(map[string]string, len(groups))
		for _, group := range groups {
			groupNames[group.ID] = group.Name
		}

		if len(tasks) == 0 {
			fmt.Printf("%s No tasks. Add one with 'qd add'.\n", ui.RenderDim("·"))
			return
		}

		lastHeader := ""
		for _, task := range tasks {
			if task.Completed && !listCompleted {
				continue
			}

			header := "General"
			if task.GroupID != "" {
				if name, ok := groupNames[task.GroupID]; ok {
					header = name
				}
			}
			if header != lastHeader {
				fmt.Printf("\n%s\n", ui.RenderAccent(header))
				lastHeader = header
			}

			fmt.Printf("  %s %s%s\n", marker(task), task.Title, taskSuffix(task))
		}
		fmt.Println()
	},
}

func marker(task *model.Task) string {
	if task.Completed {
		return ui.RenderPass("✓")
	}
	return ui.RenderDim("○")
}

func taskSuffix(task *model.Task) string {
	suffix := ""
	if q := task.Quadrant(); q != "" {
		suffix += " " + ui.RenderDim("["+q+"]")
	}
	if task.DueDate != nil {
		due := task.DueDate.Format("2006-01-02")
		if task.DueTime != "" {
			due += " " + task.DueTime
		}
		suffix += " " + ui.RenderWarn("due "+due)
	}
	return suffix
}

func init() {
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "include completed tasks")
	rootCmd.AddCommand(listCmd)
}
