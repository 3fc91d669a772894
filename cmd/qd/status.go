package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quadranthq/quadrant/internal/sync"
	"github.com/quadranthq/quadrant/internal/ui"
)

var statusAccount string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show local and cloud record counts and the sync scenario",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		store, err := openLocal()
		if err != nil {
			fail("Error opening local store: %v", err)
		}
		defer store.Close()

		localTasks, err := store.TaskCount(ctx)
		if err != nil {
			fail("Error counting local tasks: %v", err)
		}
		localGroups, err := store.GroupCount(ctx)
		if err != nil {
			fail("Error counting local groups: %v", err)
		}

		fmt.Printf("%s\n", ui.RenderAccent("Local"))
		fmt.Printf("  Path:   %s\n", cfg.LocalDBPath)
		fmt.Printf("  Tasks:  %d\n", localTasks)
		fmt.Printf("  Groups: %d\n", localGroups)

		if cfg.Cloud.URL == "" {
			fmt.Printf("\n%s cloud not configured\n", ui.RenderDim("·"))
			return
		}
		if statusAccount == "" {
			fail("Error: --account is required when cloud is configured")
		}

		cloud, err := openCloud()
		if err != nil {
			fail("Error opening cloud store: %v", err)
		}
		defer cloud.Close()

		cloudTasks, err := cloud.TaskCount(ctx, statusAccount)
		if err != nil {
			fail("Error counting cloud tasks: %v", err)
		}
		cloudGroups, err := cloud.GroupCount(ctx, statusAccount)
		if err != nil {
			fail("Error counting cloud groups: %v", err)
		}

		fmt.Printf("\n%s\n", ui.RenderAccent("Cloud"))
		fmt.Printf("  URL:    %s\n", cfg.Cloud.URL)
		fmt.Printf("  Tasks:  %d\n", cloudTasks)
		fmt.Printf("  Groups: %d\n", cloudGroups)

		scenario := scenarioFor(localTasks, cloudTasks)
		fmt.Printf("\n%s %s\n", ui.RenderAccent("Next sync:"), scenario)
	},
}

// scenarioFor mirrors the orchestrator's classification so status can
// report what a sign-in would do without mutating anything.
func scenarioFor(localTasks, cloudTasks int) string {
	switch {
	case localTasks == 0 && cloudTasks == 0:
		return sync.ScenarioNone.String()
	case localTasks > 0 && cloudTasks == 0:
		return sync.ScenarioUpload.String()
	case localTasks == 0 && cloudTasks > 0:
		return sync.ScenarioDownload.String()
	default:
		return sync.ScenarioMergeNeeded.String()
	}
}

func init() {
	statusCmd.Flags().StringVar(&statusAccount, "account", "", "cloud account id")
	rootCmd.AddCommand(statusCmd)
}
