package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quadranthq/quadrant/internal/dashboard"
	"github.com/quadranthq/quadrant/internal/model"
	"github.com/quadranthq/quadrant/internal/sync"
	"github.com/quadranthq/quadrant/internal/ui"
)

var (
	syncAccount   string
	syncKeepAll   bool
	syncDiscard   bool
	syncDashboard bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sign in and reconcile local data with the cloud",
	Long: `Reconcile the device-local store with your cloud account.

Exactly one of four scenarios applies per sign-in:
  - no data anywhere: nothing happens
  - local data only:  everything is uploaded, then local storage is cleared
  - cloud data only:  cloud data is cached locally
  - data both sides:  you choose which local tasks to merge (or discard them)

When both sides hold data and the terminal is interactive, a prompt lets you
pick the local tasks to keep. Otherwise pass --keep-all or --discard.`,
	Run: func(cmd *cobra.Command, args []string) {
		if syncKeepAll && syncDiscard {
			fail("Error: --keep-all and --discard are mutually exclusive")
		}

		local, err := openLocal()
		if err != nil {
			fail("Error opening local store: %v", err)
		}
		defer local.Close()

		cloud, err := openCloud()
		if err != nil {
			fail("Error opening cloud store: %v", err)
		}
		defer cloud.Close()

		// In replica mode, pull the latest primary state before detection.
		if err := cloud.Sync(); err != nil {
			fail("Error syncing replica: %v", err)
		}

		ctx := context.Background()
		if err := cloud.InitSchema(ctx); err != nil {
			fail("Error initializing cloud schema: %v", err)
		}

		// With --dashboard, sync lifecycle events are broadcast on the
		// configured port so a connected companion app can follow along.
		var events sync.Events
		if syncDashboard {
			server := dashboard.NewServer(&dashboard.Config{
				Port:   cfg.Dashboard.Port,
				Logger: logger,
			})
			if err := server.Start(); err != nil {
				fail("Error starting dashboard: %v", err)
			}
			defer server.Stop()
			events = dashboard.NewHandler(server, logger)
		}

		orch := sync.New(local, cloud, logger, events)

		fmt.Printf("%s Signing in as %s...\n", ui.RenderAccent("→"), syncAccount)
		start := time.Now()

		scenario, err := orch.OnSignIn(ctx, syncAccount)
		if err != nil {
			fail("Error during sync: %v", err)
		}

		if scenario == sync.ScenarioMergeNeeded {
			if err := resolveMerge(ctx, orch); err != nil {
				fail("Error resolving merge: %v", err)
			}
		}

		elapsed := time.Since(start)
		fmt.Printf("%s Sync complete in %v (scenario: %s)\n",
			ui.RenderPass("✓"), elapsed.Round(time.Millisecond), scenario)
	},
}

// resolveMerge obtains the user's merge decision and applies it.
func resolveMerge(ctx context.Context, orch *sync.Orchestrator) error {
	pending := orch.PendingTasks()
	fmt.Printf("%s Both this device and your account hold tasks (%d local)\n",
		ui.RenderWarn("⚠"), len(pending))

	switch {
	case syncDiscard:
		return orch.DiscardLocal(ctx)
	case syncKeepAll:
		return orch.ConfirmMerge(ctx, nil)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("merge decision needed but stdin is not a terminal; re-run with --keep-all or --discard")
	}

	selected, discard, err := promptMergeDecision(pending)
	if err != nil {
		return err
	}
	if discard {
		return orch.DiscardLocal(ctx)
	}
	return orch.ConfirmMerge(ctx, selected)
}

// promptMergeDecision runs the interactive merge form. Returns the selected
// local task ids, or discard=true when the user keeps cloud data only.
func promptMergeDecision(pending []*model.Task) ([]string, bool, error) {
	var action string
	actionForm := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("This device has tasks that aren't in your account yet").
			Options(
				huh.NewOption("Merge local tasks into my account", "merge"),
				huh.NewOption("Discard local tasks, keep cloud only", "discard"),
			).
			Value(&action),
	))
	if err := actionForm.Run(); err != nil {
		return nil, false, fmt.Errorf("merge prompt failed: %w", err)
	}
	if action == "discard" {
		return nil, true, nil
	}

	options := make([]huh.Option[string], 0, len(pending))
	for _, task := range pending {
		label := task.Title
		if task.DueDate != nil {
			label += " (due " + task.DueDate.Format("2006-01-02") + ")"
		}
		options = append(options, huh.NewOption(label, task.ID).Selected(true))
	}

	var selected []string
	selectForm := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Choose the local tasks to keep").
			Description("Unselected tasks are discarded.").
			Options(options...).
			Value(&selected),
	))
	if err := selectForm.Run(); err != nil {
		return nil, false, fmt.Errorf("task selection failed: %w", err)
	}

	ids, discard := selectionOutcome(selected)
	return ids, discard, nil
}

// selectionOutcome maps the multiselect result to a merge decision. The
// engine treats an empty selection as merge-everything, but in the form an
// empty result means the user deselected every task, so it becomes a
// discard here.
func selectionOutcome(selected []string) ([]string, bool) {
	if len(selected) == 0 {
		return nil, true
	}
	return selected, false
}

func init() {
	syncCmd.Flags().StringVar(&syncAccount, "account", "", "account identity to sign in as (required)")
	syncCmd.Flags().BoolVar(&syncKeepAll, "keep-all", false, "merge every local task without prompting")
	syncCmd.Flags().BoolVar(&syncDiscard, "discard", false, "discard local tasks without prompting")
	syncCmd.Flags().BoolVar(&syncDashboard, "dashboard", false, "broadcast sync events on the dashboard port")
	_ = syncCmd.MarkFlagRequired("account")
	rootCmd.AddCommand(syncCmd)
}
