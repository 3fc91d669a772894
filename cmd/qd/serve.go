package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quadranthq/quadrant/internal/config"
	"github.com/quadranthq/quadrant/internal/dashboard"
	"github.com/quadranthq/quadrant/internal/scheduler"
	"github.com/quadranthq/quadrant/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard event server and the urgency scheduler",
	Long: `Starts a WebSocket server that broadcasts sync events to connected
dashboards, plus a background scheduler that promotes tasks to urgent
as their due dates approach. Runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openLocal()
		if err != nil {
			fail("Error opening local store: %v", err)
		}
		defer store.Close()

		server := dashboard.NewServer(&dashboard.Config{
			Port:   cfg.Dashboard.Port,
			Logger: logger,
		})
		if err := server.Start(); err != nil {
			fail("Error starting dashboard: %v", err)
		}
		defer server.Stop()

		sched, err := scheduler.New(store, &scheduler.Config{
			SweepInterval: cfg.Scheduler.SweepInterval,
			Logger:        logger,
		})
		if err != nil {
			fail("Error creating scheduler: %v", err)
		}
		// Start blocks until shutdown; run it alongside the server.
		schedErr := make(chan error, 1)
		go func() {
			schedErr <- sched.Start(cmd.Context())
		}()
		defer sched.Stop()

		if _, err := config.Watch(cfgFile, func(next *config.Config) {
			logger.Printf("configuration file changed; restart to apply store or port changes")
		}); err != nil {
			logger.Printf("config watch disabled: %v", err)
		}

		fmt.Printf("%s Dashboard listening on %s\n", ui.RenderPass("✓"), server.GetAddr())
		fmt.Printf("%s Scheduler sweeping every %s\n", ui.RenderPass("✓"), cfg.Scheduler.SweepInterval)
		fmt.Printf("%s\n", ui.RenderDim("Press Ctrl+C to stop"))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sig:
			fmt.Printf("\n%s Shutting down\n", ui.RenderDim("·"))
		case err := <-schedErr:
			if err != nil {
				fail("Scheduler stopped: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
