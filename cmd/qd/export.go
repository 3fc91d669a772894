package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quadranthq/quadrant/internal/backup"
	"github.com/quadranthq/quadrant/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export local tasks and groups to a YAML snapshot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openLocal()
		if err != nil {
			fail("Error opening local store: %v", err)
		}
		defer store.Close()

		snap, err := backup.Export(cmd.Context(), store, args[0])
		if err != nil {
			fail("Error exporting: %v", err)
		}
		fmt.Printf("%s Exported %d tasks and %d groups to %s\n",
			ui.RenderPass("✓"), len(snap.Tasks), len(snap.Groups), args[0])
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace local tasks and groups from a YAML snapshot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openLocal()
		if err != nil {
			fail("Error opening local store: %v", err)
		}
		defer store.Close()

		snap, err := backup.Import(cmd.Context(), store, args[0])
		if err != nil {
			fail("Error importing: %v", err)
		}
		fmt.Printf("%s Imported %d tasks and %d groups from %s\n",
			ui.RenderPass("✓"), len(snap.Tasks), len(snap.Groups), args[0])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
