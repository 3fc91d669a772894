// Command qd is the Quadrant personal task manager CLI.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/quadranthq/quadrant/internal/cloudstore"
	"github.com/quadranthq/quadrant/internal/config"
	"github.com/quadranthq/quadrant/internal/localstore"
	"github.com/quadranthq/quadrant/internal/ui"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "qd",
	Short: "Quadrant personal task manager",
	Long: `Quadrant is an offline-first personal task manager with an
Eisenhower urgent/important model.

Tasks live in a device-local database until you sign in; signing in
reconciles local and cloud data into a single authoritative copy.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger = newLogger()
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// fail prints a styled error to stderr and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ui.RenderFail("✗"), fmt.Sprintf(format, args...))
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default ~/.quadrant/config.yaml)")
}

// newLogger returns a logger writing to stderr, and additionally to a
// rotating log file when one is configured.
func newLogger() *log.Logger {
	var w io.Writer = os.Stderr
	if cfg.Log.File != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		})
	}
	return log.New(w, "[qd] ", log.LstdFlags)
}

// openLocal opens the local store and initializes its schema.
func openLocal() (*localstore.Store, error) {
	store, err := localstore.Open(cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// openCloud opens the cloud store per the configured connection mode.
func openCloud() (*cloudstore.Store, error) {
	if cfg.Cloud.URL == "" {
		return nil, fmt.Errorf("cloud.url is not configured (set it in %s or QD_CLOUD_URL)", config.DefaultDir())
	}
	if cfg.Cloud.ReplicaPath != "" {
		return cloudstore.OpenEmbeddedReplica(cfg.Cloud.ReplicaPath, cfg.Cloud.URL, cfg.Cloud.AuthToken)
	}
	return cloudstore.Open(cfg.Cloud.URL, cfg.Cloud.AuthToken)
}
