// Package config loads the application configuration.
//
// Configuration is read from ~/.quadrant/config.yaml (overridable), with
// QD_-prefixed environment variables taking precedence over file values.
// Changes to the file are picked up at runtime via Watch.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	// LocalDBPath is the device-local SQLite database file.
	LocalDBPath string `mapstructure:"local_db_path"`

	Cloud     CloudConfig     `mapstructure:"cloud"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

// CloudConfig configures the cloud store connection.
type CloudConfig struct {
	// URL of the libSQL primary, e.g. libsql://quadrant-acme.turso.io
	URL string `mapstructure:"url"`

	// AuthToken for the primary. Prefer setting QD_CLOUD_AUTH_TOKEN over
	// writing it to the config file.
	AuthToken string `mapstructure:"auth_token"`

	// ReplicaPath enables embedded-replica mode when non-empty.
	ReplicaPath string `mapstructure:"replica_path"`
}

// DashboardConfig configures the sync event WebSocket server.
type DashboardConfig struct {
	Port int `mapstructure:"port"`
}

// SchedulerConfig configures the auto-urgent scheduler.
type SchedulerConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// LogConfig configures the rotating log file.
type LogConfig struct {
	// File is the log file path; empty logs to stderr only.
	File string `mapstructure:"file"`

	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
}

// DefaultDir returns the per-user application directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quadrant"
	}
	return filepath.Join(home, ".quadrant")
}

func setDefaults(v *viper.Viper) {
	dir := DefaultDir()
	v.SetDefault("local_db_path", filepath.Join(dir, "local.db"))
	v.SetDefault("cloud.replica_path", "")
	v.SetDefault("dashboard.port", 8080)
	v.SetDefault("scheduler.sweep_interval", time.Minute)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
}

// Load reads the configuration from path. An empty path uses
// ~/.quadrant/config.yaml; a missing file is not an error, defaults and
// environment variables still apply.
func Load(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
	}

	v.SetEnvPrefix("QD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, v, nil
}

// Watch loads the configuration and invokes onChange with a freshly parsed
// Config every time the underlying file changes.
func Watch(path string, onChange func(*Config)) (*Config, error) {
	cfg, v, err := load(path)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		var next Config
		if err := v.Unmarshal(&next); err != nil {
			return
		}
		onChange(&next)
	})
	v.WatchConfig()

	return cfg, nil
}
