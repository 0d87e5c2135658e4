package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kalambet/prefs/internal/config"
	"github.com/kalambet/prefs/internal/legacy"
	"github.com/kalambet/prefs/internal/settings"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagLogLevel  string
	noColor       bool
)

// skipStore marks commands that run without opening the settings store.
const skipStore = "skip-store"

// session is what PersistentPreRunE builds for store-backed commands and
// PersistentPostRunE tears down.
type session struct {
	cfg    config.Config
	legacy legacy.Backend
	store  *settings.Store
}

var current *session

var rootCmd = &cobra.Command{
	Use:           "prefs",
	Short:         "Typed settings store with migration from platform preferences",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			noColor = true
		}
		if cmd.Annotations[skipStore] != "" {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

		s, err := openSession(cfg)
		if err != nil {
			return err
		}
		current = s
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeSession()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding the settings file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(hasCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads config and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfigDir)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.Storage.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func openSession(cfg config.Config) (*session, error) {
	old, err := legacy.Open(cfg.Legacy.Backend, cfg.Legacy.Location, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("opening legacy store: %w", err)
	}
	store, err := settings.Open(cfg.SettingsPath(), old, settings.WithLogger(slog.Default()))
	if err != nil {
		old.Close()
		return nil, fmt.Errorf("opening settings: %w", err)
	}
	return &session{cfg: cfg, legacy: old, store: store}, nil
}

// closeSession flushes and releases the open session, if any. It also runs
// after a failed command, where cobra skips PersistentPostRunE.
func closeSession() error {
	if current == nil {
		return nil
	}
	err := errors.Join(current.store.Close(), current.legacy.Close())
	current = nil
	return err
}

// activeStore returns the store opened for the running command.
func activeStore() (*settings.Store, error) {
	if current == nil {
		return nil, errors.New("settings store is not open")
	}
	return current.store, nil
}
