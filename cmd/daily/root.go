// ABOUTME: Root Cobra command and global flags for the daily CLI.
// ABOUTME: Sets up lifecycle hooks for date validation, config loading, and store initialization.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389-research/daily/internal/config"
	"github.com/2389-research/daily/internal/daily"
	"github.com/2389-research/daily/internal/logging"
	"github.com/2389-research/daily/internal/models"
	"github.com/2389-research/daily/internal/storage"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var globalConfig *config.Config
var globalLogger *slog.Logger
var globalBackend storage.Backend
var globalService *daily.Service
var globalDate models.DateKey

// Flags
var (
	dateFlag    string
	backendFlag string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "daily",
	Short: "A tiny daily work log",
	Long: `Keep a plain daily log of what you worked on.

Entries are grouped by calendar day. Dates accept today (t), yesterday (y),
last (l, the most recent day with entries in the last 30 days) or YYYY-MM-DD.
Running daily with no subcommand shows the entries for the chosen date.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsStorage(cmd) {
			return nil
		}

		// Reject a malformed date before any storage is touched.
		if err := daily.ValidateToken(dateFlag); err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if backendFlag != "" {
			cfg.Backend = backendFlag
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		globalConfig = cfg
		globalLogger = logging.Setup(os.Stderr, cfg.LogLevel, verboseFlag)

		backend, err := openBackend(cfg, globalLogger)
		if err != nil {
			return err
		}
		globalBackend = backend

		svc, err := daily.NewService(backend, daily.WithLogger(globalLogger))
		if err != nil {
			return err
		}
		globalService = svc

		date, err := svc.Resolve(dateFlag)
		if err != nil {
			return err
		}
		globalDate = date
		globalLogger.Debug("resolved date", "token", dateFlag, "date", date.String(), "backend", cfg.Backend)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeStore()
		return nil
	},
	RunE: runGet,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dateFlag, "date", "d", "today", "date the command applies to (today, yesterday, last, YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend to use: file or sqlite (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "enable debug logging")
}

// skipsStorage reports whether cmd runs without opening the store.
func skipsStorage(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "setup", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return false
}

func openBackend(cfg *config.Config, logger *slog.Logger) (storage.Backend, error) {
	opts := storage.Options{
		Kind:      cfg.Backend,
		Extension: cfg.Extension,
		Logger:    logger,
	}

	switch cfg.Backend {
	case storage.KindSQLite:
		path, err := cfg.GetDatabasePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
		opts.DatabasePath = path
	default:
		dir, err := cfg.GetEntriesDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve entries dir: %w", err)
		}
		opts.EntriesDir = dir
	}

	return storage.Open(opts)
}

// closeStore releases the backend. It runs after every command, including
// failed ones, and is safe to call twice.
func closeStore() {
	if globalBackend == nil {
		return
	}
	if err := globalBackend.Close(); err != nil && globalLogger != nil {
		globalLogger.Warn("failed to close storage", "error", err)
	}
	globalBackend = nil
	globalService = nil
}
