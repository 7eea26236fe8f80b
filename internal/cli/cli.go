package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ttfl-live/injury-report/internal/config"
	"github.com/ttfl-live/injury-report/internal/logger"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitChanges  = 2
	ExitNotFound = 2
)

var (
	flagDataDir string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "injury-report",
		Short: "Extract structured data from the official NBA injury report",
		Long: `Fetches the official NBA injury report landing page, downloads the
latest published PDF, and extracts per-player status rows plus summary
statistics. Run once, serve over HTTP, or watch for changes.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for PDFs and CSVs (overrides PDF_STORAGE_DIR)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newValidateCmd())

	return cmd
}

// loadConfig builds the runtime configuration, applying flag overrides
// on top of the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if cfg.Verbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}
	return cfg, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
