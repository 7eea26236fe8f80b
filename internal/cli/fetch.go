package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ttfl-live/injury-report/internal/pipeline"
	"github.com/ttfl-live/injury-report/internal/report"
	"github.com/ttfl-live/injury-report/internal/storage"
)

var (
	flagFormat string
	flagNoSave bool
	flagDiff   bool
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one extraction and print the result",
		RunE:  runFetch,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Skip saving the PDF, CSV and result snapshot")
	cmd.Flags().BoolVar(&flagDiff, "diff", false, "Show changes since the last saved result (exit code 2 when changes exist)")
	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var store *storage.Storage
	if !flagNoSave || flagDiff {
		store, err = storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
	}

	// Diffing needs the previous snapshot before the run overwrites it.
	var previous *report.Result
	if flagDiff && store != nil {
		previous, err = store.LoadLastResult()
		if err != nil {
			return fmt.Errorf("loading last result: %w", err)
		}
	}

	runStore := store
	if flagNoSave {
		runStore = nil
	}
	runner := pipeline.FromConfig(cfg, runStore)
	result := runner.Run(cmd.Context())

	var changes []report.Change
	if flagDiff && result.OK && previous != nil {
		changes = report.Diff(previous.Rows, result.Rows)
	}

	if err := WriteResult(os.Stdout, result, changes, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !result.OK {
		os.Exit(ExitError)
	}
	if flagDiff && len(changes) > 0 {
		os.Exit(ExitChanges)
	}
	os.Exit(ExitSuccess)
	return nil
}
