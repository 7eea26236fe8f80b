package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ttfl-live/injury-report/internal/storage"
)

var flagStrict bool

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [csv-path]",
		Short: "Validate a saved report CSV",
		Long: `Checks a report CSV for structural problems: missing columns, empty
fields, reasons contaminated with pagination or neighboring-row text, and
duplicate player rows. Without an argument the newest CSV in the data
directory is validated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
	cmd.Flags().BoolVar(&flagStrict, "strict", false, "Treat warnings as errors")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		store, err := storage.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
		path, err = store.FindLatestCSV()
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintf(os.Stderr, "No report CSV found in %s\n", store.Dir())
			os.Exit(ExitNotFound)
		}
	}

	result, err := storage.ValidateCSV(path, flagStrict)
	if err != nil {
		return err
	}

	fmt.Printf("Validating %s (%d rows)\n", result.Path, result.RowCount)
	for _, issue := range result.Issues {
		if issue.RowNumber > 0 {
			fmt.Printf("  %s %s (row %d): %s\n", issue.Level, issue.Code, issue.RowNumber, issue.Message)
		} else {
			fmt.Printf("  %s %s: %s\n", issue.Level, issue.Code, issue.Message)
		}
	}

	if !result.OK() {
		fmt.Printf("FAIL: %d errors, %d warnings\n", len(result.Errors()), len(result.Warnings()))
		os.Exit(ExitError)
	}
	fmt.Printf("PASS: %d warnings\n", len(result.Warnings()))
	os.Exit(ExitSuccess)
	return nil
}
