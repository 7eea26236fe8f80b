package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/ttfl-live/injury-report/internal/report"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// fetchOutput is the JSON envelope for a one-shot extraction.
type fetchOutput struct {
	*report.Result
	Changes []report.Change `json:"changes,omitempty"`
}

// WriteResult writes an extraction result, and optionally the changes
// against the previous result, in the specified format.
func WriteResult(w io.Writer, result *report.Result, changes []report.Change, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(&fetchOutput{Result: result, Changes: changes})
	case FormatText:
		return writeText(w, result, changes)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeText outputs a result as human-readable text, rows grouped in
// their display order.
func writeText(w io.Writer, result *report.Result, changes []report.Change) error {
	if !result.OK {
		fmt.Fprintf(w, "FAILED at %s: %s\n", result.Error.Step, result.Error.Message)
		return nil
	}

	fmt.Fprintf(w, "Report: %s\n", result.Meta.PDFName)
	if result.Meta.GameDate != "" {
		fmt.Fprintf(w, "Game date: %s\n", result.Meta.GameDate)
	}
	if result.Meta.ReportTime != "" {
		fmt.Fprintf(w, "Report time: %s\n", result.Meta.ReportTime)
	}
	fmt.Fprintf(w, "Rows: %d\n", result.Stats.TotalRows)

	var lastBlock string
	for _, row := range report.SortForDisplay(result.Rows) {
		block := row.Matchup + " / " + row.Team
		if block != lastBlock {
			fmt.Fprintf(w, "\n%s (%s):\n", block, row.GameTime)
			lastBlock = block
		}
		fmt.Fprintf(w, "  %-14s %s", row.StatusOrUnknown(), row.Player)
		if row.Reason != "" {
			fmt.Fprintf(w, " - %s", row.Reason)
		}
		fmt.Fprintln(w)
	}

	if len(result.Stats.ByStatus) > 0 {
		fmt.Fprintln(w, "\nBy status:")
		printed := make(map[string]bool, len(result.Stats.ByStatus))
		for _, status := range report.StatusDisplayOrder {
			if count, ok := result.Stats.ByStatus[status]; ok {
				fmt.Fprintf(w, "  %-14s %d\n", status, count)
				printed[status] = true
			}
		}
		// The source's status labels are not a closed set; anything
		// unranked still shows up, alphabetically.
		var rest []string
		for status := range result.Stats.ByStatus {
			if !printed[status] {
				rest = append(rest, status)
			}
		}
		sort.Strings(rest)
		for _, status := range rest {
			fmt.Fprintf(w, "  %-14s %d\n", status, result.Stats.ByStatus[status])
		}
	}

	if len(changes) > 0 {
		fmt.Fprintf(w, "\nChanges since last report (%d):\n", len(changes))
		for _, change := range changes {
			switch change.ChangeType {
			case report.ChangeNew:
				fmt.Fprintf(w, "  NEW: %s (%s) - %s\n", change.Player, change.Team, change.NewStatus)
			case report.ChangeStatus:
				fmt.Fprintf(w, "  CHANGED: %s (%s) - %s -> %s\n", change.Player, change.Team, change.OldStatus, change.NewStatus)
			case report.ChangeGone:
				fmt.Fprintf(w, "  CLEARED: %s (%s) - was %s\n", change.Player, change.Team, change.OldStatus)
			}
		}
	}

	return nil
}
