package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// maxReasonLen flags reasons long enough to suggest the parser glued
// several source rows together.
const maxReasonLen = 180

var (
	playerStatusBlobPattern = regexp.MustCompile(
		`(?i)\b[A-Z][A-Za-z'` + "`" + `.\-]+,\s*[A-Z][A-Za-z'` + "`" + `.\-]+\s+` +
			`(Out|Questionable|Doubtful|Probable|Available|Not\s*With\s*Team|NotWithTeam)\b`)
	pageMarkerBlobPattern = regexp.MustCompile(`(?i)\bPage\s*\d+\s*of\s*\d+\b|\bPage\d+of\d+\b`)
	matchupBlobPattern    = regexp.MustCompile(`\b[A-Z]{2,4}\s*@\s*[A-Z]{2,4}\b`)
	dateTimeBlobPattern   = regexp.MustCompile(`(?i)\b\d{2}/\d{2}/\d{4}\b|\b\d{1,2}:\d{2}\s*\(ET\)\b`)
	multiSpacePattern     = regexp.MustCompile(`\s+`)
)

// IssueLevel classifies a validation finding.
type IssueLevel string

const (
	IssueError IssueLevel = "ERROR"
	IssueWarn  IssueLevel = "WARN"
)

// Issue is one validation finding, optionally tied to a CSV row.
type Issue struct {
	Level IssueLevel
	Code  string
	// RowNumber is 1-based including the header line, 0 for file-level
	// issues.
	RowNumber int
	Message   string
}

// ValidationResult aggregates findings for one CSV file.
type ValidationResult struct {
	Path     string
	RowCount int
	Issues   []Issue
}

// OK reports whether the file has no error-level issues.
func (r *ValidationResult) OK() bool {
	for _, issue := range r.Issues {
		if issue.Level == IssueError {
			return false
		}
	}
	return true
}

// Errors returns the error-level issues.
func (r *ValidationResult) Errors() []Issue { return r.filter(IssueError) }

// Warnings returns the warn-level issues.
func (r *ValidationResult) Warnings() []Issue { return r.filter(IssueWarn) }

func (r *ValidationResult) filter(level IssueLevel) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Level == level {
			out = append(out, issue)
		}
	}
	return out
}

// FindLatestCSV returns the most recently modified report CSV in the data
// directory, or "" when none exists.
func (s *Storage) FindLatestCSV() (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dataDir, "Injury-Report_*.csv"))
	if err != nil {
		return "", fmt.Errorf("globbing csvs: %w", err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})
	return matches[0], nil
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// ValidateCSV checks the structural health of a saved report CSV: required
// columns, non-empty row fields, reasons free of pagination/matchup/player
// artifacts, and duplicate player rows. With strictWarnings, every warning
// is duplicated as an error.
func ValidateCSV(path string, strictWarnings bool) (*ValidationResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	result := &ValidationResult{Path: path}
	if len(records) == 0 {
		result.Issues = append(result.Issues, Issue{
			Level: IssueError, Code: "EMPTY_FILE", Message: "CSV has no rows.",
		})
		return result, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[name] = i
	}
	var missing []string
	for _, required := range CSVHeader {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		result.Issues = append(result.Issues, Issue{
			Level:   IssueError,
			Code:    "MISSING_COLUMNS",
			Message: fmt.Sprintf("Missing required columns: %v", missing),
		})
		return result, nil
	}

	rows := records[1:]
	result.RowCount = len(rows)
	if len(rows) == 0 {
		result.Issues = append(result.Issues, Issue{
			Level: IssueError, Code: "EMPTY_FILE", Message: "CSV has no data rows.",
		})
		return result, nil
	}

	cell := func(record []string, name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	seen := make(map[string]bool, len(rows))
	for i, record := range rows {
		rowNumber := i + 2 // 1-based, after the header line
		team := cell(record, "team")
		player := cell(record, "player")
		status := cell(record, "status")
		reason := normalizeSpaces(cell(record, "reason"))
		gameDate := cell(record, "gameDate")

		combined := strings.ToUpper(team + " " + player + " " + status + " " + reason)
		isNYS := strings.Contains(combined, "NOT YET SUBMITTED") ||
			strings.Contains(combined, "NOTYETSUBMITTED")

		if !isNYS {
			for _, check := range []struct {
				value, code, message string
			}{
				{team, "EMPTY_TEAM", "Missing team value."},
				{player, "EMPTY_PLAYER", "Missing player value."},
				{status, "EMPTY_STATUS", "Missing status value."},
				{reason, "EMPTY_REASON", "Missing reason value."},
			} {
				if check.value == "" {
					result.Issues = append(result.Issues, Issue{
						Level: IssueError, Code: check.code,
						RowNumber: rowNumber, Message: check.message,
					})
				}
			}
		}

		if len(reason) > maxReasonLen {
			result.Issues = append(result.Issues, Issue{
				Level: IssueError, Code: "REASON_TOO_LONG", RowNumber: rowNumber,
				Message: fmt.Sprintf("Reason is suspiciously long (%d chars).", len(reason)),
			})
		}
		if reason != "" && isContaminatedReason(reason) {
			result.Issues = append(result.Issues, Issue{
				Level: IssueError, Code: "REASON_CONTAMINATED", RowNumber: rowNumber,
				Message: "Reason contains player/page/matchup/date artifacts.",
			})
		}
		if strings.Count(reason, "Injury/Illness") > 1 {
			result.Issues = append(result.Issues, Issue{
				Level: IssueWarn, Code: "MULTI_INJURY_SEGMENT", RowNumber: rowNumber,
				Message: "Reason contains multiple 'Injury/Illness' segments.",
			})
		}

		key := gameDate + "|" + strings.ToUpper(team) + "|" + strings.ToUpper(player) + "|" + strings.ToUpper(status)
		if seen[key] {
			result.Issues = append(result.Issues, Issue{
				Level: IssueWarn, Code: "DUPLICATE_PLAYER_ROW", RowNumber: rowNumber,
				Message: "Potential duplicate player row.",
			})
		} else {
			seen[key] = true
		}
	}

	if strictWarnings {
		for _, warning := range result.Warnings() {
			result.Issues = append(result.Issues, Issue{
				Level:     IssueError,
				Code:      "STRICT_" + warning.Code,
				RowNumber: warning.RowNumber,
				Message:   warning.Message,
			})
		}
	}

	return result, nil
}

func normalizeSpaces(text string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(
		strings.ReplaceAll(text, " ", " "), " "))
}

// isContaminatedReason reports whether a reason cell still carries chrome
// from neighboring table cells: another player's name+status, a pagination
// marker, a matchup, or a date/time stamp.
func isContaminatedReason(reason string) bool {
	if playerStatusBlobPattern.MatchString(reason) {
		return true
	}
	if pageMarkerBlobPattern.MatchString(reason) {
		return true
	}
	if matchupBlobPattern.MatchString(reason) {
		return true
	}
	return dateTimeBlobPattern.MatchString(reason)
}
