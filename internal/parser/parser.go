package parser

import (
	"regexp"
	"strings"

	"github.com/ttfl-live/injury-report/internal/report"
)

const notYetSubmitted = "NOT YET SUBMITTED"

// minRowFields is the minimum wide-gapped field count for a line to start a
// new row. Anything shorter is a reason continuation.
const minRowFields = 5

var (
	wideGapPattern = regexp.MustCompile(`\s{2,}`)
	spacePattern   = regexp.MustCompile(`\s+`)
	pageOfPattern  = regexp.MustCompile(`(?i)\bPAGE\s*\d+\s*OF\s*\d+\b`)

	// timeMatchupPattern recognizes a game time glued to a matchup in one
	// field, e.g. "7:00PMBOS@NYK" or "7:00 PM BOS @ NYK". The PDF renders
	// these columns close enough that text extraction sometimes drops the
	// wide gap between them.
	timeMatchupPattern = regexp.MustCompile(
		`(?i)^(\d{1,2}:\d{2}\s*(?:AM|PM))\s*([A-Z]{2,3}\s*@\s*[A-Z]{2,3})$`)
)

// ParseRows extracts ordered rows from report text. It is a pure function:
// the current-row accumulator lives on the stack, so calls are reentrant.
// Rows are emitted in source line order and never reordered.
func ParseRows(text string) []report.Row {
	var rows []report.Row
	current := -1 // index into rows of the row still accepting continuations

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if isHeaderOrFooter(line) {
			continue
		}
		if strings.EqualFold(line, notYetSubmitted) {
			// Placeholder for a team that has not filed yet. Must not
			// extend the previous row's reason.
			continue
		}

		fields := splitFields(line)
		switch {
		case len(fields) >= minRowFields+1:
			rows = append(rows, newRow(
				fields[0], fields[1], fields[2], fields[3], fields[4],
				strings.Join(fields[5:], " ")))
			current = len(rows) - 1

		case len(fields) == minRowFields:
			match := timeMatchupPattern.FindStringSubmatch(fields[0])
			if match == nil {
				appendContinuation(rows, current, line)
				continue
			}
			rows = append(rows, newRow(
				match[1], match[2], fields[1], fields[2], fields[3], fields[4]))
			current = len(rows) - 1

		default:
			appendContinuation(rows, current, line)
		}
	}

	return rows
}

// splitFields splits a line on runs of two or more whitespace characters,
// dropping empty fields. Wide gaps are the only surviving column separators.
func splitFields(line string) []string {
	parts := wideGapPattern.Split(line, -1)
	fields := parts[:0]
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

func newRow(gameTime, matchup, team, player, status, reason string) report.Row {
	return report.Row{
		GameTime: normalizeGameTime(gameTime),
		Matchup:  stripSpaces(matchup),
		Team:     team,
		Player:   player,
		Status:   status,
		Reason:   strings.TrimSpace(reason),
	}
}

// appendContinuation attaches line to the current row's reason. A line with
// no anchor row is dropped.
func appendContinuation(rows []report.Row, current int, line string) {
	if current < 0 || current >= len(rows) {
		return
	}
	rows[current].Reason = strings.TrimSpace(rows[current].Reason + " " + line)
}

func normalizeGameTime(value string) string {
	collapsed := spacePattern.ReplaceAllString(strings.TrimSpace(value), " ")
	if collapsed == "" {
		return report.TBDGameTime
	}
	return strings.ToUpper(collapsed)
}

func stripSpaces(value string) string {
	return spacePattern.ReplaceAllString(value, "")
}

// isHeaderOrFooter reports whether a line is report chrome: the title
// banner, the "Report Updated" footer, pagination, or the column header.
func isHeaderOrFooter(line string) bool {
	upper := strings.ToUpper(line)
	if strings.Contains(upper, "NBA INJURY REPORT") {
		return true
	}
	if strings.Contains(upper, "REPORT UPDATED") {
		return true
	}
	if strings.HasPrefix(upper, "PAGE ") || pageOfPattern.MatchString(upper) {
		return true
	}
	if strings.Contains(upper, "MATCHUP") &&
		(strings.Contains(upper, "GAME DATE") || strings.Contains(upper, "GAME TIME")) {
		return true
	}
	return false
}
