package report

import (
	"sort"
	"strings"
)

// StatusDisplayOrder ranks statuses for display, most available first.
// Statuses the source prints that are not listed here sort after these.
var StatusDisplayOrder = []string{
	"Available",
	"Probable",
	"Questionable",
	"Doubtful",
	"Not With Team",
	"Out",
}

func statusRank(status string) int {
	trimmed := strings.TrimSpace(status)
	for i, s := range StatusDisplayOrder {
		if s == trimmed {
			return i
		}
	}
	return len(StatusDisplayOrder)
}

// Filter narrows a row set for display.
type Filter struct {
	// PlayerQuery is a case-insensitive substring match on the player name.
	PlayerQuery string
	// Teams keeps only rows whose team is in the set. Empty means all.
	Teams []string
	// Statuses keeps only rows whose status is in the set. Empty means all.
	Statuses []string
}

// Apply returns the rows matching the filter, in their original order.
func (f *Filter) Apply(rows []Row) []Row {
	query := strings.ToLower(strings.TrimSpace(f.PlayerQuery))

	teamSet := make(map[string]bool, len(f.Teams))
	for _, team := range f.Teams {
		if t := strings.TrimSpace(team); t != "" {
			teamSet[t] = true
		}
	}
	statusSet := make(map[string]bool, len(f.Statuses))
	for _, status := range f.Statuses {
		if s := strings.TrimSpace(status); s != "" {
			statusSet[s] = true
		}
	}

	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if query != "" && !strings.Contains(strings.ToLower(row.Player), query) {
			continue
		}
		if len(teamSet) > 0 && !teamSet[strings.TrimSpace(row.Team)] {
			continue
		}
		if len(statusSet) > 0 && !statusSet[strings.TrimSpace(row.Status)] {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

// SortForDisplay orders rows by the first appearance of their matchup+team
// block in the source, then by status display rank, then by player name.
// The input slice is not modified.
func SortForDisplay(rows []Row) []Row {
	if len(rows) == 0 {
		return nil
	}

	blockOrder := make(map[string]int, len(rows))
	for i, row := range rows {
		key := blockKey(row)
		if _, seen := blockOrder[key]; !seen {
			blockOrder[key] = i
		}
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		bi, bj := blockOrder[blockKey(sorted[i])], blockOrder[blockKey(sorted[j])]
		if bi != bj {
			return bi < bj
		}
		ri, rj := statusRank(sorted[i].Status), statusRank(sorted[j].Status)
		if ri != rj {
			return ri < rj
		}
		return strings.ToUpper(sorted[i].Player) < strings.ToUpper(sorted[j].Player)
	})
	return sorted
}

func blockKey(row Row) string {
	return strings.ToUpper(strings.TrimSpace(row.Matchup)) + "|" + strings.ToUpper(strings.TrimSpace(row.Team))
}
