package report

// Stats summarizes an extracted row set.
type Stats struct {
	TotalRows int            `json:"totalRows"`
	ByStatus  map[string]int `json:"byStatus"`
	ByTeam    map[string]int `json:"byTeam"`
}

// BuildStats reduces rows into count-by-status and count-by-team mappings.
// Empty status/team values count under UnknownLabel. The reduction is pure:
// the same row sequence always yields identical mappings.
func BuildStats(rows []Row) *Stats {
	stats := &Stats{
		TotalRows: len(rows),
		ByStatus:  make(map[string]int),
		ByTeam:    make(map[string]int),
	}
	for i := range rows {
		stats.ByStatus[rows[i].StatusOrUnknown()]++
		stats.ByTeam[rows[i].TeamOrUnknown()]++
	}
	return stats
}
