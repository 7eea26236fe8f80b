package report

import "strings"

// UnknownLabel is substituted for empty team/status values in aggregations.
const UnknownLabel = "Unknown"

// TBDGameTime is the sentinel used when a row carries no game time.
const TBDGameTime = "TBD"

// Row is one injury-status entry extracted from the report text.
// Emission order equals source line order; once emitted a row only ever
// grows its Reason while it remains the parser's current row.
type Row struct {
	GameTime string `json:"gameTime"`
	Matchup  string `json:"matchup"`
	Team     string `json:"team"`
	Player   string `json:"player"`
	Status   string `json:"status"`
	Reason   string `json:"reason"`
}

// Key returns the identity used for diffing rows across report revisions.
func (r *Row) Key() string {
	return strings.ToUpper(strings.TrimSpace(r.Team)) + "|" + strings.ToUpper(strings.TrimSpace(r.Player))
}

// StatusOrUnknown returns the row status, or UnknownLabel when empty.
func (r *Row) StatusOrUnknown() string {
	if strings.TrimSpace(r.Status) == "" {
		return UnknownLabel
	}
	return r.Status
}

// TeamOrUnknown returns the row team, or UnknownLabel when empty.
func (r *Row) TeamOrUnknown() string {
	if strings.TrimSpace(r.Team) == "" {
		return UnknownLabel
	}
	return r.Team
}
