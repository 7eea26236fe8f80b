package report

import "sort"

// ChangeType classifies a detected row change.
type ChangeType string

const (
	ChangeNew    ChangeType = "new"
	ChangeStatus ChangeType = "status"
	ChangeGone   ChangeType = "gone"
)

// Change records a difference for one player between two report revisions.
type Change struct {
	Team       string     `json:"team"`
	Player     string     `json:"player"`
	ChangeType ChangeType `json:"change_type"`
	OldStatus  string     `json:"old_status,omitempty"`
	NewStatus  string     `json:"new_status,omitempty"`
}

// Diff compares a previous row set against the current one, keyed by
// team+player. New entries, status transitions, and removed entries are
// reported; reason-only edits are not considered changes.
func Diff(previous, current []Row) []Change {
	prevByKey := make(map[string]*Row, len(previous))
	for i := range previous {
		prevByKey[previous[i].Key()] = &previous[i]
	}

	var changes []Change
	currentKeys := make(map[string]bool, len(current))
	for i := range current {
		row := &current[i]
		key := row.Key()
		currentKeys[key] = true

		prev, existed := prevByKey[key]
		if !existed {
			changes = append(changes, Change{
				Team:       row.Team,
				Player:     row.Player,
				ChangeType: ChangeNew,
				NewStatus:  row.Status,
			})
			continue
		}
		if prev.Status != row.Status {
			changes = append(changes, Change{
				Team:       row.Team,
				Player:     row.Player,
				ChangeType: ChangeStatus,
				OldStatus:  prev.Status,
				NewStatus:  row.Status,
			})
		}
	}

	for key := range prevByKey {
		if !currentKeys[key] {
			prev := prevByKey[key]
			changes = append(changes, Change{
				Team:       prev.Team,
				Player:     prev.Player,
				ChangeType: ChangeGone,
				OldStatus:  prev.Status,
			})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Team != changes[j].Team {
			return changes[i].Team < changes[j].Team
		}
		return changes[i].Player < changes[j].Player
	})
	return changes
}
