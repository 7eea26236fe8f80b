package notifier

import (
	"github.com/ttfl-live/injury-report/internal/report"
)

// Notifier defines the interface for posting change notifications
type Notifier interface {
	// Notify posts notifications for the given report changes
	Notify(changes []report.Change) error
}
