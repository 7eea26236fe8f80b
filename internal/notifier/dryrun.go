package notifier

import (
	"fmt"

	"github.com/ttfl-live/injury-report/internal/report"
)

// DryRunNotifier prints what would be tweeted without actually posting
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints the tweets that would be posted
func (n *DryRunNotifier) Notify(changes []report.Change) error {
	for i, change := range changes {
		tweet := formatTweet(change)
		fmt.Printf("--- Tweet %d/%d ---\n", i+1, len(changes))
		fmt.Println(tweet)
		fmt.Printf("\n(Length: %d characters)\n\n", len(tweet))
	}
	return nil
}
