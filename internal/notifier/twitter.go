package notifier

import (
	"fmt"
	"os"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/ttfl-live/injury-report/internal/report"
)

// TwitterNotifier posts report changes to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{client: client}, nil
}

// Notify posts one tweet per change
func (n *TwitterNotifier) Notify(changes []report.Change) error {
	for i, change := range changes {
		tweet := formatTweet(change)

		_, _, err := n.client.Statuses.Update(tweet, nil)
		if err != nil {
			return fmt.Errorf("failed to post tweet for %s: %w", change.Player, err)
		}

		// Rate limiting: wait between tweets
		if i < len(changes)-1 {
			time.Sleep(2 * time.Second)
		}
	}

	return nil
}

// formatTweet formats a report change as a tweet
func formatTweet(change report.Change) string {
	var tweet string
	switch change.ChangeType {
	case report.ChangeNew:
		tweet = "🏥 New injury report entry\n\n"
		tweet += fmt.Sprintf("🏀 %s - %s\n", change.Team, change.Player)
		tweet += fmt.Sprintf("📋 Status: %s\n", change.NewStatus)
	case report.ChangeStatus:
		tweet = "🔄 Injury status update\n\n"
		tweet += fmt.Sprintf("🏀 %s - %s\n", change.Team, change.Player)
		tweet += fmt.Sprintf("📋 %s → %s\n", change.OldStatus, change.NewStatus)
	case report.ChangeGone:
		tweet = "✅ Cleared from injury report\n\n"
		tweet += fmt.Sprintf("🏀 %s - %s\n", change.Team, change.Player)
		if change.OldStatus != "" {
			tweet += fmt.Sprintf("📋 Was: %s\n", change.OldStatus)
		}
	}

	tweet += "\n#NBA #InjuryReport"

	// Twitter limit is 280 characters
	if len(tweet) > 280 {
		// Truncate and add ellipsis
		tweet = tweet[:277] + "..."
	}

	return tweet
}
