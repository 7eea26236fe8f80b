package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/ttfl-live/injury-report/internal/notifier"
	"github.com/ttfl-live/injury-report/internal/report"
)

var (
	changesFile = flag.String("changes-file", "", "Path to changes JSON file (or read from stdin)")
	dryRun      = flag.Bool("dry-run", false, "Print tweets without posting")
	maxTweets   = flag.Int("max-tweets", 10, "Maximum number of tweets to post")
	teamFilter  = flag.String("team", "", "Only tweet changes for this team")
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	// Read changes from file or stdin
	var reader io.Reader
	if *changesFile != "" {
		f, err := os.Open(*changesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening changes file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		reader = f
	} else {
		reader = os.Stdin
	}

	// Parse JSON: the `fetch --diff --format json` envelope
	var result struct {
		Changes []report.Change `json:"changes"`
	}

	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&result); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing JSON: %v\n", err)
		os.Exit(1)
	}

	if len(result.Changes) == 0 {
		fmt.Println("No changes to tweet")
		os.Exit(0)
	}

	// Filter changes by team if specified
	changes := result.Changes
	if *teamFilter != "" {
		filtered := make([]report.Change, 0)
		for _, change := range changes {
			if change.Team == *teamFilter {
				filtered = append(filtered, change)
			}
		}
		changes = filtered
	}

	// Limit number of tweets
	if len(changes) > *maxTweets {
		changes = changes[:*maxTweets]
	}

	if len(changes) == 0 {
		fmt.Println("No changes match criteria")
		os.Exit(0)
	}

	// Initialize Twitter client
	var tw notifier.Notifier
	if *dryRun {
		tw = notifier.NewDryRunNotifier()
		fmt.Printf("DRY RUN MODE - Would tweet %d changes:\n\n", len(changes))
	} else {
		client, err := notifier.NewTwitterNotifier()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing Twitter client: %v\n", err)
			os.Exit(1)
		}
		tw = client
	}

	// Post tweets
	if err := tw.Notify(changes); err != nil {
		fmt.Fprintf(os.Stderr, "Error posting tweets: %v\n", err)
		os.Exit(1)
	}

	if !*dryRun {
		fmt.Printf("Successfully posted %d tweets\n", len(changes))
	}
}
