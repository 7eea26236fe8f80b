package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ttfl-live/injury-report/internal/logger"
	"github.com/ttfl-live/injury-report/internal/notifier"
	"github.com/ttfl-live/injury-report/internal/pipeline"
	"github.com/ttfl-live/injury-report/internal/report"
	"github.com/ttfl-live/injury-report/internal/storage"
)

var (
	flagInterval time.Duration
	flagTweet    bool
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for report changes on an interval",
		Long: `Runs the extraction on an interval and reports player status changes
between consecutive reports. With --tweet, changes are posted to Twitter;
otherwise they are printed as dry-run tweets.`,
		RunE: runWatch,
	}
	cmd.Flags().DurationVar(&flagInterval, "interval", 15*time.Minute, "Poll interval")
	cmd.Flags().BoolVar(&flagTweet, "tweet", false, "Post changes to Twitter (requires TWITTER_* credentials)")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	var notify notifier.Notifier
	if flagTweet {
		notify, err = notifier.NewTwitterNotifier()
		if err != nil {
			return fmt.Errorf("initializing Twitter notifier: %w", err)
		}
	} else {
		notify = notifier.NewDryRunNotifier()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := pipeline.FromConfig(cfg, store)

	logger.Info("watching for report changes", logger.Fields{
		"interval": flagInterval.String(),
	})

	ticker := time.NewTicker(flagInterval)
	defer ticker.Stop()

	// First poll runs immediately, then on every tick.
	previous, _ := store.LoadLastResult()
	previous = pollOnce(ctx, runner, notify, previous)
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped", nil)
			return nil
		case <-ticker.C:
			previous = pollOnce(ctx, runner, notify, previous)
		}
	}
}

// pollOnce runs the pipeline and notifies about changes against the
// previous successful result. Failed runs keep the previous baseline so
// a transient outage does not replay every row as new.
func pollOnce(ctx context.Context, runner pipeline.Runner, notify notifier.Notifier, previous *report.Result) *report.Result {
	result := runner.Run(ctx)
	if !result.OK {
		logger.Warn("extraction failed", logger.Fields{
			"step":  string(result.Error.Step),
			"error": result.Error.Message,
		})
		return previous
	}

	if previous != nil {
		changes := report.Diff(previous.Rows, result.Rows)
		if len(changes) > 0 {
			logger.Info("report changed", logger.Fields{"changes": len(changes)})
			if err := notify.Notify(changes); err != nil {
				logger.Error("notifying changes", nil, err)
			}
		}
	}
	return result
}
