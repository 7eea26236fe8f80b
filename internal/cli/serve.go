package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ttfl-live/injury-report/internal/pipeline"
	"github.com/ttfl-live/injury-report/internal/server"
	"github.com/ttfl-live/injury-report/internal/storage"
)

var flagPort int

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve extraction results over HTTP",
		RunE:  runServe,
	}
	cmd.Flags().IntVar(&flagPort, "port", 0, "HTTP listen port (overrides PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := pipeline.FromConfig(cfg, store)
	return server.New(cfg, runner).ListenAndServe(ctx)
}
