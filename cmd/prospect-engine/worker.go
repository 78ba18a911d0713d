// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prospect-engine/internal/jobstore"
	"github.com/pdiddy/prospect-engine/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the polling research worker",
	Long: `Worker polls the job queue and executes pending research jobs until
interrupted. Job failures are recorded on the job and do not stop the
worker; stop it with Ctrl-C or SIGTERM.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := pipelineConfig()
	if err := requireAPIKeys(cfg); err != nil {
		return err
	}

	store, err := jobstore.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.New(store, newOrchestrator(cfg, log), cfg.Worker, log)
	if err := w.Poll(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("worker stopped")
	return nil
}
