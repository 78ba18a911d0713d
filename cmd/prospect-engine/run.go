// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/prospect-engine/internal/cerebras"
	"github.com/pdiddy/prospect-engine/internal/exa"
	"github.com/pdiddy/prospect-engine/internal/jobstore"
	"github.com/pdiddy/prospect-engine/internal/research"
	"github.com/pdiddy/prospect-engine/internal/worker"
	"github.com/pdiddy/prospect-engine/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [job-id]",
	Short: "Execute one queued research job now",
	Long: `Run executes a single job from the queue immediately, without a
polling worker. The job moves through the normal lifecycle: it is claimed,
the research pipeline runs, and results or a failure are persisted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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
	if err := w.Execute(ctx, args[0]); err != nil {
		return err
	}

	job, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Job %s %s (%d sources)\n", job.ID, job.Status, job.TotalSources)
	return nil
}

// newOrchestrator wires the research pipeline from configuration.
func newOrchestrator(cfg types.PipelineConfig, log *zap.Logger) *research.Orchestrator {
	return research.New(
		exa.NewClient(cfg.Search),
		cerebras.NewClient(cfg.AI),
		research.WithConfig(cfg.Orchestrator),
		research.WithLogger(log),
	)
}

// requireAPIKeys fails fast when the pipeline cannot reach its
// upstream services.
func requireAPIKeys(cfg types.PipelineConfig) error {
	if cfg.Search.APIKey == "" {
		return fmt.Errorf("missing Exa API key: set .secrets/exa-api-key or search.api_key")
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("missing Cerebras API key: set .secrets/cerebras-api-key or ai.api_key")
	}
	return nil
}
