// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package worker executes research jobs against the job store: it
// claims pending jobs, runs the research pipeline, and persists the
// outcome. A polling loop turns it into a long-running daemon.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/prospect-engine/internal/jobstore"
	"github.com/pdiddy/prospect-engine/pkg/types"
)

// JobStore is the persistence surface the worker needs. The SQLite
// store in internal/jobstore satisfies it.
type JobStore interface {
	Get(ctx context.Context, id string) (*types.ResearchJob, error)
	NextPending(ctx context.Context) (*types.ResearchJob, error)
	SetStatus(ctx context.Context, id string, to types.JobStatus) error
	MarkCompleted(ctx context.Context, id, report string, totalSources int) error
	MarkFailed(ctx context.Context, id, message string) error
}

// Runner executes the research pipeline for one job.
type Runner interface {
	Run(ctx context.Context, job *types.ResearchJob) (*types.PipelineResult, error)
}

// Worker drives research jobs through their lifecycle.
type Worker struct {
	store  JobStore
	runner Runner
	cfg    types.WorkerConfig
	log    *zap.Logger
}

// New builds a Worker. A nil logger falls back to zap.NewNop, and a
// non-positive poll interval defaults to five seconds.
func New(store JobStore, runner Runner, cfg types.WorkerConfig, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &Worker{store: store, runner: runner, cfg: cfg, log: log}
}

// Execute runs the full lifecycle for one job: fetch, claim, validate,
// run the pipeline, persist the outcome. Pipeline failures are
// recorded on the job; a failure to persist the outcome is the one
// case that cannot be recorded anywhere and is only logged and
// returned.
func (w *Worker) Execute(ctx context.Context, jobID string) error {
	start := time.Now()
	w.log.Info("starting job execution", zap.String("job_id", jobID))

	job, err := w.store.Get(ctx, jobID)
	if err != nil {
		return fmt.Errorf("fetching job: %w", err)
	}

	switch {
	case job.Status.IsTerminal():
		w.log.Warn("job already finished, skipping",
			zap.String("job_id", jobID),
			zap.String("status", string(job.Status)))
		return nil
	case job.Status == types.StatusProcessing:
		// Another run claimed it but never finished; pick it up.
		w.log.Info("job already processing, continuing", zap.String("job_id", jobID))
	default:
		if err := w.store.SetStatus(ctx, jobID, types.StatusProcessing); err != nil {
			if errors.Is(err, jobstore.ErrInvalidTransition) {
				w.log.Info("job claimed elsewhere, skipping", zap.String("job_id", jobID))
				return nil
			}
			return fmt.Errorf("claiming job: %w", err)
		}
	}

	// Validation happens after the claim so a bad job can be marked
	// failed within the lifecycle rules.
	if err := validateJob(job); err != nil {
		w.log.Error("job validation failed", zap.String("job_id", jobID), zap.Error(err))
		if markErr := w.store.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
			w.log.Error("could not record validation failure",
				zap.String("job_id", jobID), zap.Error(markErr))
		}
		return err
	}

	result, err := w.runner.Run(ctx, job)
	if err != nil {
		w.log.Error("pipeline failed", zap.String("job_id", jobID), zap.Error(err))
		if markErr := w.store.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
			w.log.Error("could not record pipeline failure",
				zap.String("job_id", jobID), zap.Error(markErr))
			return markErr
		}
		return err
	}

	if err := w.store.MarkCompleted(ctx, jobID, result.Report, result.TotalSources); err != nil {
		w.log.Error("could not persist results",
			zap.String("job_id", jobID), zap.Error(err))
		return fmt.Errorf("saving results: %w", err)
	}

	w.log.Info("job completed",
		zap.String("job_id", jobID),
		zap.Int("sources", result.TotalSources),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Poll claims and executes pending jobs until the context is
// cancelled, sleeping cfg.PollInterval between empty polls. Job
// failures are recorded on the job and do not stop the loop.
func (w *Worker) Poll(ctx context.Context) error {
	w.log.Info("worker polling", zap.Duration("interval", w.cfg.PollInterval))
	for {
		job, err := w.store.NextPending(ctx)
		switch {
		case errors.Is(err, jobstore.ErrNotFound):
			if err := sleep(ctx, w.cfg.PollInterval); err != nil {
				return err
			}
			continue
		case err != nil:
			w.log.Error("polling job store failed", zap.Error(err))
			if err := sleep(ctx, w.cfg.PollInterval); err != nil {
				return err
			}
			continue
		}

		if err := w.Execute(ctx, job.ID); err != nil {
			w.log.Error("job execution failed",
				zap.String("job_id", job.ID), zap.Error(err))
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// validateJob checks the fields a job needs before it can run.
// EnabledAgents may be empty; company discovery runs by default.
func validateJob(job *types.ResearchJob) error {
	if job.OwnerID == "" {
		return errors.New("missing required field: owner_id")
	}
	if job.Target == "" {
		return errors.New("missing required field: target")
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
