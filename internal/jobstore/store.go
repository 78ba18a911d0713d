// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jobstore persists research jobs in a SQLite database. It is
// the durable hand-off point between job submission and the worker:
// submitters insert pending jobs, the worker claims and finishes them.
package jobstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

// ErrNotFound is returned when no job exists for the given ID.
var ErrNotFound = errors.New("job not found")

// ErrInvalidTransition is returned when a status update would violate
// the job lifecycle (for example completing a job that never started).
var ErrInvalidTransition = errors.New("invalid status transition")

// Store manages the research job SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the job database at cfg.Path, creating
// parent directories and the schema as needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			target TEXT NOT NULL,
			enabled_agents TEXT NOT NULL DEFAULT '[]',
			person_name TEXT NOT NULL DEFAULT '',
			person_linkedin TEXT NOT NULL DEFAULT '',
			additional_context TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			results TEXT NOT NULL DEFAULT '',
			total_sources INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			completed_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_owner ON jobs(owner_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Create inserts a new job. Missing status and timestamps are filled
// in: new jobs start pending, stamped with the current time.
func (s *Store) Create(ctx context.Context, job *types.ResearchJob) error {
	if job.ID == "" {
		return errors.New("job ID is required")
	}
	if job.Status == "" {
		job.Status = types.StatusPending
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = now
	}

	agentsJSON, err := json.Marshal(job.EnabledAgents)
	if err != nil {
		return fmt.Errorf("encoding enabled agents: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, owner_id, target, enabled_agents, person_name,
			person_linkedin, additional_context, status, results, total_sources,
			error_message, created_at, updated_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.OwnerID, job.Target, string(agentsJSON), job.PersonName,
		job.PersonLinkedIn, job.AdditionalContext, string(job.Status),
		job.Results, job.TotalSources, job.ErrorMessage,
		formatTime(job.CreatedAt), formatTime(job.UpdatedAt), formatTimePtr(job.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

const jobColumns = `id, owner_id, target, enabled_agents, person_name,
	person_linkedin, additional_context, status, results, total_sources,
	error_message, created_at, updated_at, completed_at`

// Get returns the job with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*types.ResearchJob, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading job %s: %w", id, err)
	}
	return job, nil
}

// List returns jobs for an owner, newest first. An empty ownerID lists
// all jobs. A non-positive limit means no limit.
func (s *Store) List(ctx context.Context, ownerID string, limit int) ([]*types.ResearchJob, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var args []any
	if ownerID != "" {
		query += ` WHERE owner_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*types.ResearchJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// NextPending returns the oldest pending job, or ErrNotFound when the
// queue is empty.
func (s *Store) NextPending(ctx context.Context) (*types.ResearchJob, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = ? ORDER BY created_at LIMIT 1`,
		string(types.StatusPending))
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading pending job: %w", err)
	}
	return job, nil
}

// SetStatus moves a job to a new status. The lifecycle is enforced at
// the SQL level: the update only lands when the stored status still
// permits the transition, so concurrent claimants cannot both win.
func (s *Store) SetStatus(ctx context.Context, id string, to types.JobStatus) error {
	froms := validSourceStatuses(to)
	if len(froms) == 0 {
		return fmt.Errorf("no status may transition to %q: %w", to, ErrInvalidTransition)
	}

	query := `UPDATE jobs SET status = ?, updated_at = ? WHERE id = ? AND status IN (?` +
		repeatPlaceholder(len(froms)-1) + `)`
	args := []any{string(to), formatTime(time.Now().UTC()), id}
	for _, f := range froms {
		args = append(args, string(f))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating job status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking status update: %w", err)
	}
	if n == 0 {
		// Distinguish a missing job from a lost race or bad transition.
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("job %s cannot move to %q: %w", id, to, ErrInvalidTransition)
	}
	return nil
}

// MarkCompleted stores the finished report and moves the job to
// completed in one update.
func (s *Store) MarkCompleted(ctx context.Context, id, report string, totalSources int) error {
	now := formatTime(time.Now().UTC())
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, results = ?, total_sources = ?,
			error_message = '', updated_at = ?, completed_at = ?
		 WHERE id = ? AND status = ?`,
		string(types.StatusCompleted), report, totalSources, now, now,
		id, string(types.StatusProcessing))
	if err != nil {
		return fmt.Errorf("completing job: %w", err)
	}
	return s.checkAffected(ctx, res, id, types.StatusCompleted)
}

// MarkFailed records the failure message and moves the job to failed.
func (s *Store) MarkFailed(ctx context.Context, id, message string) error {
	now := formatTime(time.Now().UTC())
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error_message = ?, updated_at = ?, completed_at = ?
		 WHERE id = ? AND status = ?`,
		string(types.StatusFailed), message, now, now,
		id, string(types.StatusProcessing))
	if err != nil {
		return fmt.Errorf("failing job: %w", err)
	}
	return s.checkAffected(ctx, res, id, types.StatusFailed)
}

func (s *Store) checkAffected(ctx context.Context, res sql.Result, id string, to types.JobStatus) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if n == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("job %s cannot move to %q: %w", id, to, ErrInvalidTransition)
	}
	return nil
}

// validSourceStatuses lists the statuses allowed to move to the given
// target, derived from the lifecycle rules on JobStatus.
func validSourceStatuses(to types.JobStatus) []types.JobStatus {
	all := []types.JobStatus{
		types.StatusPending, types.StatusProcessing,
		types.StatusCompleted, types.StatusFailed,
	}
	var froms []types.JobStatus
	for _, from := range all {
		if from.CanTransitionTo(to) {
			froms = append(froms, from)
		}
	}
	return froms
}

func repeatPlaceholder(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*types.ResearchJob, error) {
	var (
		job         types.ResearchJob
		agentsJSON  string
		status      string
		createdAt   string
		updatedAt   string
		completedAt sql.NullString
	)
	err := row.Scan(&job.ID, &job.OwnerID, &job.Target, &agentsJSON,
		&job.PersonName, &job.PersonLinkedIn, &job.AdditionalContext,
		&status, &job.Results, &job.TotalSources, &job.ErrorMessage,
		&createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(agentsJSON), &job.EnabledAgents); err != nil {
		return nil, fmt.Errorf("decoding enabled agents: %w", err)
	}
	job.Status = types.JobStatus(status)

	if job.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if job.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if completedAt.Valid && completedAt.String != "" {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing completed_at: %w", err)
		}
		job.CompletedAt = &t
	}
	return &job, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
