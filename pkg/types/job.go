// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the prospect-engine
// pipeline: research jobs, retrieved sources, agent results, and the
// final pipeline output.
package types

import "time"

// JobStatus is the lifecycle state of a research job.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether the status is a final state. Terminal
// jobs are never transitioned again.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether a job may move from s to next.
// Valid transitions are pending→processing and processing→completed
// or processing→failed; a status never regresses.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// Agent kind tokens accepted in ResearchJob.EnabledAgents.
const (
	AgentCompanyDiscovery   = "company_discovery"
	AgentPersonResearch     = "person_research"
	AgentMarketAnalysis     = "market_analysis"
	AgentCompetitorResearch = "competitor_research"

	// AgentFollowUp tags the pseudo-result produced by the feedback
	// loop. It is never a valid value for EnabledAgents.
	AgentFollowUp = "follow_up"
)

// ResearchJob is one unit of research work. Jobs are created in
// "pending", claimed by a worker that moves them to "processing", and
// finished as "completed" (with Results and TotalSources) or "failed"
// (with ErrorMessage).
type ResearchJob struct {
	// ID is the externally assigned job identifier.
	ID string `json:"id" yaml:"id"`

	// OwnerID identifies the user that submitted the job.
	OwnerID string `json:"owner_id" yaml:"owner_id"`

	// Target is a free-text company or prospect identifier. It may be
	// a website URL, which unlocks similarity search in some agents.
	Target string `json:"target" yaml:"target"`

	// EnabledAgents lists the agent kinds to run. Company discovery is
	// included by default when the list is empty.
	EnabledAgents []string `json:"enabled_agents" yaml:"enabled_agents"`

	// PersonName is the prospect to research. Person research only
	// runs when this is set, even if the kind is enabled.
	PersonName string `json:"person_name,omitempty" yaml:"person_name,omitempty"`

	// PersonLinkedIn is an optional LinkedIn profile URL for the prospect.
	PersonLinkedIn string `json:"person_linkedin,omitempty" yaml:"person_linkedin,omitempty"`

	// AdditionalContext is optional free text forwarded to the agents.
	AdditionalContext string `json:"additional_context,omitempty" yaml:"additional_context,omitempty"`

	Status JobStatus `json:"status" yaml:"status"`

	// Results is the formatted markdown report, set on completion.
	Results string `json:"results,omitempty" yaml:"results,omitempty"`

	// TotalSources is the deduplicated source count behind Results.
	TotalSources int `json:"total_sources" yaml:"total_sources"`

	// ErrorMessage explains a failed job.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}
