// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AgentRun records one agent's participation in a pipeline execution.
type AgentRun struct {
	// Kind is the agent kind token.
	Kind string `json:"kind" yaml:"kind"`

	// Error is set when the agent failed; the pipeline completed
	// without its contribution.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunMetadata describes one pipeline execution.
type RunMetadata struct {
	// Decomposition is the lead-agent task breakdown, or the fixed
	// fallback text when decomposition failed.
	Decomposition string `json:"decomposition" yaml:"decomposition"`

	// Agents lists every agent that ran, in selection order, with
	// per-agent errors recorded.
	Agents []AgentRun `json:"agents" yaml:"agents"`

	// ExecutionTime is the wall-clock duration of the pipeline.
	ExecutionTime time.Duration `json:"execution_time" yaml:"execution_time"`

	// Timestamp is when the pipeline finished, in UTC.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// PipelineResult is the orchestrator's terminal output.
type PipelineResult struct {
	// Report is the formatted markdown report. Always non-empty.
	Report string `json:"report" yaml:"report"`

	// TotalSources is the size of the deduplicated union of all agent
	// sources, including the follow-up contribution when present.
	TotalSources int `json:"total_sources" yaml:"total_sources"`

	Metadata RunMetadata `json:"metadata" yaml:"metadata"`
}
