// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "prospect-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the Exa search adapter.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the Exa API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxSnippetChars bounds the text snippet requested per result
	// (default 1000).
	MaxSnippetChars int `json:"max_snippet_chars" yaml:"max_snippet_chars"`

	// MaxRetries bounds transport-level retries on 429/5xx responses
	// (default 3). This is adapter plumbing, not pipeline retry.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AIConfig holds settings for the Cerebras text-generation adapter.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the Cerebras model identifier
	// (e.g. "llama-4-scout-17b-16e-instruct").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the Cerebras API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the default sampling temperature (default 0.2).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxRetries bounds transport-level retries on 429/5xx responses
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// OrchestratorConfig holds pipeline-level tuning knobs.
type OrchestratorConfig struct {
	// MaxFollowUps caps follow-up queries parsed from the gap-analysis
	// response (default 3).
	MaxFollowUps int `json:"max_follow_ups" yaml:"max_follow_ups"`

	// FollowUpResults is the number of results requested per follow-up
	// search (default 2).
	FollowUpResults int `json:"follow_up_results" yaml:"follow_up_results"`
}

// StoreConfig holds settings for the SQLite job store.
type StoreConfig struct {
	// Path is the SQLite database file (default "data/prospect.db").
	Path string `json:"path" yaml:"path"`
}

// WorkerConfig holds settings for the polling worker.
type WorkerConfig struct {
	// PollInterval is the delay between pending-job polls (default 5s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Search       SearchConfig       `json:"search" yaml:"search"`
	AI           AIConfig           `json:"ai" yaml:"ai"`
	Orchestrator OrchestratorConfig `json:"orchestrator" yaml:"orchestrator"`
	Store        StoreConfig        `json:"store" yaml:"store"`
	Worker       WorkerConfig       `json:"worker" yaml:"worker"`
}
