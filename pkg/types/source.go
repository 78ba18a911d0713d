// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceRecord is one piece of retrieved evidence from the search
// provider. URL is the identity key: aggregation steps deduplicate by
// URL alone, first occurrence wins.
type SourceRecord struct {
	Title string `json:"title" yaml:"title"`

	// URL identifies the source. Records without a URL are treated as
	// noise and dropped during deduplication.
	URL string `json:"url" yaml:"url"`

	// Content is a text snippet, truncated when formatted into prompts.
	Content string `json:"content" yaml:"content"`

	// RelevanceScore is the provider's ranking score, when present.
	RelevanceScore *float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`
}

// AgentResult is the output of one sub-agent invocation.
type AgentResult struct {
	// Kind tags which agent produced the result (company_discovery,
	// person_research, market_analysis, competitor_research, or the
	// feedback loop's follow_up).
	Kind string `json:"kind" yaml:"kind"`

	// Analysis is the agent's generated finding. Person research uses
	// Profile and TalkingPoints instead.
	Analysis string `json:"analysis,omitempty" yaml:"analysis,omitempty"`

	// Profile is the person-research profile extraction.
	Profile string `json:"profile,omitempty" yaml:"profile,omitempty"`

	// TalkingPoints is the person-research conversation-starter text,
	// generated in a second call chained off Profile.
	TalkingPoints string `json:"talking_points,omitempty" yaml:"talking_points,omitempty"`

	// Sources is the deduplicated, capped evidence behind the finding.
	Sources []SourceRecord `json:"sources" yaml:"sources"`

	// Err records a total agent failure. A failed agent contributes an
	// empty result rather than aborting the pipeline.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// FindingText returns the agent's primary text output: Analysis, or
// Profile for the person-research variant. Empty for failed agents.
func (r AgentResult) FindingText() string {
	if r.Analysis != "" {
		return r.Analysis
	}
	return r.Profile
}
