// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"text/template"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

// AgentSpec describes one templated sub-agent variant: its query set,
// search fan-in, prompt, and output caps. Variants differ only in this
// data; the execution path in specAgent.Run is shared. The per-variant
// caps (8 vs 10 retained sources, 5 vs 6 prompt sources) are kept as
// separate constants because unifying them would silently change
// report content.
type AgentSpec struct {
	// Kind is the agent kind token reported on results.
	Kind string

	// QueryTemplates are fmt.Sprintf patterns with one %s for the
	// target, each run as an independent search.
	QueryTemplates []string

	// ResultsPerQuery is the result count requested per search.
	ResultsPerQuery int

	// SimilarOnURL adds a find-similar call when the target is an
	// http(s) URL.
	SimilarOnURL bool

	// SimilarResults is the result count for the find-similar call.
	SimilarResults int

	// PromptSources caps how many sources are formatted into the
	// analysis prompt.
	PromptSources int

	// SourceCap bounds the sources retained on the AgentResult.
	SourceCap int

	// MaxTokens is the generation budget for the analysis call.
	MaxTokens int

	// Prompt is the variant's analysis template, executed with
	// promptData.
	Prompt *template.Template
}

// DefaultSpecs returns the built-in templated agent variants. Person
// research is not spec-driven: its two-call profile/talking-points
// chain has its own agent type.
func DefaultSpecs() []AgentSpec {
	return []AgentSpec{
		{
			Kind: types.AgentCompanyDiscovery,
			QueryTemplates: []string{
				"%s company profile",
				"%s products services",
				"%s about company overview",
			},
			ResultsPerQuery: 3,
			SimilarOnURL:    true,
			SimilarResults:  3,
			PromptSources:   5,
			SourceCap:       10,
			MaxTokens:       800,
			Prompt:          companyAnalysisTmpl,
		},
		{
			Kind: types.AgentMarketAnalysis,
			QueryTemplates: []string{
				"%s market size analysis",
				"%s industry trends 2024 2025",
				"%s market opportunities growth",
			},
			ResultsPerQuery: 3,
			PromptSources:   5,
			SourceCap:       8,
			MaxTokens:       800,
			Prompt:          marketAnalysisTmpl,
		},
		{
			Kind: types.AgentCompetitorResearch,
			QueryTemplates: []string{
				"%s competitors alternatives",
				"%s vs comparison",
				"%s competitive landscape",
			},
			ResultsPerQuery: 3,
			SimilarOnURL:    true,
			SimilarResults:  5,
			PromptSources:   6,
			SourceCap:       8,
			MaxTokens:       800,
			Prompt:          competitorAnalysisTmpl,
		},
	}
}
