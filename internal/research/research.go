// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research implements the multi-agent research pipeline: task
// decomposition, concurrent sub-agent execution, a gap-analysis
// feedback loop, synthesis, and report assembly.
//
// The pipeline degrades gracefully by design: individual search
// failures are logged and skipped, a failed agent contributes an empty
// result instead of aborting its siblings, and the decomposition,
// feedback, and synthesis stages all fall back rather than fail. Only
// an unexpected escape (such as a cancelled context) surfaces as an
// OrchestrationError.
package research

import (
	"context"
	"fmt"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

// SearchProvider issues web searches and similarity searches. It must
// be safe for concurrent use; agents share one handle.
type SearchProvider interface {
	Search(ctx context.Context, query string, numResults int) ([]types.SourceRecord, error)
	FindSimilar(ctx context.Context, pageURL string, numResults int) ([]types.SourceRecord, error)
	SearchPerson(ctx context.Context, name, linkedinURL string) ([]types.SourceRecord, error)
}

// TextGenerator produces text for a prompt. It must be safe for
// concurrent use.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// defaultTemperature keeps generation near-deterministic across the
// pipeline's analysis and synthesis calls.
const defaultTemperature = 0.2

// OrchestrationError is the single error kind the pipeline raises to
// its caller. The worker only needs success or failure plus a message
// to update the job record, so no structured sub-kinds cross this
// boundary.
type OrchestrationError struct {
	Message string
	Cause   error
}

func (e *OrchestrationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("research orchestration failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("research orchestration failed: %s", e.Message)
}

func (e *OrchestrationError) Unwrap() error { return e.Cause }
