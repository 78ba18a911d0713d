// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

// feedbackLoop reviews the aggregated findings for gaps and runs up to
// cfg.MaxFollowUps targeted follow-up searches. It returns a follow_up
// pseudo-agent result, or nil when the reviewer is satisfied, no
// follow-up sources were found, or any stage inside the loop failed —
// the whole stage degrades to "contributes nothing" rather than
// failing the pipeline.
func (o *Orchestrator) feedbackLoop(ctx context.Context, target string, results []types.AgentResult) *types.AgentResult {
	var parts []string
	for _, r := range results {
		if text := r.FindingText(); text != "" {
			parts = append(parts, fmt.Sprintf("**%s:**\n%s\n", strings.ToUpper(r.Kind), text))
		}
	}
	if len(parts) == 0 {
		o.log.Info("feedback loop skipped: no findings to review")
		return nil
	}

	prompt, err := render(feedbackTmpl, struct{ Findings string }{strings.Join(parts, "\n")})
	if err != nil {
		o.log.Warn("feedback loop skipped", zap.Error(err))
		return nil
	}

	gaps, err := o.gen.Generate(ctx, prompt, 300, defaultTemperature)
	if err != nil {
		o.log.Warn("gap analysis failed, skipping feedback loop", zap.Error(err))
		return nil
	}

	if strings.TrimSpace(gaps) == "" || strings.Contains(strings.ToUpper(gaps), "NONE") {
		o.log.Info("feedback loop: no gaps identified")
		return nil
	}

	queries := parseFollowUpQueries(gaps, o.cfg.MaxFollowUps)

	var sources []types.SourceRecord
	for _, q := range queries {
		results, err := o.search.Search(ctx, q, o.cfg.FollowUpResults)
		if err != nil {
			o.log.Warn("follow-up search failed, skipping query",
				zap.String("query", q),
				zap.Error(err))
			continue
		}
		sources = append(sources, results...)
	}

	if len(sources) == 0 {
		return nil
	}

	unique := Dedupe(sources)

	analysisPrompt := fmt.Sprintf(
		"Based on these additional sources about %s, provide key insights:\n\n%s",
		target, formatSources(unique, 4))

	analysis, err := o.gen.Generate(ctx, analysisPrompt, 400, defaultTemperature)
	if err != nil {
		o.log.Warn("follow-up analysis failed, skipping feedback loop", zap.Error(err))
		return nil
	}

	o.log.Info("feedback loop complete",
		zap.Int("queries", len(queries)),
		zap.Int("sources", len(unique)))

	return &types.AgentResult{
		Kind:     types.AgentFollowUp,
		Analysis: analysis,
		Sources:  unique,
	}
}

// parseFollowUpQueries extracts candidate search queries from a
// free-form gap-analysis response, at most max of them.
//
// The heuristic is deliberately best-effort; it sits on the LLM
// boundary where no parsing contract exists. Edge cases:
//   - empty response → nil
//   - lines of 10 characters or fewer (measured before markup
//     stripping) are dropped
//   - leading/trailing list markup ("- ", "1. ", ...) is stripped
//     after the length check, so a line that is all markup yields
//     nothing
//   - responses with more than max usable lines are truncated
func parseFollowUpQueries(response string, max int) []string {
	var queries []string
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= 10 {
			continue
		}
		q := strings.Trim(trimmed, "- ")
		q = strings.Trim(q, "1234567890. ")
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		queries = append(queries, q)
		if len(queries) == max {
			break
		}
	}
	return queries
}
