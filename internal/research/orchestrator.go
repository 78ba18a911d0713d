// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

// decompositionFallback replaces the lead-agent breakdown when the
// decomposition call fails. Decomposition output is informational only
// and never blocks the pipeline.
const decompositionFallback = "Standard research approach"

// noFindingsText is the synthesis stand-in when no agent produced any
// finding (for example a person-research-only job without a person).
const noFindingsText = "No research findings were collected: no agents were eligible to run or all agents failed."

// Orchestrator drives the research pipeline. It takes its collaborators
// at construction time and holds no global state; one orchestrator can
// serve many jobs, one pipeline execution per Run call.
type Orchestrator struct {
	search SearchProvider
	gen    TextGenerator
	specs  []AgentSpec
	cfg    types.OrchestratorConfig
	log    *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger. Defaults to zap.NewNop.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithSpecs replaces the built-in templated agent variants.
func WithSpecs(specs []AgentSpec) Option {
	return func(o *Orchestrator) { o.specs = specs }
}

// WithConfig sets pipeline tuning knobs.
func WithConfig(cfg types.OrchestratorConfig) Option {
	return func(o *Orchestrator) { o.cfg = cfg }
}

// New builds an Orchestrator around the given search and generation
// handles.
func New(search SearchProvider, gen TextGenerator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		search: search,
		gen:    gen,
		specs:  DefaultSpecs(),
		cfg: types.OrchestratorConfig{
			MaxFollowUps:    3,
			FollowUpResults: 2,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg.MaxFollowUps <= 0 {
		o.cfg.MaxFollowUps = 3
	}
	if o.cfg.FollowUpResults <= 0 {
		o.cfg.FollowUpResults = 2
	}
	return o
}

// Run executes the full pipeline for one job: decompose → concurrent
// sub-agents → feedback loop → synthesis → report. Per-agent and
// per-stage failures degrade gracefully; Run itself fails only when
// the context is cancelled or an unexpected error escapes the inner
// guards, and then always as an *OrchestrationError.
func (o *Orchestrator) Run(ctx context.Context, job *types.ResearchJob) (*types.PipelineResult, error) {
	start := time.Now()
	o.log.Info("starting research pipeline",
		zap.String("job_id", job.ID),
		zap.String("target", job.Target))

	decomposition := o.decompose(ctx, job)

	agents := o.selectAgents(job)
	results := o.runAgents(ctx, agents)

	if fu := o.feedbackLoop(ctx, job.Target, results); fu != nil {
		results = append(results, *fu)
	}

	if err := ctx.Err(); err != nil {
		return nil, &OrchestrationError{Message: "pipeline cancelled", Cause: err}
	}

	// Per-agent dedup only guarantees uniqueness within one agent; the
	// union across agents is deduplicated again here and is the count
	// the job record carries.
	var combined []types.SourceRecord
	for _, r := range results {
		combined = append(combined, r.Sources...)
	}
	allSources := Dedupe(combined)

	synthesis := o.synthesize(ctx, job.Target, results, len(allSources))

	meta := types.RunMetadata{
		Decomposition: decomposition,
		Agents:        agentRuns(results),
		ExecutionTime: time.Since(start),
		Timestamp:     time.Now().UTC(),
	}

	report := BuildReport(job.Target, synthesis, allSources, meta)

	o.log.Info("research pipeline complete",
		zap.String("job_id", job.ID),
		zap.Int("sources", len(allSources)),
		zap.Duration("elapsed", meta.ExecutionTime))

	return &types.PipelineResult{
		Report:       report,
		TotalSources: len(allSources),
		Metadata:     meta,
	}, nil
}

// decompose issues the lead-agent delegation call. Failure is absorbed
// with a fixed fallback.
func (o *Orchestrator) decompose(ctx context.Context, job *types.ResearchJob) string {
	additional := job.AdditionalContext
	if additional == "" {
		additional = "None"
	}

	prompt, err := render(delegationTmpl, struct {
		Target            string
		EnabledAgents     string
		AdditionalContext string
	}{job.Target, strings.Join(job.EnabledAgents, ", "), additional})
	if err != nil {
		o.log.Warn("decomposition skipped", zap.Error(err))
		return decompositionFallback
	}

	resp, err := o.gen.Generate(ctx, prompt, 500, defaultTemperature)
	if err != nil {
		o.log.Warn("task decomposition failed, using fallback", zap.Error(err))
		return decompositionFallback
	}
	return resp
}

// selectAgents builds the fan-out list for a job in a fixed order.
// Company discovery is default-included when no agents are enabled;
// person research requires a person name even when requested.
func (o *Orchestrator) selectAgents(job *types.ResearchJob) []Agent {
	enabled := make(map[string]bool, len(job.EnabledAgents))
	for _, kind := range job.EnabledAgents {
		enabled[kind] = true
	}

	var agents []Agent
	for _, spec := range o.specs {
		if spec.Kind == types.AgentCompanyDiscovery {
			if !enabled[spec.Kind] && len(job.EnabledAgents) > 0 {
				continue
			}
		} else if !enabled[spec.Kind] {
			continue
		}
		agents = append(agents, &specAgent{
			spec:   spec,
			target: job.Target,
			search: o.search,
			gen:    o.gen,
			log:    o.log,
		})
	}

	if enabled[types.AgentPersonResearch] {
		if job.PersonName == "" {
			o.log.Info("person research enabled but no person name set, skipping")
		} else {
			agents = append(agents, &personAgent{
				name:     job.PersonName,
				linkedin: job.PersonLinkedIn,
				search:   o.search,
				gen:      o.gen,
				log:      o.log,
			})
		}
	}

	return agents
}

// runAgents executes all selected agents concurrently. Each goroutine
// writes only its own slot, so the kind→result association is held by
// position regardless of completion order, and a failed agent is
// recorded in place without cancelling its siblings.
func (o *Orchestrator) runAgents(ctx context.Context, agents []Agent) []types.AgentResult {
	results := make([]types.AgentResult, len(agents))
	var wg sync.WaitGroup
	for i, ag := range agents {
		wg.Add(1)
		go func(i int, ag Agent) {
			defer wg.Done()
			res, err := ag.Run(ctx)
			if err != nil {
				o.log.Error("agent failed",
					zap.String("agent", ag.Kind()),
					zap.Error(err))
				results[i] = types.AgentResult{Kind: ag.Kind(), Err: err.Error()}
				return
			}
			results[i] = res
		}(i, ag)
	}
	wg.Wait()
	return results
}

// synthesize merges all findings into one narrative. A generation
// failure falls back to the raw concatenated findings; an empty result
// set falls back to a fixed no-findings note.
func (o *Orchestrator) synthesize(ctx context.Context, target string, results []types.AgentResult, totalSources int) string {
	var parts []string
	for _, r := range results {
		if r.Analysis != "" {
			parts = append(parts, fmt.Sprintf("## %s\n%s\n", headingForKind(r.Kind), r.Analysis))
		}
		if r.Profile != "" {
			parts = append(parts, fmt.Sprintf("## Person Profile\n%s\n", r.Profile))
		}
		if r.TalkingPoints != "" {
			parts = append(parts, fmt.Sprintf("## Talking Points\n%s\n", r.TalkingPoints))
		}
	}

	if len(parts) == 0 {
		return noFindingsText
	}
	findings := strings.Join(parts, "\n")

	prompt, err := render(synthesisTmpl, struct {
		Target       string
		Findings     string
		TotalSources int
		NumAgents    int
	}{target, findings, totalSources, len(results)})
	if err != nil {
		o.log.Warn("synthesis skipped, returning raw findings", zap.Error(err))
		return findings
	}

	synthesis, err := o.gen.Generate(ctx, prompt, 1500, defaultTemperature)
	if err != nil {
		o.log.Warn("synthesis failed, returning raw findings", zap.Error(err))
		return findings
	}
	return synthesis
}

// agentRuns projects results into run metadata, preserving order and
// per-agent errors.
func agentRuns(results []types.AgentResult) []types.AgentRun {
	runs := make([]types.AgentRun, len(results))
	for i, r := range results {
		runs[i] = types.AgentRun{Kind: r.Kind, Error: r.Err}
	}
	return runs
}

// headingForKind turns an agent kind token into a report heading
// ("company_discovery" → "Company Discovery").
func headingForKind(kind string) string {
	words := strings.Split(kind, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
