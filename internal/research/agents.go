// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

// Agent is one unit of the research fan-out. Run returns the agent's
// finding or an error; errors are isolated at the fan-out boundary and
// never cancel sibling agents.
type Agent interface {
	Kind() string
	Run(ctx context.Context) (types.AgentResult, error)
}

// specAgent executes a data-driven AgentSpec against the shared search
// and generation handles.
type specAgent struct {
	spec   AgentSpec
	target string
	search SearchProvider
	gen    TextGenerator
	log    *zap.Logger
}

func (a *specAgent) Kind() string { return a.spec.Kind }

// Run executes the spec's queries sequentially, deduplicates the
// accumulated sources, and issues one analysis generation call.
// Individual query failures are logged and skipped; a generation
// failure propagates as the agent's total failure.
func (a *specAgent) Run(ctx context.Context) (types.AgentResult, error) {
	var all []types.SourceRecord

	for _, pattern := range a.spec.QueryTemplates {
		query := fmt.Sprintf(pattern, a.target)
		results, err := a.search.Search(ctx, query, a.spec.ResultsPerQuery)
		if err != nil {
			a.log.Warn("search failed, skipping query",
				zap.String("agent", a.spec.Kind),
				zap.String("query", query),
				zap.Error(err))
			continue
		}
		all = append(all, results...)
	}

	if a.spec.SimilarOnURL && isHTTPURL(a.target) {
		similar, err := a.search.FindSimilar(ctx, a.target, a.spec.SimilarResults)
		if err != nil {
			a.log.Warn("find-similar failed, skipping",
				zap.String("agent", a.spec.Kind),
				zap.Error(err))
		} else {
			all = append(all, similar...)
		}
	}

	unique := Dedupe(all)

	prompt, err := render(a.spec.Prompt, promptData{
		Target:  a.target,
		Sources: formatSources(unique, a.spec.PromptSources),
	})
	if err != nil {
		return types.AgentResult{}, err
	}

	analysis, err := a.gen.Generate(ctx, prompt, a.spec.MaxTokens, defaultTemperature)
	if err != nil {
		return types.AgentResult{}, fmt.Errorf("%s analysis: %w", a.spec.Kind, err)
	}

	a.log.Info("agent complete",
		zap.String("agent", a.spec.Kind),
		zap.Int("sources", len(unique)))

	return types.AgentResult{
		Kind:     a.spec.Kind,
		Analysis: analysis,
		Sources:  capSources(unique, a.spec.SourceCap),
	}, nil
}

// personAgent researches a prospect: a LinkedIn-category search plus a
// recent-news search, then two chained generation calls — profile
// extraction and talking points derived from the profile.
type personAgent struct {
	name     string
	linkedin string
	search   SearchProvider
	gen      TextGenerator
	log      *zap.Logger
}

const personSourceCap = 8

func (a *personAgent) Kind() string { return types.AgentPersonResearch }

func (a *personAgent) Run(ctx context.Context) (types.AgentResult, error) {
	sources, err := a.search.SearchPerson(ctx, a.name, a.linkedin)
	if err != nil {
		return types.AgentResult{}, fmt.Errorf("person search: %w", err)
	}

	recent, err := a.search.Search(ctx, fmt.Sprintf("%s recent news articles", a.name), 3)
	if err != nil {
		a.log.Warn("recent-activity search failed, skipping",
			zap.String("person", a.name),
			zap.Error(err))
	} else {
		sources = append(sources, recent...)
	}

	unique := Dedupe(sources)
	sourcesText := formatSources(unique, 5)

	profilePrompt, err := render(personProfileTmpl, struct {
		PersonName string
		Sources    string
	}{a.name, sourcesText})
	if err != nil {
		return types.AgentResult{}, err
	}

	profile, err := a.gen.Generate(ctx, profilePrompt, 800, defaultTemperature)
	if err != nil {
		return types.AgentResult{}, fmt.Errorf("profile extraction: %w", err)
	}

	pointsPrompt, err := render(talkingPointsTmpl, struct {
		Profile    string
		PersonName string
	}{profile, a.name})
	if err != nil {
		return types.AgentResult{}, err
	}

	points, err := a.gen.Generate(ctx, pointsPrompt, 500, defaultTemperature)
	if err != nil {
		return types.AgentResult{}, fmt.Errorf("talking points: %w", err)
	}

	a.log.Info("agent complete",
		zap.String("agent", types.AgentPersonResearch),
		zap.Int("sources", len(unique)))

	return types.AgentResult{
		Kind:          types.AgentPersonResearch,
		Profile:       profile,
		TalkingPoints: points,
		Sources:       capSources(unique, personSourceCap),
	}, nil
}

// isHTTPURL reports whether the target looks like a website address,
// which unlocks similarity search.
func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// capSources bounds a deduplicated source list. When any record
// carries a relevance score the list is ordered highest-first before
// capping (records without a score sort last, keeping their relative
// order); otherwise insertion order is preserved.
func capSources(sources []types.SourceRecord, cap int) []types.SourceRecord {
	scored := false
	for _, s := range sources {
		if s.RelevanceScore != nil {
			scored = true
			break
		}
	}

	out := sources
	if scored {
		out = make([]types.SourceRecord, len(sources))
		copy(out, sources)
		sort.SliceStable(out, func(i, j int) bool {
			si, sj := out[i].RelevanceScore, out[j].RelevanceScore
			switch {
			case si != nil && sj != nil:
				return *si > *sj
			case si != nil:
				return true
			default:
				return false
			}
		})
	}

	if cap > 0 && len(out) > cap {
		out = out[:cap]
	}
	return out
}
