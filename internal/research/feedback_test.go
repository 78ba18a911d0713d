// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"testing"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

func TestParseFollowUpQueries(t *testing.T) {
	tests := []struct {
		name     string
		response string
		max      int
		want     []string
	}{
		{
			name:     "empty response",
			response: "",
			max:      3,
			want:     nil,
		},
		{
			name:     "short lines dropped",
			response: "short\nAcme Corp revenue breakdown by segment",
			max:      3,
			want:     []string{"Acme Corp revenue breakdown by segment"},
		},
		{
			name:     "list markup stripped",
			response: "- Acme Corp leadership changes\n2. Acme Corp hiring trends",
			max:      3,
			want:     []string{"Acme Corp leadership changes", "Acme Corp hiring trends"},
		},
		{
			name:     "truncated at max",
			response: "Acme Corp partnership announcements\nAcme Corp product roadmap details\nAcme Corp customer case studies",
			max:      2,
			want:     []string{"Acme Corp partnership announcements", "Acme Corp product roadmap details"},
		},
		{
			name:     "markup-only line yields nothing",
			response: "- - - - - - - - -",
			max:      3,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFollowUpQueries(tt.response, tt.max)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFeedbackLoopSkipsWithoutFindings(t *testing.T) {
	gen := &fakeGen{}
	o := New(&fakeSearch{}, gen)

	results := []types.AgentResult{
		{Kind: types.AgentCompanyDiscovery, Err: "agent failed"},
	}
	if got := o.feedbackLoop(context.Background(), "Acme Corp", results); got != nil {
		t.Errorf("expected nil for empty findings, got %+v", got)
	}
	if gen.callCount() != 0 {
		t.Errorf("gap analysis should not run without findings, saw %d calls", gen.callCount())
	}
}

func TestFeedbackLoopNoneShortCircuits(t *testing.T) {
	for _, gaps := range []string{"NONE", "none needed", "None."} {
		search := &fakeSearch{results: twoSources()}
		o := New(search, &fakeGen{gapResponse: gaps})

		results := []types.AgentResult{
			{Kind: types.AgentCompanyDiscovery, Analysis: "solid findings"},
		}
		if got := o.feedbackLoop(context.Background(), "Acme Corp", results); got != nil {
			t.Errorf("gaps %q: expected nil, got %+v", gaps, got)
		}
		if search.searchCount() != 0 {
			t.Errorf("gaps %q: follow-up searches ran anyway", gaps)
		}
	}
}

func TestFeedbackLoopCollectsFollowUpSources(t *testing.T) {
	query := "Acme Corp international expansion plans"
	search := &fakeSearch{
		resultsFor: map[string][]types.SourceRecord{
			query: {
				{Title: "Expansion", URL: "https://example.com/expansion", Content: "EU launch."},
				{Title: "Expansion dup", URL: "https://example.com/expansion", Content: "EU launch."},
			},
		},
	}
	o := New(search, &fakeGen{gapResponse: query})

	results := []types.AgentResult{
		{Kind: types.AgentCompanyDiscovery, Analysis: "solid findings"},
	}
	got := o.feedbackLoop(context.Background(), "Acme Corp", results)
	if got == nil {
		t.Fatal("expected follow-up result")
	}
	if got.Kind != types.AgentFollowUp {
		t.Errorf("Kind = %q, want %q", got.Kind, types.AgentFollowUp)
	}
	if got.Analysis == "" {
		t.Error("missing follow-up analysis")
	}
	if len(got.Sources) != 1 {
		t.Errorf("sources = %d, want 1 after dedup", len(got.Sources))
	}
}

func TestFeedbackLoopNoSourcesReturnsNil(t *testing.T) {
	// Every follow-up search fails, so the stage contributes nothing.
	query := "Acme Corp international expansion plans"
	search := &fakeSearch{
		errFor: map[string]error{query: context.DeadlineExceeded},
	}
	o := New(search, &fakeGen{gapResponse: query})

	results := []types.AgentResult{
		{Kind: types.AgentCompanyDiscovery, Analysis: "solid findings"},
	}
	if got := o.feedbackLoop(context.Background(), "Acme Corp", results); got != nil {
		t.Errorf("expected nil when no follow-up sources found, got %+v", got)
	}
}
