// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

func TestBuildReport(t *testing.T) {
	meta := types.RunMetadata{
		Decomposition: "SUBTASK 1: core research",
		Agents: []types.AgentRun{
			{Kind: types.AgentCompanyDiscovery},
			{Kind: types.AgentMarketAnalysis, Error: "generation failed"},
		},
		ExecutionTime: 1500 * time.Millisecond,
		Timestamp:     time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC),
	}
	sources := []types.SourceRecord{
		{Title: "Acme Overview", URL: "https://example.com/acme"},
		{URL: "https://example.com/untitled"},
	}

	report := BuildReport("Acme Corp", "Acme is a widget maker.", sources, meta)

	if !strings.Contains(report, "# Research Report: Acme Corp") {
		t.Error("missing title line")
	}
	if !strings.Contains(report, "Acme is a widget maker.") {
		t.Error("missing synthesis text")
	}
	if !strings.Contains(report, "1. Acme Overview — https://example.com/acme") {
		t.Error("missing first source line")
	}
	if !strings.Contains(report, "2. Untitled — https://example.com/untitled") {
		t.Error("untitled source not labelled")
	}
	if !strings.Contains(report, "company_discovery, market_analysis (failed)") {
		t.Error("agent footer wrong or missing")
	}
	if !strings.Contains(report, "1.5s") {
		t.Error("missing execution time")
	}
	if !strings.Contains(report, "2026-02-03T12:00:00Z") {
		t.Error("missing timestamp")
	}

	// Sections appear in a fixed order.
	summaryAt := strings.Index(report, "## Summary")
	sourcesAt := strings.Index(report, "## Sources")
	footerAt := strings.Index(report, "---")
	if !(summaryAt >= 0 && summaryAt < sourcesAt && sourcesAt < footerAt) {
		t.Errorf("sections out of order: summary=%d sources=%d footer=%d", summaryAt, sourcesAt, footerAt)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport("Acme Corp", "", nil, types.RunMetadata{})

	if !strings.Contains(report, "No summary available.") {
		t.Error("missing empty-summary note")
	}
	if !strings.Contains(report, "No sources were collected.") {
		t.Error("missing empty-sources note")
	}
	if !strings.Contains(report, "Agents used: none") {
		t.Error("missing empty agent list")
	}
}
