// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strings"
	"testing"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

func TestFormatSources(t *testing.T) {
	long := strings.Repeat("x", maxCharsPerSource+100)
	sources := []types.SourceRecord{
		{Title: "First", Content: "short snippet"},
		{Content: "untitled snippet"},
		{Title: "Long", Content: long},
		{Title: "Over the cap", Content: "never reaches the prompt"},
	}

	got := formatSources(sources, 3)

	if !strings.Contains(got, "1. First: short snippet...") {
		t.Error("missing first source line")
	}
	if !strings.Contains(got, "2. Unknown: untitled snippet...") {
		t.Error("missing Unknown label for untitled source")
	}
	if strings.Contains(got, "Over the cap") {
		t.Error("source past maxSources leaked into prompt")
	}
	if strings.Contains(got, strings.Repeat("x", maxCharsPerSource+1)) {
		t.Error("snippet not truncated")
	}
	if !strings.Contains(got, strings.Repeat("x", maxCharsPerSource)) {
		t.Error("truncated snippet shorter than the cap")
	}
}

func TestFormatSourcesEmpty(t *testing.T) {
	if got := formatSources(nil, 5); got != "" {
		t.Errorf("formatSources(nil) = %q, want empty", got)
	}
}

func TestRenderPrompts(t *testing.T) {
	prompt, err := render(companyAnalysisTmpl, promptData{Target: "Acme Corp", Sources: "1. A: b...\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prompt, "Acme Corp") {
		t.Error("target not substituted")
	}
	if !strings.Contains(prompt, "1. A: b...") {
		t.Error("sources not substituted")
	}
}
