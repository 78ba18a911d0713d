// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

// BuildReport assembles the final markdown report: title, summary,
// enumerated source list, and a metadata footer, in that fixed order.
// It is pure and never fails for well-formed input — it makes no
// external calls and always returns a non-empty document.
func BuildReport(target, synthesis string, sources []types.SourceRecord, meta types.RunMetadata) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Report: %s\n\n", target)

	b.WriteString("## Summary\n\n")
	if strings.TrimSpace(synthesis) == "" {
		b.WriteString("No summary available.\n")
	} else {
		b.WriteString(strings.TrimSpace(synthesis))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Sources\n\n")
	if len(sources) == 0 {
		b.WriteString("No sources were collected.\n")
	} else {
		for i, s := range sources {
			title := s.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Fprintf(&b, "%d. %s — %s\n", i+1, title, s.URL)
		}
	}
	b.WriteString("\n---\n\n")

	fmt.Fprintf(&b, "*Agents used: %s*\n", formatAgentList(meta.Agents))
	fmt.Fprintf(&b, "*Execution time: %.1fs*\n", meta.ExecutionTime.Seconds())
	ts := meta.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	fmt.Fprintf(&b, "*Generated: %s*\n", ts.Format(time.RFC3339))

	return b.String()
}

// formatAgentList renders the agent kinds that ran, marking failures.
func formatAgentList(agents []types.AgentRun) string {
	if len(agents) == 0 {
		return "none"
	}
	parts := make([]string, len(agents))
	for i, a := range agents {
		if a.Error != "" {
			parts[i] = a.Kind + " (failed)"
		} else {
			parts[i] = a.Kind
		}
	}
	return strings.Join(parts, ", ")
}
