// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/prospect-engine/pkg/types"
)

// Prompt templates for every pipeline stage. These are data, not
// logic: variant-specific analysis prompts are attached to AgentSpecs
// so new agent kinds can be added without touching the fan-out
// machinery.

// delegationTmpl asks the lead agent to break the research into
// subtasks. The output is informational only; the pipeline proceeds
// on a fixed fallback when this call fails.
var delegationTmpl = template.Must(template.New("delegation").Parse(`You are a Lead Research Agent. Break down this complex query into 3 specialized subtasks for parallel execution: "Comprehensive research on {{.Target}}"

Context:
- Target: {{.Target}}
- Enabled Agents: {{.EnabledAgents}}
- Additional Context: {{.AdditionalContext}}

For each subtask, provide:
- Clear objective
- Specific search focus
- Expected output

SUBTASK 1: [Core/foundational aspects]
SUBTASK 2: [Recent developments/trends]
SUBTASK 3: [Applications/implications]

Make each subtask distinct to avoid overlap.`))

// feedbackTmpl asks the model to name gaps in the aggregated findings
// or answer NONE when satisfied.
var feedbackTmpl = template.Must(template.New("feedback").Parse(`Review these research findings:

{{.Findings}}

Identify gaps or missing information:
1. What critical information is missing?
2. Are there any contradictions that need verification?
3. What follow-up searches would enhance quality?

Respond with 2-3 specific follow-up search queries, or "NONE" if complete.`))

var companyAnalysisTmpl = template.Must(template.New("company").Parse(`Research query: {{.Target}}

Sources:
{{.Sources}}

Based on these sources, provide a comprehensive company analysis:

SUMMARY: [2-3 sentences covering key company information]

INSIGHTS:
- [Key insight about business model]
- [Key insight about products/services]
- [Key insight about market position]
- [Key insight about recent developments]

Format your response exactly as shown above.`))

var marketAnalysisTmpl = template.Must(template.New("market").Parse(`Research query: Market analysis for {{.Target}}

Sources:
{{.Sources}}

Provide market analysis:

MARKET SIZE: [Current market size and growth projections]

KEY TRENDS: [3-4 major trends shaping the market]

OPPORTUNITIES: [Key opportunities identified]

CHALLENGES: [Main challenges and risks]`))

var competitorAnalysisTmpl = template.Must(template.New("competitor").Parse(`Research query: Competitor analysis for {{.Target}}

Sources:
{{.Sources}}

Provide competitor analysis:

MAIN COMPETITORS: [List 3-5 main competitors]

COMPETITIVE POSITIONING: [How {{.Target}} compares to competitors]

DIFFERENTIATORS: [What sets {{.Target}} apart]

COMPETITIVE THREATS: [Key competitive challenges]`))

var personProfileTmpl = template.Must(template.New("profile").Parse(`Research query: Person profile for {{.PersonName}}

Sources:
{{.Sources}}

Extract and summarize the following about {{.PersonName}}:

BACKGROUND: [Education, career history, key achievements]

CURRENT ROLE: [Current position, company, responsibilities]

EXPERTISE: [Key areas of expertise and specialization]

RECENT ACTIVITY: [Recent posts, articles, projects, or public presence]

Keep each section concise (2-3 sentences max).`))

var talkingPointsTmpl = template.Must(template.New("talking-points").Parse(`Based on this person profile:

{{.Profile}}

Generate 5-7 specific talking points for a conversation with {{.PersonName}}:

TALKING POINTS:
1. [Specific topic related to their recent work]
2. [Question about their expertise area]
3. [Reference to their company/project]
4. [Industry trend they might have insights on]
5. [Personal achievement or milestone to acknowledge]

Make each point specific, actionable, and based on the research.`))

var synthesisTmpl = template.Must(template.New("synthesis").Parse(`ORIGINAL QUERY: {{.Target}}

SUBAGENT FINDINGS:
{{.Findings}}

As the Lead Agent, synthesize these parallel findings into a comprehensive report:

EXECUTIVE SUMMARY:
[2-3 sentences covering the most important insights across all subagents]

INTEGRATED FINDINGS:
• [Key finding from foundational research]
• [Key finding from recent developments]
• [Key finding from applications research]
• [Cross-cutting insight that emerged]

RESEARCH QUALITY:
- Sources analyzed: {{.TotalSources}} across {{.NumAgents}} specialized agents
- Coverage: [How well the subtasks covered the topic]`))

// promptData carries the common fields for variant analysis prompts.
type promptData struct {
	Target  string
	Sources string
}

// render executes a prompt template against data.
func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// maxCharsPerSource bounds how much of each snippet reaches a prompt.
const maxCharsPerSource = 400

// formatSources renders up to maxSources records as a numbered block
// of "title: truncated content" lines for prompt inclusion.
func formatSources(sources []types.SourceRecord, maxSources int) string {
	var b strings.Builder
	for i, s := range sources {
		if i >= maxSources {
			break
		}
		title := s.Title
		if title == "" {
			title = "Unknown"
		}
		content := s.Content
		if len(content) > maxCharsPerSource {
			content = content[:maxCharsPerSource]
		}
		fmt.Fprintf(&b, "%d. %s: %s...\n\n", i+1, title, content)
	}
	return b.String()
}
