package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildStyleAnalysisPrompt asks for an initial style skill extracted
// from the user's own writing samples.
func BuildStyleAnalysisPrompt(samples []string) string {
	var sb strings.Builder
	for i, sample := range samples {
		fmt.Fprintf(&sb, "### Sample %d\n\n%s\n\n", i+1, sample)
	}

	return fmt.Sprintf(`You are a writing style analyst. Below are articles written by one author. Extract the author's writing style as a reusable specification.

%s---

Answer in the following JSON shape (no markdown code fences):

{
  "voice": "the author's identity and perspective, one or two sentences",
  "tone": "the prevailing tone",
  "style_principles": ["concrete, actionable style rules observed across the samples"],
  "blocklist_words": ["words the author never uses"],
  "blocklist_patterns": ["phrasings and structures the author avoids"],
  "habitual_terms": ["terms and expressions the author favors"]
}

Extraction requirements:
1. Only include rules supported by more than one sample
2. Rules must be concrete enough to follow while writing
3. Prefer fewer, stronger rules over long vague lists`, sb.String())
}

type styleSkill struct {
	Voice             string   `json:"voice"`
	Tone              string   `json:"tone"`
	StylePrinciples   []string `json:"style_principles"`
	BlocklistWords    []string `json:"blocklist_words"`
	BlocklistPatterns []string `json:"blocklist_patterns"`
	HabitualTerms     []string `json:"habitual_terms"`
}

// JSONToMarkdown renders the structured style skill as the primary
// markdown document. Unparseable JSON falls back to a fenced block so
// nothing the capability returned is lost.
func JSONToMarkdown(name, jsonContent string) string {
	var s styleSkill
	if err := json.Unmarshal([]byte(jsonContent), &s); err != nil {
		return fmt.Sprintf("# %s — Writing Style Skill\n\n```json\n%s\n```\n", name, jsonContent)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s — Writing Style Skill\n\n", name)
	if s.Voice != "" {
		fmt.Fprintf(&sb, "## Voice\n\n%s\n\n", s.Voice)
	}
	if s.Tone != "" {
		fmt.Fprintf(&sb, "## Tone\n\n%s\n\n", s.Tone)
	}
	writeList(&sb, "Style Principles", s.StylePrinciples)
	writeList(&sb, "Blocked Words", s.BlocklistWords)
	writeList(&sb, "Blocked Patterns", s.BlocklistPatterns)
	writeList(&sb, "Habitual Terms", s.HabitualTerms)
	return sb.String()
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}
