package prompts

import "fmt"

// BuildDiffAnalyzePrompt asks for the style rules implied by a human
// edit of an AI draft. The reply is expected to be bare JSON.
func BuildDiffAnalyzePrompt(original, modified, diffSummary, currentSkill string) string {
	return fmt.Sprintf(`You are a writing style analyst. A user manually edited an AI-generated article; analyze the writing preferences and style rules behind those edits.

## Original AI-generated content

%s

## Content after the user's edits

%s

## Diff summary

%s

## Current Writing Style Skill

%s

---

Analyze the intent behind the edits and answer in the following JSON shape (no markdown code fences):

{
  "modification_analysis": [
    {
      "type": "word choice | sentence structure | reorganization | content added or removed | tone shift",
      "description": "what was changed",
      "intent": "the inferred intent behind the change"
    }
  ],
  "new_rules": {
    "add_to_style_principles": ["style principles to add"],
    "add_to_blocklist_words": ["words to block"],
    "add_to_blocklist_patterns": ["phrasings to block"],
    "other_observations": ["other style preferences observed"]
  },
  "summary": "one sentence on how this edit should improve the skill"
}

Analysis requirements:
1. Look for systematic preferences, not one-off content corrections
2. Separate content edits (irrelevant to the skill) from style edits (belong in the skill)
3. New rules must be concrete and actionable, not vague
4. If the edits are trivial or carry no style signal, new_rules may hold empty arrays`, original, modified, diffSummary, currentSkill)
}
