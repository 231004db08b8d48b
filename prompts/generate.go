// Package prompts builds the message content for generation and
// analysis calls. Prompt text lives here so the services stay free of
// wall-of-string literals.
package prompts

import "fmt"

// BuildGeneratePrompt asks for an article draft written under the given
// style skill document.
func BuildGeneratePrompt(skillContent, topic string) string {
	return fmt.Sprintf(`You are a professional ghostwriter. Write strictly according to the following Writing Style Skill.

## Writing Style Skill

%s

---

## Writing Task

Following the style specification above, write an article on this topic:

**Topic:** %s

Requirements:
1. Strictly follow the tone, voice and style principles defined in the skill
2. Never use words, phrasings or structures from the blocklist
3. Use the author's habitual terms and expressions
4. Keep the author's authentic voice; avoid sounding machine-generated
5. Have depth and a point of view, do not stay on the surface

Output only the article body, with no extra explanation or meta information.`, skillContent, topic)
}
