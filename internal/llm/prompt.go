package llm

import "strings"

func buildIntentPrompt(labels []string) string {
	return `
You are the intent classifier of a coffee shop ordering assistant.
Users write in Spanish.

Your task:
- Read the user message and pick exactly ONE intent label.
- Allowed labels: ` + strings.Join(labels, ", ") + `
- If no label fits, use confidence 0 and the closest label anyway.
- Report your confidence between 0 and 1.
- Output MUST follow the JSON schema you were given.
- NO explanations.
- NO markdown.
`
}
