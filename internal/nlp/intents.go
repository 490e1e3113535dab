package nlp

import (
	"encoding/json"
	"fmt"
	"os"
)

// Intent is one intent definition from the data file: a label plus the
// example phrases the keyword classifier scores against. Entities carries
// optional slot hints some definitions include; the core never reads it.
type Intent struct {
	Name     string              `json:"intent"`
	Examples []string            `json:"examples"`
	Entities map[string][]string `json:"entities,omitempty"`
}

// LoadIntents reads the intent definitions file, a JSON array of intent
// objects.
func LoadIntents(path string) ([]Intent, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intents file %s: %w", path, err)
	}

	var intents []Intent
	if err := json.Unmarshal(raw, &intents); err != nil {
		return nil, fmt.Errorf("parse intents file %s: %w", path, err)
	}
	if len(intents) == 0 {
		return nil, fmt.Errorf("intents file %s defines no intents", path)
	}

	for _, intent := range intents {
		if intent.Name == "" {
			return nil, fmt.Errorf("intents file %s has an intent without a label", path)
		}
	}
	return intents, nil
}

// IntentNames lists the labels in definition order, for prompts and
// validation.
func IntentNames(intents []Intent) []string {
	names := make([]string, 0, len(intents))
	for _, intent := range intents {
		names = append(names, intent.Name)
	}
	return names
}
