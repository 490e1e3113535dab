package nlp

import "context"

// Prediction is a classified intent label with the classifier's confidence
// in [0,1]. An empty label means the classifier saw no signal at all.
type Prediction struct {
	Label      string
	Confidence float64
}

// Classifier maps user text to an intent label. The keyword implementation
// is local and never fails; remote implementations may.
type Classifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

// KeywordClassifier scores text against the example phrases of each intent.
// An example contained verbatim in the text scores 1.0; otherwise the score
// is the fraction of the example's tokens present in the text.
type KeywordClassifier struct {
	intents []Intent
}

func NewKeywordClassifier(intents []Intent) *KeywordClassifier {
	return &KeywordClassifier{intents: intents}
}

func (c *KeywordClassifier) Classify(_ context.Context, text string) (Prediction, error) {
	norm := normalize(text)
	tokens := tokenSet(tokenize(norm))

	var best Prediction
	for _, intent := range c.intents {
		score := scoreIntent(norm, tokens, intent)
		if score > best.Confidence {
			best = Prediction{Label: intent.Name, Confidence: score}
		}
	}
	return best, nil
}

func scoreIntent(norm string, tokens map[string]bool, intent Intent) float64 {
	best := 0.0
	for _, example := range intent.Examples {
		ex := normalize(example)
		if ex == "" {
			continue
		}
		if containsPhrase(norm, ex) {
			return 1.0
		}
		exTokens := tokenize(ex)
		if len(exTokens) == 0 {
			continue
		}
		hits := 0
		for _, t := range exTokens {
			if tokens[t] {
				hits++
			}
		}
		if score := float64(hits) / float64(len(exTokens)); score > best {
			best = score
		}
	}
	return best
}

// containsPhrase reports whether the example occurs in the text on word
// boundaries, so "si" does not fire inside "siempre".
func containsPhrase(norm, example string) bool {
	exTokens := tokenize(example)
	if len(exTokens) == 0 {
		return false
	}
	textTokens := tokenize(norm)
	if len(exTokens) > len(textTokens) {
		return false
	}
	for i := 0; i+len(exTokens) <= len(textTokens); i++ {
		match := true
		for j, et := range exTokens {
			if textTokens[i+j] != et {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
