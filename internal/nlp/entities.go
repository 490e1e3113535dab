package nlp

import "strings"

// Entities is what the extractor pulls out of one user message. Beverage
// and Food hold menu item ids; Size is a raw size word; Customizations are
// "categoria:opcion" tokens.
type Entities struct {
	Beverage       string
	Food           string
	Size           string
	Customizations []string
}

// Extractor turns free text into entities. Implementations must be safe for
// concurrent use.
type Extractor interface {
	Extract(text string) Entities
}

// normalize lowercases the text and folds accented vowels so "árandanos"
// and "arandanos" compare equal. Ñ is kept, it is significant in Spanish.
func normalize(text string) string {
	text = strings.ToLower(text)
	return strings.Map(func(r rune) rune {
		switch r {
		case 'á':
			return 'a'
		case 'é':
			return 'e'
		case 'í':
			return 'i'
		case 'ó':
			return 'o'
		case 'ú', 'ü':
			return 'u'
		}
		return r
	}, text)
}

// tokenize splits normalized text into word tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return false
		}
		return r != 'ñ'
	})
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
