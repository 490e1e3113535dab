package nlp

import (
	"sort"
	"strings"

	"github.com/Zornetta/Chatbot-Barista/internal/menu"
)

// KeywordExtractor matches user text against keyword tables built from the
// catalog: item keywords and names, size words and customization options.
// Multi-word keywords match by containment, single words by token equality,
// so short words never fire inside longer ones.
type KeywordExtractor struct {
	beverages []keywordEntry
	foods     []keywordEntry
	sizes     []string
	options   map[string][]string
}

type keywordEntry struct {
	keyword string
	id      string
}

func NewKeywordExtractor(catalog *menu.Catalog) *KeywordExtractor {
	x := &KeywordExtractor{options: map[string][]string{}}

	sizeSeen := map[string]bool{}
	optionSeen := map[string]bool{}

	index := func(items []menu.Item) []keywordEntry {
		var entries []keywordEntry
		for _, item := range items {
			keywords := map[string]bool{
				normalize(item.Name):                          true,
				normalize(strings.ReplaceAll(item.ID, "_", " ")): true,
			}
			for _, kw := range item.Keywords {
				keywords[normalize(kw)] = true
			}
			for kw := range keywords {
				if kw == "" {
					continue
				}
				entries = append(entries, keywordEntry{keyword: kw, id: item.ID})
			}

			for _, size := range item.Sizes {
				s := normalize(size)
				if !sizeSeen[s] {
					sizeSeen[s] = true
					x.sizes = append(x.sizes, s)
				}
			}
			for category, opts := range item.Customizations {
				for _, opt := range opts {
					key := category + ":" + normalize(opt)
					if optionSeen[key] {
						continue
					}
					optionSeen[key] = true
					x.options[category] = append(x.options[category], normalize(opt))
				}
			}
		}

		// Longer keywords first so "cafe con leche" beats "cafe".
		sort.Slice(entries, func(i, j int) bool {
			if len(entries[i].keyword) != len(entries[j].keyword) {
				return len(entries[i].keyword) > len(entries[j].keyword)
			}
			return entries[i].keyword < entries[j].keyword
		})
		return entries
	}

	x.beverages = index(catalog.AllBeverages())
	x.foods = index(catalog.AllFoods())
	sort.Strings(x.sizes)
	for _, opts := range x.options {
		sort.Strings(opts)
	}
	return x
}

func (x *KeywordExtractor) Extract(text string) Entities {
	norm := normalize(text)
	tokens := tokenSet(tokenize(norm))

	var ent Entities

	ent.Beverage = findEntry(x.beverages, norm, tokens)
	ent.Food = findEntry(x.foods, norm, tokens)
	for _, size := range x.sizes {
		if tokens[size] {
			ent.Size = size
			break
		}
	}

	categories := make([]string, 0, len(x.options))
	for category := range x.options {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		for _, opt := range x.options[category] {
			if matchKeyword(norm, tokens, opt) {
				ent.Customizations = append(ent.Customizations, category+":"+opt)
			}
		}
	}

	return ent
}

// findEntry tries phrase matches first, then falls back to requiring every
// word of a keyword to appear somewhere in the text, so "un latte, pero
// grande" still resolves multi-word keywords.
func findEntry(entries []keywordEntry, norm string, tokens map[string]bool) string {
	for _, e := range entries {
		if matchKeyword(norm, tokens, e.keyword) {
			return e.id
		}
	}
	for _, e := range entries {
		if tokensSubset(e.keyword, tokens) {
			return e.id
		}
	}
	return ""
}

func matchKeyword(norm string, tokens map[string]bool, keyword string) bool {
	if strings.Contains(keyword, " ") {
		return strings.Contains(norm, keyword)
	}
	return tokens[keyword]
}

func tokensSubset(keyword string, tokens map[string]bool) bool {
	parts := tokenize(keyword)
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if !tokens[p] {
			return false
		}
	}
	return true
}
