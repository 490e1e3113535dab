package nlp

import (
	"sync"

	"github.com/Zornetta/Chatbot-Barista/internal/menu"
)

// CatalogSource hands out the current catalog. Satisfied by menu.Repository.
type CatalogSource interface {
	Catalog() *menu.Catalog
}

// CatalogExtractor keeps keyword tables in sync with a reloadable catalog.
// Reloads swap the catalog pointer; the tables are rebuilt on the first
// extraction that sees a new pointer.
type CatalogExtractor struct {
	source CatalogSource

	mu        sync.Mutex
	catalog   *menu.Catalog
	extractor *KeywordExtractor
}

func NewCatalogExtractor(source CatalogSource) *CatalogExtractor {
	return &CatalogExtractor{source: source}
}

func (x *CatalogExtractor) Extract(text string) Entities {
	catalog := x.source.Catalog()

	x.mu.Lock()
	if x.extractor == nil || x.catalog != catalog {
		x.extractor = NewKeywordExtractor(catalog)
		x.catalog = catalog
	}
	extractor := x.extractor
	x.mu.Unlock()

	return extractor.Extract(text)
}
