package menu

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// JSONRepository serves the catalog from a JSON file on disk. The file is
// parsed once at construction and again on Reload; lookups never touch the
// filesystem.
type JSONRepository struct {
	path string

	mu      sync.RWMutex
	catalog *Catalog
}

func NewJSONRepository(path string) (*JSONRepository, error) {
	r := &JSONRepository{path: path}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the menu file and swaps the catalog atomically. Lookups
// issued during a reload keep seeing the previous catalog.
func (r *JSONRepository) Reload() error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read menu file %s: %w", r.path, err)
	}

	catalog, err := parseCatalog(raw)
	if err != nil {
		return fmt.Errorf("parse menu file %s: %w", r.path, err)
	}

	r.mu.Lock()
	r.catalog = catalog
	r.mu.Unlock()
	return nil
}

func (r *JSONRepository) Catalog() *Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog
}

func (r *JSONRepository) FindBeverage(query string) *Item {
	return findIn(r.Catalog().Beverages, query)
}

func (r *JSONRepository) FindFood(query string) *Item {
	return findIn(r.Catalog().Foods, query)
}

// findIn resolves a query against id first, then keywords. Matches are
// case-insensitive; a miss returns nil.
func findIn(sections map[string][]Item, query string) *Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	for _, items := range sections {
		for idx := range items {
			item := &items[idx]
			if item.ID == q {
				return item
			}
			for _, kw := range item.Keywords {
				if strings.ToLower(kw) == q {
					return item
				}
			}
		}
	}
	return nil
}

// -------------------------------
// File format
// -------------------------------

// rawItem accepts both shapes the data file uses: beverages with per-size
// price and calorie maps, and foods with a single "precio"/"calorias"
// scalar. normalize folds the scalar shape into a one-size item.
type rawItem struct {
	ID             string              `json:"id"`
	Name           string              `json:"nombre"`
	Category       string              `json:"categoria"`
	Sizes          []string            `json:"tamaños"`
	Prices         map[string]float64  `json:"precios"`
	Price          *float64            `json:"precio"`
	Calories       json.RawMessage     `json:"calorias"`
	Customizations map[string][]string `json:"personalizaciones"`
	Keywords       []string            `json:"keywords"`
}

const singleSize = "individual"

func (ri *rawItem) normalize() (Item, error) {
	item := Item{
		ID:             ri.ID,
		Name:           ri.Name,
		Category:       ri.Category,
		Sizes:          ri.Sizes,
		Prices:         ri.Prices,
		Customizations: ri.Customizations,
		Keywords:       ri.Keywords,
	}

	if len(item.Sizes) == 0 {
		item.Sizes = []string{singleSize}
	}
	if item.Prices == nil {
		if ri.Price == nil {
			return Item{}, fmt.Errorf("item %q has neither precios nor precio", ri.ID)
		}
		item.Prices = map[string]float64{singleSize: *ri.Price}
	}

	if len(ri.Calories) > 0 {
		var perSize map[string]int
		if err := json.Unmarshal(ri.Calories, &perSize); err == nil {
			item.Calories = perSize
		} else {
			var flat int
			if err := json.Unmarshal(ri.Calories, &flat); err != nil {
				return Item{}, fmt.Errorf("item %q has malformed calorias", ri.ID)
			}
			item.Calories = map[string]int{singleSize: flat}
		}
	}

	for _, size := range item.Sizes {
		if _, ok := item.Prices[size]; !ok {
			return Item{}, fmt.Errorf("item %q missing price for size %q", ri.ID, size)
		}
	}

	return item, nil
}

func parseCatalog(raw []byte) (*Catalog, error) {
	var doc struct {
		Beverages map[string][]rawItem `json:"bebidas"`
		Foods     map[string][]rawItem `json:"alimentos"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	catalog := &Catalog{
		Beverages: make(map[string][]Item, len(doc.Beverages)),
		Foods:     make(map[string][]Item, len(doc.Foods)),
	}

	for section, rawItems := range doc.Beverages {
		items := make([]Item, 0, len(rawItems))
		for _, ri := range rawItems {
			item, err := ri.normalize()
			if err != nil {
				return nil, fmt.Errorf("bebidas/%s: %w", section, err)
			}
			items = append(items, item)
		}
		catalog.Beverages[section] = items
	}

	for section, rawItems := range doc.Foods {
		items := make([]Item, 0, len(rawItems))
		for _, ri := range rawItems {
			item, err := ri.normalize()
			if err != nil {
				return nil, fmt.Errorf("alimentos/%s: %w", section, err)
			}
			items = append(items, item)
		}
		catalog.Foods[section] = items
	}

	return catalog, nil
}
