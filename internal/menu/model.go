package menu

// Item is one sellable product from the catalog. Beverages carry several
// sizes with per-size prices; food items are normalized at load time to a
// single "individual" size so the rest of the system never branches on
// product kind.
type Item struct {
	ID             string              `json:"id"`
	Name           string              `json:"nombre"`
	Category       string              `json:"categoria"`
	Sizes          []string            `json:"tamaños"`
	Prices         map[string]float64  `json:"precios"`
	Calories       map[string]int      `json:"calorias"`
	Customizations map[string][]string `json:"personalizaciones"`
	Keywords       []string            `json:"keywords"`
}

// BasePrice returns the unit price for a size, or 0 when the size is not
// sold. Callers that must reject bad sizes validate with HasSize first.
func (i *Item) BasePrice(size string) float64 {
	return i.Prices[size]
}

// CaloriesFor returns the calories for a size; items without nutritional
// data report 0.
func (i *Item) CaloriesFor(size string) int {
	if i.Calories == nil {
		return 0
	}
	return i.Calories[size]
}

func (i *Item) HasSize(size string) bool {
	for _, s := range i.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// HasCustomization reports whether the item offers the given option in the
// given category.
func (i *Item) HasCustomization(category, option string) bool {
	opts, ok := i.Customizations[category]
	if !ok {
		return false
	}
	for _, o := range opts {
		if o == option {
			return true
		}
	}
	return false
}

// Catalog is the full menu grouped the way the data file groups it:
// beverages and foods, each split into named sections.
type Catalog struct {
	Beverages map[string][]Item `json:"bebidas"`
	Foods     map[string][]Item `json:"alimentos"`
}

// AllBeverages flattens every beverage section into one slice.
func (c *Catalog) AllBeverages() []Item {
	var out []Item
	for _, items := range c.Beverages {
		out = append(out, items...)
	}
	return out
}

// AllFoods flattens every food section into one slice.
func (c *Catalog) AllFoods() []Item {
	var out []Item
	for _, items := range c.Foods {
		out = append(out, items...)
	}
	return out
}
