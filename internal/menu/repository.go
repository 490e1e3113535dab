package menu

// Repository defines the read operations the dialogue layer needs from the
// catalog. Implementations load the menu once and serve lookups from memory;
// misses are not errors, they return nil.
type Repository interface {

	// -------------------------------
	// Lookups
	// -------------------------------

	// FindBeverage resolves a beverage by id or by any of its keywords.
	FindBeverage(query string) *Item

	// FindFood resolves a food item by id or by any of its keywords.
	FindFood(query string) *Item

	// -------------------------------
	// Full catalog
	// -------------------------------

	// Catalog returns the whole menu grouped by section, for rendering
	// and for building keyword tables. The returned value is shared and
	// must be treated as read-only.
	Catalog() *Catalog
}
