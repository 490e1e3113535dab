package menu

// MemoryRepository serves a catalog assembled in code. Tests use it to avoid
// touching the filesystem.
type MemoryRepository struct {
	catalog *Catalog
}

func NewMemoryRepository(catalog *Catalog) *MemoryRepository {
	if catalog == nil {
		catalog = &Catalog{
			Beverages: map[string][]Item{},
			Foods:     map[string][]Item{},
		}
	}
	return &MemoryRepository{catalog: catalog}
}

func (r *MemoryRepository) Catalog() *Catalog {
	return r.catalog
}

func (r *MemoryRepository) FindBeverage(query string) *Item {
	return findIn(r.catalog.Beverages, query)
}

func (r *MemoryRepository) FindFood(query string) *Item {
	return findIn(r.catalog.Foods, query)
}
