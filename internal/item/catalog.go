package item

import (
	"github.com/pixil98/go-stash/internal/storage"
)

// Catalog is the read-only lookup from item id to Definition. It is built
// once at startup and shared by every container and loot source.
type Catalog struct {
	defs storage.Storer[*Definition]
}

func NewCatalog(defs storage.Storer[*Definition]) *Catalog {
	return &Catalog{defs: defs}
}

// Get returns the definition for id.
func (c *Catalog) Get(id storage.Identifier) (*Definition, bool) {
	if c == nil || c.defs == nil {
		return nil, false
	}
	def, ok := c.defs.Get(id)
	if !ok || def == nil {
		return nil, false
	}
	return def, true
}

// Name returns the display name for id, falling back to the raw id for
// items missing from the catalog.
func (c *Catalog) Name(id storage.Identifier) string {
	def, ok := c.Get(id)
	if !ok {
		return string(id)
	}
	return def.DisplayName(id)
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	if c == nil || c.defs == nil {
		return 0
	}
	return len(c.defs.GetAll())
}
