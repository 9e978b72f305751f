package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/game"
	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/loot"
	"github.com/pixil98/go-stash/internal/storage"
)

type StorageConfig struct {
	Items      AssetConfig[*item.Definition] `json:"items" envPrefix:"ITEMS_"`
	LootTables AssetConfig[*loot.Table]      `json:"loot_tables" envPrefix:"LOOT_TABLES_"`
	Placements AssetConfig[*loot.Placement]  `json:"placements" envPrefix:"PLACEMENTS_"`
	Actors     AssetConfig[*game.ActorRecord] `json:"actors" envPrefix:"ACTORS_"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Items.Validate("items"))
	el.Add(c.LootTables.Validate("loot_tables"))
	el.Add(c.Placements.Validate("placements"))
	return el.Err()
}

// Assets is everything loaded from storage at startup.
type Assets struct {
	Catalog    *item.Catalog
	Placements *storage.FileStore[*loot.Placement]
	Actors     storage.Storer[*game.ActorRecord]
}

// BuildAssets loads every store and resolves placement table references.
func (c *StorageConfig) BuildAssets() (*Assets, error) {
	items, err := c.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	tables, err := c.LootTables.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating loot table store: %w", err)
	}
	placements, err := c.Placements.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating placement store: %w", err)
	}

	actors, err := c.buildActorStore()
	if err != nil {
		return nil, fmt.Errorf("creating actor store: %w", err)
	}

	el := errors.NewErrorList()
	for id, p := range placements.GetAll() {
		if err := p.Resolve(tables); err != nil {
			el.Add(fmt.Errorf("placement %s: %w", id, err))
		}
	}
	if err := el.Err(); err != nil {
		return nil, fmt.Errorf("resolving references: %w", err)
	}

	return &Assets{
		Catalog:    item.NewCatalog(items),
		Placements: placements,
		Actors:     actors,
	}, nil
}

// buildActorStore keeps actors in memory when no path is configured. Actor
// records are written at runtime, so the directory is created if missing.
func (c *StorageConfig) buildActorStore() (storage.Storer[*game.ActorRecord], error) {
	if c.Actors.Path == "" {
		slog.Warn("no actors path configured, actor containers will not survive a restart")
		return storage.NewMemoryStore[*game.ActorRecord](nil), nil
	}

	err := os.MkdirAll(c.Actors.Path, 0o755)
	if err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}
	return c.Actors.BuildFileStore()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path" env:"PATH"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
