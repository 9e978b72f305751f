package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/item"
)

type WorldConfig struct {
	MaxLootDistance float64 `json:"max_loot_distance" env:"MAX_LOOT_DISTANCE"`
	BackpackSize    int     `json:"backpack_size" env:"BACKPACK_SIZE"`
	// EquipmentLayout lists the capability names each equipment index accepts.
	EquipmentLayout [][]string `json:"equipment_layout"`
	// Seed fixes the loot roller. Zero picks a random seed.
	Seed uint64 `json:"seed" env:"SEED"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.MaxLootDistance < 0 {
		el.Add(fmt.Errorf("max_loot_distance must not be negative"))
	}
	if c.BackpackSize < 0 {
		el.Add(fmt.Errorf("backpack_size must not be negative"))
	}
	if c.BackpackSize > inventory.MaxBackpackSize {
		el.Add(fmt.Errorf("backpack_size must be at most %d", inventory.MaxBackpackSize))
	}
	if len(c.EquipmentLayout) > 0 {
		_, err := c.layout()
		el.Add(err)
	}

	return el.Err()
}

// layout returns the configured equipment layout, or the default when none
// is set.
func (c *WorldConfig) layout() (inventory.EquipmentLayout, error) {
	if len(c.EquipmentLayout) == 0 {
		return inventory.DefaultEquipmentLayout, nil
	}

	el := errors.NewErrorList()
	layout := make(inventory.EquipmentLayout, len(c.EquipmentLayout))
	for i, names := range c.EquipmentLayout {
		mask, err := item.ParseCapabilities(names)
		if err != nil {
			el.Add(fmt.Errorf("equipment_layout %d: %w", i, err))
			continue
		}
		layout[i] = mask
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("equipment_layout: %w", err)
	}
	return layout, nil
}
