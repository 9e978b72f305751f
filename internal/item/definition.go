package item

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/storage"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind is the broad category of an item.
type Kind int

const (
	KindUnknown Kind = iota
	KindStackable
	KindUnique
	KindEquipment
	KindConsumable
	KindCurrency
)

var titleCaser = cases.Title(language.English)

// Definition describes one item type loaded from asset files.
// Item IDs follow the convention <set>-<name> (e.g., "starter-iron-sword").
type Definition struct {
	// Name is the display name; derived from the id when empty.
	Name string `json:"name,omitempty"`

	// KindStr is the item kind from JSON.
	KindStr string `json:"kind"`

	// MaxStack is how many units fit in one slot. Must be at least 1.
	MaxStack uint `json:"max_stack"`

	// Equip lists the equip categories this item can occupy.
	Equip Capability `json:"equip,omitempty"`
}

// Kind returns the parsed Kind from KindStr.
func (d *Definition) Kind() Kind {
	switch strings.ToLower(d.KindStr) {
	case "stackable":
		return KindStackable
	case "unique":
		return KindUnique
	case "equipment":
		return KindEquipment
	case "consumable":
		return KindConsumable
	case "currency":
		return KindCurrency
	default:
		return KindUnknown
	}
}

// Stackable reports whether more than one unit fits in a slot.
func (d *Definition) Stackable() bool {
	return d.MaxStack > 1
}

// Equippable reports whether the item has any equip capability.
func (d *Definition) Equippable() bool {
	return !d.Equip.IsZero()
}

// Validate satisfies storage.ValidatingSpec.
func (d *Definition) Validate() error {
	el := errors.NewErrorList()

	if d.MaxStack < 1 {
		el.Add(fmt.Errorf("max_stack must be at least 1"))
	}

	switch d.Kind() {
	case KindUnknown:
		if d.KindStr == "" {
			el.Add(fmt.Errorf("item kind is required"))
		} else {
			el.Add(fmt.Errorf("item kind %q is invalid", d.KindStr))
		}
	case KindEquipment:
		if d.Equip.IsZero() {
			el.Add(fmt.Errorf("equipment requires at least one equip capability"))
		}
		if d.MaxStack > 1 {
			el.Add(fmt.Errorf("equipment max_stack must be 1"))
		}
	case KindUnique:
		if d.MaxStack > 1 {
			el.Add(fmt.Errorf("unique max_stack must be 1"))
		}
	}

	return el.Err()
}

// DisplayName returns Name, or a title-cased form of id when Name is empty.
func (d *Definition) DisplayName(id storage.Identifier) string {
	if d.Name != "" {
		return d.Name
	}
	return titleCaser.String(strings.ReplaceAll(string(id), "-", " "))
}
