package inventory

import (
	"fmt"

	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/storage"
)

// Catalog resolves item ids to their definitions.
type Catalog interface {
	Get(storage.Identifier) (*item.Definition, bool)
}

// Slot is a single (item, count) cell. A slot is empty iff Count is zero,
// and an empty slot never carries an item id.
type Slot struct {
	Item  storage.Identifier `json:"item,omitempty"`
	Count uint               `json:"count,omitempty"`
}

// Empty reports whether the slot holds nothing.
func (s Slot) Empty() bool {
	return s.Count == 0
}

// take returns the slot after removing n units, clearing it at zero.
func (s Slot) take(n uint) Slot {
	if n >= s.Count {
		return Slot{}
	}
	return Slot{Item: s.Item, Count: s.Count - n}
}

func (s Slot) String() string {
	if s.Empty() {
		return "empty"
	}
	return fmt.Sprintf("%s x%d", s.Item, s.Count)
}

// Kind names which of an actor's containers is meant.
type Kind int

const (
	KindBackpack Kind = iota
	KindEquipment
)

func (k Kind) String() string {
	switch k {
	case KindBackpack:
		return "backpack"
	case KindEquipment:
		return "equipment"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "backpack":
		*k = KindBackpack
	case "equipment":
		*k = KindEquipment
	default:
		return fmt.Errorf("unknown container kind: %s", text)
	}
	return nil
}
