package inventory

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/item"
)

// EquipmentLayout maps each equipment index to the capability an item needs
// to occupy it. It is configuration and must cover every index.
type EquipmentLayout []item.Capability

// DefaultEquipmentLayout is used when the configuration does not supply one.
var DefaultEquipmentLayout = EquipmentLayout{
	item.CapHead,
	item.CapNeck,
	item.CapBody,
	item.CapMainHand,
	item.CapOffHand,
	item.CapHands,
	item.CapWaist,
	item.CapLegs,
	item.CapFeet,
	item.CapRing,
	item.CapRing,
	item.CapTrinket,
	item.CapBack,
}

func (l EquipmentLayout) Validate() error {
	el := errors.NewErrorList()

	if len(l) == 0 {
		el.Add(fmt.Errorf("equipment layout must have at least one slot"))
	}
	if len(l) > MaxEquipmentSize {
		el.Add(fmt.Errorf("equipment layout has %d slots, maximum is %d", len(l), MaxEquipmentSize))
	}
	for i, c := range l {
		if c.IsZero() {
			el.Add(fmt.Errorf("equipment slot %d has no required capability", i))
		}
	}

	return el.Err()
}

// Required returns the capability mask for index i, or none when out of range.
func (l EquipmentLayout) Required(i int) item.Capability {
	if i < 0 || i >= len(l) {
		return item.CapNone
	}
	return l[i]
}

// Accepts reports whether an item with mask may be placed at index i.
func (l EquipmentLayout) Accepts(i int, mask item.Capability) bool {
	return l.Required(i).Intersects(mask)
}
