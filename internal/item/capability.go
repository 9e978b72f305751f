package item

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// Capability is a bitset of equip categories. An item may occupy an
// equipment slot when its mask intersects the slot's required mask.
type Capability uint32

const (
	CapHead Capability = 1 << iota
	CapNeck
	CapBody
	CapHands
	CapWaist
	CapLegs
	CapFeet
	CapMainHand
	CapOffHand
	CapRing
	CapTrinket
	CapBack

	CapNone Capability = 0
)

var capabilityNames = []struct {
	name string
	cap  Capability
}{
	{"head", CapHead},
	{"neck", CapNeck},
	{"body", CapBody},
	{"hands", CapHands},
	{"waist", CapWaist},
	{"legs", CapLegs},
	{"feet", CapFeet},
	{"main_hand", CapMainHand},
	{"off_hand", CapOffHand},
	{"ring", CapRing},
	{"trinket", CapTrinket},
	{"back", CapBack},
}

// ParseCapability maps a single capability name to its flag.
func ParseCapability(name string) (Capability, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, cn := range capabilityNames {
		if cn.name == name {
			return cn.cap, nil
		}
	}
	return CapNone, fmt.Errorf("unknown capability %q", name)
}

// ParseCapabilities ORs together a list of capability names.
func ParseCapabilities(names []string) (Capability, error) {
	var mask Capability
	for _, n := range names {
		c, err := ParseCapability(n)
		if err != nil {
			return CapNone, err
		}
		mask |= c
	}
	return mask, nil
}

// Intersects reports whether any flag is shared.
func (c Capability) Intersects(other Capability) bool {
	return c&other != 0
}

func (c Capability) IsZero() bool {
	return c == CapNone
}

// Names lists the flags set in c in declaration order.
func (c Capability) Names() []string {
	names := make([]string, 0, bits.OnesCount32(uint32(c)))
	for _, cn := range capabilityNames {
		if c&cn.cap != 0 {
			names = append(names, cn.name)
		}
	}
	return names
}

func (c Capability) String() string {
	if c == CapNone {
		return "none"
	}
	return strings.Join(c.Names(), "|")
}

// MarshalJSON writes the mask as a list of names.
func (c Capability) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Names())
}

// UnmarshalJSON accepts either a list of names or a single name.
func (c *Capability) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		var single string
		if err2 := json.Unmarshal(b, &single); err2 != nil {
			return fmt.Errorf("capability must be a name or list of names: %w", err)
		}
		names = []string{single}
	}

	mask, err := ParseCapabilities(slices.DeleteFunc(names, func(n string) bool { return n == "" }))
	if err != nil {
		return err
	}
	*c = mask
	return nil
}
