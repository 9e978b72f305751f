package inventory

import (
	"fmt"
	"testing"

	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/storage"
	"github.com/pixil98/go-testutil"
)

// Equipment indexes used throughout the tests (DefaultEquipmentLayout).
const (
	eqHead     = 0
	eqBody     = 2
	eqMainHand = 3
	eqOffHand  = 4
	eqRing1    = 9
	eqRing2    = 10
)

func newTestCatalog() *item.Catalog {
	return item.NewCatalog(storage.NewMemoryStore(map[storage.Identifier]*item.Definition{
		"wood":        {KindStr: "stackable", MaxStack: 50},
		"stone":       {KindStr: "stackable", MaxStack: 50},
		"potion":      {KindStr: "consumable", MaxStack: 100},
		"sword":       {KindStr: "equipment", MaxStack: 1, Equip: item.CapMainHand},
		"dagger":      {KindStr: "equipment", MaxStack: 1, Equip: item.CapMainHand | item.CapOffHand},
		"shield":      {KindStr: "equipment", MaxStack: 1, Equip: item.CapOffHand},
		"helm":        {KindStr: "equipment", MaxStack: 1, Equip: item.CapHead},
		"ring-copper": {KindStr: "stackable", MaxStack: 10, Equip: item.CapRing},
		"ring-silver": {KindStr: "equipment", MaxStack: 1, Equip: item.CapRing},
		"relic":       {KindStr: "unique", MaxStack: 1},
	}))
}

// fill writes slots directly, bypassing the engine, to set up a scenario.
func fill(c *Container, slots map[int]Slot) *Container {
	for i, s := range slots {
		c.slots[i] = s
	}
	return c
}

func assertSlots(t *testing.T, name string, c *Container, exp map[int]Slot) {
	t.Helper()
	for i := 0; i < c.Len(); i++ {
		got, _ := c.Slot(i)
		testutil.AssertEqual(t, fmt.Sprintf("%s slot %d", name, i), got, exp[i])
	}
}

func TestNewBackpack_Clamp(t *testing.T) {
	tests := map[string]struct {
		size   int
		expLen int
	}{
		"regular":   {size: 20, expLen: 20},
		"too large": {size: 1000, expLen: MaxBackpackSize},
		"negative":  {size: -5, expLen: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewBackpack(tt.size)
			testutil.AssertEqual(t, "len", c.Len(), tt.expLen)
			testutil.AssertEqual(t, "kind", c.Kind(), KindBackpack)
			testutil.AssertEqual(t, "free", c.FreeSlots(), tt.expLen)
		})
	}
}

func TestNewEquipment_Clamp(t *testing.T) {
	layout := make(EquipmentLayout, 40)
	for i := range layout {
		layout[i] = item.CapTrinket
	}

	c := NewEquipment(layout)
	testutil.AssertEqual(t, "len", c.Len(), MaxEquipmentSize)
	testutil.AssertEqual(t, "kind", c.Kind(), KindEquipment)

	// The container keeps its own copy of the layout.
	layout[0] = item.CapHead
	testutil.AssertEqual(t, "layout copy", c.Layout().Required(0), item.CapTrinket)
}

func TestEquipmentLayout_Validate(t *testing.T) {
	tests := map[string]struct {
		layout  EquipmentLayout
		expErrs []string
	}{
		"default layout": {
			layout: DefaultEquipmentLayout,
		},
		"empty layout": {
			layout:  EquipmentLayout{},
			expErrs: []string{"at least one slot"},
		},
		"hole in layout": {
			layout:  EquipmentLayout{item.CapHead, item.CapNone, item.CapFeet},
			expErrs: []string{"equipment slot 1 has no required capability"},
		},
		"too many slots": {
			layout: func() EquipmentLayout {
				l := make(EquipmentLayout, MaxEquipmentSize+1)
				for i := range l {
					l[i] = item.CapRing
				}
				return l
			}(),
			expErrs: []string{"maximum is 32"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.layout.Validate()
			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			for _, e := range tt.expErrs {
				testutil.AssertErrorContains(t, err, e)
			}
		})
	}
}

func TestEquipmentLayout_Accepts(t *testing.T) {
	l := DefaultEquipmentLayout

	testutil.AssertEqual(t, "sword in main hand", l.Accepts(eqMainHand, item.CapMainHand), true)
	testutil.AssertEqual(t, "dagger in off hand", l.Accepts(eqOffHand, item.CapMainHand|item.CapOffHand), true)
	testutil.AssertEqual(t, "sword on head", l.Accepts(eqHead, item.CapMainHand), false)
	testutil.AssertEqual(t, "nothing fits out of range", l.Accepts(len(l), item.CapRing), false)
	testutil.AssertEqual(t, "unequippable", l.Accepts(eqRing1, item.CapNone), false)
}

func TestContainer_Subscribe(t *testing.T) {
	cat := newTestCatalog()
	c := NewBackpack(3)

	var first, second []ChangeEvent
	unsubFirst := c.Subscribe(func(ev ChangeEvent) { first = append(first, ev) })
	c.Subscribe(func(ev ChangeEvent) { second = append(second, ev) })

	if _, err := AddToContainer(cat, c, "wood", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	unsubFirst()
	if _, err := AddToContainer(cat, c, "wood", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "first events", len(first), 1)
	testutil.AssertEqual(t, "second events", len(second), 2)
	testutil.AssertEqual(t, "op", second[1].Op, OpSet)
	testutil.AssertEqual(t, "old", second[1].Old, Slot{Item: "wood", Count: 10})
	testutil.AssertEqual(t, "new", second[1].New, Slot{Item: "wood", Count: 15})
	testutil.AssertEqual(t, "container", second[1].Container, KindBackpack)
}

func TestContainer_SubscribeWithSnapshot(t *testing.T) {
	c := fill(NewBackpack(2), map[int]Slot{1: {Item: "wood", Count: 3}})

	var got []ChangeEvent
	c.SubscribeWithSnapshot(func(ev ChangeEvent) { got = append(got, ev) })

	testutil.AssertEqual(t, "events", len(got), 1)
	testutil.AssertEqual(t, "op", got[0].Op, OpReset)
	testutil.AssertEqual(t, "slots", len(got[0].Slots), 2)
	testutil.AssertEqual(t, "slot 1", got[0].Slots[1], Slot{Item: "wood", Count: 3})
}

func TestContainer_Count(t *testing.T) {
	c := fill(NewBackpack(4), map[int]Slot{
		0: {Item: "wood", Count: 50},
		2: {Item: "wood", Count: 7},
		3: {Item: "stone", Count: 1},
	})

	testutil.AssertEqual(t, "wood", c.Count("wood"), uint(57))
	testutil.AssertEqual(t, "stone", c.Count("stone"), uint(1))
	testutil.AssertEqual(t, "potion", c.Count("potion"), uint(0))
	testutil.AssertEqual(t, "free", c.FreeSlots(), 1)

	_, ok := c.Slot(4)
	testutil.AssertEqual(t, "out of range", ok, false)
}

func TestKind_UnmarshalText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("equipment")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "kind", k, KindEquipment)
	testutil.AssertErrorContains(t, k.UnmarshalText([]byte("pocket")), "unknown container kind")
}
