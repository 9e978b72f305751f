package inventory

import (
	"maps"
	"slices"
	"sync"

	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/storage"
)

const (
	// MaxBackpackSize bounds general-purpose containers.
	MaxBackpackSize = 200
	// MaxEquipmentSize bounds equipment containers.
	MaxEquipmentSize = 32
)

// ChangeOp is the kind of change a ChangeEvent describes.
type ChangeOp string

const (
	// OpSet means the slot at Index went from Old to New.
	OpSet ChangeOp = "set"
	// OpReset carries the full contents in Slots (initial sync or restore).
	OpReset ChangeOp = "reset"
)

// ChangeEvent is emitted to observers after every authoritative change.
type ChangeEvent struct {
	Container Kind     `json:"container"`
	Op        ChangeOp `json:"op"`
	Index     int      `json:"index"`
	Old       Slot     `json:"old"`
	New       Slot     `json:"new"`
	Slots     []Slot   `json:"slots,omitempty"`
}

// Observer receives change events. It must not block or mutate the container.
type Observer func(ChangeEvent)

// Container is a fixed-size ordered array of slots. Slots are only changed by
// the mutation functions in this package; callers serialize access per owner.
type Container struct {
	kind   Kind
	slots  []Slot
	layout EquipmentLayout

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// NewBackpack creates a general container with size slots, clamped to
// [0, MaxBackpackSize].
func NewBackpack(size int) *Container {
	size = max(0, min(size, MaxBackpackSize))
	return &Container{
		kind:  KindBackpack,
		slots: make([]Slot, size),
	}
}

// NewEquipment creates an equipment container with one slot per layout entry,
// clamped to MaxEquipmentSize.
func NewEquipment(layout EquipmentLayout) *Container {
	if len(layout) > MaxEquipmentSize {
		layout = layout[:MaxEquipmentSize]
	}
	return &Container{
		kind:   KindEquipment,
		slots:  make([]Slot, len(layout)),
		layout: slices.Clone(layout),
	}
}

func (c *Container) Kind() Kind {
	return c.kind
}

func (c *Container) Len() int {
	return len(c.slots)
}

// Layout returns the equipment layout, nil for backpacks.
func (c *Container) Layout() EquipmentLayout {
	return c.layout
}

// Slot returns the slot at i.
func (c *Container) Slot(i int) (Slot, bool) {
	if !c.inRange(i) {
		return Slot{}, false
	}
	return c.slots[i], true
}

// Snapshot returns a copy of every slot.
func (c *Container) Snapshot() []Slot {
	return slices.Clone(c.slots)
}

// Count returns how many units of id the container holds in total.
func (c *Container) Count(id storage.Identifier) uint {
	var n uint
	for _, s := range c.slots {
		if s.Item == id {
			n += s.Count
		}
	}
	return n
}

// FreeSlots returns the number of empty slots.
func (c *Container) FreeSlots() int {
	n := 0
	for _, s := range c.slots {
		if s.Empty() {
			n++
		}
	}
	return n
}

// Subscribe registers an observer and returns a func that removes it.
func (c *Container) Subscribe(o Observer) (unsubscribe func()) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()

	if c.observers == nil {
		c.observers = make(map[int]Observer)
	}
	id := c.nextObs
	c.nextObs++
	c.observers[id] = o

	return func() {
		c.obsMu.Lock()
		defer c.obsMu.Unlock()
		delete(c.observers, id)
	}
}

// SubscribeWithSnapshot registers an observer and immediately sends it a
// reset event with the current contents.
func (c *Container) SubscribeWithSnapshot(o Observer) (unsubscribe func()) {
	unsub := c.Subscribe(o)
	o(ChangeEvent{Container: c.kind, Op: OpReset, Index: -1, Slots: c.Snapshot()})
	return unsub
}

func (c *Container) inRange(i int) bool {
	return c != nil && i >= 0 && i < len(c.slots)
}

// capacity is how many units of an item with the given max stack fit in one
// slot of this container. Equipment slots hold a single unit.
func (c *Container) capacity(maxStack uint) uint {
	if c.kind == KindEquipment {
		return 1
	}
	return maxStack
}

// accepts reports whether an item with mask may sit at index i.
func (c *Container) accepts(i int, mask item.Capability) bool {
	if c.kind != KindEquipment {
		return true
	}
	return c.layout.Accepts(i, mask)
}

func (c *Container) notify(ev ChangeEvent) {
	c.obsMu.Lock()
	obs := make([]Observer, 0, len(c.observers))
	for _, id := range slices.Sorted(maps.Keys(c.observers)) {
		obs = append(obs, c.observers[id])
	}
	c.obsMu.Unlock()

	for _, o := range obs {
		o(ev)
	}
}
