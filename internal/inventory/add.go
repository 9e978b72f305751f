package inventory

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/storage"
)

// AddToContainer places amount units of id into c, topping up existing stacks
// before opening new ones, and returns how many units did not fit. A non-zero
// leftover is not an error; the caller decides whether partial success is
// acceptable. Unknown items are rejected without placing anything.
func AddToContainer(cat Catalog, c *Container, id storage.Identifier, amount uint) (leftover uint, err error) {
	def, ok := cat.Get(id)
	if !ok {
		return amount, fmt.Errorf("adding %q: %w", id, ErrUnknownItem)
	}
	if c == nil || amount == 0 {
		return amount, nil
	}

	p := newPlan(c)
	leftover = place(p, c, id, def, amount, -1)
	p.commit()

	return leftover, nil
}

// RemoveFromContainer takes up to amount units of id out of c, emptying the
// last stacks first, and returns how many were removed.
func RemoveFromContainer(c *Container, id storage.Identifier, amount uint) uint {
	if c == nil || amount == 0 {
		return 0
	}

	p := newPlan(c)
	var removed uint
	for i := c.Len() - 1; i >= 0 && removed < amount; i-- {
		s := p.get(c, i)
		if s.Item != id || s.Empty() {
			continue
		}
		k := min(amount-removed, s.Count)
		p.set(c, i, s.take(k))
		removed += k
	}
	p.commit()

	return removed
}

// Restore replaces the contents of c with slots, for example when loading a
// saved actor. Slots that would break a container invariant are dropped and
// reported in the returned error; the rest are kept. Observers receive a
// single reset event.
func Restore(cat Catalog, c *Container, slots []Slot) error {
	el := errors.NewErrorList()
	next := make([]Slot, c.Len())

	for i, s := range slots {
		if s.Empty() {
			continue
		}
		if i >= c.Len() {
			el.Add(fmt.Errorf("slot %d: beyond %s size %d", i, c.kind, c.Len()))
			continue
		}
		def, ok := cat.Get(s.Item)
		if !ok {
			el.Add(fmt.Errorf("slot %d: %q: %w", i, s.Item, ErrUnknownItem))
			continue
		}
		if s.Count > c.capacity(def.MaxStack) {
			el.Add(fmt.Errorf("slot %d: %d x %q exceeds stack limit %d", i, s.Count, s.Item, c.capacity(def.MaxStack)))
			continue
		}
		if !c.accepts(i, def.Equip) {
			el.Add(fmt.Errorf("slot %d: %q: %w", i, s.Item, ErrEquipIncompatible))
			continue
		}
		next[i] = s
	}

	c.slots = next
	c.notify(ChangeEvent{Container: c.kind, Op: OpReset, Index: -1, Slots: c.Snapshot()})

	return el.Err()
}
