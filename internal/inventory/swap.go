package inventory

import (
	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/storage"
)

// resolveSwap equips one unit from the source over an occupied equipment
// slot. The unit that was equipped goes back to the source container: first
// to the source index if that is now empty, then onto a matching stack, then
// into any free slot. If it fits nowhere the whole swap is rejected.
func (t *transfer) resolveSwap(d Slot) (Applied, error) {
	dDef, ok := t.cat.Get(d.Item)
	if !ok {
		return Applied{}, rejectAt(SideDestination, t.dst, t.dstIndex, ErrUnknownItem)
	}

	// Between two equipment slots the outgoing item has to be wearable where
	// the incoming one came from.
	if t.src.kind == KindEquipment && !t.src.accepts(t.srcIndex, dDef.Equip) {
		return Applied{}, rejectAt(SideSource, t.src, t.srcIndex, ErrEquipIncompatible)
	}

	t.p.set(t.src, t.srcIndex, t.s.take(1))
	t.p.set(t.dst, t.dstIndex, Slot{Item: t.s.Item, Count: 1})

	if left := place(t.p, t.src, d.Item, dDef, d.Count, t.srcIndex); left > 0 {
		return Applied{}, rejectAt(SideSource, t.src, t.srcIndex, ErrNoRoomForDisplaced)
	}

	return Applied{
		Moved:     1,
		Swapped:   true,
		Displaced: t.p.get(t.src, t.srcIndex).Item != d.Item,
	}, nil
}

// place puts n units of id into c within the plan and returns what did not
// fit. The preferred index, when non-negative, is tried first if it is empty;
// then existing stacks are topped up in slot order; then empty slots are
// filled in slot order.
func place(p *plan, c *Container, id storage.Identifier, def *item.Definition, n uint, preferred int) uint {
	limit := c.capacity(def.MaxStack)
	if limit == 0 {
		return n
	}

	if n > 0 && c.inRange(preferred) {
		if s := p.get(c, preferred); s.Empty() && c.accepts(preferred, def.Equip) {
			k := min(n, limit)
			p.set(c, preferred, Slot{Item: id, Count: k})
			n -= k
		}
	}

	for i := 0; i < c.Len() && n > 0; i++ {
		s := p.get(c, i)
		if s.Item != id || s.Count >= limit || !c.accepts(i, def.Equip) {
			continue
		}
		k := min(n, limit-s.Count)
		p.set(c, i, Slot{Item: id, Count: s.Count + k})
		n -= k
	}

	for i := 0; i < c.Len() && n > 0; i++ {
		s := p.get(c, i)
		if !s.Empty() || !c.accepts(i, def.Equip) {
			continue
		}
		k := min(n, limit)
		p.set(c, i, Slot{Item: id, Count: k})
		n -= k
	}

	return n
}
