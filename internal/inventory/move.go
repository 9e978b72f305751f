package inventory

import (
	"github.com/pixil98/go-stash/internal/item"
)

// Applied describes what a successful Move did.
type Applied struct {
	// Moved is the number of units that left the source slot.
	Moved uint `json:"moved"`
	// Swapped is set when the destination contents went back to the source side.
	Swapped bool `json:"swapped,omitempty"`
	// Displaced is set when an equip swap placed the outgoing unit somewhere
	// other than the source index.
	Displaced bool `json:"displaced,omitempty"`
}

// Move transfers units from src[srcIndex] to dst[dstIndex]. An amount of zero
// moves everything available, capped by what fits. Either the whole transfer
// is applied or nothing is, and the error wraps one of the Err* sentinels.
func Move(cat Catalog, src *Container, srcIndex int, dst *Container, dstIndex int, amount uint) (Applied, error) {
	if !src.inRange(srcIndex) {
		return Applied{}, rejectAt(SideSource, src, srcIndex, ErrIndexOutOfRange)
	}
	if !dst.inRange(dstIndex) {
		return Applied{}, rejectAt(SideDestination, dst, dstIndex, ErrIndexOutOfRange)
	}

	p := newPlan(src, dst)
	applied, err := resolveMove(cat, p, src, srcIndex, dst, dstIndex, amount)
	if err != nil {
		return Applied{}, err
	}

	p.commit()
	return applied, nil
}

// transfer is one resolved Move request.
type transfer struct {
	cat      Catalog
	p        *plan
	src      *Container
	srcIndex int
	dst      *Container
	dstIndex int
	amount   uint

	s   Slot
	def *item.Definition
}

func resolveMove(cat Catalog, p *plan, src *Container, srcIndex int, dst *Container, dstIndex int, amount uint) (Applied, error) {
	s := p.get(src, srcIndex)
	if s.Empty() {
		return Applied{}, rejectAt(SideSource, src, srcIndex, ErrSourceEmpty)
	}

	def, ok := cat.Get(s.Item)
	if !ok {
		return Applied{}, rejectAt(SideSource, src, srcIndex, ErrUnknownItem)
	}

	if src == dst && srcIndex == dstIndex {
		return Applied{}, nil
	}

	t := &transfer{
		cat:      cat,
		p:        p,
		src:      src,
		srcIndex: srcIndex,
		dst:      dst,
		dstIndex: dstIndex,
		amount:   amount,
		s:        s,
		def:      def,
	}

	if dst.kind == KindEquipment {
		return t.equip()
	}
	return t.general()
}

// want is the number of units requested, limited to what the source holds.
func (t *transfer) want() uint {
	if t.amount == 0 || t.amount > t.s.Count {
		return t.s.Count
	}
	return t.amount
}

// equip handles a destination in an equipment container.
func (t *transfer) equip() (Applied, error) {
	if !t.def.Equippable() || !t.dst.accepts(t.dstIndex, t.def.Equip) {
		return Applied{}, rejectAt(SideDestination, t.dst, t.dstIndex, ErrEquipIncompatible)
	}

	d := t.p.get(t.dst, t.dstIndex)
	if d.Empty() {
		t.p.set(t.dst, t.dstIndex, Slot{Item: t.s.Item, Count: 1})
		t.p.set(t.src, t.srcIndex, t.s.take(1))
		return Applied{Moved: 1}, nil
	}

	return t.resolveSwap(d)
}

// general handles a destination in a backpack-like container.
func (t *transfer) general() (Applied, error) {
	d := t.p.get(t.dst, t.dstIndex)

	switch {
	case d.Empty():
		n := min(t.want(), t.dst.capacity(t.def.MaxStack))
		t.p.set(t.dst, t.dstIndex, Slot{Item: t.s.Item, Count: n})
		t.p.set(t.src, t.srcIndex, t.s.take(n))
		return Applied{Moved: n}, nil

	case d.Item == t.s.Item:
		// Swapping two identical single units changes nothing.
		if t.def.MaxStack <= 1 {
			return Applied{Swapped: true}, nil
		}
		var room uint
		if limit := t.dst.capacity(t.def.MaxStack); d.Count < limit {
			room = limit - d.Count
		}
		n := min(t.want(), room)
		if n == 0 {
			return Applied{}, rejectAt(SideDestination, t.dst, t.dstIndex, ErrStackFull)
		}
		t.p.set(t.dst, t.dstIndex, Slot{Item: d.Item, Count: d.Count + n})
		t.p.set(t.src, t.srcIndex, t.s.take(n))
		return Applied{Moved: n}, nil

	default:
		return t.exchange(d)
	}
}

// exchange swaps two whole slots. When the source is an equipment slot the
// incoming contents must be allowed there.
func (t *transfer) exchange(d Slot) (Applied, error) {
	if t.src.kind == KindEquipment {
		dDef, ok := t.cat.Get(d.Item)
		if !ok {
			return Applied{}, rejectAt(SideDestination, t.dst, t.dstIndex, ErrUnknownItem)
		}
		if !t.src.accepts(t.srcIndex, dDef.Equip) {
			return Applied{}, rejectAt(SideSource, t.src, t.srcIndex, ErrEquipIncompatible)
		}
		if d.Count > t.src.capacity(dDef.MaxStack) {
			return Applied{}, rejectAt(SideSource, t.src, t.srcIndex, ErrStackFull)
		}
	}

	t.p.set(t.src, t.srcIndex, d)
	t.p.set(t.dst, t.dstIndex, t.s)
	return Applied{Moved: t.s.Count, Swapped: true}, nil
}
