package inventory

import (
	"slices"
)

type pendingEvent struct {
	c  *Container
	ev ChangeEvent
}

type slotRef struct {
	c     *Container
	index int
}

// plan is a scratch copy of the containers an operation touches. Every rule
// is evaluated against the plan; only a fully successful plan is committed,
// so a rejected operation never leaves a partial write behind.
type plan struct {
	views   map[*Container][]Slot
	touched []slotRef
}

func newPlan(cs ...*Container) *plan {
	p := &plan{views: make(map[*Container][]Slot, len(cs))}
	for _, c := range cs {
		if _, ok := p.views[c]; !ok {
			p.views[c] = slices.Clone(c.slots)
		}
	}
	return p
}

func (p *plan) get(c *Container, i int) Slot {
	return p.views[c][i]
}

func (p *plan) set(c *Container, i int, s Slot) {
	if s.Count == 0 {
		s = Slot{}
	}
	p.views[c][i] = s
	ref := slotRef{c: c, index: i}
	if !slices.Contains(p.touched, ref) {
		p.touched = append(p.touched, ref)
	}
}

// commit writes the planned slots in the order they were first touched and
// emits one event per slot whose value actually changed.
func (p *plan) commit() {
	var events []pendingEvent

	for _, ref := range p.touched {
		old := ref.c.slots[ref.index]
		next := p.views[ref.c][ref.index]
		if old == next {
			continue
		}
		ref.c.slots[ref.index] = next
		events = append(events, pendingEvent{
			c:  ref.c,
			ev: ChangeEvent{Container: ref.c.kind, Op: OpSet, Index: ref.index, Old: old, New: next},
		})
	}

	// Observers run after every write so they always see a consistent state.
	for _, e := range events {
		e.c.notify(e.ev)
	}
}
