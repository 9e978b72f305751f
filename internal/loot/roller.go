package loot

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/storage"
)

// Catalog resolves item ids to their definitions.
type Catalog interface {
	Get(storage.Identifier) (*item.Definition, bool)
}

// RNG is the randomness a Roller draws from. *rand.Rand satisfies it.
type RNG interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

// Pick is one item and amount produced by a roll.
type Pick struct {
	Item   storage.Identifier `json:"item"`
	Amount uint               `json:"amount"`
}

// Roller turns a source's rows into picks. It is safe for concurrent use.
type Roller struct {
	mu  sync.Mutex
	rng RNG
}

// NewRoller returns a roller backed by a PCG generator. A zero seed picks a
// random one, which is logged so a run can be reproduced.
func NewRoller(seed uint64) *Roller {
	if seed == 0 {
		seed = rand.Uint64()
		slog.Info("loot roller seeded", "seed", seed)
	}
	return NewRollerWithRNG(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func NewRollerWithRNG(rng RNG) *Roller {
	return &Roller{rng: rng}
}

// Roll draws picks from src. Amounts of the same item are summed in the
// order the item first appeared, then per-item and total caps are applied.
// Roll does not look at or change the source's state.
func (r *Roller) Roll(cat Catalog, src *Source) []Pick {
	if src == nil {
		return nil
	}
	rows := src.Outcomes()

	var raw []Pick
	r.mu.Lock()
	switch src.Mode {
	case ModeWeightedOne:
		raw = r.weightedOne(rows)
	case ModeIndependentChance:
		raw = r.independent(rows)
	}
	r.mu.Unlock()

	return applyCaps(cat, rows, raw, src.AutoCap, src.totalCap())
}

func (r *Roller) weightedOne(rows []Row) []Pick {
	var total float64
	for _, row := range rows {
		if row.Item != "" {
			total += row.effectiveWeight()
		}
	}
	if total <= 0 {
		return nil
	}

	x := r.rng.Float64() * total
	var acc float64
	last := -1
	for i, row := range rows {
		w := row.effectiveWeight()
		if row.Item == "" || w <= 0 {
			continue
		}
		last = i
		acc += w
		if acc >= x {
			return []Pick{{Item: row.Item, Amount: r.amount(row)}}
		}
	}

	// Rounding can leave x a hair above the final sum.
	if last >= 0 {
		return []Pick{{Item: rows[last].Item, Amount: r.amount(rows[last])}}
	}
	return nil
}

func (r *Roller) independent(rows []Row) []Pick {
	// Rows without a chance share the weight pool.
	var pool float64
	for _, row := range rows {
		if row.Chance == 0 && row.Weight > 0 {
			pool += row.Weight
		}
	}

	var picks []Pick
	for _, row := range rows {
		if row.Item == "" {
			continue
		}

		var p float64
		switch {
		case row.Chance > 0:
			p = row.Chance
		case row.Weight > 0 && pool > 0:
			p = row.Weight / pool
		default:
			continue
		}

		if r.rng.Float64() < p || p >= 1 {
			picks = append(picks, Pick{Item: row.Item, Amount: r.amount(row)})
		}
	}
	return picks
}

// amount draws uniformly from [Min, Max]. Spans wider than MaxAmountSpan are
// narrowed so the draw always fits in an int.
func (r *Roller) amount(row Row) uint {
	span := min(max(row.Max, row.Min)-row.Min, MaxAmountSpan)
	return row.Min + uint(r.rng.IntN(int(span)+1))
}

func applyCaps(cat Catalog, rows []Row, raw []Pick, autoCap bool, totalCap uint) []Pick {
	var order []storage.Identifier
	sums := make(map[storage.Identifier]uint)
	for _, p := range raw {
		if _, ok := sums[p.Item]; !ok {
			order = append(order, p.Item)
		}
		sums[p.Item] += p.Amount
	}

	budget := totalCap
	var out []Pick
	for _, id := range order {
		n := sums[id]
		if limit := itemCap(cat, rows, id, autoCap); limit > 0 {
			n = min(n, limit)
		}
		if totalCap > 0 {
			n = min(n, budget)
			budget -= n
		}
		if n == 0 {
			continue
		}
		out = append(out, Pick{Item: id, Amount: n})
	}
	return out
}

// itemCap returns the per-award limit for id, zero when unlimited. Items the
// catalog does not know are treated as stackable.
func itemCap(cat Catalog, rows []Row, id storage.Identifier, autoCap bool) uint {
	for _, row := range rows {
		if row.Item == id && row.MaxPerAward > 0 {
			return row.MaxPerAward
		}
	}
	if autoCap && cat != nil {
		if def, ok := cat.Get(id); ok && def.MaxStack <= 1 {
			return 1
		}
	}
	return 0
}
