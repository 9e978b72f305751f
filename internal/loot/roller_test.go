package loot

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/storage"
	"github.com/pixil98/go-testutil"
)

// scriptedRNG replays fixed values; once a script runs out it returns zero.
type scriptedRNG struct {
	floats []float64
	ints   []int
}

func (s *scriptedRNG) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedRNG) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func newTestCatalog() *item.Catalog {
	return item.NewCatalog(storage.NewMemoryStore(map[storage.Identifier]*item.Definition{
		"gold":   {KindStr: "currency", MaxStack: 1000},
		"gem":    {KindStr: "stackable", MaxStack: 20},
		"potion": {KindStr: "consumable", MaxStack: 100},
		"sword":  {KindStr: "equipment", MaxStack: 1, Equip: item.CapMainHand},
		"relic":  {KindStr: "unique", MaxStack: 1},
	}))
}

func TestRoller_Roll(t *testing.T) {
	tests := map[string]struct {
		src    *Source
		floats []float64
		ints   []int
		exp    []Pick
	}{
		"weighted one picks first row": {
			src: &Source{Mode: ModeWeightedOne, Rows: []Row{
				{Item: "gold", Min: 1, Max: 1, Weight: 3},
				{Item: "gem", Min: 1, Max: 1, Weight: 1},
			}},
			floats: []float64{0.5},
			exp:    []Pick{{Item: "gold", Amount: 1}},
		},
		"weighted one picks second row": {
			src: &Source{Mode: ModeWeightedOne, Rows: []Row{
				{Item: "gold", Min: 1, Max: 1, Weight: 3},
				{Item: "gem", Min: 1, Max: 1, Weight: 1},
			}},
			floats: []float64{0.8},
			exp:    []Pick{{Item: "gem", Amount: 1}},
		},
		"weighted one never picks a zero weight row": {
			src: &Source{Mode: ModeWeightedOne, Rows: []Row{
				{Item: "relic", Min: 1, Max: 1},
				{Item: "gem", Min: 1, Max: 1, Weight: 2},
			}},
			floats: []float64{0},
			exp:    []Pick{{Item: "gem", Amount: 1}},
		},
		"weighted one falls back to chance as weight": {
			src: &Source{Mode: ModeWeightedOne, Rows: []Row{
				{Item: "gold", Min: 1, Max: 1, Chance: 0.5},
				{Item: "gem", Min: 1, Max: 1, Chance: 0.5},
			}},
			floats: []float64{0.75},
			exp:    []Pick{{Item: "gem", Amount: 1}},
		},
		"weighted one with nothing to draw": {
			src: &Source{Mode: ModeWeightedOne, Rows: []Row{
				{Item: "gold", Min: 1, Max: 1},
			}},
			exp: nil,
		},
		"amount within bounds": {
			src: &Source{Mode: ModeWeightedOne, Rows: []Row{
				{Item: "gold", Min: 10, Max: 20, Weight: 1},
			}},
			ints: []int{7},
			exp:  []Pick{{Item: "gold", Amount: 17}},
		},
		"independent includes rows under their chance": {
			src: &Source{Mode: ModeIndependentChance, Rows: []Row{
				{Item: "gold", Min: 5, Max: 5, Chance: 0.5},
				{Item: "gem", Min: 1, Max: 1, Chance: 0.5},
				{Item: "potion", Min: 2, Max: 2, Chance: 0.1},
			}},
			floats: []float64{0.2, 0.9, 0.05},
			exp:    []Pick{{Item: "gold", Amount: 5}, {Item: "potion", Amount: 2}},
		},
		"independent chance of one always hits": {
			src: &Source{Mode: ModeIndependentChance, Rows: []Row{
				{Item: "gem", Min: 1, Max: 1, Chance: 1},
			}},
			floats: []float64{0.9999999},
			exp:    []Pick{{Item: "gem", Amount: 1}},
		},
		"independent weight rows share a pool": {
			src: &Source{Mode: ModeIndependentChance, Rows: []Row{
				{Item: "gold", Min: 1, Max: 1, Weight: 1},
				{Item: "gem", Min: 1, Max: 1, Weight: 3},
			}},
			floats: []float64{0.3, 0.7},
			exp:    []Pick{{Item: "gem", Amount: 1}},
		},
		"aggregates by item in first seen order": {
			src: &Source{Mode: ModeIndependentChance, Rows: []Row{
				{Item: "gem", Min: 2, Max: 2, Chance: 1},
				{Item: "gold", Min: 3, Max: 3, Chance: 1},
				{Item: "gem", Min: 4, Max: 4, Chance: 1},
			}},
			exp: []Pick{{Item: "gem", Amount: 6}, {Item: "gold", Amount: 3}},
		},
		"first non-zero max per award wins": {
			src: &Source{Mode: ModeIndependentChance, Rows: []Row{
				{Item: "gem", Min: 5, Max: 5, Chance: 1},
				{Item: "gem", Min: 5, Max: 5, Chance: 1, MaxPerAward: 4},
				{Item: "gem", Min: 5, Max: 5, Chance: 1, MaxPerAward: 8},
			}},
			exp: []Pick{{Item: "gem", Amount: 4}},
		},
		"auto cap non stackables": {
			src: &Source{Mode: ModeIndependentChance, AutoCap: true, Rows: []Row{
				{Item: "sword", Min: 3, Max: 3, Chance: 1},
				{Item: "gem", Min: 3, Max: 3, Chance: 1},
				{Item: "unknown-thing", Min: 3, Max: 3, Chance: 1},
			}},
			exp: []Pick{{Item: "sword", Amount: 1}, {Item: "gem", Amount: 3}, {Item: "unknown-thing", Amount: 3}},
		},
		"non stackables uncapped without auto cap": {
			src: &Source{Mode: ModeIndependentChance, Rows: []Row{
				{Item: "sword", Min: 3, Max: 3, Chance: 1},
			}},
			exp: []Pick{{Item: "sword", Amount: 3}},
		},
		"total cap trims the boundary item and drops the rest": {
			src: &Source{Mode: ModeIndependentChance, TotalCap: 7, Rows: []Row{
				{Item: "gold", Min: 5, Max: 5, Chance: 1},
				{Item: "gem", Min: 5, Max: 5, Chance: 1},
				{Item: "potion", Min: 5, Max: 5, Chance: 1},
			}},
			exp: []Pick{{Item: "gold", Amount: 5}, {Item: "gem", Amount: 2}},
		},
		"table default total cap": {
			src: &Source{Mode: ModeIndependentChance, Table: &Table{
				DefaultTotalCap: 3,
				Rows:            []Row{{Item: "gold", Min: 5, Max: 5, Chance: 1}},
			}},
			exp: []Pick{{Item: "gold", Amount: 3}},
		},
		"source cap overrides table default": {
			src: &Source{Mode: ModeIndependentChance, TotalCap: 4, Table: &Table{
				DefaultTotalCap: 3,
				Rows:            []Row{{Item: "gold", Min: 5, Max: 5, Chance: 1}},
			}},
			exp: []Pick{{Item: "gold", Amount: 4}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewRollerWithRNG(&scriptedRNG{floats: tt.floats, ints: tt.ints})
			got := r.Roll(newTestCatalog(), tt.src)
			testutil.AssertEqual(t, "picks", got, tt.exp)
		})
	}
}

func TestRoller_WeightedDistribution(t *testing.T) {
	src := &Source{Mode: ModeWeightedOne, Rows: []Row{
		{Item: "gold", Min: 1, Max: 1, Weight: 3},
		{Item: "gem", Min: 1, Max: 1, Weight: 1},
	}}
	r := NewRollerWithRNG(rand.New(rand.NewPCG(42, 1024)))
	cat := newTestCatalog()

	const trials = 20000
	gold := 0
	for range trials {
		picks := r.Roll(cat, src)
		if len(picks) != 1 {
			t.Fatalf("expected exactly one pick, got %v", picks)
		}
		if picks[0].Item == "gold" {
			gold++
		}
	}

	share := float64(gold) / trials
	if share < 0.73 || share > 0.77 {
		t.Errorf("expected gold share near 0.75, got %.3f", share)
	}
}

func TestRoller_CappedPotion(t *testing.T) {
	src := &Source{Mode: ModeIndependentChance, Table: &Table{Rows: []Row{
		{Item: "potion", Min: 5, Max: 5, Chance: 1, MaxPerAward: 3},
	}}}
	r := NewRoller(99)
	cat := newTestCatalog()

	for range 100 {
		testutil.AssertEqual(t, "picks", r.Roll(cat, src), []Pick{{Item: "potion", Amount: 3}})
	}
}

func TestRoller_AmountsStayInBounds(t *testing.T) {
	src := &Source{Mode: ModeIndependentChance, Rows: []Row{
		{Item: "gold", Min: 2, Max: 9, Chance: 1},
	}}
	r := NewRoller(7)
	cat := newTestCatalog()

	seen := map[uint]bool{}
	for range 1000 {
		picks := r.Roll(cat, src)
		if len(picks) != 1 || picks[0].Amount < 2 || picks[0].Amount > 9 {
			t.Fatalf("pick out of bounds: %v", picks)
		}
		seen[picks[0].Amount] = true
	}
	testutil.AssertEqual(t, "distinct amounts", len(seen), 8)
}

func TestRoller_WideAmountSpan(t *testing.T) {
	tests := map[string]struct {
		row Row
	}{
		"widest valid span": {
			row: Row{Item: "gold", Min: 1, Max: 1 + MaxAmountSpan, Chance: 1},
		},
		"span past the limit": {
			row: Row{Item: "gold", Min: 1, Max: math.MaxUint, Chance: 1},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewRoller(1)
			src := &Source{Mode: ModeIndependentChance, Rows: []Row{tt.row}}

			for range 100 {
				picks := r.Roll(nil, src)
				testutil.AssertEqual(t, "picks", len(picks), 1)
				if picks[0].Amount < tt.row.Min || picks[0].Amount > tt.row.Max {
					t.Fatalf("amount %d outside [%d, %d]", picks[0].Amount, tt.row.Min, tt.row.Max)
				}
			}
		})
	}
}

func TestRoller_Concurrent(t *testing.T) {
	src := &Source{Mode: ModeWeightedOne, Rows: []Row{{Item: "gold", Min: 1, Max: 3, Weight: 1}}}
	r := NewRoller(1)
	cat := newTestCatalog()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				if picks := r.Roll(cat, src); len(picks) != 1 {
					t.Errorf("expected one pick, got %v", picks)
					return
				}
			}
		}()
	}
	wg.Wait()
}
