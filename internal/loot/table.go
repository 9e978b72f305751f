package loot

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/storage"
)

// MaxAmountSpan is the widest max - min a row may declare.
const MaxAmountSpan = math.MaxInt32 - 1

// Row is one possible outcome of a roll.
type Row struct {
	Item   storage.Identifier `json:"item"`
	Min    uint               `json:"min"`
	Max    uint               `json:"max"`
	Chance float64            `json:"chance,omitempty"`
	Weight float64            `json:"weight,omitempty"`
	// MaxPerAward caps the total amount of Item in one award. Zero is unlimited.
	MaxPerAward uint `json:"max_per_award,omitempty"`
}

// UnmarshalJSON defaults an omitted max to min.
func (r *Row) UnmarshalJSON(b []byte) error {
	type alias Row
	aux := struct {
		*alias
		Max *uint `json:"max"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Max != nil {
		r.Max = *aux.Max
	} else {
		r.Max = r.Min
	}
	return nil
}

func (r Row) Validate() error {
	el := errors.NewErrorList()

	if r.Item == "" {
		el.Add(fmt.Errorf("item is required"))
	}
	if r.Min < 1 {
		el.Add(fmt.Errorf("min must be at least 1"))
	}
	if r.Max < r.Min {
		el.Add(fmt.Errorf("max (%d) must be at least min (%d)", r.Max, r.Min))
	} else if r.Max-r.Min > MaxAmountSpan {
		el.Add(fmt.Errorf("max - min must be at most %d", MaxAmountSpan))
	}
	if math.IsNaN(r.Chance) || r.Chance < 0 || r.Chance > 1 {
		el.Add(fmt.Errorf("chance must be between 0 and 1, got %v", r.Chance))
	}
	if math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) || r.Weight < 0 {
		el.Add(fmt.Errorf("weight must be a non-negative number, got %v", r.Weight))
	}

	return el.Err()
}

// effectiveWeight is the weight used by weighted selection; rows without a
// weight fall back to their chance.
func (r Row) effectiveWeight() float64 {
	if r.Weight > 0 {
		return r.Weight
	}
	return r.Chance
}

// Table is a reusable, read-only list of rows shared between sources.
type Table struct {
	Rows []Row `json:"rows"`
	// DefaultTotalCap limits the units of one award when the source sets no cap.
	DefaultTotalCap uint `json:"default_total_cap,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (t *Table) Validate() error {
	el := errors.NewErrorList()

	if len(t.Rows) == 0 {
		el.Add(fmt.Errorf("table must have at least one row"))
	}
	for i, r := range t.Rows {
		if err := r.Validate(); err != nil {
			el.Add(fmt.Errorf("row %d: %w", i, err))
		}
	}

	return el.Err()
}

// Mode selects how rows are drawn.
type Mode string

const (
	// ModeWeightedOne draws exactly one row, proportional to weight.
	ModeWeightedOne Mode = "weighted_one"
	// ModeIndependentChance tests every row on its own.
	ModeIndependentChance Mode = "independent_chance"
)

func (m Mode) Validate() error {
	switch m {
	case ModeWeightedOne, ModeIndependentChance:
		return nil
	case "":
		return fmt.Errorf("mode is required (must be %s or %s)", ModeWeightedOne, ModeIndependentChance)
	default:
		return fmt.Errorf("invalid mode: %s (must be %s or %s)", m, ModeWeightedOne, ModeIndependentChance)
	}
}

// Lifecycle decides what happens to a source once it has been consumed.
type Lifecycle string

const (
	// LifecycleKeep leaves a consumed source in the world.
	LifecycleKeep Lifecycle = "keep"
	// LifecycleDestroy removes a consumed source from the world.
	LifecycleDestroy Lifecycle = "destroy"
)

func (l Lifecycle) Validate() error {
	switch l {
	case LifecycleKeep, LifecycleDestroy:
		return nil
	default:
		return fmt.Errorf("invalid lifecycle: %q (must be %s or %s)", l, LifecycleKeep, LifecycleDestroy)
	}
}
