package loot

import (
	"errors"
	"math"
	"sync"
	"time"
)

var ErrSourceUnavailable = errors.New("loot source is not available")

// State is where a source is in its lifecycle.
type State int

const (
	StateAvailable State = iota
	StateConsumed
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateConsumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// Position is a point in world space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the euclidean distance between p and o.
func (p Position) Distance(o Position) float64 {
	return math.Sqrt((p.X-o.X)*(p.X-o.X) + (p.Y-o.Y)*(p.Y-o.Y) + (p.Z-o.Z)*(p.Z-o.Z))
}

// Source is a lootable object in the world. Its configuration is fixed at
// creation; only its state changes, and only through Consume and Restock.
type Source struct {
	Id        string
	Mode      Mode
	Rows      []Row // inline rows, used when Table is nil
	Table     *Table
	TotalCap  uint
	AutoCap   bool // cap non-stackable items at one per award
	Lifecycle Lifecycle
	Position  Position

	mu         sync.Mutex
	state      State
	consumedAt time.Time
}

// Outcomes returns the rows the source rolls against.
func (s *Source) Outcomes() []Row {
	if s.Table != nil {
		return s.Table.Rows
	}
	return s.Rows
}

// HasOutcomes reports whether at least one row names an item.
func (s *Source) HasOutcomes() bool {
	for _, r := range s.Outcomes() {
		if r.Item != "" {
			return true
		}
	}
	return false
}

// totalCap is the source cap, or the table default when the source has none.
func (s *Source) totalCap() uint {
	if s.TotalCap > 0 {
		return s.TotalCap
	}
	if s.Table != nil {
		return s.Table.DefaultTotalCap
	}
	return 0
}

func (s *Source) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Source) Available() bool {
	return s.State() == StateAvailable
}

// Consume moves the source from Available to Consumed. Only the first caller
// succeeds; everyone after gets ErrSourceUnavailable.
func (s *Source) Consume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAvailable {
		return ErrSourceUnavailable
	}
	s.state = StateConsumed
	s.consumedAt = time.Now()
	return nil
}

// ConsumedAt returns when the source was consumed, zero while available.
func (s *Source) ConsumedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConsumed {
		return time.Time{}
	}
	return s.consumedAt
}

// Restock makes a consumed source available again.
func (s *Source) Restock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAvailable
	s.consumedAt = time.Time{}
}
