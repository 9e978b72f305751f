package loot

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/storage"
)

// Placement describes a loot source that exists in the world at startup. It
// either references a shared table or carries its own rows.
type Placement struct {
	Table     storage.SmartIdentifier[*Table] `json:"table"`
	Rows      []Row                           `json:"rows,omitempty"`
	Mode      Mode                            `json:"mode"`
	TotalCap  uint                            `json:"total_cap,omitempty"`
	AutoCap   bool                            `json:"auto_cap_non_stackables,omitempty"`
	Lifecycle Lifecycle                       `json:"lifecycle"`
	Position  Position                        `json:"position"`
	Respawn   string                          `json:"respawn,omitempty"` // duration string (e.g., "30s", "5m")
}

// Validate satisfies storage.ValidatingSpec.
func (p *Placement) Validate() error {
	el := errors.NewErrorList()

	switch {
	case p.Table.IsSet() && len(p.Rows) > 0:
		el.Add(fmt.Errorf("table and rows are mutually exclusive"))
	case !p.Table.IsSet() && len(p.Rows) == 0:
		el.Add(fmt.Errorf("either table or rows is required"))
	}
	for i, r := range p.Rows {
		if err := r.Validate(); err != nil {
			el.Add(fmt.Errorf("row %d: %w", i, err))
		}
	}

	el.Add(p.Mode.Validate())
	el.Add(p.Lifecycle.Validate())

	if p.Respawn != "" {
		d, err := time.ParseDuration(p.Respawn)
		switch {
		case err != nil:
			el.Add(fmt.Errorf("invalid respawn %q: %w", p.Respawn, err))
		case d <= 0:
			el.Add(fmt.Errorf("respawn must be positive"))
		case p.Lifecycle == LifecycleDestroy:
			el.Add(fmt.Errorf("respawn is only valid with lifecycle %s", LifecycleKeep))
		}
	}

	return el.Err()
}

// Resolve binds the table reference, if any.
func (p *Placement) Resolve(tables storage.Storer[*Table]) error {
	if !p.Table.IsSet() {
		return nil
	}
	return p.Table.Resolve(tables)
}

// RespawnAfter is how long a consumed source waits before it is restocked.
// Zero means never.
func (p *Placement) RespawnAfter() time.Duration {
	d, err := time.ParseDuration(p.Respawn)
	if err != nil {
		return 0
	}
	return d
}

// Spawn creates a fresh, available source from the placement.
func (p *Placement) Spawn(id string) (*Source, error) {
	if p.Table.IsSet() && p.Table.Get() == nil {
		return nil, fmt.Errorf("unable to spawn from unresolved table %q", p.Table.Id())
	}
	return &Source{
		Id:        id,
		Mode:      p.Mode,
		Rows:      p.Rows,
		Table:     p.Table.Get(),
		TotalCap:  p.TotalCap,
		AutoCap:   p.AutoCap,
		Lifecycle: p.Lifecycle,
		Position:  p.Position,
	}, nil
}
