package game

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-stash/internal/award"
	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/item"
	"github.com/pixil98/go-stash/internal/loot"
	"github.com/pixil98/go-stash/internal/storage"
)

const (
	DefaultMaxLootDistance = 5.0
	DefaultBackpackSize    = 30
)

// World is the single authority over actors, their containers, and the loot
// sources placed in the world. All mutations go through its methods.
type World struct {
	mu      sync.RWMutex
	actors  map[storage.Identifier]*Actor
	sources map[string]*placedSource

	catalog    *item.Catalog
	bridge     *award.Bridge
	records    storage.Storer[*ActorRecord]
	notifier   Notifier
	replicator Replicator

	maxLootDistance float64
	backpackSize    int
	layout          inventory.EquipmentLayout
	now             func() time.Time
}

// placedSource is a loot source together with how the world maintains it.
type placedSource struct {
	placement storage.Identifier
	src       *loot.Source
	respawn   time.Duration
}

func NewWorld(catalog *item.Catalog, bridge *award.Bridge, opts ...WorldOpt) *World {
	w := &World{
		actors:          make(map[storage.Identifier]*Actor),
		sources:         make(map[string]*placedSource),
		catalog:         catalog,
		bridge:          bridge,
		maxLootDistance: DefaultMaxLootDistance,
		backpackSize:    DefaultBackpackSize,
		layout:          inventory.DefaultEquipmentLayout,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// SpawnPlacements creates one source per placement. Placements must already
// be resolved.
func (w *World) SpawnPlacements(ctx context.Context, placements storage.Storer[*loot.Placement]) error {
	all := placements.GetAll()
	for _, id := range slices.Sorted(maps.Keys(all)) {
		p := all[id]
		src, err := p.Spawn(uuid.NewString())
		if err != nil {
			return fmt.Errorf("spawning placement %q: %w", id, err)
		}
		for _, r := range src.Outcomes() {
			if _, ok := w.catalog.Get(r.Item); !ok {
				slog.WarnContext(ctx, "loot row references unknown item", "placement", id, "item", r.Item)
			}
		}
		w.addSource(id, src, p.RespawnAfter())
	}

	slog.InfoContext(ctx, "loot sources spawned", "count", len(all))
	return nil
}

// AddSource places a source in the world. A positive respawn restocks it
// that long after it is consumed; it only applies to sources that are kept.
func (w *World) AddSource(src *loot.Source, respawn time.Duration) {
	w.addSource("", src, respawn)
}

func (w *World) addSource(placement storage.Identifier, src *loot.Source, respawn time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sources[src.Id] = &placedSource{placement: placement, src: src, respawn: respawn}
}

// Source returns a source by id.
func (w *World) Source(id string) (*loot.Source, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ps, ok := w.sources[id]
	if !ok {
		return nil, false
	}
	return ps.src, true
}

// Sources returns every source currently in the world.
func (w *World) Sources() []*loot.Source {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*loot.Source, 0, len(w.sources))
	for _, id := range slices.Sorted(maps.Keys(w.sources)) {
		out = append(out, w.sources[id].src)
	}
	return out
}

// Actor returns an actor by id.
func (w *World) Actor(id storage.Identifier) (*Actor, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	a, ok := w.actors[id]
	return a, ok
}

// Join brings an actor into the world, restoring its saved containers if a
// record exists, and starts replicating its containers.
func (w *World) Join(ctx context.Context, id storage.Identifier, pos loot.Position) error {
	if !id.Valid() {
		return fmt.Errorf("invalid actor id %q", id)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.actors[id]; exists {
		return ErrActorExists
	}

	a := newActor(id, pos, w.backpackSize, w.layout)
	if w.records != nil {
		if rec, ok := w.records.Get(id); ok {
			if err := inventory.Restore(w.catalog, a.backpack, rec.Backpack); err != nil {
				slog.WarnContext(ctx, "dropped invalid backpack slots", "actor", id, "error", err)
			}
			if err := inventory.Restore(w.catalog, a.equipment, rec.Equipment); err != nil {
				slog.WarnContext(ctx, "dropped invalid equipment slots", "actor", id, "error", err)
			}
		}
	}

	w.replicate(a)

	w.actors[id] = a
	slog.InfoContext(ctx, "actor joined", "actor", id)
	return nil
}

// Leave saves an actor's containers and removes it from the world. The actor
// stays registered until the save finishes, so a rejoin under the same id is
// refused with ErrActorExists instead of restoring a stale record. Requests
// that arrive once leaving has started are rejected with ErrActorNotFound.
func (w *World) Leave(ctx context.Context, id storage.Identifier) error {
	a, ok := w.Actor(id)
	if !ok {
		return ErrActorNotFound
	}

	a.mu.Lock()
	if a.leaving {
		a.mu.Unlock()
		return ErrActorNotFound
	}
	a.leaving = true
	a.unwatch()
	rec := a.recordLocked()
	a.mu.Unlock()

	if w.records != nil {
		if err := w.records.Save(id, rec); err != nil {
			a.mu.Lock()
			a.leaving = false
			w.replicate(a)
			a.mu.Unlock()
			return fmt.Errorf("saving actor %q: %w", id, err)
		}
	}

	w.mu.Lock()
	if w.actors[id] == a {
		delete(w.actors, id)
	}
	w.mu.Unlock()

	slog.InfoContext(ctx, "actor left", "actor", id)
	return nil
}

// SetPosition updates where an actor is.
func (w *World) SetPosition(id storage.Identifier, pos loot.Position) error {
	a, ok := w.Actor(id)
	if !ok {
		return ErrActorNotFound
	}
	a.setPosition(pos)
	return nil
}

// RequestMove moves items between the actor's own containers. A rejected
// move leaves both containers untouched and notifies the actor.
func (w *World) RequestMove(ctx context.Context, actorId storage.Identifier, srcKind inventory.Kind, srcIndex int, dstKind inventory.Kind, dstIndex int, amount uint) (inventory.Applied, error) {
	a, ok := w.Actor(actorId)
	if !ok {
		return inventory.Applied{}, ErrActorNotFound
	}

	applied, err := w.move(a, srcKind, srcIndex, dstKind, dstIndex, amount)
	if err != nil {
		slog.DebugContext(ctx, "move rejected", "actor", actorId, "error", err)
		w.reject(ctx, actorId, err)
		return inventory.Applied{}, err
	}

	return applied, nil
}

func (w *World) move(a *Actor, srcKind inventory.Kind, srcIndex int, dstKind inventory.Kind, dstIndex int, amount uint) (inventory.Applied, error) {
	src, err := a.Container(srcKind)
	if err != nil {
		return inventory.Applied{}, err
	}
	dst, err := a.Container(dstKind)
	if err != nil {
		return inventory.Applied{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.leaving {
		return inventory.Applied{}, ErrActorNotFound
	}
	return inventory.Move(w.catalog, src, srcIndex, dst, dstIndex, amount)
}

// RequestLoot awards the contents of a source to an actor standing close
// enough to it. Requests from too far away are dropped without notifying the
// actor.
func (w *World) RequestLoot(ctx context.Context, actorId storage.Identifier, sourceId string) (award.Result, error) {
	a, ok := w.Actor(actorId)
	if !ok {
		return award.Result{}, ErrActorNotFound
	}

	src, ok := w.Source(sourceId)
	if !ok {
		w.reject(ctx, actorId, ErrSourceNotFound)
		return award.Result{}, ErrSourceNotFound
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.leaving {
		return award.Result{}, ErrActorNotFound
	}

	if d := a.position.Distance(src.Position); d > w.maxLootDistance {
		slog.DebugContext(ctx, "loot request out of range", "actor", actorId, "source", sourceId, "distance", d)
		return award.Result{}, ErrOutOfRange
	}

	if !src.Available() {
		w.reject(ctx, actorId, loot.ErrSourceUnavailable)
		return award.Result{}, loot.ErrSourceUnavailable
	}

	res, awarded := w.bridge.TryAward(ctx, src, a)
	if !awarded {
		err := ErrNothingAwarded
		if !src.Available() {
			err = loot.ErrSourceUnavailable
		}
		w.reject(ctx, actorId, err)
		return award.Result{}, err
	}

	return res, nil
}

// Tick removes consumed sources that are destroyed on use and restocks kept
// sources whose respawn delay has passed.
func (w *World) Tick(ctx context.Context) error {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	for id, ps := range w.sources {
		if ps.src.State() != loot.StateConsumed {
			continue
		}

		switch ps.src.Lifecycle {
		case loot.LifecycleDestroy:
			delete(w.sources, id)
			slog.InfoContext(ctx, "loot source removed", "source", id, "placement", ps.placement)
		default:
			if ps.respawn <= 0 || now.Sub(ps.src.ConsumedAt()) < ps.respawn {
				continue
			}
			ps.src.Restock()
			slog.InfoContext(ctx, "loot source respawned", "source", id, "placement", ps.placement)
		}
	}

	return nil
}

// SaveAll persists every actor currently in the world.
func (w *World) SaveAll(ctx context.Context) error {
	if w.records == nil {
		return nil
	}

	w.mu.RLock()
	actors := slices.Collect(maps.Values(w.actors))
	w.mu.RUnlock()

	for _, a := range actors {
		if err := w.records.Save(a.Id, a.record()); err != nil {
			return fmt.Errorf("saving actor %q: %w", a.Id, err)
		}
	}
	slog.InfoContext(ctx, "actors saved", "count", len(actors))
	return nil
}

// replicate forwards every change to a's containers, starting with a
// snapshot of each.
func (w *World) replicate(a *Actor) {
	if w.replicator == nil {
		return
	}
	a.watch(func(ev inventory.ChangeEvent) {
		w.replicator.Replicate(a.Id, ev)
	})
}

func (w *World) reject(ctx context.Context, actorId storage.Identifier, err error) {
	if w.notifier == nil {
		return
	}
	w.notifier.NotifyRejected(ctx, actorId, err)
}
