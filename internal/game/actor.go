package game

import (
	"fmt"
	"sync"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/loot"
	"github.com/pixil98/go-stash/internal/storage"
)

// Actor is a participant in the world that carries a backpack and wears
// equipment. Its mutex serializes every operation on its containers.
type Actor struct {
	Id storage.Identifier

	mu        sync.Mutex
	leaving   bool
	position  loot.Position
	backpack  *inventory.Container
	equipment *inventory.Container
	unsubs    []func()
}

func newActor(id storage.Identifier, pos loot.Position, backpackSize int, layout inventory.EquipmentLayout) *Actor {
	return &Actor{
		Id:        id,
		position:  pos,
		backpack:  inventory.NewBackpack(backpackSize),
		equipment: inventory.NewEquipment(layout),
	}
}

// Backpack satisfies award.Recipient.
func (a *Actor) Backpack() *inventory.Container {
	return a.backpack
}

func (a *Actor) Equipment() *inventory.Container {
	return a.equipment
}

// Container returns the actor's container of the given kind.
func (a *Actor) Container(k inventory.Kind) (*inventory.Container, error) {
	switch k {
	case inventory.KindBackpack:
		return a.backpack, nil
	case inventory.KindEquipment:
		return a.equipment, nil
	default:
		return nil, fmt.Errorf("actor %q has no %s container", a.Id, k)
	}
}

func (a *Actor) Position() loot.Position {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

func (a *Actor) setPosition(p loot.Position) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.position = p
}

// record captures the actor for persistence.
func (a *Actor) record() *ActorRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recordLocked()
}

func (a *Actor) recordLocked() *ActorRecord {
	return &ActorRecord{
		Backpack:  a.backpack.Snapshot(),
		Equipment: a.equipment.Snapshot(),
		Position:  a.position,
	}
}

// watch registers an observer on both containers and sends each an initial
// snapshot.
func (a *Actor) watch(fn inventory.Observer) {
	a.unsubs = append(a.unsubs,
		a.backpack.SubscribeWithSnapshot(fn),
		a.equipment.SubscribeWithSnapshot(fn))
}

func (a *Actor) unwatch() {
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.unsubs = nil
}

// ActorRecord is the persisted state of an actor between sessions.
type ActorRecord struct {
	Backpack  []inventory.Slot `json:"backpack"`
	Equipment []inventory.Slot `json:"equipment"`
	Position  loot.Position    `json:"position"`
}

// Validate satisfies storage.ValidatingSpec. It only checks that the record
// is well formed; catalog and layout checks happen when it is restored.
func (r *ActorRecord) Validate() error {
	el := errors.NewErrorList()

	if len(r.Backpack) > inventory.MaxBackpackSize {
		el.Add(fmt.Errorf("backpack has %d slots, maximum is %d", len(r.Backpack), inventory.MaxBackpackSize))
	}
	if len(r.Equipment) > inventory.MaxEquipmentSize {
		el.Add(fmt.Errorf("equipment has %d slots, maximum is %d", len(r.Equipment), inventory.MaxEquipmentSize))
	}
	for i, s := range r.Backpack {
		if (s.Item == "") != (s.Count == 0) {
			el.Add(fmt.Errorf("backpack slot %d: item and count must be set together", i))
		}
	}
	for i, s := range r.Equipment {
		if (s.Item == "") != (s.Count == 0) {
			el.Add(fmt.Errorf("equipment slot %d: item and count must be set together", i))
		}
	}

	return el.Err()
}
