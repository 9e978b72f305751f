package game

import (
	"time"

	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/storage"
)

type WorldOpt func(*World)

func WithMaxLootDistance(d float64) WorldOpt {
	return func(w *World) {
		w.maxLootDistance = d
	}
}

func WithBackpackSize(size int) WorldOpt {
	return func(w *World) {
		w.backpackSize = size
	}
}

func WithEquipmentLayout(layout inventory.EquipmentLayout) WorldOpt {
	return func(w *World) {
		w.layout = layout
	}
}

// WithActorStore persists actors on leave and restores them on join.
func WithActorStore(records storage.Storer[*ActorRecord]) WorldOpt {
	return func(w *World) {
		w.records = records
	}
}

func WithNotifier(n Notifier) WorldOpt {
	return func(w *World) {
		w.notifier = n
	}
}

func WithReplicator(r Replicator) WorldOpt {
	return func(w *World) {
		w.replicator = r
	}
}

func WithClock(now func() time.Time) WorldOpt {
	return func(w *World) {
		w.now = now
	}
}
