package game

import (
	"context"

	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/storage"
)

// Replicator forwards container changes of an actor to its clients.
// It is called synchronously after each change and must not block.
type Replicator interface {
	Replicate(actorId storage.Identifier, ev inventory.ChangeEvent)
}

// Notifier tells an actor that one of its requests was rejected.
// Delivery is best effort.
type Notifier interface {
	NotifyRejected(ctx context.Context, actorId storage.Identifier, err error)
}
