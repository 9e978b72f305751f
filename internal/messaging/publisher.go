package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-stash/internal/inventory"
	"github.com/pixil98/go-stash/internal/storage"
)

// Publisher provides the ability to publish messages to subjects
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ActorSubject returns the subject an actor's clients listen on for topic.
func ActorSubject(actorId storage.Identifier, topic string) string {
	return fmt.Sprintf("stash.actor.%s.%s", actorId, topic)
}

// ContainerPublisher replicates container changes to the owning actor's
// subject, one per container kind. It satisfies game.Replicator.
type ContainerPublisher struct {
	pub Publisher
}

func NewContainerPublisher(pub Publisher) *ContainerPublisher {
	return &ContainerPublisher{pub: pub}
}

func (p *ContainerPublisher) Replicate(actorId storage.Identifier, ev inventory.ChangeEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("unable to encode change event", "actor", actorId, "error", err)
		return
	}

	subject := ActorSubject(actorId, ev.Container.String())
	if err := p.pub.Publish(subject, data); err != nil {
		slog.Warn("unable to publish change event", "subject", subject, "error", err)
	}
}
