package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-service"
	"github.com/pixil98/go-stash/internal/award"
	"github.com/pixil98/go-stash/internal/driver"
	"github.com/pixil98/go-stash/internal/game"
	"github.com/pixil98/go-stash/internal/loot"
	"github.com/pixil98/go-stash/internal/messaging"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Environment overrides land after the file was validated, so check again.
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	assets, err := cfg.Storage.BuildAssets()
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	slog.Info("assets loaded", "items", assets.Catalog.Len(), "placements", len(assets.Placements.GetAll()))

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	notifier, err := messaging.NewRejectionNotifier(natsServer, cfg.Messages.Rejections)
	if err != nil {
		return nil, fmt.Errorf("creating rejection notifier: %w", err)
	}

	world, err := cfg.World.buildWorld(assets, notifier, messaging.NewContainerPublisher(natsServer))
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}

	err = world.SpawnPlacements(context.Background(), assets.Placements)
	if err != nil {
		return nil, fmt.Errorf("spawning loot sources: %w", err)
	}

	d := driver.NewDriver([]driver.Ticker{world}, driver.WithTickLength(cfg.tickLength()))

	return service.WorkerList{
		"nats":   natsServer,
		"router": messaging.NewRouter(natsServer, world),
		"driver": d,
		"saver":  &actorSaver{world: world},
	}, nil
}

func (c *WorldConfig) buildWorld(assets *Assets, notifier game.Notifier, replicator game.Replicator) (*game.World, error) {
	layout, err := c.layout()
	if err != nil {
		return nil, err
	}

	opts := []game.WorldOpt{
		game.WithEquipmentLayout(layout),
		game.WithActorStore(assets.Actors),
		game.WithNotifier(notifier),
		game.WithReplicator(replicator),
	}
	if c.MaxLootDistance > 0 {
		opts = append(opts, game.WithMaxLootDistance(c.MaxLootDistance))
	}
	if c.BackpackSize > 0 {
		opts = append(opts, game.WithBackpackSize(c.BackpackSize))
	}

	bridge := award.NewBridge(assets.Catalog, loot.NewRoller(c.Seed))
	return game.NewWorld(assets.Catalog, bridge, opts...), nil
}

// actorSaver persists every actor still in the world when the service stops.
type actorSaver struct {
	world *game.World
}

func (s *actorSaver) Start(ctx context.Context) error {
	<-ctx.Done()
	return s.world.SaveAll(context.WithoutCancel(ctx))
}
