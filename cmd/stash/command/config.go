package command

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pixil98/go-errors"
)

const envPrefix = "STASH_"

type Config struct {
	TickInterval string         `json:"tick_interval" env:"TICK_INTERVAL"`
	Storage      StorageConfig  `json:"storage" envPrefix:"STORAGE_"`
	Nats         NatsConfig     `json:"nats" envPrefix:"NATS_"`
	World        WorldConfig    `json:"world" envPrefix:"WORLD_"`
	Messages     MessagesConfig `json:"messages"`
}

// ApplyEnv overrides any field whose STASH_* variable is set.
func (c *Config) ApplyEnv() error {
	err := env.ParseWithOptions(c, env.Options{Prefix: envPrefix})
	if err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d < 100*time.Millisecond {
			el.Add(fmt.Errorf("tick_interval must be at least 100ms"))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.World.validate())
	el.Add(c.Messages.validate())

	return el.Err()
}

func (c *Config) tickLength() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0
	}
	return d
}
