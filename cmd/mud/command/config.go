package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/mudcore/internal/driver"
)

type Config struct {
	TickInterval    string `json:"tick_interval"`
	ShutdownTicks   int    `json:"shutdown_ticks"`
	CheckpointTicks int    `json:"checkpoint_ticks"`
	StartRoom       string `json:"start_room"`

	Listeners  []ListenerConfig `json:"listeners"`
	Storage    StorageConfig    `json:"storage"`
	Nats       NatsConfig       `json:"nats"`
	Repository RepositoryConfig `json:"repository"`
	Connection ConnectionConfig `json:"connection"`
	Player     PlayerConfig     `json:"player"`
	Combat     CombatConfig     `json:"combat"`
	NPC        NPCConfig        `json:"npc"`
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
	if c.ShutdownTicks < 0 {
		el.Add(fmt.Errorf("shutdown_ticks cannot be negative"))
	}
	if c.CheckpointTicks < 0 {
		el.Add(fmt.Errorf("checkpoint_ticks cannot be negative"))
	}
	if c.StartRoom == "" {
		el.Add(fmt.Errorf("start_room is required"))
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Repository.validate())
	el.Add(c.Connection.validate())
	el.Add(c.Player.validate())
	el.Add(c.Combat.validate())
	el.Add(c.NPC.validate())

	return el.Err()
}

func (c *Config) clockOpts() []driver.ClockOpt {
	opts := []driver.ClockOpt{driver.WithCheckpointTicks(c.CheckpointTicks)}
	if c.TickInterval != "" {
		// Checked by Validate.
		d, _ := time.ParseDuration(c.TickInterval)
		opts = append(opts, driver.WithTickLength(d))
	}
	if c.ShutdownTicks > 0 {
		opts = append(opts, driver.WithShutdownTicks(c.ShutdownTicks))
	}
	return opts
}
