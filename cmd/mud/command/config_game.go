package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/mudcore/internal/combat"
	"github.com/pixil98/mudcore/internal/commands"
	"github.com/pixil98/mudcore/internal/listener"
	"github.com/pixil98/mudcore/internal/npc"
)

const (
	defaultTrailWindow     = 5 * time.Minute
	defaultTrailMaxPerRoom = 20
)

// ConnectionConfig tunes every listener's connection handling.
type ConnectionConfig struct {
	RateBurst     int     `json:"rate_burst"`
	RatePerSecond float64 `json:"rate_per_second"`
	MaxLineLength int     `json:"max_line_length"`
	WrapWidth     int     `json:"wrap_width"`
	Greeting      string  `json:"greeting"`
}

func (c *ConnectionConfig) validate() error {
	el := errors.NewErrorList()
	if c.RateBurst < 0 {
		el.Add(fmt.Errorf("connection: rate_burst cannot be negative"))
	}
	if c.RatePerSecond < 0 {
		el.Add(fmt.Errorf("connection: rate_per_second cannot be negative"))
	}
	if (c.RateBurst == 0) != (c.RatePerSecond == 0) {
		el.Add(fmt.Errorf("connection: rate_burst and rate_per_second must be set together"))
	}
	if c.MaxLineLength < 0 {
		el.Add(fmt.Errorf("connection: max_line_length cannot be negative"))
	}
	return el.Err()
}

func (c *ConnectionConfig) opts() []listener.ConnectionManagerOpt {
	var opts []listener.ConnectionManagerOpt
	if c.RateBurst > 0 {
		opts = append(opts, listener.WithRateLimit(c.RateBurst, c.RatePerSecond))
	}
	if c.MaxLineLength > 0 {
		opts = append(opts, listener.WithMaxLineLength(c.MaxLineLength))
	}
	if c.WrapWidth != 0 {
		opts = append(opts, listener.WithWrapWidth(c.WrapWidth))
	}
	if c.Greeting != "" {
		opts = append(opts, listener.WithGreeting(c.Greeting))
	}
	return opts
}

// PlayerConfig covers new characters and per-session behavior.
type PlayerConfig struct {
	DefaultRace  string `json:"default_race"`
	DefaultClass string `json:"default_class"`
	LoginGrace   int    `json:"login_grace"`
	MapRadius    int    `json:"map_radius"`
}

func (c *PlayerConfig) validate() error {
	el := errors.NewErrorList()
	if (c.DefaultRace == "") != (c.DefaultClass == "") {
		el.Add(fmt.Errorf("player: default_race and default_class must be set together"))
	}
	if c.LoginGrace < 0 {
		el.Add(fmt.Errorf("player: login_grace cannot be negative"))
	}
	if c.MapRadius < 0 {
		el.Add(fmt.Errorf("player: map_radius cannot be negative"))
	}
	return el.Err()
}

func (c *PlayerConfig) opts(startRoom string) []commands.DispatcherOpt {
	opts := []commands.DispatcherOpt{commands.WithStartRoom(startRoom)}
	if c.DefaultRace != "" {
		opts = append(opts, commands.WithDefaults(c.DefaultRace, c.DefaultClass))
	}
	if c.LoginGrace > 0 {
		opts = append(opts, commands.WithLoginGrace(c.LoginGrace))
	}
	if c.MapRadius > 0 {
		opts = append(opts, commands.WithMapRadius(c.MapRadius))
	}
	return opts
}

type CombatConfig struct {
	Normalization      float64 `json:"normalization"`
	MaxAvoidPercent    float64 `json:"max_avoid_percent"`
	HitPercent         float64 `json:"hit_percent"`
	BackstabMultiplier int     `json:"backstab_multiplier"`
	RespawnGrace       int     `json:"respawn_grace"`
	RestHeal           int     `json:"rest_heal"`
}

func (c *CombatConfig) validate() error {
	el := errors.NewErrorList()
	if c.Normalization < 0 {
		el.Add(fmt.Errorf("combat: normalization cannot be negative"))
	}
	if c.MaxAvoidPercent < 0 || c.MaxAvoidPercent > 100 {
		el.Add(fmt.Errorf("combat: max_avoid_percent must be between 0 and 100"))
	}
	if c.HitPercent < 0 || c.HitPercent > 100 {
		el.Add(fmt.Errorf("combat: hit_percent must be between 0 and 100"))
	}
	if c.BackstabMultiplier < 0 {
		el.Add(fmt.Errorf("combat: backstab_multiplier cannot be negative"))
	}
	if c.RespawnGrace < 0 || c.RestHeal < 0 {
		el.Add(fmt.Errorf("combat: respawn_grace and rest_heal cannot be negative"))
	}
	return el.Err()
}

func (c *CombatConfig) opts(startRoom string) []combat.EngineOpt {
	opts := []combat.EngineOpt{combat.WithStartRoom(startRoom)}
	if c.Normalization > 0 {
		opts = append(opts, combat.WithNormalization(c.Normalization))
	}
	if c.MaxAvoidPercent > 0 {
		opts = append(opts, combat.WithMaxAvoidPercent(c.MaxAvoidPercent))
	}
	if c.HitPercent > 0 {
		opts = append(opts, combat.WithHitPercent(c.HitPercent))
	}
	if c.BackstabMultiplier > 0 {
		opts = append(opts, combat.WithBackstabMultiplier(c.BackstabMultiplier))
	}
	if c.RespawnGrace > 0 {
		opts = append(opts, combat.WithRespawnGrace(c.RespawnGrace))
	}
	if c.RestHeal > 0 {
		opts = append(opts, combat.WithRestHeal(c.RestHeal))
	}
	return opts
}

type NPCConfig struct {
	MaxPursuitTicks   int    `json:"max_pursuit_ticks"`
	MaxLostTrailTicks int    `json:"max_lost_trail_ticks"`
	RespawnTicks      int    `json:"respawn_ticks"`
	TrailWindow       string `json:"trail_window"`
	TrailMaxPerRoom   int    `json:"trail_max_per_room"`
}

func (c *NPCConfig) validate() error {
	el := errors.NewErrorList()
	if c.MaxPursuitTicks < 0 || c.MaxLostTrailTicks < 0 || c.RespawnTicks < 0 {
		el.Add(fmt.Errorf("npc: tick limits cannot be negative"))
	}
	if c.TrailWindow != "" {
		d, err := time.ParseDuration(c.TrailWindow)
		if err != nil {
			el.Add(fmt.Errorf("npc: parsing trail_window: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("npc: trail_window must be positive"))
		}
	}
	if c.TrailMaxPerRoom < 0 {
		el.Add(fmt.Errorf("npc: trail_max_per_room cannot be negative"))
	}
	return el.Err()
}

func (c *NPCConfig) trailWindow() time.Duration {
	if c.TrailWindow == "" {
		return defaultTrailWindow
	}
	// Checked by validate.
	d, _ := time.ParseDuration(c.TrailWindow)
	return d
}

func (c *NPCConfig) trailMaxPerRoom() int {
	if c.TrailMaxPerRoom == 0 {
		return defaultTrailMaxPerRoom
	}
	return c.TrailMaxPerRoom
}

func (c *NPCConfig) opts() []npc.ManagerOpt {
	var opts []npc.ManagerOpt
	if c.MaxPursuitTicks > 0 {
		opts = append(opts, npc.WithMaxPursuitTicks(c.MaxPursuitTicks))
	}
	if c.MaxLostTrailTicks > 0 {
		opts = append(opts, npc.WithMaxLostTrailTicks(c.MaxLostTrailTicks))
	}
	if c.RespawnTicks > 0 {
		opts = append(opts, npc.WithRespawnTicks(c.RespawnTicks))
	}
	return opts
}
