package npc

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/mudcore/internal/game"
)

// Mode is an NPC's movement behavior.
type Mode string

const (
	ModeIdle    Mode = "idle"
	ModeWander  Mode = "wander"
	ModePatrol  Mode = "patrol"
	ModePursuit Mode = "pursuit"
)

// Template is an NPC as authored. Any number of instances can be spawned
// from one template.
type Template struct {
	Id string `json:"-"`

	// Aliases are extra keywords players can target the NPC by.
	Aliases     []string `json:"aliases,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`

	Level   int               `json:"level"`
	HP      int               `json:"hp"`
	Damage  int               `json:"damage"`
	Stats   map[game.Stat]int `json:"stats,omitempty"`
	Hostile bool              `json:"hostile,omitempty"`
	XP      int               `json:"xp,omitempty"`

	Mode Mode `json:"mode,omitempty"`
	// WanderChance is the percent chance per tick a wandering NPC moves.
	WanderChance int              `json:"wander_chance,omitempty"`
	Route        []game.Direction `json:"route,omitempty"`

	LootTable string `json:"loot_table,omitempty"`

	// Vendor lists the item ids the NPC sells; Trainer the skills and spells
	// it teaches.
	Vendor  []string `json:"vendor,omitempty"`
	Trainer []string `json:"trainer,omitempty"`

	// RespawnTicks overrides the manager's default respawn delay.
	RespawnTicks int `json:"respawn_ticks,omitempty"`
}

// Validate satisfies storage.ValidatingSpec
func (t *Template) Validate() error {
	el := errors.NewErrorList()
	if t.Name == "" {
		el.Add(fmt.Errorf("npc name is required"))
	}
	if t.HP <= 0 {
		el.Add(fmt.Errorf("hp must be positive"))
	}
	switch t.Mode {
	case "", ModeIdle, ModeWander:
	case ModePatrol:
		if len(t.Route) == 0 {
			el.Add(fmt.Errorf("patrol requires a route"))
		}
	default:
		el.Add(fmt.Errorf("unknown mode %q", t.Mode))
	}
	for _, d := range t.Route {
		if _, ok := game.ParseDirection(string(d)); !ok {
			el.Add(fmt.Errorf("route: unknown direction %q", d))
		}
	}
	if t.WanderChance < 0 || t.WanderChance > 100 {
		el.Add(fmt.Errorf("wander_chance must be between 0 and 100"))
	}
	return el.Err()
}

// MatchName reports whether name targets this template: its name, any word
// of its name, or an alias, ignoring case.
func (t *Template) MatchName(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	if strings.EqualFold(t.Name, name) {
		return true
	}
	for _, w := range strings.Fields(strings.ToLower(t.Name)) {
		if w == name {
			return true
		}
	}
	for _, a := range t.Aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

// IsVendor reports whether the NPC sells anything.
func (t *Template) IsVendor() bool { return len(t.Vendor) > 0 }

// IsTrainer reports whether the NPC teaches anything.
func (t *Template) IsTrainer() bool { return len(t.Trainer) > 0 }
