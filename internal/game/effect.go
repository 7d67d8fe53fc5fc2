package game

import "fmt"

// EffectKind selects how an effect's magnitude is applied each tick.
type EffectKind string

const (
	EffectPoison EffectKind = "poison" // hp damage
	EffectHeal   EffectKind = "heal"   // hp restore
	EffectMana   EffectKind = "mana"   // mana restore
	EffectDrain  EffectKind = "drain"  // mana loss
	EffectBuff   EffectKind = "buff"   // stat modifier while active
)

// EffectSpec describes a timed effect independent of what caused it: an item,
// a spell or a room hazard.
type EffectSpec struct {
	Name      string     `json:"name"`
	Kind      EffectKind `json:"kind"`
	Magnitude int        `json:"magnitude"`
	Duration  int        `json:"duration"`
	Stat      Stat       `json:"stat,omitempty"`
	Lethal    bool       `json:"lethal,omitempty"`
}

func (e *EffectSpec) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("effect name is required")
	}
	switch e.Kind {
	case EffectPoison, EffectHeal, EffectMana, EffectDrain:
	case EffectBuff:
		if !stats[e.Stat] {
			return fmt.Errorf("buff %q: unknown stat %q", e.Name, e.Stat)
		}
	default:
		return fmt.Errorf("effect %q: unknown kind %q", e.Name, e.Kind)
	}
	if e.Duration <= 0 {
		return fmt.Errorf("effect %q: duration must be positive", e.Name)
	}
	return nil
}

// ActiveEffect is an EffectSpec attached to a session and counting down.
type ActiveEffect struct {
	Name      string
	Kind      EffectKind
	Remaining int
	Magnitude int
	Stat      Stat
	Lethal    bool
}

// NewActiveEffect starts an effect with its full duration.
func NewActiveEffect(spec EffectSpec) *ActiveEffect {
	return &ActiveEffect{
		Name:      spec.Name,
		Kind:      spec.Kind,
		Remaining: spec.Duration,
		Magnitude: spec.Magnitude,
		Stat:      spec.Stat,
		Lethal:    spec.Lethal,
	}
}
