package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Catalog is the read-only lookup of static definitions. Every method returns
// nil for an unknown id.
type Catalog interface {
	Item(id string) *ItemDef
	Skill(id string) *SkillDef
	Spell(id string) *SpellDef
	Race(id string) *RaceDef
	Class(id string) *ClassDef
	LootTable(id string) *LootTable

	// Skills and Spells list every definition sorted by id.
	Skills() []*SkillDef
	Spells() []*SpellDef
}

// ItemDef is an item as authored.
type ItemDef struct {
	Id          string       `json:"-"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Slot        string       `json:"slot,omitempty"` // empty when not equippable
	Value       int          `json:"value"`
	Damage      int          `json:"damage,omitempty"`
	Armor       int          `json:"armor,omitempty"`
	Stats       map[Stat]int `json:"stats,omitempty"`
	Effect      *EffectSpec  `json:"effect,omitempty"` // applied on use
	Consumable  bool         `json:"consumable,omitempty"`
}

func (d *ItemDef) Validate() error {
	el := errors.NewErrorList()
	if d.Name == "" {
		el.Add(fmt.Errorf("item name is required"))
	}
	if d.Value < 0 {
		el.Add(fmt.Errorf("value cannot be negative"))
	}
	for st := range d.Stats {
		if !stats[st] {
			el.Add(fmt.Errorf("unknown stat %q", st))
		}
	}
	if d.Effect != nil {
		el.Add(d.Effect.Validate())
	}
	return el.Err()
}

// SkillDef is a trainable combat skill.
type SkillDef struct {
	Id       string `json:"-"`
	Name     string `json:"name"`
	Cooldown int    `json:"cooldown"`
	ManaCost int    `json:"mana_cost,omitempty"`
	Damage   int    `json:"damage,omitempty"`
	Level    int    `json:"level,omitempty"` // minimum level to train
	Cost     int    `json:"cost,omitempty"`  // gold to train
}

func (d *SkillDef) Validate() error {
	el := errors.NewErrorList()
	if d.Name == "" {
		el.Add(fmt.Errorf("skill name is required"))
	}
	if d.Cooldown < 0 || d.ManaCost < 0 || d.Cost < 0 {
		el.Add(fmt.Errorf("skill values cannot be negative"))
	}
	return el.Err()
}

// SpellDef is a castable spell. Damage and Heal apply instantly; Effect
// attaches a timed effect to the target.
type SpellDef struct {
	Id       string      `json:"-"`
	Name     string      `json:"name"`
	ManaCost int         `json:"mana_cost"`
	Damage   int         `json:"damage,omitempty"`
	Heal     int         `json:"heal,omitempty"`
	Effect   *EffectSpec `json:"effect,omitempty"`
	Level    int         `json:"level,omitempty"`
	Cost     int         `json:"cost,omitempty"`
}

// Offensive reports whether the spell targets an enemy.
func (d *SpellDef) Offensive() bool {
	if d.Damage > 0 {
		return true
	}
	return d.Effect != nil && (d.Effect.Kind == EffectPoison || d.Effect.Kind == EffectDrain)
}

func (d *SpellDef) Validate() error {
	el := errors.NewErrorList()
	if d.Name == "" {
		el.Add(fmt.Errorf("spell name is required"))
	}
	if d.ManaCost < 0 {
		el.Add(fmt.Errorf("mana_cost cannot be negative"))
	}
	if d.Damage == 0 && d.Heal == 0 && d.Effect == nil {
		el.Add(fmt.Errorf("spell %q does nothing", d.Name))
	}
	if d.Effect != nil {
		el.Add(d.Effect.Validate())
	}
	return el.Err()
}

// RaceDef is a playable race.
type RaceDef struct {
	Id    string       `json:"-"`
	Name  string       `json:"name"`
	Stats map[Stat]int `json:"stats,omitempty"` // modifiers on the base
}

func (d *RaceDef) Validate() error {
	el := errors.NewErrorList()
	if d.Name == "" {
		el.Add(fmt.Errorf("race name is required"))
	}
	for st := range d.Stats {
		if !stats[st] {
			el.Add(fmt.Errorf("unknown stat %q", st))
		}
	}
	return el.Err()
}

// ClassDef is a playable class.
type ClassDef struct {
	Id           string       `json:"-"`
	Name         string       `json:"name"`
	BaseHP       int          `json:"base_hp"`
	BaseMana     int          `json:"base_mana"`
	HPPerLevel   int          `json:"hp_per_level"`
	ManaPerLevel int          `json:"mana_per_level"`
	StartingGold int          `json:"starting_gold,omitempty"`
	Stats        map[Stat]int `json:"stats,omitempty"`
	Skills       []string     `json:"skills,omitempty"` // known at creation
	Spells       []string     `json:"spells,omitempty"`
}

func (d *ClassDef) Validate() error {
	el := errors.NewErrorList()
	if d.Name == "" {
		el.Add(fmt.Errorf("class name is required"))
	}
	if d.BaseHP <= 0 {
		el.Add(fmt.Errorf("base_hp must be positive"))
	}
	for st := range d.Stats {
		if !stats[st] {
			el.Add(fmt.Errorf("unknown stat %q", st))
		}
	}
	return el.Err()
}

// LootEntry is one possible drop; Chance is a percentage.
type LootEntry struct {
	ItemId string `json:"item_id"`
	Chance int    `json:"chance"`
}

// LootTable lists what a dead NPC or an opened chest can drop.
type LootTable struct {
	Id      string      `json:"-"`
	Entries []LootEntry `json:"entries"`
	MinGold int         `json:"min_gold,omitempty"`
	MaxGold int         `json:"max_gold,omitempty"`
}

func (d *LootTable) Validate() error {
	el := errors.NewErrorList()
	for i, e := range d.Entries {
		if e.ItemId == "" {
			el.Add(fmt.Errorf("entry %d: item_id is required", i))
		}
		if e.Chance <= 0 || e.Chance > 100 {
			el.Add(fmt.Errorf("entry %d: chance must be between 1 and 100", i))
		}
	}
	if d.MinGold < 0 || d.MaxGold < d.MinGold {
		el.Add(fmt.Errorf("invalid gold range %d-%d", d.MinGold, d.MaxGold))
	}
	return el.Err()
}
