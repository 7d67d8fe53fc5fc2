package combat

import (
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/npc"
)

// Combatant is anything that can trade blows.
type Combatant interface {
	CombatID() string
	CombatName() string
	Alive() bool
	Stat(game.Stat) int
	AttackDamage() int
	Armor() int
	// ApplyDamage lowers hp, never below zero, and returns the damage dealt.
	ApplyDamage(int) int
}

// PlayerCombatant adapts a Session for combat.
type PlayerCombatant struct {
	Session *game.Session
	catalog game.Catalog
}

func (c *PlayerCombatant) CombatID() string   { return "player:" + c.Session.Id() }
func (c *PlayerCombatant) CombatName() string { return c.Session.Name() }
func (c *PlayerCombatant) Alive() bool        { return c.Session.Character.Alive() }

func (c *PlayerCombatant) Stat(st game.Stat) int {
	return c.Session.EffectiveStat(st) + c.equipmentStat(st)
}

func (c *PlayerCombatant) equipmentStat(st game.Stat) int {
	total := 0
	for _, it := range c.Session.Character.EquippedItems() {
		if def := c.catalog.Item(it.ItemId); def != nil {
			total += def.Stats[st]
		}
	}
	return total
}

// AttackDamage is an unarmed base from strength plus every equipped weapon.
func (c *PlayerCombatant) AttackDamage() int {
	dmg := 2 + c.Stat(game.StatStrength)/4
	for _, it := range c.Session.Character.EquippedItems() {
		if def := c.catalog.Item(it.ItemId); def != nil {
			dmg += def.Damage
		}
	}
	return dmg
}

func (c *PlayerCombatant) Armor() int {
	armor := 0
	for _, it := range c.Session.Character.EquippedItems() {
		if def := c.catalog.Item(it.ItemId); def != nil {
			armor += def.Armor
		}
	}
	return armor
}

func (c *PlayerCombatant) ApplyDamage(n int) int {
	ch := c.Session.Character
	if n > ch.HP {
		n = ch.HP
	}
	ch.HP -= n
	return n
}

// NPCCombatant adapts an npc.Instance for combat.
type NPCCombatant struct {
	Instance *npc.Instance
}

func (c *NPCCombatant) CombatID() string      { return "npc:" + c.Instance.Id }
func (c *NPCCombatant) CombatName() string    { return c.Instance.Name() }
func (c *NPCCombatant) Alive() bool           { return c.Instance.Alive() }
func (c *NPCCombatant) Stat(st game.Stat) int { return c.Instance.Stat(st) }
func (c *NPCCombatant) AttackDamage() int     { return c.Instance.Template.Damage }
func (c *NPCCombatant) Armor() int            { return c.Instance.Template.Level }
func (c *NPCCombatant) ApplyDamage(n int) int { return c.Instance.ApplyDamage(n) }
