package game

import (
	"maps"
	"slices"
	"strings"
)

// Stat names a character attribute.
type Stat string

const (
	StatStrength     Stat = "str"
	StatDexterity    Stat = "dex"
	StatAgility      Stat = "agi"
	StatConstitution Stat = "con"
	StatIntelligence Stat = "int"
	StatWisdom       Stat = "wis"
	StatPerception   Stat = "per"
)

var stats = map[Stat]bool{
	StatStrength: true, StatDexterity: true, StatAgility: true, StatConstitution: true,
	StatIntelligence: true, StatWisdom: true, StatPerception: true,
}

// ParseStat normalizes s to a known Stat.
func ParseStat(s string) (Stat, bool) {
	st := Stat(strings.ToLower(strings.TrimSpace(s)))
	return st, stats[st]
}

// Identity is who a session logged in as.
type Identity struct {
	AccountId     int64
	Username      string
	CharacterName string
	Admin         bool
}

// Character is a player's sheet. It is also the snapshot the player
// repository persists, so everything here survives a restart.
type Character struct {
	Name  string `json:"name"`
	Race  string `json:"race"`
	Class string `json:"class"`

	Level   int `json:"level"`
	XP      int `json:"xp"`
	HP      int `json:"hp"`
	MaxHP   int `json:"max_hp"`
	Mana    int `json:"mana"`
	MaxMana int `json:"max_mana"`
	Gold    int `json:"gold"`

	Stats     map[Stat]int             `json:"stats"`
	Inventory []*ItemInstance          `json:"inventory,omitempty"`
	Equipment map[string]*ItemInstance `json:"equipment,omitempty"` // slot -> item
	Skills    []string                 `json:"skills,omitempty"`
	Spells    []string                 `json:"spells,omitempty"`

	RoomId           string   `json:"room_id,omitempty"`
	DiscoveredHidden []string `json:"discovered_hidden,omitempty"`
	DiscoveredLocked []string `json:"discovered_locked,omitempty"`
}

// NewCharacter rolls a level one character from its race and class.
func NewCharacter(name string, race *RaceDef, class *ClassDef) *Character {
	c := &Character{
		Name:      name,
		Race:      race.Id,
		Class:     class.Id,
		Level:     1,
		MaxHP:     class.BaseHP,
		MaxMana:   class.BaseMana,
		Gold:      class.StartingGold,
		Stats:     make(map[Stat]int, len(stats)),
		Equipment: make(map[string]*ItemInstance),
		Skills:    slices.Clone(class.Skills),
		Spells:    slices.Clone(class.Spells),
	}
	for st := range stats {
		c.Stats[st] = baseStat + race.Stats[st] + class.Stats[st]
	}
	c.MaxHP += c.Stats[StatConstitution]
	c.HP = c.MaxHP
	c.Mana = c.MaxMana
	return c
}

const baseStat = 10

// Alive reports whether the character has hit points left.
func (c *Character) Alive() bool {
	return c.HP > 0
}

// Heal restores hp up to the maximum and returns the amount restored.
func (c *Character) Heal(n int) int {
	before := c.HP
	c.HP = min(c.HP+n, c.MaxHP)
	return c.HP - before
}

// RestoreMana restores mana up to the maximum and returns the amount restored.
func (c *Character) RestoreMana(n int) int {
	before := c.Mana
	c.Mana = min(c.Mana+n, c.MaxMana)
	return c.Mana - before
}

// HasSkill reports whether the character has trained a skill.
func (c *Character) HasSkill(id string) bool {
	return slices.Contains(c.Skills, id)
}

// KnowsSpell reports whether the character knows a spell.
func (c *Character) KnowsSpell(id string) bool {
	return slices.Contains(c.Spells, id)
}

// AddItem puts an item in the inventory.
func (c *Character) AddItem(it *ItemInstance) {
	c.Inventory = append(c.Inventory, it)
}

// FindItem looks an item up in the inventory by instance id or item id.
func (c *Character) FindItem(id string) *ItemInstance {
	for _, it := range c.Inventory {
		if it.InstanceId == id || it.ItemId == id {
			return it
		}
	}
	return nil
}

// RemoveItem takes an item out of the inventory by instance id or item id.
func (c *Character) RemoveItem(id string) *ItemInstance {
	for i, it := range c.Inventory {
		if it.InstanceId == id || it.ItemId == id {
			c.Inventory = slices.Delete(c.Inventory, i, i+1)
			return it
		}
	}
	return nil
}

// Equip moves an inventory item into a slot. Whatever was in the slot goes
// back to the inventory.
func (c *Character) Equip(slot string, it *ItemInstance) {
	if c.Equipment == nil {
		c.Equipment = make(map[string]*ItemInstance)
	}
	c.RemoveItem(it.InstanceId)
	if prev, ok := c.Equipment[slot]; ok {
		c.Inventory = append(c.Inventory, prev)
	}
	c.Equipment[slot] = it
}

// EquippedItems returns equipped items in slot order.
func (c *Character) EquippedItems() []*ItemInstance {
	var out []*ItemInstance
	for _, slot := range slices.Sorted(maps.Keys(c.Equipment)) {
		out = append(out, c.Equipment[slot])
	}
	return out
}
