package catalog

import (
	"fmt"
	"maps"
	"slices"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/storage"
)

// Directories of a world Source holding each kind of definition.
const (
	ItemsDir   = "items"
	SkillsDir  = "skills"
	SpellsDir  = "spells"
	RacesDir   = "races"
	ClassesDir = "classes"
	LootDir    = "loot"
)

// Definitions is every static definition keyed by id.
type Definitions struct {
	Items      map[string]*game.ItemDef
	Skills     map[string]*game.SkillDef
	Spells     map[string]*game.SpellDef
	Races      map[string]*game.RaceDef
	Classes    map[string]*game.ClassDef
	LootTables map[string]*game.LootTable
}

// Catalog is the read-only game.Catalog built from Definitions.
type Catalog struct {
	defs   Definitions
	skills []*game.SkillDef
	spells []*game.SpellDef
}

// New stamps each definition with its id and checks references between them.
func New(defs Definitions) (*Catalog, error) {
	for id, d := range defs.Items {
		d.Id = id
	}
	for id, d := range defs.Skills {
		d.Id = id
	}
	for id, d := range defs.Spells {
		d.Id = id
	}
	for id, d := range defs.Races {
		d.Id = id
	}
	for id, d := range defs.Classes {
		d.Id = id
	}
	for id, d := range defs.LootTables {
		d.Id = id
	}

	c := &Catalog{
		defs:   defs,
		skills: sortedValues(defs.Skills),
		spells: sortedValues(defs.Spells),
	}

	err := c.validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Load reads every definition directory from src.
func Load(src storage.Source) (*Catalog, error) {
	items, err := storage.NewStore[*game.ItemDef](src, ItemsDir)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	skills, err := storage.NewOptionalStore[*game.SkillDef](src, SkillsDir)
	if err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}
	spells, err := storage.NewOptionalStore[*game.SpellDef](src, SpellsDir)
	if err != nil {
		return nil, fmt.Errorf("loading spells: %w", err)
	}
	races, err := storage.NewStore[*game.RaceDef](src, RacesDir)
	if err != nil {
		return nil, fmt.Errorf("loading races: %w", err)
	}
	classes, err := storage.NewStore[*game.ClassDef](src, ClassesDir)
	if err != nil {
		return nil, fmt.Errorf("loading classes: %w", err)
	}
	loot, err := storage.NewOptionalStore[*game.LootTable](src, LootDir)
	if err != nil {
		return nil, fmt.Errorf("loading loot tables: %w", err)
	}

	return New(Definitions{
		Items:      items.GetAll(),
		Skills:     skills.GetAll(),
		Spells:     spells.GetAll(),
		Races:      races.GetAll(),
		Classes:    classes.GetAll(),
		LootTables: loot.GetAll(),
	})
}

func (c *Catalog) validate() error {
	el := errors.NewErrorList()

	for _, id := range slices.Sorted(maps.Keys(c.defs.Classes)) {
		class := c.defs.Classes[id]
		for _, sk := range class.Skills {
			if c.Skill(sk) == nil {
				el.Add(fmt.Errorf("class %s: unknown skill %q", id, sk))
			}
		}
		for _, sp := range class.Spells {
			if c.Spell(sp) == nil {
				el.Add(fmt.Errorf("class %s: unknown spell %q", id, sp))
			}
		}
	}

	for _, id := range slices.Sorted(maps.Keys(c.defs.LootTables)) {
		for _, e := range c.defs.LootTables[id].Entries {
			if c.Item(e.ItemId) == nil {
				el.Add(fmt.Errorf("loot table %s: unknown item %q", id, e.ItemId))
			}
		}
	}

	return el.Err()
}

func (c *Catalog) Item(id string) *game.ItemDef {
	return c.defs.Items[id]
}

func (c *Catalog) Skill(id string) *game.SkillDef {
	return c.defs.Skills[id]
}

func (c *Catalog) Spell(id string) *game.SpellDef {
	return c.defs.Spells[id]
}

func (c *Catalog) Race(id string) *game.RaceDef {
	return c.defs.Races[id]
}

func (c *Catalog) Class(id string) *game.ClassDef {
	return c.defs.Classes[id]
}

func (c *Catalog) LootTable(id string) *game.LootTable {
	return c.defs.LootTables[id]
}

func (c *Catalog) Skills() []*game.SkillDef {
	return c.skills
}

func (c *Catalog) Spells() []*game.SpellDef {
	return c.spells
}

func sortedValues[T any](m map[string]T) []T {
	out := make([]T, 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[id])
	}
	return out
}
