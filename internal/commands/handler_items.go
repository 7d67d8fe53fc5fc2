package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/npc"
	"github.com/pixil98/mudcore/internal/protocol"
)

func (d *Dispatcher) itemName(itemId string) string {
	if def := d.Catalog.Item(itemId); def != nil {
		return def.Name
	}
	return itemId
}

func (d *Dispatcher) pickup(_ context.Context, s *game.Session, m protocol.Pickup) error {
	it := d.World.TakeItem(s.RoomId, m.ItemId)
	if it == nil {
		return userErrorf("You don't see %q here.", m.ItemId)
	}
	s.Character.AddItem(it)
	s.Send(protocol.System{Message: fmt.Sprintf("You pick up %s.", d.itemName(it.ItemId))})
	s.Send(d.inventory(s))
	d.Registry.BroadcastToRoom(s.RoomId, d.Engine.RoomItems(s.RoomId), nil)
	return nil
}

func (d *Dispatcher) drop(_ context.Context, s *game.Session, m protocol.Drop) error {
	it := s.Character.RemoveItem(m.ItemId)
	if it == nil {
		return userErrorf("You aren't carrying %q.", m.ItemId)
	}
	d.World.AddItem(s.RoomId, it)
	s.Send(protocol.System{Message: fmt.Sprintf("You drop %s.", d.itemName(it.ItemId))})
	s.Send(d.inventory(s))
	d.Registry.BroadcastToRoom(s.RoomId, d.Engine.RoomItems(s.RoomId), nil)
	return nil
}

func (d *Dispatcher) equip(_ context.Context, s *game.Session, m protocol.Equip) error {
	it := s.Character.FindItem(m.ItemId)
	if it == nil {
		return userErrorf("You aren't carrying %q.", m.ItemId)
	}
	def := d.Catalog.Item(it.ItemId)
	if def == nil || def.Slot == "" {
		return userErrorf("You can't equip %s.", d.itemName(it.ItemId))
	}
	s.Character.Equip(def.Slot, it)
	s.Send(protocol.System{Message: fmt.Sprintf("You equip %s.", def.Name)})
	s.Send(d.inventory(s))
	return nil
}

// useItem applies an item's effect to its user. Consumables are used up.
func (d *Dispatcher) useItem(_ context.Context, s *game.Session, m protocol.UseItem) error {
	it := s.Character.FindItem(m.ItemId)
	if it == nil {
		return userErrorf("You aren't carrying %q.", m.ItemId)
	}
	def := d.Catalog.Item(it.ItemId)
	if def == nil || def.Effect == nil {
		return userErrorf("You can't use %s.", d.itemName(it.ItemId))
	}

	s.Send(protocol.System{Message: fmt.Sprintf("You use %s.", def.Name)})
	d.Engine.ApplyEffect(s, *def.Effect)
	if def.Consumable {
		s.Character.RemoveItem(it.InstanceId)
		s.Send(d.inventory(s))
	}
	return nil
}

func (d *Dispatcher) vendor(s *game.Session, ref string) (*npc.Instance, error) {
	inst := d.NPCs.Find(s.RoomId, ref)
	if inst == nil || !inst.Template.IsVendor() {
		return nil, userErrorf("There is no merchant %q here.", ref)
	}
	return inst, nil
}

func (d *Dispatcher) buy(_ context.Context, s *game.Session, m protocol.Buy) error {
	v, err := d.vendor(s, m.VendorId)
	if err != nil {
		return err
	}
	def := d.Catalog.Item(m.ItemId)
	if def == nil || !slices.Contains(v.Template.Vendor, m.ItemId) {
		return userErrorf("%s doesn't sell %q.", v.Name(), m.ItemId)
	}
	if s.Character.Gold < def.Value {
		return userErrorf("You can't afford %s. It costs %d gold.", def.Name, def.Value)
	}

	s.Character.Gold -= def.Value
	s.Character.AddItem(game.NewItemInstance(def.Id))
	s.Send(protocol.System{Message: fmt.Sprintf("You buy %s for %d gold.", def.Name, def.Value)})
	s.Send(d.inventory(s))
	return nil
}

// sell trades an item to a merchant for half its value.
func (d *Dispatcher) sell(_ context.Context, s *game.Session, m protocol.Sell) error {
	v, err := d.vendor(s, m.VendorId)
	if err != nil {
		return err
	}
	it := s.Character.RemoveItem(m.ItemId)
	if it == nil {
		return userErrorf("You aren't carrying %q.", m.ItemId)
	}

	price := 0
	if def := d.Catalog.Item(it.ItemId); def != nil {
		price = def.Value / 2
	}
	s.Character.Gold += price
	s.Send(protocol.System{Message: fmt.Sprintf("%s buys %s for %d gold.", v.Name(), d.itemName(it.ItemId), price)})
	s.Send(d.inventory(s))
	return nil
}

// train teaches a skill or spell from a trainer, for gold.
func (d *Dispatcher) train(_ context.Context, s *game.Session, m protocol.Train) error {
	inst := d.NPCs.Find(s.RoomId, m.TrainerId)
	if inst == nil || !inst.Template.IsTrainer() {
		return userErrorf("There is no trainer %q here.", m.TrainerId)
	}
	if !slices.Contains(inst.Template.Trainer, m.SkillId) {
		return userErrorf("%s cannot teach you %q.", inst.Name(), m.SkillId)
	}

	c := s.Character
	var name string
	var level, cost int
	var learn func()
	if sk := d.Catalog.Skill(m.SkillId); sk != nil {
		if c.HasSkill(sk.Id) {
			return userErrorf("You already know %s.", sk.Name)
		}
		name, level, cost = sk.Name, sk.Level, sk.Cost
		learn = func() { c.Skills = append(c.Skills, sk.Id) }
	} else if sp := d.Catalog.Spell(m.SkillId); sp != nil {
		if c.KnowsSpell(sp.Id) {
			return userErrorf("You already know %s.", sp.Name)
		}
		name, level, cost = sp.Name, sp.Level, sp.Cost
		learn = func() { c.Spells = append(c.Spells, sp.Id) }
	} else {
		return fmt.Errorf("trainer %s teaches unknown %q", inst.TemplateId, m.SkillId)
	}

	if c.Level < level {
		return userErrorf("You must be level %d to learn %s.", level, name)
	}
	if c.Gold < cost {
		return userErrorf("You can't afford to learn %s. It costs %d gold.", name, cost)
	}

	c.Gold -= cost
	learn()
	s.Send(protocol.System{Message: fmt.Sprintf("%s teaches you %s.", inst.Name(), name)})
	s.Send(d.inventory(s))
	return nil
}
