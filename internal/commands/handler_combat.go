package commands

import (
	"context"
	"fmt"

	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/npc"
	"github.com/pixil98/mudcore/internal/protocol"
)

// npcTarget resolves ref, or the session's selected target when ref is
// empty, to an NPC in the session's room.
func (d *Dispatcher) npcTarget(s *game.Session, ref string) (*npc.Instance, error) {
	if ref == "" {
		ref = s.TargetId
	}
	if ref == "" {
		return nil, NewUserError("You have no target.")
	}
	inst := d.NPCs.Find(s.RoomId, ref)
	if inst == nil {
		return nil, userErrorf("You don't see %q here.", ref)
	}
	return inst, nil
}

// attack toggles attack mode against the selected target. The first swing
// lands on the next combat round.
func (d *Dispatcher) attack(_ context.Context, s *game.Session, _ protocol.AttackToggle) error {
	if s.AttackMode {
		s.AttackMode = false
		s.Send(protocol.System{Message: "You stop attacking."})
		return nil
	}

	inst, err := d.npcTarget(s, "")
	if err != nil {
		return err
	}
	s.StopResting()
	s.Aggress()
	s.AttackMode = true
	s.TargetId = inst.Id
	inst.Provoke(s.Id())
	s.Send(protocol.System{Message: fmt.Sprintf("You attack %s!", inst.Name())})
	return nil
}

func (d *Dispatcher) target(_ context.Context, s *game.Session, m protocol.SelectTarget) error {
	if m.TargetId == "" {
		return NewUserError("Target whom?")
	}
	inst := d.NPCs.Find(s.RoomId, m.TargetId)
	if inst == nil {
		return userErrorf("You don't see %q here.", m.TargetId)
	}
	s.TargetId = inst.Id
	s.Send(protocol.System{Message: fmt.Sprintf("You target %s.", inst.Name())})
	return nil
}

// useSkill queues a combat skill for the next round. Mana is charged when
// it fires. Hide is the exception: it takes effect at once.
func (d *Dispatcher) useSkill(_ context.Context, s *game.Session, m protocol.UseSkill) error {
	def := d.Catalog.Skill(m.SkillId)
	if def == nil {
		return userErrorf("Unknown skill %q.", m.SkillId)
	}
	if !s.Character.HasSkill(def.Id) {
		return userErrorf("You have not learned %s.", def.Name)
	}
	if cd := s.Cooldown(def.Id); cd > 0 {
		return userErrorf("%s will be ready in %d ticks.", def.Name, cd)
	}
	if s.Character.Mana < def.ManaCost {
		return userErrorf("You lack the mana to use %s.", def.Name)
	}

	var pending game.PendingSkill
	var msg string
	switch def.Id {
	case game.SkillHide:
		return d.hide(s, def)
	case game.SkillBash:
		inst, err := d.npcTarget(s, m.TargetId)
		if err != nil {
			return err
		}
		pending = game.BashSkill{Target: inst.Id}
		msg = fmt.Sprintf("You prepare to bash %s.", inst.Name())
	case game.SkillKick:
		inst, err := d.npcTarget(s, m.TargetId)
		if err != nil {
			return err
		}
		var dir game.Direction
		if m.Direction != "" {
			if dir, err = parseDirection(m.Direction); err != nil {
				return err
			}
		}
		pending = game.KickSkill{Target: inst.Id, Direction: dir}
		msg = fmt.Sprintf("You prepare to kick %s.", inst.Name())
	case game.SkillMeditate:
		if s.AttackMode {
			return NewUserError("You can't meditate while fighting!")
		}
		pending = game.MeditateSkill{}
		msg = "You prepare to meditate."
	case game.SkillTrack:
		if m.TargetId == "" {
			return NewUserError("Track whom?")
		}
		pending = game.TrackSkill{Target: m.TargetId}
		msg = fmt.Sprintf("You look for signs of %s.", m.TargetId)
	default:
		return userErrorf("%s cannot be used that way.", def.Name)
	}

	s.StopResting()
	s.SetPendingSkill(pending)
	s.Send(protocol.System{Message: msg})
	return nil
}

func (d *Dispatcher) hide(s *game.Session, def *game.SkillDef) error {
	if s.Hidden {
		return NewUserError("You are already hidden.")
	}
	if s.AttackMode || len(d.NPCs.Targeting(s.Id())) > 0 {
		return NewUserError("You can't hide while fighting!")
	}
	s.Character.Mana -= def.ManaCost
	s.StopResting()
	s.Hidden = true
	s.StartCooldown(def.Id, def.Cooldown)
	s.Send(protocol.SkillEffect{SkillId: def.Id, Actor: s.Name(), Message: "You slip into the shadows."})
	return nil
}

// castSpell readies an offensive spell while fighting, so it replaces the
// next swing. Out of combat, and for spells on players, it casts at once.
func (d *Dispatcher) castSpell(_ context.Context, s *game.Session, m protocol.CastSpell) error {
	spell := d.Catalog.Spell(m.SpellId)
	if spell == nil {
		return userErrorf("Unknown spell %q.", m.SpellId)
	}
	if !s.Character.KnowsSpell(spell.Id) {
		return userErrorf("You don't know %s.", spell.Name)
	}
	if s.Character.Mana < spell.ManaCost {
		return userErrorf("You lack the mana to cast %s.", spell.Name)
	}
	s.StopResting()

	if !spell.Offensive() {
		target := s
		if m.TargetId != "" {
			target = d.Registry.Session(m.TargetId)
			if target == nil || target.RoomId != s.RoomId {
				return userErrorf("You don't see %q here.", m.TargetId)
			}
		}
		d.Engine.CastAtPlayer(s, spell, target)
		return nil
	}

	inst, err := d.npcTarget(s, m.TargetId)
	if err != nil {
		return err
	}
	if s.AttackMode && inst.Id == s.TargetId {
		s.SetReadiedSpell(spell.Id)
		s.Send(protocol.System{Message: fmt.Sprintf("You ready %s.", spell.Name)})
		return nil
	}
	s.TargetId = inst.Id
	d.Engine.CastAtNPC(s, spell, inst)
	return nil
}
