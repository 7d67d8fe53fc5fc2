package combat

import (
	"fmt"

	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/npc"
	"github.com/pixil98/mudcore/internal/protocol"
)

// CastAtNPC casts an offensive spell at an NPC. Mana and target checks are
// the caller's job. Timed effects only attach to players, so an effect on an
// NPC lands all at once.
func (e *Engine) CastAtNPC(s *game.Session, spell *game.SpellDef, target *npc.Instance) {
	s.Character.Mana -= spell.ManaCost
	s.Aggress()
	e.reg.BreakStealth(s)
	target.Provoke(s.Id())

	dmg := spell.Damage
	if dmg > 0 {
		dmg += s.EffectiveStat(game.StatIntelligence) / 4
	}
	if spell.Effect != nil && spell.Effect.Kind == game.EffectPoison {
		dmg += spell.Effect.Magnitude * spell.Effect.Duration
	}
	dmg = target.ApplyDamage(dmg)

	e.reg.BroadcastToRoom(s.RoomId, protocol.SpellEffect{
		SpellId: spell.Id,
		Caster:  s.Name(),
		Target:  target.Name(),
		Message: fmt.Sprintf("%s's %s strikes %s.", s.Name(), spell.Name, target.Name()),
		Amount:  dmg,
	}, nil)
	if !target.Alive() {
		e.KillNPC(target, s)
	}
}

// CastAtPlayer casts a spell at a player, which may be the caster.
func (e *Engine) CastAtPlayer(s *game.Session, spell *game.SpellDef, target *game.Session) {
	s.Character.Mana -= spell.ManaCost

	amount := 0
	if spell.Heal > 0 {
		amount = target.Character.Heal(spell.Heal + s.EffectiveStat(game.StatWisdom)/4)
	}
	if spell.Effect != nil {
		e.ApplyEffect(target, *spell.Effect)
	}

	msg := fmt.Sprintf("%s casts %s on %s.", s.Name(), spell.Name, target.Name())
	if target == s {
		msg = fmt.Sprintf("%s casts %s.", s.Name(), spell.Name)
	}
	e.reg.BroadcastToRoom(s.RoomId, protocol.SpellEffect{
		SpellId: spell.Id,
		Caster:  s.Name(),
		Target:  target.Name(),
		Message: msg,
		Amount:  amount,
	}, nil)
}
