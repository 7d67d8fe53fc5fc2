package combat

import (
	"fmt"

	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/npc"
	"github.com/pixil98/mudcore/internal/protocol"
)

// CombatRound runs one round of fighting. Players act first: a queued skill
// fires in place of anything else, then a readied spell replaces the melee
// swing of a player in attack mode. Hostile NPCs then strike.
func (e *Engine) CombatRound() {
	for _, s := range e.reg.Authenticated() {
		if s.Character == nil || !s.Character.Alive() {
			continue
		}
		if p := s.PendingSkill(); p.SkillId() != "" {
			s.ClearPendingSkill()
			e.ExecuteSkill(s, p)
			continue
		}
		if !s.AttackMode {
			continue
		}

		target := e.npcs.Get(s.TargetId)
		if target == nil || target.RoomId != s.RoomId || !target.Alive() {
			s.AttackMode = false
			s.TargetId = ""
			s.Send(protocol.System{Message: "Your target is no longer here."})
			continue
		}

		if id := s.ReadiedSpell(); id != "" {
			s.SetReadiedSpell("")
			if e.castReadied(s, id, target) {
				continue
			}
		}
		e.PlayerAttack(s, target)
	}

	for _, inst := range e.npcs.All() {
		if e.npcs.Get(inst.Id) == nil || !inst.Alive() || !inst.Hostile {
			continue
		}
		if inst.Stunned {
			inst.Stunned = false
			continue
		}
		if victim := e.npcTarget(inst); victim != nil {
			e.NPCAttack(inst, victim)
		}
	}
}

// castReadied casts a readied spell during the round. It returns false when
// the spell could not be cast and the player should swing instead.
func (e *Engine) castReadied(s *game.Session, id string, target *npc.Instance) bool {
	spell := e.catalog.Spell(id)
	if spell == nil {
		return false
	}
	if s.Character.Mana < spell.ManaCost {
		s.Send(protocol.System{Message: fmt.Sprintf("You lack the mana to cast %s.", spell.Name)})
		return false
	}
	if spell.Offensive() {
		e.CastAtNPC(s, spell, target)
	} else {
		e.CastAtPlayer(s, spell, s)
	}
	return true
}

// npcTarget picks who a hostile NPC attacks: its current target when that
// session is here and valid, otherwise the first valid session in the room.
// A pursuing NPC only ever attacks the session it is chasing.
func (e *Engine) npcTarget(inst *npc.Instance) *game.Session {
	if inst.TargetId != "" {
		s := e.reg.SessionById(inst.TargetId)
		if s != nil && s.RoomId == inst.RoomId && s.IsValidNPCTarget() {
			return s
		}
		if inst.Pursuing() {
			return nil
		}
	}
	for _, s := range e.reg.PlayersInRoom(inst.RoomId) {
		if s.IsValidNPCTarget() {
			inst.TargetId = s.Id()
			return s
		}
	}
	return nil
}
