package combat

import (
	"fmt"
	"strings"

	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/npc"
	"github.com/pixil98/mudcore/internal/protocol"
)

// ExecuteSkill fires a queued skill, charges its mana and starts its
// cooldown. A skill that cannot fire costs nothing.
func (e *Engine) ExecuteSkill(s *game.Session, skill game.PendingSkill) {
	if s.Character == nil {
		return
	}
	def := e.catalog.Skill(skill.SkillId())
	cooldown, cost := 0, 0
	if def != nil {
		cooldown, cost = def.Cooldown, def.ManaCost
	}
	if s.Character.Mana < cost {
		s.Send(protocol.System{Message: fmt.Sprintf("You lack the mana to use %s.", def.Name)})
		return
	}

	switch sk := skill.(type) {
	case game.BashSkill:
		target := e.npcs.Find(s.RoomId, sk.Target)
		if target == nil {
			s.Send(protocol.System{Message: "Your target is no longer here."})
			return
		}
		e.bash(s, target, def)
	case game.KickSkill:
		target := e.npcs.Find(s.RoomId, sk.Target)
		if target == nil {
			s.Send(protocol.System{Message: "Your target is no longer here."})
			return
		}
		e.kick(s, target, sk.Direction, def)
	case game.MeditateSkill:
		s.Meditating = true
		s.Send(protocol.SkillEffect{SkillId: game.SkillMeditate, Actor: s.Name(), Message: "You sink into a meditative trance."})
	case game.TrackSkill:
		e.track(s, sk.Target)
	default:
		return
	}
	s.Character.Mana -= cost
	s.StartCooldown(skill.SkillId(), cooldown)
}

func (e *Engine) skillDamage(s *game.Session, def *game.SkillDef) int {
	base := e.Player(s).AttackDamage()
	if def != nil {
		base += def.Damage
	}
	return base
}

func (e *Engine) bash(s *game.Session, target *npc.Instance, def *game.SkillDef) {
	s.Aggress()
	e.reg.BreakStealth(s)
	target.Provoke(s.Id())

	dmg := target.ApplyDamage(rollDamage(e.rng, e.skillDamage(s, def), target.Template.Level))
	target.Stunned = true
	e.reg.BroadcastToRoom(s.RoomId, protocol.SkillEffect{
		SkillId: game.SkillBash,
		Actor:   s.Name(),
		Target:  target.Name(),
		Message: fmt.Sprintf("%s bashes %s, leaving it reeling!", s.Name(), target.Name()),
		Amount:  dmg,
	}, nil)
	if !target.Alive() {
		e.KillNPC(target, s)
	}
}

func (e *Engine) kick(s *game.Session, target *npc.Instance, dir game.Direction, def *game.SkillDef) {
	s.Aggress()
	e.reg.BreakStealth(s)
	target.Provoke(s.Id())

	dmg := target.ApplyDamage(rollDamage(e.rng, e.skillDamage(s, def), target.Template.Level))
	e.reg.BroadcastToRoom(s.RoomId, protocol.SkillEffect{
		SkillId: game.SkillKick,
		Actor:   s.Name(),
		Target:  target.Name(),
		Message: fmt.Sprintf("%s kicks %s.", s.Name(), target.Name()),
		Amount:  dmg,
	}, nil)
	if !target.Alive() {
		e.KillNPC(target, s)
		return
	}
	if dir == "" {
		return
	}

	from := target.RoomId
	dest, ok := e.world.Destination(from, dir)
	if !ok || e.world.IsLocked(from, dir) || e.world.IsHidden(from, dir) {
		return
	}
	target.RoomId = dest
	target.TargetId = ""
	s.AttackMode = false
	s.TargetId = ""
	e.reg.BroadcastToRoom(from, protocol.NPCLeft{NPC: target.Info(), Direction: string(dir)}, nil)
	e.reg.BroadcastToRoom(dest, protocol.NPCEntered{NPC: target.Info(), From: from}, nil)
}

// track reads the trail ledger of the tracker's room for a named entity.
func (e *Engine) track(s *game.Session, name string) {
	msg := fmt.Sprintf("You find no tracks of %s here.", name)
	for _, entry := range e.trail.Recent(s.RoomId) {
		if strings.EqualFold(entry.Name, name) || strings.Contains(strings.ToLower(entry.Name), strings.ToLower(name)) {
			msg = fmt.Sprintf("The tracks of %s lead %s.", entry.Name, entry.Direction)
			break
		}
	}
	s.Send(protocol.SkillEffect{SkillId: game.SkillTrack, Actor: s.Name(), Target: name, Message: msg})
}
