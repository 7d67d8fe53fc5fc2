package combat

import (
	"fmt"

	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/protocol"
)

// ApplyEffect attaches a timed effect to a session. The same effect applied
// twice refreshes rather than stacks.
func (e *Engine) ApplyEffect(s *game.Session, spec game.EffectSpec) {
	eff := game.NewActiveEffect(spec)
	for i, existing := range s.Effects {
		if existing.Name == spec.Name {
			s.Effects[i] = eff
			return
		}
	}
	s.Effects = append(s.Effects, eff)
	s.Send(protocol.System{Message: fmt.Sprintf("You are affected by %s.", spec.Name)})
}

// TickEffects applies one tick of every effect on a session and returns the
// resulting notifications. Healing stops at max hp. Damage leaves at least 1
// hp unless the effect is lethal, in which case the session dies. An effect
// is removed after its final tick has been applied and reported. Buffs change
// nothing per tick but still report that they hold.
func (e *Engine) TickEffects(s *game.Session) []protocol.EffectTick {
	if s.Character == nil || len(s.Effects) == 0 {
		return nil
	}

	var ticks []protocol.EffectTick
	var killedBy string
	kept := s.Effects[:0]
	for _, eff := range s.Effects {
		eff.Remaining--
		tick := protocol.EffectTick{
			Name:       eff.Name,
			EffectKind: string(eff.Kind),
			Remaining:  eff.Remaining,
			Expired:    eff.Remaining <= 0,
		}

		c := s.Character
		switch eff.Kind {
		case game.EffectHeal:
			tick.Amount = c.Heal(eff.Magnitude)
			tick.Message = fmt.Sprintf("%s restores %d health.", eff.Name, tick.Amount)
		case game.EffectMana:
			tick.Amount = c.RestoreMana(eff.Magnitude)
			tick.Message = fmt.Sprintf("%s restores %d mana.", eff.Name, tick.Amount)
		case game.EffectPoison:
			dmg := eff.Magnitude
			if !eff.Lethal {
				dmg = min(dmg, c.HP-1)
			}
			dmg = max(dmg, 0)
			c.HP -= dmg
			tick.Amount = dmg
			tick.Message = fmt.Sprintf("%s deals %d damage.", eff.Name, dmg)
			if c.HP <= 0 && killedBy == "" {
				killedBy = eff.Name
			}
		case game.EffectDrain:
			drained := min(eff.Magnitude, c.Mana)
			c.Mana -= drained
			tick.Amount = drained
			tick.Message = fmt.Sprintf("%s drains %d mana.", eff.Name, drained)
		case game.EffectBuff:
			if !tick.Expired {
				tick.Amount = eff.Magnitude
				tick.Message = fmt.Sprintf("%s holds, +%d %s.", eff.Name, eff.Magnitude, eff.Stat)
			}
		}

		if tick.Expired {
			if tick.Message != "" {
				tick.Message += " "
			}
			tick.Message += fmt.Sprintf("%s wears off.", eff.Name)
		} else {
			kept = append(kept, eff)
		}
		ticks = append(ticks, tick)
	}
	s.Effects = kept

	if killedBy != "" {
		e.KillSession(s, killedBy)
	}
	return ticks
}

// TickSessions advances every logged in session by one tick: grace and
// cooldown timers, timed effects, and resting or meditation recovery.
func (e *Engine) TickSessions() {
	for _, s := range e.reg.Authenticated() {
		s.TickTimers()
		for _, t := range e.TickEffects(s) {
			s.Send(t)
		}
		if s.Character == nil {
			continue
		}
		if s.Resting {
			s.Character.Heal(e.restHeal)
		}
		if s.Meditating {
			s.Character.RestoreMana(1 + s.EffectiveStat(game.StatWisdom)/4)
		}
	}
}
