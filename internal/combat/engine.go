package combat

import (
	"math/rand/v2"

	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/npc"
	"github.com/pixil98/mudcore/internal/protocol"
)

// Attack outcomes.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeDodge = "dodge"
	OutcomeParry = "parry"
	OutcomeEvade = "evade"
)

// AttackResult is one resolved attack.
type AttackResult struct {
	Outcome  string
	Damage   int
	Backstab bool
}

type avoidance struct {
	outcome string
	stat    game.Stat
}

// Each avoidance is its own roll, checked in this order before the hit roll.
var avoidances = []avoidance{
	{outcome: OutcomeDodge, stat: game.StatAgility},
	{outcome: OutcomeParry, stat: game.StatDexterity},
	{outcome: OutcomeEvade, stat: game.StatPerception},
}

// Engine resolves attacks, skills, spells and timed effects. Not safe for
// concurrent use; callers hold the StateLock.
type Engine struct {
	world   *game.World
	reg     *game.Registry
	npcs    *npc.Manager
	catalog game.Catalog
	trail   *game.TrailLedger
	rng     *rand.Rand

	normalization      float64
	maxAvoidPercent    float64
	hitPercent         float64
	backstabMultiplier int

	startRoom    string
	respawnGrace int
	restHeal     int
	onRespawn    func(*game.Session)
}

func NewEngine(world *game.World, reg *game.Registry, npcs *npc.Manager, catalog game.Catalog, trail *game.TrailLedger, opts ...EngineOpt) *Engine {
	e := &Engine{
		world:              world,
		reg:                reg,
		npcs:               npcs,
		catalog:            catalog,
		trail:              trail,
		rng:                rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		normalization:      100,
		maxAvoidPercent:    30,
		hitPercent:         80,
		backstabMultiplier: 3,
		respawnGrace:       3,
		restHeal:           2,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetRespawnHook registers a function called after a dead player has been
// moved to the start room.
func (e *Engine) SetRespawnHook(fn func(*game.Session)) {
	e.onRespawn = fn
}

// Player wraps a session as a Combatant.
func (e *Engine) Player(s *game.Session) *PlayerCombatant {
	return &PlayerCombatant{Session: s, catalog: e.catalog}
}

// AvoidanceChance converts a defensive stat to a percent chance, scaled by the
// normalization constant and clamped to the configured maximum.
func (e *Engine) AvoidanceChance(stat int) float64 {
	if stat <= 0 || e.normalization <= 0 {
		return 0
	}
	return min(float64(stat)*100/e.normalization, e.maxAvoidPercent)
}

// ResolveAttack rolls one attack and applies its damage. An attacker that is
// hidden when the attack resolves lands an automatic backstab, which reveals
// them; the next attack is an ordinary one.
func (e *Engine) ResolveAttack(attacker, defender Combatant) AttackResult {
	if pc, ok := attacker.(*PlayerCombatant); ok && pc.Session.Hidden {
		dmg := rollDamage(e.rng, attacker.AttackDamage(), defender.Armor()) * e.backstabMultiplier
		dmg = defender.ApplyDamage(dmg)
		e.reg.BreakStealth(pc.Session)
		return AttackResult{Outcome: OutcomeHit, Damage: dmg, Backstab: true}
	}

	for _, a := range avoidances {
		if chance(e.rng, e.AvoidanceChance(defender.Stat(a.stat))) {
			return AttackResult{Outcome: a.outcome}
		}
	}

	if !chance(e.rng, e.hitPercent) {
		return AttackResult{Outcome: OutcomeMiss}
	}
	dmg := defender.ApplyDamage(rollDamage(e.rng, attacker.AttackDamage(), defender.Armor()))
	return AttackResult{Outcome: OutcomeHit, Damage: dmg}
}

// PlayerAttack has a session swing at an NPC, reports it to the room and
// handles a kill.
func (e *Engine) PlayerAttack(s *game.Session, target *npc.Instance) AttackResult {
	s.Aggress()
	target.Provoke(s.Id())

	res := e.ResolveAttack(e.Player(s), &NPCCombatant{Instance: target})
	e.reg.BroadcastToRoom(s.RoomId, protocol.Combat{
		Attacker: s.Name(),
		Defender: target.Name(),
		Outcome:  res.Outcome,
		Damage:   res.Damage,
		Backstab: res.Backstab,
	}, nil)

	if !target.Alive() {
		e.KillNPC(target, s)
	}
	return res
}

// NPCAttack has an NPC swing at a session.
func (e *Engine) NPCAttack(inst *npc.Instance, s *game.Session) AttackResult {
	res := e.ResolveAttack(&NPCCombatant{Instance: inst}, e.Player(s))
	e.reg.BroadcastToRoom(s.RoomId, protocol.Combat{
		Attacker: inst.Name(),
		Defender: s.Name(),
		Outcome:  res.Outcome,
		Damage:   res.Damage,
	}, nil)

	if !s.Character.Alive() {
		e.KillSession(s, inst.Name())
	}
	return res
}

// KillNPC removes a dead NPC, drops its loot in the room and rewards the
// killer, who may be nil.
func (e *Engine) KillNPC(inst *npc.Instance, killer *game.Session) {
	roomId := inst.RoomId
	info := inst.Info()
	e.npcs.Kill(inst.Id)

	died := protocol.NPCDied{NPC: info}
	if killer != nil {
		died.Killer = killer.Name()
	}
	e.reg.BroadcastToRoom(roomId, died, nil)

	for _, s := range e.reg.Authenticated() {
		if s.TargetId == inst.Id {
			s.AttackMode = false
			s.TargetId = ""
		}
	}

	items, gold := e.DropLoot(roomId, inst.Template.LootTable)
	if len(items) > 0 {
		e.reg.BroadcastToRoom(roomId, e.RoomItems(roomId), nil)
	}

	if killer == nil || killer.Character == nil {
		return
	}
	if gold > 0 {
		killer.Character.Gold += gold
		killer.Send(protocol.System{Message: goldMessage(gold)})
	}
	xp := game.XPForKill(killer.Character.Level, inst.Template.Level, inst.Template.XP)
	if xp <= 0 {
		return
	}
	killer.Send(protocol.System{Message: xpMessage(xp)})
	for _, lvl := range killer.Character.GainXP(xp, e.catalog.Class(killer.Character.Class)) {
		killer.Send(protocol.LevelUp{Level: lvl})
	}
}

// KillSession handles a player's death: every combat flag is cleared, NPCs
// forget them and they wake in the start room at full health.
func (e *Engine) KillSession(s *game.Session, killer string) {
	from := s.RoomId
	s.Die()
	e.npcs.Disengage(s.Id())

	msg := s.Name() + " has died."
	if killer != "" {
		msg = s.Name() + " has been slain by " + killer + "."
	}
	e.reg.BroadcastToRoom(from, protocol.System{Message: msg}, s)
	s.Send(protocol.System{Message: "You have been slain! You awaken in a familiar place..."})

	s.Character.HP = s.Character.MaxHP
	s.GraceTicks = e.respawnGrace
	if e.startRoom != "" && e.world.Room(e.startRoom) != nil {
		s.RoomId = e.startRoom
	}
	if from != s.RoomId {
		e.reg.BroadcastToRoom(from, protocol.PlayerLeft{Name: s.Name()}, s)
		e.reg.BroadcastToRoom(s.RoomId, protocol.PlayerEntered{Name: s.Name()}, s)
	}
	if e.onRespawn != nil {
		e.onRespawn(s)
	}
}

// RoomItems builds the item list message for a room.
func (e *Engine) RoomItems(roomId string) protocol.RoomItems {
	msg := protocol.RoomItems{RoomId: roomId, Items: []protocol.ItemInfo{}}
	for _, it := range e.world.RoomItems(roomId) {
		msg.Items = append(msg.Items, e.ItemInfo(it))
	}
	return msg
}

// ItemInfo describes an item instance for the client.
func (e *Engine) ItemInfo(it *game.ItemInstance) protocol.ItemInfo {
	info := protocol.ItemInfo{InstanceId: it.InstanceId, ItemId: it.ItemId, Name: it.ItemId}
	if def := e.catalog.Item(it.ItemId); def != nil {
		info.Name = def.Name
	}
	return info
}
