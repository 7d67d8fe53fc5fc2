package game

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/pixil98/mudcore/internal/protocol"
)

// Session is the live state of one connection. Everything except Id and
// Send is guarded by the StateLock.
type Session struct {
	id  string
	pub Publisher

	// Identity and Character are nil until login.
	Identity  *Identity
	Character *Character
	RoomId    string

	AttackMode bool
	TargetId   string
	// GraceTicks keeps NPCs from targeting the session while positive.
	GraceTicks int

	pending      PendingSkill
	readiedSpell string
	cooldowns    map[string]int

	Hidden     bool
	Meditating bool
	Resting    bool
	GodMode    bool

	discoveredHidden map[string]bool
	discoveredLocked map[string]bool

	Effects []*ActiveEffect
}

func NewSession(pub Publisher) *Session {
	return &Session{
		id:               uuid.New().String(),
		pub:              pub,
		pending:          NoSkill{},
		cooldowns:        make(map[string]int),
		discoveredHidden: make(map[string]bool),
		discoveredLocked: make(map[string]bool),
	}
}

func (s *Session) Id() string {
	return s.id
}

// Subject is where this session's outbound messages are published.
func (s *Session) Subject() string {
	return SessionSubject(s.id)
}

func (s *Session) Authenticated() bool {
	return s.Identity != nil
}

// Name returns the character name, or empty before login.
func (s *Session) Name() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.CharacterName
}

// Login attaches an identity and restores the character's saved room and
// discoveries.
func (s *Session) Login(id *Identity, c *Character) {
	s.Identity = id
	s.Character = c
	s.RoomId = c.RoomId
	for _, k := range c.DiscoveredHidden {
		s.discoveredHidden[k] = true
	}
	for _, k := range c.DiscoveredLocked {
		s.discoveredLocked[k] = true
	}
}

// Snapshot copies the persistent part of the session so it can be saved
// after the lock is released.
func (s *Session) Snapshot() *Character {
	if s.Character == nil {
		return nil
	}
	c := *s.Character
	c.Stats = maps.Clone(s.Character.Stats)
	c.Inventory = slices.Clone(s.Character.Inventory)
	c.Equipment = maps.Clone(s.Character.Equipment)
	c.Skills = slices.Clone(s.Character.Skills)
	c.Spells = slices.Clone(s.Character.Spells)
	c.RoomId = s.RoomId
	c.DiscoveredHidden = slices.Sorted(maps.Keys(s.discoveredHidden))
	c.DiscoveredLocked = slices.Sorted(maps.Keys(s.discoveredLocked))
	return &c
}

// TickTimers counts down the grace period and every skill cooldown.
func (s *Session) TickTimers() {
	if s.GraceTicks > 0 {
		s.GraceTicks--
	}
	for id, t := range s.cooldowns {
		if t <= 1 {
			delete(s.cooldowns, id)
			continue
		}
		s.cooldowns[id] = t - 1
	}
}

// Aggress ends the grace period. Called for every hostile action.
func (s *Session) Aggress() {
	s.GraceTicks = 0
}

// IsValidNPCTarget reports whether an NPC may attack this session.
func (s *Session) IsValidNPCTarget() bool {
	return s.Authenticated() && s.GraceTicks <= 0 && !s.Hidden && !s.GodMode &&
		s.Character != nil && s.Character.Alive()
}

func (s *Session) PendingSkill() PendingSkill {
	return s.pending
}

// SetPendingSkill queues a skill for the next round. A queued skill always
// cancels a readied spell.
func (s *Session) SetPendingSkill(p PendingSkill) {
	if p == nil {
		p = NoSkill{}
	}
	s.pending = p
	if _, none := p.(NoSkill); !none {
		s.readiedSpell = ""
	}
}

// ClearPendingSkill drops the queued skill without touching a readied spell.
func (s *Session) ClearPendingSkill() {
	s.pending = NoSkill{}
}

func (s *Session) ReadiedSpell() string {
	return s.readiedSpell
}

// SetReadiedSpell readies a spell for the next round and drops any queued
// skill, so the most recent choice is the one that fires.
func (s *Session) SetReadiedSpell(id string) {
	s.readiedSpell = id
	if id != "" {
		s.pending = NoSkill{}
	}
}

// Cooldown returns the ticks until a skill can be used again.
func (s *Session) Cooldown(skillId string) int {
	return s.cooldowns[skillId]
}

func (s *Session) StartCooldown(skillId string, ticks int) {
	if ticks > 0 {
		s.cooldowns[skillId] = ticks
	}
}

// Die clears every combat and stance flag at once.
func (s *Session) Die() {
	s.AttackMode = false
	s.TargetId = ""
	s.readiedSpell = ""
	s.pending = NoSkill{}
	s.Hidden = false
	s.Meditating = false
	s.Resting = false
	s.Effects = nil
}

// StopResting clears the meditating and resting flags.
func (s *Session) StopResting() {
	s.Meditating = false
	s.Resting = false
}

func (s *Session) DiscoverHidden(key string) { s.discoveredHidden[key] = true }
func (s *Session) DiscoverLocked(key string) { s.discoveredLocked[key] = true }

func (s *Session) HasDiscoveredHidden(key string) bool { return s.discoveredHidden[key] }
func (s *Session) HasDiscoveredLocked(key string) bool { return s.discoveredLocked[key] }

// EffectiveStat is the base stat plus every active buff on it.
func (s *Session) EffectiveStat(st Stat) int {
	if s.Character == nil {
		return 0
	}
	v := s.Character.Stats[st]
	for _, e := range s.Effects {
		if e.Kind == EffectBuff && e.Stat == st {
			v += e.Magnitude
		}
	}
	return v
}

// Send publishes a message to this session's connection. Delivery failures
// are logged; a session whose connection is gone simply stops receiving.
func (s *Session) Send(msg protocol.ServerMessage) {
	if s.pub == nil {
		return
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		slog.Error("encoding server message", "kind", msg.Kind(), "error", err)
		return
	}
	if err := s.pub.Publish(s.Subject(), data); err != nil {
		slog.Warn("publishing to session", "session", s.id, "kind", msg.Kind(), "error", err)
	}
}
