package npc

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/mudcore/internal/game"
)

// Movement is one NPC changing rooms during Advance.
type Movement struct {
	NPC       *Instance
	From      string
	To        string
	Direction game.Direction
	// GaveUp is set on the tick a pursuing NPC reverted to its prior mode.
	GaveUp bool
}

// Locator finds a session for pursuit.
type Locator interface {
	Locate(sessionId string) (roomId string, visible bool, ok bool)
}

type respawn struct {
	templateId string
	roomId     string
	ticks      int
}

// Manager owns every live NPC. Not safe for concurrent use; callers hold the
// StateLock.
type Manager struct {
	world     *game.World
	trail     *game.TrailLedger
	templates map[string]*Template
	rng       *rand.Rand

	maxPursuitTicks   int
	maxLostTrailTicks int
	respawnTicks      int

	instances map[string]*Instance
	respawns  []*respawn
}

func NewManager(world *game.World, trail *game.TrailLedger, templates map[string]*Template, opts ...ManagerOpt) *Manager {
	m := &Manager{
		world:             world,
		trail:             trail,
		templates:         templates,
		rng:               rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		maxPursuitTicks:   20,
		maxLostTrailTicks: 3,
		respawnTicks:      30,
		instances:         make(map[string]*Instance),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Template returns a template by id.
func (m *Manager) Template(id string) *Template {
	return m.templates[id]
}

// Spawn creates an instance of a template in a room.
func (m *Manager) Spawn(templateId, roomId string) (*Instance, error) {
	t, ok := m.templates[templateId]
	if !ok {
		return nil, fmt.Errorf("unknown npc template %q", templateId)
	}
	if m.world.Room(roomId) == nil {
		return nil, fmt.Errorf("unknown room %q", roomId)
	}
	mode := t.Mode
	if mode == "" {
		mode = ModeIdle
	}
	inst := &Instance{
		Id:         uuid.New().String(),
		TemplateId: templateId,
		Template:   t,
		RoomId:     roomId,
		HP:         t.HP,
		MaxHP:      t.HP,
		Hostile:    t.Hostile,
		Mode:       mode,
		PriorMode:  mode,
	}
	m.instances[inst.Id] = inst
	return inst, nil
}

// SpawnAll spawns every NPC the rooms of the world list. These instances
// respawn in the same room after they die.
func (m *Manager) SpawnAll() error {
	el := errors.NewErrorList()
	for _, roomId := range m.world.RoomIds() {
		for _, templateId := range m.world.Room(roomId).Spawns {
			inst, err := m.Spawn(templateId, roomId)
			if err != nil {
				el.Add(fmt.Errorf("room %q: %w", roomId, err))
				continue
			}
			inst.homeRoom = roomId
		}
	}
	return el.Err()
}

// Despawn removes an instance without queueing a respawn.
func (m *Manager) Despawn(id string) {
	delete(m.instances, id)
}

// Kill removes a dead instance. Room spawned instances are queued to come
// back after the template's respawn delay.
func (m *Manager) Kill(id string) {
	inst, ok := m.instances[id]
	if !ok {
		return
	}
	delete(m.instances, id)
	if inst.homeRoom == "" {
		return
	}
	ticks := inst.Template.RespawnTicks
	if ticks <= 0 {
		ticks = m.respawnTicks
	}
	m.respawns = append(m.respawns, &respawn{templateId: inst.TemplateId, roomId: inst.homeRoom, ticks: ticks})
}

// TickRespawns counts down queued respawns and returns the instances that
// came back this tick.
func (m *Manager) TickRespawns() []*Instance {
	var spawned []*Instance
	pending := m.respawns[:0]
	for _, r := range m.respawns {
		r.ticks--
		if r.ticks > 0 {
			pending = append(pending, r)
			continue
		}
		inst, err := m.Spawn(r.templateId, r.roomId)
		if err != nil {
			continue
		}
		inst.homeRoom = r.roomId
		spawned = append(spawned, inst)
	}
	m.respawns = pending
	return spawned
}

// Get returns a live instance by id.
func (m *Manager) Get(id string) *Instance {
	return m.instances[id]
}

// All returns every live instance ordered by id.
func (m *Manager) All() []*Instance {
	out := make([]*Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		out = append(out, inst)
	}
	slices.SortFunc(out, func(a, b *Instance) int { return cmp.Compare(a.Id, b.Id) })
	return out
}

// InRoom returns the live instances in a room ordered by name, then id.
func (m *Manager) InRoom(roomId string) []*Instance {
	var out []*Instance
	for _, inst := range m.instances {
		if inst.RoomId == roomId {
			out = append(out, inst)
		}
	}
	slices.SortFunc(out, func(a, b *Instance) int {
		if c := cmp.Compare(a.Template.Name, b.Template.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})
	return out
}

// Find resolves a player's reference to an NPC in a room: an instance id or
// a name or alias.
func (m *Manager) Find(roomId, ref string) *Instance {
	if inst, ok := m.instances[ref]; ok && inst.RoomId == roomId {
		return inst
	}
	for _, inst := range m.InRoom(roomId) {
		if inst.Template.MatchName(ref) {
			return inst
		}
	}
	return nil
}

// Targeting returns the NPCs whose target is the given session.
func (m *Manager) Targeting(sessionId string) []*Instance {
	var out []*Instance
	for _, inst := range m.All() {
		if inst.TargetId == sessionId {
			out = append(out, inst)
		}
	}
	return out
}

// Disengage makes every NPC forget a session, ending any pursuit of it.
func (m *Manager) Disengage(sessionId string) {
	for _, inst := range m.instances {
		if inst.TargetId == sessionId {
			m.stopPursuit(inst)
		}
	}
}

// StartPursuit switches an NPC to chasing a session.
func (m *Manager) StartPursuit(id, sessionId string) {
	inst, ok := m.instances[id]
	if !ok {
		return
	}
	if inst.Mode != ModePursuit {
		inst.PriorMode = inst.Mode
	}
	inst.Mode = ModePursuit
	inst.TargetId = sessionId
	inst.pursuit = &pursuit{}
}

// Fled starts pursuit by every NPC in roomId that was fighting the session.
func (m *Manager) Fled(sessionId, roomId string) []*Instance {
	var chasers []*Instance
	for _, inst := range m.InRoom(roomId) {
		if inst.TargetId == sessionId {
			m.StartPursuit(inst.Id, sessionId)
			chasers = append(chasers, inst)
		}
	}
	return chasers
}

func (m *Manager) stopPursuit(inst *Instance) {
	if inst.Mode == ModePursuit {
		inst.Mode = inst.PriorMode
	}
	inst.pursuit = nil
	inst.TargetId = ""
}

// Advance moves every NPC one step according to its mode.
func (m *Manager) Advance(loc Locator) []Movement {
	var moves []Movement
	for _, inst := range m.All() {
		switch inst.Mode {
		case ModeWander:
			if inst.TargetId != "" || m.rng.IntN(100) >= inst.Template.WanderChance {
				continue
			}
			exits := m.passableExits(inst.RoomId)
			if len(exits) == 0 {
				continue
			}
			if mv, ok := m.move(inst, exits[m.rng.IntN(len(exits))]); ok {
				moves = append(moves, mv)
			}
		case ModePatrol:
			if inst.TargetId != "" || len(inst.Template.Route) == 0 {
				continue
			}
			dir := inst.Template.Route[inst.patrolIndex%len(inst.Template.Route)]
			if mv, ok := m.move(inst, dir); ok {
				inst.patrolIndex++
				moves = append(moves, mv)
			}
		case ModePursuit:
			if mv, ok := m.advancePursuit(inst, loc); ok {
				moves = append(moves, mv)
			}
		}
	}
	return moves
}

func (m *Manager) advancePursuit(inst *Instance, loc Locator) (Movement, bool) {
	if inst.pursuit == nil {
		inst.pursuit = &pursuit{}
	}
	p := inst.pursuit
	p.ticks++

	giveUp := func() (Movement, bool) {
		m.stopPursuit(inst)
		return Movement{NPC: inst, From: inst.RoomId, To: inst.RoomId, GaveUp: true}, true
	}

	if p.ticks > m.maxPursuitTicks {
		return giveUp()
	}

	roomId, visible, ok := loc.Locate(inst.TargetId)
	if !ok {
		return giveUp()
	}

	if visible {
		if roomId == inst.RoomId {
			p.lost = 0
			return Movement{}, false
		}
		for _, dir := range m.passableExits(inst.RoomId) {
			if dest, _ := m.world.Destination(inst.RoomId, dir); dest == roomId {
				p.lost = 0
				return m.move(inst, dir)
			}
		}
	}

	// Out of sight: follow the scent if there is one.
	p.lost++
	if p.lost > m.maxLostTrailTicks {
		return giveUp()
	}
	if e, ok := m.trail.Latest(inst.RoomId, inst.TargetId); ok {
		return m.move(inst, e.Direction)
	}
	return Movement{}, false
}

func (m *Manager) passableExits(roomId string) []game.Direction {
	var out []game.Direction
	for _, dir := range m.world.VisibleExits(roomId, nil) {
		if !m.world.IsLocked(roomId, dir) {
			out = append(out, dir)
		}
	}
	return out
}

func (m *Manager) move(inst *Instance, dir game.Direction) (Movement, bool) {
	if m.world.IsLocked(inst.RoomId, dir) || m.world.IsHidden(inst.RoomId, dir) {
		return Movement{}, false
	}
	dest, ok := m.world.Destination(inst.RoomId, dir)
	if !ok {
		return Movement{}, false
	}
	from := inst.RoomId
	inst.RoomId = dest
	m.trail.Record(from, game.TrailEntry{EntityId: inst.Id, Name: inst.Template.Name, Direction: dir})
	return Movement{NPC: inst, From: from, To: dest, Direction: dir}, true
}
