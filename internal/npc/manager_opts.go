package npc

import "math/rand/v2"

type ManagerOpt func(*Manager)

func WithRand(rng *rand.Rand) ManagerOpt {
	return func(m *Manager) {
		m.rng = rng
	}
}

// WithMaxPursuitTicks bounds how long an NPC chases before giving up.
func WithMaxPursuitTicks(n int) ManagerOpt {
	return func(m *Manager) {
		m.maxPursuitTicks = n
	}
}

// WithMaxLostTrailTicks bounds how many ticks an NPC keeps chasing without
// seeing its target.
func WithMaxLostTrailTicks(n int) ManagerOpt {
	return func(m *Manager) {
		m.maxLostTrailTicks = n
	}
}

// WithRespawnTicks sets the default respawn delay for room spawned NPCs.
func WithRespawnTicks(n int) ManagerOpt {
	return func(m *Manager) {
		m.respawnTicks = n
	}
}
