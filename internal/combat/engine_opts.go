package combat

import "math/rand/v2"

type EngineOpt func(*Engine)

func WithRand(rng *rand.Rand) EngineOpt {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithNormalization sets the stat value that maps to a 100% avoidance chance
// before clamping.
func WithNormalization(n float64) EngineOpt {
	return func(e *Engine) {
		e.normalization = n
	}
}

func WithMaxAvoidPercent(p float64) EngineOpt {
	return func(e *Engine) {
		e.maxAvoidPercent = p
	}
}

// WithHitPercent sets the chance an attack that was not avoided lands.
func WithHitPercent(p float64) EngineOpt {
	return func(e *Engine) {
		e.hitPercent = p
	}
}

func WithBackstabMultiplier(m int) EngineOpt {
	return func(e *Engine) {
		e.backstabMultiplier = m
	}
}

// WithStartRoom sets where dead players wake up.
func WithStartRoom(roomId string) EngineOpt {
	return func(e *Engine) {
		e.startRoom = roomId
	}
}

// WithRespawnGrace sets the grace ticks a player gets after respawning.
func WithRespawnGrace(ticks int) EngineOpt {
	return func(e *Engine) {
		e.respawnGrace = ticks
	}
}

// WithRestHeal sets the hp a resting player recovers per tick.
func WithRestHeal(hp int) EngineOpt {
	return func(e *Engine) {
		e.restHeal = hp
	}
}
