package commands

import "math/rand/v2"

type DispatcherOpt func(*Dispatcher)

// WithRand sets the source used for stat checks.
func WithRand(rng *rand.Rand) DispatcherOpt {
	return func(d *Dispatcher) {
		d.rng = rng
	}
}

// WithStartRoom sets where new characters, and characters whose saved room
// no longer exists, appear.
func WithStartRoom(roomId string) DispatcherOpt {
	return func(d *Dispatcher) {
		d.startRoom = roomId
	}
}

// WithMapRadius sets how many exits away the map sent on arrival reaches.
func WithMapRadius(radius int) DispatcherOpt {
	return func(d *Dispatcher) {
		d.mapRadius = radius
	}
}

// WithLoginGrace sets how many ticks NPCs ignore a player who just logged in.
func WithLoginGrace(ticks int) DispatcherOpt {
	return func(d *Dispatcher) {
		d.loginGrace = ticks
	}
}

// WithDefaults sets the race and class used when a registration names none.
func WithDefaults(race, class string) DispatcherOpt {
	return func(d *Dispatcher) {
		d.defaultRace = race
		d.defaultClass = class
	}
}

// WithShutdowner lets admins arm the shutdown countdown.
func WithShutdowner(s Shutdowner) DispatcherOpt {
	return func(d *Dispatcher) {
		d.shutdown = s
	}
}
