// Package sessiontest builds logged in sessions for tests outside the game
// package.
package sessiontest

import (
	"testing"

	"github.com/pixil98/mudcore/internal/game"
)

// Character returns a level 1 character with 20 hp and 10 mana.
func Character(name, room string) *game.Character {
	return &game.Character{
		Name:    name,
		Level:   1,
		HP:      20,
		MaxHP:   20,
		Mana:    10,
		MaxMana: 10,
		Stats:   map[game.Stat]int{game.StatStrength: 12, game.StatAgility: 10},
		RoomId:  room,
	}
}

// Login connects a new session and logs it in as name, standing in room.
func Login(t testing.TB, reg *game.Registry, pub game.Publisher, user, name, room string) *game.Session {
	t.Helper()
	s := game.NewSession(pub)
	reg.Connect(s)
	if err := reg.AddSession(s, &game.Identity{Username: user, CharacterName: name}, Character(name, room)); err != nil {
		t.Fatalf("logging in %s: %v", name, err)
	}
	return s
}
