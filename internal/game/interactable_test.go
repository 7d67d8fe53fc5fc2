package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/mudcore/internal/game/gametest"
)

func featureWorld(t *testing.T) *World {
	return newTestWorld(t, map[string]*Room{
		"vault": {
			Name:  "Vault",
			Zone:  "bank",
			Exits: map[Direction]string{North: "office"},
			Locks: map[Direction]ExitLock{North: {Difficulty: 30, ResetTicks: 1}},
			Interactables: []Interactable{
				{Id: "lever", Label: "an iron lever", Action: ActionOpenExit, Direction: North, ResetTicks: 2},
				{Id: "chest", Label: "a dusty chest", Action: ActionDropLoot, LootTable: "vault"},
			},
		},
		"office": {Name: "Office", Zone: "bank"},
	})
}

func TestWorld_InteractableOneShot(t *testing.T) {
	w := featureWorld(t)

	testutil.AssertEqual(t, "ready", w.InteractableReady("vault", "chest"), true)
	w.MarkInteractableUsed("vault", "chest")
	testutil.AssertEqual(t, "used", w.InteractableReady("vault", "chest"), false)

	for range 20 {
		testutil.AssertEqual(t, "resets", len(w.TickInteractableTimers()), 0)
	}
	testutil.AssertEqual(t, "still used", w.InteractableReady("vault", "chest"), false)
}

func TestWorld_InteractableResetRelocksExit(t *testing.T) {
	w := featureWorld(t)

	w.MarkInteractableUsed("vault", "lever")
	w.OpenExit("vault", North)
	testutil.AssertEqual(t, "unlocked", w.IsLocked("vault", North), false)

	testutil.AssertEqual(t, "first tick", len(w.TickInteractableTimers()), 0)
	testutil.AssertEqual(t, "no lock countdown", len(w.TickResetTimers()), 0)
	testutil.AssertEqual(t, "held open", w.IsLocked("vault", North), false)
	resets := w.TickInteractableTimers()
	gametest.AssertSlice(t, "resets", resets, []InteractableReset{
		{RoomId: "vault", FeatureId: "lever", Label: "an iron lever", Action: ActionOpenExit},
	})
	testutil.AssertEqual(t, "ready", w.InteractableReady("vault", "lever"), true)

	d, locked := w.LockDifficulty("vault", North)
	testutil.AssertEqual(t, "relocked", locked, true)
	testutil.AssertEqual(t, "difficulty", d, 30)
}

func TestWorld_InteractableUnknown(t *testing.T) {
	w := featureWorld(t)

	testutil.AssertEqual(t, "missing feature", w.Interactable("vault", "nope") == nil, true)
	testutil.AssertEqual(t, "missing room", w.Interactable("attic", "lever") == nil, true)
	testutil.AssertEqual(t, "not ready", w.InteractableReady("vault", "nope"), false)

	w.MarkInteractableUsed("vault", "nope")
	testutil.AssertEqual(t, "resets", len(w.TickInteractableTimers()), 0)
}
