package game

import (
	"fmt"
	"maps"
	"slices"
)

// InteractableAction is what a room feature does when used.
type InteractableAction string

const (
	ActionOpenExit     InteractableAction = "open_exit"
	ActionDropLoot     InteractableAction = "drop_loot"
	ActionSpawnMonster InteractableAction = "spawn_monster"
	ActionRoomEffect   InteractableAction = "room_effect"
	ActionTeleport     InteractableAction = "teleport"
)

// StatCheck is a roll of the user's stat against a difficulty.
type StatCheck struct {
	Stat       Stat `json:"stat"`
	Difficulty int  `json:"difficulty"`
}

// Interactable is a lever, chest, trap or similar feature of a room.
// SuccessMessage and FailureMessage are text/template strings.
type Interactable struct {
	Id     string             `json:"id"`
	Label  string             `json:"label"`
	Action InteractableAction `json:"action"`

	Direction   Direction   `json:"direction,omitempty"`   // open_exit
	LootTable   string      `json:"loot_table,omitempty"`  // drop_loot
	Monster     string      `json:"monster,omitempty"`     // spawn_monster
	Effect      *EffectSpec `json:"effect,omitempty"`      // room_effect
	Destination string      `json:"destination,omitempty"` // teleport

	Check          *StatCheck `json:"check,omitempty"`
	SuccessMessage string     `json:"success_message,omitempty"`
	FailureMessage string     `json:"failure_message,omitempty"`

	// ResetTicks is how long until the feature can be used again. Zero
	// means it can only be used once.
	ResetTicks int `json:"reset_ticks,omitempty"`
}

func (ia *Interactable) validate(r *Room) error {
	if ia.Id == "" {
		return fmt.Errorf("id is required")
	}
	if ia.Label == "" {
		return fmt.Errorf("label is required")
	}
	if ia.ResetTicks < 0 {
		return fmt.Errorf("reset_ticks cannot be negative")
	}
	switch ia.Action {
	case ActionOpenExit:
		if _, ok := r.Exits[ia.Direction]; !ok {
			return fmt.Errorf("open_exit: no exit %q", ia.Direction)
		}
	case ActionDropLoot:
		if ia.LootTable == "" {
			return fmt.Errorf("drop_loot: loot_table is required")
		}
	case ActionSpawnMonster:
		if ia.Monster == "" {
			return fmt.Errorf("spawn_monster: monster is required")
		}
	case ActionRoomEffect:
		if ia.Effect == nil {
			return fmt.Errorf("room_effect: effect is required")
		}
		if err := ia.Effect.Validate(); err != nil {
			return fmt.Errorf("room_effect: %w", err)
		}
	case ActionTeleport:
		if ia.Destination == "" {
			return fmt.Errorf("teleport: destination is required")
		}
	default:
		return fmt.Errorf("unknown action %q", ia.Action)
	}
	if ia.Check != nil && ia.Check.Difficulty <= 0 {
		return fmt.Errorf("check difficulty must be positive")
	}
	return nil
}

// InteractableReset reports that a used feature is ready again.
type InteractableReset struct {
	RoomId    string
	FeatureId string
	Label     string
	Action    InteractableAction
	Direction Direction // exit relocked by an open_exit feature
}

// Interactable returns a room feature by id.
func (w *World) Interactable(roomId, featureId string) *Interactable {
	r, ok := w.rooms[roomId]
	if !ok {
		return nil
	}
	for i := range r.Interactables {
		if r.Interactables[i].Id == featureId {
			return &r.Interactables[i]
		}
	}
	return nil
}

// InteractableReady reports whether a feature exists and is not used up.
func (w *World) InteractableReady(roomId, featureId string) bool {
	if w.Interactable(roomId, featureId) == nil {
		return false
	}
	return !w.usedFeatures[featureRef{room: roomId, feature: featureId}]
}

// OpenExit unlocks an exit for an open_exit feature. The feature's cooldown
// relocks it, so any lock countdown on the exit is dropped.
func (w *World) OpenExit(roomId string, dir Direction) {
	if _, ok := w.exitExists(roomId, dir); !ok {
		return
	}
	ref := exitRef{room: roomId, dir: dir}
	delete(w.locked, ref)
	delete(w.lockTimers, ref)
}

// MarkInteractableUsed records a use and starts the feature's cooldown.
func (w *World) MarkInteractableUsed(roomId, featureId string) {
	ia := w.Interactable(roomId, featureId)
	if ia == nil {
		return
	}
	ref := featureRef{room: roomId, feature: featureId}
	w.usedFeatures[ref] = true
	if ia.ResetTicks > 0 {
		w.featureTimers[ref] = ia.ResetTicks
	}
}

// TickInteractableTimers advances feature cooldowns. A feature whose
// cooldown expires is usable again; an open_exit feature also relocks the
// exit it opened.
func (w *World) TickInteractableTimers() []InteractableReset {
	refs := slices.SortedFunc(maps.Keys(w.featureTimers), func(a, b featureRef) int {
		if a.room != b.room {
			if a.room < b.room {
				return -1
			}
			return 1
		}
		switch {
		case a.feature < b.feature:
			return -1
		case a.feature > b.feature:
			return 1
		}
		return 0
	})

	var resets []InteractableReset
	for _, ref := range refs {
		w.featureTimers[ref]--
		if w.featureTimers[ref] > 0 {
			continue
		}
		delete(w.featureTimers, ref)
		delete(w.usedFeatures, ref)

		ia := w.Interactable(ref.room, ref.feature)
		if ia == nil {
			continue
		}
		if ia.Action == ActionOpenExit {
			w.relock(ref.room, ia.Direction)
		}
		resets = append(resets, InteractableReset{
			RoomId:    ref.room,
			FeatureId: ref.feature,
			Label:     ia.Label,
			Action:    ia.Action,
			Direction: ia.Direction,
		})
	}
	return resets
}
