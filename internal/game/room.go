package game

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-errors"
)

// Direction names an exit out of a room.
type Direction string

const (
	North     Direction = "north"
	South     Direction = "south"
	East      Direction = "east"
	West      Direction = "west"
	Up        Direction = "up"
	Down      Direction = "down"
	Northeast Direction = "northeast"
	Northwest Direction = "northwest"
	Southeast Direction = "southeast"
	Southwest Direction = "southwest"
)

var directions = map[Direction]bool{
	North: true, South: true, East: true, West: true, Up: true, Down: true,
	Northeast: true, Northwest: true, Southeast: true, Southwest: true,
}

// ParseDirection normalizes s to a known Direction.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	return d, directions[d]
}

// PermanentReveal as a rehide countdown means the exit never hides again.
const PermanentReveal = -1

// ExitLock describes a locked exit as authored.
type ExitLock struct {
	Difficulty int `json:"difficulty"`
	// ResetTicks overrides the hidden exit's LockResetTicks when set.
	ResetTicks int `json:"reset_ticks,omitempty"`
	// Key is an item id that opens the lock without a strength check.
	Key string `json:"key,omitempty"`
}

// HiddenExit describes an exit that must be found before it can be used.
type HiddenExit struct {
	Perception     int `json:"perception"`
	LockDifficulty int `json:"lock_difficulty,omitempty"`
	RehideTicks    int `json:"rehide_ticks,omitempty"`
	LockResetTicks int `json:"lock_reset_ticks,omitempty"`
}

// Room is the authored definition of a location. It never changes after load;
// runtime exit state lives in the World.
type Room struct {
	Name          string                   `json:"name"`
	Description   string                   `json:"description"`
	Zone          string                   `json:"zone"`
	Exits         map[Direction]string     `json:"exits"`
	Locks         map[Direction]ExitLock   `json:"locks,omitempty"`
	Hidden        map[Direction]HiddenExit `json:"hidden,omitempty"`
	Interactables []Interactable           `json:"interactables,omitempty"`
	Spawns        []string                 `json:"spawns,omitempty"` // npc template ids
	Items         []string                 `json:"items,omitempty"`  // item ids placed at load

	id string
}

// Id returns the room's asset id. Set when the room joins a World.
func (r *Room) Id() string {
	return r.id
}

// Validate satisfies storage.ValidatingSpec. Exit destinations are checked
// when the World is built since that needs every room.
func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}
	if r.Zone == "" {
		el.Add(fmt.Errorf("zone is required"))
	}

	for dir, dest := range r.Exits {
		if !directions[dir] {
			el.Add(fmt.Errorf("exit %q: unknown direction", dir))
		}
		if dest == "" {
			el.Add(fmt.Errorf("exit %s: destination is required", dir))
		}
	}

	for dir, lock := range r.Locks {
		if _, ok := r.Exits[dir]; !ok {
			el.Add(fmt.Errorf("lock %s: no such exit", dir))
		}
		if lock.Difficulty <= 0 {
			el.Add(fmt.Errorf("lock %s: difficulty must be positive", dir))
		}
		if lock.ResetTicks < 0 {
			el.Add(fmt.Errorf("lock %s: reset_ticks cannot be negative", dir))
		}
	}

	for dir, h := range r.Hidden {
		if _, ok := r.Exits[dir]; !ok {
			el.Add(fmt.Errorf("hidden exit %s: no such exit", dir))
		}
		if h.RehideTicks < PermanentReveal {
			el.Add(fmt.Errorf("hidden exit %s: invalid rehide_ticks %d", dir, h.RehideTicks))
		}
		if h.LockDifficulty < 0 || h.LockResetTicks < 0 {
			el.Add(fmt.Errorf("hidden exit %s: lock values cannot be negative", dir))
		}
	}

	seen := make(map[string]bool, len(r.Interactables))
	for i := range r.Interactables {
		ia := &r.Interactables[i]
		if seen[ia.Id] {
			el.Add(fmt.Errorf("interactable %q: duplicate id", ia.Id))
		}
		seen[ia.Id] = true
		if err := ia.validate(r); err != nil {
			el.Add(fmt.Errorf("interactable %q: %w", ia.Id, err))
		}
	}

	return el.Err()
}

// exitKey identifies one exit of one room in timer and discovery maps.
func exitKey(roomId string, dir Direction) string {
	return roomId + "::" + string(dir)
}

// ExitKey is the key used for per-exit discovery sets on a Session.
func ExitKey(roomId string, dir Direction) string {
	return exitKey(roomId, dir)
}
