package game

import (
	"maps"
	"slices"
)

// ExitChange is the kind of transition a world timer produced.
type ExitChange string

const (
	ExitRelocked ExitChange = "relocked"
	ExitRehidden ExitChange = "rehidden"
	ExitUnlocked ExitChange = "unlocked"
	ExitRevealed ExitChange = "revealed"
	FeatureReady ExitChange = "ready"
)

// ExitEvent reports that a timer undid an unlock or a reveal.
type ExitEvent struct {
	RoomId     string
	Direction  Direction
	Change     ExitChange
	Difficulty int // set for ExitRelocked
}

func (w *World) exitExists(roomId string, dir Direction) (*Room, bool) {
	r, ok := w.rooms[roomId]
	if !ok {
		return nil, false
	}
	if _, ok := r.Exits[dir]; !ok {
		return nil, false
	}
	return r, true
}

// IsLocked reports whether an exit is currently locked.
func (w *World) IsLocked(roomId string, dir Direction) bool {
	_, ok := w.locked[exitRef{room: roomId, dir: dir}]
	return ok
}

// LockDifficulty returns the current difficulty of a locked exit.
func (w *World) LockDifficulty(roomId string, dir Direction) (int, bool) {
	d, ok := w.locked[exitRef{room: roomId, dir: dir}]
	return d, ok
}

// LockKey returns the item id that opens an exit's lock, if one is authored.
func (w *World) LockKey(roomId string, dir Direction) string {
	r, ok := w.exitExists(roomId, dir)
	if !ok {
		return ""
	}
	return r.Locks[dir].Key
}

// IsHidden reports whether an exit is currently hidden.
func (w *World) IsHidden(roomId string, dir Direction) bool {
	return w.hidden[exitRef{room: roomId, dir: dir}]
}

// HiddenExits returns the hidden exit definitions of a room that are
// currently hidden, sorted by direction.
func (w *World) HiddenExits(roomId string) []Direction {
	r, ok := w.rooms[roomId]
	if !ok {
		return nil
	}
	var dirs []Direction
	for _, dir := range sortedDirections(r.Hidden) {
		if w.hidden[exitRef{room: roomId, dir: dir}] {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// HiddenExit returns the authored hidden-exit definition.
func (w *World) HiddenExit(roomId string, dir Direction) (HiddenExit, bool) {
	r, ok := w.exitExists(roomId, dir)
	if !ok {
		return HiddenExit{}, false
	}
	h, ok := r.Hidden[dir]
	return h, ok
}

// UnlockExit removes an exit's lock and, when a reset duration is authored,
// starts the countdown that puts it back.
func (w *World) UnlockExit(roomId string, dir Direction) {
	r, ok := w.exitExists(roomId, dir)
	if !ok {
		return
	}
	ref := exitRef{room: roomId, dir: dir}
	if _, locked := w.locked[ref]; !locked {
		return
	}
	delete(w.locked, ref)
	if ticks := r.lockResetTicks(dir); ticks > 0 {
		w.lockTimers[ref] = ticks
	}
}

// RelockExit restores an exit's authored lock difficulty and cancels any
// pending lock countdown.
func (w *World) RelockExit(roomId string, dir Direction) {
	w.relock(roomId, dir)
}

func (w *World) relock(roomId string, dir Direction) (int, bool) {
	r, ok := w.exitExists(roomId, dir)
	if !ok {
		return 0, false
	}
	d := r.lockDifficulty(dir)
	if d <= 0 {
		return 0, false
	}
	ref := exitRef{room: roomId, dir: dir}
	w.locked[ref] = d
	delete(w.lockTimers, ref)
	return d, true
}

// RevealHiddenExit makes a hidden exit visible to everyone and starts its
// rehide countdown. A PermanentReveal duration is stored as-is and never
// counts down.
func (w *World) RevealHiddenExit(roomId string, dir Direction) {
	r, ok := w.exitExists(roomId, dir)
	if !ok {
		return
	}
	h, ok := r.Hidden[dir]
	if !ok {
		return
	}
	ref := exitRef{room: roomId, dir: dir}
	if !w.hidden[ref] {
		return
	}
	delete(w.hidden, ref)
	switch {
	case h.RehideTicks == PermanentReveal:
		w.hideTimers[ref] = PermanentReveal
	case h.RehideTicks > 0:
		w.hideTimers[ref] = h.RehideTicks
	}
}

// RehideExit hides an authored hidden exit again and cancels its countdown.
func (w *World) RehideExit(roomId string, dir Direction) {
	r, ok := w.exitExists(roomId, dir)
	if !ok {
		return
	}
	if _, ok := r.Hidden[dir]; !ok {
		return
	}
	ref := exitRef{room: roomId, dir: dir}
	w.hidden[ref] = true
	delete(w.hideTimers, ref)
}

// TickResetTimers advances every lock and rehide countdown by one tick and
// returns one event for each exit that flipped back, in room/direction order.
func (w *World) TickResetTimers() []ExitEvent {
	var events []ExitEvent

	for _, ref := range sortedRefs(w.lockTimers) {
		w.lockTimers[ref]--
		if w.lockTimers[ref] > 0 {
			continue
		}
		delete(w.lockTimers, ref)
		if d, ok := w.relock(ref.room, ref.dir); ok {
			events = append(events, ExitEvent{RoomId: ref.room, Direction: ref.dir, Change: ExitRelocked, Difficulty: d})
		}
	}

	for _, ref := range sortedRefs(w.hideTimers) {
		if w.hideTimers[ref] == PermanentReveal {
			continue
		}
		w.hideTimers[ref]--
		if w.hideTimers[ref] > 0 {
			continue
		}
		delete(w.hideTimers, ref)
		w.hidden[ref] = true
		events = append(events, ExitEvent{RoomId: ref.room, Direction: ref.dir, Change: ExitRehidden})
	}

	slices.SortStableFunc(events, func(a, b ExitEvent) int {
		return compareExitRefs(exitRef{a.RoomId, a.Direction}, exitRef{b.RoomId, b.Direction})
	})
	return events
}

// PendingLockReset returns the ticks until an unlocked exit relocks.
func (w *World) PendingLockReset(roomId string, dir Direction) (int, bool) {
	t, ok := w.lockTimers[exitRef{room: roomId, dir: dir}]
	return t, ok
}

// PendingRehide returns the ticks until a revealed exit hides again.
func (w *World) PendingRehide(roomId string, dir Direction) (int, bool) {
	t, ok := w.hideTimers[exitRef{room: roomId, dir: dir}]
	return t, ok
}

func sortedRefs(m map[exitRef]int) []exitRef {
	return slices.SortedFunc(maps.Keys(m), compareExitRefs)
}
