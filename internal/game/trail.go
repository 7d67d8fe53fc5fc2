package game

import (
	"slices"
	"time"
)

// TrailEntry records one entity leaving a room.
type TrailEntry struct {
	EntityId  string
	Name      string
	Direction Direction
	At        time.Time
	Player    bool
}

// TrailLedger keeps the recent departures of each room, bounded by age and by
// a per-room entry cap. Oldest entries are evicted first.
type TrailLedger struct {
	window     time.Duration
	maxPerRoom int
	now        func() time.Time

	rooms map[string][]TrailEntry
}

type TrailOpt func(*TrailLedger)

// WithTrailClock replaces the wall clock used to stamp and age entries.
func WithTrailClock(now func() time.Time) TrailOpt {
	return func(l *TrailLedger) {
		l.now = now
	}
}

func NewTrailLedger(window time.Duration, maxPerRoom int, opts ...TrailOpt) *TrailLedger {
	l := &TrailLedger{
		window:     window,
		maxPerRoom: maxPerRoom,
		now:        time.Now,
		rooms:      make(map[string][]TrailEntry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends a departure from roomId. A zero At is stamped with now.
func (l *TrailLedger) Record(roomId string, e TrailEntry) {
	if e.At.IsZero() {
		e.At = l.now()
	}
	entries := append(l.rooms[roomId], e)
	entries = l.prune(entries)
	if l.maxPerRoom > 0 && len(entries) > l.maxPerRoom {
		entries = slices.Clone(entries[len(entries)-l.maxPerRoom:])
	}
	l.rooms[roomId] = entries
}

// Recent returns the live entries of a room, newest first.
func (l *TrailLedger) Recent(roomId string) []TrailEntry {
	entries := l.prune(l.rooms[roomId])
	if len(entries) == 0 {
		delete(l.rooms, roomId)
		return nil
	}
	l.rooms[roomId] = entries

	out := slices.Clone(entries)
	slices.Reverse(out)
	return out
}

// Latest returns the newest live entry for an entity in a room.
func (l *TrailLedger) Latest(roomId, entityId string) (TrailEntry, bool) {
	for _, e := range l.Recent(roomId) {
		if e.EntityId == entityId {
			return e, true
		}
	}
	return TrailEntry{}, false
}

// Prune drops expired entries from every room.
func (l *TrailLedger) Prune() {
	for id, entries := range l.rooms {
		entries = l.prune(entries)
		if len(entries) == 0 {
			delete(l.rooms, id)
			continue
		}
		l.rooms[id] = entries
	}
}

func (l *TrailLedger) prune(entries []TrailEntry) []TrailEntry {
	if l.window <= 0 {
		return entries
	}
	cutoff := l.now().Add(-l.window)
	i := 0
	for i < len(entries) && entries[i].At.Before(cutoff) {
		i++
	}
	return entries[i:]
}
