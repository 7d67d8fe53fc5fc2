package game

import (
	"sync"
	"sync/atomic"
)

// StateLock is the single gate in front of all shared mutable state: the
// World, the Registry and the NPC manager. Command handlers and the simulation
// tick hold it for their whole critical section.
type StateLock struct {
	mu         sync.Mutex
	contention atomic.Int64
}

// Lock acquires the gate. An acquire that cannot be satisfied immediately
// counts as contention before it blocks.
func (l *StateLock) Lock() {
	if l.mu.TryLock() {
		return
	}
	l.contention.Add(1)
	l.mu.Lock()
}

func (l *StateLock) Unlock() {
	l.mu.Unlock()
}

// Contention returns how many acquires have had to wait.
func (l *StateLock) Contention() int64 {
	return l.contention.Load()
}

// Do runs fn while holding the gate.
func (l *StateLock) Do(fn func() error) error {
	l.Lock()
	defer l.Unlock()
	return fn()
}
