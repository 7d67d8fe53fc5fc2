// Package gametest holds in-memory fakes shared by package tests.
package gametest

import (
	"fmt"
	"sync"

	"github.com/pixil98/mudcore/internal/protocol"
)

// Recorder is a Publisher that keeps every message it is given, decoded,
// per subject.
type Recorder struct {
	mu       sync.Mutex
	subjects map[string][]protocol.ServerMessage
}

func NewRecorder() *Recorder {
	return &Recorder{subjects: make(map[string][]protocol.ServerMessage)}
}

func (r *Recorder) Publish(subject string, data []byte) error {
	msg, err := protocol.DecodeServer(data)
	if err != nil {
		return fmt.Errorf("recorder: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects[subject] = append(r.subjects[subject], msg)
	return nil
}

// Messages returns what was published to a subject.
func (r *Recorder) Messages(subject string) []protocol.ServerMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.ServerMessage(nil), r.subjects[subject]...)
}

// Kinds returns the kinds of the messages published to a subject, in order.
func (r *Recorder) Kinds(subject string) []string {
	var kinds []string
	for _, m := range r.Messages(subject) {
		kinds = append(kinds, m.Kind())
	}
	return kinds
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = make(map[string][]protocol.ServerMessage)
}

// Last returns the most recent message of type T on a subject.
func Last[T protocol.ServerMessage](r *Recorder, subject string) (T, bool) {
	msgs := r.Messages(subject)
	for i := len(msgs) - 1; i >= 0; i-- {
		if m, ok := msgs[i].(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

// All returns every message of type T on a subject.
func All[T protocol.ServerMessage](r *Recorder, subject string) []T {
	var out []T
	for _, m := range r.Messages(subject) {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
