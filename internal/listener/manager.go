package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/protocol"
	"github.com/pixil98/mudcore/internal/throttle"
)

// Bus carries outbound frames: the game publishes to a session's subject and
// the connection serving that session subscribes to it.
type Bus interface {
	game.Publisher
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Dispatcher runs client messages against the shared game state.
type Dispatcher interface {
	Connect(s *game.Session)
	Disconnect(ctx context.Context, s *game.Session)
	Handle(ctx context.Context, s *game.Session, msg protocol.ClientMessage)
}

// transport is the framing of one client connection.
type transport interface {
	// Read returns the next client message. A *protocol.UsageError is
	// reported back to the client; io.EOF is a clean hang up; any other
	// error ends the connection. A nil message with a nil error is skipped.
	Read() (protocol.ClientMessage, error)
	// Write delivers one encoded server message.
	Write(frame []byte) error
	Close() error
}

type ConnectionManager struct {
	d   Dispatcher
	bus Bus

	burst    int
	refill   float64
	maxLine  int
	width    int
	greeting string
}

func NewConnectionManager(d Dispatcher, bus Bus, opts ...ConnectionManagerOpt) *ConnectionManager {
	m := &ConnectionManager{
		d:       d,
		bus:     bus,
		burst:   10,
		refill:  5,
		maxLine: 4096,
		width:   80,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AcceptConnection serves a line oriented connection such as telnet or ssh.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, rw io.ReadWriter, c io.Closer) {
	if err := m.serve(ctx, newLineTransport(rw, c, m.maxLine, m.width)); err != nil {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}

// serve runs one connection until it hangs up or ctx is cancelled. Frames
// for the session arrive on the bus and are written by the subscription, so
// only this goroutine reads and only the subscription writes.
func (m *ConnectionManager) serve(ctx context.Context, t transport) error {
	s := game.NewSession(m.bus)

	unsubscribe, err := m.bus.Subscribe(s.Subject(), func(frame []byte) {
		if err := t.Write(frame); err != nil {
			slog.DebugContext(ctx, "writing to connection", "session", s.Id(), "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing session: %w", err)
	}
	defer unsubscribe()

	stop := context.AfterFunc(ctx, func() { _ = t.Close() })
	defer stop()

	m.d.Connect(s)
	defer m.d.Disconnect(context.WithoutCancel(ctx), s)

	slog.DebugContext(ctx, "session connected", "session", s.Id())
	if m.greeting != "" {
		s.Send(protocol.System{Message: m.greeting})
	}

	limiter := throttle.NewLimiter(m.burst, m.refill)
	for {
		msg, err := t.Read()
		var ue *protocol.UsageError
		isUsage := errors.As(err, &ue)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, io.EOF):
			return nil
		case err != nil && !isUsage:
			return fmt.Errorf("session %s: %w", s.Id(), err)
		case err == nil && msg == nil:
			continue
		}

		if !limiter.Allow() {
			s.Send(protocol.Error{Code: protocol.CodeRateLimited, Message: "You are doing that too fast."})
			continue
		}
		if isUsage {
			s.Send(protocol.Error{Code: protocol.CodeInvalidInput, Message: ue.Message})
			continue
		}
		m.d.Handle(ctx, s, msg)
	}
}
