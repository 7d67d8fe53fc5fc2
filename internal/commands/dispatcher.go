package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/pixil98/mudcore/internal/combat"
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/npc"
	"github.com/pixil98/mudcore/internal/player"
	"github.com/pixil98/mudcore/internal/protocol"
)

// HandlerFunc runs one client message for a session.
type HandlerFunc func(ctx context.Context, s *game.Session, msg protocol.ClientMessage) error

// Shutdowner arms the server's graceful shutdown countdown. Zero ticks means
// the configured default.
type Shutdowner interface {
	ArmShutdown(ticks int)
}

// State is the shared simulation the dispatcher acts on. Everything but
// Lock is guarded by Lock.
type State struct {
	Lock     *game.StateLock
	World    *game.World
	Registry *game.Registry
	NPCs     *npc.Manager
	Engine   *combat.Engine
	Catalog  game.Catalog
	Trail    *game.TrailLedger
}

// Dispatcher routes client messages to handlers. Every handler that touches
// shared state holds the StateLock for its whole critical section; account
// storage is only ever called with the lock released.
type Dispatcher struct {
	State
	repo player.Repository
	rng  *rand.Rand

	startRoom    string
	mapRadius    int
	loginGrace   int
	defaultRace  string
	defaultClass string
	shutdown     Shutdowner

	handlers map[string]HandlerFunc
}

func NewDispatcher(state State, repo player.Repository, opts ...DispatcherOpt) *Dispatcher {
	d := &Dispatcher{
		State:      state,
		repo:       repo,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		mapRadius:  2,
		loginGrace: 3,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.handlers = map[string]HandlerFunc{
		protocol.KindRegister: handle(d.register),
		protocol.KindLogin:    handle(d.login),
		protocol.KindLogout:   handle(d.logout),
		protocol.KindPing:     authed(handle(d.ping)),

		protocol.KindMove:     d.locked(handle(d.move)),
		protocol.KindLook:     d.locked(handle(d.look)),
		protocol.KindSay:      d.locked(handle(d.say)),
		protocol.KindSearch:   d.locked(handle(d.search)),
		protocol.KindUnlock:   d.locked(handle(d.unlock)),
		protocol.KindInteract: d.locked(handle(d.interact)),
		protocol.KindRest:     d.locked(handle(d.rest)),

		protocol.KindAttackToggle: d.locked(handle(d.attack)),
		protocol.KindSelectTarget: d.locked(handle(d.target)),
		protocol.KindUseSkill:     d.locked(handle(d.useSkill)),
		protocol.KindCastSpell:    d.locked(handle(d.castSpell)),

		protocol.KindPickup:  d.locked(handle(d.pickup)),
		protocol.KindDrop:    d.locked(handle(d.drop)),
		protocol.KindEquip:   d.locked(handle(d.equip)),
		protocol.KindUseItem: d.locked(handle(d.useItem)),
		protocol.KindBuy:     d.locked(handle(d.buy)),
		protocol.KindSell:    d.locked(handle(d.sell)),
		protocol.KindTrain:   d.locked(handle(d.train)),

		protocol.KindShutdown: d.locked(handle(d.shutdownServer)),
	}

	// Respawned players get a fresh view of where they woke up.
	if d.Engine != nil {
		d.Engine.SetRespawnHook(d.arrive)
	}

	return d
}

// handle adapts a handler for one concrete message type.
func handle[T protocol.ClientMessage](fn func(context.Context, *game.Session, T) error) HandlerFunc {
	return func(ctx context.Context, s *game.Session, msg protocol.ClientMessage) error {
		m, ok := msg.(T)
		if !ok {
			return fmt.Errorf("handler for %s got %T", msg.Kind(), msg)
		}
		return fn(ctx, s, m)
	}
}

// authed rejects sessions that have not logged in. It takes no lock, so it
// only suits handlers that touch no shared state.
func authed(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, s *game.Session, msg protocol.ClientMessage) error {
		if !s.Authenticated() {
			return errAuthRequired
		}
		return fn(ctx, s, msg)
	}
}

// locked runs fn under the StateLock, for logged in sessions only.
func (d *Dispatcher) locked(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, s *game.Session, msg protocol.ClientMessage) error {
		d.Lock.Lock()
		defer d.Lock.Unlock()
		if !s.Authenticated() {
			return errAuthRequired
		}
		return fn(ctx, s, msg)
	}
}

// Dispatch runs a message and returns whatever the handler returned.
func (d *Dispatcher) Dispatch(ctx context.Context, s *game.Session, msg protocol.ClientMessage) error {
	fn, ok := d.handlers[msg.Kind()]
	if !ok {
		return userErrorf("Unknown command %q.", msg.Kind())
	}
	return fn(ctx, s, msg)
}

// Handle runs a message and reports any failure to the session. User errors
// go back verbatim; anything else is logged and the client only learns that
// something went wrong.
func (d *Dispatcher) Handle(ctx context.Context, s *game.Session, msg protocol.ClientMessage) {
	err := d.Dispatch(ctx, s, msg)
	if err == nil {
		return
	}

	var ue *UserError
	if errors.As(err, &ue) {
		s.Send(protocol.Error{Code: ue.Code, Message: ue.Message})
		return
	}

	slog.ErrorContext(ctx, "handling command", "kind", msg.Kind(), "session", s.Id(), "error", err)
	s.Send(protocol.Error{Code: protocol.CodeInternal, Message: "Something went wrong. Please try again."})
}

// Connect registers a new connection.
func (d *Dispatcher) Connect(s *game.Session) {
	d.Lock.Lock()
	defer d.Lock.Unlock()
	d.Registry.Connect(s)
}

// Disconnect removes a connection, saving its character if it was logged in.
func (d *Dispatcher) Disconnect(ctx context.Context, s *game.Session) {
	d.Lock.Lock()
	id, snap := d.leave(s)
	d.Registry.Disconnect(s)
	d.Lock.Unlock()

	d.save(ctx, id, snap)
}

// leave takes a logged in session out of the world and returns what needs
// saving. Callers hold the lock.
func (d *Dispatcher) leave(s *game.Session) (*game.Identity, *game.Character) {
	if !s.Authenticated() {
		return nil, nil
	}
	id := s.Identity
	snap := s.Snapshot()

	d.NPCs.Disengage(s.Id())
	if !s.Hidden {
		d.Registry.BroadcastToRoom(s.RoomId, protocol.PlayerLeft{Name: s.Name()}, s)
	}
	return id, snap
}

func (d *Dispatcher) save(ctx context.Context, id *game.Identity, snap *game.Character) {
	if id == nil || snap == nil {
		return
	}
	if err := d.repo.SaveSnapshot(ctx, id.AccountId, snap); err != nil {
		slog.ErrorContext(ctx, "saving character", "character", id.CharacterName, "error", err)
	}
}

// check rolls a d20 plus the stat's modifier against a difficulty.
func (d *Dispatcher) check(stat, difficulty int) bool {
	return d.rng.IntN(20)+1+(stat-10)/2 >= difficulty
}
