package commands

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/player"
	"github.com/pixil98/mudcore/internal/protocol"
)

// register creates an account and character and logs the session in.
func (d *Dispatcher) register(ctx context.Context, s *game.Session, m protocol.Register) error {
	if err := player.ValidateUsername(m.Username); err != nil {
		return NewUserError(err.Error())
	}
	if err := player.ValidatePassword(m.Password); err != nil {
		return NewUserError(err.Error())
	}
	if err := player.ValidateCharacterName(m.CharacterName); err != nil {
		return NewUserError(err.Error())
	}

	raceId := cmp.Or(strings.ToLower(m.Race), d.defaultRace)
	race := d.Catalog.Race(raceId)
	if race == nil {
		return userErrorf("Unknown race %q.", m.Race)
	}
	classId := cmp.Or(strings.ToLower(m.Class), d.defaultClass)
	class := d.Catalog.Class(classId)
	if class == nil {
		return userErrorf("Unknown class %q.", m.Class)
	}

	if err := d.canLogin(s, m.Username); err != nil {
		return err
	}

	c := game.NewCharacter(m.CharacterName, race, class)
	c.RoomId = d.startRoom

	id, err := d.repo.Create(ctx, m.Username, m.Password, c)
	switch {
	case errors.Is(err, player.ErrUsernameTaken):
		return NewUserError("That username is already taken.")
	case errors.Is(err, player.ErrCharacterTaken):
		return NewUserError("That character name is already taken.")
	case err != nil:
		return fmt.Errorf("creating account %s: %w", m.Username, err)
	}

	slog.InfoContext(ctx, "account created", "username", id.Username, "character", id.CharacterName)
	return d.enter(ctx, s, id, c)
}

func (d *Dispatcher) login(ctx context.Context, s *game.Session, m protocol.Login) error {
	if m.Username == "" || m.Password == "" {
		return NewUserError("Usage: login <username> <password>")
	}
	if err := d.canLogin(s, m.Username); err != nil {
		return err
	}

	id, c, err := d.repo.Authenticate(ctx, m.Username, m.Password)
	if errors.Is(err, player.ErrInvalidCredentials) {
		return NewUserError("Invalid username or password.")
	}
	if err != nil {
		return fmt.Errorf("authenticating %s: %w", m.Username, err)
	}

	return d.enter(ctx, s, id, c)
}

// canLogin is a quick check before the repository is consulted. enter
// checks again since the lock is released in between.
func (d *Dispatcher) canLogin(s *game.Session, username string) error {
	d.Lock.Lock()
	defer d.Lock.Unlock()
	if s.Authenticated() {
		return NewUserError("You are already logged in.")
	}
	if d.Registry.IsLoggedIn(username) {
		return errAlreadyOnline
	}
	return nil
}

// enter puts a freshly authenticated character into the world. The client
// receives its room, the map, its inventory, the room's items and the
// catalog, in that order.
func (d *Dispatcher) enter(ctx context.Context, s *game.Session, id *game.Identity, c *game.Character) error {
	d.Lock.Lock()
	defer d.Lock.Unlock()

	if s.Authenticated() {
		return NewUserError("You are already logged in.")
	}
	if d.World.Room(c.RoomId) == nil {
		c.RoomId = d.startRoom
	}
	err := d.Registry.AddSession(s, id, c)
	if errors.Is(err, game.ErrAlreadyLoggedIn) {
		return errAlreadyOnline
	}
	if err != nil {
		return fmt.Errorf("adding session: %w", err)
	}
	s.GraceTicks = d.loginGrace

	s.Send(d.roomInfo(s))
	s.Send(d.mapData(s))
	s.Send(d.inventory(s))
	s.Send(d.Engine.RoomItems(s.RoomId))
	s.Send(d.catalogSync())
	d.Registry.BroadcastToRoom(s.RoomId, protocol.PlayerEntered{Name: s.Name()}, s)

	slog.InfoContext(ctx, "player logged in", "character", s.Name(), "session", s.Id())
	return nil
}

// logout saves the character and returns the connection to the login
// prompt.
func (d *Dispatcher) logout(ctx context.Context, s *game.Session, _ protocol.Logout) error {
	d.Lock.Lock()
	if !s.Authenticated() {
		d.Lock.Unlock()
		return errAuthRequired
	}
	name := s.Name()
	id, snap := d.leave(s)
	d.Registry.Logout(s)
	d.Lock.Unlock()

	d.save(ctx, id, snap)
	s.Send(protocol.System{Message: fmt.Sprintf("Farewell, %s.", name)})
	slog.InfoContext(ctx, "player logged out", "character", name, "session", s.Id())
	return nil
}

func (d *Dispatcher) ping(_ context.Context, s *game.Session, m protocol.Ping) error {
	s.Send(protocol.Pong{Nonce: m.Nonce})
	return nil
}

func (d *Dispatcher) shutdownServer(ctx context.Context, s *game.Session, m protocol.Shutdown) error {
	if !s.Identity.Admin {
		return NewUserError("You are not permitted to do that.")
	}
	if m.Ticks < 0 {
		return NewUserError("Shutdown ticks cannot be negative.")
	}
	if d.shutdown == nil {
		return fmt.Errorf("no shutdown handler configured")
	}
	d.shutdown.ArmShutdown(m.Ticks)
	slog.WarnContext(ctx, "shutdown requested", "by", s.Name(), "ticks", m.Ticks)
	return nil
}
