package game

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pixil98/mudcore/internal/protocol"
)

// Registry tracks every connected session and indexes logged in ones by
// account and character name. Not safe for concurrent use; callers hold the
// StateLock.
type Registry struct {
	connected  map[string]*Session // session id
	byAccount  map[string]*Session // lower-cased username
	byCharName map[string]*Session // lower-cased character name
}

func NewRegistry() *Registry {
	return &Registry{
		connected:  make(map[string]*Session),
		byAccount:  make(map[string]*Session),
		byCharName: make(map[string]*Session),
	}
}

// Connect registers a new, unauthenticated session.
func (r *Registry) Connect(s *Session) {
	r.connected[s.Id()] = s
}

// Disconnect forgets a session entirely.
func (r *Registry) Disconnect(s *Session) {
	delete(r.connected, s.Id())
	if s.Identity == nil {
		return
	}
	if r.byAccount[strings.ToLower(s.Identity.Username)] == s {
		delete(r.byAccount, strings.ToLower(s.Identity.Username))
	}
	if r.byCharName[strings.ToLower(s.Identity.CharacterName)] == s {
		delete(r.byCharName, strings.ToLower(s.Identity.CharacterName))
	}
}

// Logout detaches the identity from a session but keeps the connection.
func (r *Registry) Logout(s *Session) {
	r.Disconnect(s)
	r.connected[s.Id()] = s
	s.Identity = nil
	s.Character = nil
}

// AddSession logs a connected session in. An account can only be online once.
func (r *Registry) AddSession(s *Session, id *Identity, c *Character) error {
	if r.IsLoggedIn(id.Username) {
		return ErrAlreadyLoggedIn
	}
	if _, ok := r.byCharName[strings.ToLower(id.CharacterName)]; ok {
		return ErrAlreadyLoggedIn
	}
	s.Login(id, c)
	r.connected[s.Id()] = s
	r.byAccount[strings.ToLower(id.Username)] = s
	r.byCharName[strings.ToLower(id.CharacterName)] = s
	return nil
}

// IsLoggedIn reports whether an account has a live session.
func (r *Registry) IsLoggedIn(username string) bool {
	_, ok := r.byAccount[strings.ToLower(username)]
	return ok
}

// Session finds a logged in session by character name.
func (r *Registry) Session(name string) *Session {
	return r.byCharName[strings.ToLower(name)]
}

// SessionById finds any connected session by id.
func (r *Registry) SessionById(id string) *Session {
	return r.connected[id]
}

// Authenticated returns every logged in session ordered by name.
func (r *Registry) Authenticated() []*Session {
	out := make([]*Session, 0, len(r.byCharName))
	for _, s := range r.byCharName {
		out = append(out, s)
	}
	sortByName(out)
	return out
}

// PlayersInRoom returns the logged in sessions in a room ordered by name.
func (r *Registry) PlayersInRoom(roomId string) []*Session {
	var out []*Session
	for _, s := range r.byCharName {
		if s.RoomId == roomId {
			out = append(out, s)
		}
	}
	sortByName(out)
	return out
}

// VisiblePlayersInRoom is PlayersInRoom without hidden sessions.
func (r *Registry) VisiblePlayersInRoom(roomId string) []*Session {
	var out []*Session
	for _, s := range r.PlayersInRoom(roomId) {
		if !s.Hidden {
			out = append(out, s)
		}
	}
	return out
}

// BroadcastToRoom sends msg to every logged in session in a room except
// exclude, which may be nil.
func (r *Registry) BroadcastToRoom(roomId string, msg protocol.ServerMessage, exclude *Session) {
	for _, s := range r.PlayersInRoom(roomId) {
		if s == exclude {
			continue
		}
		s.Send(msg)
	}
}

// Broadcast sends msg to every logged in session.
func (r *Registry) Broadcast(msg protocol.ServerMessage) {
	for _, s := range r.Authenticated() {
		s.Send(msg)
	}
}

// BreakStealth reveals a hidden session, telling the player and the room.
// It returns false and does nothing when the session was not hidden.
func (r *Registry) BreakStealth(s *Session) bool {
	if !s.Hidden {
		return false
	}
	s.Hidden = false
	s.Send(protocol.System{Message: "You step out of the shadows."})
	r.BroadcastToRoom(s.RoomId, protocol.System{Message: s.Name() + " steps out of the shadows."}, s)
	return true
}

// Locate reports where a logged in session is and whether it can be seen
// there. Used by NPCs pursuing a player.
func (r *Registry) Locate(sessionId string) (roomId string, visible bool, ok bool) {
	s, found := r.connected[sessionId]
	if !found || !s.Authenticated() {
		return "", false, false
	}
	return s.RoomId, !s.Hidden, true
}

func sortByName(ss []*Session) {
	slices.SortFunc(ss, func(a, b *Session) int {
		return cmp.Compare(a.Name(), b.Name())
	})
}
