package game

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/mudcore/internal/game/gametest"
	"github.com/pixil98/mudcore/internal/protocol"
)

func TestRegistry_AddSession(t *testing.T) {
	reg := NewRegistry()
	loggedInSession(t, reg, nil, "ada", "Ada", "a")

	tests := map[string]struct {
		username string
		charName string
		expErr   error
	}{
		"same account":          {username: "ada", charName: "Other", expErr: ErrAlreadyLoggedIn},
		"same account any case": {username: "ADA", charName: "Other", expErr: ErrAlreadyLoggedIn},
		"same character":        {username: "bob", charName: "Ada", expErr: ErrAlreadyLoggedIn},
		"different account":     {username: "cy", charName: "Cyra"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewSession(nil)
			reg.Connect(s)
			err := reg.AddSession(s, &Identity{Username: tt.username, CharacterName: tt.charName}, newTestCharacter(tt.charName, "a"))
			if !errors.Is(err, tt.expErr) {
				t.Fatalf("expected %v, got %v", tt.expErr, err)
			}
			testutil.AssertEqual(t, "authenticated", s.Authenticated(), tt.expErr == nil)
		})
	}
}

func TestRegistry_DisconnectAllowsRelogin(t *testing.T) {
	reg := NewRegistry()
	s := loggedInSession(t, reg, nil, "ada", "Ada", "a")

	testutil.AssertEqual(t, "logged in", reg.IsLoggedIn("ada"), true)
	reg.Disconnect(s)
	testutil.AssertEqual(t, "logged out", reg.IsLoggedIn("ada"), false)
	testutil.AssertEqual(t, "lookup", reg.Session("Ada") == nil, true)

	loggedInSession(t, reg, nil, "ada", "Ada", "a")
}

func TestRegistry_Logout(t *testing.T) {
	reg := NewRegistry()
	s := loggedInSession(t, reg, nil, "ada", "Ada", "a")

	reg.Logout(s)
	testutil.AssertEqual(t, "authenticated", s.Authenticated(), false)
	testutil.AssertEqual(t, "still connected", reg.SessionById(s.Id()), s)
	testutil.AssertEqual(t, "account free", reg.IsLoggedIn("ada"), false)
}

func TestRegistry_RoomQueries(t *testing.T) {
	reg := NewRegistry()
	bo := loggedInSession(t, reg, nil, "bo", "Bo", "hall")
	ada := loggedInSession(t, reg, nil, "ada", "Ada", "hall")
	loggedInSession(t, reg, nil, "cy", "Cy", "yard")
	bo.Hidden = true

	names := func(ss []*Session) []string {
		var out []string
		for _, s := range ss {
			out = append(out, s.Name())
		}
		return out
	}

	gametest.AssertSlice(t, "in room", names(reg.PlayersInRoom("hall")), []string{"Ada", "Bo"})
	gametest.AssertSlice(t, "visible", names(reg.VisiblePlayersInRoom("hall")), []string{"Ada"})
	gametest.AssertSlice(t, "authenticated", names(reg.Authenticated()), []string{"Ada", "Bo", "Cy"})
	testutil.AssertEqual(t, "by name", reg.Session("ada"), ada)

	room, visible, ok := reg.Locate(bo.Id())
	testutil.AssertEqual(t, "located", ok, true)
	testutil.AssertEqual(t, "room", room, "hall")
	testutil.AssertEqual(t, "visible", visible, false)
}

func TestRegistry_BroadcastToRoom(t *testing.T) {
	rec := gametest.NewRecorder()
	reg := NewRegistry()
	ada := loggedInSession(t, reg, rec, "ada", "Ada", "hall")
	bo := loggedInSession(t, reg, rec, "bo", "Bo", "hall")
	cy := loggedInSession(t, reg, rec, "cy", "Cy", "yard")

	reg.BroadcastToRoom("hall", protocol.Chat{From: "Ada", Text: "hi"}, ada)

	testutil.AssertEqual(t, "sender", len(rec.Messages(ada.Subject())), 0)
	gametest.AssertSlice(t, "same room", rec.Kinds(bo.Subject()), []string{protocol.KindChat})
	testutil.AssertEqual(t, "other room", len(rec.Messages(cy.Subject())), 0)

	reg.Broadcast(protocol.System{Message: "reboot"})
	testutil.AssertEqual(t, "everyone", len(rec.Messages(cy.Subject())), 1)
}

func TestRegistry_BreakStealth(t *testing.T) {
	rec := gametest.NewRecorder()
	reg := NewRegistry()
	ada := loggedInSession(t, reg, rec, "ada", "Ada", "hall")
	bo := loggedInSession(t, reg, rec, "bo", "Bo", "hall")

	testutil.AssertEqual(t, "not hidden", reg.BreakStealth(ada), false)
	testutil.AssertEqual(t, "no messages", len(rec.Messages(ada.Subject())), 0)

	ada.Hidden = true
	testutil.AssertEqual(t, "broken", reg.BreakStealth(ada), true)
	testutil.AssertEqual(t, "hidden", ada.Hidden, false)
	testutil.AssertEqual(t, "told player", len(rec.Messages(ada.Subject())), 1)

	msg, ok := gametest.Last[protocol.System](rec, bo.Subject())
	testutil.AssertEqual(t, "room told", ok, true)
	testutil.AssertEqual(t, "message", msg.Message, "Ada steps out of the shadows.")

	testutil.AssertEqual(t, "idempotent", reg.BreakStealth(ada), false)
	testutil.AssertEqual(t, "no repeat", len(rec.Messages(ada.Subject())), 1)
}
