package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/mudcore/internal/protocol"
)

func TestRender(t *testing.T) {
	tests := map[string]struct {
		msg protocol.ServerMessage
		exp string
	}{
		"room": {
			msg: protocol.RoomInfo{
				Name:     "town square",
				Exits:    []string{"east", "north"},
				Players:  []string{"Brenna"},
				NPCs:     []protocol.NPCInfo{{Name: "rat"}},
				Features: []protocol.FeatureInfo{{Label: "lever"}},
			},
			exp: "Town Square\nExits: east north\nThere is a lever here.\nRat is here.\nBrenna is here.",
		},
		"room without exits": {
			msg: protocol.RoomInfo{Name: "Cell", Description: "Bare stone."},
			exp: "Cell\nBare stone.\nExits: none",
		},
		"failed move": {
			msg: protocol.MoveResult{Direction: "west", Reason: "You can't go that way."},
			exp: "You can't go that way.",
		},
		"successful move is silent": {
			msg: protocol.MoveResult{Success: true, Direction: "west"},
			exp: "",
		},
		"hit": {
			msg: protocol.Combat{Attacker: "Aldric", Defender: "Rat", Outcome: "hit", Damage: 4},
			exp: "Aldric hits Rat. (4)",
		},
		"backstab": {
			msg: protocol.Combat{Attacker: "Aldric", Defender: "Rat", Outcome: "hit", Damage: 12, Backstab: true},
			exp: "Aldric backstabs Rat! (12)",
		},
		"parry": {
			msg: protocol.Combat{Attacker: "Rat", Defender: "Aldric", Outcome: "parry"},
			exp: "Aldric parries Rat's attack.",
		},
		"miss": {
			msg: protocol.Combat{Attacker: "Rat", Defender: "Aldric", Outcome: "miss"},
			exp: "Rat misses Aldric.",
		},
		"inventory": {
			msg: protocol.Inventory{
				Items:     []protocol.ItemInfo{{Name: "a potion"}, {Name: "a key"}},
				Equipment: map[string]protocol.ItemInfo{"weapon": {Name: "a sword"}, "body": {Name: "a tunic"}},
				Gold:      12,
			},
			exp: "You are carrying: a potion, a key.\n  body: a tunic\n  weapon: a sword\nGold: 12",
		},
		"empty ground": {
			msg: protocol.RoomItems{},
			exp: "",
		},
		"npc leaves": {
			msg: protocol.NPCLeft{NPC: protocol.NPCInfo{Name: "Guard"}, Direction: "east"},
			exp: "Guard leaves east.",
		},
		"chat": {
			msg: protocol.Chat{From: "Brenna", Text: "hello"},
			exp: `Brenna says, "hello"`,
		},
		"countdown": {
			msg: protocol.ShutdownCountdown{TicksRemaining: 3},
			exp: "Shutdown in 3 ticks.",
		},
		"map data is not shown": {
			msg: protocol.MapData{Center: "a"},
			exp: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "text", Render(tt.msg), tt.exp)
		})
	}
}

func TestDamageVerb(t *testing.T) {
	tests := map[string]struct {
		dmg int
		exp string
	}{
		"none":  {dmg: 0, exp: "grazes"},
		"light": {dmg: 2, exp: "scratches"},
		"heavy": {dmg: 9, exp: "wounds"},
		"huge":  {dmg: 40, exp: "devastates"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "verb", DamageVerb(tt.dmg), tt.exp)
		})
	}
}

func TestWrapTo(t *testing.T) {
	got := WrapTo("the quick brown fox jumps", 10)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 10 {
			t.Errorf("line %q is wider than 10", line)
		}
	}
	testutil.AssertEqual(t, "unwrapped", WrapTo("the quick brown fox", 0), "the quick brown fox")
}

func TestCapitalize(t *testing.T) {
	testutil.AssertEqual(t, "word", Capitalize("rat"), "Rat")
	testutil.AssertEqual(t, "empty", Capitalize(""), "")
	testutil.AssertEqual(t, "title", Title("the old mill"), "The Old Mill")
}
