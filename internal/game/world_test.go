package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/mudcore/internal/game/gametest"
)

func TestNewWorld_Validation(t *testing.T) {
	tests := map[string]struct {
		rooms  map[string]*Room
		expErr string
	}{
		"valid": {
			rooms: map[string]*Room{
				"a": {Name: "A", Zone: "z", Exits: map[Direction]string{North: "b"}},
				"b": {Name: "B", Zone: "z"},
			},
		},
		"unknown exit destination": {
			rooms: map[string]*Room{
				"a": {Name: "A", Zone: "z", Exits: map[Direction]string{North: "missing"}},
			},
			expErr: `exit north leads to unknown room "missing"`,
		},
		"unknown teleport destination": {
			rooms: map[string]*Room{
				"a": {Name: "A", Zone: "z", Interactables: []Interactable{
					{Id: "mirror", Label: "a mirror", Action: ActionTeleport, Destination: "void"},
				}},
			},
			expErr: `teleports to unknown room "void"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewWorld(tt.rooms)
			if tt.expErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestRoom_Validate(t *testing.T) {
	tests := map[string]struct {
		room   Room
		expErr string
	}{
		"valid": {
			room: Room{Name: "A", Zone: "z", Exits: map[Direction]string{North: "b"}},
		},
		"missing name": {
			room:   Room{Zone: "z"},
			expErr: "room name is required",
		},
		"bad direction": {
			room:   Room{Name: "A", Zone: "z", Exits: map[Direction]string{"sideways": "b"}},
			expErr: "unknown direction",
		},
		"lock on missing exit": {
			room:   Room{Name: "A", Zone: "z", Locks: map[Direction]ExitLock{North: {Difficulty: 3}}},
			expErr: "lock north: no such exit",
		},
		"open_exit without exit": {
			room: Room{Name: "A", Zone: "z", Interactables: []Interactable{
				{Id: "lever", Label: "a lever", Action: ActionOpenExit, Direction: West},
			}},
			expErr: `open_exit: no exit "west"`,
		},
		"duplicate feature": {
			room: Room{Name: "A", Zone: "z", Interactables: []Interactable{
				{Id: "chest", Label: "a chest", Action: ActionDropLoot, LootTable: "t"},
				{Id: "chest", Label: "a chest", Action: ActionDropLoot, LootTable: "t"},
			}},
			expErr: "duplicate id",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.room.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestWorld_RoomsNear(t *testing.T) {
	// a - b - c - d, with b also linking to e in another zone, and a cycle d -> a.
	w := newTestWorld(t, map[string]*Room{
		"a": {Name: "A", Zone: "one", Exits: map[Direction]string{East: "b", West: "d"}},
		"b": {Name: "B", Zone: "one", Exits: map[Direction]string{East: "c", West: "a", North: "e"}},
		"c": {Name: "C", Zone: "one", Exits: map[Direction]string{East: "d", West: "b"}},
		"d": {Name: "D", Zone: "one", Exits: map[Direction]string{East: "a", West: "c"}},
		"e": {Name: "E", Zone: "two", Exits: map[Direction]string{South: "b"}},
	})

	tests := map[string]struct {
		center string
		radius int
		exp    []string
	}{
		"radius zero":    {center: "a", radius: 0, exp: []string{"a"}},
		"radius one":     {center: "a", radius: 1, exp: []string{"a", "b", "d"}},
		"crosses zones":  {center: "a", radius: 2, exp: []string{"a", "b", "d", "c", "e"}},
		"no duplicates":  {center: "a", radius: 10, exp: []string{"a", "b", "d", "c", "e"}},
		"unknown center": {center: "x", radius: 3, exp: nil},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var ids []string
			for _, r := range w.RoomsNear(tt.center, tt.radius) {
				ids = append(ids, r.Id())
			}
			gametest.AssertSlice(t, "rooms", ids, tt.exp)
		})
	}
}

func TestWorld_VisibleExits(t *testing.T) {
	w := newTestWorld(t, map[string]*Room{
		"a": {
			Name:   "A",
			Zone:   "z",
			Exits:  map[Direction]string{North: "b", East: "b"},
			Hidden: map[Direction]HiddenExit{East: {Perception: 12}},
		},
		"b": {Name: "B", Zone: "z"},
	})

	gametest.AssertSlice(t, "undiscovered", w.VisibleExits("a", nil), []Direction{North})

	discovered := func(key string) bool { return key == ExitKey("a", East) }
	gametest.AssertSlice(t, "discovered", w.VisibleExits("a", discovered), []Direction{East, North})

	w.RevealHiddenExit("a", East)
	gametest.AssertSlice(t, "revealed", w.VisibleExits("a", nil), []Direction{East, North})
}

func TestWorld_RoomItems(t *testing.T) {
	w := newTestWorld(t, map[string]*Room{
		"a": {Name: "A", Zone: "z", Items: []string{"torch"}},
	})

	items := w.RoomItems("a")
	testutil.AssertEqual(t, "loaded", len(items), 1)
	testutil.AssertEqual(t, "item id", items[0].ItemId, "torch")

	sword := NewItemInstance("sword")
	w.AddItem("a", sword)
	w.AddItem("nowhere", NewItemInstance("rock"))
	testutil.AssertEqual(t, "after add", len(w.RoomItems("a")), 2)

	got := w.TakeItem("a", sword.InstanceId)
	testutil.AssertEqual(t, "taken", got, sword)
	testutil.AssertEqual(t, "by item id", w.TakeItem("a", "torch") != nil, true)
	testutil.AssertEqual(t, "empty", len(w.RoomItems("a")), 0)
	testutil.AssertEqual(t, "missing", w.TakeItem("a", "torch") == nil, true)
}
