package commands

import (
	"context"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/game/gametest"
	"github.com/pixil98/mudcore/internal/protocol"
)

func TestDispatcher_PickupEquipDrop(t *testing.T) {
	f := newFixture(t)
	s := f.enter(t, "Aldric")
	watcher := f.enter(t, "Brenna")
	ctx := context.Background()

	err := f.d.Dispatch(ctx, s, protocol.Pickup{ItemId: "shield"})
	assertUserError(t, err, protocol.CodeInvalidInput, `You don't see "shield" here.`)

	if err := f.d.Dispatch(ctx, s, protocol.Pickup{ItemId: "sword"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "room items", len(f.world.RoomItems("town")), 0)
	testutil.AssertEqual(t, "inventory", len(s.Character.Inventory), 1)
	seen, _ := gametest.Last[protocol.RoomItems](f.pub, watcher.Subject())
	testutil.AssertEqual(t, "watcher sees", len(seen.Items), 0)

	if err := f.d.Dispatch(ctx, s, protocol.Equip{ItemId: "sword"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "inventory", len(s.Character.Inventory), 0)
	if s.Character.Equipment["weapon"] == nil {
		t.Fatal("expected the sword in the weapon slot")
	}
	inv, _ := gametest.Last[protocol.Inventory](f.pub, s.Subject())
	testutil.AssertEqual(t, "equipped", inv.Equipment["weapon"].Name, "a short sword")

	// Equipped items are not in the pack.
	err = f.d.Dispatch(ctx, s, protocol.Drop{ItemId: "sword"})
	assertUserError(t, err, protocol.CodeInvalidInput, `You aren't carrying "sword".`)

	s.Character.AddItem(game.NewItemInstance("brass-key"))
	err = f.d.Dispatch(ctx, s, protocol.Equip{ItemId: "brass-key"})
	assertUserError(t, err, protocol.CodeInvalidInput, "You can't equip a brass key.")

	if err := f.d.Dispatch(ctx, s, protocol.Drop{ItemId: "brass-key"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "room items", len(f.world.RoomItems("town")), 1)
	testutil.AssertEqual(t, "system", f.lastSystem(t, s), "You drop a brass key.")
}

func TestDispatcher_UseItem(t *testing.T) {
	tests := map[string]struct {
		item       string
		expErr     string
		expEffects int
		expItems   int
	}{
		"consumable": {
			item:       "potion",
			expEffects: 1,
			expItems:   1,
		},
		"no effect": {
			item:     "brass-key",
			expErr:   "You can't use a brass key.",
			expItems: 2,
		},
		"not carried": {
			item:     "sword",
			expErr:   `You aren't carrying "sword".`,
			expItems: 2,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			s := f.enter(t, "Aldric")
			s.Character.AddItem(game.NewItemInstance("potion"))
			s.Character.AddItem(game.NewItemInstance("brass-key"))

			err := f.d.Dispatch(context.Background(), s, protocol.UseItem{ItemId: tt.item})
			if tt.expErr != "" {
				assertUserError(t, err, protocol.CodeInvalidInput, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "effects", len(s.Effects), tt.expEffects)
			testutil.AssertEqual(t, "items", len(s.Character.Inventory), tt.expItems)
		})
	}
}

func TestDispatcher_Buy(t *testing.T) {
	tests := map[string]struct {
		vendor   string
		item     string
		gold     int
		expErr   string
		expGold  int
		expItems int
	}{
		"buys": {
			vendor:   "shopkeeper",
			item:     "potion",
			gold:     50,
			expGold:  40,
			expItems: 1,
		},
		"too poor": {
			vendor:  "shopkeeper",
			item:    "sword",
			gold:    5,
			expErr:  "You can't afford a short sword. It costs 20 gold.",
			expGold: 5,
		},
		"not for sale": {
			vendor:  "shopkeeper",
			item:    "brass-key",
			gold:    50,
			expErr:  `Shopkeeper doesn't sell "brass-key".`,
			expGold: 50,
		},
		"no such vendor": {
			vendor:  "rat",
			item:    "potion",
			gold:    50,
			expErr:  `There is no merchant "rat" here.`,
			expGold: 50,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			s := f.enter(t, "Aldric")
			f.spawn(t, "rat", "town")
			s.Character.Gold = tt.gold

			err := f.d.Dispatch(context.Background(), s, protocol.Buy{VendorId: tt.vendor, ItemId: tt.item})
			if tt.expErr != "" {
				assertUserError(t, err, protocol.CodeInvalidInput, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "gold", s.Character.Gold, tt.expGold)
			testutil.AssertEqual(t, "items", len(s.Character.Inventory), tt.expItems)
		})
	}
}

func TestDispatcher_Sell(t *testing.T) {
	f := newFixture(t)
	s := f.enter(t, "Aldric")
	s.Character.AddItem(game.NewItemInstance("sword"))
	ctx := context.Background()

	if err := f.d.Dispatch(ctx, s, protocol.Sell{VendorId: "shopkeeper", ItemId: "sword"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "gold", s.Character.Gold, 60)
	testutil.AssertEqual(t, "items", len(s.Character.Inventory), 0)
	testutil.AssertEqual(t, "system", f.lastSystem(t, s), "Shopkeeper buys a short sword for 10 gold.")

	err := f.d.Dispatch(ctx, s, protocol.Sell{VendorId: "shopkeeper", ItemId: "sword"})
	assertUserError(t, err, protocol.CodeInvalidInput, `You aren't carrying "sword".`)
}

func TestDispatcher_Train(t *testing.T) {
	tests := map[string]struct {
		setup   func(s *game.Session)
		skill   string
		expErr  string
		expGold int
		learned func(c *game.Character) bool
	}{
		"learns a skill": {
			skill:   game.SkillKick,
			expGold: 35,
			learned: func(c *game.Character) bool { return c.HasSkill(game.SkillKick) },
		},
		"already known": {
			setup:   func(s *game.Session) { s.Character.Skills = append(s.Character.Skills, game.SkillKick) },
			skill:   game.SkillKick,
			expErr:  "You already know Kick.",
			expGold: 50,
		},
		"not taught here": {
			skill:   game.SkillTrack,
			expErr:  `Shopkeeper cannot teach you "track".`,
			expGold: 50,
		},
		"too low level": {
			skill:   "fireball",
			expErr:  "You must be level 5 to learn Fireball.",
			expGold: 50,
		},
		"learns a spell": {
			setup:   func(s *game.Session) { s.Character.Level = 5 },
			skill:   "fireball",
			expGold: 50,
			learned: func(c *game.Character) bool { return c.KnowsSpell("fireball") },
		},
		"too poor": {
			setup:   func(s *game.Session) { s.Character.Gold = 10 },
			skill:   game.SkillKick,
			expErr:  "You can't afford to learn Kick. It costs 15 gold.",
			expGold: 10,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			s := f.enter(t, "Aldric")
			if tt.setup != nil {
				tt.setup(s)
			}

			err := f.d.Dispatch(context.Background(), s, protocol.Train{TrainerId: "shopkeeper", SkillId: tt.skill})
			if tt.expErr != "" {
				assertUserError(t, err, protocol.CodeInvalidInput, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "gold", s.Character.Gold, tt.expGold)
			if tt.learned != nil && !tt.learned(s.Character) {
				t.Error("expected the skill to be learned")
			}
		})
	}
}
