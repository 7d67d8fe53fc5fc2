package driver

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/mudcore/internal/catalog"
	"github.com/pixil98/mudcore/internal/combat"
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/game/gametest"
	"github.com/pixil98/mudcore/internal/game/sessiontest"
	"github.com/pixil98/mudcore/internal/npc"
	"github.com/pixil98/mudcore/internal/protocol"
)

type fakeSaver struct {
	mu    sync.Mutex
	saved []int64
	err   error
}

func (f *fakeSaver) SaveSnapshot(_ context.Context, accountId int64, _ *game.Character) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, accountId)
	return f.err
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fixture struct {
	state State
	pub   *gametest.Recorder
	saver *fakeSaver
}

// newFixture builds a -east- b and a -north- c, where the way north is
// locked at difficulty 12 and relocks three ticks after being opened.
func newFixture(t *testing.T, templates map[string]*npc.Template) *fixture {
	t.Helper()
	world, err := game.NewWorld(map[string]*game.Room{
		"a": {
			Name:  "A",
			Zone:  "z",
			Exits: map[game.Direction]string{game.East: "b", game.North: "c"},
			Locks: map[game.Direction]game.ExitLock{game.North: {Difficulty: 12, ResetTicks: 3}},
			Interactables: []game.Interactable{
				{Id: "bell", Label: "bell", Action: game.ActionDropLoot, LootTable: "none", ResetTicks: 2},
			},
		},
		"b": {Name: "B", Zone: "z", Exits: map[game.Direction]string{game.West: "a"}},
		"c": {Name: "C", Zone: "z", Exits: map[game.Direction]string{game.South: "a"}},
	})
	if err != nil {
		t.Fatalf("building world: %v", err)
	}
	cat, err := catalog.New(catalog.Definitions{
		LootTables: map[string]*game.LootTable{"none": {}},
	})
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}

	trail := game.NewTrailLedger(time.Minute, 10)
	reg := game.NewRegistry()
	npcs := npc.NewManager(world, trail, templates)
	f := &fixture{
		state: State{
			Lock:     &game.StateLock{},
			World:    world,
			Registry: reg,
			NPCs:     npcs,
			Engine:   combat.NewEngine(world, reg, npcs, cat, trail, combat.WithStartRoom("a")),
			Trail:    trail,
		},
		pub:   gametest.NewRecorder(),
		saver: &fakeSaver{},
	}
	return f
}

func (f *fixture) login(t *testing.T, name, room string) *game.Session {
	t.Helper()
	return sessiontest.Login(t, f.state.Registry, f.pub, name, name, room)
}

func TestClock_RelocksAfterResetTicks(t *testing.T) {
	f := newFixture(t, nil)
	s := f.login(t, "Aldric", "a")
	c := NewClock(f.state, f.saver)
	ctx := context.Background()

	f.state.World.UnlockExit("a", game.North)
	for i := range 2 {
		c.Tick(ctx)
		testutil.AssertEqual(t, fmt.Sprintf("locked after tick %d", i+1), f.state.World.IsLocked("a", game.North), false)
		if _, ok := gametest.Last[protocol.ExitChanged](f.pub, s.Subject()); ok {
			t.Fatalf("unexpected exit change after tick %d", i+1)
		}
	}

	c.Tick(ctx)
	testutil.AssertEqual(t, "locked", f.state.World.IsLocked("a", game.North), true)
	d, _ := f.state.World.LockDifficulty("a", game.North)
	testutil.AssertEqual(t, "difficulty", d, 12)

	changes := gametest.All[protocol.ExitChanged](f.pub, s.Subject())
	testutil.AssertEqual(t, "events", len(changes), 1)
	testutil.AssertEqual(t, "change", changes[0].Change, string(game.ExitRelocked))
	testutil.AssertEqual(t, "direction", changes[0].Direction, "north")
	testutil.AssertEqual(t, "message", changes[0].Message, "The way north locks with a click.")
}

func TestClock_InteractableReady(t *testing.T) {
	f := newFixture(t, nil)
	s := f.login(t, "Aldric", "a")
	c := NewClock(f.state, f.saver)

	f.state.World.MarkInteractableUsed("a", "bell")
	c.Tick(context.Background())
	testutil.AssertEqual(t, "ready early", f.state.World.InteractableReady("a", "bell"), false)

	c.Tick(context.Background())
	testutil.AssertEqual(t, "ready", f.state.World.InteractableReady("a", "bell"), true)
	ev, ok := gametest.Last[protocol.ExitChanged](f.pub, s.Subject())
	if !ok {
		t.Fatal("expected a reset message")
	}
	testutil.AssertEqual(t, "change", ev.Change, string(game.FeatureReady))
	testutil.AssertEqual(t, "message", ev.Message, "The bell is ready again.")
}

func TestClock_NPCMovement(t *testing.T) {
	f := newFixture(t, map[string]*npc.Template{
		"guard": {Name: "Guard", HP: 10, Mode: npc.ModePatrol, Route: []game.Direction{game.East}},
	})
	here := f.login(t, "Aldric", "a")
	there := f.login(t, "Brenna", "b")
	if _, err := f.state.NPCs.Spawn("guard", "a"); err != nil {
		t.Fatalf("spawning guard: %v", err)
	}

	NewClock(f.state, f.saver).Tick(context.Background())

	left, ok := gametest.Last[protocol.NPCLeft](f.pub, here.Subject())
	if !ok {
		t.Fatal("expected the guard to leave room a")
	}
	testutil.AssertEqual(t, "left direction", left.Direction, "east")

	entered, ok := gametest.Last[protocol.NPCEntered](f.pub, there.Subject())
	if !ok {
		t.Fatal("expected the guard to enter room b")
	}
	testutil.AssertEqual(t, "entered from", entered.From, "a")
	testutil.AssertEqual(t, "trail", len(f.state.Trail.Recent("a")), 1)
}

func TestClock_ShutdownCountdown(t *testing.T) {
	tests := map[string]struct {
		arm      []int
		expTicks int
		expLeft  []int
	}{
		"explicit ticks": {
			arm:      []int{3},
			expTicks: 3,
			expLeft:  []int{2, 1, 0},
		},
		"default ticks": {
			arm:      []int{0},
			expTicks: 2,
			expLeft:  []int{1, 0},
		},
		"shorter request wins": {
			arm:      []int{5, 1},
			expTicks: 1,
			expLeft:  []int{0},
		},
		"longer request is ignored": {
			arm:      []int{1, 5},
			expTicks: 1,
			expLeft:  []int{0},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			s := f.login(t, "Aldric", "a")
			c := NewClock(f.state, f.saver, WithShutdownTicks(2))

			for _, n := range tt.arm {
				c.ArmShutdown(n)
			}
			ticks := 0
			for done := false; !done && ticks < 10; ticks++ {
				done = c.Tick(context.Background())
			}
			testutil.AssertEqual(t, "ticks", ticks, tt.expTicks)

			var left []int
			for _, m := range gametest.All[protocol.ShutdownCountdown](f.pub, s.Subject()) {
				left = append(left, m.TicksRemaining)
			}
			gametest.AssertSlice(t, "countdown", left, tt.expLeft)
		})
	}
}

func TestClock_NoCountdownUntilArmed(t *testing.T) {
	f := newFixture(t, nil)
	s := f.login(t, "Aldric", "a")
	c := NewClock(f.state, f.saver)

	for range 5 {
		if c.Tick(context.Background()) {
			t.Fatal("clock stopped without a shutdown")
		}
	}
	testutil.AssertEqual(t, "countdowns", len(gametest.All[protocol.ShutdownCountdown](f.pub, s.Subject())), 0)
}

func TestClock_Checkpoints(t *testing.T) {
	f := newFixture(t, nil)
	s := f.login(t, "Aldric", "a")
	s.Identity.AccountId = 7
	f.login(t, "Brenna", "b").Identity.AccountId = 8
	c := NewClock(f.state, f.saver, WithCheckpointTicks(2))

	c.Tick(context.Background())
	testutil.AssertEqual(t, "saves after one tick", f.saver.count(), 0)

	c.Tick(context.Background())
	testutil.AssertEqual(t, "saves after two ticks", f.saver.count(), 2)
	gametest.AssertSlice(t, "accounts", f.saver.saved, []int64{7, 8})
}

func TestClock_CheckpointErrorsDoNotStop(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t, "Aldric", "a")
	f.saver.err = fmt.Errorf("disk full")
	c := NewClock(f.state, f.saver, WithCheckpointTicks(1))

	for range 3 {
		if c.Tick(context.Background()) {
			t.Fatal("clock stopped on a save error")
		}
	}
	testutil.AssertEqual(t, "attempts", f.saver.count(), 3)
}

func TestClock_CancelArmsCountdown(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t, "Aldric", "a")

	stopped := make(chan struct{})
	c := NewClock(f.state, f.saver,
		WithTickLength(time.Millisecond),
		WithShutdownTicks(2),
		WithOnStop(func() { close(stopped) }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("clock did not stop")
	}
	select {
	case <-stopped:
	default:
		t.Error("expected the stop callback to run")
	}
	// The final tick saves everyone.
	testutil.AssertEqual(t, "final saves", f.saver.count(), 1)
}
