package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/mudcore/internal/combat"
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/npc"
	"github.com/pixil98/mudcore/internal/protocol"
)

const (
	DefaultTickLength    = 1500 * time.Millisecond
	DefaultShutdownTicks = 10
)

// Saver persists a character snapshot for an account.
type Saver interface {
	SaveSnapshot(ctx context.Context, accountId int64, c *game.Character) error
}

// State is the simulation the clock advances. Everything but Lock is
// guarded by Lock.
type State struct {
	Lock     *game.StateLock
	World    *game.World
	Registry *game.Registry
	NPCs     *npc.Manager
	Engine   *combat.Engine
	Trail    *game.TrailLedger
}

type checkpoint struct {
	name      string
	accountId int64
	snap      *game.Character
}

// Clock drives the fixed-rate simulation tick. It is the only goroutine
// that advances world time.
type Clock struct {
	State
	repo Saver

	tickLength      time.Duration
	shutdownTicks   int
	checkpointTicks int
	onStop          func()

	// arm is set from any goroutine, including handlers that already hold
	// the StateLock, so it has its own mutex.
	armMu   sync.Mutex
	armed   bool
	armWith int

	ticks     int
	remaining int // -1 while no countdown is running
}

func NewClock(state State, repo Saver, opts ...ClockOpt) *Clock {
	c := &Clock{
		State:         state,
		repo:          repo,
		tickLength:    DefaultTickLength,
		shutdownTicks: DefaultShutdownTicks,
		remaining:     -1,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ArmShutdown starts the shutdown countdown at the next tick. Zero means the
// configured default. A countdown already running is only ever shortened.
func (c *Clock) ArmShutdown(ticks int) {
	if ticks <= 0 {
		ticks = c.shutdownTicks
	}
	c.armMu.Lock()
	defer c.armMu.Unlock()
	if !c.armed || ticks < c.armWith {
		c.armed = true
		c.armWith = ticks
	}
}

func (c *Clock) takeArmed() (int, bool) {
	c.armMu.Lock()
	defer c.armMu.Unlock()
	if !c.armed {
		return 0, false
	}
	c.armed = false
	return c.armWith, true
}

// Start ticks until the shutdown countdown completes. Cancelling ctx arms
// the countdown rather than stopping at once, so players get a warning and
// a final save.
func (c *Clock) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "starting simulation clock", "tick", c.tickLength, "shutdown_ticks", c.shutdownTicks)

	ticker := time.NewTicker(c.tickLength)
	defer ticker.Stop()

	tickCtx := ctx
	stopping := ctx.Done()
	for {
		select {
		case <-stopping:
			slog.InfoContext(ctx, "stop requested, arming shutdown countdown")
			c.ArmShutdown(0)
			stopping = nil
			tickCtx = context.WithoutCancel(ctx)
		case <-ticker.C:
			if c.Tick(tickCtx) {
				slog.InfoContext(ctx, "shutdown countdown complete")
				if c.onStop != nil {
					c.onStop()
				}
				return nil
			}
		}
	}
}

// Tick advances the simulation once and reports whether the shutdown
// countdown has finished. Snapshots are written after the lock is released.
func (c *Clock) Tick(ctx context.Context) bool {
	c.Lock.Lock()
	c.advanceNPCs()
	c.Engine.CombatRound()
	c.Engine.TickSessions()
	c.sweepWorld()
	c.Trail.Prune()
	done := c.countdown()

	c.ticks++
	var saves []checkpoint
	if done || (c.checkpointTicks > 0 && c.ticks%c.checkpointTicks == 0) {
		saves = c.collect()
	}
	c.Lock.Unlock()

	c.persist(ctx, saves)
	return done
}

func (c *Clock) advanceNPCs() {
	for _, mv := range c.NPCs.Advance(c.Registry) {
		if mv.GaveUp {
			c.Registry.BroadcastToRoom(mv.To, protocol.System{Message: fmt.Sprintf("%s gives up the chase.", mv.NPC.Name())}, nil)
			continue
		}
		c.Registry.BroadcastToRoom(mv.From, protocol.NPCLeft{NPC: mv.NPC.Info(), Direction: string(mv.Direction)}, nil)
		c.Registry.BroadcastToRoom(mv.To, protocol.NPCEntered{NPC: mv.NPC.Info(), From: mv.From}, nil)
	}
	for _, inst := range c.NPCs.TickRespawns() {
		c.Registry.BroadcastToRoom(inst.RoomId, protocol.NPCEntered{NPC: inst.Info()}, nil)
	}
}

func (c *Clock) sweepWorld() {
	for _, ev := range c.World.TickResetTimers() {
		c.Registry.BroadcastToRoom(ev.RoomId, protocol.ExitChanged{
			RoomId:    ev.RoomId,
			Direction: string(ev.Direction),
			Change:    string(ev.Change),
			Message:   exitMessage(ev.Change, ev.Direction),
		}, nil)
	}

	for _, r := range c.World.TickInteractableTimers() {
		msg := protocol.ExitChanged{
			RoomId:  r.RoomId,
			Change:  string(game.FeatureReady),
			Message: fmt.Sprintf("The %s is ready again.", r.Label),
		}
		if r.Action == game.ActionOpenExit {
			msg.Direction = string(r.Direction)
			msg.Change = string(game.ExitRelocked)
			msg.Message = fmt.Sprintf("The %s resets. %s", r.Label, exitMessage(game.ExitRelocked, r.Direction))
		}
		c.Registry.BroadcastToRoom(r.RoomId, msg, nil)
	}
}

func exitMessage(change game.ExitChange, dir game.Direction) string {
	switch change {
	case game.ExitRelocked:
		return fmt.Sprintf("The way %s locks with a click.", dir)
	case game.ExitRehidden:
		return fmt.Sprintf("The passage %s is hidden once more.", dir)
	}
	return ""
}

// countdown advances the shutdown countdown, if any, and broadcasts the
// ticks left.
func (c *Clock) countdown() bool {
	if ticks, ok := c.takeArmed(); ok && (c.remaining < 0 || ticks < c.remaining) {
		c.remaining = ticks
		c.Registry.Broadcast(protocol.System{Message: fmt.Sprintf("The server will shut down in %d ticks.", ticks)})
	}
	if c.remaining < 0 {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	c.Registry.Broadcast(protocol.ShutdownCountdown{TicksRemaining: c.remaining})
	return c.remaining == 0
}

// collect snapshots every logged in character. Callers hold the lock.
func (c *Clock) collect() []checkpoint {
	var out []checkpoint
	for _, s := range c.Registry.Authenticated() {
		snap := s.Snapshot()
		if snap == nil {
			continue
		}
		out = append(out, checkpoint{name: s.Name(), accountId: s.Identity.AccountId, snap: snap})
	}
	return out
}

func (c *Clock) persist(ctx context.Context, saves []checkpoint) {
	if c.repo == nil || len(saves) == 0 {
		return
	}
	for _, cp := range saves {
		if err := c.repo.SaveSnapshot(ctx, cp.accountId, cp.snap); err != nil {
			slog.ErrorContext(ctx, "checkpointing character", "character", cp.name, "error", err)
		}
	}
	slog.DebugContext(ctx, "checkpoint complete", "characters", len(saves))
}
