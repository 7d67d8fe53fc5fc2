package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-service"
	"github.com/pixil98/mudcore/internal/combat"
	"github.com/pixil98/mudcore/internal/commands"
	"github.com/pixil98/mudcore/internal/driver"
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/listener"
	"github.com/pixil98/mudcore/internal/messaging"
	"github.com/pixil98/mudcore/internal/npc"
)

// NewWorkerBuilder returns the service.NewApp builder. stop is called once
// the simulation has finished its shutdown countdown.
func NewWorkerBuilder(stop context.CancelFunc) func(config interface{}) (service.WorkerList, error) {
	return func(config interface{}) (service.WorkerList, error) {
		cfg, ok := config.(*Config)
		if !ok {
			return nil, fmt.Errorf("unable to cast config")
		}
		return buildWorkers(context.Background(), cfg, stop)
	}
}

func buildWorkers(ctx context.Context, cfg *Config, stop context.CancelFunc) (service.WorkerList, error) {
	bus, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	data, err := cfg.Storage.load()
	if err != nil {
		return nil, err
	}

	world, err := game.NewWorld(data.rooms)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	if world.Room(cfg.StartRoom) == nil {
		return nil, fmt.Errorf("start_room %q does not exist", cfg.StartRoom)
	}

	trail := game.NewTrailLedger(cfg.NPC.trailWindow(), cfg.NPC.trailMaxPerRoom())
	npcs := npc.NewManager(world, trail, data.templates, cfg.NPC.opts()...)
	if err := npcs.SpawnAll(); err != nil {
		return nil, fmt.Errorf("spawning npcs: %w", err)
	}

	reg := game.NewRegistry()
	engine := combat.NewEngine(world, reg, npcs, data.catalog, trail, cfg.Combat.opts(cfg.StartRoom)...)

	repo, err := cfg.Repository.buildRepository(ctx)
	if err != nil {
		return nil, err
	}

	lock := &game.StateLock{}
	clock := driver.NewClock(driver.State{
		Lock:     lock,
		World:    world,
		Registry: reg,
		NPCs:     npcs,
		Engine:   engine,
		Trail:    trail,
	}, repo, append(cfg.clockOpts(), driver.WithOnStop(func() {
		if err := repo.Close(); err != nil {
			slog.Warn("closing account repository", "error", err)
		}
		stop()
	}))...)

	dispatcher := commands.NewDispatcher(commands.State{
		Lock:     lock,
		World:    world,
		Registry: reg,
		NPCs:     npcs,
		Engine:   engine,
		Catalog:  data.catalog,
		Trail:    trail,
	}, repo, append(cfg.Player.opts(cfg.StartRoom), commands.WithShutdowner(clock))...)

	cm := listener.NewConnectionManager(dispatcher, bus, cfg.Connection.opts()...)

	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = &afterReady{bus: bus, w: w}
	}

	return service.WorkerList{
		"nats":      bus,
		"clock":     clock,
		"listeners": &listeners,
	}, nil
}

type starter interface {
	Start(ctx context.Context) error
}

// afterReady holds a worker back until the bus accepts subscriptions.
type afterReady struct {
	bus *messaging.NatsServer
	w   starter
}

func (a *afterReady) Start(ctx context.Context) error {
	err := a.bus.WaitReady(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("waiting for nats: %w", err)
	}
	return a.w.Start(ctx)
}
