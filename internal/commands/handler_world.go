package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/protocol"
)

func parseDirection(s string) (game.Direction, error) {
	dir, ok := game.ParseDirection(protocol.ExpandDirection(s))
	if !ok {
		return "", userErrorf("%q is not a direction.", s)
	}
	return dir, nil
}

// passable reports whether the session can see an exit: it exists and is
// either not hidden or was found by this session.
func (d *Dispatcher) passable(s *game.Session, dir game.Direction) (string, bool) {
	dest, ok := d.World.Destination(s.RoomId, dir)
	if !ok {
		return "", false
	}
	if d.World.IsHidden(s.RoomId, dir) && !s.HasDiscoveredHidden(game.ExitKey(s.RoomId, dir)) {
		return "", false
	}
	return dest, true
}

func (d *Dispatcher) move(_ context.Context, s *game.Session, m protocol.Move) error {
	dir, err := parseDirection(m.Direction)
	if err != nil {
		return err
	}

	dest, ok := d.passable(s, dir)
	if !ok {
		s.Send(protocol.MoveResult{Direction: string(dir), Reason: "You can't go that way."})
		return nil
	}
	if d.World.IsLocked(s.RoomId, dir) {
		s.DiscoverLocked(game.ExitKey(s.RoomId, dir))
		s.Send(protocol.MoveResult{Direction: string(dir), Reason: fmt.Sprintf("The way %s is locked.", dir)})
		return nil
	}

	from := s.RoomId
	s.StopResting()
	s.AttackMode = false
	s.TargetId = ""
	d.Trail.Record(from, game.TrailEntry{EntityId: s.Id(), Name: s.Name(), Direction: dir, Player: true})
	for _, inst := range d.NPCs.Fled(s.Id(), from) {
		s.Send(protocol.System{Message: fmt.Sprintf("%s gives chase!", inst.Name())})
	}
	d.relocate(s, dest, dir)

	s.Send(protocol.MoveResult{Success: true, Direction: string(dir)})
	d.arrive(s)
	return nil
}

func (d *Dispatcher) look(_ context.Context, s *game.Session, _ protocol.Look) error {
	s.Send(d.roomInfo(s))
	s.Send(d.Engine.RoomItems(s.RoomId))
	return nil
}

func (d *Dispatcher) say(_ context.Context, s *game.Session, m protocol.Say) error {
	text := strings.TrimSpace(m.Text)
	if text == "" {
		return NewUserError("Say what?")
	}
	d.Registry.BroadcastToRoom(s.RoomId, protocol.Chat{From: s.Name(), Text: text}, nil)
	return nil
}

// search rolls perception against every exit of the room that is still
// hidden. A find reveals the exit to everyone until it hides again, and the
// finder remembers it for good.
func (d *Dispatcher) search(_ context.Context, s *game.Session, _ protocol.Search) error {
	s.StopResting()
	perception := s.EffectiveStat(game.StatPerception)

	found := false
	for _, dir := range d.World.HiddenExits(s.RoomId) {
		key := game.ExitKey(s.RoomId, dir)
		if s.HasDiscoveredHidden(key) {
			continue
		}
		h, _ := d.World.HiddenExit(s.RoomId, dir)
		if !d.check(perception, h.Perception) {
			continue
		}

		found = true
		s.DiscoverHidden(key)
		d.World.RevealHiddenExit(s.RoomId, dir)
		d.Registry.BroadcastToRoom(s.RoomId, protocol.ExitChanged{
			RoomId:    s.RoomId,
			Direction: string(dir),
			Change:    string(game.ExitRevealed),
			Message:   fmt.Sprintf("%s discovers a hidden exit leading %s!", s.Name(), dir),
		}, nil)
	}

	if !found {
		s.Send(protocol.System{Message: "You search the area but find nothing unusual."})
		return nil
	}
	s.Send(d.roomInfo(s))
	return nil
}

// unlock opens a locked exit with its key when the session carries it,
// otherwise by a strength check against the lock's difficulty.
func (d *Dispatcher) unlock(_ context.Context, s *game.Session, m protocol.Unlock) error {
	dir, err := parseDirection(m.Direction)
	if err != nil {
		return err
	}
	if _, ok := d.passable(s, dir); !ok {
		return userErrorf("There is no exit %s.", dir)
	}
	if !d.World.IsLocked(s.RoomId, dir) {
		return userErrorf("The way %s is not locked.", dir)
	}

	s.StopResting()
	s.DiscoverLocked(game.ExitKey(s.RoomId, dir))

	msg := fmt.Sprintf("%s forces the lock %s open.", s.Name(), dir)
	key := d.World.LockKey(s.RoomId, dir)
	if it := s.Character.FindItem(key); key != "" && it != nil {
		msg = fmt.Sprintf("%s unlocks the way %s with %s.", s.Name(), dir, d.Engine.ItemInfo(it).Name)
	} else {
		difficulty, _ := d.World.LockDifficulty(s.RoomId, dir)
		if !d.check(s.EffectiveStat(game.StatStrength), difficulty) {
			s.Send(protocol.System{Message: "You strain against the lock but it holds."})
			return nil
		}
	}

	d.World.UnlockExit(s.RoomId, dir)
	d.Registry.BroadcastToRoom(s.RoomId, protocol.ExitChanged{
		RoomId:    s.RoomId,
		Direction: string(dir),
		Change:    string(game.ExitUnlocked),
		Message:   msg,
	}, nil)
	return nil
}

// interact uses a room feature. A feature with a check only fires when the
// roll succeeds; a failed roll leaves it ready for another try.
func (d *Dispatcher) interact(_ context.Context, s *game.Session, m protocol.Interact) error {
	ia := d.World.Interactable(s.RoomId, m.FeatureId)
	if ia == nil {
		return userErrorf("You see no %q here.", m.FeatureId)
	}
	if !d.World.InteractableReady(s.RoomId, ia.Id) {
		s.Send(protocol.System{Message: fmt.Sprintf("The %s has already been used.", ia.Label)})
		return nil
	}

	s.StopResting()
	data := FeatureData{Actor: s.Name(), Feature: ia.Label, Room: d.World.Room(s.RoomId).Name}

	if ia.Check != nil && !d.check(s.EffectiveStat(ia.Check.Stat), ia.Check.Difficulty) {
		msg, err := d.featureMessage(ia.FailureMessage, fmt.Sprintf("You fail to use the %s.", ia.Label), data)
		if err != nil {
			return err
		}
		s.Send(protocol.System{Message: msg})
		return nil
	}

	d.World.MarkInteractableUsed(s.RoomId, ia.Id)
	roomId := s.RoomId

	switch ia.Action {
	case game.ActionOpenExit:
		d.World.RevealHiddenExit(roomId, ia.Direction)
		d.World.OpenExit(roomId, ia.Direction)
		d.Registry.BroadcastToRoom(roomId, protocol.ExitChanged{
			RoomId:    roomId,
			Direction: string(ia.Direction),
			Change:    string(game.ExitUnlocked),
			Message:   fmt.Sprintf("The way %s opens.", ia.Direction),
		}, nil)
	case game.ActionDropLoot:
		items, gold := d.Engine.DropLoot(roomId, ia.LootTable)
		s.Character.Gold += gold
		data.Gold = gold
		if len(items) > 0 {
			d.Registry.BroadcastToRoom(roomId, d.Engine.RoomItems(roomId), nil)
		}
		if gold > 0 {
			s.Send(d.inventory(s))
		}
	case game.ActionSpawnMonster:
		inst, err := d.NPCs.Spawn(ia.Monster, roomId)
		if err != nil {
			return fmt.Errorf("interactable %s in %s: %w", ia.Id, roomId, err)
		}
		d.Registry.BroadcastToRoom(roomId, protocol.NPCEntered{NPC: inst.Info()}, nil)
	case game.ActionRoomEffect:
		for _, p := range d.Registry.PlayersInRoom(roomId) {
			d.Engine.ApplyEffect(p, *ia.Effect)
		}
	case game.ActionTeleport:
		d.relocate(s, ia.Destination, "")
		defer d.arrive(s)
	}

	msg, err := d.featureMessage(ia.SuccessMessage, fmt.Sprintf("You use the %s.", ia.Label), data)
	if err != nil {
		return err
	}
	s.Send(protocol.System{Message: msg})
	d.Registry.BroadcastToRoom(roomId, protocol.System{Message: fmt.Sprintf("%s uses the %s.", s.Name(), ia.Label)}, s)
	return nil
}

func (d *Dispatcher) featureMessage(tmpl, fallback string, data FeatureData) (string, error) {
	if tmpl == "" {
		return fallback, nil
	}
	msg, err := ExpandTemplate(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("feature message: %w", err)
	}
	return msg, nil
}

// rest toggles resting. Resting players recover hp each tick; fighting
// players cannot rest.
func (d *Dispatcher) rest(_ context.Context, s *game.Session, _ protocol.Rest) error {
	if s.Resting {
		s.Resting = false
		s.Send(protocol.System{Message: "You stop resting and stand up."})
		return nil
	}
	if s.AttackMode || len(d.NPCs.Targeting(s.Id())) > 0 {
		return NewUserError("You can't rest while fighting!")
	}
	s.Resting = true
	s.Send(protocol.System{Message: "You sit down and rest."})
	return nil
}
