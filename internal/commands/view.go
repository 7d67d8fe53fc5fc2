package commands

import (
	"github.com/pixil98/mudcore/internal/game"
	"github.com/pixil98/mudcore/internal/protocol"
)

// roomInfo describes the session's room as that session sees it: hidden
// exits it has not found and hidden players are left out.
func (d *Dispatcher) roomInfo(s *game.Session) protocol.RoomInfo {
	r := d.World.Room(s.RoomId)
	if r == nil {
		return protocol.RoomInfo{RoomId: s.RoomId, Exits: []string{}}
	}

	info := protocol.RoomInfo{
		RoomId:      s.RoomId,
		Name:        r.Name,
		Description: r.Description,
		Exits:       []string{},
	}
	for _, dir := range d.World.VisibleExits(s.RoomId, s.HasDiscoveredHidden) {
		info.Exits = append(info.Exits, string(dir))
	}
	for _, p := range d.Registry.VisiblePlayersInRoom(s.RoomId) {
		if p != s {
			info.Players = append(info.Players, p.Name())
		}
	}
	for _, inst := range d.NPCs.InRoom(s.RoomId) {
		info.NPCs = append(info.NPCs, inst.Info())
	}
	for _, ia := range r.Interactables {
		info.Features = append(info.Features, protocol.FeatureInfo{Id: ia.Id, Label: ia.Label})
	}
	return info
}

// mapData lists the rooms near the session. Exits are shown whatever their
// lock state, but undiscovered hidden ones are left out.
func (d *Dispatcher) mapData(s *game.Session) protocol.MapData {
	msg := protocol.MapData{Center: s.RoomId, Rooms: []protocol.MapRoom{}}
	for _, r := range d.World.RoomsNear(s.RoomId, d.mapRadius) {
		mr := protocol.MapRoom{RoomId: r.Id(), Name: r.Name, Zone: r.Zone, Exits: map[string]string{}}
		for _, dir := range d.World.VisibleExits(r.Id(), s.HasDiscoveredHidden) {
			dest, _ := d.World.Destination(r.Id(), dir)
			mr.Exits[string(dir)] = dest
		}
		msg.Rooms = append(msg.Rooms, mr)
	}
	return msg
}

func (d *Dispatcher) inventory(s *game.Session) protocol.Inventory {
	msg := protocol.Inventory{Items: []protocol.ItemInfo{}, Equipment: map[string]protocol.ItemInfo{}}
	if s.Character == nil {
		return msg
	}
	for _, it := range s.Character.Inventory {
		msg.Items = append(msg.Items, d.Engine.ItemInfo(it))
	}
	for slot, it := range s.Character.Equipment {
		msg.Equipment[slot] = d.Engine.ItemInfo(it)
	}
	msg.Gold = s.Character.Gold
	return msg
}

func (d *Dispatcher) catalogSync() protocol.CatalogSync {
	msg := protocol.CatalogSync{Skills: []protocol.CatalogEntry{}, Spells: []protocol.CatalogEntry{}}
	for _, sk := range d.Catalog.Skills() {
		msg.Skills = append(msg.Skills, protocol.CatalogEntry{Id: sk.Id, Name: sk.Name})
	}
	for _, sp := range d.Catalog.Spells() {
		msg.Spells = append(msg.Spells, protocol.CatalogEntry{Id: sp.Id, Name: sp.Name})
	}
	return msg
}

// arrive tells a session everything about the room it is now in.
func (d *Dispatcher) arrive(s *game.Session) {
	s.Send(d.roomInfo(s))
	s.Send(d.mapData(s))
	s.Send(d.Engine.RoomItems(s.RoomId))
}

// relocate moves a session to another room, announcing the move to both
// rooms unless the session is hidden. dir may be empty.
func (d *Dispatcher) relocate(s *game.Session, dest string, dir game.Direction) {
	from := s.RoomId
	if !s.Hidden {
		d.Registry.BroadcastToRoom(from, protocol.PlayerLeft{Name: s.Name(), Direction: string(dir)}, s)
	}
	s.RoomId = dest
	if !s.Hidden {
		d.Registry.BroadcastToRoom(dest, protocol.PlayerEntered{Name: s.Name(), From: from}, s)
	}
}
