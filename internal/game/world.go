package game

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
)

type exitRef struct {
	room string
	dir  Direction
}

func compareExitRefs(a, b exitRef) int {
	if c := cmp.Compare(a.room, b.room); c != 0 {
		return c
	}
	return cmp.Compare(a.dir, b.dir)
}

type featureRef struct {
	room    string
	feature string
}

// ItemInstance is one concrete item lying in a room or carried by a player.
type ItemInstance struct {
	InstanceId string `json:"instance_id"`
	ItemId     string `json:"item_id"`
}

// NewItemInstance creates an item instance with a fresh id.
func NewItemInstance(itemId string) *ItemInstance {
	return &ItemInstance{InstanceId: uuid.New().String(), ItemId: itemId}
}

// World is the room graph plus every piece of runtime state attached to it:
// which exits are locked or hidden right now, the countdowns that will undo
// a player's unlock or reveal, interactable cooldowns and items on the floor.
// It is not safe for concurrent use; callers hold the StateLock.
type World struct {
	rooms map[string]*Room

	locked map[exitRef]int // current difficulty of each locked exit
	hidden map[exitRef]bool

	lockTimers map[exitRef]int
	hideTimers map[exitRef]int

	usedFeatures  map[featureRef]bool
	featureTimers map[featureRef]int

	items map[string][]*ItemInstance
}

// NewWorld builds a World from room definitions keyed by id. Every exit must
// lead to a room in the set.
func NewWorld(rooms map[string]*Room) (*World, error) {
	el := errors.NewErrorList()
	for id, r := range rooms {
		for _, dir := range sortedDirections(r.Exits) {
			if _, ok := rooms[r.Exits[dir]]; !ok {
				el.Add(fmt.Errorf("room %q: exit %s leads to unknown room %q", id, dir, r.Exits[dir]))
			}
		}
		for _, ia := range r.Interactables {
			if ia.Action == ActionTeleport {
				if _, ok := rooms[ia.Destination]; !ok {
					el.Add(fmt.Errorf("room %q: interactable %q teleports to unknown room %q", id, ia.Id, ia.Destination))
				}
			}
		}
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	w := &World{
		rooms:         make(map[string]*Room, len(rooms)),
		locked:        make(map[exitRef]int),
		hidden:        make(map[exitRef]bool),
		lockTimers:    make(map[exitRef]int),
		hideTimers:    make(map[exitRef]int),
		usedFeatures:  make(map[featureRef]bool),
		featureTimers: make(map[featureRef]int),
		items:         make(map[string][]*ItemInstance),
	}

	for id, r := range rooms {
		r.id = id
		w.rooms[id] = r

		for dir := range r.Exits {
			ref := exitRef{room: id, dir: dir}
			if d := r.lockDifficulty(dir); d > 0 {
				w.locked[ref] = d
			}
			if _, ok := r.Hidden[dir]; ok {
				w.hidden[ref] = true
			}
		}
		for _, itemId := range r.Items {
			w.items[id] = append(w.items[id], NewItemInstance(itemId))
		}
	}

	return w, nil
}

// lockDifficulty is the authored difficulty of an exit: an explicit lock
// wins over the hidden exit's lock.
func (r *Room) lockDifficulty(dir Direction) int {
	if l, ok := r.Locks[dir]; ok {
		return l.Difficulty
	}
	if h, ok := r.Hidden[dir]; ok {
		return h.LockDifficulty
	}
	return 0
}

func (r *Room) lockResetTicks(dir Direction) int {
	if l, ok := r.Locks[dir]; ok && l.ResetTicks > 0 {
		return l.ResetTicks
	}
	if h, ok := r.Hidden[dir]; ok {
		return h.LockResetTicks
	}
	return 0
}

// Room returns the room with the given id, or nil.
func (w *World) Room(id string) *Room {
	return w.rooms[id]
}

// RoomIds returns every room id in sorted order.
func (w *World) RoomIds() []string {
	ids := make([]string, 0, len(w.rooms))
	for id := range w.rooms {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// RoomsNear returns the rooms reachable from center in at most radius hops,
// center first, each room once. Exits are followed regardless of lock,
// hidden state or zone.
func (w *World) RoomsNear(center string, radius int) []*Room {
	start, ok := w.rooms[center]
	if !ok || radius < 0 {
		return nil
	}

	visited := map[string]bool{center: true}
	result := []*Room{start}
	frontier := []string{center}

	for depth := 0; depth < radius && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			r := w.rooms[id]
			for _, dir := range sortedDirections(r.Exits) {
				dest := r.Exits[dir]
				if visited[dest] {
					continue
				}
				visited[dest] = true
				result = append(result, w.rooms[dest])
				next = append(next, dest)
			}
		}
		frontier = next
	}

	return result
}

// Destination returns where an exit leads.
func (w *World) Destination(roomId string, dir Direction) (string, bool) {
	r, ok := w.rooms[roomId]
	if !ok {
		return "", false
	}
	dest, ok := r.Exits[dir]
	return dest, ok
}

// VisibleExits returns the exits of a room that are not hidden, plus hidden
// ones for which discovered reports true. Sorted.
func (w *World) VisibleExits(roomId string, discovered func(key string) bool) []Direction {
	r, ok := w.rooms[roomId]
	if !ok {
		return nil
	}
	var dirs []Direction
	for _, dir := range sortedDirections(r.Exits) {
		if w.hidden[exitRef{room: roomId, dir: dir}] && (discovered == nil || !discovered(exitKey(roomId, dir))) {
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

// RoomItems returns the items lying in a room.
func (w *World) RoomItems(roomId string) []*ItemInstance {
	return w.items[roomId]
}

// AddItem places an item in a room. Unknown rooms are ignored.
func (w *World) AddItem(roomId string, item *ItemInstance) {
	if _, ok := w.rooms[roomId]; !ok || item == nil {
		return
	}
	w.items[roomId] = append(w.items[roomId], item)
}

// TakeItem removes an item from a room by instance id or item id.
func (w *World) TakeItem(roomId, id string) *ItemInstance {
	items := w.items[roomId]
	for i, it := range items {
		if it.InstanceId == id || it.ItemId == id {
			w.items[roomId] = slices.Delete(items, i, i+1)
			return it
		}
	}
	return nil
}

func sortedDirections[V any](m map[Direction]V) []Direction {
	dirs := make([]Direction, 0, len(m))
	for d := range m {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return dirs
}
