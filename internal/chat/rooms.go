package chat

import (
	"sort"
	"sync"
)

// Room is a named broadcast bus. Membership is whoever currently holds a
// subscription on it.
type Room struct {
	Name string
	bus  *Bus
}

func (r *Room) Members() int {
	return r.bus.ReceiverCount()
}

type RoomInfo struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// Rooms maps room names to rooms. Rooms are created on first join and are
// kept for the life of the process, even when empty.
type Rooms struct {
	capacity int

	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRooms(capacity int) *Rooms {
	if capacity <= 0 {
		capacity = defaultBusCapacity
	}
	return &Rooms{
		capacity: capacity,
		rooms:    make(map[string]*Room),
	}
}

// Join subscribes to the named room, creating it if needed.
func (r *Rooms) Join(name string) *Subscription {
	return r.get(name).bus.Subscribe()
}

func (r *Rooms) get(name string) *Room {
	r.mu.RLock()
	room, ok := r.rooms[name]
	r.mu.RUnlock()
	if ok {
		return room
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another session may have created it between the two locks.
	if room, ok = r.rooms[name]; ok {
		return room
	}
	room = &Room{Name: name, bus: NewBus(r.capacity)}
	r.rooms[name] = room
	RoomsTotal.Set(float64(len(r.rooms)))
	return room
}

// List snapshots every room, most members first, ties by name.
func (r *Rooms) List() []RoomInfo {
	r.mu.RLock()
	list := make([]RoomInfo, 0, len(r.rooms))
	for name, room := range r.rooms {
		list = append(list, RoomInfo{Name: name, Members: room.Members()})
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Members != list[j].Members {
			return list[i].Members > list[j].Members
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func (r *Rooms) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
