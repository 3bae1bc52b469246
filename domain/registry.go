package domain

import (
	"sort"
	"sync"
	"time"

	"github.com/lvaneyck/holdem/domain/events"
)

// Registry owns the session-facing state: which players exist and which
// rooms they can see. Each room owns its seat list, so nothing here relies
// on index alignment between collections. Rooms forward their events through
// the registry to its handlers.
type Registry struct {
	mu              sync.RWMutex
	rooms           map[string]*Room
	players         map[string]*Player
	startingBalance int

	handlerMu     sync.RWMutex
	eventHandlers []events.EventHandler
}

// NewRegistry creates an empty registry. New players start with the given
// balance.
func NewRegistry(startingBalance int) *Registry {
	return &Registry{
		rooms:           make(map[string]*Room),
		players:         make(map[string]*Player),
		startingBalance: startingBalance,
	}
}

// RegisterEventHandler registers a callback for lobby and room events.
func (reg *Registry) RegisterEventHandler(handler events.EventHandler) {
	reg.handlerMu.Lock()
	defer reg.handlerMu.Unlock()
	reg.eventHandlers = append(reg.eventHandlers, handler)
}

func (reg *Registry) emitEvent(event events.Event) {
	reg.handlerMu.RLock()
	handlers := reg.eventHandlers
	reg.handlerMu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Join creates a new player session under the given id. The caller picks
// the id so it can bind the id to its transport before the joined event
// fires.
func (reg *Registry) Join(id, name string) (*Player, error) {
	reg.mu.RLock()
	_, taken := reg.players[id]
	reg.mu.RUnlock()
	if taken {
		return nil, validationErrorf("player %s already joined", id)
	}

	player := NewPlayer(id, name, reg.startingBalance)

	reg.mu.Lock()
	reg.players[player.ID] = player
	reg.mu.Unlock()

	reg.emitEvent(events.PlayerJoinedLobby{
		PlayerID:   player.ID,
		PlayerName: player.Name,
		At:         time.Now(),
	})

	return player, nil
}

// Forget drops a player after their room membership has been resolved.
func (reg *Registry) Forget(playerID string) {
	reg.mu.Lock()
	_, existed := reg.players[playerID]
	delete(reg.players, playerID)
	reg.mu.Unlock()

	if existed {
		reg.emitEvent(events.PlayerLeftLobby{
			PlayerID: playerID,
			At:       time.Now(),
		})
	}
}

// Player looks up a player by id.
func (reg *Registry) Player(playerID string) (*Player, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	player, ok := reg.players[playerID]
	if !ok {
		return nil, validationErrorf("unknown player %s", playerID)
	}
	return player, nil
}

// CreateRoom creates a room owned by the given player and forwards its
// events to the registry's handlers.
func (reg *Registry) CreateRoom(name, creatorID string) (*Room, error) {
	if _, err := reg.Player(creatorID); err != nil {
		return nil, err
	}

	room := NewRoom(name, creatorID)
	room.RegisterEventHandler(reg.emitEvent)

	reg.mu.Lock()
	reg.rooms[room.ID] = room
	reg.mu.Unlock()

	reg.emitEvent(events.RoomCreated{
		RoomID:    room.ID,
		RoomName:  room.Name,
		CreatorID: creatorID,
		At:        time.Now(),
	})

	return room, nil
}

// Room looks up a room by id.
func (reg *Registry) Room(roomID string) (*Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, ok := reg.rooms[roomID]
	if !ok {
		return nil, validationErrorf("unknown room %s", roomID)
	}
	return room, nil
}

// RemoveRoom drops a closed room from the listing.
func (reg *Registry) RemoveRoom(roomID string) {
	reg.mu.Lock()
	delete(reg.rooms, roomID)
	reg.mu.Unlock()
}

// Rooms returns all rooms sorted by name.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	reg.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms
}
