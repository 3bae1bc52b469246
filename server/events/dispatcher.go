package events

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/sanity-io/litter"

	"github.com/lvaneyck/holdem/domain"
	"github.com/lvaneyck/holdem/domain/events"
	"github.com/lvaneyck/holdem/server/connection"
)

// EventEnvelope wraps an event with its name for client consumption.
type EventEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Envelope marshals any payload under the given name.
func Envelope(name string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventEnvelope{Name: name, Payload: raw})
}

// Dispatcher routes domain events to connected clients. Room events arrive
// on that room's controller goroutine, so reading the room while handling
// one is safe; per-recipient projections are built here so no client ever
// sees another player's hole cards.
type Dispatcher struct {
	connMgr  *connection.Manager
	registry *domain.Registry
	logger   *log.Logger
	debug    bool
}

// NewDispatcher creates a new event dispatcher.
func NewDispatcher(connMgr *connection.Manager, registry *domain.Registry, logger *log.Logger, debug bool) *Dispatcher {
	return &Dispatcher{
		connMgr:  connMgr,
		registry: registry,
		logger:   logger.WithPrefix("dispatch"),
		debug:    debug,
	}
}

// HandleEvent processes domain events and sends them to clients.
func (d *Dispatcher) HandleEvent(event events.Event) {
	if d.debug {
		d.logger.Debug("event", "name", event.Name(), "dump", litter.Sdump(event))
	}

	envelopeData, err := Envelope(event.Name(), event)
	if err != nil {
		d.logger.Error("marshaling event", "name", event.Name(), "err", err)
		return
	}

	switch e := event.(type) {
	case events.PlayerJoinedLobby:
		d.connMgr.SendToPlayer(e.PlayerID, envelopeData)

	case events.PlayerLeftLobby:
		d.connMgr.SendToPlayer(e.PlayerID, envelopeData)

	case events.RoomCreated:
		d.connMgr.Broadcast(envelopeData)

	case events.RoomClosed:
		d.connMgr.Broadcast(envelopeData)

	case events.PlayerJoinedRoom:
		d.sendToMembers(e.RoomID, envelopeData)
		d.sendRoomState(e.RoomID)

	case events.PlayerLeftRoom:
		// The departing player gets the envelope too, as their goodbye.
		d.connMgr.SendToPlayer(e.PlayerID, envelopeData)
		d.sendToMembers(e.RoomID, envelopeData)
		d.sendRoomState(e.RoomID)

	case events.GameStateChanged:
		d.sendRoomState(e.RoomID)

	case events.RoundStarted:
		d.sendToMembers(e.RoomID, envelopeData)

	case events.BlindPosted:
		d.sendToMembers(e.RoomID, envelopeData)

	case events.HoleCardsDealt:
		// Carries player IDs only; the cards themselves travel inside each
		// member's projected room state.
		d.sendToMembers(e.RoomID, envelopeData)

	case events.PlayerActed:
		d.sendToMembers(e.RoomID, envelopeData)

	case events.TurnStarted:
		d.sendToMembers(e.RoomID, envelopeData)

	case events.PlayerTimedOut:
		d.sendToMembers(e.RoomID, envelopeData)

	case events.StreetDealt:
		d.sendToMembers(e.RoomID, envelopeData)

	case events.PotAwarded:
		d.sendToMembers(e.RoomID, envelopeData)

	case events.RoundEnded:
		d.sendToMembers(e.RoomID, envelopeData)

	default:
		d.logger.Warn("unrouted event", "name", event.Name())
	}
}

func (d *Dispatcher) sendToMembers(roomID string, message []byte) {
	room, err := d.registry.Room(roomID)
	if err != nil {
		return
	}
	for _, p := range room.Seats {
		d.connMgr.SendToPlayer(p.ID, message)
	}
}

// sendRoomState pushes a freshly projected view to every member. Each member
// gets their own projection: own hole cards visible, everyone else's hidden
// until showdown.
func (d *Dispatcher) sendRoomState(roomID string) {
	room, err := d.registry.Room(roomID)
	if err != nil {
		return
	}

	snapshot := room.Snapshot()
	for _, p := range room.Seats {
		view := domain.ProjectForParticipant(snapshot, p.ID)
		data, err := Envelope("ROOM_STATE", view)
		if err != nil {
			d.logger.Error("marshaling room state", "room", roomID, "err", err)
			return
		}
		d.connMgr.SendToPlayer(p.ID, data)
	}
}
