package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/lvaneyck/holdem/cards"
	"github.com/lvaneyck/holdem/domain/events"
)

// GameStatus is one round's mutable state, owned by the Room. It is created
// at round start and replaced when the next round begins.
type GameStatus struct {
	Round         int
	Finished      bool
	CurrentBet    int // the amount every active seat must match this street
	Pot           int
	BlindTurn     int
	PlayTurn      int
	Turn          int // increments every time the turn is handed to a seat
	Board         []cards.Card
	Deck          cards.Deck // undealt remainder
	TurnStartedAt time.Time
}

// Room owns an ordered seat list (the turn order) and at most one running
// round. It persists until the creator leaves or closes it.
type Room struct {
	ID        string
	Name      string
	CreatorID string
	Started   bool
	Seats     []*Player
	Game      *GameStatus

	departed map[string]bool

	eventHandlers []events.EventHandler
}

// NewRoom creates an empty room owned by the given creator.
func NewRoom(name, creatorID string) *Room {
	return &Room{
		ID:        uuid.NewString(),
		Name:      name,
		CreatorID: creatorID,
		Seats:     []*Player{},
		departed:  make(map[string]bool),
	}
}

// RegisterEventHandler registers a callback invoked on every room event.
func (r *Room) RegisterEventHandler(handler events.EventHandler) {
	r.eventHandlers = append(r.eventHandlers, handler)
}

func (r *Room) emitEvent(event events.Event) {
	for _, handler := range r.eventHandlers {
		handler(event)
	}
}

// SeatOf returns the seat index of the given player, or -1.
func (r *Room) SeatOf(playerID string) int {
	for i, p := range r.Seats {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// IsMember reports whether the player holds a seat in this room.
func (r *Room) IsMember(playerID string) bool {
	return r.SeatOf(playerID) >= 0
}

// Seat adds a player to the end of the turn order.
func (r *Room) Seat(player *Player) error {
	if r.IsMember(player.ID) {
		return validationErrorf("player %s already seated", player.ID)
	}
	if player.RoomID != "" {
		return validationErrorf("player %s already in a room", player.ID)
	}

	r.Seats = append(r.Seats, player)
	player.RoomID = r.ID

	r.emitEvent(events.PlayerJoinedRoom{
		RoomID:   r.ID,
		PlayerID: player.ID,
		At:       time.Now(),
	})

	return nil
}

// MarkDeparted flags a seat for removal. Mid-round the seat stays in the
// turn order as a folded ghost so indices and the pot stay coherent; the
// seat is dropped by RemoveDepartedSeats before the next round.
func (r *Room) MarkDeparted(playerID string) {
	r.departed[playerID] = true
}

// Departed reports whether the player has left but still occupies a seat.
func (r *Room) Departed(playerID string) bool {
	return r.departed[playerID]
}

// RemoveDepartedSeats drops all departed seats from the turn order. It must
// only be called between rounds.
func (r *Room) RemoveDepartedSeats() {
	if len(r.departed) == 0 {
		return
	}

	kept := make([]*Player, 0, len(r.Seats))
	for _, p := range r.Seats {
		if r.departed[p.ID] {
			p.RoomID = ""
			p.Round = nil
			r.emitEvent(events.PlayerLeftRoom{
				RoomID:   r.ID,
				PlayerID: p.ID,
				At:       time.Now(),
			})
			continue
		}
		kept = append(kept, p)
	}
	r.Seats = kept
	r.departed = make(map[string]bool)
}

// RemoveSeat drops a player immediately. Only legal between rounds; while a
// round runs, use MarkDeparted instead.
func (r *Room) RemoveSeat(playerID string) error {
	idx := r.SeatOf(playerID)
	if idx < 0 {
		return validationErrorf("player %s not seated", playerID)
	}

	player := r.Seats[idx]
	r.Seats = append(r.Seats[:idx], r.Seats[idx+1:]...)
	player.RoomID = ""
	player.Round = nil
	delete(r.departed, playerID)

	r.emitEvent(events.PlayerLeftRoom{
		RoomID:   r.ID,
		PlayerID: playerID,
		At:       time.Now(),
	})

	return nil
}

// Close aborts any running round, refunds in-flight chips to balances and
// evicts every seat. Chip conservation holds: the pot equals the sum of all
// seats' committed bets at any point mid-round.
func (r *Room) Close() {
	if r.Game != nil && !r.Game.Finished {
		r.abortRound()
	}

	for _, p := range r.Seats {
		p.RoomID = ""
		p.Round = nil
		r.emitEvent(events.PlayerLeftRoom{
			RoomID:   r.ID,
			PlayerID: p.ID,
			At:       time.Now(),
		})
	}
	r.Seats = nil
	r.Game = nil
	r.departed = make(map[string]bool)

	r.emitEvent(events.RoomClosed{
		RoomID: r.ID,
		At:     time.Now(),
	})
}

// abortRound returns every seat's committed chips and empties the pot.
func (r *Room) abortRound() {
	for _, p := range r.Seats {
		if p.Round == nil {
			continue
		}
		refund := p.Round.TotalBet + p.Round.SubTotalBet
		p.Balance += refund
		r.Game.Pot -= refund
		p.Round.TotalBet = 0
		p.Round.SubTotalBet = 0
	}
	r.Game.Finished = true
}
