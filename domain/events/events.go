package events

import (
	"time"

	"github.com/lvaneyck/holdem/cards"
)

type EventHandler func(event Event)

// Event is the interface all domain events implement.
type Event interface {
	Name() string
}

// Lobby events

type PlayerJoinedLobby struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	At         time.Time `json:"at"`
}

func (e PlayerJoinedLobby) Name() string { return "PLAYER_JOINED_LOBBY" }

type PlayerLeftLobby struct {
	PlayerID string    `json:"playerId"`
	At       time.Time `json:"at"`
}

func (e PlayerLeftLobby) Name() string { return "PLAYER_LEFT_LOBBY" }

// Room membership events

type RoomCreated struct {
	RoomID    string    `json:"roomId"`
	RoomName  string    `json:"roomName"`
	CreatorID string    `json:"creatorId"`
	At        time.Time `json:"at"`
}

func (e RoomCreated) Name() string { return "ROOM_CREATED" }

type PlayerJoinedRoom struct {
	RoomID   string    `json:"roomId"`
	PlayerID string    `json:"playerId"`
	At       time.Time `json:"at"`
}

func (e PlayerJoinedRoom) Name() string { return "PLAYER_JOINED_ROOM" }

type PlayerLeftRoom struct {
	RoomID   string    `json:"roomId"`
	PlayerID string    `json:"playerId"`
	At       time.Time `json:"at"`
}

func (e PlayerLeftRoom) Name() string { return "PLAYER_LEFT_ROOM" }

type RoomClosed struct {
	RoomID string    `json:"roomId"`
	At     time.Time `json:"at"`
}

func (e RoomClosed) Name() string { return "ROOM_CLOSED" }

// Round lifecycle events

type RoundStarted struct {
	RoomID    string    `json:"roomId"`
	Round     int       `json:"round"`
	BlindTurn int       `json:"blindTurn"`
	PlayerIDs []string  `json:"playerIds"`
	At        time.Time `json:"at"`
}

func (e RoundStarted) Name() string { return "ROUND_STARTED" }

type BlindPosted struct {
	RoomID   string    `json:"roomId"`
	PlayerID string    `json:"playerId"`
	Amount   int       `json:"amount"`
	AllIn    bool      `json:"allIn"`
	At       time.Time `json:"at"`
}

func (e BlindPosted) Name() string { return "BLIND_POSTED" }

type HoleCardsDealt struct {
	RoomID    string    `json:"roomId"`
	PlayerIDs []string  `json:"playerIds"`
	At        time.Time `json:"at"`
}

func (e HoleCardsDealt) Name() string { return "HOLE_CARDS_DEALT" }

// Betting events

type PlayerActed struct {
	RoomID     string    `json:"roomId"`
	PlayerID   string    `json:"playerId"`
	Action     string    `json:"action"`
	Amount     int       `json:"amount"`
	Pot        int       `json:"pot"`
	CurrentBet int       `json:"currentBet"`
	At         time.Time `json:"at"`
}

func (e PlayerActed) Name() string { return "PLAYER_ACTED" }

type TurnStarted struct {
	RoomID   string    `json:"roomId"`
	Turn     int       `json:"turn"`
	Seat     int       `json:"seat"`
	PlayerID string    `json:"playerId"`
	At       time.Time `json:"at"`
}

func (e TurnStarted) Name() string { return "TURN_STARTED" }

type PlayerTimedOut struct {
	RoomID     string    `json:"roomId"`
	PlayerID   string    `json:"playerId"`
	AutoAction string    `json:"autoAction"`
	At         time.Time `json:"at"`
}

func (e PlayerTimedOut) Name() string { return "PLAYER_TIMED_OUT" }

// Street and showdown events

type StreetDealt struct {
	RoomID string       `json:"roomId"`
	Board  []cards.Card `json:"board"`
	At     time.Time    `json:"at"`
}

func (e StreetDealt) Name() string { return "STREET_DEALT" }

type PotAwarded struct {
	RoomID    string    `json:"roomId"`
	PlayerID  string    `json:"playerId"`
	Amount    int       `json:"amount"`
	HandLabel string    `json:"handLabel"`
	At        time.Time `json:"at"`
}

func (e PotAwarded) Name() string { return "POT_AWARDED" }

type RoundEnded struct {
	RoomID  string    `json:"roomId"`
	Round   int       `json:"round"`
	Winners []string  `json:"winners"`
	At      time.Time `json:"at"`
}

func (e RoundEnded) Name() string { return "ROUND_ENDED" }

// GameStateChanged marks that a room's game state advanced and member views
// should be rebuilt and broadcast. It carries no payload on purpose: the
// dispatcher projects a fresh redacted view per recipient.
type GameStateChanged struct {
	RoomID   string    `json:"roomId"`
	Showdown bool      `json:"showdown"`
	At       time.Time `json:"at"`
}

func (e GameStateChanged) Name() string { return "GAME_STATE_CHANGED" }
