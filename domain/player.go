package domain

import (
	"github.com/lvaneyck/holdem/cards"
	"github.com/lvaneyck/holdem/domain/hands"
)

// Status is a seat's per-round betting state.
type Status string

const (
	StatusNone  Status = "NONE"
	StatusCall  Status = "CALL"
	StatusRaise Status = "RAISE"
	StatusCheck Status = "CHECK"
	StatusFold  Status = "FOLD"
	StatusAllIn Status = "ALLIN"
	StatusBust  Status = "BUST"
)

// Eligible reports whether a seat with this status may still act in the
// current street. Folded, busted and all-in seats are out of the rotation.
func (s Status) Eligible() bool {
	return s != StatusFold && s != StatusBust && s != StatusAllIn
}

// InShowdown reports whether a seat with this status competes for the pot.
// All-in seats do; folded and busted seats contribute chips but cannot win.
func (s Status) InShowdown() bool {
	return s != StatusFold && s != StatusBust
}

// PlayerStatus holds a seat's state for one round. A fresh one is created at
// every round start and discarded when the next round begins.
type PlayerStatus struct {
	Status      Status
	TotalBet    int // chips committed in prior completed streets
	SubTotalBet int // chips committed in the current street
	HoleCards   []cards.Card
	WinAmount   int
	Hand        *hands.Descriptor
}

// Player is a persistent identity that outlives rounds. Balance is the
// player's chip count outside the pot; Round is the per-round state while a
// round is running.
type Player struct {
	ID      string
	Name    string
	Balance int
	RoomID  string
	Round   *PlayerStatus
}

// NewPlayer creates a player with the given starting balance.
func NewPlayer(id, name string, balance int) *Player {
	return &Player{
		ID:      id,
		Name:    name,
		Balance: balance,
	}
}
