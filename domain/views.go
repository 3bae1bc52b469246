package domain

import (
	"time"

	"github.com/lvaneyck/holdem/cards"
)

// Audience-specific projections of room state. Redaction is not ad hoc field
// omission: a full snapshot is taken once and an explicit projection per
// audience strips what that audience must not see. Projections are
// idempotent, so applying one to an already-projected view changes nothing.

// SeatView is one seat as an audience sees it.
type SeatView struct {
	PlayerID    string       `json:"playerId"`
	Name        string       `json:"name"`
	Balance     int          `json:"balance"`
	Status      Status       `json:"status"`
	TotalBet    int          `json:"totalBet"`
	SubTotalBet int          `json:"subTotalBet"`
	WinAmount   int          `json:"winAmount"`
	HoleCards   []cards.Card `json:"holeCards,omitempty"`
	HandLabel   string       `json:"handLabel,omitempty"`
}

// GameView is the shared round state visible to every participant.
type GameView struct {
	Round         int          `json:"round"`
	Finished      bool         `json:"finished"`
	CurrentBet    int          `json:"currentBet"`
	Pot           int          `json:"pot"`
	BlindTurn     int          `json:"blindTurn"`
	PlayTurn      int          `json:"playTurn"`
	Board         []cards.Card `json:"board"`
	TurnStartedAt time.Time    `json:"turnStartedAt"`
}

// RoomView is a room as an audience sees it.
type RoomView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatorID string     `json:"creatorId"`
	Started   bool       `json:"started"`
	Occupancy int        `json:"occupancy"`
	Seats     []SeatView `json:"seats,omitempty"`
	Game      *GameView  `json:"game,omitempty"`
}

// Snapshot builds the full, unprojected view of the room, hole cards
// included. It must only be shown to an audience after projection.
func (r *Room) Snapshot() RoomView {
	view := RoomView{
		ID:        r.ID,
		Name:      r.Name,
		CreatorID: r.CreatorID,
		Started:   r.Started,
		Occupancy: len(r.Seats),
	}

	for _, p := range r.Seats {
		sv := SeatView{
			PlayerID: p.ID,
			Name:     p.Name,
			Balance:  p.Balance,
			Status:   StatusNone,
		}
		if ps := p.Round; ps != nil {
			sv.Status = ps.Status
			sv.TotalBet = ps.TotalBet
			sv.SubTotalBet = ps.SubTotalBet
			sv.WinAmount = ps.WinAmount
			sv.HoleCards = append([]cards.Card{}, ps.HoleCards...)
			if ps.Hand != nil {
				sv.HandLabel = ps.Hand.Label
			}
		}
		view.Seats = append(view.Seats, sv)
	}

	if g := r.Game; g != nil {
		view.Game = &GameView{
			Round:         g.Round,
			Finished:      g.Finished,
			CurrentBet:    g.CurrentBet,
			Pot:           g.Pot,
			BlindTurn:     g.BlindTurn,
			PlayTurn:      g.PlayTurn,
			Board:         append([]cards.Card{}, g.Board...),
			TurnStartedAt: g.TurnStartedAt,
		}
	}

	return view
}

// ProjectForParticipant strips everything the given viewer must not see:
// every other seat's hole cards, except that a finished round reveals the
// hands of seats still in the showdown.
func ProjectForParticipant(view RoomView, viewerID string) RoomView {
	out := view
	out.Seats = make([]SeatView, len(view.Seats))
	copy(out.Seats, view.Seats)

	finished := view.Game != nil && view.Game.Finished

	for i := range out.Seats {
		sv := &out.Seats[i]
		if sv.PlayerID == viewerID {
			continue
		}
		if finished && sv.Status.InShowdown() {
			continue
		}
		sv.HoleCards = nil
		sv.HandLabel = ""
	}

	return out
}

// ProjectForSpectator reduces the room to what non-participants may see:
// name, creator and occupancy. Never the seat list or game state.
func ProjectForSpectator(view RoomView) RoomView {
	return RoomView{
		ID:        view.ID,
		Name:      view.Name,
		CreatorID: view.CreatorID,
		Started:   view.Started,
		Occupancy: view.Occupancy,
	}
}
