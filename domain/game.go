package domain

import (
	"time"

	"github.com/lvaneyck/holdem/cards"
	"github.com/lvaneyck/holdem/domain/events"
)

// Action is a betting move submitted by a player (or by the turn timer on
// the player's behalf).
type Action string

const (
	ActionCall  Action = "CALL"
	ActionRaise Action = "RAISE"
	ActionCheck Action = "CHECK"
	ActionFold  Action = "FOLD"
	ActionAllIn Action = "ALLIN"
)

// StartRound begins a new round with the given shuffled deck. Seats with no
// chips are marked BUST and receive no hole cards; a seat that cannot fully
// cover its blind posts what it has and is all-in. The blind turn advances
// to the next eligible seat past the previous round's blind.
func (r *Room) StartRound(deck cards.Deck, smallBlind int) error {
	if r.Game != nil && !r.Game.Finished {
		return validationErrorf("room %s already has a running round", r.ID)
	}

	funded := 0
	for _, p := range r.Seats {
		if p.Balance > 0 {
			funded++
		}
	}
	if funded < 2 {
		return validationErrorf("room %s needs at least 2 funded seats", r.ID)
	}

	round := 1
	prevBlind := -1
	if r.Game != nil {
		round = r.Game.Round + 1
		prevBlind = r.Game.BlindTurn % len(r.Seats)
	}

	for _, p := range r.Seats {
		status := StatusNone
		if p.Balance == 0 {
			status = StatusBust
		}
		p.Round = &PlayerStatus{Status: status}
	}

	r.Game = &GameStatus{
		Round: round,
		Deck:  deck,
	}
	r.Game.BlindTurn = r.NextEligible(prevBlind)

	// Hole cards come off the front of the deck; the board is revealed from
	// the offsets that follow, untouched by hole dealing.
	dealtTo := []string{}
	for _, p := range r.Seats {
		if p.Round.Status == StatusBust {
			continue
		}
		p.Round.HoleCards, r.Game.Deck = r.Game.Deck.Deal(2)
		dealtTo = append(dealtTo, p.ID)
	}

	r.emitEvent(events.RoundStarted{
		RoomID:    r.ID,
		Round:     round,
		BlindTurn: r.Game.BlindTurn,
		PlayerIDs: dealtTo,
		At:        time.Now(),
	})
	r.emitEvent(events.HoleCardsDealt{
		RoomID:    r.ID,
		PlayerIDs: dealtTo,
		At:        time.Now(),
	})

	// The single blind pair: small blind at the blind turn, big blind at the
	// next eligible seat. The target to match opens at the big blind.
	sbSeat := r.Game.BlindTurn
	bbSeat := r.NextEligible(sbSeat)
	r.postBlind(sbSeat, smallBlind)
	r.postBlind(bbSeat, smallBlind*2)
	r.Game.CurrentBet = smallBlind * 2

	if r.EligibleSeats() < 2 {
		// Both blinds (or everyone else) are already all-in: no betting is
		// possible this round, run it out to showdown.
		r.settleStreet()
	} else {
		r.setPlayTurn(r.NextEligible(bbSeat))
	}

	r.emitEvent(events.GameStateChanged{
		RoomID:   r.ID,
		Showdown: r.Game.Finished,
		At:       time.Now(),
	})

	return nil
}

// postBlind debits a forced bet, clamping to an all-in when the seat cannot
// cover it.
func (r *Room) postBlind(seat int, amount int) {
	p := r.Seats[seat]
	ps := p.Round

	allIn := false
	if p.Balance < amount {
		amount = p.Balance
		ps.Status = StatusAllIn
		allIn = true
	}

	p.Balance -= amount
	ps.SubTotalBet += amount
	r.Game.Pot += amount

	r.emitEvent(events.BlindPosted{
		RoomID:   r.ID,
		PlayerID: p.ID,
		Amount:   amount,
		AllIn:    allIn,
		At:       time.Now(),
	})
}

// HandleAction validates and applies one betting action. Violations return a
// ValidationError and leave the room untouched; callers treat those as
// silent no-ops.
func (r *Room) HandleAction(playerID string, action Action, amount int) error {
	g := r.Game
	if g == nil || g.Finished {
		return validationErrorf("room %s has no running round", r.ID)
	}

	seat := r.SeatOf(playerID)
	if seat < 0 {
		return validationErrorf("player %s not seated in room %s", playerID, r.ID)
	}
	if seat != g.PlayTurn {
		return validationErrorf("not player %s's turn", playerID)
	}
	if action == ActionRaise && amount <= 0 {
		return validationErrorf("raise amount must be positive")
	}

	p := r.Seats[seat]
	ps := p.Round

	switch action {
	case ActionCall:
		owed := g.CurrentBet - ps.SubTotalBet
		if p.Balance < owed {
			owed = p.Balance
			ps.Status = StatusAllIn
		} else {
			ps.Status = StatusCall
		}
		p.Balance -= owed
		ps.SubTotalBet += owed
		g.Pot += owed
		r.emitActed(p, action, owed)
		r.advanceOrSettle(seat)

	case ActionRaise:
		required := g.CurrentBet + amount - ps.SubTotalBet
		if p.Balance < required {
			return validationErrorf("player %s cannot cover raise of %d", playerID, amount)
		}
		p.Balance -= required
		g.CurrentBet += amount
		ps.SubTotalBet += required
		g.Pot += required
		ps.Status = StatusRaise
		r.emitActed(p, action, required)
		r.advanceOpen(seat)

	case ActionCheck:
		if ps.SubTotalBet != g.CurrentBet {
			return validationErrorf("player %s cannot check with %d owed", playerID, g.CurrentBet-ps.SubTotalBet)
		}
		ps.Status = StatusCheck
		r.emitActed(p, action, 0)
		if r.EligibleSeats() < 2 {
			r.settleStreet()
		} else {
			next := r.NextEligible(seat)
			if next == r.NextEligible(g.BlindTurn) {
				// The ring has come fully around with no outstanding raise.
				r.settleStreet()
			} else {
				r.setPlayTurn(next)
			}
		}

	case ActionFold:
		ps.Status = StatusFold
		r.emitActed(p, action, 0)
		r.advanceOrSettle(seat)

	case ActionAllIn:
		all := p.Balance
		p.Balance = 0
		ps.SubTotalBet += all
		g.Pot += all
		if ps.SubTotalBet > g.CurrentBet {
			g.CurrentBet = ps.SubTotalBet
		}
		ps.Status = StatusAllIn
		r.emitActed(p, action, all)
		r.advanceOpen(seat)

	default:
		return validationErrorf("unknown action %q", action)
	}

	r.emitEvent(events.GameStateChanged{
		RoomID:   r.ID,
		Showdown: g.Finished,
		At:       time.Now(),
	})

	return nil
}

// HandleTimeout applies the deadline auto-action for the given turn. A
// timer firing against superseded state (different round, finished round, a
// later turn of the same seat) is rejected with a ValidationError and
// discarded. The turn counter matters because the seat number alone cannot
// tell one of a seat's turns from its next one: play can wrap back to the
// same seat on a later street while the old deadline is still in flight.
func (r *Room) HandleTimeout(round, turn, seat int) error {
	g := r.Game
	if g == nil || g.Finished || g.Round != round || g.Turn != turn || g.PlayTurn != seat {
		return validationErrorf("stale timeout for round %d turn %d seat %d", round, turn, seat)
	}

	p := r.Seats[seat]
	auto := ActionFold
	if p.Round.SubTotalBet == g.CurrentBet {
		auto = ActionCheck
	}

	r.emitEvent(events.PlayerTimedOut{
		RoomID:     r.ID,
		PlayerID:   p.ID,
		AutoAction: string(auto),
		At:         time.Now(),
	})

	return r.HandleAction(p.ID, auto, 0)
}

// Resign folds a seat out of turn, used when a player leaves or disconnects
// mid-round. The seat stays in the rotation as a folded ghost until the
// round ends.
func (r *Room) Resign(playerID string) {
	r.MarkDeparted(playerID)

	g := r.Game
	seat := r.SeatOf(playerID)
	if g == nil || g.Finished || seat < 0 {
		return
	}

	ps := r.Seats[seat].Round
	if ps == nil || ps.Status == StatusFold || ps.Status == StatusBust {
		return
	}

	if seat == g.PlayTurn {
		// Same path as a submitted fold, so turn advance and street
		// settlement stay consistent.
		_ = r.HandleAction(playerID, ActionFold, 0)
		return
	}

	ps.Status = StatusFold
	r.emitActed(r.Seats[seat], ActionFold, 0)

	if r.ShowdownSeats() == 1 || r.EligibleSeats() < 2 {
		r.settleStreet()
	}

	r.emitEvent(events.GameStateChanged{
		RoomID:   r.ID,
		Showdown: g.Finished,
		At:       time.Now(),
	})
}

func (r *Room) emitActed(p *Player, action Action, amount int) {
	r.emitEvent(events.PlayerActed{
		RoomID:     r.ID,
		PlayerID:   p.ID,
		Action:     string(action),
		Amount:     amount,
		Pot:        r.Game.Pot,
		CurrentBet: r.Game.CurrentBet,
		At:         time.Now(),
	})
}

// advanceOrSettle moves the turn after a call or fold: betting closes when
// fewer than two bettable seats remain, and the street settles when the next
// seat has already matched the current bet.
func (r *Room) advanceOrSettle(from int) {
	if r.EligibleSeats() < 2 {
		r.settleStreet()
		return
	}

	next := r.NextEligible(from)
	if r.Seats[next].Round.SubTotalBet == r.Game.CurrentBet {
		r.settleStreet()
		return
	}
	r.setPlayTurn(next)
}

// advanceOpen moves the turn after a raise or all-in; the street stays open
// unless no one is left to respond.
func (r *Room) advanceOpen(from int) {
	if r.EligibleSeats() < 2 {
		r.settleStreet()
		return
	}
	r.setPlayTurn(r.NextEligible(from))
}

func (r *Room) setPlayTurn(seat int) {
	g := r.Game
	g.PlayTurn = seat
	g.Turn++
	g.TurnStartedAt = time.Now()

	r.emitEvent(events.TurnStarted{
		RoomID:   r.ID,
		Turn:     g.Turn,
		Seat:     seat,
		PlayerID: r.Seats[seat].ID,
		At:       g.TurnStartedAt,
	})
}

// settleStreet closes the current street and reveals what comes next. When
// fewer than two bettable seats remain it runs every remaining street to
// showdown with no further betting.
func (r *Room) settleStreet() {
	for {
		if r.dealStreet() {
			return
		}
		if r.EligibleSeats() >= 2 {
			r.setPlayTurn(r.Game.PlayTurn)
			return
		}
	}
}

// dealStreet folds every seat's street bet into its round total, resets the
// street, and either reveals community cards or, with a full board, settles
// the pot. Returns whether showdown was reached.
func (r *Room) dealStreet() bool {
	g := r.Game

	for _, p := range r.Seats {
		ps := p.Round
		if ps == nil {
			// Joined mid-round, not part of this hand.
			continue
		}
		ps.TotalBet += ps.SubTotalBet
		ps.SubTotalBet = 0
		switch ps.Status {
		case StatusCall, StatusRaise, StatusCheck:
			ps.Status = StatusNone
		}
	}
	g.CurrentBet = 0
	g.PlayTurn = r.NextEligible(g.BlindTurn)

	if len(g.Board) == 5 {
		r.settlePot()
		return true
	}

	reveal := 1
	if len(g.Board) == 0 {
		reveal = 3
	}
	var dealt []cards.Card
	dealt, g.Deck = g.Deck.Deal(reveal)
	g.Board = append(g.Board, dealt...)

	r.emitEvent(events.StreetDealt{
		RoomID: r.ID,
		Board:  append([]cards.Card{}, g.Board...),
		At:     time.Now(),
	})

	return false
}
