package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvaneyck/holdem/cards"
	"github.com/lvaneyck/holdem/domain/events"
)

func testCard(rank int, suit cards.Suit) cards.Card {
	return cards.Card(int(suit)*13 + rank - 2)
}

// newTestRoom seats one player per balance, ids p0, p1, ... with p0 as the
// creator.
func newTestRoom(t *testing.T, balances ...int) *Room {
	t.Helper()

	room := NewRoom("Test Room", "p0")
	for i, balance := range balances {
		p := NewPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), balance)
		require.NoError(t, room.Seat(p))
	}
	return room
}

// stackedDeck builds a deck that deals the given hole pairs in seat order
// and then the given board, padding with the unused cards.
func stackedDeck(holes [][]cards.Card, board []cards.Card) cards.Deck {
	deck := make(cards.Deck, 0, 52)
	used := make(map[cards.Card]bool)

	for _, hole := range holes {
		for _, c := range hole {
			deck = append(deck, c)
			used[c] = true
		}
	}
	for _, c := range board {
		deck = append(deck, c)
		used[c] = true
	}
	for id := 0; id < 52; id++ {
		if !used[cards.Card(id)] {
			deck = append(deck, cards.Card(id))
		}
	}
	return deck
}

// neutralBoard makes no straight, flush or pair for the hands used in these
// tests.
func neutralBoard() []cards.Card {
	return []cards.Card{
		testCard(2, cards.Clubs),
		testCard(5, cards.Diamonds),
		testCard(9, cards.Hearts),
		testCard(11, cards.Spades),
		testCard(3, cards.Diamonds),
	}
}

func chipTotal(r *Room) int {
	total := 0
	for _, p := range r.Seats {
		total += p.Balance
	}
	if r.Game != nil {
		total += r.Game.Pot
	}
	return total
}

func collectEvents(r *Room) *[]events.Event {
	collected := &[]events.Event{}
	r.RegisterEventHandler(func(e events.Event) {
		*collected = append(*collected, e)
	})
	return collected
}

func TestStartRoundPostsBlindsAndSetsTurn(t *testing.T) {
	room := newTestRoom(t, 1000, 1000, 1000)

	err := room.StartRound(cards.Shuffled(cards.NewRand(1)), 10)
	require.NoError(t, err)

	g := room.Game
	assert.Equal(t, 1, g.Round)
	assert.Equal(t, 0, g.BlindTurn)
	assert.Equal(t, 2, g.PlayTurn, "first to act sits past the big blind")
	assert.Equal(t, 20, g.CurrentBet)
	assert.Equal(t, 30, g.Pot)

	assert.Equal(t, 990, room.Seats[0].Balance)
	assert.Equal(t, 10, room.Seats[0].Round.SubTotalBet)
	assert.Equal(t, 980, room.Seats[1].Balance)
	assert.Equal(t, 20, room.Seats[1].Round.SubTotalBet)
	assert.Equal(t, 1000, room.Seats[2].Balance)

	for _, p := range room.Seats {
		assert.Len(t, p.Round.HoleCards, 2)
	}
	assert.Equal(t, 3000, chipTotal(room))
}

func TestStartRoundGuards(t *testing.T) {
	t.Run("needs two funded seats", func(t *testing.T) {
		room := newTestRoom(t, 1000, 0)
		err := room.StartRound(cards.Shuffled(cards.NewRand(1)), 10)
		assert.True(t, IsValidation(err))
	})

	t.Run("rejects a second round while one runs", func(t *testing.T) {
		room := newTestRoom(t, 1000, 1000)
		require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))
		err := room.StartRound(cards.Shuffled(cards.NewRand(2)), 10)
		assert.True(t, IsValidation(err))
	})
}

func TestBrokeSeatSitsOutTheRound(t *testing.T) {
	room := newTestRoom(t, 1000, 1000, 0)

	require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

	bust := room.Seats[2].Round
	assert.Equal(t, StatusBust, bust.Status)
	assert.Empty(t, bust.HoleCards)

	// Blinds skip the bust seat entirely.
	assert.Equal(t, 0, room.Game.BlindTurn)
	assert.Equal(t, 10, room.Seats[0].Round.SubTotalBet)
	assert.Equal(t, 20, room.Seats[1].Round.SubTotalBet)
}

func TestShortBigBlindGoesAllIn(t *testing.T) {
	room := newTestRoom(t, 1000, 15, 1000)

	require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

	bb := room.Seats[1]
	assert.Equal(t, StatusAllIn, bb.Round.Status)
	assert.Equal(t, 0, bb.Balance)
	assert.Equal(t, 15, bb.Round.SubTotalBet)

	// The target to match stays at the full big blind.
	assert.Equal(t, 20, room.Game.CurrentBet)
	assert.Equal(t, 25, room.Game.Pot)
	assert.Equal(t, 2, room.Game.PlayTurn)
}

func TestFullRoundToShowdown(t *testing.T) {
	room := newTestRoom(t, 1000, 1000, 1000)
	collected := collectEvents(room)

	deck := stackedDeck([][]cards.Card{
		{testCard(14, cards.Hearts), testCard(14, cards.Spades)}, // p0: aces
		{testCard(13, cards.Hearts), testCard(13, cards.Spades)}, // p1: kings
		{testCard(12, cards.Hearts), testCard(12, cards.Spades)}, // p2: queens
	}, neutralBoard())

	require.NoError(t, room.StartRound(deck, 10))

	// Pre-flop: p2 and p0 call, closing the street on the big blind.
	require.NoError(t, room.HandleAction("p2", ActionCall, 0))
	assert.Equal(t, 0, room.Game.PlayTurn)
	require.NoError(t, room.HandleAction("p0", ActionCall, 0))

	assert.Len(t, room.Game.Board, 3)
	assert.Equal(t, 60, room.Game.Pot)
	assert.Equal(t, 0, room.Game.CurrentBet)
	assert.Equal(t, 1, room.Game.PlayTurn, "first to act past the blind seat")
	assert.Equal(t, 3000, chipTotal(room))

	// Flop checks around.
	require.NoError(t, room.HandleAction("p1", ActionCheck, 0))
	require.NoError(t, room.HandleAction("p2", ActionCheck, 0))
	require.NoError(t, room.HandleAction("p0", ActionCheck, 0))
	assert.Len(t, room.Game.Board, 4)

	// Turn: p1 bets, p2 lets go, p0 calls.
	require.NoError(t, room.HandleAction("p1", ActionRaise, 50))
	assert.Equal(t, 50, room.Game.CurrentBet)
	require.NoError(t, room.HandleAction("p2", ActionFold, 0))
	require.NoError(t, room.HandleAction("p0", ActionCall, 0))
	assert.Len(t, room.Game.Board, 5)
	assert.Equal(t, 160, room.Game.Pot)

	// River checks through to showdown.
	require.NoError(t, room.HandleAction("p1", ActionCheck, 0))
	require.NoError(t, room.HandleAction("p0", ActionCheck, 0))

	g := room.Game
	assert.True(t, g.Finished)
	assert.Equal(t, 0, g.Pot)

	assert.Equal(t, 1090, room.Seats[0].Balance)
	assert.Equal(t, 160, room.Seats[0].Round.WinAmount)
	assert.Equal(t, 930, room.Seats[1].Balance)
	assert.Equal(t, 980, room.Seats[2].Balance)
	assert.Equal(t, 3000, chipTotal(room))

	var ended *events.RoundEnded
	for _, e := range *collected {
		if re, ok := e.(events.RoundEnded); ok {
			ended = &re
		}
	}
	require.NotNil(t, ended)
	assert.Equal(t, []string{"p0"}, ended.Winners)
}

func TestRejectedActionsLeaveStateUntouched(t *testing.T) {
	room := newTestRoom(t, 1000, 1000, 30)
	require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

	before := *room.Game
	balances := []int{room.Seats[0].Balance, room.Seats[1].Balance, room.Seats[2].Balance}

	t.Run("raise beyond balance", func(t *testing.T) {
		err := room.HandleAction("p2", ActionRaise, 100)
		assert.True(t, IsValidation(err))
	})

	t.Run("raise of zero", func(t *testing.T) {
		err := room.HandleAction("p2", ActionRaise, 0)
		assert.True(t, IsValidation(err))
	})

	t.Run("check while owing", func(t *testing.T) {
		err := room.HandleAction("p2", ActionCheck, 0)
		assert.True(t, IsValidation(err))
	})

	t.Run("out of turn", func(t *testing.T) {
		err := room.HandleAction("p0", ActionCall, 0)
		assert.True(t, IsValidation(err))
	})

	t.Run("unknown player", func(t *testing.T) {
		err := room.HandleAction("nobody", ActionCall, 0)
		assert.True(t, IsValidation(err))
	})

	after := *room.Game
	assert.Equal(t, before.Pot, after.Pot)
	assert.Equal(t, before.CurrentBet, after.CurrentBet)
	assert.Equal(t, before.PlayTurn, after.PlayTurn)
	for i, want := range balances {
		assert.Equal(t, want, room.Seats[i].Balance)
	}
	assert.Equal(t, StatusNone, room.Seats[2].Round.Status)
}

func TestEveryoneFoldsToOneWinner(t *testing.T) {
	room := newTestRoom(t, 1000, 1000, 1000)
	require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

	require.NoError(t, room.HandleAction("p2", ActionFold, 0))
	require.NoError(t, room.HandleAction("p0", ActionFold, 0))

	g := room.Game
	assert.True(t, g.Finished, "round runs out immediately once one seat remains")
	assert.Equal(t, 0, g.Pot)
	assert.Equal(t, 1010, room.Seats[1].Balance, "big blind collects both blinds")
	assert.Equal(t, 3000, chipTotal(room))
}

func TestCallShortStackClampsToAllIn(t *testing.T) {
	room := newTestRoom(t, 1000, 1000, 5)
	require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

	require.NoError(t, room.HandleAction("p2", ActionCall, 0))

	short := room.Seats[2]
	assert.Equal(t, StatusAllIn, short.Round.Status)
	assert.Equal(t, 0, short.Balance)
	assert.Equal(t, 5, short.Round.SubTotalBet)
	assert.Equal(t, 35, room.Game.Pot)
	assert.Equal(t, 0, room.Game.PlayTurn, "betting continues for the covered seats")
}

func TestAllInRaisesTheBet(t *testing.T) {
	room := newTestRoom(t, 1000, 1000, 500)
	require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

	require.NoError(t, room.HandleAction("p2", ActionAllIn, 0))

	assert.Equal(t, 500, room.Game.CurrentBet)
	assert.Equal(t, 0, room.Seats[2].Balance)
	assert.Equal(t, StatusAllIn, room.Seats[2].Round.Status)
	assert.Equal(t, 0, room.Game.PlayTurn)
	assert.False(t, room.Game.Finished)
}

func TestTimeoutAutoAction(t *testing.T) {
	t.Run("folds when chips are owed", func(t *testing.T) {
		room := newTestRoom(t, 1000, 1000, 1000)
		require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

		require.NoError(t, room.HandleTimeout(1, room.Game.Turn, 2))
		assert.Equal(t, StatusFold, room.Seats[2].Round.Status)
	})

	t.Run("checks when already matched", func(t *testing.T) {
		room := newTestRoom(t, 1000, 1000, 1000)
		require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))
		require.NoError(t, room.HandleAction("p2", ActionCall, 0))
		require.NoError(t, room.HandleAction("p0", ActionCall, 0))

		// Flop, nothing owed: the deadline checks instead of folding.
		require.Equal(t, 1, room.Game.PlayTurn)
		require.NoError(t, room.HandleTimeout(1, room.Game.Turn, 1))
		assert.Equal(t, StatusCheck, room.Seats[1].Round.Status)
		assert.Equal(t, 2, room.Game.PlayTurn)
	})

	t.Run("stale timers are rejected", func(t *testing.T) {
		room := newTestRoom(t, 1000, 1000, 1000)
		require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

		assert.True(t, IsValidation(room.HandleTimeout(1, room.Game.Turn, 0)), "wrong seat")
		assert.True(t, IsValidation(room.HandleTimeout(7, room.Game.Turn, 2)), "wrong round")
		assert.True(t, IsValidation(room.HandleTimeout(1, room.Game.Turn-1, 2)), "superseded turn")
	})

	t.Run("deadline for an earlier turn of the same seat is rejected", func(t *testing.T) {
		room := newTestRoom(t, 1000, 1000)
		require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

		// Heads-up preflop: p0 posts the small blind and acts first.
		require.Equal(t, 0, room.Game.PlayTurn)
		preflopTurn := room.Game.Turn

		require.NoError(t, room.HandleAction("p0", ActionCall, 0))
		require.NoError(t, room.HandleAction("p1", ActionCheck, 0))

		// Play has wrapped back to p0 on the flop. The preflop deadline,
		// still in flight, must not auto-act this new turn.
		require.Equal(t, 0, room.Game.PlayTurn)
		require.NotEqual(t, preflopTurn, room.Game.Turn)

		assert.True(t, IsValidation(room.HandleTimeout(1, preflopTurn, 0)))
		assert.Equal(t, StatusNone, room.Seats[0].Round.Status)
		assert.Equal(t, 0, room.Game.PlayTurn)
	})
}

func TestNextRoundRotatesBlindAndRedeals(t *testing.T) {
	room := newTestRoom(t, 1000, 1000, 1000)

	firstDeal := [][]cards.Card{
		{testCard(14, cards.Hearts), testCard(14, cards.Spades)},
		{testCard(13, cards.Hearts), testCard(13, cards.Spades)},
		{testCard(12, cards.Hearts), testCard(12, cards.Spades)},
	}
	require.NoError(t, room.StartRound(stackedDeck(firstDeal, neutralBoard()), 10))

	firstCards := make(map[string][]cards.Card)
	for _, p := range room.Seats {
		firstCards[p.ID] = p.Round.HoleCards
	}

	// Fold the round out.
	require.NoError(t, room.HandleAction("p2", ActionFold, 0))
	require.NoError(t, room.HandleAction("p0", ActionFold, 0))
	require.True(t, room.Game.Finished)

	secondDeal := [][]cards.Card{
		{testCard(7, cards.Hearts), testCard(7, cards.Spades)},
		{testCard(6, cards.Hearts), testCard(6, cards.Spades)},
		{testCard(4, cards.Hearts), testCard(4, cards.Spades)},
	}
	require.NoError(t, room.StartRound(stackedDeck(secondDeal, neutralBoard()), 10))

	g := room.Game
	assert.Equal(t, 2, g.Round)
	assert.Equal(t, 1, g.BlindTurn, "blind moves to the next seat")
	assert.Equal(t, 0, g.PlayTurn)

	for _, p := range room.Seats {
		assert.Equal(t, 0, p.Round.WinAmount)
		assert.NotEqual(t, firstCards[p.ID], p.Round.HoleCards)
	}
	assert.Equal(t, 3000, chipTotal(room))
}

func TestResignMidRound(t *testing.T) {
	t.Run("out of turn resignation folds the seat in place", func(t *testing.T) {
		room := newTestRoom(t, 1000, 1000, 1000)
		require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

		room.Resign("p0")

		assert.Equal(t, StatusFold, room.Seats[0].Round.Status)
		assert.True(t, room.Departed("p0"))
		assert.Equal(t, 3, len(room.Seats), "seat stays until the round ends")
		assert.False(t, room.Game.Finished)
	})

	t.Run("resigning on turn advances play", func(t *testing.T) {
		room := newTestRoom(t, 1000, 1000, 1000)
		require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

		room.Resign("p2")
		assert.Equal(t, StatusFold, room.Seats[2].Round.Status)
		assert.Equal(t, 0, room.Game.PlayTurn)
	})

	t.Run("second resignation ends the round", func(t *testing.T) {
		room := newTestRoom(t, 1000, 1000, 1000)
		require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

		room.Resign("p2")
		room.Resign("p0")

		assert.True(t, room.Game.Finished)
		assert.Equal(t, 1010, room.Seats[1].Balance)

		room.RemoveDepartedSeats()
		assert.Len(t, room.Seats, 1)
		assert.Equal(t, "p1", room.Seats[0].ID)
	})
}

func TestMidRoundJoinerSitsOutTheHand(t *testing.T) {
	room := newTestRoom(t, 1000, 1000)
	require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))

	late := NewPlayer("p2", "Player 2", 1000)
	require.NoError(t, room.Seat(late))
	assert.Nil(t, late.Round)

	// The hand plays out across the newcomer without touching them.
	require.NoError(t, room.HandleAction("p0", ActionCall, 0))
	for !room.Game.Finished {
		require.NoError(t, room.HandleTimeout(room.Game.Round, room.Game.Turn, room.Game.PlayTurn))
	}

	assert.Equal(t, 1000, late.Balance)
	assert.Equal(t, 3000, chipTotal(room))

	// The next round deals them in.
	require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(2)), 10))
	require.NotNil(t, late.Round)
	assert.Len(t, late.Round.HoleCards, 2)
}

func TestCloseMidRoundRefundsCommittedChips(t *testing.T) {
	room := newTestRoom(t, 1000, 1000, 1000)
	require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))
	require.NoError(t, room.HandleAction("p2", ActionCall, 0))

	room.Close()

	assert.Empty(t, room.Seats)
	assert.Nil(t, room.Game)
}

func TestCloseRefundsToFullBalances(t *testing.T) {
	room := newTestRoom(t, 1000, 1000, 1000)
	require.NoError(t, room.StartRound(cards.Shuffled(cards.NewRand(1)), 10))
	require.NoError(t, room.HandleAction("p2", ActionRaise, 80))

	players := append([]*Player{}, room.Seats...)
	room.Close()

	for _, p := range players {
		assert.Equal(t, 1000, p.Balance, "player %s refunded", p.ID)
		assert.Equal(t, "", p.RoomID)
	}
}
