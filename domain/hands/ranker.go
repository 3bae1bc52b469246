// Package hands ranks hold'em hands with the paulhankin/poker evaluator.
// The rest of the engine treats it as an opaque pure function: seven cards
// in, one comparable descriptor out.
package hands

import (
	"fmt"

	"github.com/paulhankin/poker"

	"github.com/lvaneyck/holdem/cards"
)

// Descriptor is a comparable summary of a player's best five-card hand.
// Higher scores beat lower scores; equal scores split.
type Descriptor struct {
	Score int16  `json:"score"`
	Label string `json:"label"`
}

// Beats reports whether d outranks other.
func (d Descriptor) Beats(other Descriptor) bool {
	return d.Score > other.Score
}

// Ties reports whether d and other are of equal strength.
func (d Descriptor) Ties(other Descriptor) bool {
	return d.Score == other.Score
}

// Rank evaluates two hole cards against a five-card board.
func Rank(hole []cards.Card, board []cards.Card) (Descriptor, error) {
	if len(hole) != 2 {
		return Descriptor{}, fmt.Errorf("expected 2 hole cards, got %d", len(hole))
	}
	if len(board) != 5 {
		return Descriptor{}, fmt.Errorf("expected 5 board cards, got %d", len(board))
	}

	var seven [7]poker.Card
	for i, c := range board {
		pc, err := makeCard(c)
		if err != nil {
			return Descriptor{}, fmt.Errorf("invalid board card %s: %w", c, err)
		}
		seven[i] = pc
	}
	for i, c := range hole {
		pc, err := makeCard(c)
		if err != nil {
			return Descriptor{}, fmt.Errorf("invalid hole card %s: %w", c, err)
		}
		seven[5+i] = pc
	}

	score := poker.Eval7(&seven)

	label, err := poker.Describe(seven[:])
	if err != nil {
		return Descriptor{}, fmt.Errorf("describe hand: %w", err)
	}

	return Descriptor{Score: score, Label: label}, nil
}

// makeCard converts a card id into the evaluator's representation. The
// evaluator numbers ranks 1-13 with the ace low, our ids rank 2-14 with the
// ace high; suits share the clubs..spades order.
func makeCard(c cards.Card) (poker.Card, error) {
	rank := c.Rank()
	if rank == 14 {
		rank = 1
	}
	return poker.MakeCard(poker.Suit(c.Suit()), poker.Rank(rank))
}
