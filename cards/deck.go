package cards

import (
	"math/rand"
	"time"
)

// Deck is an ordered sequence of cards, consumed front to back and never
// reshuffled mid-round.
type Deck []Card

// NewRand returns a rand source seeded with the given seed, so tests and
// local games can replay the same shuffles.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewDeck creates the 52 cards in their canonical order.
func NewDeck() Deck {
	deck := make(Deck, 0, 52)
	for id := 0; id < 52; id++ {
		deck = append(deck, Card(id))
	}
	return deck
}

// Shuffled returns a uniformly random permutation of the 52 cards using a
// Fisher-Yates shuffle. A nil rng falls back to a time-seeded source.
func Shuffled(rng *rand.Rand) Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	deck := NewDeck()
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// Deal removes count cards from the front of the deck and returns them with
// the remaining deck.
func (d Deck) Deal(count int) ([]Card, Deck) {
	if count > len(d) {
		count = len(d)
	}

	dealt := make([]Card, count)
	copy(dealt, d[:count])

	return dealt, d[count:]
}
