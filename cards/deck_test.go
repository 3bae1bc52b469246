package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeckHasAllCards(t *testing.T) {
	deck := NewDeck()
	assert.Len(t, deck, 52)

	seen := make(map[Card]bool)
	for _, c := range deck {
		assert.True(t, c.Valid())
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestShuffledIsPermutation(t *testing.T) {
	deck := Shuffled(NewRand(42))
	assert.Len(t, deck, 52)

	seen := make(map[Card]bool)
	for _, c := range deck {
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestShuffledIsDeterministicPerSeed(t *testing.T) {
	a := Shuffled(NewRand(7))
	b := Shuffled(NewRand(7))
	assert.Equal(t, a, b)

	c := Shuffled(NewRand(8))
	assert.NotEqual(t, a, c)
}

func TestShuffledWithNilRandStillPermutes(t *testing.T) {
	deck := Shuffled(nil)
	assert.Len(t, deck, 52)

	seen := make(map[Card]bool)
	for _, c := range deck {
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestDeal(t *testing.T) {
	deck := NewDeck()

	dealt, rest := deck.Deal(2)
	assert.Equal(t, []Card{Card(0), Card(1)}, dealt)
	assert.Len(t, rest, 50)
	assert.Equal(t, Card(2), rest[0])

	// Dealing more than remains returns what is left.
	dealt, rest = rest.Deal(100)
	assert.Len(t, dealt, 50)
	assert.Len(t, rest, 0)
}
