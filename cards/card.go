package cards

import "fmt"

// Card identifies one of the 52 playing cards as an integer 0-51.
// The rank is id mod 13 (0 = Two .. 12 = Ace) and the suit is id div 13.
type Card int

// Suit represents a card suit
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Suit returns the card's suit.
func (c Card) Suit() Suit {
	return Suit(c / 13)
}

// Rank returns the card's rank as 2..14, where 14 is the ace.
func (c Card) Rank() int {
	return int(c%13) + 2
}

// Valid reports whether the card id is within the 52-card range.
func (c Card) Valid() bool {
	return c >= 0 && c < 52
}

// String returns the string representation of a card, e.g. "A♠" or "10♥"
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}

	var rank string
	switch c.Rank() {
	case 14:
		rank = "A"
	case 13:
		rank = "K"
	case 12:
		rank = "Q"
	case 11:
		rank = "J"
	default:
		rank = fmt.Sprint(c.Rank())
	}

	return rank + c.Suit().String()
}

// Equals checks if two cards are equal
func (c Card) Equals(other Card) bool {
	return c == other
}
