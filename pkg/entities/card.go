package entities

import "fmt"

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "Hearts"
	Diamonds Suit = "Diamonds"
	Clubs    Suit = "Clubs"
	Spades   Suit = "Spades"
)

// Rank represents a card rank. Number ranks hold their face value.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankNames = map[Rank]string{
	Jack:  "Jack",
	Queen: "Queen",
	King:  "King",
	Ace:   "Ace",
}

// Suits lists the four suits in deck order
func Suits() []Suit {
	return []Suit{Hearts, Diamonds, Clubs, Spades}
}

// Ranks lists the thirteen ranks in deck order
func Ranks() []Rank {
	return []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
}

// Value returns the base blackjack value: pips for 2-10, 10 for faces, 11 for an Ace
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Jack:
		return 10
	default:
		return int(r)
	}
}

// String returns the rank name as printed on the card
func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("%d", int(r))
}

// Card is an immutable playing card
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Value returns the card's base blackjack value
func (c Card) Value() int {
	return c.Rank.Value()
}

// IsAce reports whether the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// String returns the string representation of the card
func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
