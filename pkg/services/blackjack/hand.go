package blackjack

import (
	"strings"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// Hand is the ordered set of cards one party holds during a round.
// Cards are only ever appended.
type Hand struct {
	Owner string
	Cards []entities.Card
}

// NewHand creates a hand for owner, optionally pre-filled with cards
func NewHand(owner string, cards ...entities.Card) *Hand {
	h := &Hand{
		Owner: owner,
		Cards: make([]entities.Card, 0, 5),
	}
	h.Cards = append(h.Cards, cards...)
	return h
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(card entities.Card) {
	h.Cards = append(h.Cards, card)
}

// Value returns the best total for the hand, counting aces down from 11 to 1 only as needed
func (h *Hand) Value() int {
	return HandValue(h.Cards)
}

// IsSoft reports whether an ace is still being counted as 11
func (h *Hand) IsSoft() bool {
	_, soft := handTotal(h.Cards)
	return soft
}

// IsBlackjack reports a two-card 21
func (h *Hand) IsBlackjack() bool {
	return IsBlackjack(h.Cards)
}

// IsBust reports a total over 21
func (h *Hand) IsBust() bool {
	return IsBust(h.Cards)
}

// UpCard returns the first card, the one the dealer shows face up
func (h *Hand) UpCard() (entities.Card, bool) {
	if len(h.Cards) == 0 {
		return entities.Card{}, false
	}
	return h.Cards[0], true
}

// Len returns the number of cards held
func (h *Hand) Len() int {
	return len(h.Cards)
}

// String lists the cards, e.g. "Ace of Spades, 9 of Hearts"
func (h *Hand) String() string {
	names := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
