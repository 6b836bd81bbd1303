package entities

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fadedpez/blackjack/internal/types"
)

// CardsPerDeck is the size of one standard deck
const CardsPerDeck = 52

// Shoe is a shuffled stack of one or more decks. Cards are dealt from the end.
type Shoe struct {
	cards    []Card
	numDecks int
	rng      *rand.Rand
}

// NewShoe builds numDecks full decks and shuffles them with rng.
// A nil rng uses a time-seeded source.
func NewShoe(numDecks int, rng *rand.Rand) (*Shoe, error) {
	if numDecks < 1 {
		return nil, types.NewGameError(types.ErrInvalidConfig, fmt.Sprintf("shoe needs at least one deck, got %d", numDecks))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Shoe{numDecks: numDecks, rng: rng}
	s.Reshuffle()
	return s, nil
}

// NewStackedShoe returns a single-deck shoe whose next deals are exactly cards, in order.
// Once those run out the shoe is empty until reshuffled.
func NewStackedShoe(rng *rand.Rand, cards ...Card) *Shoe {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	stacked := make([]Card, len(cards))
	for i, c := range cards {
		stacked[len(cards)-1-i] = c
	}
	return &Shoe{cards: stacked, numDecks: 1, rng: rng}
}

// Reshuffle discards the remaining cards and replaces them with full, freshly shuffled decks
func (s *Shoe) Reshuffle() {
	cards := make([]Card, 0, s.Size())
	for d := 0; d < s.numDecks; d++ {
		for _, suit := range Suits() {
			for _, rank := range Ranks() {
				cards = append(cards, NewCard(rank, suit))
			}
		}
	}

	s.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	s.cards = cards
}

// Deal removes and returns the last card in the shoe
func (s *Shoe) Deal() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, types.NewGameError(types.ErrShoeEmpty, "no cards left in shoe")
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card, nil
}

// Remaining returns the number of undealt cards
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Size returns the number of cards in a full shoe
func (s *Shoe) Size() int {
	return s.numDecks * CardsPerDeck
}

// NumDecks returns how many decks make up the shoe
func (s *Shoe) NumDecks() int {
	return s.numDecks
}

// NeedsReshuffle reports whether fewer than threshold cards remain
func (s *Shoe) NeedsReshuffle(threshold int) bool {
	return len(s.cards) < threshold
}
