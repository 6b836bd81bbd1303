package blackjack

import (
	"testing"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/stretchr/testify/assert"
)

func c(rank entities.Rank) entities.Card {
	return entities.NewCard(rank, entities.Spades)
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name  string
		cards []entities.Card
		value int
		soft  bool
	}{
		{"empty", nil, 0, false},
		{"ace king", []entities.Card{c(entities.Ace), c(entities.King)}, 21, true},
		{"two aces and nine", []entities.Card{c(entities.Ace), c(entities.Ace), c(entities.Nine)}, 21, true},
		{"ace five ten", []entities.Card{c(entities.Ace), c(entities.Five), c(entities.Ten)}, 16, false},
		{"three faces", []entities.Card{c(entities.King), c(entities.Queen), c(entities.Jack)}, 30, false},
		{"four aces", []entities.Card{c(entities.Ace), c(entities.Ace), c(entities.Ace), c(entities.Ace)}, 14, true},
		{"soft seventeen", []entities.Card{c(entities.Ace), c(entities.Six)}, 17, true},
		{"hard twelve", []entities.Card{c(entities.Seven), c(entities.Five)}, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := NewHand("Player", tt.cards...)
			assert.Equal(t, tt.value, hand.Value())
			assert.Equal(t, tt.soft, hand.IsSoft())
		})
	}
}

func TestHandValueNeverExceeds21WithAReducibleAce(t *testing.T) {
	// any hand still counting an ace as 11 is at most 21
	for _, first := range entities.Ranks() {
		for _, second := range entities.Ranks() {
			for _, third := range entities.Ranks() {
				hand := NewHand("Player", c(first), c(second), c(third))
				if hand.IsSoft() {
					assert.LessOrEqual(t, hand.Value(), 21, hand.String())
				}
			}
		}
	}
}

func TestHandBlackjack(t *testing.T) {
	assert.True(t, NewHand("p", c(entities.Ace), c(entities.Queen)).IsBlackjack())
	assert.False(t, NewHand("p", c(entities.Seven), c(entities.Seven), c(entities.Seven)).IsBlackjack(), "three-card 21")
	assert.False(t, NewHand("p", c(entities.Ace), c(entities.Nine)).IsBlackjack())
}

func TestHandBust(t *testing.T) {
	assert.True(t, NewHand("p", c(entities.King), c(entities.Queen), c(entities.Two)).IsBust())
	assert.False(t, NewHand("p", c(entities.King), c(entities.Ace), c(entities.Queen)).IsBust())
}

func TestHandUpCard(t *testing.T) {
	hand := NewHand("Dealer")
	_, ok := hand.UpCard()
	assert.False(t, ok)

	hand.AddCard(c(entities.Nine))
	hand.AddCard(c(entities.Ace))
	up, ok := hand.UpCard()
	assert.True(t, ok)
	assert.Equal(t, entities.Nine, up.Rank)
	assert.Equal(t, 2, hand.Len())
}

func TestHandString(t *testing.T) {
	hand := NewHand("p", entities.NewCard(entities.Ace, entities.Spades), entities.NewCard(entities.Nine, entities.Hearts))
	assert.Equal(t, "Ace of Spades, 9 of Hearts", hand.String())
}
