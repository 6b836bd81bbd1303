package entities

import (
	"math/rand"
	"testing"

	"github.com/fadedpez/blackjack/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankValue(t *testing.T) {
	testCases := []struct {
		rank     Rank
		expected int
	}{
		{Two, 2},
		{Seven, 7},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
		{Ace, 11},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.rank.Value(), tc.rank.String())
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "Ace of Spades", NewCard(Ace, Spades).String())
	assert.Equal(t, "10 of Hearts", NewCard(Ten, Hearts).String())
	assert.Equal(t, "Queen of Clubs", NewCard(Queen, Clubs).String())
}

func TestNewShoe(t *testing.T) {
	for _, decks := range []int{1, 2, 6} {
		shoe, err := NewShoe(decks, rand.New(rand.NewSource(1)))
		require.NoError(t, err)

		assert.Equal(t, decks*CardsPerDeck, shoe.Size())
		assert.Equal(t, shoe.Size(), shoe.Remaining())

		counts := make(map[Card]int)
		for shoe.Remaining() > 0 {
			card, err := shoe.Deal()
			require.NoError(t, err)
			counts[card]++
		}

		assert.Len(t, counts, CardsPerDeck, "every rank/suit pair should appear")
		for card, n := range counts {
			assert.Equal(t, decks, n, card.String())
		}
	}
}

func TestNewShoeInvalidDecks(t *testing.T) {
	for _, decks := range []int{0, -1} {
		shoe, err := NewShoe(decks, nil)
		assert.Nil(t, shoe)
		assert.True(t, types.IsGameError(err, types.ErrInvalidConfig))
	}
}

func TestShoeIsShuffledDeterministically(t *testing.T) {
	a, err := NewShoe(1, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := NewShoe(1, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	for a.Remaining() > 0 {
		ca, _ := a.Deal()
		cb, _ := b.Deal()
		assert.Equal(t, ca, cb)
	}
}

func TestDealEmptyShoe(t *testing.T) {
	shoe := NewStackedShoe(nil, NewCard(Ace, Hearts))

	card, err := shoe.Deal()
	require.NoError(t, err)
	assert.Equal(t, NewCard(Ace, Hearts), card)

	_, err = shoe.Deal()
	assert.True(t, types.IsGameError(err, types.ErrShoeEmpty))
}

func TestStackedShoeDealsInOrder(t *testing.T) {
	cards := []Card{
		NewCard(Two, Hearts),
		NewCard(King, Spades),
		NewCard(Ace, Clubs),
	}
	shoe := NewStackedShoe(nil, cards...)

	for _, expected := range cards {
		card, err := shoe.Deal()
		require.NoError(t, err)
		assert.Equal(t, expected, card)
	}
	assert.Equal(t, 0, shoe.Remaining())
}

func TestNeedsReshuffle(t *testing.T) {
	shoe := NewStackedShoe(nil, NewCard(Two, Hearts), NewCard(Three, Hearts), NewCard(Four, Hearts))

	assert.False(t, shoe.NeedsReshuffle(3))
	assert.True(t, shoe.NeedsReshuffle(4))

	shoe.Reshuffle()
	assert.Equal(t, CardsPerDeck, shoe.Remaining())
	assert.False(t, shoe.NeedsReshuffle(15))
}

func TestPlayerStatisticsAdd(t *testing.T) {
	stats := &PlayerStatistics{}
	stats.Add(&GameSession{Outcome: OutcomeWin, Bet: 10, Payout: 25, Blackjack: true, PlayerValue: 21})
	stats.Add(&GameSession{Outcome: OutcomeLoss, Bet: 20, Payout: 0, PlayerValue: 24, DealerValue: 18})
	stats.Add(&GameSession{Outcome: OutcomeTie, Bet: 5, Payout: 5, PlayerValue: 19, DealerValue: 19})

	assert.Equal(t, 3, stats.GamesPlayed)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Ties)
	assert.Equal(t, 1, stats.Blackjacks)
	assert.Equal(t, 1, stats.Busts)
	assert.Equal(t, int64(35), stats.TotalBet)
	assert.Equal(t, int64(30), stats.TotalReturned)
	assert.Equal(t, int64(-5), stats.NetProfit())
	assert.InDelta(t, 33.33, stats.WinRate(), 0.01)
}
