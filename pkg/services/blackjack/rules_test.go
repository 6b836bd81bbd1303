package blackjack

import (
	"math/rand"
	"testing"

	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		player    int
		dealer    int
		playerBJ  bool
		dealerBJ  bool
		outcome   entities.Outcome
		blackjack bool
		reason    Reason
	}{
		{"player blackjack", 21, 20, true, false, entities.OutcomeWin, true, ReasonBlackjack},
		{"both blackjack", 21, 21, true, true, entities.OutcomeTie, false, ReasonEqual},
		{"dealer blackjack beats 20", 20, 21, false, true, entities.OutcomeLoss, false, ReasonLower},
		{"three card 21 against dealer blackjack", 21, 21, false, true, entities.OutcomeTie, false, ReasonEqual},
		{"player bust", 22, 17, false, false, entities.OutcomeLoss, false, ReasonPlayerBust},
		{"both bust", 24, 23, false, false, entities.OutcomeLoss, false, ReasonPlayerBust},
		{"dealer bust", 18, 22, false, false, entities.OutcomeWin, false, ReasonDealerBust},
		{"player higher", 19, 18, false, false, entities.OutcomeWin, false, ReasonHigher},
		{"dealer higher", 17, 20, false, false, entities.OutcomeLoss, false, ReasonLower},
		{"push", 18, 18, false, false, entities.OutcomeTie, false, ReasonEqual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.player, tt.dealer, tt.playerBJ, tt.dealerBJ)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.blackjack, result.Blackjack)
			assert.Equal(t, tt.reason, result.Reason)
			assert.NotEmpty(t, result.Message())
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	for p := 0; p <= 30; p++ {
		for d := 0; d <= 30; d++ {
			result := Classify(p, d, false, false)
			assert.Contains(t, []entities.Outcome{entities.OutcomeWin, entities.OutcomeLoss, entities.OutcomeTie}, result.Outcome)
			if p > 21 {
				assert.Equal(t, entities.OutcomeLoss, result.Outcome, "player %d dealer %d", p, d)
			}
			if p == d && p <= 21 {
				assert.Equal(t, entities.OutcomeTie, result.Outcome, "player %d dealer %d", p, d)
			}
		}
	}
}

func TestPayout(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		bet    int64
		payout int64
	}{
		{"blackjack even bet", Result{Outcome: entities.OutcomeWin, Blackjack: true}, 10, 25},
		{"blackjack odd bet floors bonus", Result{Outcome: entities.OutcomeWin, Blackjack: true}, 5, 12},
		{"win", Result{Outcome: entities.OutcomeWin}, 25, 50},
		{"tie", Result{Outcome: entities.OutcomeTie}, 25, 25},
		{"loss", Result{Outcome: entities.OutcomeLoss}, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.payout, tt.result.Payout(tt.bet))
		})
	}
}

func TestSettleConservesChips(t *testing.T) {
	const start int64 = 100
	tests := []struct {
		name   string
		result Result
		bet    int64
		final  int64
	}{
		{"blackjack", Result{Outcome: entities.OutcomeWin, Blackjack: true}, 10, 115},
		{"win", Result{Outcome: entities.OutcomeWin}, 25, 125},
		{"tie", Result{Outcome: entities.OutcomeTie}, 100, 100},
		{"loss", Result{Outcome: entities.OutcomeLoss}, 40, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			escrowed := start - tt.bet
			assert.Equal(t, tt.final, Settle(escrowed, tt.bet, tt.result))
		})
	}
}

func TestPlayDealerStandsOn17(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		shoe, err := entities.NewShoe(1, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		dealer := NewHand("Dealer")
		for i := 0; i < 2; i++ {
			card, err := shoe.Deal()
			require.NoError(t, err)
			dealer.AddCard(card)
		}

		drawn := 0
		require.NoError(t, PlayDealer(shoe, dealer, func(entities.Card) { drawn++ }))
		assert.GreaterOrEqual(t, dealer.Value(), DealerStandsOn, "seed %d: %s", seed, dealer)
		assert.Equal(t, dealer.Len()-2, drawn)

		// the hand before the last draw was under 17
		if drawn > 0 {
			assert.Less(t, HandValue(dealer.Cards[:dealer.Len()-1]), DealerStandsOn)
		}
	}
}

func TestPlayDealerStandsOnSoft17(t *testing.T) {
	shoe := entities.NewStackedShoe(nil, c(entities.Five))
	dealer := NewHand("Dealer", c(entities.Ace), c(entities.Six))

	require.NoError(t, PlayDealer(shoe, dealer, nil))
	assert.Equal(t, 2, dealer.Len())
	assert.Equal(t, 1, shoe.Remaining())
}

func TestPlayDealerEmptyShoe(t *testing.T) {
	shoe := entities.NewStackedShoe(nil)
	dealer := NewHand("Dealer", c(entities.Two), c(entities.Three))

	err := PlayDealer(shoe, dealer, nil)
	require.Error(t, err)
	var gameErr *types.GameError
	require.True(t, types.As(err, &gameErr))
	assert.Equal(t, types.ErrShoeEmpty, gameErr.Code)
}

func TestMaxRoundCards(t *testing.T) {
	assert.Equal(t, 16, MaxRoundCards(1))
	assert.Equal(t, 21, MaxRoundCards(2))
	assert.Equal(t, 31, MaxRoundCards(6))
	assert.Equal(t, MaxRoundCards(1), DefaultRules().ReshuffleThreshold)
}

func TestLongestSingleDeckRoundUsesSixteenCards(t *testing.T) {
	shoe := entities.NewStackedShoe(nil,
		c(entities.Four), c(entities.Four), c(entities.Four),
	)
	// player ended on A A A A 2 2 2 2 3 3 3, dealer holds the rest of the cheap cards
	player := NewHand("Tuco",
		c(entities.Ace), c(entities.Ace), c(entities.Ace), c(entities.Ace),
		c(entities.Two), c(entities.Two), c(entities.Two), c(entities.Two),
		c(entities.Three), c(entities.Three), c(entities.Three),
	)
	dealer := NewHand("Dealer", c(entities.Three), c(entities.Four))
	require.Equal(t, 21, player.Value())

	require.NoError(t, PlayDealer(shoe, dealer, nil))
	assert.Equal(t, 19, dealer.Value())
	assert.Equal(t, MaxRoundCards(1), player.Len()+dealer.Len())
}
