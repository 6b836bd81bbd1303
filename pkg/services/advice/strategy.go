package advice

import (
	"context"
	"fmt"

	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/services/blackjack"
)

// BasicStrategy answers from the standard hit/stand chart for a dealer who stands on soft 17
type BasicStrategy struct{}

// Suggest returns "Hit" or "Stand" with the hand it was read from
func (BasicStrategy) Suggest(ctx context.Context, player, dealer *blackjack.Hand) (string, error) {
	up, ok := dealer.UpCard()
	if !ok || player.Len() == 0 {
		return "", types.NewGameError(types.ErrAdviceUnavailable, "no hand to advise on")
	}

	total := player.Value()
	soft := player.IsSoft()
	upValue := up.Value()

	kind := "hard"
	if soft {
		kind = "soft"
	}
	play := "Stand"
	if shouldHit(total, soft, upValue) {
		play = "Hit"
	}
	return fmt.Sprintf("%s (%s %d against a dealer %s)", play, kind, total, up.Rank), nil
}

// shouldHit reads the chart. upValue counts an ace as 11.
func shouldHit(total int, soft bool, upValue int) bool {
	if total >= blackjack.BlackjackValue {
		return false
	}
	if soft {
		switch {
		case total <= 17:
			return true
		case total == 18:
			return upValue >= 9
		default:
			return false
		}
	}

	switch {
	case total <= 11:
		return true
	case total == 12:
		return upValue < 4 || upValue > 6
	case total <= 16:
		return upValue > 6
	default:
		return false
	}
}
