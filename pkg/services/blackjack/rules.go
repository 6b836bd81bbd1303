package blackjack

import (
	"github.com/fadedpez/blackjack/pkg/entities"
)

const (
	BlackjackValue = 21
	DealerStandsOn = 17 // dealer stands on every 17, soft or hard

	DefaultDecks        = 1
	DefaultCreditAmount = 100
)

// MaxRoundCards bounds how many cards one round can deal from a numDecks shoe.
// Every card but the dealer's last is paid for out of 21 player points plus 16
// dealer points, so the cheapest cards (aces as 1) give the longest round.
// A single deck tops out at 16.
func MaxRoundCards(numDecks int) int {
	budget := BlackjackValue + DealerStandsOn - 1
	count := 0
	for value := 1; value <= 10; value++ {
		copies := 4 * numDecks
		if value == 10 {
			copies = 16 * numDecks
		}
		for i := 0; i < copies; i++ {
			if value > budget {
				return count + 1
			}
			budget -= value
			count++
		}
	}
	return count + 1
}

// Reason explains how a result was reached
type Reason string

const (
	ReasonBlackjack  Reason = "BLACKJACK"
	ReasonPlayerBust Reason = "PLAYER_BUST"
	ReasonDealerBust Reason = "DEALER_BUST"
	ReasonHigher     Reason = "HIGHER"
	ReasonLower      Reason = "LOWER"
	ReasonEqual      Reason = "EQUAL"
)

var reasonMessages = map[Reason]string{
	ReasonBlackjack:  "Blackjack! Player wins 3:2.",
	ReasonPlayerBust: "Player busts! Dealer wins.",
	ReasonDealerBust: "Dealer busts! Player wins.",
	ReasonHigher:     "Player wins!",
	ReasonLower:      "Dealer wins!",
	ReasonEqual:      "It's a tie!",
}

// Result is the classified outcome of a round
type Result struct {
	Outcome   entities.Outcome
	Blackjack bool
	Reason    Reason
}

// Message returns the line shown to the player
func (r Result) Message() string {
	return reasonMessages[r.Reason]
}

// Payout returns what goes back to the player at settlement, escrowed bet included.
// Blackjack floors the 3:2 bonus on odd bets.
func (r Result) Payout(bet int64) int64 {
	switch {
	case r.Blackjack:
		return bet + bet*3/2
	case r.Outcome == entities.OutcomeWin:
		return 2 * bet
	case r.Outcome == entities.OutcomeTie:
		return bet
	default:
		return 0
	}
}

// HandValue sums base values with every ace at 11, then knocks 10 off per ace while over 21
func HandValue(cards []entities.Card) int {
	value, _ := handTotal(cards)
	return value
}

func handTotal(cards []entities.Card) (value int, soft bool) {
	reducibleAces := 0
	for _, c := range cards {
		value += c.Value()
		if c.IsAce() {
			reducibleAces++
		}
	}
	for value > BlackjackValue && reducibleAces > 0 {
		value -= 10
		reducibleAces--
	}
	return value, reducibleAces > 0
}

// IsBlackjack reports exactly two cards worth 21
func IsBlackjack(cards []entities.Card) bool {
	return len(cards) == 2 && HandValue(cards) == BlackjackValue
}

// IsBust checks if a hand exceeds 21
func IsBust(cards []entities.Card) bool {
	return HandValue(cards) > BlackjackValue
}

// Classify maps final hand values to an outcome. Player bust is checked first,
// so a player bust loses even when the dealer also busts. A lone player natural
// is classified here too; the engine settles it as soon as the cards are dealt
// and relies on the Blackjack flag for the 3:2 payout.
func Classify(playerValue, dealerValue int, playerBlackjack, dealerBlackjack bool) Result {
	switch {
	case playerValue > BlackjackValue:
		return Result{Outcome: entities.OutcomeLoss, Reason: ReasonPlayerBust}
	case playerBlackjack && !dealerBlackjack:
		return Result{Outcome: entities.OutcomeWin, Blackjack: true, Reason: ReasonBlackjack}
	case dealerValue > BlackjackValue:
		return Result{Outcome: entities.OutcomeWin, Reason: ReasonDealerBust}
	case playerValue > dealerValue:
		return Result{Outcome: entities.OutcomeWin, Reason: ReasonHigher}
	case playerValue < dealerValue:
		return Result{Outcome: entities.OutcomeLoss, Reason: ReasonLower}
	default:
		return Result{Outcome: entities.OutcomeTie, Reason: ReasonEqual}
	}
}

// ClassifyHands classifies two finished hands
func ClassifyHands(player, dealer *Hand) Result {
	return Classify(player.Value(), dealer.Value(), player.IsBlackjack(), dealer.IsBlackjack())
}

// Settle returns the new absolute balance. balance is the post-escrow balance.
func Settle(balance, bet int64, result Result) int64 {
	return balance + result.Payout(bet)
}

// PlayDealer draws for the dealer until the hand reaches 17 or more.
// onDeal, if set, is called with each drawn card.
func PlayDealer(shoe *entities.Shoe, dealer *Hand, onDeal func(entities.Card)) error {
	for dealer.Value() < DealerStandsOn {
		card, err := shoe.Deal()
		if err != nil {
			return err
		}
		dealer.AddCard(card)
		if onDeal != nil {
			onDeal(card)
		}
	}
	return nil
}
