package entities

import "time"

// GameSession is the append-only record of one completed round
type GameSession struct {
	ID           int64     `json:"id"`
	RoundID      string    `json:"round_id"`
	PlayerID     int64     `json:"player_id"`
	PlayerName   string    `json:"player_name"`
	DealerValue  int       `json:"dealer_value"`
	PlayerValue  int       `json:"player_value"`
	Outcome      Outcome   `json:"outcome"`
	Blackjack    bool      `json:"blackjack"`
	Bet          int64     `json:"bet"`
	Payout       int64     `json:"payout"` // amount returned at settlement, including the bet
	BalanceAfter int64     `json:"balance_after"`
	Timestamp    time.Time `json:"timestamp"`
}

// PlayerBusted reports whether the player's final hand went over 21
func (s *GameSession) PlayerBusted() bool {
	return s.PlayerValue > 21
}

// DealerBusted reports whether the dealer's final hand went over 21
func (s *GameSession) DealerBusted() bool {
	return s.DealerValue > 21
}

// Net returns the player's profit or loss for the round
func (s *GameSession) Net() int64 {
	return s.Payout - s.Bet
}
