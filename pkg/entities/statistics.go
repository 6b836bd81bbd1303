package entities

import "time"

// PlayerStatistics is aggregated from a player's session history
type PlayerStatistics struct {
	PlayerID      int64     `json:"player_id"`
	PlayerName    string    `json:"player_name"`
	Balance       int64     `json:"balance"`
	GamesPlayed   int       `json:"games_played"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	Ties          int       `json:"ties"`
	Blackjacks    int       `json:"blackjacks"`
	Busts         int       `json:"busts"`
	TotalBet      int64     `json:"total_bet"`
	TotalReturned int64     `json:"total_returned"`
	LastPlayed    time.Time `json:"last_played"`
}

// Add folds one session into the totals
func (s *PlayerStatistics) Add(session *GameSession) {
	s.GamesPlayed++
	s.TotalBet += session.Bet
	s.TotalReturned += session.Payout

	switch session.Outcome {
	case OutcomeWin:
		s.Wins++
	case OutcomeLoss:
		s.Losses++
	case OutcomeTie:
		s.Ties++
	}
	if session.Blackjack {
		s.Blackjacks++
	}
	if session.PlayerBusted() {
		s.Busts++
	}
	if session.Timestamp.After(s.LastPlayed) {
		s.LastPlayed = session.Timestamp
	}
}

// NetProfit calculates the player's net profit
func (s *PlayerStatistics) NetProfit() int64 {
	return s.TotalReturned - s.TotalBet
}

// WinRate calculates the player's win rate as a percentage
func (s *PlayerStatistics) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0.0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100.0
}
