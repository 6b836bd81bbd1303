package entities

// RoundState is a step in a single blackjack round
type RoundState string

const (
	StateAwaitingBet RoundState = "AWAITING_BET"
	StateDealt       RoundState = "DEALT"
	StatePlayerTurn  RoundState = "PLAYER_TURN"
	StateDealerTurn  RoundState = "DEALER_TURN"
	StateResolved    RoundState = "RESOLVED"
)

// Outcome is the player's result for a round
type Outcome string

const (
	OutcomeWin  Outcome = "Win"
	OutcomeLoss Outcome = "Loss"
	OutcomeTie  Outcome = "Tie"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsWin returns true if this outcome pays the player
func (o Outcome) IsWin() bool {
	return o == OutcomeWin
}

// SoundEffect names a table sound cue
type SoundEffect string

const (
	SoundShuffle SoundEffect = "shuffle"
	SoundCard    SoundEffect = "card"
	SoundWin     SoundEffect = "win"
	SoundLoss    SoundEffect = "loss"
)

// SoundEffects lists every cue the table can play
func SoundEffects() []SoundEffect {
	return []SoundEffect{SoundShuffle, SoundCard, SoundWin, SoundLoss}
}
