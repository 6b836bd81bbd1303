package entities

import "time"

// DefaultStartingBalance is the money bag handed to a new player
const DefaultStartingBalance int64 = 100

// Player is a persisted player with a unique name and chip balance
type Player struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsBroke reports whether the player cannot cover the minimum bet
func (p *Player) IsBroke() bool {
	return p.Balance < 1
}
