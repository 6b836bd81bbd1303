package statistics

import (
	"context"
	"sort"
	"time"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// PlayerSource lists and loads players
type PlayerSource interface {
	GetPlayer(ctx context.Context, id int64) (*entities.Player, error)
	ListPlayers(ctx context.Context) ([]*entities.Player, error)
}

// SessionSource reads the session history
type SessionSource interface {
	ListSessions(ctx context.Context, limit int) ([]*entities.GameSession, error)
	ListPlayerSessions(ctx context.Context, playerID int64, limit int) ([]*entities.GameSession, error)
}

// Service aggregates session history into per-player statistics
type Service struct {
	players  PlayerSource
	sessions SessionSource
	now      func() time.Time
}

// NewService creates a new statistics service
func NewService(players PlayerSource, sessions SessionSource) *Service {
	return &Service{
		players:  players,
		sessions: sessions,
		now:      time.Now,
	}
}

// PlayerRank represents a player's statistics with ranking information
type PlayerRank struct {
	*entities.PlayerStatistics
	Rank        int     `json:"rank"`
	NetProfit   int64   `json:"net_profit"`
	WinPercent  float64 `json:"win_percent"`
	ReturnRate  float64 `json:"return_rate"`
	IsTopWinner bool    `json:"is_top_winner"`
	IsTopPlayer bool    `json:"is_top_player"`
}

// Leaderboard is one page of ranked players
type Leaderboard struct {
	Players        []*PlayerRank `json:"players"`
	TotalPlayers   int           `json:"total_players"`
	CurrentPage    int           `json:"current_page"`
	TotalPages     int           `json:"total_pages"`
	PlayersPerPage int           `json:"players_per_page"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// PlayerStatistics totals one player's full session history
func (s *Service) PlayerStatistics(ctx context.Context, playerID int64) (*entities.PlayerStatistics, error) {
	p, err := s.players.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.ListPlayerSessions(ctx, playerID, 0)
	if err != nil {
		return nil, err
	}

	stats := &entities.PlayerStatistics{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Balance:    p.Balance,
	}
	for _, session := range sessions {
		stats.Add(session)
	}
	return stats, nil
}

// Leaderboard ranks every player with at least one game by net profit
func (s *Service) Leaderboard(ctx context.Context, page, playersPerPage int) (*Leaderboard, error) {
	if page < 1 {
		page = 1
	}
	if playersPerPage < 1 {
		playersPerPage = 10
	}

	players, err := s.players.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListSessions(ctx, 0)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[int64]*entities.PlayerStatistics, len(players))
	for _, p := range players {
		byPlayer[p.ID] = &entities.PlayerStatistics{PlayerID: p.ID, PlayerName: p.Name, Balance: p.Balance}
	}
	for _, session := range sessions {
		if stats, ok := byPlayer[session.PlayerID]; ok {
			stats.Add(session)
		}
	}

	ranks := make([]*PlayerRank, 0, len(byPlayer))
	for _, stats := range byPlayer {
		if stats.GamesPlayed == 0 {
			continue
		}

		var returnRate float64
		if stats.TotalBet > 0 {
			returnRate = float64(stats.TotalReturned) / float64(stats.TotalBet)
		}
		ranks = append(ranks, &PlayerRank{
			PlayerStatistics: stats,
			NetProfit:        stats.NetProfit(),
			WinPercent:       stats.WinRate(),
			ReturnRate:       returnRate,
		})
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].NetProfit != ranks[j].NetProfit {
			return ranks[i].NetProfit > ranks[j].NetProfit
		}
		if ranks[i].GamesPlayed != ranks[j].GamesPlayed {
			return ranks[i].GamesPlayed > ranks[j].GamesPlayed
		}
		return ranks[i].PlayerID < ranks[j].PlayerID
	})

	if len(ranks) > 0 {
		ranks[0].IsTopWinner = true

		mostGamesIdx := 0
		for i := 1; i < len(ranks); i++ {
			if ranks[i].GamesPlayed > ranks[mostGamesIdx].GamesPlayed {
				mostGamesIdx = i
			}
		}
		ranks[mostGamesIdx].IsTopPlayer = true
	}
	for i := range ranks {
		ranks[i].Rank = i + 1
	}

	totalPlayers := len(ranks)
	totalPages := (totalPlayers + playersPerPage - 1) / playersPerPage
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	start := (page - 1) * playersPerPage
	end := start + playersPerPage
	if end > totalPlayers {
		end = totalPlayers
	}

	pagePlayers := []*PlayerRank{}
	if start < totalPlayers {
		pagePlayers = ranks[start:end]
	}

	return &Leaderboard{
		Players:        pagePlayers,
		TotalPlayers:   totalPlayers,
		CurrentPage:    page,
		TotalPages:     totalPages,
		PlayersPerPage: playersPerPage,
		LastUpdated:    s.now(),
	}, nil
}
