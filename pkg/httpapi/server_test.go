package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/fadedpez/blackjack/pkg/repositories/player"
	"github.com/fadedpez/blackjack/pkg/repositories/session"
	"github.com/fadedpez/blackjack/pkg/services/statistics"
	"github.com/fadedpez/blackjack/pkg/services/wallet"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ServerTestSuite struct {
	suite.Suite
	ctx      context.Context
	wallet   *wallet.Service
	sessions *session.MemoryRepository
	handler  http.Handler
	tuco     *entities.Player
}

func (s *ServerTestSuite) SetupTest() {
	s.ctx = context.Background()
	players := player.NewMemoryRepository()
	s.sessions = session.NewMemoryRepository()
	s.wallet = wallet.NewService(players, 100, nil)

	var err error
	s.tuco, _, err = s.wallet.GetOrCreatePlayer(s.ctx, "Tuco")
	s.Require().NoError(err)
	blondie, _, err := s.wallet.GetOrCreatePlayer(s.ctx, "Blondie")
	s.Require().NoError(err)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, sess := range []*entities.GameSession{
		{RoundID: "r1", PlayerID: s.tuco.ID, PlayerName: "Tuco", PlayerValue: 20, DealerValue: 18, Outcome: entities.OutcomeWin, Bet: 10, Payout: 20, Timestamp: at},
		{RoundID: "r2", PlayerID: blondie.ID, PlayerName: "Blondie", PlayerValue: 23, DealerValue: 18, Outcome: entities.OutcomeLoss, Bet: 10, Timestamp: at},
		{RoundID: "r3", PlayerID: s.tuco.ID, PlayerName: "Tuco", PlayerValue: 21, DealerValue: 19, Outcome: entities.OutcomeWin, Blackjack: true, Bet: 10, Payout: 25, Timestamp: at},
	} {
		s.Require().NoError(s.sessions.AppendSession(s.ctx, sess))
	}
	s.Require().NoError(s.wallet.SetBalance(s.ctx, s.tuco.ID, 90, entities.TransactionTypeBet, "r4", "Bet placed"))

	s.handler = NewServer(s.wallet, s.sessions, statistics.NewService(players, s.sessions), nil).Router()
}

func (s *ServerTestSuite) get(path string, v any) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if v != nil {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
	}
	return rec
}

func (s *ServerTestSuite) TestHealth() {
	var body map[string]bool
	rec := s.get("/api/health", &body)
	s.Equal(http.StatusOK, rec.Code)
	s.True(body["ok"])
}

func (s *ServerTestSuite) TestSessionsNewestFirst() {
	var sessions []entities.GameSession
	rec := s.get("/api/sessions?limit=2", &sessions)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))
	s.Require().Len(sessions, 2)
	s.Equal("r3", sessions[0].RoundID)
	s.True(sessions[0].Blackjack)
	s.Equal("r2", sessions[1].RoundID)
}

func (s *ServerTestSuite) TestBadLimit() {
	var body errorResponse
	rec := s.get("/api/sessions?limit=lots", &body)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(types.ErrInvalidInput, body.Code)

	rec = s.get("/api/leaderboard?per_page=-1", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ServerTestSuite) TestPlayer() {
	var p entities.Player
	rec := s.get("/api/players/Tuco", &p)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(s.tuco.ID, p.ID)
	s.Equal(int64(90), p.Balance)
}

func (s *ServerTestSuite) TestUnknownPlayer() {
	for _, path := range []string{
		"/api/players/Angel",
		"/api/players/Angel/sessions",
		"/api/players/Angel/stats",
		"/api/players/Angel/transactions",
	} {
		var body errorResponse
		rec := s.get(path, &body)
		s.Equal(http.StatusNotFound, rec.Code, path)
		s.Equal(types.ErrPlayerNotFound, body.Code, path)
	}
}

func (s *ServerTestSuite) TestPlayerSessions() {
	var sessions []entities.GameSession
	rec := s.get("/api/players/Tuco/sessions", &sessions)
	s.Equal(http.StatusOK, rec.Code)
	s.Require().Len(sessions, 2)
	for _, sess := range sessions {
		s.Equal("Tuco", sess.PlayerName)
	}
}

func (s *ServerTestSuite) TestPlayerStats() {
	var body struct {
		Statistics entities.PlayerStatistics `json:"statistics"`
		NetProfit  int64                     `json:"net_profit"`
		WinRate    float64                   `json:"win_rate"`
	}
	rec := s.get("/api/players/Tuco/stats", &body)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(2, body.Statistics.GamesPlayed)
	s.Equal(1, body.Statistics.Blackjacks)
	s.Equal(int64(25), body.NetProfit)
	s.InDelta(100.0, body.WinRate, 1e-9)
}

func (s *ServerTestSuite) TestPlayerTransactions() {
	var txs []entities.Transaction
	rec := s.get("/api/players/Tuco/transactions", &txs)
	s.Equal(http.StatusOK, rec.Code)
	s.Require().Len(txs, 1)
	s.Equal(entities.TransactionTypeBet, txs[0].Type)
	s.Equal(int64(-10), txs[0].Amount)
}

func (s *ServerTestSuite) TestLeaderboard() {
	var board statistics.Leaderboard
	rec := s.get("/api/leaderboard?page=1&per_page=1", &board)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(2, board.TotalPlayers)
	s.Equal(2, board.TotalPages)
	s.Require().Len(board.Players, 1)
	s.Equal("Tuco", board.Players[0].PlayerName)
	s.True(board.Players[0].IsTopWinner)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) ListSessions(ctx context.Context, limit int) ([]*entities.GameSession, error) {
	args := m.Called(ctx, limit)
	sessions, _ := args.Get(0).([]*entities.GameSession)
	return sessions, args.Error(1)
}

func (m *MockSessions) ListPlayerSessions(ctx context.Context, playerID int64, limit int) ([]*entities.GameSession, error) {
	args := m.Called(ctx, playerID, limit)
	sessions, _ := args.Get(0).([]*entities.GameSession)
	return sessions, args.Error(1)
}

func TestStorageFailureIsInternalError(t *testing.T) {
	sessions := new(MockSessions)
	sessions.On("ListSessions", mock.Anything, defaultSessionLimit).Return(nil, errors.New("database is locked"))

	rec := httptest.NewRecorder()
	NewServer(nil, sessions, nil, nil).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "internal error" {
		t.Fatalf("storage error leaked: %q", body.Error)
	}
	sessions.AssertExpectations(t)
}

func TestEmptyHistoryIsEmptyArray(t *testing.T) {
	rec := httptest.NewRecorder()
	NewServer(nil, session.NewMemoryRepository(), nil, nil).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))

	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}
