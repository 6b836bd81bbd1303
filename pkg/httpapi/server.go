package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/fadedpez/blackjack/pkg/services/statistics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const defaultSessionLimit = 50

// Wallet looks players up by name
type Wallet interface {
	FindPlayer(ctx context.Context, name string) (*entities.Player, error)
	GetRecentTransactions(ctx context.Context, playerID int64, limit int) ([]*entities.Transaction, error)
}

// Sessions reads the session history
type Sessions interface {
	ListSessions(ctx context.Context, limit int) ([]*entities.GameSession, error)
	ListPlayerSessions(ctx context.Context, playerID int64, limit int) ([]*entities.GameSession, error)
}

// Statistics aggregates the history
type Statistics interface {
	PlayerStatistics(ctx context.Context, playerID int64) (*entities.PlayerStatistics, error)
	Leaderboard(ctx context.Context, page, playersPerPage int) (*statistics.Leaderboard, error)
}

// Server serves the read-only history API
type Server struct {
	wallet   Wallet
	sessions Sessions
	stats    Statistics
	logger   *logging.Logger
}

// NewServer creates a new API server
func NewServer(wallet Wallet, sessions Sessions, stats Statistics, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{wallet: wallet, sessions: sessions, stats: stats, logger: logger}
}

// Router builds the chi router for the API
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/sessions", s.handleSessions)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Route("/players/{name}", func(r chi.Router) {
			r.Get("/", s.handlePlayer)
			r.Get("/sessions", s.handlePlayerSessions)
			r.Get("/stats", s.handlePlayerStats)
			r.Get("/transactions", s.handlePlayerTransactions)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[HTTP] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("error serving http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("[HTTP] Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("[HTTP] %s %s %d %s (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultSessionLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sessions, err := s.sessions.ListSessions(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(sessions))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		s.writeError(w, err)
		return
	}
	perPage, err := queryInt(r, "per_page", 10)
	if err != nil {
		s.writeError(w, err)
		return
	}

	board, err := s.stats.Leaderboard(r.Context(), page, perPage)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	p, ok := s.player(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePlayerSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultSessionLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, ok := s.player(w, r)
	if !ok {
		return
	}

	sessions, err := s.sessions.ListPlayerSessions(r.Context(), p.ID, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(sessions))
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	p, ok := s.player(w, r)
	if !ok {
		return
	}

	stats, err := s.stats.PlayerStatistics(r.Context(), p.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"statistics": stats,
		"net_profit": stats.NetProfit(),
		"win_rate":   stats.WinRate(),
	})
}

func (s *Server) handlePlayerTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultSessionLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, ok := s.player(w, r)
	if !ok {
		return
	}

	transactions, err := s.wallet.GetRecentTransactions(r.Context(), p.ID, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(transactions))
}

// player resolves {name}, writing the error response itself on failure
func (s *Server) player(w http.ResponseWriter, r *http.Request) (*entities.Player, bool) {
	p, err := s.wallet.FindPlayer(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return p, true
}

type errorResponse struct {
	Error string          `json:"error"`
	Code  types.ErrorCode `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var gameErr *types.GameError
	if !types.As(err, &gameErr) {
		s.logger.Error("[HTTP] %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: types.ErrInternalError})
		return
	}

	status := http.StatusInternalServerError
	switch gameErr.Code {
	case types.ErrPlayerNotFound:
		status = http.StatusNotFound
	case types.ErrInvalidInput:
		status = http.StatusBadRequest
	default:
		s.logger.LogError(err)
	}
	writeJSON(w, status, errorResponse{Error: gameErr.Message, Code: gameErr.Code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, types.NewGameError(types.ErrInvalidInput, fmt.Sprintf("%s must be a non-negative whole number", key))
	}
	return n, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
