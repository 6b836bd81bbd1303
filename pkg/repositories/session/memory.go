package session

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	sessions []*entities.GameSession
	nextID   int64
	mu       sync.RWMutex
}

// NewMemoryRepository creates a new in-memory session repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

// AppendSession stores a completed round
func (r *MemoryRepository) AppendSession(ctx context.Context, session *entities.GameSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session.ID = r.nextID
	r.nextID++
	if session.Timestamp.IsZero() {
		session.Timestamp = time.Now()
	}

	sessionCopy := *session
	r.sessions = append(r.sessions, &sessionCopy)
	return nil
}

// ListSessions returns the most recent sessions, newest first
func (r *MemoryRepository) ListSessions(ctx context.Context, limit int) ([]*entities.GameSession, error) {
	return r.newest(limit, func(*entities.GameSession) bool { return true }), nil
}

// ListPlayerSessions returns one player's most recent sessions, newest first
func (r *MemoryRepository) ListPlayerSessions(ctx context.Context, playerID int64, limit int) ([]*entities.GameSession, error) {
	return r.newest(limit, func(s *entities.GameSession) bool { return s.PlayerID == playerID }), nil
}

func (r *MemoryRepository) newest(limit int, keep func(*entities.GameSession) bool) []*entities.GameSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.GameSession, 0)
	for i := len(r.sessions) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		if keep(r.sessions[i]) {
			sessionCopy := *r.sessions[i]
			result = append(result, &sessionCopy)
		}
	}
	return result
}
