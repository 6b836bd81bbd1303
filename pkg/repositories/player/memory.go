package player

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/google/uuid"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	players      map[int64]*entities.Player
	byName       map[string]int64
	transactions map[int64][]*entities.Transaction
	txIDs        map[string]bool
	nextID       int64
	mu           sync.RWMutex
}

// NewMemoryRepository creates a new in-memory player repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		players:      make(map[int64]*entities.Player),
		byName:       make(map[string]int64),
		transactions: make(map[int64][]*entities.Transaction),
		txIDs:        make(map[string]bool),
		nextID:       1,
	}
}

// CreatePlayer inserts a new player
func (r *MemoryRepository) CreatePlayer(ctx context.Context, name string, balance int64) (*entities.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return nil, ErrPlayerExists
	}

	now := time.Now()
	p := &entities.Player{
		ID:        r.nextID,
		Name:      name,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
	r.players[p.ID] = p
	r.byName[name] = p.ID

	playerCopy := *p
	return &playerCopy, nil
}

// GetPlayer retrieves a player by ID
func (r *MemoryRepository) GetPlayer(ctx context.Context, id int64) (*entities.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.players[id]
	if !exists {
		return nil, ErrPlayerNotFound
	}

	// Return a copy to prevent concurrent modification
	playerCopy := *p
	return &playerCopy, nil
}

// GetPlayerByName retrieves a player by name
func (r *MemoryRepository) GetPlayerByName(ctx context.Context, name string) (*entities.Player, error) {
	r.mu.RLock()
	id, exists := r.byName[name]
	r.mu.RUnlock()

	if !exists {
		return nil, ErrPlayerNotFound
	}
	return r.GetPlayer(ctx, id)
}

// ListPlayers returns every player ordered by ID
func (r *MemoryRepository) ListPlayers(ctx context.Context) ([]*entities.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]*entities.Player, 0, len(r.players))
	for _, p := range r.players {
		playerCopy := *p
		players = append(players, &playerCopy)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
	return players, nil
}

// RecordBalance sets the balance and appends the ledger row under one lock
func (r *MemoryRepository) RecordBalance(ctx context.Context, transaction *entities.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.players[transaction.PlayerID]
	if !exists {
		return ErrPlayerNotFound
	}
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if r.txIDs[transaction.ID] {
		return ErrDuplicateEntry
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}

	p.Balance = transaction.BalanceAfter
	p.UpdatedAt = transaction.Timestamp
	txCopy := *transaction
	r.transactions[transaction.PlayerID] = append(r.transactions[transaction.PlayerID], &txCopy)
	r.txIDs[transaction.ID] = true
	return nil
}

// GetTransactions returns a player's most recent ledger rows, newest first
func (r *MemoryRepository) GetTransactions(ctx context.Context, playerID int64, limit int) ([]*entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transactions := r.transactions[playerID]
	result := make([]*entities.Transaction, 0, len(transactions))
	for i := len(transactions) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		txCopy := *transactions[i]
		result = append(result, &txCopy)
	}
	return result, nil
}
