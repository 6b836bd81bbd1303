package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	playerRepo "github.com/fadedpez/blackjack/pkg/repositories/player"
	"github.com/google/uuid"
)

// Service handles player balances and the ledger behind them
type Service struct {
	repo            playerRepo.Repository
	startingBalance int64
	logger          *logging.Logger
}

// NewService creates a new wallet service. New players start with startingBalance.
func NewService(repo playerRepo.Repository, startingBalance int64, logger *logging.Logger) *Service {
	if startingBalance < 1 {
		startingBalance = entities.DefaultStartingBalance
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		repo:            repo,
		startingBalance: startingBalance,
		logger:          logger,
	}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", types.NewGameError(types.ErrInvalidInput, "Please enter a player name.")
	}
	return name, nil
}

// GetOrCreatePlayer retrieves a player by name, creating one with the starting balance
// if none exists. The bool reports whether the player was created.
func (s *Service) GetOrCreatePlayer(ctx context.Context, name string) (*entities.Player, bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, false, err
	}

	p, err := s.repo.GetPlayerByName(ctx, name)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, playerRepo.ErrPlayerNotFound) {
		return nil, false, types.WrapError(types.ErrDatabaseError, "could not load player", err)
	}

	p, err = s.repo.CreatePlayer(ctx, name, s.startingBalance)
	if errors.Is(err, playerRepo.ErrPlayerExists) {
		// created by someone else between the lookup and the insert
		p, err = s.repo.GetPlayerByName(ctx, name)
		if err != nil {
			return nil, false, types.WrapError(types.ErrDatabaseError, "could not load player", err)
		}
		return p, false, nil
	}
	if err != nil {
		return nil, false, types.WrapError(types.ErrDatabaseError, "could not create player", err)
	}

	s.logger.Info("[WALLET] Created player %s (%d) with $%d", p.Name, p.ID, p.Balance)
	return p, true, nil
}

// FindPlayer looks up an existing player by name
func (s *Service) FindPlayer(ctx context.Context, name string) (*entities.Player, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	return s.repo.GetPlayerByName(ctx, name)
}

// GetBalance returns the persisted balance for a player
func (s *Service) GetBalance(ctx context.Context, playerID int64) (int64, error) {
	p, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return p.Balance, nil
}

// SetBalance writes an absolute balance and records the change as a ledger row
func (s *Service) SetBalance(ctx context.Context, playerID int64, balance int64, txType entities.TransactionType, referenceID, description string) error {
	if balance < 0 {
		return types.NewGameError(types.ErrInsufficientFunds, fmt.Sprintf("balance cannot go below zero (got $%d)", balance))
	}

	p, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	s.logger.Debug("[WALLET] Player %d: $%d -> $%d (%s %s)", playerID, p.Balance, balance, txType, referenceID)
	transaction := &entities.Transaction{
		ID:           uuid.New().String(),
		PlayerID:     playerID,
		Amount:       balance - p.Balance,
		Type:         txType,
		ReferenceID:  referenceID,
		Description:  description,
		Timestamp:    time.Now(),
		BalanceAfter: balance,
	}
	if err := s.repo.RecordBalance(ctx, transaction); err != nil {
		s.logger.Error("[WALLET] Error recording balance for player %d: %v", playerID, err)
		if errors.Is(err, playerRepo.ErrPlayerNotFound) {
			return err
		}
		return types.WrapError(types.ErrDatabaseError, "could not record balance change", err)
	}
	return nil
}

// GetRecentTransactions returns a player's latest ledger rows, newest first
func (s *Service) GetRecentTransactions(ctx context.Context, playerID int64, limit int) ([]*entities.Transaction, error) {
	return s.repo.GetTransactions(ctx, playerID, limit)
}
