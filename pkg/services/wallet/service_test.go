package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	playerRepo "github.com/fadedpez/blackjack/pkg/repositories/player"
	"github.com/stretchr/testify/suite"
)

type ServiceTestSuite struct {
	suite.Suite
	repo    *playerRepo.MemoryRepository
	service *Service
	ctx     context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.repo = playerRepo.NewMemoryRepository()
	s.service = NewService(s.repo, 100, nil)
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TestGetOrCreatePlayer() {
	p, created, err := s.service.GetOrCreatePlayer(s.ctx, "  Tuco ")
	s.Require().NoError(err)
	s.True(created)
	s.Equal("Tuco", p.Name)
	s.Equal(int64(100), p.Balance)

	again, created, err := s.service.GetOrCreatePlayer(s.ctx, "Tuco")
	s.Require().NoError(err)
	s.False(created)
	s.Equal(p.ID, again.ID)
}

func (s *ServiceTestSuite) TestGetOrCreatePlayerRejectsEmptyName() {
	_, _, err := s.service.GetOrCreatePlayer(s.ctx, "   ")
	s.True(types.IsGameError(err, types.ErrInvalidInput))
}

func (s *ServiceTestSuite) TestStartingBalanceFallsBackToDefault() {
	service := NewService(s.repo, 0, nil)
	p, _, err := service.GetOrCreatePlayer(s.ctx, "Blondie")
	s.Require().NoError(err)
	s.Equal(entities.DefaultStartingBalance, p.Balance)
}

func (s *ServiceTestSuite) TestSetBalanceWritesLedger() {
	p, _, err := s.service.GetOrCreatePlayer(s.ctx, "Tuco")
	s.Require().NoError(err)

	s.Require().NoError(s.service.SetBalance(s.ctx, p.ID, 90, entities.TransactionTypeBet, "round-1", "Bet $10"))
	s.Require().NoError(s.service.SetBalance(s.ctx, p.ID, 115, entities.TransactionTypePayout, "round-1", "Win payout"))

	balance, err := s.service.GetBalance(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(int64(115), balance)

	txs, err := s.service.GetRecentTransactions(s.ctx, p.ID, 10)
	s.Require().NoError(err)
	s.Require().Len(txs, 2)
	s.Equal(entities.TransactionTypePayout, txs[0].Type)
	s.Equal(int64(25), txs[0].Amount)
	s.Equal(int64(115), txs[0].BalanceAfter)
	s.Equal(int64(-10), txs[1].Amount)
	s.Equal("round-1", txs[1].ReferenceID)
}

type failingLedger struct {
	*playerRepo.MemoryRepository
}

func (failingLedger) RecordBalance(context.Context, *entities.Transaction) error {
	return errors.New("disk I/O error")
}

func (s *ServiceTestSuite) TestSetBalanceLedgerFailure() {
	p, _, err := s.service.GetOrCreatePlayer(s.ctx, "Tuco")
	s.Require().NoError(err)

	service := NewService(failingLedger{s.repo}, 100, nil)
	err = service.SetBalance(s.ctx, p.ID, 90, entities.TransactionTypeBet, "r", "Bet $10")
	s.True(types.IsGameError(err, types.ErrDatabaseError))
	s.ErrorContains(err, "disk I/O error")

	balance, err := s.service.GetBalance(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(int64(100), balance)
}

func (s *ServiceTestSuite) TestSetBalanceRejectsNegative() {
	p, _, err := s.service.GetOrCreatePlayer(s.ctx, "Tuco")
	s.Require().NoError(err)

	err = s.service.SetBalance(s.ctx, p.ID, -1, entities.TransactionTypeBet, "r", "")
	s.True(types.IsGameError(err, types.ErrInsufficientFunds))

	balance, err := s.service.GetBalance(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(int64(100), balance)
}

func (s *ServiceTestSuite) TestUnknownPlayer() {
	_, err := s.service.GetBalance(s.ctx, 4242)
	s.True(errors.Is(err, playerRepo.ErrPlayerNotFound))

	err = s.service.SetBalance(s.ctx, 4242, 10, entities.TransactionTypeCredit, "r", "")
	s.True(types.IsGameError(err, types.ErrPlayerNotFound))

	_, err = s.service.FindPlayer(s.ctx, "Angel Eyes")
	s.True(errors.Is(err, playerRepo.ErrPlayerNotFound))
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
