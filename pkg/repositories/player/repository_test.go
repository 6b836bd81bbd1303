package player

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/db"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite runs the same behaviour checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() (Repository, func())
	repo    Repository
	cleanup func()
	ctx     context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo, s.cleanup = s.newRepo()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *RepositoryTestSuite) TestCreateAndGetPlayer() {
	created, err := s.repo.CreatePlayer(s.ctx, "Tuco", 100)
	s.Require().NoError(err)
	s.NotZero(created.ID)
	s.Equal("Tuco", created.Name)
	s.Equal(int64(100), created.Balance)

	byID, err := s.repo.GetPlayer(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.Name, byID.Name)
	s.Equal(int64(100), byID.Balance)

	byName, err := s.repo.GetPlayerByName(s.ctx, "Tuco")
	s.Require().NoError(err)
	s.Equal(created.ID, byName.ID)
}

func (s *RepositoryTestSuite) TestNamesAreUnique() {
	_, err := s.repo.CreatePlayer(s.ctx, "Blondie", 100)
	s.Require().NoError(err)

	_, err = s.repo.CreatePlayer(s.ctx, "Blondie", 50)
	s.True(errors.Is(err, ErrPlayerExists))
}

func (s *RepositoryTestSuite) TestMissingPlayer() {
	_, err := s.repo.GetPlayer(s.ctx, 4242)
	s.True(errors.Is(err, ErrPlayerNotFound))
	s.True(types.IsGameError(err, types.ErrPlayerNotFound))

	_, err = s.repo.GetPlayerByName(s.ctx, "Angel Eyes")
	s.True(errors.Is(err, ErrPlayerNotFound))

	err = s.repo.RecordBalance(s.ctx, &entities.Transaction{PlayerID: 4242, Amount: 10, Type: entities.TransactionTypeCredit, BalanceAfter: 10})
	s.True(errors.Is(err, ErrPlayerNotFound))
}

func (s *RepositoryTestSuite) TestRecordBalanceOverwrites() {
	p, err := s.repo.CreatePlayer(s.ctx, "Tuco", 100)
	s.Require().NoError(err)

	s.Require().NoError(s.repo.RecordBalance(s.ctx, &entities.Transaction{PlayerID: p.ID, Amount: -10, Type: entities.TransactionTypeBet, BalanceAfter: 90}))
	s.Require().NoError(s.repo.RecordBalance(s.ctx, &entities.Transaction{PlayerID: p.ID, Amount: 25, Type: entities.TransactionTypePayout, BalanceAfter: 115}))

	got, err := s.repo.GetPlayer(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(int64(115), got.Balance)
}

func (s *RepositoryTestSuite) TestFailedLedgerWriteKeepsBalance() {
	p, err := s.repo.CreatePlayer(s.ctx, "Tuco", 100)
	s.Require().NoError(err)

	first := &entities.Transaction{ID: "tx-1", PlayerID: p.ID, Amount: -10, Type: entities.TransactionTypeBet, ReferenceID: "r1", BalanceAfter: 90}
	s.Require().NoError(s.repo.RecordBalance(s.ctx, first))

	// same ledger ID again: the row is rejected, so the balance update must roll back
	err = s.repo.RecordBalance(s.ctx, &entities.Transaction{ID: "tx-1", PlayerID: p.ID, Amount: 500, Type: entities.TransactionTypePayout, ReferenceID: "r1", BalanceAfter: 590})
	s.True(errors.Is(err, ErrDuplicateEntry))

	got, err := s.repo.GetPlayer(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(int64(90), got.Balance)

	ledger, err := s.repo.GetTransactions(s.ctx, p.ID, 0)
	s.Require().NoError(err)
	s.Require().Len(ledger, 1)
	s.Equal(int64(90), ledger[0].BalanceAfter)
}

func (s *RepositoryTestSuite) TestListPlayers() {
	first, err := s.repo.CreatePlayer(s.ctx, "Tuco", 100)
	s.Require().NoError(err)
	second, err := s.repo.CreatePlayer(s.ctx, "Blondie", 200)
	s.Require().NoError(err)

	players, err := s.repo.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal(first.ID, players[0].ID)
	s.Equal(second.ID, players[1].ID)
}

func (s *RepositoryTestSuite) TestTransactionsNewestFirst() {
	p, err := s.repo.CreatePlayer(s.ctx, "Tuco", 100)
	s.Require().NoError(err)

	rows := []*entities.Transaction{
		{PlayerID: p.ID, Amount: -10, Type: entities.TransactionTypeBet, ReferenceID: "r1", BalanceAfter: 90},
		{PlayerID: p.ID, Amount: 25, Type: entities.TransactionTypePayout, ReferenceID: "r1", BalanceAfter: 115},
		{PlayerID: p.ID, Amount: -15, Type: entities.TransactionTypeBet, ReferenceID: "r2", BalanceAfter: 100},
	}
	for _, tx := range rows {
		s.Require().NoError(s.repo.RecordBalance(s.ctx, tx))
		s.NotEmpty(tx.ID)
		s.False(tx.Timestamp.IsZero())
	}

	recent, err := s.repo.GetTransactions(s.ctx, p.ID, 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal("r2", recent[0].ReferenceID)
	s.Equal(entities.TransactionTypeBet, recent[0].Type)
	s.Equal(entities.TransactionTypePayout, recent[1].Type)
	s.Equal(int64(115), recent[1].BalanceAfter)

	all, err := s.repo.GetTransactions(s.ctx, p.ID, 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *RepositoryTestSuite) TestTransactionForUnknownPlayer() {
	err := s.repo.RecordBalance(s.ctx, &entities.Transaction{PlayerID: 4242, Amount: 1, Type: entities.TransactionTypeCredit, BalanceAfter: 1})
	s.True(errors.Is(err, ErrPlayerNotFound))
}

func TestMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() (Repository, func()) {
			return NewMemoryRepository(), nil
		},
	})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() (Repository, func()) {
			dir, err := os.MkdirTemp("", "player-repo")
			if err != nil {
				t.Fatal(err)
			}
			conn, err := db.OpenSQLite(filepath.Join(dir, "test.db"), nil)
			if err != nil {
				t.Fatal(err)
			}
			return NewSQLiteRepository(conn), func() {
				conn.Close()
				os.RemoveAll(dir)
			}
		},
	})
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() (Repository, func()) {
			ctx := context.Background()
			pool, err := db.OpenPostgres(ctx, dsn)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := pool.Exec(ctx, `TRUNCATE transactions, game_sessions, players RESTART IDENTITY CASCADE`); err != nil {
				t.Fatal(err)
			}
			return NewPostgresRepository(pool), pool.Close
		},
	})
}
