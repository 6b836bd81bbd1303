package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (s *ErrorTestSuite) TestNewGameError() {
	err := NewGameError(ErrInvalidBet, "bet must be at least $1")

	s.Equal(ErrInvalidBet, err.Code)
	s.Equal("bet must be at least $1", err.Message)
	s.Nil(err.Err)
}

func (s *ErrorTestSuite) TestWrapError() {
	underlying := errors.New("disk I/O error")

	err := WrapError(ErrDatabaseError, "failed to save session", underlying)

	s.Equal(ErrDatabaseError, err.Code)
	s.Equal("failed to save session", err.Message)
	s.Equal(underlying, err.Err)
	s.ErrorIs(err, underlying)
}

func (s *ErrorTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      *GameError
		expected string
	}{
		{
			name:     "Simple error",
			err:      NewGameError(ErrShoeEmpty, "no cards left in shoe"),
			expected: "SHOE_EMPTY: no cards left in shoe",
		},
		{
			name:     "Wrapped error",
			err:      WrapError(ErrDatabaseError, "failed to update balance", errors.New("locked")),
			expected: "DATABASE_ERROR: failed to update balance (locked)",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error())
		})
	}
}

func (s *ErrorTestSuite) TestIsGameError() {
	gameErr := NewGameError(ErrPlayerNotFound, "player 7 not found")

	testCases := []struct {
		name     string
		err      error
		code     ErrorCode
		expected bool
	}{
		{"Matching game error", gameErr, ErrPlayerNotFound, true},
		{"Non-matching game error", gameErr, ErrInternalError, false},
		{"Wrapped game error", fmt.Errorf("settlement: %w", gameErr), ErrPlayerNotFound, true},
		{"Regular error", errors.New("regular error"), ErrPlayerNotFound, false},
		{"Nil error", nil, ErrPlayerNotFound, false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, IsGameError(tc.err, tc.code))
		})
	}
}

func (s *ErrorTestSuite) TestIsInputError() {
	s.True(IsInputError(NewGameError(ErrInvalidBet, "too big")))
	s.True(IsInputError(NewGameError(ErrInvalidAction, "dance")))
	s.True(IsInputError(NewGameError(ErrInvalidInput, "empty")))
	s.False(IsInputError(NewGameError(ErrShoeEmpty, "empty shoe")))
	s.False(IsInputError(errors.New("plain")))
}

func (s *ErrorTestSuite) TestAs() {
	gameErr := NewGameError(ErrInvalidState, "cannot hit after standing")

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Game error", gameErr, true},
		{"Wrapped game error", fmt.Errorf("round: %w", gameErr), true},
		{"Regular error", errors.New("regular error"), false},
		{"Nil error", nil, false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			var target *GameError
			result := As(tc.err, &target)
			s.Equal(tc.expected, result)
			if tc.expected {
				s.Equal(gameErr, target)
			}
		})
	}
}
