package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Input errors, recovered by re-prompting
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrInvalidBet    ErrorCode = "INVALID_BET"
	ErrInvalidAction ErrorCode = "INVALID_ACTION"

	// Round errors
	ErrInvalidState ErrorCode = "INVALID_STATE"
	ErrShoeEmpty    ErrorCode = "SHOE_EMPTY"

	// Player errors
	ErrPlayerNotFound    ErrorCode = "PLAYER_NOT_FOUND"
	ErrInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"

	// System errors
	ErrInvalidConfig     ErrorCode = "INVALID_CONFIG"
	ErrInternalError     ErrorCode = "INTERNAL_ERROR"
	ErrNetworkError      ErrorCode = "NETWORK_ERROR"
	ErrDatabaseError     ErrorCode = "DATABASE_ERROR"
	ErrAdviceUnavailable ErrorCode = "ADVICE_UNAVAILABLE"
	ErrCommandNotFound   ErrorCode = "COMMAND_NOT_FOUND"
)

// GameError represents a game-related error
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GameError) Unwrap() error {
	return e.Err
}

// NewGameError creates a new GameError
func NewGameError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a GameError
func WrapError(code ErrorCode, message string, err error) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsGameError reports whether err, or anything it wraps, is a GameError with the given code
func IsGameError(err error, code ErrorCode) bool {
	var gameErr *GameError
	if !As(err, &gameErr) {
		return false
	}
	return gameErr.Code == code
}

// IsInputError reports whether err should be handled by asking the user again
func IsInputError(err error) bool {
	return IsGameError(err, ErrInvalidInput) ||
		IsGameError(err, ErrInvalidBet) ||
		IsGameError(err, ErrInvalidAction)
}

// As finds the first GameError in err's chain
func As(err error, target **GameError) bool {
	if err == nil || target == nil {
		return false
	}
	return errors.As(err, target)
}
