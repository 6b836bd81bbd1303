package advice

import (
	"context"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/services/blackjack"
)

// Fallback asks each advisor in turn and returns the first answer
type Fallback struct {
	advisors []blackjack.Advisor
	logger   *logging.Logger
}

// NewFallback chains advisors. Nil advisors are skipped.
func NewFallback(logger *logging.Logger, advisors ...blackjack.Advisor) *Fallback {
	if logger == nil {
		logger = logging.Discard()
	}
	f := &Fallback{logger: logger}
	for _, a := range advisors {
		if a != nil {
			f.advisors = append(f.advisors, a)
		}
	}
	return f
}

// Suggest returns the first successful suggestion, or the last error
func (f *Fallback) Suggest(ctx context.Context, player, dealer *blackjack.Hand) (string, error) {
	var lastErr error = types.NewGameError(types.ErrAdviceUnavailable, "no advisors configured")
	for _, a := range f.advisors {
		suggestion, err := a.Suggest(ctx, player, dealer)
		if err == nil {
			return suggestion, nil
		}
		f.logger.Warn("[ADVICE] %T failed, trying next: %v", a, err)
		lastErr = err
	}
	return "", lastErr
}
