package blackjack

import (
	"context"

	"github.com/fadedpez/blackjack/pkg/entities"
)

// Prompter asks the player for a line of input. Implementations re-ask on
// empty input and return the answer lower-cased.
type Prompter interface {
	PromptChoice(text string) (string, error)
}

// Display shows the table to the player
type Display interface {
	ShowHand(hand *Hand, label string, hideSecond bool)
	ShowMessage(text string)
}

// Advisor suggests a play. The dealer hand holds only the face-up card.
type Advisor interface {
	Suggest(ctx context.Context, player, dealer *Hand) (string, error)
}

// SoundPlayer plays table sound cues
type SoundPlayer interface {
	Play(effect entities.SoundEffect)
}

type nopSounds struct{}

func (nopSounds) Play(entities.SoundEffect) {}
