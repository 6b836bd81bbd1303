package blackjack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/google/uuid"
)

// Player actions during the player turn
const (
	ActionHit   = "hit"
	ActionStand = "stand"
	ActionHelp  = "help"
)

const (
	actionPrompt     = "Do you want to hit, stand or get help? "
	customBetPrompt  = "Enter your bet amount: "
	adviceFailedText = "Advice is unavailable right now."
)

var transitions = map[entities.RoundState][]entities.RoundState{
	entities.StateAwaitingBet: {entities.StateDealt},
	entities.StateDealt:       {entities.StatePlayerTurn, entities.StateResolved},
	entities.StatePlayerTurn:  {entities.StateDealerTurn, entities.StateResolved},
	entities.StateDealerTurn:  {entities.StateResolved},
	entities.StateResolved:    {entities.StateAwaitingBet},
}

// Rules are the table settings for an engine
type Rules struct {
	NumDecks           int
	ReshuffleThreshold int
	CreditAmount       int64
	MaxBet             int64 // 0 means no table maximum
}

// DefaultRules returns a single-deck table with a $100 credit line
func DefaultRules() Rules {
	return Rules{
		NumDecks:           DefaultDecks,
		ReshuffleThreshold: MaxRoundCards(DefaultDecks),
		CreditAmount:       DefaultCreditAmount,
	}
}

// Collaborators are everything the engine talks to outside of the cards.
// Advisor, Sounds and Logger are optional.
type Collaborators struct {
	Wallet   WalletService
	Sessions SessionRecorder
	Prompter Prompter
	Display  Display
	Advisor  Advisor
	Sounds   SoundPlayer
	Logger   *logging.Logger
}

// Round is the in-memory state of one round. Nothing here is persisted until it resolves.
type Round struct {
	ID             string
	PlayerID       int64
	PlayerName     string
	Bet            int64
	Player         *Hand
	Dealer         *Hand
	Result         Result
	Payout         int64
	BalanceBefore  int64 // before escrow, after any credit extension
	BalanceAfter   int64
	CreditExtended bool
}

// Engine runs rounds of single-player blackjack against a shared shoe
type Engine struct {
	rules    Rules
	shoe     *entities.Shoe
	state    entities.RoundState
	wallet   WalletService
	sessions SessionRecorder
	prompter Prompter
	display  Display
	advisor  Advisor
	sounds   SoundPlayer
	logger   *logging.Logger
	now      func() time.Time
}

// NewEngine creates an engine. A nil shoe builds a fresh one from rules.
func NewEngine(rules Rules, c Collaborators, shoe *entities.Shoe) (*Engine, error) {
	if c.Wallet == nil || c.Sessions == nil || c.Prompter == nil || c.Display == nil {
		return nil, types.NewGameError(types.ErrInvalidConfig, "engine needs a wallet, session recorder, prompter and display")
	}
	if rules.CreditAmount < MinBet {
		return nil, types.NewGameError(types.ErrInvalidConfig, "credit amount must cover the minimum bet")
	}
	if rules.ReshuffleThreshold < 0 {
		return nil, types.NewGameError(types.ErrInvalidConfig, "reshuffle threshold cannot be negative")
	}

	if shoe == nil {
		var err error
		shoe, err = entities.NewShoe(rules.NumDecks, nil)
		if err != nil {
			return nil, err
		}
	}

	e := &Engine{
		rules:    rules,
		shoe:     shoe,
		state:    entities.StateResolved,
		wallet:   c.Wallet,
		sessions: c.Sessions,
		prompter: c.Prompter,
		display:  c.Display,
		advisor:  c.Advisor,
		sounds:   c.Sounds,
		logger:   c.Logger,
		now:      time.Now,
	}
	if e.sounds == nil {
		e.sounds = nopSounds{}
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	return e, nil
}

// State returns the engine's current round state
func (e *Engine) State() entities.RoundState {
	return e.state
}

// Shoe returns the shoe the engine deals from
func (e *Engine) Shoe() *entities.Shoe {
	return e.shoe
}

// PlayRound runs one full round for player: bet, deal, player turn, dealer turn, settlement.
// Input errors are handled by asking again. The returned error is either a prompt
// failure, a persistence failure, or an internal defect such as an empty shoe.
func (e *Engine) PlayRound(ctx context.Context, player *entities.Player) (*Round, error) {
	round, err := e.playRound(ctx, player)
	if err != nil && e.state != entities.StateResolved {
		// abandoned rounds are dropped, nothing after the escrow is persisted
		e.logger.Warn("[ENGINE] Abandoning round in state %s: %v", e.state, err)
		e.state = entities.StateResolved
	}
	return round, err
}

func (e *Engine) playRound(ctx context.Context, player *entities.Player) (*Round, error) {
	if err := e.transition(entities.StateAwaitingBet); err != nil {
		return nil, err
	}
	e.reshuffleIfNeeded()

	round := &Round{
		ID:         uuid.New().String(),
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Player:     NewHand(player.Name),
		Dealer:     NewHand("Dealer"),
	}
	e.logger.Info("[ENGINE] Starting round %s for player %s (%d)", round.ID, player.Name, player.ID)

	balance, err := e.ensureCredit(ctx, round)
	if err != nil {
		return nil, err
	}
	round.BalanceBefore = balance

	bet, err := e.promptBet(balance)
	if err != nil {
		return nil, err
	}
	round.Bet = bet

	if err := e.wallet.SetBalance(ctx, player.ID, balance-bet, entities.TransactionTypeBet, round.ID, fmt.Sprintf("Bet $%d", bet)); err != nil {
		return nil, fmt.Errorf("error escrowing bet: %w", err)
	}
	e.logger.Debug("[ENGINE] Escrowed $%d, balance now $%d", bet, balance-bet)

	if err := e.dealInitial(round); err != nil {
		return nil, e.refundIfShoeEmpty(ctx, round, err)
	}

	if round.Player.IsBlackjack() && !round.Dealer.IsBlackjack() {
		e.display.ShowHand(round.Dealer, "Dealer's hand", false)
		if err := e.transition(entities.StateResolved); err != nil {
			return nil, err
		}
		return round, e.settle(ctx, round)
	}

	if err := e.transition(entities.StatePlayerTurn); err != nil {
		return nil, err
	}
	busted, err := e.playerTurn(ctx, round)
	if err != nil {
		return nil, e.refundIfShoeEmpty(ctx, round, err)
	}

	if !busted {
		if err := e.transition(entities.StateDealerTurn); err != nil {
			return nil, err
		}
		if err := e.dealerTurn(round); err != nil {
			return nil, e.refundIfShoeEmpty(ctx, round, err)
		}
	}

	if err := e.transition(entities.StateResolved); err != nil {
		return nil, err
	}
	return round, e.settle(ctx, round)
}

func (e *Engine) transition(to entities.RoundState) error {
	for _, allowed := range transitions[e.state] {
		if allowed == to {
			e.logger.Debug("[ENGINE] %s -> %s", e.state, to)
			e.state = to
			return nil
		}
	}
	return types.NewGameError(types.ErrInvalidState, fmt.Sprintf("cannot move from %s to %s", e.state, to))
}

// reshuffleIfNeeded only runs between rounds, before the first deal
func (e *Engine) reshuffleIfNeeded() {
	if !e.shoe.NeedsReshuffle(e.rules.ReshuffleThreshold) {
		return
	}
	e.logger.Info("[ENGINE] %d cards left, reshuffling %d deck(s)", e.shoe.Remaining(), e.shoe.NumDecks())
	e.shoe.Reshuffle()
	e.sounds.Play(entities.SoundShuffle)
	e.display.ShowMessage("Shuffling a fresh shoe...")
}

func (e *Engine) ensureCredit(ctx context.Context, round *Round) (int64, error) {
	balance, err := e.wallet.GetBalance(ctx, round.PlayerID)
	if err != nil {
		return 0, fmt.Errorf("error reading balance: %w", err)
	}
	if balance >= MinBet {
		return balance, nil
	}

	credit := e.rules.CreditAmount
	if err := e.wallet.SetBalance(ctx, round.PlayerID, credit, entities.TransactionTypeCredit, round.ID, "Credit extension"); err != nil {
		return 0, fmt.Errorf("error extending credit: %w", err)
	}
	round.CreditExtended = true
	e.logger.Info("[ENGINE] Extended $%d credit to player %d (balance was $%d)", credit, round.PlayerID, balance)
	e.display.ShowMessage(fmt.Sprintf("Sorry you've had a string of bad luck. We're extending you $%d in credit.", credit))
	return credit, nil
}

// refundIfShoeEmpty hands the escrowed bet back when the shoe ran dry mid-round.
// The round still fails with err and no session is recorded.
func (e *Engine) refundIfShoeEmpty(ctx context.Context, round *Round, err error) error {
	if !types.IsGameError(err, types.ErrShoeEmpty) {
		return err
	}
	e.shoe.Reshuffle()

	desc := fmt.Sprintf("Refund $%d bet, shoe ran out", round.Bet)
	if refundErr := e.wallet.SetBalance(ctx, round.PlayerID, round.BalanceBefore, entities.TransactionTypePayout, round.ID, desc); refundErr != nil {
		return errors.Join(err, fmt.Errorf("error refunding bet: %w", refundErr))
	}
	e.logger.Error("[ENGINE] Shoe ran out during round %s, refunded $%d to player %d", round.ID, round.Bet, round.PlayerID)
	e.display.ShowMessage(fmt.Sprintf("The shoe ran out mid-round. Your $%d bet has been returned.", round.Bet))
	return err
}

func (e *Engine) promptBet(balance int64) (int64, error) {
	for {
		choice, err := e.prompter.PromptChoice(BetMenu(balance))
		if err != nil {
			return 0, err
		}

		amount, err := e.betChoice(choice)
		if err == nil {
			amount, err = PlaceBet(balance, amount, e.rules.MaxBet)
		}
		if err == nil {
			return amount, nil
		}

		var gameErr *types.GameError
		if !types.IsInputError(err) || !types.As(err, &gameErr) {
			return 0, err
		}
		e.display.ShowMessage(gameErr.Message)
	}
}

func (e *Engine) betChoice(choice string) (int64, error) {
	choice = strings.TrimSpace(choice)
	if amount, ok := PresetBet(choice); ok {
		return amount, nil
	}
	if choice != CustomBetChoice {
		return 0, types.NewGameError(types.ErrInvalidInput, "Invalid input. Please choose an option from 1 to 5.")
	}

	input, err := e.prompter.PromptChoice(customBetPrompt)
	if err != nil {
		return 0, err
	}
	return ParseBetAmount(input)
}

func (e *Engine) deal(hand *Hand) (entities.Card, error) {
	card, err := e.shoe.Deal()
	if err != nil {
		e.logger.LogError(err)
		return entities.Card{}, err
	}
	hand.AddCard(card)
	e.sounds.Play(entities.SoundCard)
	return card, nil
}

func (e *Engine) dealInitial(round *Round) error {
	if err := e.transition(entities.StateDealt); err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		if _, err := e.deal(round.Player); err != nil {
			return err
		}
		if _, err := e.deal(round.Dealer); err != nil {
			return err
		}
	}

	e.display.ShowHand(round.Player, fmt.Sprintf("%s's hand", round.PlayerName), false)
	e.display.ShowHand(round.Dealer, "Dealer's hand", true)
	return nil
}

// playerTurn loops until the player stands, reaches 21, or busts
func (e *Engine) playerTurn(ctx context.Context, round *Round) (bool, error) {
	for {
		if round.Player.Value() == BlackjackValue {
			return false, nil
		}

		choice, err := e.prompter.PromptChoice(actionPrompt)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(choice)) {
		case ActionHit:
			if _, err := e.deal(round.Player); err != nil {
				return false, err
			}
			e.display.ShowHand(round.Player, fmt.Sprintf("%s's hand", round.PlayerName), false)
			if round.Player.IsBust() {
				return true, nil
			}
		case ActionStand:
			return false, nil
		case ActionHelp:
			e.showAdvice(ctx, round)
		default:
			e.display.ShowMessage("Invalid input. Please enter hit, stand or help.")
		}
	}
}

func (e *Engine) showAdvice(ctx context.Context, round *Round) {
	if e.advisor == nil {
		e.display.ShowMessage(adviceFailedText)
		return
	}

	dealerShows := NewHand(round.Dealer.Owner)
	if up, ok := round.Dealer.UpCard(); ok {
		dealerShows.AddCard(up)
	}

	suggestion, err := e.advisor.Suggest(ctx, round.Player, dealerShows)
	if err != nil {
		e.logger.Warn("[ENGINE] Advice failed for round %s: %v", round.ID, err)
		e.display.ShowMessage(adviceFailedText)
		return
	}
	e.display.ShowMessage("Suggested play: " + suggestion)
}

func (e *Engine) dealerTurn(round *Round) error {
	e.display.ShowMessage("Revealing Dealer's Hand...")
	e.display.ShowHand(round.Dealer, "Dealer's hand", false)

	return PlayDealer(e.shoe, round.Dealer, func(entities.Card) {
		e.sounds.Play(entities.SoundCard)
		e.display.ShowHand(round.Dealer, "Dealer's hand", false)
	})
}

// settle applies exactly one settlement against a fresh read of the balance, then logs the session
func (e *Engine) settle(ctx context.Context, round *Round) error {
	round.Result = ClassifyHands(round.Player, round.Dealer)

	current, err := e.wallet.GetBalance(ctx, round.PlayerID)
	if err != nil {
		return fmt.Errorf("error settling round %s: %w", round.ID, err)
	}

	round.Payout = round.Result.Payout(round.Bet)
	round.BalanceAfter = Settle(current, round.Bet, round.Result)
	if round.Payout > 0 {
		desc := fmt.Sprintf("%s payout on $%d bet", round.Result.Outcome, round.Bet)
		if err := e.wallet.SetBalance(ctx, round.PlayerID, round.BalanceAfter, entities.TransactionTypePayout, round.ID, desc); err != nil {
			return fmt.Errorf("error settling round %s: %w", round.ID, err)
		}
	}

	session := &entities.GameSession{
		RoundID:      round.ID,
		PlayerID:     round.PlayerID,
		PlayerName:   round.PlayerName,
		DealerValue:  round.Dealer.Value(),
		PlayerValue:  round.Player.Value(),
		Outcome:      round.Result.Outcome,
		Blackjack:    round.Result.Blackjack,
		Bet:          round.Bet,
		Payout:       round.Payout,
		BalanceAfter: round.BalanceAfter,
		Timestamp:    e.now(),
	}
	if err := e.sessions.AppendSession(ctx, session); err != nil {
		return fmt.Errorf("error recording round %s: %w", round.ID, err)
	}

	e.logger.Info("[ENGINE] Round %s resolved: %s (player %d, dealer %d), bet $%d, payout $%d, balance $%d",
		round.ID, round.Result.Outcome, session.PlayerValue, session.DealerValue, round.Bet, round.Payout, round.BalanceAfter)

	e.display.ShowMessage(round.Result.Message())
	e.display.ShowMessage(fmt.Sprintf("Your balance is now $%d.", round.BalanceAfter))
	if round.Result.Outcome.IsWin() {
		e.sounds.Play(entities.SoundWin)
	} else if round.Result.Outcome == entities.OutcomeLoss {
		e.sounds.Play(entities.SoundLoss)
	}
	return nil
}
