package blackjack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fadedpez/blackjack/internal/types"
)

// MinBet is the smallest wager the table accepts
const MinBet int64 = 1

// BetPresets are the quick-pick table bets, chosen with "1" through "4"
var BetPresets = []int64{10, 25, 50, 100}

// CustomBetChoice selects a typed-in amount from the bet menu
const CustomBetChoice = "5"

// BetMenu renders the bet prompt for the given balance
func BetMenu(balance int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You have $%d. Place your bet:\n", balance)
	for i, amount := range BetPresets {
		fmt.Fprintf(&b, "  %d) $%d\n", i+1, amount)
	}
	fmt.Fprintf(&b, "  %s) Custom amount\n", CustomBetChoice)
	b.WriteString("Choose an option: ")
	return b.String()
}

// PresetBet returns the preset amount for a menu choice
func PresetBet(choice string) (int64, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(BetPresets) {
		return 0, false
	}
	return BetPresets[n-1], true
}

// ParseBetAmount reads a whole-dollar amount such as "40" or "$40"
func ParseBetAmount(input string) (int64, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(input), "$")
	amount, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, types.WrapError(types.ErrInvalidInput, "Please enter a whole dollar amount.", err)
	}
	return amount, nil
}

// PlaceBet validates a wager and returns the amount to escrow.
// maxBet of zero means the table has no maximum.
func PlaceBet(balance, amount, maxBet int64) (int64, error) {
	if amount < MinBet {
		return 0, types.NewGameError(types.ErrInvalidBet, fmt.Sprintf("The minimum bet is $%d.", MinBet))
	}
	if amount > balance {
		return 0, types.NewGameError(types.ErrInvalidBet, fmt.Sprintf("You only have $%d to bet.", balance))
	}
	if maxBet > 0 && amount > maxBet {
		return 0, types.NewGameError(types.ErrInvalidBet, fmt.Sprintf("The table maximum is $%d.", maxBet))
	}
	return amount, nil
}
