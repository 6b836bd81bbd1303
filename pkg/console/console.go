package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/fadedpez/blackjack/pkg/services/blackjack"
	"github.com/fadedpez/blackjack/pkg/services/statistics"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const hiddenCard = "Hidden card"

const instructions = `Blackjack is played against the dealer. The goal is a hand closer to 21 than
the dealer's without going over. Place a bet before the deal. You and the
dealer each get two cards; yours are face up, the dealer shows one.

Type "hit" for another card or "stand" to keep your hand. Type "help" for a
suggested play. Going over 21 loses the bet. After you stand the dealer draws
until reaching 17 or more and stands on every 17.

Card values: number cards are worth their number, face cards are worth 10,
and an Ace is worth 11 or 1, whichever keeps the hand at 21 or under.
A two-card 21 is a blackjack and pays 3:2.`

// Console renders the table with pterm and reads answers line by line
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a console on the given streams. Nil streams mean stdin and stdout.
func New(in io.Reader, out io.Writer) *Console {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Console{in: bufio.NewReader(in), out: out}
}

// PromptChoice asks until it gets a non-empty line and returns it lower-cased.
// It returns io.EOF when the input is closed.
func (c *Console) PromptChoice(text string) (string, error) {
	answer, err := c.PromptText(text)
	return strings.ToLower(answer), err
}

// PromptText is PromptChoice without the lower-casing, for names
func (c *Console) PromptText(text string) (string, error) {
	for {
		fmt.Fprint(c.out, pterm.FgLightCyan.Sprint(strings.TrimRight(text, " "))+" ")

		line, err := c.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer != "" {
			return answer, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
			}
			return "", err
		}
	}
}

// ShowHand draws a hand in a titled box. With hideSecond only the first card is shown.
func (c *Console) ShowHand(hand *blackjack.Hand, label string, hideSecond bool) {
	var lines []string
	value := fmt.Sprintf("Value: %d", hand.Value())
	for i, card := range hand.Cards {
		if hideSecond && i == 1 {
			lines = append(lines, pterm.Gray(hiddenCard))
			continue
		}
		lines = append(lines, cardText(card))
	}
	if hideSecond {
		if up, ok := hand.UpCard(); ok {
			value = fmt.Sprintf("Showing: %d", up.Value())
		}
	}
	lines = append(lines, "", value)

	box := pterm.DefaultBox.WithTitle(label).WithTitleTopLeft().WithHorizontalPadding(2)
	fmt.Fprintln(c.out, box.Sprint(strings.Join(lines, "\n")))
}

// ShowMessage prints one line of table talk
func (c *Console) ShowMessage(text string) {
	fmt.Fprintln(c.out, text)
}

// ShowError prints a failure the player should see
func (c *Console) ShowError(err error) {
	fmt.Fprint(c.out, pterm.Error.Sprintln(err.Error()))
}

// ShowBanner prints the title
func (c *Console) ShowBanner() error {
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Black", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("jack", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err != nil {
		return fmt.Errorf("error rendering banner: %w", err)
	}
	fmt.Fprintln(c.out, title)
	return nil
}

// ShowInstructions prints the house rules
func (c *Console) ShowInstructions() {
	box := pterm.DefaultBox.WithTitle("How to play").WithTitleTopCenter().WithHorizontalPadding(2)
	fmt.Fprintln(c.out, box.Sprint(instructions))
}

// ShowSessions prints the session history as a table
func (c *Console) ShowSessions(sessions []*entities.GameSession) error {
	if len(sessions) == 0 {
		c.ShowMessage("No game sessions recorded yet.")
		return nil
	}

	data := pterm.TableData{
		{"Player ID", "Player Name", "Dealer Hand Value", "Player Hand Value", "Outcome", "Bet", "Time"},
	}
	for _, s := range sessions {
		data = append(data, []string{
			fmt.Sprint(s.PlayerID),
			s.PlayerName,
			fmt.Sprint(s.DealerValue),
			fmt.Sprint(s.PlayerValue),
			outcomeText(s),
			fmt.Sprintf("$%d", s.Bet),
			s.Timestamp.Local().Format("2006-01-02 15:04"),
		})
	}
	return c.renderTable(data)
}

// ShowStatistics prints one player's totals
func (c *Console) ShowStatistics(stats *entities.PlayerStatistics) {
	lines := []string{
		fmt.Sprintf("Balance:        $%d", stats.Balance),
		fmt.Sprintf("Games played:   %d", stats.GamesPlayed),
		fmt.Sprintf("Wins:           %d (%.1f%%)", stats.Wins, stats.WinRate()),
		fmt.Sprintf("Losses:         %d", stats.Losses),
		fmt.Sprintf("Ties:           %d", stats.Ties),
		fmt.Sprintf("Blackjacks:     %d", stats.Blackjacks),
		fmt.Sprintf("Busts:          %d", stats.Busts),
		fmt.Sprintf("Total bet:      $%d", stats.TotalBet),
		fmt.Sprintf("Net profit:     %s", money(stats.NetProfit())),
	}
	if !stats.LastPlayed.IsZero() {
		lines = append(lines, "Last played:    "+stats.LastPlayed.Local().Format("2006-01-02 15:04"))
	}

	box := pterm.DefaultBox.WithTitle(stats.PlayerName).WithTitleTopLeft().WithHorizontalPadding(2)
	fmt.Fprintln(c.out, box.Sprint(strings.Join(lines, "\n")))
}

// ShowLeaderboard prints a page of ranked players
func (c *Console) ShowLeaderboard(board *statistics.Leaderboard) error {
	if len(board.Players) == 0 {
		c.ShowMessage("No ranked players yet.")
		return nil
	}

	data := pterm.TableData{{"Rank", "Player", "Games", "Win %", "Net", "Balance", ""}}
	for _, r := range board.Players {
		var badges []string
		if r.IsTopWinner {
			badges = append(badges, "top winner")
		}
		if r.IsTopPlayer {
			badges = append(badges, "most games")
		}
		data = append(data, []string{
			fmt.Sprintf("#%d", r.Rank),
			r.PlayerName,
			fmt.Sprint(r.GamesPlayed),
			fmt.Sprintf("%.1f", r.WinPercent),
			money(r.NetProfit),
			fmt.Sprintf("$%d", r.Balance),
			strings.Join(badges, ", "),
		})
	}
	if err := c.renderTable(data); err != nil {
		return err
	}
	c.ShowMessage(fmt.Sprintf("Page %d of %d", board.CurrentPage, board.TotalPages))
	return nil
}

func (c *Console) renderTable(data pterm.TableData) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("error rendering table: %w", err)
	}
	fmt.Fprintln(c.out, table)
	return nil
}

func cardText(card entities.Card) string {
	switch card.Suit {
	case entities.Hearts, entities.Diamonds:
		return pterm.LightRed(card.String())
	default:
		return card.String()
	}
}

func outcomeText(s *entities.GameSession) string {
	switch {
	case s.Blackjack:
		return pterm.LightGreen(s.Outcome.String() + " (blackjack)")
	case s.Outcome == entities.OutcomeWin:
		return pterm.LightGreen(s.Outcome.String())
	case s.Outcome == entities.OutcomeLoss:
		return pterm.LightRed(s.Outcome.String())
	default:
		return s.Outcome.String()
	}
}

func money(amount int64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%d", -amount)
	}
	return fmt.Sprintf("+$%d", amount)
}
