package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fadedpez/blackjack/internal/cli"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/db/migrations"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/fadedpez/blackjack/pkg/httpapi"
	"github.com/fadedpez/blackjack/pkg/scheduler"
)

const (
	menuPrompt      = "Enter 'play' to start a new game, 'view' to view past outcomes, or 'quit' to exit:"
	namePrompt      = "Please enter your player name:"
	playAgainPrompt = "Do you want to play again? (yes/no)"
)

// reindexWindow is how many recent sessions each reindex pass re-puts
const reindexWindow = 500

// Program is the binary name shown in usage
const Program = "blackjack"

func (a *App) registerCommands() (*cli.Registry, error) {
	registry := cli.NewRegistry()
	commands := []cli.Command{
		cli.NewFunc("play", "Play rounds of blackjack [-name NAME]", a.runPlay),
		cli.NewFunc("view", "Show the session history [-limit N] [-name NAME] [-outcome Win|Loss|Tie]", a.runView),
		cli.NewFunc("stats", "Show a player's statistics -name NAME", a.runStats),
		cli.NewFunc("leaderboard", "Rank players by net profit [-page N] [-per-page N]", a.runLeaderboard),
		cli.NewFunc("serve", "Serve the read-only history API [-addr HOST:PORT]", a.runServe),
		cli.NewFunc("migrate", "Apply or create SQLite migrations [-create DESCRIPTION] [-dir DIR]", a.runMigrate),
		cli.NewFunc("help", "Show this help", func(ctx context.Context, args []string) error {
			registry.Usage(a.out, Program)
			return nil
		}),
	}
	for _, cmd := range commands {
		if err := registry.Register(cmd); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// Menu runs the interactive play/view/quit loop. Closing the input quits.
func (a *App) Menu(ctx context.Context) error {
	if err := a.console.ShowBanner(); err != nil {
		a.logger.Warn("[APP] %v", err)
	}
	a.console.ShowInstructions()

	for {
		choice, err := a.console.PromptChoice(menuPrompt)
		if errors.Is(err, io.EOF) {
			a.console.ShowMessage("Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "play":
			err = a.play(ctx, "")
		case "view":
			err = a.view(ctx, 0, "", "")
		case "quit":
			a.console.ShowMessage("Goodbye!")
			return nil
		default:
			a.console.ShowMessage("Invalid input. Please try again.")
			continue
		}

		if errors.Is(err, io.EOF) {
			a.console.ShowMessage("Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) runPlay(ctx context.Context, args []string) error {
	fs := a.flags("play")
	name := fs.String("name", "", "player name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	err := a.play(ctx, *name)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (a *App) play(ctx context.Context, name string) error {
	p, err := a.choosePlayer(ctx, name)
	if err != nil {
		return err
	}

	for {
		if _, err := a.engine.PlayRound(ctx, p); err != nil {
			return err
		}

		again, err := a.console.PromptChoice(playAgainPrompt)
		if err != nil {
			return err
		}
		if again != "yes" && again != "y" {
			a.console.ShowMessage("Thanks for playing!")
			return nil
		}
	}
}

// choosePlayer loads or creates the named player, asking for a name until one is usable
func (a *App) choosePlayer(ctx context.Context, name string) (*entities.Player, error) {
	for {
		if strings.TrimSpace(name) == "" {
			var err error
			if name, err = a.console.PromptText(namePrompt); err != nil {
				return nil, err
			}
		}

		p, created, err := a.wallet.GetOrCreatePlayer(ctx, name)
		if types.IsInputError(err) {
			var gameErr *types.GameError
			types.As(err, &gameErr)
			a.console.ShowMessage(gameErr.Message)
			name = ""
			continue
		}
		if err != nil {
			return nil, err
		}

		if created {
			a.console.ShowMessage(fmt.Sprintf("Welcome, %s! You start with $%d.", p.Name, p.Balance))
		} else {
			a.console.ShowMessage(fmt.Sprintf("Welcome back, %s. Your balance is $%d.", p.Name, p.Balance))
		}
		return p, nil
	}
}

func (a *App) runView(ctx context.Context, args []string) error {
	fs := a.flags("view")
	limit := fs.Int("limit", 0, "most recent sessions to show, 0 for all")
	name := fs.String("name", "", "only this player's sessions")
	outcome := fs.String("outcome", "", "only Win, Loss or Tie (with -name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.view(ctx, *limit, *name, *outcome)
}

func (a *App) view(ctx context.Context, limit int, name, outcome string) error {
	if name == "" {
		sessions, err := a.sessions.ListSessions(ctx, limit)
		if err != nil {
			return err
		}
		return a.console.ShowSessions(sessions)
	}

	want, err := parseOutcome(outcome)
	if err != nil {
		return err
	}
	p, err := a.wallet.FindPlayer(ctx, name)
	if err != nil {
		return err
	}

	if a.search != nil {
		sessions, err := a.search.SearchPlayerSessions(ctx, p.Name, want, limit)
		if err == nil {
			return a.console.ShowSessions(sessions)
		}
		a.logger.Warn("[ES] Search failed, reading from storage: %v", err)
	}

	sessions, err := a.sessions.ListPlayerSessions(ctx, p.ID, 0)
	if err != nil {
		return err
	}
	filtered := make([]*entities.GameSession, 0, len(sessions))
	for _, s := range sessions {
		if limit > 0 && len(filtered) >= limit {
			break
		}
		if want == "" || s.Outcome == want {
			filtered = append(filtered, s)
		}
	}
	return a.console.ShowSessions(filtered)
}

func parseOutcome(raw string) (entities.Outcome, error) {
	if raw == "" {
		return "", nil
	}
	for _, o := range []entities.Outcome{entities.OutcomeWin, entities.OutcomeLoss, entities.OutcomeTie} {
		if strings.EqualFold(raw, string(o)) {
			return o, nil
		}
	}
	return "", types.NewGameError(types.ErrInvalidInput, fmt.Sprintf("outcome must be Win, Loss or Tie, got %q", raw))
}

func (a *App) runStats(ctx context.Context, args []string) error {
	fs := a.flags("stats")
	name := fs.String("name", "", "player name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := a.wallet.FindPlayer(ctx, *name)
	if err != nil {
		return err
	}
	stats, err := a.stats.PlayerStatistics(ctx, p.ID)
	if err != nil {
		return err
	}
	a.console.ShowStatistics(stats)
	return nil
}

func (a *App) runLeaderboard(ctx context.Context, args []string) error {
	fs := a.flags("leaderboard")
	page := fs.Int("page", 1, "page to show")
	perPage := fs.Int("per-page", 10, "players per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	board, err := a.stats.Leaderboard(ctx, *page, *perPage)
	if err != nil {
		return err
	}
	return a.console.ShowLeaderboard(board)
}

func (a *App) runServe(ctx context.Context, args []string) error {
	fs := a.flags("serve")
	addr := fs.String("addr", a.cfg.HTTPAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.search != nil {
		jobs := scheduler.NewScheduler(a.logger)
		jobs.AddTask("session_reindex", a.cfg.ESReindexInterval, func(ctx context.Context) error {
			_, err := a.search.Reindex(ctx, reindexWindow)
			return err
		})
		jobs.Start(ctx)
		defer jobs.Stop()
	}

	a.console.ShowMessage(fmt.Sprintf("Serving the history API on %s. Press Ctrl-C to stop.", *addr))
	return httpapi.NewServer(a.wallet, a.sessions, a.stats, a.logger).ListenAndServe(ctx, *addr)
}

func (a *App) runMigrate(ctx context.Context, args []string) error {
	fs := a.flags("migrate")
	create := fs.String("create", "", "description of a new, empty migration")
	dir := fs.String("dir", "pkg/db/migrations/sqlite", "directory holding the SQLite migrations")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *create != "" {
		path, err := migrations.CreateMigration(*dir, *create)
		if err != nil {
			return err
		}
		a.console.ShowMessage("Created migration file: " + path)
		return nil
	}

	if a.sqlite == nil {
		a.console.ShowMessage(fmt.Sprintf("%s storage applies its schema when it opens; nothing to migrate.", a.cfg.StorageType))
		return nil
	}

	migrator := migrations.NewMigrator(a.sqlite, migrations.SQLite(), a.logger)
	applied, err := migrator.MigrateUp()
	if err != nil {
		return err
	}
	all, err := migrator.GetAppliedMigrations()
	if err != nil {
		return err
	}
	a.console.ShowMessage(fmt.Sprintf("Applied %d new migration(s); %d total. Schema is current.", applied, len(all)))
	return nil
}
