package app

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"

	"github.com/fadedpez/blackjack/internal/cli"
	"github.com/fadedpez/blackjack/internal/config"
	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/pkg/console"
	"github.com/fadedpez/blackjack/pkg/db"
	"github.com/fadedpez/blackjack/pkg/entities"
	"github.com/fadedpez/blackjack/pkg/repositories/player"
	"github.com/fadedpez/blackjack/pkg/repositories/session"
	"github.com/fadedpez/blackjack/pkg/services/advice"
	"github.com/fadedpez/blackjack/pkg/services/blackjack"
	"github.com/fadedpez/blackjack/pkg/services/statistics"
	"github.com/fadedpez/blackjack/pkg/services/wallet"
	"github.com/fadedpez/blackjack/pkg/sound"
)

// SoundPlayer plays table cues and releases the audio device on Close
type SoundPlayer interface {
	Play(effect entities.SoundEffect)
	Close() error
}

// Options override the process defaults, mainly for tests
type Options struct {
	In     io.Reader
	Out    io.Writer
	Logger *logging.Logger
	Shoe   *entities.Shoe
}

// App is the wired game: storage, services, console and round engine
type App struct {
	cfg      *config.Config
	logger   *logging.Logger
	out      io.Writer
	console  *console.Console
	sqlite   *sql.DB
	wallet   *wallet.Service
	sessions session.Repository
	search   *session.ElasticsearchRepository
	stats    *statistics.Service
	sounds   SoundPlayer
	engine   *blackjack.Engine
	commands *cli.Registry
	closers  []func() error
}

// New opens storage and builds every service from cfg
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	a := &App{cfg: cfg, logger: opts.Logger}
	if a.logger == nil {
		a.logger = logging.Discard()
	}
	a.out = opts.Out
	if a.out == nil {
		a.out = os.Stdout
	}
	a.console = console.New(opts.In, a.out)

	players, sessions, err := a.openStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.sessions = a.mirrorSessions(ctx, sessions)

	a.wallet = wallet.NewService(players, cfg.StartingBalance, a.logger)
	a.stats = statistics.NewService(players, a.sessions)
	a.sounds = a.openSounds()

	a.engine, err = blackjack.NewEngine(blackjack.Rules{
		NumDecks:           cfg.NumDecks,
		ReshuffleThreshold: cfg.ReshuffleThreshold,
		CreditAmount:       cfg.CreditAmount,
		MaxBet:             cfg.MaxBet,
	}, blackjack.Collaborators{
		Wallet:   a.wallet,
		Sessions: a.sessions,
		Prompter: a.console,
		Display:  a.console,
		Advisor:  a.advisor(),
		Sounds:   a.sounds,
		Logger:   a.logger,
	}, opts.Shoe)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.commands, err = a.registerCommands()
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openStorage(ctx context.Context) (player.Repository, session.Repository, error) {
	switch a.cfg.StorageType {
	case config.StorageMemory:
		a.logger.Info("[APP] Using in-memory storage")
		return player.NewMemoryRepository(), session.NewMemoryRepository(), nil

	case config.StoragePostgres:
		pool, err := db.OpenPostgres(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		a.logger.Info("[APP] Using Postgres storage")
		return player.NewPostgresRepository(pool), session.NewPostgresRepository(pool), nil

	default:
		conn, err := db.OpenSQLite(a.cfg.DBPath, a.logger)
		if err != nil {
			return nil, nil, err
		}
		a.sqlite = conn
		a.closers = append(a.closers, conn.Close)
		a.logger.Info("[APP] Using SQLite storage at %s", a.cfg.DBPath)
		return player.NewSQLiteRepository(conn), session.NewSQLiteRepository(conn), nil
	}
}

// mirrorSessions wraps sessions with the Elasticsearch mirror when ES_URL is set.
// An unreachable cluster leaves the game running without the mirror.
func (a *App) mirrorSessions(ctx context.Context, sessions session.Repository) session.Repository {
	if a.cfg.ESURL == "" {
		return sessions
	}

	search, err := session.NewElasticsearchRepository(ctx, sessions, session.ElasticsearchConfig{
		URL:         a.cfg.ESURL,
		Username:    a.cfg.ESUsername,
		Password:    a.cfg.ESPassword,
		IndexPrefix: a.cfg.ESIndexPrefix,
	}, a.logger)
	if err != nil {
		a.logger.Warn("[ES] Session mirror disabled: %v", err)
		return sessions
	}
	a.search = search
	a.logger.Info("[ES] Mirroring sessions to %s", search.Index())
	return search
}

func (a *App) advisor() blackjack.Advisor {
	if a.cfg.OpenAIKey == "" {
		return advice.BasicStrategy{}
	}

	model, err := advice.NewOpenAIClient(advice.OpenAIConfig{
		APIKey:  a.cfg.OpenAIKey,
		Model:   a.cfg.OpenAIModel,
		BaseURL: a.cfg.OpenAIBaseURL,
	}, a.logger)
	if err != nil {
		a.logger.Warn("[ADVICE] Model advice disabled: %v", err)
		return advice.BasicStrategy{}
	}
	return advice.NewFallback(a.logger, model, advice.BasicStrategy{})
}

func (a *App) openSounds() SoundPlayer {
	if !a.cfg.SoundEnabled {
		return sound.Nop{}
	}

	player, err := sound.NewOtoPlayer(a.cfg.SoundDir, a.logger)
	if err != nil {
		a.logger.Warn("[SOUND] Sound disabled: %v", err)
		return sound.Nop{}
	}
	a.closers = append(a.closers, player.Close)
	return player
}

// Commands returns the registered subcommands
func (a *App) Commands() *cli.Registry {
	return a.commands
}

// Close releases storage and audio in reverse order of opening
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
