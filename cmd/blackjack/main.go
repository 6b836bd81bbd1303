package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadedpez/blackjack/internal/app"
	"github.com/fadedpez/blackjack/internal/config"
	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, err := logging.OpenFile(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{Logger: logger})
	if err != nil {
		logger.LogError(err)
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		return a.Menu(ctx)
	}

	err = a.Commands().Dispatch(ctx, args)
	if types.IsGameError(err, types.ErrCommandNotFound) {
		a.Commands().Usage(os.Stderr, app.Program)
	}
	if err != nil {
		logger.LogError(err)
	}
	return err
}
