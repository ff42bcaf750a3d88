package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jask/moneybox/internal/backend"
	"github.com/jask/moneybox/internal/config"
	"github.com/jask/moneybox/internal/demo"
	"github.com/jask/moneybox/internal/logger"
	"github.com/jask/moneybox/internal/report"
	"github.com/jask/moneybox/internal/store"
	"github.com/jask/moneybox/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logFile, err := logger.New(logger.Options{Level: cfg.Log.Level, Path: cfg.Log.Path})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logFile.Close()
	ctx = logger.WithContext(ctx, log)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	bcfg, err := backend.FromAppConfig(cfg.Storage)
	if err != nil {
		return err
	}
	storage, err := backend.Open(ctx, bcfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	opts := []store.Option{
		store.WithDefaultCurrency(cfg.UI.DefaultCurrency),
		store.WithTriggerWindow(cfg.Assistant.TriggerWindow),
	}
	finance, err := store.OpenTransactionStore(ctx, storage, opts...)
	if err != nil {
		return err
	}
	defer closeStore("finance", finance.Close)
	if cfg.Demo.Seed {
		now := time.Now().In(loc)
		r := rand.New(rand.NewPCG(uint64(now.UnixNano()), 0))
		if n, _ := demo.Seed(finance, cfg.Demo.Count, r, now); n > 0 {
			log.Info().Int("transactions", n).Msg("demo data added")
		}
	}
	buddy, err := store.OpenAssistantStore(ctx, storage, opts...)
	if err != nil {
		return err
	}
	defer closeStore("assistant", buddy.Close)

	app := tui.New(ctx, cfg, tui.Stores{
		Finance:   finance,
		Assistant: buddy,
		Reports:   report.NewService(finance, cfg.Report.CacheTTL, log),
	}, loc)

	log.Info().Str("backend", string(bcfg.Type)).Msg("moneybox started")
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

func closeStore(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		fmt.Fprintf(os.Stderr, "warn: closing %s store: %v\n", name, err)
	}
}
