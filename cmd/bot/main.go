package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gyomeihajime7-hub/spotify-downloader-bot/backend"
	"github.com/gyomeihajime7-hub/spotify-downloader-bot/internal/api"
	"github.com/gyomeihajime7-hub/spotify-downloader-bot/internal/bot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := backend.LoadConfig("")
	if err != nil {
		return err
	}
	backend.InitLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	statusFn := func() map[string]backend.ServiceStatus {
		return backend.CheckServiceStatus(cfg.ProxyURL)
	}

	// Keep-alive HTTP server for the hosting platform's health checks.
	server := api.NewServer(cfg, statusFn)
	go func() {
		if err := server.Start(); err != nil {
			backend.Logger.Error("keep-alive server stopped", "error", err)
		}
	}()
	defer server.Shutdown()

	catalog, err := backend.NewCatalogClient(cfg)
	if err != nil {
		return fmt.Errorf("building catalog client: %w", err)
	}
	downloader := backend.NewDownloader(cfg)
	sessions := backend.NewSessionStore()
	demos := backend.NewDemoCatalog()

	tg, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("authorizing bot: %w", err)
	}
	backend.Logger.Info("authorized", "username", tg.Self.UserName)

	transport := bot.NewTelegramTransport(tg)
	flow := bot.NewFlow(transport, catalog, downloader, sessions, demos, statusFn)

	b := bot.New(tg, flow)
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
