package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	upgradenotifier "github.com/magabrotheeeer/prorated-billing/internal/app/upgrade-notifier"
	"github.com/magabrotheeeer/prorated-billing/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting upgrade notifier", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := upgradenotifier.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize upgrade notifier", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("upgrade notifier stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("upgrade notifier stopped gracefully")
}
