package main

import (
	"context"
	"contacts/internal/app"
	"contacts/internal/config"
	"contacts/internal/lib/logger/sl"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("no .env file loaded")
	}
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	log.Info("starting contacts api", slog.String("env", cfg.Env), slog.Int("port", cfg.HTTPServer.Port))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application := app.New(ctx, log, cfg)

	grp, grpCtx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		return application.HTTPServer.Run()
	})

	grp.Go(func() error {
		<-grpCtx.Done()
		log.Info("received signal to stop")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		return application.HTTPServer.Stop(shutdownCtx)
	})

	if err := grp.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", sl.Err(err))
	}

	if err := application.CloseStorage(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}
	log.Info("gracefully stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal, config.EnvDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
