package main

import (
	"context"
	"crypto_backend/internal/app/di"
	analysisusecase "crypto_backend/internal/feature/analysis/usecase"
	"crypto_backend/internal/platform/config"
	infradb "crypto_backend/internal/platform/db"
	"crypto_backend/internal/platform/logger"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	once := flag.Bool("once", false, "run a single round and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(logger.New(cfg.Log.Format, cfg.Log.Level))

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		log.Fatalf("missing credentials: %v", missing)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := infradb.OpenJournalDB(infradb.Config{Driver: cfg.Journal.Driver, DSN: cfg.Journal.DSN})
	if err != nil {
		log.Fatal(err)
	}
	svc, err := di.NewServices(ctx, cfg, db, nil, nil)
	if err != nil {
		log.Fatal(err)
	}

	at := cfg.AutoTrader
	scheduler := analysisusecase.NewScheduler(svc.Analysis, analysisusecase.SchedulerSettings{
		Coins:               at.Coins,
		Interval:            at.Interval,
		ConfidenceThreshold: at.ConfidenceThreshold,
		MaxRetries:          at.MaxRetries,
		RetryDelay:          at.RetryDelay,
	})

	if *once {
		if _, err := scheduler.RunOnce(ctx); err != nil {
			log.Fatal(err)
		}
		slog.Info("auto trading round ok")
		return
	}

	slog.Info("auto trader started", "coins", at.Coins, "interval", at.Interval)
	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	slog.Info("auto trader stopped")
}
