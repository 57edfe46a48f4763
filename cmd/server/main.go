package main

import (
	"context"
	"crypto_backend/internal/app/di"
	"crypto_backend/internal/app/router"
	accounthandler "crypto_backend/internal/feature/account/transport/handler"
	analysishandler "crypto_backend/internal/feature/analysis/transport/handler"
	indicatorshandler "crypto_backend/internal/feature/indicators/transport/handler"
	symbollisthandler "crypto_backend/internal/feature/symbollist/transport/handler"
	symbollistusecase "crypto_backend/internal/feature/symbollist/usecase"
	tradehandler "crypto_backend/internal/feature/trading/transport/handler"
	"crypto_backend/internal/platform/config"
	infradb "crypto_backend/internal/platform/db"
	"crypto_backend/internal/platform/http/handler"
	"crypto_backend/internal/platform/logger"
	"crypto_backend/internal/platform/metrics"
	infraredis "crypto_backend/internal/platform/redis"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(logger.New(cfg.Log.Format, cfg.Log.Level))
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenJournalDB(infradb.Config{Driver: cfg.Journal.Driver, DSN: cfg.Journal.DSN})
	if err != nil {
		slog.Error("failed to open trade journal", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if addr := cfg.RedisAddr(); addr == "" {
		slog.Info("REDIS_HOST is not set. Running without Redis cache.")
	} else if tmp, err := infraredis.NewRedisClient(ctx, infraredis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.NewRecorder(nil)
	}

	svc, err := di.NewServices(ctx, cfg, db, rdb, rec)
	if err != nil {
		slog.Error("failed to build services", "error", err)
		os.Exit(1)
	}

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		slog.Warn("credentials missing; readiness will report unhealthy", "missing", missing)
	}

	r := router.NewRouter(router.Handlers{
		Indicators: indicatorshandler.NewIndicatorsHandler(svc.Indicators),
		Account:    accounthandler.NewAccountHandler(svc.Account),
		Trade:      tradehandler.NewTradeHandler(svc.Trades, svc.Positions),
		Analysis:   analysishandler.NewAnalysisHandler(svc.Analysis),
		Symbols:    symbollisthandler.NewSymbolHandler(symbollistusecase.NewSymbolUsecase(svc.Indicators.Settings().Coins, cfg.Analysis.QuoteAsset)),
		Readiness:  handler.NewReadinessHandler(cfg.MissingCredentials, time.Now()),
	}, router.Options{
		JWTSecret:   cfg.Auth.JWTSecret,
		CORSOrigins: cfg.Server.CORSOrigins,
		Metrics:     rec,
		MetricsPath: cfg.Metrics.Path,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "coins", cfg.Analysis.Coins, "llm", cfg.LLM.Provider)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}
}
