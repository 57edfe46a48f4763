// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	indicatorsusecase "crypto_backend/internal/feature/indicators/usecase"
	"crypto_backend/internal/platform/cache"
	"crypto_backend/internal/platform/config"
	"crypto_backend/internal/platform/externalapi/binance"
	infrahttp "crypto_backend/internal/platform/http"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// NewBinanceClient creates the futures gateway with its own HTTP client and,
// when credentials are configured, synchronises the request clock with the server.
func NewBinanceClient(ctx context.Context, cfg *config.Config) *binance.Client {
	bc := binance.Config{
		APIKey:    cfg.Binance.APIKey,
		SecretKey: cfg.Binance.SecretKey,
		BaseURL:   cfg.Binance.BaseURL,
		Timeout:   cfg.Binance.Timeout,
		SyncTime:  cfg.Binance.SyncTime,
	}
	client := binance.NewClient(bc, infrahttp.NewHTTPClient(bc.Timeout))
	if !client.HasCredentials() {
		slog.Warn("Binance credentials are not set; signed endpoints are disabled")
		return client
	}
	if bc.SyncTime {
		client.SyncServerTime(ctx)
	}
	return client
}

// NewKlineRepository wraps the exchange kline source with the Redis cache.
// A nil rdb bypasses the cache.
func NewKlineRepository(rdb *redis.Client, cfg *config.Config, inner indicatorsusecase.KlineRepository) indicatorsusecase.KlineRepository {
	return cache.NewCachingKlineRepository(rdb, cfg.Redis.KlineTTL, inner, "klines")
}
