package di

import (
	"context"
	"crypto_backend/internal/feature/analysis/adapters/gemini"
	"crypto_backend/internal/feature/analysis/adapters/narrativecache"
	analysisusecase "crypto_backend/internal/feature/analysis/usecase"
	"crypto_backend/internal/platform/config"
	"crypto_backend/internal/platform/externalapi/deepseek"
	infrahttp "crypto_backend/internal/platform/http"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewLanguageModel creates the analysis model client of the configured provider.
func NewLanguageModel(ctx context.Context, cfg *config.Config) (analysisusecase.LanguageModel, error) {
	httpClient := infrahttp.NewHTTPClient(cfg.LLM.Timeout)
	switch cfg.LLM.Provider {
	case "deepseek":
		return deepseek.NewDeepSeekAnalyzer(deepseek.Config{
			APIKey:  cfg.LLM.DeepSeekKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, httpClient), nil
	case "gemini":
		g, err := gemini.NewGeminiAnalyzer(ctx, cfg.LLM.GeminiKey, cfg.LLM.Model, httpClient)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// NewNarrativeCache returns a Redis-backed narrative cache when rdb is available.
// Otherwise, it falls back to an in-process cache.
func NewNarrativeCache(rdb *redis.Client, cfg *config.Config) analysisusecase.NarrativeCache {
	if rdb != nil {
		return narrativecache.NewRedis(rdb, cfg.Analysis.CacheTTL)
	}
	return narrativecache.NewMemory(cfg.Analysis.CacheTTL, nil)
}
