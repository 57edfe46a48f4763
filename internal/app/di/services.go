package di

import (
	"context"
	accountusecase "crypto_backend/internal/feature/account/usecase"
	analysisusecase "crypto_backend/internal/feature/analysis/usecase"
	indicatorsusecase "crypto_backend/internal/feature/indicators/usecase"
	tradeadapters "crypto_backend/internal/feature/trading/adapters"
	tradeusecase "crypto_backend/internal/feature/trading/usecase"
	"crypto_backend/internal/platform/config"
	"crypto_backend/internal/platform/externalapi/binance"
	"crypto_backend/internal/platform/metrics"
	"crypto_backend/internal/shared/ratelimiter"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services holds the usecases shared by the HTTP server and the auto trader.
type Services struct {
	Binance    *binance.Client
	Indicators *indicatorsusecase.IndicatorsUsecase
	Account    *accountusecase.AccountUsecase
	Trades     *tradeusecase.TradeUsecase
	Positions  *tradeusecase.PositionsUsecase
	Analysis   *analysisusecase.AnalysisUsecase
}

// NewServices wires every usecase. rdb and rec may be nil.
func NewServices(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, rec *metrics.Recorder) (*Services, error) {
	gw := NewBinanceClient(ctx, cfg)

	llm, err := NewLanguageModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var (
		dispatchObs tradeusecase.DispatchObserver
		llmObs      analysisusecase.LLMObserver
	)
	if rec != nil {
		dispatchObs = rec
		llmObs = rec
	}

	indicators := indicatorsusecase.NewIndicatorsUsecase(NewKlineRepository(rdb, cfg, gw), indicatorsusecase.Settings{
		Coins:       cfg.Analysis.Coins,
		QuoteAsset:  cfg.Analysis.QuoteAsset,
		Timeframes:  cfg.Analysis.Timeframes,
		CandleLimit: cfg.Analysis.CandleLimit,
	})
	account := accountusecase.NewAccountUsecase(gw)
	trades := tradeusecase.NewTradeUsecase(gw, tradeadapters.NewJournalGorm(db), dispatchObs)

	analysis := analysisusecase.NewAnalysisUsecase(analysisusecase.Deps{
		LLM:        llm,
		Indicators: indicators,
		Account:    account,
		Trades:     trades,
		Cache:      NewNarrativeCache(rdb, cfg),
		Limiter:    ratelimiter.NewRateLimiter("llm", cfg.LLM.RateLimit, cfg.LLM.RateInterval),
		Observer:   llmObs,
	}, analysisusecase.Settings{
		QuoteAsset:       cfg.Analysis.QuoteAsset,
		IndicatorTimeout: cfg.Analysis.IndicatorTimeout,
		AccountTimeout:   cfg.Analysis.AccountTimeout,
	})

	return &Services{
		Binance:    gw,
		Indicators: indicators,
		Account:    account,
		Trades:     trades,
		Positions:  tradeusecase.NewPositionsUsecase(gw),
		Analysis:   analysis,
	}, nil
}
