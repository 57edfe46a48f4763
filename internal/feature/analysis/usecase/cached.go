package usecase

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/analysis/domain/entity"
	"log/slog"
	"strings"
)

// narrativeTimeframes is how many timeframes the cached narrative summarises.
const narrativeTimeframes = 3

// CachedAnalyze returns a narrative for coin, reusing one produced within the
// cache TTL. Concurrent misses for the same symbol share a single model call.
// The boolean result reports a cache hit.
func (u *AnalysisUsecase) CachedAnalyze(ctx context.Context, coin string) (*entity.Narrative, bool, error) {
	coin, symbol, err := u.indicators.ResolveSymbol(coin)
	if err != nil {
		return nil, false, err
	}
	if n, ok := u.cache.Get(ctx, symbol); ok {
		return &n, true, nil
	}

	v, err, _ := u.inflight.Do(symbol, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		if n, ok := u.cache.Get(fctx, symbol); ok {
			return &n, nil
		}
		n, err := u.narrative(fctx, coin, symbol)
		if err != nil {
			return nil, err
		}
		u.cache.Set(fctx, symbol, *n)
		return n, nil
	})
	if err != nil {
		return nil, false, err
	}
	n := *v.(*entity.Narrative)
	return &n, false, nil
}

// narrative builds a concise analysis from the latest row of each timeframe.
// Account data is optional.
func (u *AnalysisUsecase) narrative(ctx context.Context, coin, symbol string) (*entity.Narrative, error) {
	snap, err := u.snapshot(ctx, coin)
	if err != nil {
		return nil, err
	}

	related := 0
	if overview, err := u.account.Overview(ctx); err != nil {
		slog.Warn("cached analysis: account unavailable", "symbol", symbol, "error", err)
	} else {
		for _, p := range domain.ActivePositions(overview.Positions) {
			if strings.Contains(p.Symbol, coin) {
				related++
			}
		}
	}

	text, err := u.generate(ctx, "narrative.tmpl", map[string]any{
		"Coin":             coin,
		"KeyData":          latestValues(snap, narrativeTimeframes),
		"RelatedPositions": related,
	}, analystSystem, 0.3, 500)
	if err != nil {
		return nil, err
	}
	return &entity.Narrative{Coin: coin, Symbol: symbol, Text: text, Time: u.now()}, nil
}
