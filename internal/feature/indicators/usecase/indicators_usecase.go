// Package usecase implements the multi-timeframe indicator business logic.
package usecase

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/indicators/domain/entity"
	"crypto_backend/internal/feature/indicators/engine"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultQuoteAsset is appended to coin codes to form futures symbols.
	DefaultQuoteAsset = "USDT"
	// DefaultCandleLimit is the number of klines fetched per timeframe.
	DefaultCandleLimit = 60
	// DefaultMaxRows is the maximum number of aligned rows returned per timeframe.
	DefaultMaxRows = 20
)

// DefaultTimeframes are the kline intervals of a full snapshot.
var DefaultTimeframes = []string{"5m", "15m", "1h", "4h", "1d"}

var (
	// ErrSymbolRequired is returned when no coin code was given.
	ErrSymbolRequired = errors.New("symbol is required")
	// ErrUnsupportedSymbol is returned for coins outside the configured list.
	ErrUnsupportedSymbol = errors.New("unsupported symbol")
)

// KlineRepository fetches candles from the exchange.
// Following Go convention, the interface is defined by the consumer (usecase).
type KlineRepository interface {
	Klines(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error)
}

// Settings configures which data a snapshot covers.
type Settings struct {
	Coins       []string // allowed coin codes; empty allows any
	QuoteAsset  string
	Timeframes  []string
	CandleLimit int
	MaxRows     int
	Params      engine.Params
}

func (s Settings) withDefaults() Settings {
	if s.QuoteAsset == "" {
		s.QuoteAsset = DefaultQuoteAsset
	}
	if len(s.Timeframes) == 0 {
		s.Timeframes = DefaultTimeframes
	}
	if s.CandleLimit <= 0 {
		s.CandleLimit = DefaultCandleLimit
	}
	if s.MaxRows <= 0 {
		s.MaxRows = DefaultMaxRows
	}
	if s.Params == (engine.Params{}) {
		s.Params = engine.DefaultParams()
	}
	return s
}

// IndicatorsUsecase builds aligned indicator datasets per timeframe.
type IndicatorsUsecase struct {
	klines   KlineRepository
	settings Settings
	now      func() time.Time
}

// NewIndicatorsUsecase creates an IndicatorsUsecase. Zero settings fall back to defaults.
func NewIndicatorsUsecase(klines KlineRepository, settings Settings) *IndicatorsUsecase {
	return &IndicatorsUsecase{klines: klines, settings: settings.withDefaults(), now: time.Now}
}

// Settings returns the effective settings.
func (u *IndicatorsUsecase) Settings() Settings {
	return u.settings
}

// ResolveSymbol validates a coin code and returns it together with its futures symbol.
// Both "btc" and "BTCUSDT" resolve to ("BTC", "BTCUSDT").
func (u *IndicatorsUsecase) ResolveSymbol(coin string) (string, string, error) {
	c := strings.ToUpper(strings.TrimSpace(coin))
	if c == "" {
		return "", "", ErrSymbolRequired
	}
	if q := u.settings.QuoteAsset; len(c) > len(q) && strings.HasSuffix(c, q) {
		c = strings.TrimSuffix(c, q)
	}
	if len(u.settings.Coins) > 0 && !slices.Contains(u.settings.Coins, c) {
		return "", "", fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedSymbol, c, strings.Join(u.settings.Coins, ", "))
	}
	return c, c + u.settings.QuoteAsset, nil
}

// Snapshot fetches every timeframe concurrently. A failing timeframe is recorded
// in its own slot and never aborts its siblings. When timeframes is empty the
// configured list is used.
func (u *IndicatorsUsecase) Snapshot(ctx context.Context, coin string, timeframes ...string) (*entity.Snapshot, error) {
	c, symbol, err := u.ResolveSymbol(coin)
	if err != nil {
		return nil, err
	}
	if len(timeframes) == 0 {
		timeframes = u.settings.Timeframes
	}

	results := make([]entity.TimeframeResult, len(timeframes))
	var wg sync.WaitGroup
	for i, tf := range timeframes {
		wg.Add(1)
		go func(i int, tf string) {
			defer wg.Done()
			ds, err := u.Timeframe(ctx, symbol, tf)
			if err != nil {
				slog.Warn("timeframe fetch failed", "symbol", symbol, "timeframe", tf, "error", err)
			}
			results[i] = entity.TimeframeResult{Timeframe: tf, Dataset: ds, Err: err}
		}(i, tf)
	}
	wg.Wait()

	return &entity.Snapshot{
		Coin:       c,
		Symbol:     symbol,
		Timeframes: results,
		UpdateTime: u.now(),
	}, nil
}

// Timeframe fetches one kline window and aligns the indicators computed over it.
func (u *IndicatorsUsecase) Timeframe(ctx context.Context, symbol, interval string) (*entity.AlignedDataset, error) {
	candles, err := u.klines.Klines(ctx, symbol, interval, u.settings.CandleLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s klines: %w", interval, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("fetch %s klines: empty response", interval)
	}

	series := engine.Compute(domain.Closes(candles), u.settings.Params)
	ds := engine.AlignAndTrim(candles, series, u.settings.MaxRows)
	ds.Metadata.UpdateTime = u.now()
	return &ds, nil
}
