package usecase_test

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/analysis/domain/entity"
	indicators "crypto_backend/internal/feature/indicators/domain/entity"
	indicatorsusecase "crypto_backend/internal/feature/indicators/usecase"
	trading "crypto_backend/internal/feature/trading/domain/entity"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// mockLLM はLanguageModelインターフェースのモック実装です。
type mockLLM struct {
	mu           sync.Mutex
	GenerateFunc func(ctx context.Context, p entity.Prompt) (string, error)
	prompts      []entity.Prompt
}

func (m *mockLLM) Generate(ctx context.Context, p entity.Prompt) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, p)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, p)
	}
	return "", errors.New("GenerateFunc is not implemented")
}

func (m *mockLLM) Model() string { return "test-model" }

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLM) lastPrompt() entity.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prompts[len(m.prompts)-1]
}

// mockIndicators はIndicatorProviderインターフェースのモック実装です。BTCとETHのみ対応します。
type mockIndicators struct {
	SnapshotFunc  func(ctx context.Context, coin string, timeframes ...string) (*indicators.Snapshot, error)
	snapshotCalls atomic.Int32
}

func (m *mockIndicators) ResolveSymbol(coin string) (string, string, error) {
	c := strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(coin)), "USDT")
	if c != "BTC" && c != "ETH" {
		return "", "", fmt.Errorf("%w: %q (supported: BTC, ETH)", indicatorsusecase.ErrUnsupportedSymbol, coin)
	}
	return c, c + "USDT", nil
}

func (m *mockIndicators) Snapshot(ctx context.Context, coin string, timeframes ...string) (*indicators.Snapshot, error) {
	m.snapshotCalls.Add(1)
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx, coin, timeframes...)
	}
	return nil, errors.New("SnapshotFunc is not implemented")
}

// mockAccount はAccountProviderインターフェースのモック実装です。
type mockAccount struct {
	OverviewFunc  func(ctx context.Context) (*domain.AccountOverview, error)
	overviewCalls atomic.Int32
}

func (m *mockAccount) Overview(ctx context.Context) (*domain.AccountOverview, error) {
	m.overviewCalls.Add(1)
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx)
	}
	return nil, errors.New("OverviewFunc is not implemented")
}

// mockTrades はTradeRunnerインターフェースのモック実装です。呼び出し順を記録します。
type mockTrades struct {
	mu      sync.Mutex
	RunFunc func(ctx context.Context, a trading.Action) (*trading.Result, error)
	actions []trading.Action
	sources []string
}

func (m *mockTrades) Run(ctx context.Context, a trading.Action, source string) (*trading.Result, error) {
	m.mu.Lock()
	m.actions = append(m.actions, a)
	m.sources = append(m.sources, source)
	m.mu.Unlock()
	if m.RunFunc != nil {
		return m.RunFunc(ctx, a)
	}
	return &trading.Result{Kind: a.Kind(), Symbol: a.Target()}, nil
}

func (m *mockTrades) kinds() []trading.ActionKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]trading.ActionKind, len(m.actions))
	for i, a := range m.actions {
		out[i] = a.Kind()
	}
	return out
}

// dataset は最新の終値とRSIを持つ2行のデータセットを作ります。
func dataset(lastClose, lastRSI float64) *indicators.AlignedDataset {
	return &indicators.AlignedDataset{
		Timestamps: []int64{1704067200000, 1704068100000},
		Opens:      []float64{lastClose - 20, lastClose - 10},
		Highs:      []float64{lastClose + 10, lastClose + 20},
		Lows:       []float64{lastClose - 30, lastClose - 20},
		Closes:     []float64{lastClose - 10, lastClose},
		Volumes:    []float64{12, 15},
		Indicators: indicators.Series{
			SMA:  []float64{lastClose - 50, lastClose - 40},
			EMA:  []float64{lastClose - 45, lastClose - 35},
			RSI:  []float64{lastRSI - 1, lastRSI},
			MACD: indicators.MACD{DIF: []float64{1, 2}, DEA: []float64{0.5, 1}, Histogram: []float64{0.5, 1}},
		},
	}
}

func snapshotOf(symbol string, results ...indicators.TimeframeResult) *indicators.Snapshot {
	return &indicators.Snapshot{
		Coin:       strings.TrimSuffix(symbol, "USDT"),
		Symbol:     symbol,
		Timeframes: results,
		UpdateTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func okSnapshot(ctx context.Context, coin string, timeframes ...string) (*indicators.Snapshot, error) {
	if len(timeframes) == 0 {
		timeframes = []string{"5m", "15m", "1h", "4h", "1d"}
	}
	results := make([]indicators.TimeframeResult, 0, len(timeframes))
	for i, tf := range timeframes {
		results = append(results, indicators.TimeframeResult{Timeframe: tf, Dataset: dataset(60000+float64(i)*100, 50+float64(i))})
	}
	return snapshotOf(coin+"USDT", results...), nil
}

func overviewWith(positions ...domain.Position) func(context.Context) (*domain.AccountOverview, error) {
	return func(context.Context) (*domain.AccountOverview, error) {
		return &domain.AccountOverview{Positions: positions}, nil
	}
}

func position(symbol, amt string) domain.Position {
	return domain.Position{
		Symbol:       symbol,
		PositionAmt:  decimal.RequireFromString(amt),
		EntryPrice:   decimal.RequireFromString("60000"),
		PositionSide: domain.PositionSideBoth,
	}
}
