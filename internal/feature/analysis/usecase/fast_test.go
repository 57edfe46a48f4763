package usecase_test

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/analysis/domain/entity"
	"crypto_backend/internal/feature/analysis/usecase"
	indicators "crypto_backend/internal/feature/indicators/domain/entity"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAnalysisUsecase_FastAnalyze は15分足と1時間足の最新値がプロンプトに入ることをテストします。
func TestAnalysisUsecase_FastAnalyze(t *testing.T) {
	var gotTimeframes []string
	ind := &mockIndicators{SnapshotFunc: func(_ context.Context, coin string, tfs ...string) (*indicators.Snapshot, error) {
		gotTimeframes = tfs
		return snapshotOf(coin+"USDT",
			indicators.TimeframeResult{Timeframe: "15m", Dataset: dataset(61000, 58)},
			indicators.TimeframeResult{Timeframe: "1h", Dataset: dataset(62000.5, 45)},
		), nil
	}}
	llm := &mockLLM{GenerateFunc: replyWith("短线偏多，轻仓试多")}
	acc := &mockAccount{OverviewFunc: overviewWith(position("BTCUSDT", "0.5"))}
	u := newTestUsecase(llm, ind, acc, &mockTrades{}, nil)

	n, err := u.FastAnalyze(context.Background(), "BTC")
	require.NoError(t, err)

	assert.Equal(t, "短线偏多，轻仓试多", n.Text)
	assert.Equal(t, "BTCUSDT", n.Symbol)
	assert.False(t, n.Fallback)
	assert.Equal(t, fixedNow, n.Time)
	assert.Equal(t, []string{"15m", "1h"}, gotTimeframes)

	p := llm.lastPrompt()
	assert.Equal(t, 0.1, p.Temperature)
	assert.Equal(t, 150, p.MaxTokens)
	assert.Contains(t, p.User, "15分钟价格:61000, RSI:58")
	assert.Contains(t, p.User, "1小时价格:62000.5, RSI:45")
	assert.Contains(t, p.User, "当前持仓:多 0.5 @ 60000")
}

// TestAnalysisUsecase_FastAnalyze_Fallbacks は各レッグの失敗時に既定値で続行することをテストします。
func TestAnalysisUsecase_FastAnalyze_Fallbacks(t *testing.T) {
	t.Run("indicator leg timeout uses placeholder quotes", func(t *testing.T) {
		ind := &mockIndicators{SnapshotFunc: func(ctx context.Context, _ string, _ ...string) (*indicators.Snapshot, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}
		acc := &mockAccount{OverviewFunc: func(context.Context) (*domain.AccountOverview, error) {
			return nil, errors.New("binance down")
		}}
		llm := &mockLLM{GenerateFunc: replyWith("观望")}
		u := usecase.NewAnalysisUsecase(usecase.Deps{LLM: llm, Indicators: ind, Account: acc},
			usecase.Settings{IndicatorTimeout: 20 * time.Millisecond, AccountTimeout: 20 * time.Millisecond})

		n, err := u.FastAnalyze(context.Background(), "ETH")
		require.NoError(t, err)
		assert.Equal(t, "观望", n.Text)

		p := llm.lastPrompt()
		assert.Contains(t, p.User, "15分钟价格:未知, RSI:50")
		assert.Contains(t, p.User, "1小时价格:未知, RSI:50")
		assert.NotContains(t, p.User, "50200")
		assert.NotContains(t, p.User, "当前持仓")
	})

	t.Run("missing timeframe uses placeholders", func(t *testing.T) {
		ind := &mockIndicators{SnapshotFunc: func(_ context.Context, coin string, _ ...string) (*indicators.Snapshot, error) {
			return snapshotOf(coin+"USDT",
				indicators.TimeframeResult{Timeframe: "15m", Dataset: dataset(3000, 60)},
				indicators.TimeframeResult{Timeframe: "1h", Err: errors.New("timeout")},
			), nil
		}}
		llm := &mockLLM{GenerateFunc: replyWith("观望")}
		u := newTestUsecase(llm, ind, &mockAccount{OverviewFunc: overviewWith()}, &mockTrades{}, nil)

		_, err := u.FastAnalyze(context.Background(), "ETH")
		require.NoError(t, err)

		p := llm.lastPrompt()
		assert.Contains(t, p.User, "15分钟价格:3000, RSI:60")
		assert.Contains(t, p.User, "1小时价格:未知, RSI:50")
	})

	t.Run("model failure yields default narrative", func(t *testing.T) {
		llm := &mockLLM{GenerateFunc: func(context.Context, entity.Prompt) (string, error) {
			return "", usecase.ErrLLMRateLimited
		}}
		u := newTestUsecase(llm, &mockIndicators{SnapshotFunc: okSnapshot}, &mockAccount{OverviewFunc: overviewWith()}, &mockTrades{}, nil)

		n, err := u.FastAnalyze(context.Background(), "BTC")
		require.NoError(t, err)
		assert.Equal(t, "BTC当前市场稳定，建议观望。", n.Text)
		assert.True(t, n.Fallback)
	})

	t.Run("empty model answer", func(t *testing.T) {
		u := newTestUsecase(&mockLLM{GenerateFunc: replyWith("  ")}, &mockIndicators{SnapshotFunc: okSnapshot},
			&mockAccount{OverviewFunc: overviewWith()}, &mockTrades{}, nil)

		n, err := u.FastAnalyze(context.Background(), "BTC")
		require.NoError(t, err)
		assert.Equal(t, "市场分析完成", n.Text)
		assert.False(t, n.Fallback)
	})
}

func TestAnalysisUsecase_FastAnalyze_UnsupportedCoin(t *testing.T) {
	llm := &mockLLM{}
	u := newTestUsecase(llm, &mockIndicators{}, &mockAccount{}, &mockTrades{}, nil)

	_, err := u.FastAnalyze(context.Background(), "PEPE")
	require.Error(t, err)
	assert.Equal(t, 0, llm.calls())
}
