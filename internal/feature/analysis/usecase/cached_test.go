package usecase_test

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/analysis/adapters/narrativecache"
	"crypto_backend/internal/feature/analysis/domain/entity"
	"crypto_backend/internal/feature/analysis/usecase"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// TestAnalysisUsecase_CachedAnalyze はTTL内のキャッシュヒットと期限切れをテストします。
func TestAnalysisUsecase_CachedAnalyze(t *testing.T) {
	clock := &fakeClock{now: fixedNow}
	llm := &mockLLM{GenerateFunc: replyWith("BTC震荡上行")}
	acc := &mockAccount{OverviewFunc: overviewWith(position("BTCUSDT", "0.5"), position("ETHUSDT", "1"))}
	u := newTestUsecase(llm, &mockIndicators{SnapshotFunc: okSnapshot}, acc, &mockTrades{}, narrativecache.NewMemory(time.Minute, clock.Now))

	n, hit, err := u.CachedAnalyze(context.Background(), "BTC")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "BTC震荡上行", n.Text)
	assert.Equal(t, 1, llm.calls())

	p := llm.lastPrompt()
	assert.Equal(t, 0.3, p.Temperature)
	assert.Equal(t, 500, p.MaxTokens)
	assert.Contains(t, p.User, "当前持仓：1个相关仓位")

	clock.Advance(30 * time.Second)
	n, hit, err = u.CachedAnalyze(context.Background(), "btc")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "BTC震荡上行", n.Text)
	assert.Equal(t, 1, llm.calls())

	clock.Advance(31 * time.Second)
	_, hit, err = u.CachedAnalyze(context.Background(), "BTC")
	require.NoError(t, err)
	assert.False(t, hit, "entry must expire after the ttl")
	assert.Equal(t, 2, llm.calls())
}

// TestAnalysisUsecase_CachedAnalyze_Singleflight は同時のキャッシュミスが1回のモデル呼び出しにまとまることをテストします。
func TestAnalysisUsecase_CachedAnalyze_Singleflight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	llm := &mockLLM{GenerateFunc: func(context.Context, entity.Prompt) (string, error) {
		once.Do(func() { close(started) })
		<-release
		return "ETH区间震荡", nil
	}}
	u := newTestUsecase(llm, &mockIndicators{SnapshotFunc: okSnapshot}, &mockAccount{OverviewFunc: overviewWith()},
		&mockTrades{}, narrativecache.NewMemory(time.Minute, func() time.Time { return fixedNow }))

	const callers = 5
	var (
		wg     sync.WaitGroup
		misses atomic.Int32
	)
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, hit, err := u.CachedAnalyze(context.Background(), "ETH")
			if err != nil {
				errs <- err
				return
			}
			if !hit {
				misses.Add(1)
			}
			if n.Text != "ETH区间震荡" {
				errs <- errors.New("unexpected narrative " + n.Text)
			}
		}()
	}

	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, 1, llm.calls())
	assert.GreaterOrEqual(t, misses.Load(), int32(1))
}

// TestAnalysisUsecase_CachedAnalyze_ErrorNotCached は失敗した結果がキャッシュされないことをテストします。
func TestAnalysisUsecase_CachedAnalyze_ErrorNotCached(t *testing.T) {
	fail := true
	llm := &mockLLM{GenerateFunc: func(context.Context, entity.Prompt) (string, error) {
		if fail {
			return "", usecase.ErrLLMUnauthorized
		}
		return "恢复正常", nil
	}}
	u := newTestUsecase(llm, &mockIndicators{SnapshotFunc: okSnapshot}, &mockAccount{OverviewFunc: overviewWith()},
		&mockTrades{}, narrativecache.NewMemory(time.Minute, func() time.Time { return fixedNow }))

	_, _, err := u.CachedAnalyze(context.Background(), "BTC")
	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrLLMUnauthorized)

	fail = false
	n, hit, err := u.CachedAnalyze(context.Background(), "BTC")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "恢复正常", n.Text)
	assert.Equal(t, 2, llm.calls())
}

func TestAnalysisUsecase_CachedAnalyze_AccountOptional(t *testing.T) {
	llm := &mockLLM{GenerateFunc: replyWith("ok")}
	acc := &mockAccount{OverviewFunc: func(context.Context) (*domain.AccountOverview, error) {
		return nil, errors.New("binance down")
	}}
	u := newTestUsecase(llm, &mockIndicators{SnapshotFunc: okSnapshot}, acc, &mockTrades{},
		narrativecache.NewMemory(time.Minute, func() time.Time { return fixedNow }))

	n, _, err := u.CachedAnalyze(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, "ok", n.Text)
	assert.NotContains(t, llm.lastPrompt().User, "相关仓位")
}
