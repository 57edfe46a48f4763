package usecase

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/analysis/domain/entity"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// fastTimeframes are the only timeframes fetched in fast mode.
var fastTimeframes = []string{"15m", "1h"}

// latestQuote is the most recent close and RSI of one timeframe.
type latestQuote struct {
	Close float64
	RSI   float64
}

// Placeholders for a timeframe the indicator leg could not deliver. No price is
// invented since the right scale differs per coin; RSI falls back to neutral.
const (
	unknownClose = "未知"
	neutralRSI   = "50"
)

// FastAnalyze produces a short narrative within a bounded time. The indicator and
// account legs run concurrently with their own deadlines and fall back to default
// data on failure. A model failure yields a default narrative instead of an error.
func (u *AnalysisUsecase) FastAnalyze(ctx context.Context, coin string) (*entity.Narrative, error) {
	coin, symbol, err := u.indicators.ResolveSymbol(coin)
	if err != nil {
		return nil, err
	}

	quotes := make(map[string]latestQuote, len(fastTimeframes))
	var position *domain.Position

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		lctx, cancel := context.WithTimeout(ctx, u.settings.IndicatorTimeout)
		defer cancel()
		snap, err := u.indicators.Snapshot(lctx, coin, fastTimeframes...)
		if err != nil {
			slog.Warn("fast analysis: indicator leg failed, using fallback data", "symbol", symbol, "error", err)
			return
		}
		for _, tf := range fastTimeframes {
			d, ok := snap.Dataset(tf)
			if !ok {
				continue
			}
			c, okc := d.LastClose()
			r, okr := d.LastRSI()
			if okc && okr {
				quotes[tf] = latestQuote{Close: c, RSI: r}
			}
		}
	}()
	go func() {
		defer wg.Done()
		lctx, cancel := context.WithTimeout(ctx, u.settings.AccountTimeout)
		defer cancel()
		overview, err := u.account.Overview(lctx)
		if err != nil {
			slog.Warn("fast analysis: account leg failed, continuing without positions", "symbol", symbol, "error", err)
			return
		}
		if p, ok := domain.FindActive(overview.Positions, symbol); ok {
			position = &p
		}
	}()
	wg.Wait()

	close15m, rsi15m := quoteFields(quotes, "15m")
	close1h, rsi1h := quoteFields(quotes, "1h")
	n := &entity.Narrative{Coin: coin, Symbol: symbol}
	text, err := u.generate(ctx, "fast.tmpl", map[string]any{
		"Coin":     coin,
		"Close15m": close15m,
		"RSI15m":   rsi15m,
		"Close1h":  close1h,
		"RSI1h":    rsi1h,
		"Position": describePosition(position),
	}, analystSystem, 0.1, 150)
	switch {
	case err != nil:
		slog.Warn("fast analysis: model failed, using default narrative", "symbol", symbol, "error", err)
		n.Text = fmt.Sprintf("%s当前市场稳定，建议观望。", coin)
		n.Fallback = true
	case strings.TrimSpace(text) == "":
		n.Text = "市场分析完成"
	default:
		n.Text = text
	}
	n.Time = u.now()
	return n, nil
}

// quoteFields renders the close and RSI of tf, or the placeholders when missing.
func quoteFields(quotes map[string]latestQuote, tf string) (string, string) {
	q, ok := quotes[tf]
	if !ok {
		return unknownClose, neutralRSI
	}
	return formatFloat(q.Close), formatFloat(q.RSI)
}

func describePosition(p *domain.Position) string {
	if p == nil {
		return ""
	}
	side := "多"
	if p.PositionAmt.IsNegative() {
		side = "空"
	}
	return fmt.Sprintf("%s %s @ %s", side, p.PositionAmt.Abs(), p.EntryPrice)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
