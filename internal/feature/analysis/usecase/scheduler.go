package usecase

import (
	"context"
	"crypto_backend/internal/feature/analysis/domain/entity"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Analyzer runs one analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*entity.Analysis, error)
}

// SchedulerSettings configure the periodic auto trader.
type SchedulerSettings struct {
	Coins               []string
	Interval            time.Duration
	ConfidenceThreshold float64
	MaxRetries          int
	RetryDelay          time.Duration
}

// Scheduler runs auto-trading analyses for a fixed set of coins on an interval.
type Scheduler struct {
	analyzer Analyzer
	settings SchedulerSettings
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewScheduler creates a Scheduler. MaxRetries below one is treated as one.
func NewScheduler(a Analyzer, s SchedulerSettings) *Scheduler {
	if s.MaxRetries < 1 {
		s.MaxRetries = 1
	}
	if s.Interval <= 0 {
		s.Interval = 5 * time.Minute
	}
	return &Scheduler{analyzer: a, settings: s, sleep: sleepCtx}
}

// Run analyses every coin immediately and then once per interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.settings.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			slog.Error("auto trading round finished with errors", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce analyses every coin in order. A coin that still fails after all
// retries is skipped and its error joined into the result.
func (s *Scheduler) RunOnce(ctx context.Context) ([]*entity.Analysis, error) {
	var (
		out  []*entity.Analysis
		errs []error
	)
	for _, coin := range s.settings.Coins {
		a, err := s.analyze(ctx, coin)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		logOutcome(a)
		out = append(out, a)
	}
	return out, errors.Join(errs...)
}

func (s *Scheduler) analyze(ctx context.Context, coin string) (*entity.Analysis, error) {
	threshold := s.settings.ConfidenceThreshold
	req := AnalyzeRequest{Coin: coin, EnableAutoTrading: true, ConfidenceThreshold: &threshold}

	var err error
	for attempt := 1; attempt <= s.settings.MaxRetries; attempt++ {
		var a *entity.Analysis
		if a, err = s.analyzer.Analyze(ctx, req); err == nil {
			return a, nil
		}
		// a rejected key will not recover between attempts
		if errors.Is(err, ErrLLMUnauthorized) {
			break
		}
		slog.Warn("auto trading analysis failed", "coin", coin, "attempt", attempt, "max", s.settings.MaxRetries, "error", err)
		if attempt < s.settings.MaxRetries {
			if serr := s.sleep(ctx, s.settings.RetryDelay); serr != nil {
				return nil, serr
			}
		}
	}
	return nil, fmt.Errorf("auto trade %s: %w", coin, err)
}

func logOutcome(a *entity.Analysis) {
	attrs := []any{"symbol", a.Symbol}
	if d := a.Decision; d != nil {
		attrs = append(attrs, "action", d.Action, "confidence", d.Confidence)
	}
	if a.ParseErr != "" {
		attrs = append(attrs, "parse_error", a.ParseErr)
	}
	if t := a.AutoTrade; t != nil {
		attrs = append(attrs, "executed", t.Success, "order_id", t.OrderID)
		if t.Error != "" {
			attrs = append(attrs, "trade_error", t.Error)
		}
	}
	slog.Info("auto trading analysis done", attrs...)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
