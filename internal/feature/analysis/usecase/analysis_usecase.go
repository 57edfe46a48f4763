// Package usecase implements the AI analysis orchestration: prompting a language
// model with indicator and account data, parsing its answer and optionally trading on it.
package usecase

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/analysis/domain/entity"
	indicators "crypto_backend/internal/feature/indicators/domain/entity"
	trading "crypto_backend/internal/feature/trading/domain/entity"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrLLMUnauthorized is returned when the model provider rejects the API key.
	ErrLLMUnauthorized = errors.New("language model rejected the api key")
	// ErrLLMRateLimited is returned when the model provider throttles the caller.
	ErrLLMRateLimited = errors.New("language model rate limit exceeded")
	// ErrNoIndicatorData is returned when no timeframe could be fetched.
	ErrNoIndicatorData = errors.New("no indicator data available")
)

// LanguageModel produces a text completion for a prompt.
// The interface lives with its consumer; adapters satisfy it.
type LanguageModel interface {
	Generate(ctx context.Context, p entity.Prompt) (string, error)
	Model() string
}

// IndicatorProvider resolves coins and builds multi-timeframe indicator snapshots.
type IndicatorProvider interface {
	ResolveSymbol(coin string) (string, string, error)
	Snapshot(ctx context.Context, coin string, timeframes ...string) (*indicators.Snapshot, error)
}

// AccountProvider returns balances and active positions.
type AccountProvider interface {
	Overview(ctx context.Context) (*domain.AccountOverview, error)
}

// TradeRunner dispatches validated trade actions.
type TradeRunner interface {
	Run(ctx context.Context, a trading.Action, source string) (*trading.Result, error)
}

// NarrativeCache stores narratives per symbol. Entries expire after the cache's TTL.
type NarrativeCache interface {
	Get(ctx context.Context, key string) (entity.Narrative, bool)
	Set(ctx context.Context, key string, n entity.Narrative)
}

// Limiter blocks until a model call is allowed.
type Limiter interface {
	Wait(ctx context.Context) error
}

// LLMObserver receives the latency of every model call.
type LLMObserver interface {
	ObserveLLM(model, outcome string, d time.Duration)
}

type nopLimiter struct{}

func (nopLimiter) Wait(context.Context) error { return nil }

type nopLLMObserver struct{}

func (nopLLMObserver) ObserveLLM(string, string, time.Duration) {}

// Settings tune the analysis modes.
type Settings struct {
	QuoteAsset       string
	IndicatorTimeout time.Duration // fast mode indicator leg
	AccountTimeout   time.Duration // fast mode account leg
}

func (s Settings) withDefaults() Settings {
	if s.QuoteAsset == "" {
		s.QuoteAsset = "USDT"
	}
	if s.IndicatorTimeout <= 0 {
		s.IndicatorTimeout = 8 * time.Second
	}
	if s.AccountTimeout <= 0 {
		s.AccountTimeout = 3 * time.Second
	}
	return s
}

// Deps are the collaborators of AnalysisUsecase. Limiter and Observer are optional.
type Deps struct {
	LLM        LanguageModel
	Indicators IndicatorProvider
	Account    AccountProvider
	Trades     TradeRunner
	Cache      NarrativeCache
	Limiter    Limiter
	Observer   LLMObserver
}

// AnalysisUsecase orchestrates the analysis modes.
type AnalysisUsecase struct {
	llm        LanguageModel
	indicators IndicatorProvider
	account    AccountProvider
	trades     TradeRunner
	cache      NarrativeCache
	limiter    Limiter
	observer   LLMObserver
	settings   Settings
	inflight   singleflight.Group
	now        func() time.Time
	newID      func() string
}

// NewAnalysisUsecase creates an AnalysisUsecase.
func NewAnalysisUsecase(d Deps, s Settings) *AnalysisUsecase {
	u := &AnalysisUsecase{
		llm:        d.LLM,
		indicators: d.Indicators,
		account:    d.Account,
		trades:     d.Trades,
		cache:      d.Cache,
		limiter:    d.Limiter,
		observer:   d.Observer,
		settings:   s.withDefaults(),
		now:        time.Now,
		newID:      newClientOrderID,
	}
	if u.limiter == nil {
		u.limiter = nopLimiter{}
	}
	if u.observer == nil {
		u.observer = nopLLMObserver{}
	}
	return u
}

// AnalyzeRequest is the input of Analyze.
type AnalyzeRequest struct {
	Coin                string
	EnableAutoTrading   bool
	ConfidenceThreshold *float64
}

// Analyze runs a full analysis of one coin. Without auto trading it returns a
// narrative report. With auto trading the model is asked for a JSON decision, which
// is executed when it passes the confidence gate. A decision that cannot be parsed
// is reported in Analysis.ParseErr and never fails the call.
func (u *AnalysisUsecase) Analyze(ctx context.Context, req AnalyzeRequest) (*entity.Analysis, error) {
	coin, symbol, err := u.indicators.ResolveSymbol(req.Coin)
	if err != nil {
		return nil, err
	}

	var (
		snap     *indicators.Snapshot
		overview *domain.AccountOverview
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = u.snapshot(gctx, coin)
		return err
	})
	if req.EnableAutoTrading {
		g.Go(func() error {
			var err error
			if overview, err = u.account.Overview(gctx); err != nil {
				return fmt.Errorf("get account: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &entity.Analysis{
		Coin:      coin,
		Symbol:    symbol,
		Snapshot:  snap,
		Threshold: EffectiveThreshold(req.ConfidenceThreshold),
		AutoMode:  req.EnableAutoTrading,
		Model:     u.llm.Model(),
	}

	if !req.EnableAutoTrading {
		res.Text, err = u.generate(ctx, "report.tmpl", map[string]any{
			"Coin":          coin,
			"TechnicalData": technicalJSON(snap),
		}, analystSystem, 0.7, 2000)
		if err != nil {
			return nil, err
		}
		res.Time = u.now()
		return res, nil
	}

	position := ""
	if p, ok := domain.FindActive(overview.Positions, symbol); ok {
		position = indentJSON(p)
	}
	res.Text, err = u.generate(ctx, "decision.tmpl", map[string]any{
		"Coin":          coin,
		"TechnicalData": technicalJSON(snap),
		"Position":      position,
	}, traderSystem, 0.3, 1000)
	if err != nil {
		return nil, err
	}

	switch r := ParseDecision(res.Text).(type) {
	case entity.Decision:
		d := r.Decision
		res.Decision = &d
	case entity.NoDecisionFound:
		res.ParseErr = "no decision JSON found in analysis"
	case entity.ParseError:
		res.ParseErr = "failed to parse decision: " + r.Reason
	}

	if res.Decision != nil && ShouldAutoTrade(*res.Decision, res.Threshold) {
		res.AutoTrade = u.execute(ctx, symbol, *res.Decision)
	} else if res.Decision != nil {
		slog.Info("decision below auto trade gate",
			"symbol", symbol, "action", res.Decision.Action,
			"confidence", res.Decision.Confidence, "threshold", res.Threshold)
	}
	res.Time = u.now()
	return res, nil
}

// snapshot fetches every configured timeframe and fails only when none succeeded.
func (u *AnalysisUsecase) snapshot(ctx context.Context, coin string, timeframes ...string) (*indicators.Snapshot, error) {
	snap, err := u.indicators.Snapshot(ctx, coin, timeframes...)
	if err != nil {
		return nil, fmt.Errorf("get indicators: %w", err)
	}
	if len(snap.Available()) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoIndicatorData, snap.Symbol)
	}
	return snap, nil
}

// generate renders a prompt template and asks the model for a completion.
func (u *AnalysisUsecase) generate(ctx context.Context, tmpl string, data any, system string, temperature float64, maxTokens int) (string, error) {
	user, err := renderPrompt(tmpl, data)
	if err != nil {
		return "", err
	}
	if err := u.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for model rate limit: %w", err)
	}

	start := time.Now()
	text, err := u.llm.Generate(ctx, entity.Prompt{
		System:      system,
		User:        user,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	u.observer.ObserveLLM(u.llm.Model(), outcome, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("generate analysis: %w", err)
	}
	return text, nil
}
