package usecase

import (
	"context"
	"crypto_backend/internal/feature/trading/domain/entity"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Dispatch outcome labels.
const (
	OutcomeSuccess    = "success"
	OutcomeInvalid    = "invalid"
	OutcomeNoPosition = "no_position"
	OutcomeError      = "error"
)

// DefaultJournalLimit is the number of entries returned when no limit is given.
const DefaultJournalLimit = 50

// JournalRepository persists dispatched actions.
type JournalRepository interface {
	Record(ctx context.Context, e *entity.JournalEntry) error
	Recent(ctx context.Context, symbol string, limit int) ([]entity.JournalEntry, error)
}

// DispatchObserver receives one event per dispatched action.
type DispatchObserver interface {
	ObserveDispatch(action, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveDispatch(string, string) {}

// TradeUsecase validates, dispatches and journals trade actions.
type TradeUsecase struct {
	dispatcher *Dispatcher
	journal    JournalRepository
	observer   DispatchObserver
	now        func() time.Time
}

// NewTradeUsecase creates a TradeUsecase. journal and observer may be nil.
func NewTradeUsecase(gw FuturesGateway, journal JournalRepository, observer DispatchObserver) *TradeUsecase {
	if observer == nil {
		observer = nopObserver{}
	}
	return &TradeUsecase{
		dispatcher: NewDispatcher(gw),
		journal:    journal,
		observer:   observer,
		now:        time.Now,
	}
}

// Execute parses p against the allowed action set and dispatches it.
func (u *TradeUsecase) Execute(ctx context.Context, p Params, allowed []entity.ActionKind) (*entity.Result, error) {
	a, err := ParseAction(p, allowed)
	if err != nil {
		u.observer.ObserveDispatch(p.Action, OutcomeInvalid)
		return nil, err
	}
	return u.Run(ctx, a, entity.SourceAPI)
}

// Run dispatches an already validated action and records the outcome.
// Journal failures are logged and never fail the trade.
func (u *TradeUsecase) Run(ctx context.Context, a entity.Action, source string) (*entity.Result, error) {
	res, err := u.dispatcher.Dispatch(ctx, a)

	outcome := OutcomeSuccess
	switch {
	case errors.Is(err, entity.ErrNoPosition):
		outcome = OutcomeNoPosition
	case err != nil:
		outcome = OutcomeError
	}
	u.observer.ObserveDispatch(string(a.Kind()), outcome)

	if err != nil {
		slog.Warn("trade action failed", "action", a.Kind(), "symbol", a.Target(), "source", source, "error", err)
	} else {
		slog.Info("trade action dispatched", "action", a.Kind(), "symbol", a.Target(), "source", source)
	}
	u.record(ctx, a, source, res, err)

	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", a.Kind(), a.Target(), err)
	}
	return res, nil
}

// Journal returns the most recent journal entries, optionally filtered by symbol.
func (u *TradeUsecase) Journal(ctx context.Context, symbol string, limit int) ([]entity.JournalEntry, error) {
	if u.journal == nil {
		return []entity.JournalEntry{}, nil
	}
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	return u.journal.Recent(ctx, symbol, limit)
}

func (u *TradeUsecase) record(ctx context.Context, a entity.Action, source string, res *entity.Result, err error) {
	if u.journal == nil {
		return
	}
	e := &entity.JournalEntry{
		CreatedAt: u.now(),
		Source:    source,
		Action:    a.Kind(),
		Symbol:    a.Target(),
		Success:   err == nil,
	}
	if err != nil {
		e.Error = err.Error()
	}
	if res != nil && res.Order != nil {
		e.OrderID = res.Order.OrderID
	}
	// The request context may already be cancelled once the response is written.
	if rerr := u.journal.Record(context.WithoutCancel(ctx), e); rerr != nil {
		slog.Warn("failed to record trade journal", "action", a.Kind(), "symbol", a.Target(), "error", rerr)
	}
}
