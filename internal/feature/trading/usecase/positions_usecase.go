package usecase

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/trading/domain/entity"
	"log/slog"
	"sync"
)

// RecentTradesLimit is the number of fills included in a detailed symbol view.
const RecentTradesLimit = 10

// PositionsReader reads positions, orders, fills and balances.
type PositionsReader interface {
	Ready() error
	Account(ctx context.Context) (domain.AccountSnapshot, error)
	PositionRisk(ctx context.Context, symbol string) ([]domain.Position, error)
	OpenOrders(ctx context.Context, symbol string) ([]domain.Order, error)
	RecentTrades(ctx context.Context, symbol string, limit int) ([]domain.Trade, error)
	LeverageBrackets(ctx context.Context, symbol string) (domain.LeverageInfo, error)
}

// PositionsUsecase builds read-only overviews. Each leg is fetched
// concurrently and a failing leg degrades to an empty value; only a reader
// that is not ready at all fails the call.
type PositionsUsecase struct {
	reader PositionsReader
}

// NewPositionsUsecase creates a PositionsUsecase.
func NewPositionsUsecase(reader PositionsReader) *PositionsUsecase {
	return &PositionsUsecase{reader: reader}
}

// Symbol returns the view of one symbol. Fills are only fetched when detailed is set.
func (u *PositionsUsecase) Symbol(ctx context.Context, symbol string, detailed bool) (*entity.SymbolView, error) {
	if err := u.reader.Ready(); err != nil {
		return nil, err
	}
	view := &entity.SymbolView{
		Symbol:       symbol,
		OpenOrders:   []domain.Order{},
		RecentTrades: []domain.Trade{},
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		ps, err := u.reader.PositionRisk(ctx, symbol)
		if err != nil {
			slog.Warn("position lookup failed", "symbol", symbol, "error", err)
			return
		}
		if p, ok := domain.FindActive(ps, symbol); ok {
			view.Position = &p
		}
	}()
	go func() {
		defer wg.Done()
		orders, err := u.reader.OpenOrders(ctx, symbol)
		if err != nil {
			slog.Warn("open orders lookup failed", "symbol", symbol, "error", err)
			return
		}
		view.OpenOrders = orders
	}()
	go func() {
		defer wg.Done()
		info, err := u.reader.LeverageBrackets(ctx, symbol)
		if err != nil {
			slog.Warn("leverage bracket lookup failed", "symbol", symbol, "error", err)
			return
		}
		view.LeverageInfo = &info
	}()
	if detailed {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trades, err := u.reader.RecentTrades(ctx, symbol, RecentTradesLimit)
			if err != nil {
				slog.Warn("recent trades lookup failed", "symbol", symbol, "error", err)
				return
			}
			view.RecentTrades = trades
		}()
	}
	wg.Wait()
	return view, nil
}

// Portfolio returns every active position and open order with the balance summary.
func (u *PositionsUsecase) Portfolio(ctx context.Context) (*entity.PortfolioView, error) {
	if err := u.reader.Ready(); err != nil {
		return nil, err
	}
	view := &entity.PortfolioView{
		Positions:  []domain.Position{},
		OpenOrders: []domain.Order{},
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		ps, err := u.reader.PositionRisk(ctx, "")
		if err != nil {
			slog.Warn("positions lookup failed", "error", err)
			return
		}
		view.Positions = domain.ActivePositions(ps)
	}()
	go func() {
		defer wg.Done()
		orders, err := u.reader.OpenOrders(ctx, "")
		if err != nil {
			slog.Warn("open orders lookup failed", "error", err)
			return
		}
		view.OpenOrders = orders
	}()
	go func() {
		defer wg.Done()
		acc, err := u.reader.Account(ctx)
		if err != nil {
			slog.Warn("account lookup failed", "error", err)
			return
		}
		view.AccountInfo = &acc
	}()
	wg.Wait()
	return view, nil
}
