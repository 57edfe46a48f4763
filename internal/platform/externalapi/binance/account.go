package binance

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"strconv"
)

// Account returns the balance summary of the futures account.
func (c *Client) Account(ctx context.Context) (domain.AccountSnapshot, error) {
	if err := c.requireCredentials(); err != nil {
		return domain.AccountSnapshot{}, err
	}
	acc, err := c.futures.NewGetAccountService().Do(ctx)
	if err != nil {
		return domain.AccountSnapshot{}, wrap("account", err)
	}
	return domain.AccountSnapshot{
		TotalMarginBalance:    dec(acc.TotalMarginBalance),
		TotalWalletBalance:    dec(acc.TotalWalletBalance),
		TotalUnrealizedProfit: dec(acc.TotalUnrealizedProfit),
		AvailableBalance:      dec(acc.AvailableBalance),
	}, nil
}

// PositionRisk returns the position entries of symbol, or of every symbol when
// symbol is empty. Flat entries are included; callers filter with Active.
func (c *Client) PositionRisk(ctx context.Context, symbol string) ([]domain.Position, error) {
	if err := c.requireCredentials(); err != nil {
		return nil, err
	}
	svc := c.futures.NewGetPositionRiskService()
	if symbol != "" {
		svc = svc.Symbol(symbol)
	}
	risks, err := svc.Do(ctx)
	if err != nil {
		return nil, wrap("position risk", err)
	}

	out := make([]domain.Position, 0, len(risks))
	for _, r := range risks {
		lev, _ := strconv.Atoi(r.Leverage)
		out = append(out, domain.Position{
			Symbol:           r.Symbol,
			PositionAmt:      dec(r.PositionAmt),
			EntryPrice:       dec(r.EntryPrice),
			MarkPrice:        dec(r.MarkPrice),
			UnrealizedProfit: dec(r.UnRealizedProfit),
			LiquidationPrice: dec(r.LiquidationPrice),
			Leverage:         lev,
			MarginType:       r.MarginType,
			IsolatedMargin:   dec(r.IsolatedMargin),
			PositionSide:     domain.PositionSide(r.PositionSide),
		})
	}
	return out, nil
}

// RecentTrades returns the most recent fills of symbol.
func (c *Client) RecentTrades(ctx context.Context, symbol string, limit int) ([]domain.Trade, error) {
	if err := c.requireCredentials(); err != nil {
		return nil, err
	}
	svc := c.futures.NewListAccountTradeService().Symbol(symbol)
	if limit > 0 {
		svc = svc.Limit(limit)
	}
	trades, err := svc.Do(ctx)
	if err != nil {
		return nil, wrap("user trades", err)
	}

	out := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		out = append(out, domain.Trade{
			ID:          t.ID,
			OrderID:     t.OrderID,
			Symbol:      t.Symbol,
			Side:        domain.Side(t.Side),
			Price:       dec(t.Price),
			Quantity:    dec(t.Quantity),
			RealizedPnl: dec(t.RealizedPnl),
			Commission:  dec(t.Commission),
			Time:        t.Time,
		})
	}
	return out, nil
}
