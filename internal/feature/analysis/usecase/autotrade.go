package usecase

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/analysis/domain/entity"
	trading "crypto_backend/internal/feature/trading/domain/entity"
	tradeusecase "crypto_backend/internal/feature/trading/usecase"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// newClientOrderID returns a 34 character id accepted by the exchange.
func newClientOrderID() string {
	return "ai" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// execute places the order for d and then its protective orders.
func (u *AnalysisUsecase) execute(ctx context.Context, symbol string, d entity.TradeDecision) *entity.AutoTrade {
	fail := func(kind trading.ActionKind, err error) *entity.AutoTrade {
		slog.Error("auto trade failed", "symbol", symbol, "decision", d.Action, "error", err)
		return &entity.AutoTrade{Action: kind, Error: err.Error(), Time: u.now()}
	}

	action, err := u.decisionAction(ctx, symbol, d)
	if err != nil {
		return fail("", err)
	}
	res, err := u.trades.Run(ctx, action, trading.SourceAutoTrade)
	if err != nil {
		return fail(action.Kind(), err)
	}

	at := &entity.AutoTrade{Success: true, Action: action.Kind()}
	if res.Order != nil {
		at.OrderID = res.Order.OrderID
		if res.Order.AvgPrice.IsPositive() {
			at.ExecutedPrice = decimal.NewNullDecimal(res.Order.AvgPrice)
		}
	}
	if !at.ExecutedPrice.Valid {
		at.ExecutedPrice = d.Price
	}

	if d.Action != entity.DecisionClose {
		// Protective orders are placed even if the caller goes away.
		at.RiskOrders = u.placeRiskOrders(context.WithoutCancel(ctx), symbol, d)
	}
	at.Time = u.now()
	return at
}

// decisionAction maps a decision onto a validated trade action.
// add and reduce are sized against a fresh position lookup.
func (u *AnalysisUsecase) decisionAction(ctx context.Context, symbol string, d entity.TradeDecision) (trading.Action, error) {
	p := tradeusecase.Params{
		Symbol:        symbol,
		Quantity:      d.Quantity,
		OrderType:     d.OrderType,
		ClientOrderID: u.newID(),
	}
	if strings.EqualFold(d.OrderType, string(domain.OrderTypeLimit)) {
		p.Price = d.Price
	}

	switch d.Action {
	case entity.DecisionBuy:
		p.Action = string(trading.KindBuy)
	case entity.DecisionSell:
		p.Action = string(trading.KindSell)
	case entity.DecisionClose:
		p = tradeusecase.Params{Action: string(trading.KindClosePosition), Symbol: symbol, ClientOrderID: p.ClientOrderID}
	case entity.DecisionAdd, entity.DecisionReduce:
		pos, err := u.position(ctx, symbol)
		if err != nil {
			return nil, err
		}
		dir := tradeusecase.InferDirection(pos.PositionAmt)
		side := dir.CloseSide
		if d.Action == entity.DecisionAdd {
			side = side.Opposite()
		}
		p.Action = strings.ToLower(string(side))
		p.PositionSide = string(pos.PositionSide)
		p.ReduceOnly = d.Action == entity.DecisionReduce &&
			(pos.PositionSide == "" || pos.PositionSide == domain.PositionSideBoth)
	default:
		return nil, fmt.Errorf("action %q is not executable", d.Action)
	}
	return tradeusecase.ParseAction(p, trading.AllKinds)
}

func (u *AnalysisUsecase) position(ctx context.Context, symbol string) (domain.Position, error) {
	overview, err := u.account.Overview(ctx)
	if err != nil {
		return domain.Position{}, fmt.Errorf("get account: %w", err)
	}
	pos, ok := domain.FindActive(overview.Positions, symbol)
	if !ok {
		return domain.Position{}, fmt.Errorf("%w for %s", trading.ErrNoPosition, symbol)
	}
	return pos, nil
}

// placeRiskOrders places the stop-loss and take-profit of d concurrently. Every
// outcome is recorded on its own; a failure never undoes an order already placed.
func (u *AnalysisUsecase) placeRiskOrders(ctx context.Context, symbol string, d entity.TradeDecision) []entity.RiskOrderOutcome {
	type leg struct {
		kind  trading.ActionKind
		price decimal.NullDecimal
	}
	var legs []leg
	if d.StopLoss.Valid {
		legs = append(legs, leg{trading.KindSetStopLoss, d.StopLoss})
	}
	if d.TakeProfit.Valid {
		legs = append(legs, leg{trading.KindSetTakeProfit, d.TakeProfit})
	}
	if len(legs) == 0 {
		return nil
	}

	out := make([]entity.RiskOrderOutcome, len(legs))
	var wg sync.WaitGroup
	for i, l := range legs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := entity.RiskOrderOutcome{Action: l.kind, StopPrice: l.price.Decimal}
			res, err := u.runParams(ctx, tradeusecase.Params{
				Action:    string(l.kind),
				Symbol:    symbol,
				StopPrice: l.price,
			}, trading.AllKinds, trading.SourceAutoTrade)
			if err != nil {
				o.Error = err.Error()
				slog.Warn("risk order failed", "symbol", symbol, "action", l.kind, "error", err)
			} else {
				o.Success = true
				if res.Order != nil {
					o.OrderID = res.Order.OrderID
				}
			}
			out[i] = o
		}()
	}
	wg.Wait()
	return out
}

func (u *AnalysisUsecase) runParams(ctx context.Context, p tradeusecase.Params, allowed []trading.ActionKind, source string) (*trading.Result, error) {
	a, err := tradeusecase.ParseAction(p, allowed)
	if err != nil {
		return nil, err
	}
	return u.trades.Run(ctx, a, source)
}
