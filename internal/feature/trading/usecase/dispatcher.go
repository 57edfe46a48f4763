package usecase

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/trading/domain/entity"
	"fmt"

	"github.com/shopspring/decimal"
)

// FuturesGateway is the subset of the exchange API the dispatcher drives.
type FuturesGateway interface {
	PositionRisk(ctx context.Context, symbol string) ([]domain.Position, error)
	OpenOrders(ctx context.Context, symbol string) ([]domain.Order, error)
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) (domain.Order, error)
	CancelAllOrders(ctx context.Context, symbol string) error
	ChangeLeverage(ctx context.Context, symbol string, leverage int) (domain.Leverage, error)
	PlaceBatchOrders(ctx context.Context, reqs []domain.OrderRequest) (domain.BatchResult, error)
}

// Dispatcher turns actions into exchange calls. Every action that depends on
// the position reads it fresh; nothing is cached between calls.
type Dispatcher struct {
	gw FuturesGateway
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(gw FuturesGateway) *Dispatcher {
	return &Dispatcher{gw: gw}
}

// Dispatch executes a.
func (d *Dispatcher) Dispatch(ctx context.Context, a entity.Action) (*entity.Result, error) {
	switch v := a.(type) {
	case entity.PlaceOrder:
		return d.placeOrder(ctx, v)
	case entity.ClosePosition:
		return d.closePosition(ctx, v)
	case entity.SetRiskOrder:
		return d.setRiskOrder(ctx, v)
	case entity.MoveRiskOrder:
		return d.moveRiskOrder(ctx, v)
	case entity.SetLeverage:
		return d.setLeverage(ctx, v)
	case entity.CancelOrder:
		return d.cancelOrder(ctx, v)
	case entity.CancelAllOrders:
		return d.cancelAllOrders(ctx, v)
	case entity.BatchOrders:
		return d.batchOrders(ctx, v)
	}
	return nil, fmt.Errorf("dispatch: unhandled action %T", a)
}

func (d *Dispatcher) placeOrder(ctx context.Context, a entity.PlaceOrder) (*entity.Result, error) {
	o, err := d.gw.PlaceOrder(ctx, orderRequest(a))
	if err != nil {
		return nil, err
	}
	return &entity.Result{Kind: a.Kind(), Symbol: a.Symbol, Order: &o}, nil
}

func (d *Dispatcher) closePosition(ctx context.Context, a entity.ClosePosition) (*entity.Result, error) {
	pos, err := d.activePosition(ctx, a.Symbol)
	if err != nil {
		return nil, err
	}

	dir := InferDirection(pos.PositionAmt)
	req := domain.OrderRequest{
		Symbol:        a.Symbol,
		Side:          dir.CloseSide,
		PositionSide:  pos.PositionSide,
		Type:          domain.OrderTypeMarket,
		Quantity:      pos.PositionAmt.Abs(),
		ClientOrderID: a.ClientOrderID,
	}
	// Hedge-mode sides already reduce; the exchange rejects reduceOnly there.
	if req.PositionSide == "" || req.PositionSide == domain.PositionSideBoth {
		req.PositionSide = domain.PositionSideBoth
		req.ReduceOnly = true
	}

	o, err := d.gw.PlaceOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	return &entity.Result{Kind: a.Kind(), Symbol: a.Symbol, Order: &o, Position: &pos}, nil
}

func (d *Dispatcher) setRiskOrder(ctx context.Context, a entity.SetRiskOrder) (*entity.Result, error) {
	o, pos, err := d.placeRiskOrder(ctx, a.Symbol, a.Risk, a.StopPrice)
	if err != nil {
		return nil, err
	}
	return &entity.Result{Kind: a.Kind(), Symbol: a.Symbol, Order: &o, Position: &pos}, nil
}

// moveRiskOrder cancels every open STOP_MARKET and TAKE_PROFIT_MARKET order
// one at a time, then places the replacement. A failed cancellation aborts the
// move before anything new is placed.
func (d *Dispatcher) moveRiskOrder(ctx context.Context, a entity.MoveRiskOrder) (*entity.Result, error) {
	open, err := d.gw.OpenOrders(ctx, a.Symbol)
	if err != nil {
		return nil, err
	}

	canceled := make([]domain.Order, 0, len(open))
	for _, o := range open {
		if !o.Type.IsProtective() {
			continue
		}
		c, err := d.gw.CancelOrder(ctx, a.Symbol, o.OrderID)
		if err != nil {
			return nil, fmt.Errorf("cancel order %d: %w", o.OrderID, err)
		}
		canceled = append(canceled, c)
	}

	o, pos, err := d.placeRiskOrder(ctx, a.Symbol, a.Risk, a.StopPrice)
	if err != nil {
		return nil, err
	}
	return &entity.Result{Kind: a.Kind(), Symbol: a.Symbol, Order: &o, Canceled: canceled, Position: &pos}, nil
}

// placeRiskOrder submits a whole-position trigger order whose side and
// position side come from the live position.
//
// The account is assumed to run in hedge mode: the order always carries LONG or
// SHORT, even when the exchange reports the position as BOTH. A one-way account
// rejects it.
func (d *Dispatcher) placeRiskOrder(ctx context.Context, symbol string, risk entity.RiskKind, stopPrice decimal.Decimal) (domain.Order, domain.Position, error) {
	pos, err := d.activePosition(ctx, symbol)
	if err != nil {
		return domain.Order{}, domain.Position{}, err
	}

	dir := InferDirection(pos.PositionAmt)
	o, err := d.gw.PlaceOrder(ctx, domain.OrderRequest{
		Symbol:        symbol,
		Side:          dir.CloseSide,
		PositionSide:  dir.PositionSide,
		Type:          risk.OrderType(),
		StopPrice:     stopPrice,
		ClosePosition: true,
	})
	if err != nil {
		return domain.Order{}, domain.Position{}, err
	}
	return o, pos, nil
}

func (d *Dispatcher) setLeverage(ctx context.Context, a entity.SetLeverage) (*entity.Result, error) {
	lev, err := d.gw.ChangeLeverage(ctx, a.Symbol, a.Leverage)
	if err != nil {
		return nil, err
	}
	return &entity.Result{Kind: a.Kind(), Symbol: a.Symbol, Leverage: &lev}, nil
}

func (d *Dispatcher) cancelOrder(ctx context.Context, a entity.CancelOrder) (*entity.Result, error) {
	o, err := d.gw.CancelOrder(ctx, a.Symbol, a.OrderID)
	if err != nil {
		return nil, err
	}
	return &entity.Result{Kind: a.Kind(), Symbol: a.Symbol, Order: &o}, nil
}

func (d *Dispatcher) cancelAllOrders(ctx context.Context, a entity.CancelAllOrders) (*entity.Result, error) {
	if err := d.gw.CancelAllOrders(ctx, a.Symbol); err != nil {
		return nil, err
	}
	return &entity.Result{Kind: a.Kind(), Symbol: a.Symbol, AllCanceled: true}, nil
}

func (d *Dispatcher) batchOrders(ctx context.Context, a entity.BatchOrders) (*entity.Result, error) {
	reqs := make([]domain.OrderRequest, 0, len(a.Orders))
	for _, o := range a.Orders {
		reqs = append(reqs, orderRequest(o))
	}
	res, err := d.gw.PlaceBatchOrders(ctx, reqs)
	if err != nil {
		return nil, err
	}
	return &entity.Result{Kind: a.Kind(), Symbol: a.Symbol, Batch: &res}, nil
}

// activePosition reads the position of symbol from the exchange.
func (d *Dispatcher) activePosition(ctx context.Context, symbol string) (domain.Position, error) {
	ps, err := d.gw.PositionRisk(ctx, symbol)
	if err != nil {
		return domain.Position{}, err
	}
	pos, ok := domain.FindActive(ps, symbol)
	if !ok {
		return domain.Position{}, fmt.Errorf("%w for %s", entity.ErrNoPosition, symbol)
	}
	return pos, nil
}

func orderRequest(a entity.PlaceOrder) domain.OrderRequest {
	req := domain.OrderRequest{
		Symbol:        a.Symbol,
		Side:          a.Side,
		PositionSide:  a.PositionSide,
		Type:          a.Type,
		Quantity:      a.Quantity,
		Price:         a.Price,
		StopPrice:     a.StopPrice,
		ReduceOnly:    a.ReduceOnly,
		ClientOrderID: a.ClientOrderID,
	}
	if a.Type == domain.OrderTypeLimit {
		req.TimeInForce = "GTC"
	}
	return req
}
