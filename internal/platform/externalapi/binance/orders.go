package binance

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"fmt"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

// OpenOrders returns the open orders of symbol.
func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]domain.Order, error) {
	if err := c.requireCredentials(); err != nil {
		return nil, err
	}
	svc := c.futures.NewListOpenOrdersService()
	if symbol != "" {
		svc = svc.Symbol(symbol)
	}
	orders, err := svc.Do(ctx)
	if err != nil {
		return nil, wrap("open orders", err)
	}
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, fromOrder(o))
	}
	return out, nil
}

// PlaceOrder submits a single order.
func (c *Client) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	if err := c.requireCredentials(); err != nil {
		return domain.Order{}, err
	}
	res, err := c.createOrderService(req).Do(ctx)
	if err != nil {
		return domain.Order{}, wrap("create order", err)
	}
	return domain.Order{
		OrderID:       res.OrderID,
		ClientOrderID: res.ClientOrderID,
		Symbol:        res.Symbol,
		Side:          domain.Side(res.Side),
		PositionSide:  domain.PositionSide(res.PositionSide),
		Type:          domain.OrderType(res.Type),
		Status:        string(res.Status),
		Price:         dec(res.Price),
		AvgPrice:      dec(res.AvgPrice),
		StopPrice:     dec(res.StopPrice),
		OrigQuantity:  dec(res.OrigQuantity),
		ExecutedQty:   dec(res.ExecutedQuantity),
		ReduceOnly:    res.ReduceOnly,
		ClosePosition: res.ClosePosition,
		UpdateTime:    res.UpdateTime,
	}, nil
}

// CancelOrder cancels one order by exchange id.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (domain.Order, error) {
	if err := c.requireCredentials(); err != nil {
		return domain.Order{}, err
	}
	res, err := c.futures.NewCancelOrderService().Symbol(symbol).OrderID(orderID).Do(ctx)
	if err != nil {
		return domain.Order{}, wrap("cancel order", err)
	}
	return domain.Order{
		OrderID:       res.OrderID,
		ClientOrderID: res.ClientOrderID,
		Symbol:        res.Symbol,
		Side:          domain.Side(res.Side),
		PositionSide:  domain.PositionSide(res.PositionSide),
		Type:          domain.OrderType(res.Type),
		Status:        string(res.Status),
		Price:         dec(res.Price),
		StopPrice:     dec(res.StopPrice),
		OrigQuantity:  dec(res.OrigQuantity),
		ExecutedQty:   dec(res.ExecutedQuantity),
		ReduceOnly:    res.ReduceOnly,
		UpdateTime:    res.UpdateTime,
	}, nil
}

// CancelAllOrders cancels every open order of symbol.
func (c *Client) CancelAllOrders(ctx context.Context, symbol string) error {
	if err := c.requireCredentials(); err != nil {
		return err
	}
	if err := c.futures.NewCancelAllOpenOrdersService().Symbol(symbol).Do(ctx); err != nil {
		return wrap("cancel all orders", err)
	}
	return nil
}

// ChangeLeverage sets the initial leverage of symbol.
func (c *Client) ChangeLeverage(ctx context.Context, symbol string, leverage int) (domain.Leverage, error) {
	if err := c.requireCredentials(); err != nil {
		return domain.Leverage{}, err
	}
	res, err := c.futures.NewChangeLeverageService().Symbol(symbol).Leverage(leverage).Do(ctx)
	if err != nil {
		return domain.Leverage{}, wrap("change leverage", err)
	}
	return domain.Leverage{
		Symbol:           res.Symbol,
		Leverage:         res.Leverage,
		MaxNotionalValue: res.MaxNotionalValue,
	}, nil
}

// LeverageBrackets returns the notional brackets of symbol.
func (c *Client) LeverageBrackets(ctx context.Context, symbol string) (domain.LeverageInfo, error) {
	if err := c.requireCredentials(); err != nil {
		return domain.LeverageInfo{}, err
	}
	res, err := c.futures.NewGetLeverageBracketService().Symbol(symbol).Do(ctx)
	if err != nil {
		return domain.LeverageInfo{}, wrap("leverage brackets", err)
	}
	for _, lb := range res {
		if lb.Symbol != symbol {
			continue
		}
		info := domain.LeverageInfo{Symbol: lb.Symbol, Brackets: make([]domain.LeverageBracket, 0, len(lb.Brackets))}
		for _, b := range lb.Brackets {
			info.Brackets = append(info.Brackets, domain.LeverageBracket{
				Bracket:          b.Bracket,
				InitialLeverage:  b.InitialLeverage,
				NotionalCap:      decimal.NewFromFloat(b.NotionalCap),
				NotionalFloor:    decimal.NewFromFloat(b.NotionalFloor),
				MaintMarginRatio: decimal.NewFromFloat(b.MaintMarginRatio),
			})
		}
		return info, nil
	}
	return domain.LeverageInfo{}, fmt.Errorf("leverage brackets: no brackets for %s", symbol)
}

// PlaceBatchOrders submits every request in one batch call. Entries rejected by
// the exchange are reported in BatchResult.Errors; accepted ones in Orders.
func (c *Client) PlaceBatchOrders(ctx context.Context, reqs []domain.OrderRequest) (domain.BatchResult, error) {
	if err := c.requireCredentials(); err != nil {
		return domain.BatchResult{}, err
	}
	services := make([]*futures.CreateOrderService, 0, len(reqs))
	for _, r := range reqs {
		services = append(services, c.createOrderService(r))
	}
	res, err := c.futures.NewCreateBatchOrdersService().OrderList(services).Do(ctx)
	if err != nil {
		return domain.BatchResult{}, wrap("batch orders", err)
	}

	out := domain.BatchResult{Orders: make([]domain.Order, 0, len(res.Orders))}
	for _, o := range res.Orders {
		if o == nil {
			continue
		}
		out.Orders = append(out.Orders, fromOrder(o))
	}
	for _, e := range res.Errors {
		if e != nil {
			out.Errors = append(out.Errors, e.Error())
		}
	}
	return out, nil
}

// createOrderService maps a request onto the library builder, leaving unset
// fields out of the signed payload.
func (c *Client) createOrderService(r domain.OrderRequest) *futures.CreateOrderService {
	svc := c.futures.NewCreateOrderService().
		Symbol(r.Symbol).
		Side(futures.SideType(r.Side)).
		Type(futures.OrderType(r.Type))

	if r.PositionSide != "" {
		svc = svc.PositionSide(futures.PositionSideType(r.PositionSide))
	}
	if q := str(r.Quantity); q != "" {
		svc = svc.Quantity(q)
	}
	if p := str(r.Price); p != "" {
		svc = svc.Price(p)
	}
	if sp := str(r.StopPrice); sp != "" {
		svc = svc.StopPrice(sp)
	}
	if r.Type == domain.OrderTypeLimit {
		tif := futures.TimeInForceTypeGTC
		if r.TimeInForce != "" {
			tif = futures.TimeInForceType(r.TimeInForce)
		}
		svc = svc.TimeInForce(tif)
	}
	if r.ReduceOnly {
		svc = svc.ReduceOnly(true)
	}
	if r.ClosePosition {
		svc = svc.ClosePosition(true)
	}
	if r.ClientOrderID != "" {
		svc = svc.NewClientOrderID(r.ClientOrderID)
	}
	return svc
}

func fromOrder(o *futures.Order) domain.Order {
	return domain.Order{
		OrderID:       o.OrderID,
		ClientOrderID: o.ClientOrderID,
		Symbol:        o.Symbol,
		Side:          domain.Side(o.Side),
		PositionSide:  domain.PositionSide(o.PositionSide),
		Type:          domain.OrderType(o.Type),
		Status:        string(o.Status),
		Price:         dec(o.Price),
		AvgPrice:      dec(o.AvgPrice),
		StopPrice:     dec(o.StopPrice),
		OrigQuantity:  dec(o.OrigQuantity),
		ExecutedQty:   dec(o.ExecutedQuantity),
		ReduceOnly:    o.ReduceOnly,
		ClosePosition: o.ClosePosition,
		UpdateTime:    o.UpdateTime,
	}
}
