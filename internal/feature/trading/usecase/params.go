package usecase

import (
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/trading/domain/entity"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxBatchOrders is the exchange limit of orders per batch call.
	MaxBatchOrders = 5
	// MaxLeverage is the highest leverage accepted by the exchange.
	MaxLeverage = 125
)

// Params are the raw request parameters of a trade call.
type Params struct {
	Action        string
	Symbol        string
	Quantity      decimal.NullDecimal
	Price         decimal.NullDecimal
	StopPrice     decimal.NullDecimal
	OrderType     string
	PositionSide  string
	ReduceOnly    bool
	Leverage      int
	OrderID       int64
	ClientOrderID string
	Orders        []OrderParams
}

// OrderParams is one entry of a batch_orders request.
type OrderParams struct {
	Side         string
	Type         string
	PositionSide string
	Quantity     decimal.NullDecimal
	Price        decimal.NullDecimal
	StopPrice    decimal.NullDecimal
	ReduceOnly   bool
}

// ParseAction validates p and builds the matching action variant. Only kinds
// listed in allowed are accepted.
func ParseAction(p Params, allowed []entity.ActionKind) (entity.Action, error) {
	kind := entity.ActionKind(strings.ToLower(strings.TrimSpace(p.Action)))
	symbol := strings.ToUpper(strings.TrimSpace(p.Symbol))
	if kind == "" || symbol == "" {
		return nil, entity.Invalid("", "action and symbol are required")
	}
	if !slices.Contains(allowed, kind) {
		return nil, entity.Invalid("action", fmt.Sprintf("unsupported action %q", p.Action))
	}

	switch kind {
	case entity.KindBuy, entity.KindSell:
		side := domain.SideBuy
		if kind == entity.KindSell {
			side = domain.SideSell
		}
		return parseOrder(symbol, side, OrderParams{
			Type:         p.OrderType,
			PositionSide: p.PositionSide,
			Quantity:     p.Quantity,
			Price:        p.Price,
			StopPrice:    p.StopPrice,
			ReduceOnly:   p.ReduceOnly,
		}, p.ClientOrderID)

	case entity.KindClosePosition:
		return entity.ClosePosition{Symbol: symbol, ClientOrderID: p.ClientOrderID}, nil

	case entity.KindSetStopLoss, entity.KindSetTakeProfit, entity.KindMoveStopLoss, entity.KindMoveTakeProfit:
		stop, err := positive("stopPrice", p.StopPrice)
		if err != nil {
			return nil, err
		}
		risk := entity.StopLoss
		if kind == entity.KindSetTakeProfit || kind == entity.KindMoveTakeProfit {
			risk = entity.TakeProfit
		}
		if kind == entity.KindMoveStopLoss || kind == entity.KindMoveTakeProfit {
			return entity.MoveRiskOrder{Symbol: symbol, Risk: risk, StopPrice: stop}, nil
		}
		return entity.SetRiskOrder{Symbol: symbol, Risk: risk, StopPrice: stop}, nil

	case entity.KindSetLeverage:
		if p.Leverage < 1 || p.Leverage > MaxLeverage {
			return nil, entity.Invalid("leverage", fmt.Sprintf("must be between 1 and %d", MaxLeverage))
		}
		return entity.SetLeverage{Symbol: symbol, Leverage: p.Leverage}, nil

	case entity.KindCancelOrder:
		if p.OrderID <= 0 {
			return nil, entity.Invalid("orderId", "is required")
		}
		return entity.CancelOrder{Symbol: symbol, OrderID: p.OrderID}, nil

	case entity.KindCancelAllOrders:
		return entity.CancelAllOrders{Symbol: symbol}, nil

	case entity.KindBatchOrders:
		if len(p.Orders) == 0 {
			return nil, entity.Invalid("orders", "must not be empty")
		}
		if len(p.Orders) > MaxBatchOrders {
			return nil, entity.Invalid("orders", fmt.Sprintf("at most %d orders per batch", MaxBatchOrders))
		}
		orders := make([]entity.PlaceOrder, 0, len(p.Orders))
		for i, op := range p.Orders {
			side, ok := parseSide(op.Side)
			if !ok || !op.Quantity.Valid {
				return nil, entity.Invalid(fmt.Sprintf("orders[%d]", i), "side and quantity are required")
			}
			o, err := parseOrder(symbol, side, op, "")
			if err != nil {
				return nil, fmt.Errorf("orders[%d]: %w", i, err)
			}
			orders = append(orders, o)
		}
		return entity.BatchOrders{Symbol: symbol, Orders: orders}, nil
	}

	return nil, entity.Invalid("action", fmt.Sprintf("unsupported action %q", p.Action))
}

func parseOrder(symbol string, side domain.Side, op OrderParams, clientOrderID string) (entity.PlaceOrder, error) {
	qty, err := positive("quantity", op.Quantity)
	if err != nil {
		return entity.PlaceOrder{}, err
	}

	typ := domain.OrderType(strings.ToUpper(strings.TrimSpace(op.Type)))
	if typ == "" {
		typ = domain.OrderTypeMarket
	}
	o := entity.PlaceOrder{
		Symbol:        symbol,
		Side:          side,
		Type:          typ,
		Quantity:      qty,
		ReduceOnly:    op.ReduceOnly,
		ClientOrderID: clientOrderID,
	}

	switch typ {
	case domain.OrderTypeMarket:
	case domain.OrderTypeLimit:
		if o.Price, err = positive("price", op.Price); err != nil {
			return entity.PlaceOrder{}, entity.Invalid("price", "is required for LIMIT orders")
		}
	case domain.OrderTypeStopMarket, domain.OrderTypeTakeProfitMarket:
		if o.StopPrice, err = positive("stopPrice", op.StopPrice); err != nil {
			return entity.PlaceOrder{}, entity.Invalid("stopPrice", fmt.Sprintf("is required for %s orders", typ))
		}
	default:
		return entity.PlaceOrder{}, entity.Invalid("orderType", fmt.Sprintf("unsupported order type %q", op.Type))
	}

	ps := domain.PositionSide(strings.ToUpper(strings.TrimSpace(op.PositionSide)))
	switch ps {
	case "":
		ps = domain.PositionSideBoth
	case domain.PositionSideBoth, domain.PositionSideLong, domain.PositionSideShort:
	default:
		return entity.PlaceOrder{}, entity.Invalid("positionSide", fmt.Sprintf("unsupported position side %q", op.PositionSide))
	}
	o.PositionSide = ps
	return o, nil
}

func parseSide(s string) (domain.Side, bool) {
	switch domain.Side(strings.ToUpper(strings.TrimSpace(s))) {
	case domain.SideBuy:
		return domain.SideBuy, true
	case domain.SideSell:
		return domain.SideSell, true
	}
	return "", false
}

func positive(field string, d decimal.NullDecimal) (decimal.Decimal, error) {
	if !d.Valid {
		return decimal.Decimal{}, entity.Invalid(field, "is required")
	}
	if !d.Decimal.IsPositive() {
		return decimal.Decimal{}, entity.Invalid(field, "must be positive")
	}
	return d.Decimal, nil
}
