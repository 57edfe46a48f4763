// Package entity defines the order actions understood by the dispatcher.
package entity

import (
	domain "crypto_backend/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// ActionKind is the wire name of an action.
type ActionKind string

const (
	KindBuy             ActionKind = "buy"
	KindSell            ActionKind = "sell"
	KindClosePosition   ActionKind = "close_position"
	KindSetStopLoss     ActionKind = "set_stop_loss"
	KindSetTakeProfit   ActionKind = "set_take_profit"
	KindMoveStopLoss    ActionKind = "move_stop_loss"
	KindMoveTakeProfit  ActionKind = "move_take_profit"
	KindSetLeverage     ActionKind = "set_leverage"
	KindCancelOrder     ActionKind = "cancel_order"
	KindCancelAllOrders ActionKind = "cancel_all_orders"
	KindBatchOrders     ActionKind = "batch_orders"
)

// AllKinds lists every action accepted by the full trade endpoint.
var AllKinds = []ActionKind{
	KindBuy, KindSell, KindClosePosition,
	KindSetStopLoss, KindSetTakeProfit, KindMoveStopLoss, KindMoveTakeProfit,
	KindSetLeverage, KindCancelOrder, KindCancelAllOrders, KindBatchOrders,
}

// SimpleKinds lists the actions of the simple trade endpoint.
var SimpleKinds = []ActionKind{
	KindBuy, KindSell,
	KindSetStopLoss, KindSetTakeProfit, KindMoveStopLoss, KindMoveTakeProfit,
	KindSetLeverage,
}

// Action is one of the variants below. The set is closed: only types in this
// package implement it.
type Action interface {
	Kind() ActionKind
	Target() string
	isAction()
}

// RiskKind selects between the two protective order types.
type RiskKind int

const (
	StopLoss RiskKind = iota
	TakeProfit
)

// OrderType returns the exchange trigger order type for k.
func (k RiskKind) OrderType() domain.OrderType {
	if k == TakeProfit {
		return domain.OrderTypeTakeProfitMarket
	}
	return domain.OrderTypeStopMarket
}

func (k RiskKind) String() string {
	if k == TakeProfit {
		return "take_profit"
	}
	return "stop_loss"
}

// PlaceOrder opens or adds to a position with an explicit side.
type PlaceOrder struct {
	Symbol        string
	Side          domain.Side
	Type          domain.OrderType
	PositionSide  domain.PositionSide
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	StopPrice     decimal.Decimal
	ReduceOnly    bool
	ClientOrderID string
}

// ClosePosition flattens the active position of Symbol at market.
type ClosePosition struct {
	Symbol        string
	ClientOrderID string
}

// SetRiskOrder places a whole-position stop-loss or take-profit.
type SetRiskOrder struct {
	Symbol    string
	Risk      RiskKind
	StopPrice decimal.Decimal
}

// MoveRiskOrder replaces every protective order of Symbol with a new one.
type MoveRiskOrder struct {
	Symbol    string
	Risk      RiskKind
	StopPrice decimal.Decimal
}

// SetLeverage changes the leverage of Symbol.
type SetLeverage struct {
	Symbol   string
	Leverage int
}

// CancelOrder cancels one order by exchange id.
type CancelOrder struct {
	Symbol  string
	OrderID int64
}

// CancelAllOrders cancels every open order of Symbol.
type CancelAllOrders struct {
	Symbol string
}

// BatchOrders submits several orders for Symbol in one exchange call.
type BatchOrders struct {
	Symbol string
	Orders []PlaceOrder
}

func (a PlaceOrder) Kind() ActionKind {
	if a.Side == domain.SideSell {
		return KindSell
	}
	return KindBuy
}

func (ClosePosition) Kind() ActionKind { return KindClosePosition }

func (a SetRiskOrder) Kind() ActionKind {
	if a.Risk == TakeProfit {
		return KindSetTakeProfit
	}
	return KindSetStopLoss
}

func (a MoveRiskOrder) Kind() ActionKind {
	if a.Risk == TakeProfit {
		return KindMoveTakeProfit
	}
	return KindMoveStopLoss
}

func (SetLeverage) Kind() ActionKind     { return KindSetLeverage }
func (CancelOrder) Kind() ActionKind     { return KindCancelOrder }
func (CancelAllOrders) Kind() ActionKind { return KindCancelAllOrders }
func (BatchOrders) Kind() ActionKind     { return KindBatchOrders }

func (a PlaceOrder) Target() string      { return a.Symbol }
func (a ClosePosition) Target() string   { return a.Symbol }
func (a SetRiskOrder) Target() string    { return a.Symbol }
func (a MoveRiskOrder) Target() string   { return a.Symbol }
func (a SetLeverage) Target() string     { return a.Symbol }
func (a CancelOrder) Target() string     { return a.Symbol }
func (a CancelAllOrders) Target() string { return a.Symbol }
func (a BatchOrders) Target() string     { return a.Symbol }

func (PlaceOrder) isAction()      {}
func (ClosePosition) isAction()   {}
func (SetRiskOrder) isAction()    {}
func (MoveRiskOrder) isAction()   {}
func (SetLeverage) isAction()     {}
func (CancelOrder) isAction()     {}
func (CancelAllOrders) isAction() {}
func (BatchOrders) isAction()     {}
