package entity

import "github.com/shopspring/decimal"

// Side is the order side on the exchange.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite returns the side that reduces exposure opened by s.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// PositionSide is the hedge-mode position side of an order.
type PositionSide string

const (
	PositionSideBoth  PositionSide = "BOTH"
	PositionSideLong  PositionSide = "LONG"
	PositionSideShort PositionSide = "SHORT"
)

// OrderType is the exchange order type.
type OrderType string

const (
	OrderTypeMarket           OrderType = "MARKET"
	OrderTypeLimit            OrderType = "LIMIT"
	OrderTypeStopMarket       OrderType = "STOP_MARKET"
	OrderTypeTakeProfitMarket OrderType = "TAKE_PROFIT_MARKET"
)

// IsProtective reports whether t is a stop-loss or take-profit trigger order.
func (t OrderType) IsProtective() bool {
	return t == OrderTypeStopMarket || t == OrderTypeTakeProfitMarket
}

// OrderRequest is a single order submission. Zero decimals are treated as unset.
type OrderRequest struct {
	Symbol        string          `json:"symbol"`
	Side          Side            `json:"side"`
	PositionSide  PositionSide    `json:"positionSide"`
	Type          OrderType       `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	StopPrice     decimal.Decimal `json:"stopPrice"`
	ReduceOnly    bool            `json:"reduceOnly"`
	ClosePosition bool            `json:"closePosition"`
	TimeInForce   string          `json:"timeInForce,omitempty"`
	ClientOrderID string          `json:"clientOrderId,omitempty"`
}

// Order is an order as reported by the exchange.
type Order struct {
	OrderID       int64           `json:"orderId"`
	ClientOrderID string          `json:"clientOrderId"`
	Symbol        string          `json:"symbol"`
	Side          Side            `json:"side"`
	PositionSide  PositionSide    `json:"positionSide"`
	Type          OrderType       `json:"type"`
	Status        string          `json:"status"`
	Price         decimal.Decimal `json:"price"`
	AvgPrice      decimal.Decimal `json:"avgPrice"`
	StopPrice     decimal.Decimal `json:"stopPrice"`
	OrigQuantity  decimal.Decimal `json:"origQty"`
	ExecutedQty   decimal.Decimal `json:"executedQty"`
	ReduceOnly    bool            `json:"reduceOnly"`
	ClosePosition bool            `json:"closePosition"`
	UpdateTime    int64           `json:"updateTime"`
}

// Leverage is the leverage setting of a symbol.
type Leverage struct {
	Symbol           string `json:"symbol"`
	Leverage         int    `json:"leverage"`
	MaxNotionalValue string `json:"maxNotionalValue"`
}

// LeverageBracket is one notional tier of a symbol's leverage schedule.
type LeverageBracket struct {
	Bracket          int             `json:"bracket"`
	InitialLeverage  int             `json:"initialLeverage"`
	NotionalCap      decimal.Decimal `json:"notionalCap"`
	NotionalFloor    decimal.Decimal `json:"notionalFloor"`
	MaintMarginRatio decimal.Decimal `json:"maintMarginRatio"`
}

// LeverageInfo is the leverage bracket schedule of a symbol.
type LeverageInfo struct {
	Symbol   string            `json:"symbol"`
	Brackets []LeverageBracket `json:"brackets"`
}

// BatchResult is the outcome of a batch submission. Errors are index-aligned with the request.
type BatchResult struct {
	Orders []Order  `json:"orders"`
	Errors []string `json:"errors,omitempty"`
}
