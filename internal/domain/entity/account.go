package entity

import "github.com/shopspring/decimal"

// AccountSnapshot holds the balance summary of a futures account.
type AccountSnapshot struct {
	TotalMarginBalance    decimal.Decimal `json:"totalMarginBalance"`
	TotalWalletBalance    decimal.Decimal `json:"totalWalletBalance"`
	TotalUnrealizedProfit decimal.Decimal `json:"totalUnrealizedProfit"`
	AvailableBalance      decimal.Decimal `json:"availableBalance"`
}

// Position is a read-only snapshot of one futures position.
// The sign of PositionAmt encodes the direction: positive is long, negative is short.
type Position struct {
	Symbol           string          `json:"symbol"`
	PositionAmt      decimal.Decimal `json:"positionAmt"`
	EntryPrice       decimal.Decimal `json:"entryPrice"`
	MarkPrice        decimal.Decimal `json:"markPrice"`
	UnrealizedProfit decimal.Decimal `json:"unrealizedProfit"`
	LiquidationPrice decimal.Decimal `json:"liquidationPrice"`
	Leverage         int             `json:"leverage"`
	MarginType       string          `json:"marginType"`
	IsolatedMargin   decimal.Decimal `json:"isolatedMargin"`
	PositionSide     PositionSide    `json:"positionSide"`
}

// Active reports whether the position holds any exposure.
func (p Position) Active() bool {
	return !p.PositionAmt.IsZero()
}

// ActivePositions filters out flat positions.
func ActivePositions(ps []Position) []Position {
	out := make([]Position, 0, len(ps))
	for _, p := range ps {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

// FindActive returns the first active position for symbol.
func FindActive(ps []Position, symbol string) (Position, bool) {
	for _, p := range ps {
		if p.Symbol == symbol && p.Active() {
			return p, true
		}
	}
	return Position{}, false
}

// AccountOverview combines balances with the active positions.
type AccountOverview struct {
	Account   AccountSnapshot `json:"account"`
	Positions []Position      `json:"positions"`
}

// Trade is one fill of the account on a symbol.
type Trade struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"orderId"`
	Symbol      string          `json:"symbol"`
	Side        Side            `json:"side"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"qty"`
	RealizedPnl decimal.Decimal `json:"realizedPnl"`
	Commission  decimal.Decimal `json:"commission"`
	Time        int64           `json:"time"`
}
