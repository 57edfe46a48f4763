// Package usecase implements order dispatching for the trading feature.
package usecase

import (
	domain "crypto_backend/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Direction is the order side and hedge-mode position side that reduce an open position.
type Direction struct {
	CloseSide    domain.Side
	PositionSide domain.PositionSide
}

// InferDirection derives the closing direction from the sign of positionAmt.
// A long (positive) position is closed by SELL on the LONG side; anything else
// is treated as short.
func InferDirection(positionAmt decimal.Decimal) Direction {
	if positionAmt.IsPositive() {
		return Direction{CloseSide: domain.SideSell, PositionSide: domain.PositionSideLong}
	}
	return Direction{CloseSide: domain.SideBuy, PositionSide: domain.PositionSideShort}
}
