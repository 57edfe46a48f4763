// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"crypto_backend/internal/feature/symbollist/domain/entity"
	"strings"
)

// SymbolUsecase lists the configured coins.
type SymbolUsecase struct {
	coins []string
	quote string
}

// NewSymbolUsecase creates a SymbolUsecase for coins quoted in quote.
func NewSymbolUsecase(coins []string, quote string) *SymbolUsecase {
	return &SymbolUsecase{coins: coins, quote: strings.ToUpper(quote)}
}

// ListActiveSymbols returns the supported coins in configuration order.
// Blank and repeated coin codes are skipped.
func (u *SymbolUsecase) ListActiveSymbols(_ context.Context) ([]entity.Symbol, error) {
	seen := make(map[string]bool, len(u.coins))
	out := make([]entity.Symbol, 0, len(u.coins))
	for _, c := range u.coins {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, entity.Symbol{
			Coin:       c,
			Symbol:     c + u.quote,
			QuoteAsset: u.quote,
			SortKey:    len(out) + 1,
		})
	}
	return out, nil
}
