package entity

import domain "crypto_backend/internal/domain/entity"

// SymbolView is the position, open orders, leverage brackets and optionally
// recent fills of one symbol. LeverageInfo is nil when the lookup failed.
type SymbolView struct {
	Symbol       string               `json:"symbol"`
	Position     *domain.Position     `json:"position"`
	OpenOrders   []domain.Order       `json:"openOrders"`
	RecentTrades []domain.Trade       `json:"recentTrades"`
	LeverageInfo *domain.LeverageInfo `json:"leverageInfo"`
}

// PortfolioView is every active position and open order, with balances when available.
type PortfolioView struct {
	Positions   []domain.Position       `json:"positions"`
	OpenOrders  []domain.Order          `json:"openOrders"`
	AccountInfo *domain.AccountSnapshot `json:"accountInfo"`
}
