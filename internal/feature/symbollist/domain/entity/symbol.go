// Package entity defines the domain models for the symbollist feature.
package entity

// Symbol is a coin the service analyses and trades, together with the
// USDⓈ-M perpetual contract it maps to.
type Symbol struct {
	Coin       string
	Symbol     string
	QuoteAsset string
	SortKey    int
}
