// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

// SymbolItem represents a symbol in the API response.
type SymbolItem struct {
	Coin   string `json:"coin"`
	Symbol string `json:"symbol"`
}

// SymbolListResponse is the body of GET /symbols.
type SymbolListResponse struct {
	Symbols   []SymbolItem `json:"symbols"`
	Timestamp string       `json:"timestamp"`
}
