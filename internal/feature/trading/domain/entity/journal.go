package entity

import "time"

// Journal sources.
const (
	SourceAPI        = "api"
	SourceAutoTrade  = "auto_trade"
	SourceSmartTrade = "smart_trade"
)

// JournalEntry records one dispatched action and its outcome.
type JournalEntry struct {
	ID        uint       `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	Source    string     `json:"source"`
	Action    ActionKind `json:"action"`
	Symbol    string     `json:"symbol"`
	Success   bool       `json:"success"`
	OrderID   int64      `json:"orderId,omitempty"`
	Error     string     `json:"error,omitempty"`
}
