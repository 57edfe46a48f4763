package entity

import (
	indicators "crypto_backend/internal/feature/indicators/domain/entity"
	trading "crypto_backend/internal/feature/trading/domain/entity"
	"time"

	"github.com/shopspring/decimal"
)

// Prompt is one completion request to a language model.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Analysis is the result of a full analysis run.
type Analysis struct {
	Coin      string
	Symbol    string
	Text      string
	Decision  *TradeDecision
	ParseErr  string
	AutoTrade *AutoTrade
	Snapshot  *indicators.Snapshot
	Threshold float64
	AutoMode  bool
	Model     string
	Time      time.Time
}

// AutoTrade is the outcome of executing a decision. Risk orders are
// recorded independently and a failed one never undoes the main order.
type AutoTrade struct {
	Success       bool                `json:"success"`
	Action        trading.ActionKind  `json:"action,omitempty"`
	OrderID       int64               `json:"orderId,omitempty"`
	ExecutedPrice decimal.NullDecimal `json:"executedPrice"`
	Error         string              `json:"error,omitempty"`
	RiskOrders    []RiskOrderOutcome  `json:"riskOrders,omitempty"`
	Time          time.Time           `json:"-"`
}

// RiskOrderOutcome is the result of placing one stop-loss or take-profit order.
type RiskOrderOutcome struct {
	Action    trading.ActionKind `json:"action"`
	StopPrice decimal.Decimal    `json:"stopPrice"`
	Success   bool               `json:"success"`
	OrderID   int64              `json:"orderId,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Narrative is a short free-text market comment.
type Narrative struct {
	Coin     string    `json:"coin"`
	Symbol   string    `json:"symbol"`
	Text     string    `json:"analysis"`
	Fallback bool      `json:"fallback"`
	Time     time.Time `json:"-"`
}

// ExecutedInstruction pairs an instruction with its execution outcome.
type ExecutedInstruction struct {
	Instruction Instruction     `json:"instruction"`
	Result      *trading.Result `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// SmartTrade is the result of an instruction-line analysis.
type SmartTrade struct {
	Coin         string
	Symbol       string
	Text         string
	Instructions []Instruction
	Executed     []ExecutedInstruction
	AutoExecute  bool
	Time         time.Time
}
