// Package entity defines the domain models for the analysis feature.
package entity

import (
	trading "crypto_backend/internal/feature/trading/domain/entity"

	"github.com/shopspring/decimal"
)

// DecisionAction is the action proposed by the model.
type DecisionAction string

const (
	DecisionBuy    DecisionAction = "buy"
	DecisionSell   DecisionAction = "sell"
	DecisionClose  DecisionAction = "close"
	DecisionAdd    DecisionAction = "add"
	DecisionReduce DecisionAction = "reduce"
	DecisionHold   DecisionAction = "hold"
)

// Valid reports whether a is a known action.
func (a DecisionAction) Valid() bool {
	switch a {
	case DecisionBuy, DecisionSell, DecisionClose, DecisionAdd, DecisionReduce, DecisionHold:
		return true
	}
	return false
}

// TradeDecision is a structured decision extracted from model output. It is never persisted.
type TradeDecision struct {
	Action     DecisionAction      `json:"action"`
	Quantity   decimal.NullDecimal `json:"quantity"`
	Price      decimal.NullDecimal `json:"price"`
	OrderType  string              `json:"orderType"`
	StopLoss   decimal.NullDecimal `json:"stopLoss"`
	TakeProfit decimal.NullDecimal `json:"takeProfit"`
	Reason     string              `json:"reason"`
	Confidence float64             `json:"confidence"`
}

// ParseResult is the outcome of extracting a decision from free text.
// It is one of Decision, NoDecisionFound or ParseError.
type ParseResult interface {
	isParseResult()
}

// Decision carries a successfully parsed decision.
type Decision struct {
	Decision TradeDecision
}

// NoDecisionFound means the text contained no JSON object.
type NoDecisionFound struct {
	Raw string
}

// ParseError means a JSON object was found but could not be used.
type ParseError struct {
	Raw    string
	Reason string
}

func (Decision) isParseResult()        {}
func (NoDecisionFound) isParseResult() {}
func (ParseError) isParseResult()      {}

// Instruction is one order line recognised in a narrative response.
// Numbers are kept as written by the model.
type Instruction struct {
	Action    trading.ActionKind `json:"action"`
	Symbol    string             `json:"symbol"`
	Quantity  string             `json:"quantity,omitempty"`
	Price     string             `json:"price,omitempty"`
	StopPrice string             `json:"stopPrice,omitempty"`
}
