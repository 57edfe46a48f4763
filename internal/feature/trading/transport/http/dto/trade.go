// Package dto はtradingフィーチャーのリクエスト/レスポンス型を定義します。
package dto

import (
	"crypto_backend/internal/feature/trading/domain/entity"
	"crypto_backend/internal/feature/trading/usecase"

	"github.com/shopspring/decimal"
)

// TradeRequest は POST /trade と POST /trade/enhanced のリクエストボディです。
// 数値は JSON の数値と文字列のどちらでも受け付けます。
type TradeRequest struct {
	Action        string              `json:"action"`
	Symbol        string              `json:"symbol"`
	Quantity      decimal.NullDecimal `json:"quantity"`
	Price         decimal.NullDecimal `json:"price"`
	StopPrice     decimal.NullDecimal `json:"stopPrice"`
	OrderType     string              `json:"orderType"`
	Leverage      int                 `json:"leverage"`
	PositionSide  string              `json:"positionSide"`
	ReduceOnly    bool                `json:"reduceOnly"`
	OrderID       int64               `json:"orderId"`
	ClientOrderID string              `json:"clientOrderId"`
	Orders        []BatchOrderRequest `json:"orders"`
}

// BatchOrderRequest は batch_orders の1件分の注文です。
type BatchOrderRequest struct {
	Side         string              `json:"side"`
	Type         string              `json:"type"`
	PositionSide string              `json:"positionSide"`
	Quantity     decimal.NullDecimal `json:"quantity"`
	Price        decimal.NullDecimal `json:"price"`
	StopPrice    decimal.NullDecimal `json:"stopPrice"`
	ReduceOnly   bool                `json:"reduceOnly"`
}

// Params はリクエストをユースケースの入力に変換します。
func (r TradeRequest) Params() usecase.Params {
	p := usecase.Params{
		Action:        r.Action,
		Symbol:        r.Symbol,
		Quantity:      r.Quantity,
		Price:         r.Price,
		StopPrice:     r.StopPrice,
		OrderType:     r.OrderType,
		PositionSide:  r.PositionSide,
		ReduceOnly:    r.ReduceOnly,
		Leverage:      r.Leverage,
		OrderID:       r.OrderID,
		ClientOrderID: r.ClientOrderID,
	}
	for _, o := range r.Orders {
		p.Orders = append(p.Orders, usecase.OrderParams{
			Side:         o.Side,
			Type:         o.Type,
			PositionSide: o.PositionSide,
			Quantity:     o.Quantity,
			Price:        o.Price,
			StopPrice:    o.StopPrice,
			ReduceOnly:   o.ReduceOnly,
		})
	}
	return p
}

// TradeResponse は成功時のレスポンスボディです。
type TradeResponse struct {
	Success   bool           `json:"success"`
	Data      *entity.Result `json:"data"`
	Message   string         `json:"message"`
	Action    string         `json:"action"`
	Symbol    string         `json:"symbol"`
	Timestamp string         `json:"timestamp"`
}

// TradeErrorResponse は失敗時のレスポンスボディです。
type TradeErrorResponse struct {
	Error     string `json:"error"`
	Action    string `json:"action,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Timestamp string `json:"timestamp"`
}

// JournalResponse は GET /trade/journal のレスポンスボディです。
type JournalResponse struct {
	Entries   []entity.JournalEntry `json:"entries"`
	Timestamp string                `json:"timestamp"`
}

// SymbolPositionsResponse は銘柄指定時の GET /positions のレスポンスボディです。
type SymbolPositionsResponse struct {
	*entity.SymbolView
	Timestamp string `json:"timestamp"`
}

// PortfolioResponse は銘柄未指定時の GET /positions のレスポンスボディです。
type PortfolioResponse struct {
	*entity.PortfolioView
	Timestamp string `json:"timestamp"`
}
