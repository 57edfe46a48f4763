// Package dto はanalysisフィーチャーのリクエスト/レスポンス型を定義します。
package dto

import (
	"crypto_backend/internal/feature/analysis/domain/entity"
	"crypto_backend/internal/shared/timeutil"
	"time"
)

// AnalysisRequest は POST /ai/analysis のリクエストボディです。
type AnalysisRequest struct {
	Symbol              string   `json:"symbol" binding:"required"`
	EnableAutoTrading   bool     `json:"enableAutoTrading"`
	ConfidenceThreshold *float64 `json:"confidenceThreshold" binding:"omitempty,gte=0,lte=1"`
}

// SmartTradeRequest は POST /ai/smart-trade のリクエストボディです。
type SmartTradeRequest struct {
	Symbol      string `json:"symbol" binding:"required"`
	AutoExecute bool   `json:"autoExecute"`
}

// AutoTradeResponse は自動売買の実行結果です。
type AutoTradeResponse struct {
	entity.AutoTrade
	Timestamp        string `json:"timestamp"`
	TimestampBeijing string `json:"timestampBeijing"`
}

// TechnicalData は分析に使った指標データの概要です。
type TechnicalData struct {
	Symbol            string   `json:"symbol"`
	Timeframes        []string `json:"timeframes"`
	UpdateTime        string   `json:"updateTime"`
	UpdateTimeBeijing string   `json:"updateTimeBeijing"`
}

// AnalysisMetadata は分析の実行条件です。
type AnalysisMetadata struct {
	Model               string  `json:"model"`
	AnalysisTime        string  `json:"analysisTime"`
	AnalysisTimeBeijing string  `json:"analysisTimeBeijing"`
	AutoTradingEnabled  bool    `json:"autoTradingEnabled"`
	ConfidenceThreshold float64 `json:"confidenceThreshold"`
}

// AnalysisResponse は POST /ai/analysis のレスポンスボディです。
// 決定の解析に失敗した場合、Decisionはnullで、Errorに理由が入ります。
type AnalysisResponse struct {
	Analysis         string                `json:"analysis"`
	Decision         *entity.TradeDecision `json:"decision"`
	AutoTrade        *AutoTradeResponse    `json:"autoTrade"`
	TechnicalData    TechnicalData         `json:"technicalData"`
	Metadata         AnalysisMetadata      `json:"metadata"`
	Error            string                `json:"error,omitempty"`
	Timestamp        string                `json:"timestamp"`
	TimestampBeijing string                `json:"timestampBeijing"`
}

// NewAnalysisResponse は分析結果からレスポンスを組み立てます。
func NewAnalysisResponse(a *entity.Analysis, now time.Time) AnalysisResponse {
	res := AnalysisResponse{
		Analysis: a.Text,
		Decision: a.Decision,
		Metadata: AnalysisMetadata{
			Model:               a.Model,
			AnalysisTime:        timeutil.FormatISO(a.Time),
			AnalysisTimeBeijing: timeutil.FormatBeijing(a.Time),
			AutoTradingEnabled:  a.AutoMode,
			ConfidenceThreshold: a.Threshold,
		},
		Error:            a.ParseErr,
		Timestamp:        timeutil.FormatISO(now),
		TimestampBeijing: timeutil.FormatBeijing(now),
	}
	if a.AutoTrade != nil {
		res.AutoTrade = &AutoTradeResponse{
			AutoTrade:        *a.AutoTrade,
			Timestamp:        timeutil.FormatISO(a.AutoTrade.Time),
			TimestampBeijing: timeutil.FormatBeijing(a.AutoTrade.Time),
		}
	}
	if a.Snapshot != nil {
		res.TechnicalData = TechnicalData{
			Symbol:            a.Snapshot.Symbol,
			Timeframes:        a.Snapshot.Available(),
			UpdateTime:        timeutil.FormatISO(a.Snapshot.UpdateTime),
			UpdateTimeBeijing: timeutil.FormatBeijing(a.Snapshot.UpdateTime),
		}
	}
	return res
}

// NarrativeResponse は GET /ai/analysis/cached と /ai/analysis/fast のレスポンスボディです。
type NarrativeResponse struct {
	entity.Narrative
	AnalysisTime     string `json:"analysisTime"`
	Timestamp        string `json:"timestamp"`
	TimestampBeijing string `json:"timestampBeijing"`
}

// NewNarrativeResponse はナラティブからレスポンスを組み立てます。
func NewNarrativeResponse(n *entity.Narrative, now time.Time) NarrativeResponse {
	return NarrativeResponse{
		Narrative:        *n,
		AnalysisTime:     timeutil.FormatISO(n.Time),
		Timestamp:        timeutil.FormatISO(now),
		TimestampBeijing: timeutil.FormatBeijing(now),
	}
}

// SmartTradeMetadata はスマートトレードの実行条件です。
type SmartTradeMetadata struct {
	Symbol       string `json:"symbol"`
	AutoExecute  bool   `json:"autoExecute"`
	AnalysisTime string `json:"analysisTime"`
}

// SmartTradeResponse は POST /ai/smart-trade のレスポンスボディです。
type SmartTradeResponse struct {
	Analysis          string                       `json:"analysis"`
	TradeInstructions []entity.Instruction         `json:"tradeInstructions"`
	ExecutedTrades    []entity.ExecutedInstruction `json:"executedTrades"`
	Metadata          SmartTradeMetadata           `json:"metadata"`
	Timestamp         string                       `json:"timestamp"`
	TimestampBeijing  string                       `json:"timestampBeijing"`
}

// NewSmartTradeResponse はスマートトレード結果からレスポンスを組み立てます。
// 自動実行しない場合、executedTradesは空配列です。
func NewSmartTradeResponse(s *entity.SmartTrade, now time.Time) SmartTradeResponse {
	executed := s.Executed
	if executed == nil {
		executed = []entity.ExecutedInstruction{}
	}
	return SmartTradeResponse{
		Analysis:          s.Text,
		TradeInstructions: s.Instructions,
		ExecutedTrades:    executed,
		Metadata: SmartTradeMetadata{
			Symbol:       s.Symbol,
			AutoExecute:  s.AutoExecute,
			AnalysisTime: timeutil.FormatISO(s.Time),
		},
		Timestamp:        timeutil.FormatISO(now),
		TimestampBeijing: timeutil.FormatBeijing(now),
	}
}
