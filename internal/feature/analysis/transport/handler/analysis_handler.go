// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"crypto_backend/internal/feature/analysis/domain/entity"
	"crypto_backend/internal/feature/analysis/transport/http/dto"
	"crypto_backend/internal/feature/analysis/usecase"
	indicatorsusecase "crypto_backend/internal/feature/indicators/usecase"
	"crypto_backend/internal/platform/http/response"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// AnalysisUsecase はAI分析のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalysisUsecase interface {
	Analyze(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error)
	CachedAnalyze(ctx context.Context, coin string) (*entity.Narrative, bool, error)
	FastAnalyze(ctx context.Context, coin string) (*entity.Narrative, error)
	SmartTrade(ctx context.Context, coin string, autoExecute bool) (*entity.SmartTrade, error)
}

// AnalysisHandler はAI分析のHTTPリクエストを処理します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler はAnalysisHandlerの新しいインスタンスを生成します。
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// PostAnalysis は指標とアカウント情報をもとにAI分析を行います。
// enableAutoTradingがtrueで信頼度が閾値を超えた場合は注文まで実行します。
//
// エンドポイント例:
// POST /ai/analysis {"symbol":"BTC","enableAutoTrading":true,"confidenceThreshold":0.8}
func (h *AnalysisHandler) PostAnalysis(c *gin.Context) {
	var req dto.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	res, err := h.uc.Analyze(c.Request.Context(), usecase.AnalyzeRequest{
		Coin:                req.Symbol,
		EnableAutoTrading:   req.EnableAutoTrading,
		ConfidenceThreshold: req.ConfidenceThreshold,
	})
	if err != nil {
		h.fail(c, "analysis", req.Symbol, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAnalysisResponse(res, time.Now()))
}

// GetCachedAnalysis は60秒間キャッシュされた簡潔な分析を返します。
// X-Cacheヘッダーでヒット/ミスを示します。
//
// エンドポイント例:
// GET /ai/analysis/cached?symbol=BTC
func (h *AnalysisHandler) GetCachedAnalysis(c *gin.Context) {
	symbol, ok := symbolQuery(c)
	if !ok {
		return
	}

	n, hit, err := h.uc.CachedAnalyze(c.Request.Context(), symbol)
	if err != nil {
		h.fail(c, "cached analysis", symbol, err)
		return
	}

	if hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, dto.NewNarrativeResponse(n, time.Now()))
}

// GetFastAnalysis は短時間で返る簡易分析を返します。
// データ取得やモデル呼び出しに失敗しても既定値で200を返します。
//
// エンドポイント例:
// GET /ai/analysis/fast?symbol=ETH
func (h *AnalysisHandler) GetFastAnalysis(c *gin.Context) {
	symbol, ok := symbolQuery(c)
	if !ok {
		return
	}

	n, err := h.uc.FastAnalyze(c.Request.Context(), symbol)
	if err != nil {
		h.fail(c, "fast analysis", symbol, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewNarrativeResponse(n, time.Now()))
}

// PostSmartTrade はAIに取引指示を生成させ、autoExecuteがtrueなら順番に実行します。
//
// エンドポイント例:
// POST /ai/smart-trade {"symbol":"BTC","autoExecute":false}
func (h *AnalysisHandler) PostSmartTrade(c *gin.Context) {
	var req dto.SmartTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	res, err := h.uc.SmartTrade(c.Request.Context(), req.Symbol, req.AutoExecute)
	if err != nil {
		h.fail(c, "smart trade", req.Symbol, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSmartTradeResponse(res, time.Now()))
}

func (h *AnalysisHandler) fail(c *gin.Context, op, symbol string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		slog.Error(op+" failed", "symbol", symbol, "error", err)
	}
	response.Error(c, status, err.Error())
}

func symbolQuery(c *gin.Context) (string, bool) {
	symbol := strings.TrimSpace(c.Query("symbol"))
	if symbol == "" {
		response.Error(c, http.StatusBadRequest, "symbol is required")
		return "", false
	}
	return symbol, true
}

// statusOf はユースケースのエラーをHTTPステータスに変換します。
func statusOf(err error) int {
	switch {
	case errors.Is(err, indicatorsusecase.ErrSymbolRequired), errors.Is(err, indicatorsusecase.ErrUnsupportedSymbol):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrLLMUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrLLMRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
