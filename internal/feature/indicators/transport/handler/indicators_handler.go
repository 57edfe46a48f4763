// Package handler はindicatorsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"crypto_backend/internal/feature/indicators/domain/entity"
	"crypto_backend/internal/feature/indicators/transport/http/dto"
	"crypto_backend/internal/feature/indicators/usecase"
	"crypto_backend/internal/platform/http/response"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// IndicatorsUsecase はマルチタイムフレーム指標のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type IndicatorsUsecase interface {
	Snapshot(ctx context.Context, coin string, timeframes ...string) (*entity.Snapshot, error)
}

// IndicatorsHandler はテクニカル指標のHTTPリクエストを処理します。
type IndicatorsHandler struct {
	uc IndicatorsUsecase
}

// NewIndicatorsHandler はIndicatorsHandlerの新しいインスタンスを生成します。
func NewIndicatorsHandler(uc IndicatorsUsecase) *IndicatorsHandler {
	return &IndicatorsHandler{uc: uc}
}

// PostIndicators は銘柄コードを受け取り、全時間足の整列済み指標データを返します。
// 一部の時間足の取得に失敗しても、そのスロットにエラーマーカーを入れて200を返します。
//
// エンドポイント例:
// POST /indicators {"symbol":"BTC"}
func (h *IndicatorsHandler) PostIndicators(c *gin.Context) {
	var req dto.IndicatorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "symbol is required")
		return
	}

	snap, err := h.uc.Snapshot(c.Request.Context(), req.Symbol)
	if err != nil {
		if errors.Is(err, usecase.ErrSymbolRequired) || errors.Is(err, usecase.ErrUnsupportedSymbol) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("indicator snapshot failed", "symbol", req.Symbol, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.NewIndicatorsResponse(snap, time.Now()))
}
