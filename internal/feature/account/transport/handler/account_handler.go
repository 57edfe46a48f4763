// Package handler はaccountフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/account/transport/http/dto"
	"crypto_backend/internal/platform/http/response"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AccountUsecase は口座情報のユースケースを定義します。
type AccountUsecase interface {
	Overview(ctx context.Context) (*domain.AccountOverview, error)
}

// AccountHandler は口座情報のHTTPリクエストを処理します。
type AccountHandler struct {
	uc AccountUsecase
}

// NewAccountHandler はAccountHandlerの新しいインスタンスを生成します。
func NewAccountHandler(uc AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// GetAccount は残高サマリーとアクティブなポジションを返します。
// 認証情報の未設定や取引所エラーは500として返却します。
func (h *AccountHandler) GetAccount(c *gin.Context) {
	ov, err := h.uc.Overview(c.Request.Context())
	if err != nil {
		slog.Error("account overview failed", "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.AccountResponse{
		Account:   ov.Account,
		Positions: ov.Positions,
		Timestamp: response.Now(),
	})
}
