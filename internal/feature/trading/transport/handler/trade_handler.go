// Package handler はtradingフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"crypto_backend/internal/feature/trading/domain/entity"
	"crypto_backend/internal/feature/trading/transport/http/dto"
	"crypto_backend/internal/feature/trading/usecase"
	"crypto_backend/internal/platform/http/response"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// TradeUsecase は注文操作のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TradeUsecase interface {
	Execute(ctx context.Context, p usecase.Params, allowed []entity.ActionKind) (*entity.Result, error)
	Journal(ctx context.Context, symbol string, limit int) ([]entity.JournalEntry, error)
}

// PositionsUsecase はポジション参照のユースケースを定義します。
type PositionsUsecase interface {
	Symbol(ctx context.Context, symbol string, detailed bool) (*entity.SymbolView, error)
	Portfolio(ctx context.Context) (*entity.PortfolioView, error)
}

// TradeHandler は注文とポジション参照のHTTPリクエストを処理します。
type TradeHandler struct {
	trades    TradeUsecase
	positions PositionsUsecase
}

// NewTradeHandler はTradeHandlerの新しいインスタンスを生成します。
func NewTradeHandler(trades TradeUsecase, positions PositionsUsecase) *TradeHandler {
	return &TradeHandler{trades: trades, positions: positions}
}

// PostTrade は簡易版の注文エンドポイントです。
// buy/sell、ストップ・利確の設定と移動、レバレッジ変更のみを受け付けます。
func (h *TradeHandler) PostTrade(c *gin.Context) {
	h.execute(c, entity.SimpleKinds)
}

// PostEnhancedTrade はすべてのアクションを受け付ける注文エンドポイントです。
//
// エンドポイント例:
// POST /trade/enhanced {"action":"move_stop_loss","symbol":"BTCUSDT","stopPrice":"58000"}
func (h *TradeHandler) PostEnhancedTrade(c *gin.Context) {
	h.execute(c, entity.AllKinds)
}

func (h *TradeHandler) execute(c *gin.Context, allowed []entity.ActionKind) {
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.TradeErrorResponse{Error: "invalid request: " + err.Error(), Timestamp: response.Now()})
		return
	}

	res, err := h.trades.Execute(c.Request.Context(), req.Params(), allowed)
	if err != nil {
		c.JSON(statusOf(err), dto.TradeErrorResponse{
			Error:     err.Error(),
			Action:    req.Action,
			Symbol:    req.Symbol,
			Timestamp: response.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.TradeResponse{
		Success:   true,
		Data:      res,
		Message:   "ok",
		Action:    string(res.Kind),
		Symbol:    res.Symbol,
		Timestamp: response.Now(),
	})
}

// GetPositions はポジションと未約定注文を返します。
// symbolを指定すると銘柄単位、detailed=trueで直近の約定も含めます。
func (h *TradeHandler) GetPositions(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol != "" {
		view, err := h.positions.Symbol(c.Request.Context(), symbol, c.Query("detailed") == "true")
		if err != nil {
			response.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		c.JSON(http.StatusOK, dto.SymbolPositionsResponse{SymbolView: view, Timestamp: response.Now()})
		return
	}

	view, err := h.positions.Portfolio(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.PortfolioResponse{PortfolioView: view, Timestamp: response.Now()})
}

// GetJournal は直近の注文ジャーナルを返します。
//
// エンドポイント例:
// GET /trade/journal?symbol=BTCUSDT&limit=20
func (h *TradeHandler) GetJournal(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultJournalLimit)))
	if limit <= 0 || limit > 500 {
		limit = usecase.DefaultJournalLimit
	}
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))

	entries, err := h.trades.Journal(c.Request.Context(), symbol, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.JournalResponse{Entries: entries, Timestamp: response.Now()})
}

// statusOf はユースケースのエラーをHTTPステータスに変換します。
func statusOf(err error) int {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNoPosition):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
