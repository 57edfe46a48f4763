package handler_test

import (
	"bytes"
	"context"
	"crypto_backend/internal/feature/analysis/domain/entity"
	"crypto_backend/internal/feature/analysis/transport/handler"
	"crypto_backend/internal/feature/analysis/usecase"
	indicators "crypto_backend/internal/feature/indicators/domain/entity"
	indicatorsusecase "crypto_backend/internal/feature/indicators/usecase"
	trading "crypto_backend/internal/feature/trading/domain/entity"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAnalysisUsecase はAnalysisUsecaseインターフェースのモック実装です。
type mockAnalysisUsecase struct {
	AnalyzeFunc       func(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error)
	CachedAnalyzeFunc func(ctx context.Context, coin string) (*entity.Narrative, bool, error)
	FastAnalyzeFunc   func(ctx context.Context, coin string) (*entity.Narrative, error)
	SmartTradeFunc    func(ctx context.Context, coin string, autoExecute bool) (*entity.SmartTrade, error)
}

func (m *mockAnalysisUsecase) Analyze(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error) {
	return m.AnalyzeFunc(ctx, req)
}

func (m *mockAnalysisUsecase) CachedAnalyze(ctx context.Context, coin string) (*entity.Narrative, bool, error) {
	return m.CachedAnalyzeFunc(ctx, coin)
}

func (m *mockAnalysisUsecase) FastAnalyze(ctx context.Context, coin string) (*entity.Narrative, error) {
	return m.FastAnalyzeFunc(ctx, coin)
}

func (m *mockAnalysisUsecase) SmartTrade(ctx context.Context, coin string, autoExecute bool) (*entity.SmartTrade, error) {
	return m.SmartTradeFunc(ctx, coin, autoExecute)
}

var analysisTime = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func newRouter(uc *mockAnalysisUsecase) *gin.Engine {
	h := handler.NewAnalysisHandler(uc)
	r := gin.New()
	r.POST("/ai/analysis", h.PostAnalysis)
	r.GET("/ai/analysis/cached", h.GetCachedAnalysis)
	r.GET("/ai/analysis/fast", h.GetFastAnalysis)
	r.POST("/ai/smart-trade", h.PostSmartTrade)
	return r
}

func serve(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

// TestAnalysisHandler_PostAnalysis はステータスコードとレスポンス形式をテストします。
func TestAnalysisHandler_PostAnalysis(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		mockAnalyze    func(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error)
		expectedStatus int
		check          func(t *testing.T, body map[string]any)
	}{
		{
			name: "success: auto trade with risk orders",
			body: `{"symbol":"btc","enableAutoTrading":true,"confidenceThreshold":0.8}`,
			mockAnalyze: func(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error) {
				assert.Equal(t, "btc", req.Coin)
				assert.True(t, req.EnableAutoTrading)
				require.NotNil(t, req.ConfidenceThreshold)
				assert.Equal(t, 0.8, *req.ConfidenceThreshold)
				return &entity.Analysis{
					Coin:   "BTC",
					Symbol: "BTCUSDT",
					Text:   "建议买入",
					Decision: &entity.TradeDecision{
						Action:     entity.DecisionBuy,
						Quantity:   decimal.NewNullDecimal(decimal.RequireFromString("0.01")),
						OrderType:  "MARKET",
						Confidence: 0.85,
					},
					AutoTrade: &entity.AutoTrade{
						Success:       true,
						Action:        trading.KindBuy,
						OrderID:       101,
						ExecutedPrice: decimal.NewNullDecimal(decimal.RequireFromString("60010")),
						RiskOrders: []entity.RiskOrderOutcome{
							{Action: trading.KindSetStopLoss, StopPrice: decimal.RequireFromString("59000"), Error: "rejected"},
						},
						Time: analysisTime,
					},
					Snapshot: &indicators.Snapshot{
						Symbol: "BTCUSDT",
						Timeframes: []indicators.TimeframeResult{
							{Timeframe: "5m", Dataset: &indicators.AlignedDataset{}},
							{Timeframe: "1h", Err: errors.New("timeout")},
						},
						UpdateTime: analysisTime,
					},
					Threshold: 0.8,
					AutoMode:  true,
					Model:     "deepseek-chat",
					Time:      analysisTime,
				}, nil
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "建议买入", body["analysis"])
				assert.NotContains(t, body, "error")
				assert.NotEmpty(t, body["timestampBeijing"])

				decision := body["decision"].(map[string]any)
				assert.Equal(t, "buy", decision["action"])
				assert.Equal(t, 0.85, decision["confidence"])

				at := body["autoTrade"].(map[string]any)
				assert.Equal(t, true, at["success"])
				assert.Equal(t, 101.0, at["orderId"])
				assert.Equal(t, "60010", at["executedPrice"])
				assert.Equal(t, "2024-05-01 08:00:00", at["timestampBeijing"])
				risk := at["riskOrders"].([]any)[0].(map[string]any)
				assert.Equal(t, "set_stop_loss", risk["action"])
				assert.Equal(t, false, risk["success"])

				td := body["technicalData"].(map[string]any)
				assert.Equal(t, "BTCUSDT", td["symbol"])
				assert.Equal(t, []any{"5m"}, td["timeframes"])

				meta := body["metadata"].(map[string]any)
				assert.Equal(t, "deepseek-chat", meta["model"])
				assert.Equal(t, true, meta["autoTradingEnabled"])
				assert.Equal(t, 0.8, meta["confidenceThreshold"])
				assert.Equal(t, "2024-05-01T00:00:00.000Z", meta["analysisTime"])
			},
		},
		{
			name: "success: parse failure is soft",
			body: `{"symbol":"ETH","enableAutoTrading":true}`,
			mockAnalyze: func(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error) {
				assert.Nil(t, req.ConfidenceThreshold)
				return &entity.Analysis{
					Symbol:    "ETHUSDT",
					Text:      "市场震荡",
					ParseErr:  "no decision JSON found in analysis",
					Threshold: 0.7,
					AutoMode:  true,
					Time:      analysisTime,
				}, nil
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Nil(t, body["decision"])
				assert.Nil(t, body["autoTrade"])
				assert.Equal(t, "no decision JSON found in analysis", body["error"])
			},
		},
		{
			name:           "error: missing symbol",
			body:           `{"enableAutoTrading":true}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error: threshold out of range",
			body:           `{"symbol":"BTC","confidenceThreshold":1.5}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error: unsupported coin",
			body: `{"symbol":"DOGE"}`,
			mockAnalyze: func(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error) {
				return nil, fmt.Errorf("%w: DOGE (supported: BTC, ETH)", indicatorsusecase.ErrUnsupportedSymbol)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error: model rejects api key",
			body: `{"symbol":"BTC"}`,
			mockAnalyze: func(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error) {
				return nil, fmt.Errorf("generate analysis: %w", usecase.ErrLLMUnauthorized)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "error: model rate limited",
			body: `{"symbol":"BTC"}`,
			mockAnalyze: func(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error) {
				return nil, fmt.Errorf("generate analysis: %w", usecase.ErrLLMRateLimited)
			},
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name: "error: upstream failure",
			body: `{"symbol":"BTC"}`,
			mockAnalyze: func(ctx context.Context, req usecase.AnalyzeRequest) (*entity.Analysis, error) {
				return nil, errors.New("get indicators: binance down")
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "get indicators: binance down", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockAnalysisUsecase{AnalyzeFunc: tt.mockAnalyze})

			w, body := serve(r, http.MethodPost, "/ai/analysis", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			require.NotNil(t, body)
			assert.NotEmpty(t, body["timestamp"])
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

// TestAnalysisHandler_GetCachedAnalysis はX-Cacheヘッダーとクエリ検証をテストします。
func TestAnalysisHandler_GetCachedAnalysis(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hit := false
	uc := &mockAnalysisUsecase{CachedAnalyzeFunc: func(ctx context.Context, coin string) (*entity.Narrative, bool, error) {
		assert.Equal(t, "BTC", coin)
		return &entity.Narrative{Coin: "BTC", Symbol: "BTCUSDT", Text: "震荡上行", Time: analysisTime}, hit, nil
	}}
	r := newRouter(uc)

	w, body := serve(r, http.MethodGet, "/ai/analysis/cached?symbol=BTC", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, "震荡上行", body["analysis"])
	assert.Equal(t, "BTCUSDT", body["symbol"])
	assert.Equal(t, "2024-05-01T00:00:00.000Z", body["analysisTime"])

	hit = true
	w, _ = serve(r, http.MethodGet, "/ai/analysis/cached?symbol=BTC", "")
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w, body = serve(r, http.MethodGet, "/ai/analysis/cached", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "symbol is required", body["error"])
}

// TestAnalysisHandler_GetFastAnalysis は既定ナラティブも200で返すことをテストします。
func TestAnalysisHandler_GetFastAnalysis(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		mockFast       func(ctx context.Context, coin string) (*entity.Narrative, error)
		expectedStatus int
	}{
		{
			name:  "success: fallback narrative",
			query: "?symbol=ETH",
			mockFast: func(ctx context.Context, coin string) (*entity.Narrative, error) {
				return &entity.Narrative{Coin: "ETH", Symbol: "ETHUSDT", Text: "ETH当前市场稳定，建议观望。", Fallback: true}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "error: unsupported coin",
			query: "?symbol=XRP",
			mockFast: func(ctx context.Context, coin string) (*entity.Narrative, error) {
				return nil, fmt.Errorf("%w: XRP", indicatorsusecase.ErrUnsupportedSymbol)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error: missing symbol",
			query:          "?symbol=%20",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockAnalysisUsecase{FastAnalyzeFunc: tt.mockFast})

			w, body := serve(r, http.MethodGet, "/ai/analysis/fast"+tt.query, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, true, body["fallback"])
				assert.Equal(t, "ETH当前市场稳定，建议观望。", body["analysis"])
			}
		})
	}
}

// TestAnalysisHandler_PostSmartTrade は指示一覧と実行結果の形式をテストします。
func TestAnalysisHandler_PostSmartTrade(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: without execution", func(t *testing.T) {
		r := newRouter(&mockAnalysisUsecase{SmartTradeFunc: func(ctx context.Context, coin string, autoExecute bool) (*entity.SmartTrade, error) {
			assert.False(t, autoExecute)
			return &entity.SmartTrade{
				Symbol:       "BTCUSDT",
				Text:         "买入 BTC 0.01",
				Instructions: []entity.Instruction{{Action: trading.KindBuy, Symbol: "BTCUSDT", Quantity: "0.01"}},
				Time:         analysisTime,
			}, nil
		}})

		w, body := serve(r, http.MethodPost, "/ai/smart-trade", `{"symbol":"BTC"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []any{}, body["executedTrades"])
		in := body["tradeInstructions"].([]any)[0].(map[string]any)
		assert.Equal(t, "buy", in["action"])
		assert.Equal(t, "0.01", in["quantity"])
		assert.NotContains(t, in, "price")
		meta := body["metadata"].(map[string]any)
		assert.Equal(t, "BTCUSDT", meta["symbol"])
		assert.Equal(t, false, meta["autoExecute"])
	})

	t.Run("success: per instruction outcome", func(t *testing.T) {
		r := newRouter(&mockAnalysisUsecase{SmartTradeFunc: func(ctx context.Context, coin string, autoExecute bool) (*entity.SmartTrade, error) {
			assert.True(t, autoExecute)
			in := entity.Instruction{Action: trading.KindSetStopLoss, Symbol: "BTCUSDT", StopPrice: "50000"}
			return &entity.SmartTrade{
				Symbol:       "BTCUSDT",
				Instructions: []entity.Instruction{in},
				Executed:     []entity.ExecutedInstruction{{Instruction: in, Error: "no active position found for BTCUSDT"}},
				AutoExecute:  true,
			}, nil
		}})

		w, body := serve(r, http.MethodPost, "/ai/smart-trade", `{"symbol":"BTC","autoExecute":true}`)
		assert.Equal(t, http.StatusOK, w.Code)
		ex := body["executedTrades"].([]any)[0].(map[string]any)
		assert.Equal(t, "no active position found for BTCUSDT", ex["error"])
		assert.NotContains(t, ex, "result")
	})

	t.Run("error: malformed body", func(t *testing.T) {
		r := newRouter(&mockAnalysisUsecase{})
		w, _ := serve(r, http.MethodPost, "/ai/smart-trade", `{"symbol":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
