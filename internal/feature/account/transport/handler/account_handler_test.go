package handler_test

import (
	"context"
	domain "crypto_backend/internal/domain/entity"
	"crypto_backend/internal/feature/account/transport/handler"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAccountUsecase struct {
	OverviewFunc func(ctx context.Context) (*domain.AccountOverview, error)
}

func (m *mockAccountUsecase) Overview(ctx context.Context) (*domain.AccountOverview, error) {
	return m.OverviewFunc(ctx)
}

// TestAccountHandler_GetAccount はレスポンス形式とエラー時のステータスをテストします。
func TestAccountHandler_GetAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		overview       *domain.AccountOverview
		err            error
		expectedStatus int
	}{
		{
			name: "success",
			overview: &domain.AccountOverview{
				Account:   domain.AccountSnapshot{TotalWalletBalance: decimal.RequireFromString("1000.5")},
				Positions: []domain.Position{{Symbol: "BTCUSDT", PositionAmt: decimal.RequireFromString("0.5"), Leverage: 10}},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error: missing credentials",
			err:            errors.New("get account: binance api credentials are not configured"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewAccountHandler(&mockAccountUsecase{
				OverviewFunc: func(ctx context.Context) (*domain.AccountOverview, error) { return tt.overview, tt.err },
			})
			router := gin.New()
			router.GET("/account", h.GetAccount)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/account", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["timestamp"])
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), body["error"])
				return
			}
			assert.Equal(t, "1000.5", body["account"].(map[string]any)["totalWalletBalance"])
			positions := body["positions"].([]any)
			require.Len(t, positions, 1)
			assert.Equal(t, "0.5", positions[0].(map[string]any)["positionAmt"])
		})
	}
}
