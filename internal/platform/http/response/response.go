// Package response はJSONレスポンスの共通形式を提供します。
package response

import (
	"crypto_backend/internal/shared/timeutil"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse はすべてのエラーレスポンスのボディです。
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Now は現在時刻をレスポンス用のタイムスタンプ文字列で返します。
func Now() string {
	return timeutil.FormatISO(time.Now())
}

// Error はステータスコードとメッセージでエラーレスポンスを書き込みます。
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Error: msg, Timestamp: Now()})
}

// AbortError はエラーレスポンスを書き込み、以降のハンドラーを中断します。
func AbortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Timestamp: Now()})
}
