// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"crypto_backend/internal/platform/http/response"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Health はliveness確認用の /healthz エンドポイントを処理します。
// プロセスが応答できれば常に成功し、キャッシュを防止します。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": response.Now()})
	}
}

// MemoryStats はプロセスのメモリ使用量（バイト）です。
type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	Sys        uint64 `json:"sys"`
	HeapInuse  uint64 `json:"heapInuse"`
	Goroutines int    `json:"goroutines"`
}

// ReadinessResponse は /health のレスポンスボディです。
type ReadinessResponse struct {
	Status    string       `json:"status"`
	Message   string       `json:"message"`
	Timestamp string       `json:"timestamp"`
	Uptime    float64      `json:"uptime,omitempty"`
	Memory    *MemoryStats `json:"memory,omitempty"`
}

// ReadinessHandler は必要な認証情報が揃っているかを確認します。
type ReadinessHandler struct {
	missing func() []string
	started time.Time
	now     func() time.Time
}

// NewReadinessHandler はReadinessHandlerを生成します。missingは未設定の環境変数名を返します。
func NewReadinessHandler(missing func() []string, started time.Time) *ReadinessHandler {
	return &ReadinessHandler{missing: missing, started: started, now: time.Now}
}

// Get は認証情報が不足していれば503、揃っていれば稼働時間とメモリ使用量を返します。
//
// エンドポイント例:
// GET /health
func (h *ReadinessHandler) Get(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	if missing := h.missing(); len(missing) > 0 {
		c.JSON(http.StatusServiceUnavailable, ReadinessResponse{
			Status:    "unhealthy",
			Message:   "缺少环境变量: " + strings.Join(missing, ", "),
			Timestamp: response.Now(),
		})
		return
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	c.JSON(http.StatusOK, ReadinessResponse{
		Status:    "healthy",
		Message:   "系统运行正常",
		Timestamp: response.Now(),
		Uptime:    h.now().Sub(h.started).Seconds(),
		Memory: &MemoryStats{
			Alloc:      ms.Alloc,
			Sys:        ms.Sys,
			HeapInuse:  ms.HeapInuse,
			Goroutines: runtime.NumGoroutine(),
		},
	})
}
