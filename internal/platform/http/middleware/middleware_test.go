package middleware_test

import (
	"bytes"
	"crypto_backend/internal/platform/http/middleware"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type observation struct {
	method, route string
	code          int
}

// mockObserver はHTTPObserverインターフェースのモック実装です。
type mockObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (m *mockObserver) ObserveHTTP(method, route string, code int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, observation{method, route, code})
}

// TestRequestID はリクエストIDの引き継ぎと採番を検証します。
func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	var got string
	r.GET("/ping", func(c *gin.Context) {
		got = c.GetString(middleware.ContextRequestID)
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{name: "propagates caller id", incoming: "req-123", reuse: true},
		{name: "generates id when absent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.incoming != "" {
				req.Header.Set(middleware.HeaderRequestID, tt.incoming)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			header := w.Header().Get(middleware.HeaderRequestID)
			assert.Equal(t, got, header)
			if tt.reuse {
				assert.Equal(t, tt.incoming, header)
			} else {
				assert.Len(t, header, 36)
			}
		})
	}
}

// TestLogger はリクエストごとにログが1件出力され、リクエストIDを含むことを検証します。
func TestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger())
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(middleware.HeaderRequestID, "abc")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "status=500")
	assert.Contains(t, out, "request_id=abc")
	assert.Contains(t, out, "path=/boom")
}

// TestMetrics はルートパターンでラベル付けされることを検証します。
func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	obs := &mockObserver{}
	r := gin.New()
	r.Use(middleware.Metrics(obs))
	r.GET("/positions/:symbol", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/positions/BTCUSDT", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, []observation{
		{http.MethodGet, "/positions/:symbol", http.StatusOK},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}, obs.seen)
}
