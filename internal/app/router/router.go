package router

import (
	accounthandler "crypto_backend/internal/feature/account/transport/handler"
	analysishandler "crypto_backend/internal/feature/analysis/transport/handler"
	indicatorshandler "crypto_backend/internal/feature/indicators/transport/handler"
	symbollisthandler "crypto_backend/internal/feature/symbollist/transport/handler"
	tradehandler "crypto_backend/internal/feature/trading/transport/handler"
	"crypto_backend/internal/platform/http/handler"
	"crypto_backend/internal/platform/http/middleware"
	jwtmw "crypto_backend/internal/platform/jwt"
	"crypto_backend/internal/platform/metrics"
	"log/slog"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers are the feature handlers mounted by NewRouter.
type Handlers struct {
	Indicators *indicatorshandler.IndicatorsHandler
	Account    *accounthandler.AccountHandler
	Trade      *tradehandler.TradeHandler
	Analysis   *analysishandler.AnalysisHandler
	Symbols    *symbollisthandler.SymbolHandler
	Readiness  *handler.ReadinessHandler
}

// Options configure the cross-cutting middleware.
type Options struct {
	JWTSecret   string            // empty leaves trading and AI routes unauthenticated
	CORSOrigins []string          // empty disables CORS; "*" allows every origin
	Metrics     *metrics.Recorder // nil disables request metrics and the exposition route
	MetricsPath string
}

// NewRouter builds the gin engine with recovery, request ID and access logging on
// every route, plus metrics and CORS when opts enables them. Health, indicator,
// account and symbol routes are public. Trading, position, journal and AI routes
// require a bearer token when opts.JWTSecret is set.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	if len(opts.CORSOrigins) > 0 {
		r.Use(corsMiddleware(opts.CORSOrigins))
	}

	// liveness and readiness
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	r.GET("/health", h.Readiness.Get)
	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(opts.Metrics.Handler()))
	}

	// market data and account
	r.POST("/indicators", h.Indicators.PostIndicators)
	r.GET("/account", h.Account.GetAccount)
	r.GET("/symbols", h.Symbols.List)

	// trading and AI, authenticated only when JWT_SECRET is set
	guarded := r.Group("/")
	if opts.JWTSecret != "" {
		guarded.Use(jwtmw.AuthRequired(opts.JWTSecret))
	} else {
		slog.Warn("JWT_SECRET is not set; trading routes are unauthenticated")
	}
	{
		guarded.POST("/trade", h.Trade.PostTrade)
		guarded.POST("/trade/enhanced", h.Trade.PostEnhancedTrade)
		guarded.GET("/trade/journal", h.Trade.GetJournal)
		guarded.GET("/positions", h.Trade.GetPositions)

		ai := guarded.Group("/ai")
		ai.POST("/analysis", h.Analysis.PostAnalysis)
		ai.GET("/analysis/cached", h.Analysis.GetCachedAnalysis)
		ai.GET("/analysis/fast", h.Analysis.GetFastAnalysis)
		ai.POST("/smart-trade", h.Analysis.PostSmartTrade)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID, "X-Cache"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
