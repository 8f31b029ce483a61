// Package api serves the dashboard page and its JSON endpoints.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/ratelimit"
	"StockAnalyzer/internal/service"
)

// Constants
const (
	DefaultTimeout      = 30 * time.Second
	InsightTimeout      = 90 * time.Second
	ServiceName         = "stock-analyzer"
	ServiceVersion      = "1.0.0"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// AnalyzerService is implemented by service.Analyzer.
type AnalyzerService interface {
	Tape() []model.TapeEntry
	Movers(ctx context.Context) ([]model.MoverRecord, []model.MoverRecord, error)
	Search(ctx context.Context, query string) ([]model.TickerCandidate, error)
	History(ctx context.Context, ticker, period, interval string) (*service.HistoryView, error)
	Price(ctx context.Context, ticker string) (*service.PriceQuote, error)
	Insight(ctx context.Context, ticker, period, interval string) (*model.InsightReport, error)
}

// Options configures optional handler behavior.
type Options struct {
	AllowedOrigins []string
	// InsightLimiter throttles POST /api/insight per client IP when set.
	InsightLimiter ratelimit.Limiter
}

// APIHandler handles HTTP requests using Gin framework
type APIHandler struct {
	analyzer  AnalyzerService
	validator *Validator
	opts      Options
	logger    *zap.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(analyzer AnalyzerService, opts Options, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		analyzer:  analyzer,
		validator: GetValidator(),
		opts:      opts,
		logger:    logger,
	}
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(zapLoggerMiddleware(h.logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(h.opts.AllowedOrigins))

	router.GET("/", h.Dashboard)
	router.GET("/health", h.HealthCheck)

	apiGroup := router.Group("/api")
	apiGroup.GET("/tape", h.GetTape)
	apiGroup.GET("/movers", h.GetMovers)
	apiGroup.GET("/search", h.Search)
	apiGroup.GET("/history", h.GetHistory)
	apiGroup.GET("/price", h.GetPrice)
	if h.opts.InsightLimiter != nil {
		apiGroup.POST("/insight", rateLimitMiddleware(h.opts.InsightLimiter, h.logger), h.PostInsight)
	} else {
		apiGroup.POST("/insight", h.PostInsight)
	}

	return router
}
