package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"StockAnalyzer/internal/model"
)

type insightRequest struct {
	Ticker   string `json:"ticker"`
	Period   string `json:"period"`
	Interval string `json:"interval"`
}

// GetTape handles GET /api/tape
func (h *APIHandler) GetTape(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tape": h.analyzer.Tape()})
}

// GetMovers handles GET /api/movers. A screener failure degrades to a warning with no lists.
func (h *APIHandler) GetMovers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	gainers, losers, err := h.analyzer.Movers(ctx)
	if err != nil {
		h.logger.Warn("movers unavailable",
			zap.String("request_id", requestID(c)), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"warning": "Could not load market movers."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gainers": gainers, "losers": losers})
}

// Search handles GET /api/search?q=
func (h *APIHandler) Search(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	query, err := h.validator.ValidateQuery(c.Query("q"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	candidates, err := h.analyzer.Search(ctx, query)
	if err != nil {
		h.handleError(c, err, http.StatusBadGateway, "Symbol search is unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// GetHistory handles GET /api/history?ticker=&period=&interval=
func (h *APIHandler) GetHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	ticker, period, interval, err := h.validator.ValidateHistoryRequest(c.Query("ticker"), c.Query("period"), c.Query("interval"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	view, err := h.analyzer.History(ctx, ticker, period, interval)
	if err != nil {
		h.handlePipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetPrice handles GET /api/price?ticker=
func (h *APIHandler) GetPrice(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	ticker, err := h.validator.ValidateTicker(c.Query("ticker"))
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	quote, err := h.analyzer.Price(ctx, ticker)
	if err != nil {
		h.handlePipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// PostInsight handles POST /api/insight
func (h *APIHandler) PostInsight(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), InsightTimeout)
	defer cancel()

	var req insightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleValidationError(c, errors.New("request body must be JSON with a ticker field"))
		return
	}
	ticker, period, interval, err := h.validator.ValidateHistoryRequest(req.Ticker, req.Period, req.Interval)
	if err != nil {
		h.handleValidationError(c, err)
		return
	}

	report, err := h.analyzer.Insight(ctx, ticker, period, interval)
	if err != nil {
		h.handlePipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HealthCheck handles GET /health requests
func (h *APIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// handlePipelineError maps error kinds to HTTP statuses.
func (h *APIHandler) handlePipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrDataUnavailable):
		h.handleError(c, err, http.StatusNotFound, "No price data found for this ticker")
	case errors.Is(err, model.ErrInsufficientData):
		h.handleError(c, err, http.StatusUnprocessableEntity, "Not enough price history to analyze")
	case errors.Is(err, model.ErrGenerationFailed):
		h.handleError(c, err, http.StatusBadGateway, "Could not generate a report")
	case errors.Is(err, context.DeadlineExceeded):
		h.handleError(c, err, http.StatusGatewayTimeout, "Upstream request timed out")
	default:
		h.handleError(c, err, http.StatusBadGateway, "Market data provider error")
	}
}

// handleError logs the error and sends appropriate HTTP response
func (h *APIHandler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	id := requestID(c)
	h.logger.Error("API error",
		zap.String("request_id", id),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": id,
	})
}

// handleValidationError handles validation errors specifically
func (h *APIHandler) handleValidationError(c *gin.Context, err error) {
	h.handleError(c, err, http.StatusBadRequest, err.Error())
}

func requestID(c *gin.Context) string {
	if v, ok := c.Get(RequestIDContextKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return "unknown"
}
