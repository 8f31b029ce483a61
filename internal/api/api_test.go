package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/service"
)

// MockAnalyzer implements AnalyzerService for testing
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Tape() []model.TapeEntry {
	return m.Called().Get(0).([]model.TapeEntry)
}

func (m *MockAnalyzer) Movers(ctx context.Context) ([]model.MoverRecord, []model.MoverRecord, error) {
	args := m.Called(ctx)
	g, _ := args.Get(0).([]model.MoverRecord)
	l, _ := args.Get(1).([]model.MoverRecord)
	return g, l, args.Error(2)
}

func (m *MockAnalyzer) Search(ctx context.Context, query string) ([]model.TickerCandidate, error) {
	args := m.Called(ctx, query)
	c, _ := args.Get(0).([]model.TickerCandidate)
	return c, args.Error(1)
}

func (m *MockAnalyzer) History(ctx context.Context, ticker, period, interval string) (*service.HistoryView, error) {
	args := m.Called(ctx, ticker, period, interval)
	v, _ := args.Get(0).(*service.HistoryView)
	return v, args.Error(1)
}

func (m *MockAnalyzer) Price(ctx context.Context, ticker string) (*service.PriceQuote, error) {
	args := m.Called(ctx, ticker)
	q, _ := args.Get(0).(*service.PriceQuote)
	return q, args.Error(1)
}

func (m *MockAnalyzer) Insight(ctx context.Context, ticker, period, interval string) (*model.InsightReport, error) {
	args := m.Called(ctx, ticker, period, interval)
	r, _ := args.Get(0).(*model.InsightReport)
	return r, args.Error(1)
}

type stubLimiter struct {
	allow bool
	err   error
	calls int
}

func (s *stubLimiter) Allow(context.Context, string) (bool, error) {
	s.calls++
	return s.allow, s.err
}

func setupGinTestMode() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(m *MockAnalyzer, opts Options) *gin.Engine {
	setupGinTestMode()
	return NewAPIHandler(m, opts, zap.NewNop()).SetupRoutes()
}

func doRequest(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	w := doRequest(newTestRouter(&MockAnalyzer{}, Options{}), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, ServiceName, body["service"])
	assert.NotEmpty(t, w.Header().Get(RequestIDHeaderKey))
}

func TestRequestIDPropagated(t *testing.T) {
	setupGinTestMode()
	r := NewAPIHandler(&MockAnalyzer{}, Options{}, nil).SetupRoutes()
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(RequestIDHeaderKey, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeaderKey))
}

func TestDashboard(t *testing.T) {
	w := doRequest(newTestRouter(&MockAnalyzer{}, Options{}), "GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/api/movers")
}

func TestGetTape(t *testing.T) {
	m := &MockAnalyzer{}
	m.On("Tape").Return([]model.TapeEntry{{Symbol: "SBIN", Price: decimal.RequireFromString("800.15"), Change: "+0.57%"}})

	w := doRequest(newTestRouter(m, Options{}), "GET", "/api/tape", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tape":[{"symbol":"SBIN","price":"800.15","change":"+0.57%"}]}`, w.Body.String())
}

func TestGetMovers(t *testing.T) {
	m := &MockAnalyzer{}
	m.On("Movers", mock.Anything).Return(
		[]model.MoverRecord{{Symbol: "UP", DisplayName: "Up", Price: decimal.NewFromInt(5), ChangePercent: decimal.NewFromInt(20)}},
		[]model.MoverRecord{{Symbol: "DN", DisplayName: "N/A", Price: decimal.NewFromInt(2), ChangePercent: decimal.NewFromInt(-9)}},
		nil)

	w := doRequest(newTestRouter(m, Options{}), "GET", "/api/movers", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["gainers"], 1)
	assert.Len(t, body["losers"], 1)
	assert.NotContains(t, body, "warning")
}

func TestGetMovers_DegradesToWarning(t *testing.T) {
	m := &MockAnalyzer{}
	m.On("Movers", mock.Anything).Return(nil, nil, fmt.Errorf("%w: missing finance.result", model.ErrMoversUnavailable))

	w := doRequest(newTestRouter(m, Options{}), "GET", "/api/movers", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body, "warning")
	assert.NotContains(t, body, "gainers")
	assert.NotContains(t, body, "losers")
}

func TestSearch(t *testing.T) {
	m := &MockAnalyzer{}
	m.On("Search", mock.Anything, "Reliance").Return([]model.TickerCandidate{{Symbol: "RELIANCE.NS", DisplayName: "RELIANCE INDUSTRIES"}}, nil)
	m.On("Search", mock.Anything, "zzzz").Return([]model.TickerCandidate{}, nil)
	m.On("Search", mock.Anything, "boom").Return(nil, errors.New("search: status 500"))
	r := newTestRouter(m, Options{})

	w := doRequest(r, "GET", "/api/search?q=Reliance", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"candidates":[{"symbol":"RELIANCE.NS","display_name":"RELIANCE INDUSTRIES"}]}`, w.Body.String())

	w = doRequest(r, "GET", "/api/search?q=zzzz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"candidates":[]}`, w.Body.String())

	w = doRequest(r, "GET", "/api/search?q=boom", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doRequest(r, "GET", "/api/search?q="+strings.Repeat("a", 101), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHistory(t *testing.T) {
	view := &service.HistoryView{
		Ticker:   "TCS.NS",
		Currency: "₹",
		Bars: []model.PriceBar{{
			Date:  time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			Open:  decimal.NewFromInt(3800), High: decimal.NewFromInt(3850),
			Low: decimal.NewFromInt(3790), Close: decimal.NewFromInt(3820), Volume: 12345,
		}},
		Stats: calculator.Stats{High: decimal.NewFromInt(3850), Low: decimal.NewFromInt(3790)},
	}
	m := &MockAnalyzer{}
	m.On("History", mock.Anything, "tcs.ns", "1y", "").Return(view, nil)
	m.On("History", mock.Anything, "NOPE", "", "").Return(nil, fmt.Errorf("fetch history NOPE: %w", model.ErrDataUnavailable))
	r := newTestRouter(m, Options{})

	w := doRequest(r, "GET", "/api/history?ticker=tcs.ns&period=1y", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "TCS.NS", body["ticker"])
	assert.Equal(t, "₹", body["currency"])
	assert.Len(t, body["bars"], 1)

	w = doRequest(r, "GET", "/api/history?ticker=NOPE", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	m.AssertExpectations(t)
}

func TestGetHistory_Validation(t *testing.T) {
	r := newTestRouter(&MockAnalyzer{}, Options{})

	tests := []struct {
		name  string
		query string
	}{
		{"missing ticker", "/api/history"},
		{"bad ticker", "/api/history?ticker=AAPL;DROP"},
		{"too long", "/api/history?ticker=" + strings.Repeat("A", 21)},
		{"bad period", "/api/history?ticker=AAPL&period=7mo"},
		{"bad interval", "/api/history?ticker=AAPL&interval=2h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, "GET", tt.query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody(t, w), "error")
		})
	}
}

func TestGetPrice(t *testing.T) {
	m := &MockAnalyzer{}
	m.On("Price", mock.Anything, "AAPL").Return(&service.PriceQuote{Ticker: "AAPL", Price: decimal.RequireFromString("189.12"), Currency: "$"}, nil)

	w := doRequest(newTestRouter(m, Options{}), "GET", "/api/price?ticker=AAPL", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ticker":"AAPL","price":"189.12","currency":"$"}`, w.Body.String())
}

func TestPostInsight(t *testing.T) {
	m := &MockAnalyzer{}
	m.On("Insight", mock.Anything, "INFY.NS", "3mo", "1d").Return(&model.InsightReport{Ticker: "INFY.NS", Text: "Uptrend.", Model: "gemini/gemini-1.5-pro"}, nil)
	m.On("Insight", mock.Anything, "NEW", "", "").Return(nil, fmt.Errorf("%w: NEW has 3 bars, need 7", model.ErrInsufficientData))
	m.On("Insight", mock.Anything, "FAIL", "", "").Return(nil, fmt.Errorf("%w: quota", model.ErrGenerationFailed))
	r := newTestRouter(m, Options{})

	w := doRequest(r, "POST", "/api/insight", `{"ticker":"INFY.NS","period":"3mo","interval":"1d"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Uptrend.", decodeBody(t, w)["text"])

	w = doRequest(r, "POST", "/api/insight", `{"ticker":"NEW"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(r, "POST", "/api/insight", `{"ticker":"FAIL"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doRequest(r, "POST", "/api/insight", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostInsight_RateLimited(t *testing.T) {
	m := &MockAnalyzer{}
	m.On("Insight", mock.Anything, "AAPL", "", "").Return(&model.InsightReport{Ticker: "AAPL", Text: "ok"}, nil)

	denied := &stubLimiter{allow: false}
	w := doRequest(newTestRouter(m, Options{InsightLimiter: denied}), "POST", "/api/insight", `{"ticker":"AAPL"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	m.AssertNotCalled(t, "Insight", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	broken := &stubLimiter{err: errors.New("redis down")}
	w = doRequest(newTestRouter(m, Options{InsightLimiter: broken}), "POST", "/api/insight", `{"ticker":"AAPL"}`)
	assert.Equal(t, http.StatusOK, w.Code, "limiter errors fail open")
	assert.Equal(t, 1, broken.calls)
}

func TestCORS(t *testing.T) {
	r := newTestRouter(&MockAnalyzer{}, Options{AllowedOrigins: []string{"http://localhost:8080"}})
	req := httptest.NewRequest("OPTIONS", "/api/tape", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestValidator(t *testing.T) {
	v := GetValidator()

	for _, ok := range []string{"AAPL", "reliance.ns", "^NSEI", "BRK-B", "EURUSD=X", "M&M.NS"} {
		_, err := v.ValidateTicker(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "  ", "AAPL MSFT", "<script>", strings.Repeat("X", 21)} {
		_, err := v.ValidateTicker(bad)
		assert.Error(t, err, bad)
	}

	got, err := v.ValidateTicker(" m&m.ns\x00 ")
	require.NoError(t, err)
	assert.Equal(t, "m&m.ns", got)

	q, err := v.ValidateQuery("  tata\tmotors ")
	require.NoError(t, err)
	assert.Equal(t, "tata motors", q)
}
