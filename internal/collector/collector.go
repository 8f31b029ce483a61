package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"StockAnalyzer/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Bars    []model.PriceBar
	Missing map[string]bool
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, ticker, period, _ string) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Missing[ticker] {
		return nil, fmt.Errorf("%w: mock: unknown symbol %q", model.ErrDataUnavailable, ticker)
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	price := m.Price
	if price == 0 {
		price = 100
	}
	return generateMockBars(price, tradingDays(period), time.Now()), nil
}

// tradingDays approximates the number of sessions in a Yahoo-style range.
func tradingDays(period string) int {
	switch period {
	case "1d":
		return 1
	case "5d":
		return 5
	case "1mo":
		return 21
	case "3mo":
		return 63
	case "6mo":
		return 126
	case "1y":
		return 252
	case "2y":
		return 504
	case "5y":
		return 1260
	case "ytd":
		now := time.Now()
		return now.YearDay() * 5 / 7
	default:
		return 2520
	}
}

func generateMockBars(basePrice float64, count int, end time.Time) []model.PriceBar {
	if count < 1 {
		count = 1
	}
	bars := make([]model.PriceBar, count)
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	for i := count - 1; i >= 0; i-- {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, -1)
		}
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Date:   day,
			Open:   decimal.NewFromFloat(p * 0.999).Round(2),
			High:   decimal.NewFromFloat(p * 1.005).Round(2),
			Low:    decimal.NewFromFloat(p * 0.995).Round(2),
			Close:  decimal.NewFromFloat(p).Round(2),
			Volume: 1000000,
		}
		day = day.AddDate(0, 0, -1)
	}
	return bars
}

// Collector is the market data client: it validates provider output and applies defaults.
type Collector struct {
	Fetcher Fetcher
	logger  *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, logger: logger}
}

// FetchHistory returns bars for ticker ordered oldest first. Empty period and
// interval default to six months of daily bars. Each call is a fresh request.
func (c *Collector) FetchHistory(ctx context.Context, ticker, period, interval string) ([]model.PriceBar, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("%w: empty ticker", model.ErrDataUnavailable)
	}
	if period == "" {
		period = DefaultPeriod
	}
	if interval == "" {
		interval = DefaultInterval
	}

	bars, err := c.Fetcher.FetchBars(ctx, ticker, period, interval)
	if err != nil {
		c.logger.Warn("fetch history failed",
			zap.String("ticker", ticker), zap.String("source", c.Fetcher.Name()), zap.Error(err))
		return nil, fmt.Errorf("fetch history %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch history %s: %w: empty result", ticker, model.ErrDataUnavailable)
	}
	c.logger.Debug("fetched history",
		zap.String("ticker", ticker), zap.String("period", period),
		zap.String("interval", interval), zap.Int("bars", len(bars)))
	return bars, nil
}

// LatestPrice returns the most recent daily close rounded to two decimal places.
func (c *Collector) LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	bars, err := c.FetchHistory(ctx, ticker, "1d", "1d")
	if err != nil {
		return decimal.Zero, fmt.Errorf("latest price: %w", err)
	}
	return bars[len(bars)-1].Close.Round(2), nil
}
