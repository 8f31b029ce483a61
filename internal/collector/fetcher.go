package collector

import (
	"context"

	"StockAnalyzer/internal/model"
)

// Fetcher defines the interface for fetching historical bars from a price provider.
type Fetcher interface {
	FetchBars(ctx context.Context, ticker, period, interval string) ([]model.PriceBar, error)
	Name() string
}

// Default window used when the caller leaves period or interval empty.
const (
	DefaultPeriod   = "6mo"
	DefaultInterval = "1d"
)

// SupportedPeriods lists the rolling windows the chart API accepts.
var SupportedPeriods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// SupportedIntervals lists the bar granularities the chart API accepts.
var SupportedIntervals = []string{"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d", "5d", "1wk", "1mo", "3mo"}

// dailyOrCoarser reports whether bars of this interval are keyed by calendar date.
func dailyOrCoarser(interval string) bool {
	switch interval {
	case "1d", "5d", "1wk", "1mo", "3mo":
		return true
	}
	return false
}
