package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAnalyzer/internal/model"
)

func TestMockFetcher_GeneratesWeekdayBars(t *testing.T) {
	c := NewCollector(&MockFetcher{Price: 250}, nil)
	bars, err := c.FetchHistory(context.Background(), "RELIANCE.NS", "6mo", "1d")
	require.NoError(t, err)
	assert.Len(t, bars, 126)
	for i, b := range bars {
		assert.NotEqual(t, time.Saturday, b.Date.Weekday())
		assert.NotEqual(t, time.Sunday, b.Date.Weekday())
		if i > 0 {
			assert.True(t, b.Date.After(bars[i-1].Date))
		}
	}
}

func TestMockFetcher_Missing(t *testing.T) {
	c := NewCollector(&MockFetcher{Missing: map[string]bool{"ZZZZ": true}}, nil)
	_, err := c.FetchHistory(context.Background(), "ZZZZ", "", "")
	assert.True(t, errors.Is(err, model.ErrDataUnavailable))
}

func TestFetchHistory_EmptyFromFetcher(t *testing.T) {
	c := NewCollector(&MockFetcher{Bars: []model.PriceBar{}}, nil)
	_, err := c.FetchHistory(context.Background(), "AAPL", "", "")
	assert.True(t, errors.Is(err, model.ErrDataUnavailable))
}

func TestFetchHistory_BlankTicker(t *testing.T) {
	c := NewCollector(&MockFetcher{}, nil)
	_, err := c.FetchHistory(context.Background(), "   ", "", "")
	assert.True(t, errors.Is(err, model.ErrDataUnavailable))
}

func TestLatestPrice_Mock(t *testing.T) {
	c := NewCollector(&MockFetcher{Price: 123.456}, nil)
	price, err := c.LatestPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, price.IsPositive())
	assert.LessOrEqual(t, int(-price.Exponent()), 2)
}

func TestTradingDays(t *testing.T) {
	tests := []struct {
		period string
		want   int
	}{
		{"1d", 1},
		{"5d", 5},
		{"1mo", 21},
		{"6mo", 126},
		{"1y", 252},
		{"max", 2520},
	}
	for _, tt := range tests {
		if got := tradingDays(tt.period); got != tt.want {
			t.Errorf("tradingDays(%q) = %d, want %d", tt.period, got, tt.want)
		}
	}
}
