package calculator

import (
	"github.com/shopspring/decimal"

	"StockAnalyzer/internal/model"
)

// Stats summarizes a price series for display next to the chart.
// Indicators that need more bars than available are left nil. All values are
// decimals so they encode the same way as prices.
type Stats struct {
	High          decimal.Decimal  `json:"high"`
	Low           decimal.Decimal  `json:"low"`
	ChangePercent *decimal.Decimal `json:"change_percent,omitempty"`
	SMA20         *decimal.Decimal `json:"sma20,omitempty"`
	RSI14         *decimal.Decimal `json:"rsi14,omitempty"`
}

// Summarize computes Stats for bars. An empty series yields zero Stats.
func Summarize(bars []model.PriceBar) Stats {
	var s Stats
	if h, l, err := CalculateRange(bars); err == nil {
		s.High, s.Low = h, l
	}
	if chg, err := CalculateChangePercent(bars); err == nil {
		s.ChangePercent = &chg
	}
	if sma, err := CalculateCloseSMA(bars, 20); err == nil {
		d := decimal.NewFromFloat(sma).Round(2)
		s.SMA20 = &d
	}
	if rsi, err := CalculateRSI(bars, 14); err == nil {
		d := decimal.NewFromFloat(rsi).Round(2)
		s.RSI14 = &d
	}
	return s
}
