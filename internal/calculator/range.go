package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"StockAnalyzer/internal/model"
)

// CalculateRange scans all bars and returns the highest high and lowest low.
func CalculateRange(bars []model.PriceBar) (high, low decimal.Decimal, err error) {
	if len(bars) == 0 {
		return decimal.Zero, decimal.Zero, errors.New("no bars provided")
	}
	high, low = bars[0].High, bars[0].Low
	for _, b := range bars[1:] {
		if b.High.GreaterThan(high) {
			high = b.High
		}
		if b.Low.LessThan(low) {
			low = b.Low
		}
	}
	return high, low, nil
}

// CalculateChangePercent returns the close-to-close change over the whole series, in percent.
func CalculateChangePercent(bars []model.PriceBar) (decimal.Decimal, error) {
	if len(bars) < 2 {
		return decimal.Zero, errors.New("need at least two bars")
	}
	first := bars[0].Close
	if first.IsZero() {
		return decimal.Zero, errors.New("first close is zero")
	}
	last := bars[len(bars)-1].Close
	return last.Sub(first).Div(first).Mul(decimal.NewFromInt(100)).Round(2), nil
}
