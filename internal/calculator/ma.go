package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"StockAnalyzer/internal/model"
)

// CalculateSMA averages the last period values of prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if err := checkWindow(len(prices), period, period, "SMA"); err != nil {
		return 0, err
	}
	var sum float64
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), nil
}

// CalculateCloseSMA averages the last period closes. The sum is kept in decimal
// so long windows of two-place prices do not accumulate float error.
func CalculateCloseSMA(bars []model.PriceBar, period int) (float64, error) {
	if err := checkWindow(len(bars), period, period, "SMA"); err != nil {
		return 0, err
	}
	sum := decimal.Zero
	for _, b := range bars[len(bars)-period:] {
		sum = sum.Add(b.Close)
	}
	return sum.Div(decimal.NewFromInt(int64(period))).InexactFloat64(), nil
}

func checkWindow(have, period, need int, indicator string) error {
	if period <= 0 {
		return fmt.Errorf("%s period must be positive, got %d", indicator, period)
	}
	if have < need {
		return fmt.Errorf("not enough data for %s: have %d, need %d", indicator, have, need)
	}
	return nil
}
