package calculator

import (
	"StockAnalyzer/internal/model"
)

// CalculateRSI returns the period RSI of the closes using Wilder smoothing.
// The first average is seeded from the first period close-to-close moves.
func CalculateRSI(bars []model.PriceBar, period int) (float64, error) {
	if err := checkWindow(len(bars), period, period+1, "RSI"); err != nil {
		return 0, err
	}

	gains, losses := closeMoves(bars)
	n := float64(period)

	var up, down float64
	for i := 0; i < period; i++ {
		up += gains[i]
		down += losses[i]
	}
	up /= n
	down /= n

	for i := period; i < len(gains); i++ {
		up = (up*(n-1) + gains[i]) / n
		down = (down*(n-1) + losses[i]) / n
	}

	if down == 0 {
		return 100, nil
	}
	return 100 - 100/(1+up/down), nil
}

// closeMoves splits consecutive close changes into non-negative gain and loss series.
func closeMoves(bars []model.PriceBar) (gains, losses []float64) {
	gains = make([]float64, len(bars)-1)
	losses = make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		d := bars[i].Close.Sub(bars[i-1].Close).InexactFloat64()
		if d > 0 {
			gains[i-1] = d
		} else {
			losses[i-1] = -d
		}
	}
	return gains, losses
}
