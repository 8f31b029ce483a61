package search

import (
	"strings"

	"StockAnalyzer/internal/model"
)

const labelSeparator = " – "

// Label renders a candidate as "SYMBOL – Name" for selection lists.
func Label(c model.TickerCandidate) string {
	return c.Symbol + labelSeparator + c.DisplayName
}

// ParseLabel recovers the symbol from a label produced by Label. Plain symbols pass through.
func ParseLabel(label string) string {
	if i := strings.Index(label, "–"); i >= 0 {
		label = label[:i]
	}
	return strings.TrimSpace(label)
}
