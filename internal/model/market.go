package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar represents a single daily (or coarser) bar.
type PriceBar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// TickerCandidate is one symbol-search match.
type TickerCandidate struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"display_name"`
}

// MoverRecord is one row of a gainers or losers screener.
type MoverRecord struct {
	Symbol        string          `json:"symbol"`
	DisplayName   string          `json:"display_name"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
}

// InsightReport is a generated plain-English summary for one ticker.
type InsightReport struct {
	Ticker    string    `json:"ticker"`
	Text      string    `json:"text"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// TapeEntry is one item of the scrolling ticker tape.
type TapeEntry struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Change string          `json:"change"`
}

// Up reports whether the tape entry shows a non-negative change.
func (e TapeEntry) Up() bool {
	return len(e.Change) == 0 || e.Change[0] != '-'
}
