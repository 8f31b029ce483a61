// Package service composes the market-data, search, screener and insight
// components into the operations offered by the dashboard, CLI and bot.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/recorder"
)

// HistorySource fetches price bars and latest prices.
type HistorySource interface {
	FetchHistory(ctx context.Context, ticker, period, interval string) ([]model.PriceBar, error)
	LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// TickerResolver maps free text to ticker candidates.
type TickerResolver interface {
	Resolve(ctx context.Context, query string) ([]model.TickerCandidate, error)
}

// MoversSource returns the day's gainers and losers.
type MoversSource interface {
	TopMovers(ctx context.Context) (gainers, losers []model.MoverRecord, err error)
}

// InsightSource generates a report from a price history.
type InsightSource interface {
	Generate(ctx context.Context, ticker string, history []model.PriceBar) (*model.InsightReport, error)
}

// Deps holds the components an Analyzer is built from. Insights and Recorder may be nil.
type Deps struct {
	History        HistorySource
	Resolver       TickerResolver
	Movers         MoversSource
	Insights       InsightSource
	Recorder       recorder.Recorder
	Tape           []model.TapeEntry
	RegionalSuffix string
}

// HistoryView is a price history prepared for charting.
type HistoryView struct {
	Ticker   string           `json:"ticker"`
	Currency string           `json:"currency"`
	Bars     []model.PriceBar `json:"bars"`
	Stats    calculator.Stats `json:"stats"`
}

// PriceQuote is the latest close for a ticker.
type PriceQuote struct {
	Ticker   string          `json:"ticker"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

// Analyzer implements the user-facing operations.
type Analyzer struct {
	deps   Deps
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(deps Deps, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Recorder == nil {
		deps.Recorder = recorder.NewNoopRecorder()
	}
	return &Analyzer{deps: deps, logger: logger}
}

// Tape returns the configured ticker-tape entries.
func (a *Analyzer) Tape() []model.TapeEntry {
	return a.deps.Tape
}

// Movers returns gainers and losers, or model.ErrMoversUnavailable.
func (a *Analyzer) Movers(ctx context.Context) ([]model.MoverRecord, []model.MoverRecord, error) {
	return a.deps.Movers.TopMovers(ctx)
}

// SnapshotMovers fetches movers and records them. Recording failures are only logged.
func (a *Analyzer) SnapshotMovers(ctx context.Context) ([]model.MoverRecord, []model.MoverRecord, error) {
	gainers, losers, err := a.deps.Movers.TopMovers(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := a.deps.Recorder.RecordMovers(ctx, gainers, losers); err != nil {
		a.logger.Error("record movers", zap.Error(err))
	}
	return gainers, losers, nil
}

// Search resolves free text to ticker candidates. No match is an empty slice.
func (a *Analyzer) Search(ctx context.Context, query string) ([]model.TickerCandidate, error) {
	return a.deps.Resolver.Resolve(ctx, query)
}

// History fetches bars and summary statistics.
func (a *Analyzer) History(ctx context.Context, ticker, period, interval string) (*HistoryView, error) {
	bars, err := a.deps.History.FetchHistory(ctx, ticker, period, interval)
	if err != nil {
		return nil, err
	}
	return &HistoryView{
		Ticker:   ticker,
		Currency: a.CurrencySymbol(ticker),
		Bars:     bars,
		Stats:    calculator.Summarize(bars),
	}, nil
}

// Price returns the latest close rounded to two places.
func (a *Analyzer) Price(ctx context.Context, ticker string) (*PriceQuote, error) {
	price, err := a.deps.History.LatestPrice(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return &PriceQuote{Ticker: ticker, Price: price, Currency: a.CurrencySymbol(ticker)}, nil
}

// Insight fetches history for ticker and generates a report from it.
func (a *Analyzer) Insight(ctx context.Context, ticker, period, interval string) (*model.InsightReport, error) {
	if a.deps.Insights == nil {
		return nil, fmt.Errorf("%w: text generation is not configured", model.ErrGenerationFailed)
	}
	bars, err := a.deps.History.FetchHistory(ctx, ticker, period, interval)
	if err != nil {
		return nil, err
	}
	report, err := a.deps.Insights.Generate(ctx, ticker, bars)
	if err != nil {
		return nil, err
	}
	if err := a.deps.Recorder.RecordInsight(ctx, report); err != nil {
		a.logger.Error("record insight", zap.String("ticker", ticker), zap.Error(err))
	}
	return report, nil
}

// InsightsEnabled reports whether a text-generation client is configured.
func (a *Analyzer) InsightsEnabled() bool {
	return a.deps.Insights != nil
}

// CurrencySymbol returns "₹" for tickers on the regional exchange, "$" otherwise.
func (a *Analyzer) CurrencySymbol(ticker string) string {
	if a.deps.RegionalSuffix != "" && strings.HasSuffix(strings.ToUpper(ticker), strings.ToUpper(a.deps.RegionalSuffix)) {
		return "₹"
	}
	return "$"
}
