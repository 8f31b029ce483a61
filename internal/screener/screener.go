// Package screener fetches the day's top gainers and losers from Yahoo's predefined screeners.
package screener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"StockAnalyzer/internal/httpclient"
	"StockAnalyzer/internal/model"
)

const (
	screenGainers = "day_gainers"
	screenLosers  = "day_losers"

	// MaxCount is the most entries kept per list.
	MaxCount = 5

	missingName = "N/A"
)

// Feed queries the screener endpoint.
type Feed struct {
	BaseURL string
	Count   int
	Client  *http.Client
	logger  *zap.Logger
}

// NewFeed creates a Feed. count is clamped to 1..MaxCount.
func NewFeed(baseURL string, count int, proxyURL string, logger *zap.Logger) *Feed {
	if count <= 0 || count > MaxCount {
		count = MaxCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		BaseURL: baseURL,
		Count:   count,
		Client:  httpclient.New(proxyURL, 15*time.Second),
		logger:  logger,
	}
}

// TopMovers returns gainers and losers. Either request failing fails the whole call
// with model.ErrMoversUnavailable; no partial lists are returned.
func (f *Feed) TopMovers(ctx context.Context) (gainers, losers []model.MoverRecord, err error) {
	gainers, err = f.fetch(ctx, screenGainers)
	if err != nil {
		return nil, nil, err
	}
	losers, err = f.fetch(ctx, screenLosers)
	if err != nil {
		return nil, nil, err
	}
	f.logger.Debug("fetched movers", zap.Int("gainers", len(gainers)), zap.Int("losers", len(losers)))
	return gainers, losers, nil
}

func (f *Feed) fetch(ctx context.Context, screen string) ([]model.MoverRecord, error) {
	q := url.Values{}
	q.Set("scrIds", screen)
	q.Set("count", strconv.Itoa(f.Count))
	u := f.BaseURL + "/v1/finance/screener/predefined/saved?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrMoversUnavailable, screen, err)
	}
	req.Header.Set("User-Agent", httpclient.BrowserUserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrMoversUnavailable, screen, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s read body: %v", model.ErrMoversUnavailable, screen, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", model.ErrMoversUnavailable, screen, resp.StatusCode)
	}

	records, err := decodeScreener(body, f.Count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", screen, err)
	}
	return records, nil
}

type screenerResponse struct {
	Finance *struct {
		Result []*struct {
			Quotes *[]screenerQuote `json:"quotes"`
		} `json:"result"`
	} `json:"finance"`
}

type screenerQuote struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
}

// decodeScreener is the only place that knows the finance.result[0].quotes shape.
func decodeScreener(body []byte, limit int) ([]model.MoverRecord, error) {
	var raw screenerResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", model.ErrMoversUnavailable, err)
	}
	if raw.Finance == nil || len(raw.Finance.Result) == 0 {
		return nil, fmt.Errorf("%w: missing finance.result", model.ErrMoversUnavailable)
	}

	first := raw.Finance.Result[0]
	if first == nil || first.Quotes == nil {
		return nil, fmt.Errorf("%w: missing finance.result[0].quotes", model.ErrMoversUnavailable)
	}
	quotes := *first.Quotes
	if len(quotes) > limit {
		quotes = quotes[:limit]
	}
	records := make([]model.MoverRecord, 0, len(quotes))
	for i, q := range quotes {
		if q.Symbol == "" || q.RegularMarketPrice == nil || q.RegularMarketChangePercent == nil {
			return nil, fmt.Errorf("%w: quote %d missing symbol, price or change", model.ErrMoversUnavailable, i)
		}
		name := q.ShortName
		if name == "" {
			name = missingName
		}
		records = append(records, model.MoverRecord{
			Symbol:        q.Symbol,
			DisplayName:   name,
			Price:         decimal.NewFromFloat(*q.RegularMarketPrice),
			ChangePercent: decimal.NewFromFloat(*q.RegularMarketChangePercent),
		})
	}
	return records, nil
}
