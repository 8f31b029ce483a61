package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockAnalyzer/internal/httpclient"
)

// YahooSearcher implements Searcher with the Yahoo Finance search endpoint.
type YahooSearcher struct {
	BaseURL    string
	MaxResults int
	Client     *http.Client
}

// NewYahooSearcher creates a searcher with optional proxy support.
func NewYahooSearcher(baseURL string, maxResults int, proxyURL string) *YahooSearcher {
	return &YahooSearcher{
		BaseURL:    baseURL,
		MaxResults: maxResults,
		Client:     httpclient.New(proxyURL, 15*time.Second),
	}
}

func (s *YahooSearcher) Name() string { return "yahoo" }

type yahooSearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
	} `json:"quotes"`
}

func (s *YahooSearcher) Search(ctx context.Context, query string) ([]Quote, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("quotesCount", fmt.Sprint(s.MaxResults))
	q.Set("newsCount", "0")
	u := s.BaseURL + "/v1/finance/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", httpclient.BrowserUserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo search read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo search: status %d, body: %s", resp.StatusCode, string(body))
	}
	return decodeSearch(body)
}

// decodeSearch extracts quotes[].{symbol,shortname}. A missing quotes array means no matches.
func decodeSearch(body []byte) ([]Quote, error) {
	var raw yahooSearchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("yahoo search decode: %w", err)
	}
	quotes := make([]Quote, 0, len(raw.Quotes))
	for _, q := range raw.Quotes {
		quotes = append(quotes, Quote{Symbol: q.Symbol, ShortName: q.ShortName})
	}
	return quotes, nil
}
