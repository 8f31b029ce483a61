package search

import (
	"context"
	"fmt"
	"net/http"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// FinnhubSearcher implements Searcher with Finnhub's symbol lookup.
// Finnhub has no short name, so the description is used as the display name.
type FinnhubSearcher struct {
	client *finnhub.DefaultApiService
}

// NewFinnhubSearcher creates a Finnhub searcher. baseURL and httpClient may be empty/nil.
func NewFinnhubSearcher(apiKey, baseURL string, httpClient *http.Client) *FinnhubSearcher {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	if baseURL != "" {
		cfg.Servers = finnhub.ServerConfigurations{{URL: baseURL}}
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &FinnhubSearcher{client: finnhub.NewAPIClient(cfg).DefaultApi}
}

func (s *FinnhubSearcher) Name() string { return "finnhub" }

func (s *FinnhubSearcher) Search(ctx context.Context, query string) ([]Quote, error) {
	res, _, err := s.client.SymbolSearch(ctx).Q(query).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub search: %w", err)
	}

	results := res.GetResult()
	quotes := make([]Quote, 0, len(results))
	for _, r := range results {
		quotes = append(quotes, Quote{
			Symbol:    r.GetSymbol(),
			ShortName: r.GetDescription(),
		})
	}
	return quotes, nil
}
