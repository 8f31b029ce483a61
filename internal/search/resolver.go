package search

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"StockAnalyzer/internal/model"
)

// Resolver filters provider search results down to ticker-like candidates.
type Resolver struct {
	searcher Searcher
	suffix   string
	logger   *zap.Logger
}

// NewResolver creates a Resolver. suffix is the regional exchange marker, e.g. ".NS".
func NewResolver(searcher Searcher, suffix string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{searcher: searcher, suffix: suffix, logger: logger}
}

// Resolve returns candidates in provider order. No match is an empty slice, not an error.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]model.TickerCandidate, error) {
	candidates := []model.TickerCandidate{}
	query = strings.TrimSpace(query)
	if query == "" {
		return candidates, nil
	}

	quotes, err := r.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q via %s: %w", query, r.searcher.Name(), err)
	}

	for _, q := range quotes {
		if q.Symbol == "" || q.ShortName == "" {
			continue
		}
		if !r.tickerLike(q.Symbol) {
			continue
		}
		candidates = append(candidates, model.TickerCandidate{Symbol: q.Symbol, DisplayName: q.ShortName})
	}
	r.logger.Debug("resolved query",
		zap.String("query", query), zap.Int("quotes", len(quotes)), zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// tickerLike keeps regional-suffix symbols unconditionally and otherwise only upper-case tokens.
func (r *Resolver) tickerLike(symbol string) bool {
	if r.suffix != "" && strings.HasSuffix(symbol, r.suffix) {
		return true
	}
	return isUpper(symbol)
}

// isUpper reports whether s has at least one cased letter and no lower- or title-case letters.
func isUpper(s string) bool {
	cased := false
	for _, c := range s {
		if unicode.IsLower(c) || unicode.IsTitle(c) {
			return false
		}
		if unicode.IsUpper(c) {
			cased = true
		}
	}
	return cased
}
