// Package search resolves free-text company queries into ticker candidates.
package search

import "context"

// Quote is a raw symbol-search record as returned by a provider.
// Empty fields mean the provider omitted them.
type Quote struct {
	Symbol    string
	ShortName string
}

// Searcher queries a symbol-search provider.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Quote, error)
	Name() string
}
