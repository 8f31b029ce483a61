package api

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"StockAnalyzer/internal/collector"
)

const maxInputLength = 100

// Validator handles validation logic separate from HTTP concerns
type Validator struct {
	periods     map[string]bool
	intervals   map[string]bool
	tickerRegex *regexp.Regexp
}

var (
	validatorInstance *Validator
	validatorOnce     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	validatorOnce.Do(func() {
		v := &Validator{
			periods:   map[string]bool{},
			intervals: map[string]bool{},
			// Letters, digits and the punctuation used by index (^NSEI), FX (EURUSD=X),
			// class (BRK-B) and regional (M&M.NS) symbols.
			tickerRegex: regexp.MustCompile(`^[A-Za-z0-9^=.\-&]{1,20}$`),
		}
		for _, p := range collector.SupportedPeriods {
			v.periods[p] = true
		}
		for _, i := range collector.SupportedIntervals {
			v.intervals[i] = true
		}
		validatorInstance = v
	})
	return validatorInstance
}

// ValidateTicker sanitizes and checks a ticker symbol.
func (v *Validator) ValidateTicker(ticker string) (string, error) {
	ticker = v.sanitizeInput(ticker)
	if ticker == "" {
		return "", errors.New("ticker parameter is required")
	}
	if !v.tickerRegex.MatchString(ticker) {
		return "", errors.New("ticker must be 1-20 characters of letters, digits or ^ = . - &")
	}
	return ticker, nil
}

// ValidateHistoryRequest checks ticker, period and interval. Empty period/interval are left for defaults.
func (v *Validator) ValidateHistoryRequest(ticker, period, interval string) (string, string, string, error) {
	cleanTicker, err := v.ValidateTicker(ticker)
	if err != nil {
		return "", "", "", err
	}
	period = v.sanitizeInput(period)
	if period != "" && !v.periods[period] {
		return "", "", "", fmt.Errorf("invalid period '%s'. Supported values: %s", period, strings.Join(collector.SupportedPeriods, ", "))
	}
	interval = v.sanitizeInput(interval)
	if interval != "" && !v.intervals[interval] {
		return "", "", "", fmt.Errorf("invalid interval '%s'. Supported values: %s", interval, strings.Join(collector.SupportedIntervals, ", "))
	}
	return cleanTicker, period, interval, nil
}

// ValidateQuery sanitizes a free-text search query. Blank queries are allowed and match nothing.
func (v *Validator) ValidateQuery(query string) (string, error) {
	if len(strings.TrimSpace(query)) > maxInputLength {
		return "", fmt.Errorf("query must be at most %d characters", maxInputLength)
	}
	return v.sanitizeInput(query), nil
}

// sanitizeInput removes control characters and trims whitespace
func (v *Validator) sanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case r < 32 || r == 127:
			return -1
		}
		return r
	}, input)

	if len(input) > maxInputLength {
		input = input[:maxInputLength]
	}
	return input
}
