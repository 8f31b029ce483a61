package model

import "errors"

var (
	// ErrDataUnavailable means the price provider returned nothing or did not recognize the symbol.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrMoversUnavailable means a screener request failed or its payload lacked the expected shape.
	ErrMoversUnavailable = errors.New("movers unavailable")
	// ErrGenerationFailed means the text-generation call errored or timed out.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrInsufficientData means the history is too short to build an insight prompt.
	ErrInsufficientData = errors.New("insufficient data")
)
