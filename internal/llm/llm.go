// Package llm wraps the hosted text-generation services used for insight reports.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider names.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Client sends a single prompt and returns the generated text verbatim.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Settings selects and configures a Client. BaseURL and Timeout are optional.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// New creates the client named by s.Provider.
func New(s Settings) (Client, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("llm: api key is required for %s", s.Provider)
	}
	switch s.Provider {
	case ProviderGemini:
		opts := []Option{}
		if s.BaseURL != "" {
			opts = append(opts, WithBaseURL(s.BaseURL))
		}
		if s.Timeout > 0 {
			opts = append(opts, WithTimeout(s.Timeout))
		}
		return NewGeminiClient(s.APIKey, s.Model, opts...), nil
	case ProviderOpenAI:
		return NewOpenAIClient(s.APIKey, s.Model, s.BaseURL, s.Timeout), nil
	case ProviderAnthropic:
		return NewAnthropicClient(s.APIKey, s.Model, s.BaseURL, s.Timeout), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", s.Provider)
	}
}
