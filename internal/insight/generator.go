// Package insight turns a price history into a natural-language report.
package insight

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"StockAnalyzer/internal/llm"
	"StockAnalyzer/internal/model"
)

// Generator builds prompts and forwards them to a text-generation client.
type Generator struct {
	client  llm.Client
	minBars int
	logger  *zap.Logger
}

// NewGenerator creates a Generator. minBars below 1 is treated as 1.
func NewGenerator(client llm.Client, minBars int, logger *zap.Logger) *Generator {
	if minBars < 1 {
		minBars = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, minBars: minBars, logger: logger}
}

// Generate returns the model's response verbatim.
func (g *Generator) Generate(ctx context.Context, ticker string, history []model.PriceBar) (*model.InsightReport, error) {
	if len(history) < g.minBars {
		return nil, fmt.Errorf("%w: %s has %d bars, need %d", model.ErrInsufficientData, ticker, len(history), g.minBars)
	}

	prompt := BuildPrompt(ticker, history)
	start := time.Now()
	text, err := g.client.Generate(ctx, prompt)
	if err != nil {
		g.logger.Warn("generation failed",
			zap.String("ticker", ticker), zap.String("model", g.client.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}
	g.logger.Info("generated insight",
		zap.String("ticker", ticker),
		zap.String("model", g.client.Name()),
		zap.Int("chars", len(text)),
		zap.Duration("took", time.Since(start)))

	return &model.InsightReport{
		Ticker:    ticker,
		Text:      text,
		Model:     g.client.Name(),
		CreatedAt: time.Now().UTC(),
	}, nil
}
