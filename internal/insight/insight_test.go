package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"StockAnalyzer/internal/model"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockClient) Name() string { return "mock/test" }

func makeBars(n int) []model.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := range bars {
		base := decimal.NewFromInt(int64(100 + i))
		bars[i] = model.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   base,
			High:   base.Add(decimal.NewFromFloat(1.5)),
			Low:    base.Sub(decimal.NewFromFloat(0.25)),
			Close:  base.Add(decimal.NewFromFloat(0.5)),
			Volume: int64(1000 * (i + 1)),
		}
	}
	return bars
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("INFY.NS", makeBars(30))

	assert.True(t, strings.HasPrefix(prompt, "You are a financial analyst. Analyze the stock data below for INFY.NS:\n\n"))
	assert.True(t, strings.HasSuffix(prompt, "support/resistance levels, and suggest a short insight."))
	assert.Contains(t, prompt, "Date")
	assert.Contains(t, prompt, "Volume")

	// Only the last seven bars: 2024-01-24 .. 2024-01-30.
	assert.NotContains(t, prompt, "2024-01-23")
	assert.Contains(t, prompt, "2024-01-24")
	assert.Contains(t, prompt, "2024-01-30")
	assert.Contains(t, prompt, "129.50")
	assert.Contains(t, prompt, "30000")

	lines := strings.Split(prompt, "\n")
	// header, blank, table header, 7 rows, blank, closing
	assert.Len(t, lines, 12)
}

func TestBuildPrompt_FewerBars(t *testing.T) {
	prompt := BuildPrompt("AAPL", makeBars(3))
	assert.Contains(t, prompt, "2024-01-03")
	assert.Equal(t, 8, len(strings.Split(prompt, "\n")))
}

func TestParseTickerRoundTrip(t *testing.T) {
	for _, ticker := range []string{"RELIANCE.NS", "AAPL", "BRK-B", "^NSEI", "M&M.NS", "EURUSD=X"} {
		got, ok := ParseTicker(BuildPrompt(ticker, makeBars(10)))
		assert.True(t, ok, ticker)
		assert.Equal(t, ticker, got)
	}

	_, ok := ParseTicker("some other text")
	assert.False(t, ok)
}

func TestGenerate(t *testing.T) {
	client := &mockClient{}
	client.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "for TCS.NS:")
	})).Return("Steady uptrend.", nil)

	g := NewGenerator(client, 7, nil)
	report, err := g.Generate(context.Background(), "TCS.NS", makeBars(10))
	require.NoError(t, err)
	assert.Equal(t, "TCS.NS", report.Ticker)
	assert.Equal(t, "Steady uptrend.", report.Text)
	assert.Equal(t, "mock/test", report.Model)
	assert.False(t, report.CreatedAt.IsZero())
	client.AssertExpectations(t)
}

func TestGenerate_InsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		minBars int
		bars    int
		wantErr bool
	}{
		{"six of seven", 7, 6, true},
		{"zero bars", 7, 0, true},
		{"zero bars with min 0", 0, 0, true},
		{"lowered minimum", 3, 4, false},
		{"exact", 7, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{}
			client.On("Generate", mock.Anything, mock.Anything).Return("ok", nil).Maybe()

			_, err := NewGenerator(client, tt.minBars, nil).Generate(context.Background(), "X", makeBars(tt.bars))
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInsufficientData)
				client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGenerate_Failure(t *testing.T) {
	client := &mockClient{}
	client.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("deadline exceeded"))

	_, err := NewGenerator(client, 7, nil).Generate(context.Background(), "AAPL", makeBars(7))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "deadline exceeded")
}
