package insight

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"StockAnalyzer/internal/model"
)

// TailBars is the number of most recent bars embedded in a prompt.
const TailBars = 7

const (
	promptHeader  = "You are a financial analyst. Analyze the stock data below for "
	promptClosing = "Give a plain-English summary of trends, volatility, support/resistance levels, and suggest a short insight."
)

// BuildPrompt embeds the last TailBars bars of history in the fixed analyst template.
func BuildPrompt(ticker string, bars []model.PriceBar) string {
	if len(bars) > TailBars {
		bars = bars[len(bars)-TailBars:]
	}

	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString(ticker)
	sb.WriteString(":\n\n")
	sb.WriteString(formatTable(bars))
	sb.WriteString("\n")
	sb.WriteString(promptClosing)
	return sb.String()
}

// ParseTicker recovers the ticker embedded by BuildPrompt.
func ParseTicker(prompt string) (string, bool) {
	rest, ok := strings.CutPrefix(prompt, promptHeader)
	if !ok {
		return "", false
	}
	line, _, _ := strings.Cut(rest, "\n")
	ticker, ok := strings.CutSuffix(line, ":")
	if !ok || ticker == "" {
		return "", false
	}
	return ticker, true
}

func formatTable(bars []model.PriceBar) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Date\tOpen\tHigh\tLow\tClose\tVolume\t")
	for _, b := range bars {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t\n",
			b.Date.Format("2006-01-02"),
			b.Open.StringFixed(2),
			b.High.StringFixed(2),
			b.Low.StringFixed(2),
			b.Close.StringFixed(2),
			b.Volume)
	}
	w.Flush()
	return sb.String()
}
