package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StockAnalyzer/internal/model"
)

// FormatMovers formats gainers and losers into a Telegram digest.
func FormatMovers(gainers, losers []model.MoverRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Top Movers</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))

	b.WriteString("🚀 <b>Top Gainers</b>\n")
	writeMovers(&b, gainers)
	b.WriteString("\n📉 <b>Top Losers</b>\n")
	writeMovers(&b, losers)
	return b.String()
}

func writeMovers(b *strings.Builder, movers []model.MoverRecord) {
	if len(movers) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, m := range movers {
		b.WriteString(fmt.Sprintf("  <b>%s</b> %s: %s (%s%%)\n",
			html.EscapeString(m.Symbol),
			html.EscapeString(m.DisplayName),
			m.Price.StringFixed(2),
			signed(m.ChangePercent.StringFixed(2))))
	}
}

func signed(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}

// FormatMoversUnavailable is sent in place of a digest when the screener fails.
func FormatMoversUnavailable() string {
	return "⚠️ Could not load market movers right now."
}

// FormatCandidates lists search matches for a query.
func FormatCandidates(query string, candidates []model.TickerCandidate) string {
	if len(candidates) == 0 {
		return fmt.Sprintf("🔍 No tickers found for \"%s\".", html.EscapeString(query))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔍 <b>Matches for</b> \"%s\"\n\n", html.EscapeString(query)))
	for _, c := range candidates {
		b.WriteString(fmt.Sprintf("  <code>%s</code> %s\n", html.EscapeString(c.Symbol), html.EscapeString(c.DisplayName)))
	}
	b.WriteString("\nUse /analyze SYMBOL for a report.")
	return b.String()
}

// FormatInsight formats a generated report. currency and price may be empty.
func FormatInsight(report *model.InsightReport, currency, price string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧠 <b>AI Insight</b> | %s\n", html.EscapeString(report.Ticker)))
	if price != "" {
		b.WriteString(fmt.Sprintf("Latest close: %s%s\n", currency, price))
	}
	b.WriteString("\n")
	b.WriteString(html.EscapeString(report.Text))
	if report.Model != "" {
		b.WriteString(fmt.Sprintf("\n\n<i>%s</i>", html.EscapeString(report.Model)))
	}
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /movers - top gainers and losers\n" +
		"• /search QUERY - find ticker symbols\n" +
		"• /analyze SYMBOL - AI summary of recent prices\n" +
		"• /help - this message"
}
