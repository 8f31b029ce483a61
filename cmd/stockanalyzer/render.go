package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/search"
	"StockAnalyzer/internal/service"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Padding(0, 1)

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Markdown renderer
var mdRenderer *glamour.TermRenderer

func init() {
	var err error
	mdRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		mdRenderer = nil
	}
}

func changeStyle(d decimal.Decimal) lipgloss.Style {
	if d.IsNegative() {
		return downStyle
	}
	return upStyle
}

func renderCandidates(query string, candidates []model.TickerCandidate) string {
	var b strings.Builder
	if len(candidates) == 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("No matching tickers for %q.", query)))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(titleStyle.Render("🔍 " + query))
	b.WriteString("\n")
	for _, c := range candidates {
		b.WriteString("  " + search.Label(c) + "\n")
	}
	return b.String()
}

func renderPrice(q *service.PriceQuote) string {
	return titleStyle.Render(fmt.Sprintf("💰 %s latest close: %s%s", q.Ticker, q.Currency, q.Price.StringFixed(2)))
}

func renderHistory(view *service.HistoryView, n int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("📊 %s (%d bars)", view.Ticker, len(view.Bars))))
	b.WriteString("\n")

	bars := view.Bars
	if n > 0 && len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%-12s %12s %12s %12s %12s %14s", "Date", "Open", "High", "Low", "Close", "Volume")))
	b.WriteString("\n")
	for _, bar := range bars {
		line := fmt.Sprintf("%-12s %12s %12s %12s %12s %14d",
			bar.Date.Format("2006-01-02"),
			bar.Open.StringFixed(2), bar.High.StringFixed(2), bar.Low.StringFixed(2), bar.Close.StringFixed(2),
			bar.Volume)
		style := upStyle
		if bar.Close.LessThan(bar.Open) {
			style = downStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	s := view.Stats
	b.WriteString(fmt.Sprintf("\nHigh %s%s · Low %s%s", view.Currency, s.High.StringFixed(2), view.Currency, s.Low.StringFixed(2)))
	if s.ChangePercent != nil {
		b.WriteString(" · Change " + changeStyle(*s.ChangePercent).Render(s.ChangePercent.StringFixed(2)+"%"))
	}
	if s.SMA20 != nil {
		b.WriteString(" · SMA20 " + s.SMA20.StringFixed(2))
	}
	if s.RSI14 != nil {
		b.WriteString(" · RSI14 " + s.RSI14.StringFixed(1))
	}
	b.WriteString("\n")
	return b.String()
}

func renderMovers(gainers, losers []model.MoverRecord) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🚀 Top Gainers"))
	b.WriteString("\n")
	writeMoverRows(&b, gainers)
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("📉 Top Losers"))
	b.WriteString("\n")
	writeMoverRows(&b, losers)
	return b.String()
}

func writeMoverRows(b *strings.Builder, movers []model.MoverRecord) {
	for _, m := range movers {
		b.WriteString(fmt.Sprintf("  %-10s %-30s %10s  ", m.Symbol, truncate(m.DisplayName, 30), m.Price.StringFixed(2)))
		b.WriteString(changeStyle(m.ChangePercent).Render(m.ChangePercent.StringFixed(2) + "%"))
		b.WriteString("\n")
	}
}

func renderReport(report *model.InsightReport) string {
	md := fmt.Sprintf("## 🧠 AI Insight: %s\n\n%s\n", report.Ticker, report.Text)
	if mdRenderer != nil {
		if out, err := mdRenderer.Render(md); err == nil {
			return out + dimStyle.Render(report.Model) + "\n"
		}
	}
	return md + report.Model + "\n"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
