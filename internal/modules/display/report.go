package display

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/folio/internal/domain"
)

// Report renders a full cycle as markdown
func Report(result *domain.CycleResult, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("# Portfolio\n\n")
	writeSummary(&b, result, loc)
	b.WriteString("\n## Positions\n\n")
	b.WriteString(PositionsMarkdown(result))
	if len(result.Unmapped) > 0 {
		b.WriteString("\n### Not valued\n\n")
		for _, p := range result.Unmapped {
			fmt.Fprintf(&b, "- %s (%s): %s units\n", p.AssetName, p.AssetID, Quantity(p.NetQuantity))
		}
	}
	if alloc := Allocation(result); len(alloc) > 0 {
		b.WriteString("\n## Allocation\n\n")
		b.WriteString("| Ticker | Name | Value | Weight |\n|---|---|--:|--:|\n")
		for _, s := range alloc {
			fmt.Fprintf(&b, "| %s | %s | %s | %.1f%% |\n", s.Ticker, escape(s.AssetName), Money(s.MarketValue, result.HomeCurrency), s.Weight)
		}
	}
	b.WriteString("\n## Dividends\n\n")
	b.WriteString(DividendsMarkdown(&result.DividendMatrix, result.HomeCurrency))
	return b.String()
}

func writeSummary(b *strings.Builder, result *domain.CycleResult, loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	cur := result.HomeCurrency

	b.WriteString("| Metric | Value |\n|---|--:|\n")
	fmt.Fprintf(b, "| Total value | %s |\n", Money(result.TotalMarketValue, cur))
	fmt.Fprintf(b, "| Total gain | %s (%s) |\n", Money(result.TotalGain, cur), Percent(result.TotalGainPct))
	fmt.Fprintf(b, "| Total dividends | %s |\n", Money(result.DividendMatrix.GrandTotal, cur))

	fx := Rate(result.FXRate)
	if result.FXFallback {
		fx += " (fallback)"
	}
	fmt.Fprintf(b, "| FX rate | %s |\n", fx)
	fmt.Fprintf(b, "| Updated | %s |\n", result.ComputedAt.In(loc).Format("2006-01-02 15:04:05"))
}

// PositionsMarkdown renders the valued positions table
func PositionsMarkdown(result *domain.CycleResult) string {
	if len(result.ValuedPositions) == 0 {
		return "_No open positions._\n"
	}

	cur := result.HomeCurrency
	var b strings.Builder
	b.WriteString("| Name | Ticker | Quantity | Avg cost | Price | Value | Gain | Gain % |\n")
	b.WriteString("|---|---|--:|--:|--:|--:|--:|--:|\n")
	for _, p := range result.ValuedPositions {
		price := Money(p.CurrentPrice, cur)
		if p.PriceFailure != domain.FailureNone {
			price = "n/a (" + string(p.PriceFailure) + ")"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			escape(p.AssetName),
			p.Ticker,
			Quantity(p.NetQuantity),
			Money(p.AverageCostPrice, cur),
			price,
			Money(p.MarketValue, cur),
			Money(p.UnrealizedGain, cur),
			Percent(p.UnrealizedGainPct),
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | | | **%s** | **%s** | |\n",
		Money(result.TotalMarketValue, cur), Money(result.TotalGain, cur))
	return b.String()
}

// DividendsMarkdown renders the dividend matrix with its total row and column
func DividendsMarkdown(m *domain.DividendMatrix, currency string) string {
	if m.IsEmpty() {
		return "_No dividends received._\n"
	}

	var b strings.Builder
	b.WriteString("| Asset |")
	for _, y := range m.Years {
		b.WriteString(" " + strconv.Itoa(y) + " |")
	}
	b.WriteString(" " + domain.TotalColumnLabel + " |\n|---|")
	b.WriteString(strings.Repeat("--:|", len(m.Years)+1))
	b.WriteString("\n")

	for _, asset := range append(append([]string{}, m.Assets...), domain.TotalRowLabel) {
		row, _ := m.Row(asset)
		label := escape(asset)
		if asset == domain.TotalRowLabel {
			label = "**" + label + "**"
		}
		b.WriteString("| " + label + " |")
		for _, v := range row {
			b.WriteString(" " + Money(v, currency) + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
