package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/google/subcommands"
)

type tickersCmd struct {
	format string
	plain  bool
}

func (*tickersCmd) Name() string     { return "tickers" }
func (*tickersCmd) Synopsis() string { return "display the effective asset to ticker mapping" }
func (*tickersCmd) Usage() string {
	return `folio tickers [-format md|json] [-plain]

  Prints the mapping from FOLIO_TICKERS, or the built-in mapping when
  it is not set.
`
}

func (c *tickersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", formatMarkdown, "output format (md, json)")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown")
}

func (c *tickersCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !validFormat(c.format) {
		fmt.Fprintf(stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	e, err := loadEnv()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	tickers, err := portfolio.LoadTickerMap(e.cfg.TickersFile)
	if err != nil {
		return fail("%v", err)
	}

	if c.format == formatJSON {
		if err := printJSON(tickers); err != nil {
			return fail("%v", err)
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(tickersMarkdown(tickers, e.cfg.HomeCurrency, e.cfg.ForeignCurrency), c.plain)
	return subcommands.ExitSuccess
}

func tickersMarkdown(tickers *portfolio.TickerMap, home, foreign string) string {
	var b strings.Builder
	b.WriteString("# Tickers\n\n| Asset Id | Ticker | Currency |\n|---|---|---|\n")
	for _, id := range tickers.AssetIDs() {
		ticker, _ := tickers.Lookup(id)
		currency := home
		if tickers.IsForeign(ticker) {
			currency = foreign
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", id, ticker, currency)
	}
	return b.String()
}
