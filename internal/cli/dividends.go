package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/aristath/folio/internal/modules/display"
	"github.com/aristath/folio/internal/modules/dividends"
	dividendhandlers "github.com/aristath/folio/internal/modules/dividends/handlers"
	"github.com/google/subcommands"
)

type dividendsCmd struct {
	format string
	plain  bool
}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "display dividends received per asset and year" }
func (*dividendsCmd) Usage() string {
	return `folio dividends [-format md|json] [-plain]

  Summarizes cash dividends by asset and calendar year. No market data
  is fetched.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", formatMarkdown, "output format (md, json)")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown")
}

func (c *dividendsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !validFormat(c.format) {
		fmt.Fprintf(stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	e, err := loadEnv()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	container, err := e.container(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer container.Close()

	txs, err := container.Source.Load(ctx)
	if err != nil {
		return fail("%v", err)
	}
	matrix := dividends.Summarize(txs)

	if c.format == formatJSON {
		if err := printJSON(dividendhandlers.NewMatrixResponse(matrix, e.cfg.HomeCurrency)); err != nil {
			return fail("%v", err)
		}
		return subcommands.ExitSuccess
	}

	printMarkdown("# Dividends\n\n"+display.DividendsMarkdown(&matrix, e.cfg.HomeCurrency), c.plain)
	return subcommands.ExitSuccess
}
