package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/display"
	"github.com/google/subcommands"
)

type positionsCmd struct {
	format string
	plain  bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display valued open positions" }
func (*positionsCmd) Usage() string {
	return `folio positions [-format md|json] [-plain]

  Values the open positions at the latest close. Holdings without a
  ticker mapping are listed separately.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", formatMarkdown, "output format (md, json)")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown")
}

type positionsOutput struct {
	HomeCurrency     string                  `json:"home_currency"`
	FXRate           float64                 `json:"fx_rate"`
	FXFallback       bool                    `json:"fx_fallback"`
	Positions        []domain.ValuedPosition `json:"positions"`
	Unmapped         []domain.Position       `json:"unmapped"`
	TotalMarketValue float64                 `json:"total_market_value"`
	TotalGain        float64                 `json:"total_gain"`
}

func (c *positionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	result, err := container.CycleService.RunCycle(ctx)
	if err != nil {
		return fail("%v", err)
	}

	if c.format == formatJSON {
		if err := printJSON(positionsOutput{
			HomeCurrency:     result.HomeCurrency,
			FXRate:           result.FXRate,
			FXFallback:       result.FXFallback,
			Positions:        result.ValuedPositions,
			Unmapped:         result.Unmapped,
			TotalMarketValue: result.TotalMarketValue,
			TotalGain:        result.TotalGain,
		}); err != nil {
			return fail("%v", err)
		}
		return subcommands.ExitSuccess
	}

	printMarkdown("# Positions\n\n"+display.PositionsMarkdown(result), c.plain)
	return subcommands.ExitSuccess
}
