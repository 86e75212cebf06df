package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/aristath/folio/internal/modules/display"
	"github.com/google/subcommands"
)

type reportCmd struct {
	watch int
	plain bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "value the portfolio and display the full report" }
func (*reportCmd) Usage() string {
	return `folio report [-w n] [-plain]

  Runs one valuation cycle and displays the summary, positions,
  allocation and dividend tables.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.watch, "w", 0, "refresh every n seconds")
	f.BoolVar(&c.plain, "plain", false, "print raw markdown")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	for {
		result, err := container.CycleService.RunCycle(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			if c.watch == 0 {
				return subcommands.ExitFailure
			}
		} else {
			if c.watch > 0 {
				fmt.Fprintln(stdout, "\033[2J")
			}
			printMarkdown(display.Report(result, e.cfg.Location), c.plain)
		}

		if c.watch <= 0 {
			break
		}
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case <-time.After(time.Duration(c.watch) * time.Second):
		}
	}
	return subcommands.ExitSuccess
}
