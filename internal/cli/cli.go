// Package cli implements the folio command line subcommands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/di"
	"github.com/aristath/folio/pkg/logger"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands lists every folio subcommand
var Commands = []subcommands.Command{
	&reportCmd{},
	&positionsCmd{},
	&dividendsCmd{},
	&tickersCmd{},
	&importCmd{},
}

// Output formats
const (
	formatMarkdown = "md"
	formatJSON     = "json"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	// wire builds the container; replaced in tests to stub market data
	wire = di.Wire
)

// env is what a command needs from configuration
type env struct {
	cfg *config.Config
	log zerolog.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: stderr,
	})
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) container(ctx context.Context) (*di.Container, error) {
	return wire(ctx, e.cfg, e.log)
}

// printMarkdown renders markdown for the terminal. plain skips rendering.
func printMarkdown(md string, plain bool) {
	if plain {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fail(format string, args ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

func validFormat(format string) bool {
	return format == formatMarkdown || format == formatJSON
}
