package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/aristath/folio/internal/database"
	"github.com/aristath/folio/internal/modules/transactions"
	"github.com/google/subcommands"
)

type importCmd struct {
	db string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "copy a CSV export into a SQLite ledger" }
func (*importCmd) Usage() string {
	return `folio import [-db ledger.db] <export.csv>

  Parses the export and replaces the contents of the ledger's
  transactions table. Point FOLIO_TRANSACTIONS at sqlite://<db> to
  value from the ledger.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.db, "db", "ledger.db", "SQLite ledger file")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: import takes exactly one CSV file")
		return subcommands.ExitUsageError
	}
	e, err := loadEnv()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	loader := transactions.NewCSVLoader(transactions.NewFileSource(f.Arg(0)), e.cfg.Location, e.log)
	txs, err := loader.Load(ctx)
	if err != nil {
		return fail("%v", err)
	}

	db, err := database.New(database.Config{
		Path:    c.db,
		Profile: database.ProfileLedger,
		Name:    "ledger",
	})
	if err != nil {
		return fail("%v", err)
	}
	defer db.Close()

	n, err := transactions.ImportCSV(ctx, db, txs)
	if err != nil {
		return fail("%v", err)
	}

	fmt.Fprintf(stdout, "Imported %d transactions into %s\n", n, db.Path())
	return subcommands.ExitSuccess
}
