package transactions

import (
	"context"
	"net/url"
	"time"

	"github.com/aristath/folio/internal/domain"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PostgresSchema is the ledger table expected by PostgresSource
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS transactions (
	id BIGSERIAL PRIMARY KEY,
	transaction_time TIMESTAMPTZ NOT NULL,
	transaction_type TEXT NOT NULL,
	asset_id TEXT NOT NULL DEFAULT '',
	asset_name TEXT NOT NULL DEFAULT '',
	trade_quantity NUMERIC,
	trade_amount NUMERIC,
	transaction_amount NUMERIC
);
`

// PostgresSource reads the transactions table of a PostgreSQL ledger
type PostgresSource struct {
	pool *pgxpool.Pool
	name string
	log  zerolog.Logger
}

// NewPostgresSource creates the connection pool. Connections are established
// lazily, so an unreachable server surfaces on the first Load.
func NewPostgresSource(ctx context.Context, dsn string, log zerolog.Logger) (*PostgresSource, error) {
	name := redactDSN(dsn)

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, &domain.SourceError{Source: name, Err: err}
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, &domain.SourceError{Source: name, Err: err}
	}

	return &PostgresSource{
		pool: pool,
		name: name,
		log:  log.With().Str("source", name).Logger(),
	}, nil
}

func (s *PostgresSource) Name() string { return s.name }

// Load reads every ledger row
func (s *PostgresSource) Load(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.pool.Query(ctx, selectTransactions)
	if err != nil {
		return nil, &domain.SourceError{Source: s.name, Err: err}
	}
	defer rows.Close()

	var out []domain.Transaction
	for row := 1; rows.Next(); row++ {
		tx, err := scanPostgresRow(row, rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.SourceError{Source: s.name, Err: err}
	}

	s.log.Debug().Int("transactions", len(out)).Msg("Loaded transactions")
	return out, nil
}

// scanPostgresRow maps one result row. A scan failure, such as a NUMERIC 'NaN'
// that decimal cannot hold, is a SchemaError for that row.
func scanPostgresRow(row int, scan func(dest ...any) error) (domain.Transaction, error) {
	var (
		ts                         time.Time
		txType, assetID, assetName string
		quantity, amount, cash     decimal.NullDecimal
	)
	if err := scan(&ts, &txType, &assetID, &assetName, &quantity, &amount, &cash); err != nil {
		return domain.Transaction{}, &domain.SchemaError{Row: row, Field: "row", Err: err}
	}
	return ledgerRow{
		Time:      ts,
		Type:      txType,
		AssetID:   assetID,
		AssetName: assetName,
		Quantity:  decimalValue(quantity),
		Amount:    decimalValue(amount),
		Cash:      decimalValue(cash),
	}.transaction(row)
}

// Close releases the pool
func (s *PostgresSource) Close() error {
	s.pool.Close()
	return nil
}

// decimalValue treats NULL like an empty export cell
func decimalValue(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	return d.Decimal.InexactFloat64()
}

// redactDSN hides the password for logs and error messages
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}
