package transactions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/folio/internal/database"
	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

const selectTransactions = `SELECT transaction_time, transaction_type, asset_id, asset_name,
trade_quantity, trade_amount, transaction_amount
FROM transactions ORDER BY transaction_time`

// ledgerRow is one scanned row of a ledger transactions table. NULL amounts
// arrive as 0, like empty export cells.
type ledgerRow struct {
	Time      time.Time
	Type      string
	AssetID   string
	AssetName string
	Quantity  float64
	Amount    float64
	Cash      float64
}

func (r ledgerRow) transaction(row int) (domain.Transaction, error) {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"trade_quantity", r.Quantity},
		{"trade_amount", r.Amount},
		{"transaction_amount", r.Cash},
	} {
		if err := checkFinite(f.value); err != nil {
			return domain.Transaction{}, &domain.SchemaError{Row: row, Field: f.name, Value: fmt.Sprint(f.value), Err: err}
		}
	}
	return domain.Transaction{
		Timestamp:  r.Time,
		Type:       domain.ParseTransactionType(r.Type),
		RawType:    r.Type,
		AssetID:    r.AssetID,
		AssetName:  r.AssetName,
		Quantity:   r.Quantity,
		Amount:     r.Amount,
		CashAmount: r.Cash,
	}, nil
}

// SQLiteSource reads the transactions table of a SQLite ledger.
// The file is opened read-only for the duration of one Load.
type SQLiteSource struct {
	path     string
	location *time.Location
	log      zerolog.Logger
}

// NewSQLiteSource creates a SQLite ledger source
func NewSQLiteSource(path string, location *time.Location, log zerolog.Logger) *SQLiteSource {
	if location == nil {
		location = time.UTC
	}
	return &SQLiteSource{
		path:     path,
		location: location,
		log:      log.With().Str("source", "sqlite://"+path).Logger(),
	}
}

func (s *SQLiteSource) Name() string { return "sqlite://" + s.path }

// Load reads every ledger row
func (s *SQLiteSource) Load(ctx context.Context) ([]domain.Transaction, error) {
	db, err := database.New(database.Config{Path: s.path, Profile: database.ProfileReadOnly, Name: "ledger"})
	if err != nil {
		return nil, &domain.SourceError{Source: s.Name(), Err: err}
	}
	defer db.Close()

	rows, err := db.Conn().QueryContext(ctx, selectTransactions)
	if err != nil {
		return nil, &domain.SourceError{Source: s.Name(), Err: err}
	}
	defer rows.Close()

	var out []domain.Transaction
	for row := 1; rows.Next(); row++ {
		var (
			ts, txType, assetID, assetName string
			quantity, amount, cash         sql.NullFloat64
		)
		if err := rows.Scan(&ts, &txType, &assetID, &assetName, &quantity, &amount, &cash); err != nil {
			return nil, &domain.SchemaError{Row: row, Field: "row", Err: err}
		}

		parsed, err := ParseTimestamp(ts, s.location)
		if err != nil {
			return nil, &domain.SchemaError{Row: row, Field: "transaction_time", Value: ts, Err: err}
		}

		tx, err := ledgerRow{
			Time:      parsed,
			Type:      txType,
			AssetID:   assetID,
			AssetName: assetName,
			Quantity:  quantity.Float64,
			Amount:    amount.Float64,
			Cash:      cash.Float64,
		}.transaction(row)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.SourceError{Source: s.Name(), Err: err}
	}

	s.log.Debug().Int("transactions", len(out)).Msg("Loaded transactions")
	return out, nil
}

// Close is a no-op; the ledger is only open during Load
func (s *SQLiteSource) Close() error { return nil }

// ImportCSV copies a CSV export into a SQLite ledger, replacing its contents.
// Returns the number of rows written.
func ImportCSV(ctx context.Context, db *database.DB, txs []domain.Transaction) (int, error) {
	if err := db.Migrate(); err != nil {
		return 0, err
	}

	err := database.WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
			return fmt.Errorf("failed to clear ledger: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions
			(transaction_time, transaction_type, asset_id, asset_name, trade_quantity, trade_amount, transaction_amount)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range txs {
			if _, err := stmt.ExecContext(ctx,
				t.Timestamp.Format(time.RFC3339Nano),
				t.RawType,
				t.AssetID,
				t.AssetName,
				t.Quantity,
				t.Amount,
				t.CashAmount,
			); err != nil {
				return fmt.Errorf("failed to insert transaction: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(txs), nil
}
