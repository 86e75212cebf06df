// Package transactions loads the broker transaction export into normalized
// domain.Transaction records, from a local CSV file, an S3 object, or a ledger database.
package transactions

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/folio/internal/domain"
)

// Export column names
const (
	ColumnTime       = "Transaction Time (CET)"
	ColumnType       = "Transaction Type"
	ColumnAssetID    = "Asset Id"
	ColumnAssetName  = "Asset Name"
	ColumnQuantity   = "Trade Quantity"
	ColumnAmount     = "Trade Amount"
	ColumnCashAmount = "Transaction Amount"
)

// RequiredColumns lists the header fields every tabular source must carry
var RequiredColumns = []string{
	ColumnTime,
	ColumnType,
	ColumnAssetID,
	ColumnAssetName,
	ColumnQuantity,
	ColumnAmount,
	ColumnCashAmount,
}

// timestampLayouts are tried in order. Layouts without an offset are read in
// the export's time zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an export timestamp in loc
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}

var errNonFinite = errors.New("not a finite number")

// parseAmount reads a numeric cell. Empty cells are 0, as the export leaves
// trade fields blank on cash events.
func parseAmount(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return v, checkFinite(v)
}

func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errNonFinite
	}
	return nil
}

// rawRecord is one row before type conversion
type rawRecord struct {
	Time       string
	Type       string
	AssetID    string
	AssetName  string
	Quantity   string
	Amount     string
	CashAmount string
}

// normalize converts a raw row into a Transaction. row is 1-based for error reporting.
func normalize(row int, raw rawRecord, loc *time.Location) (domain.Transaction, error) {
	ts, err := ParseTimestamp(raw.Time, loc)
	if err != nil {
		return domain.Transaction{}, &domain.SchemaError{Row: row, Field: ColumnTime, Value: raw.Time, Err: err}
	}

	amount := func(field, value string) (float64, error) {
		v, err := parseAmount(value)
		if err != nil {
			return 0, &domain.SchemaError{Row: row, Field: field, Value: value, Err: err}
		}
		return v, nil
	}

	quantity, err := amount(ColumnQuantity, raw.Quantity)
	if err != nil {
		return domain.Transaction{}, err
	}
	tradeAmount, err := amount(ColumnAmount, raw.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	cashAmount, err := amount(ColumnCashAmount, raw.CashAmount)
	if err != nil {
		return domain.Transaction{}, err
	}

	rawType := strings.TrimSpace(raw.Type)
	return domain.Transaction{
		Timestamp:  ts,
		Type:       domain.ParseTransactionType(rawType),
		RawType:    rawType,
		AssetID:    strings.TrimSpace(raw.AssetID),
		AssetName:  strings.TrimSpace(raw.AssetName),
		Quantity:   quantity,
		Amount:     tradeAmount,
		CashAmount: cashAmount,
	}, nil
}
