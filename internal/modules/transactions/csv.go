package transactions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aristath/folio/internal/domain"
)

var errMissingColumn = errors.New("required column missing from header")

// ParseCSV reads a transaction export. The header row must contain every
// RequiredColumns entry; extra columns are ignored and column order is free.
func ParseCSV(r io.Reader, loc *time.Location) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &domain.SchemaError{Field: ColumnTime, Err: errors.New("empty export, no header row")}
	}
	if err != nil {
		return nil, readError(err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[name] = i
	}
	for _, column := range RequiredColumns {
		if _, ok := index[column]; !ok {
			return nil, &domain.SchemaError{Field: column, Err: errMissingColumn}
		}
	}

	var out []domain.Transaction
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(err)
		}

		tx, err := normalize(row, rawRecord{
			Time:       record[index[ColumnTime]],
			Type:       record[index[ColumnType]],
			AssetID:    record[index[ColumnAssetID]],
			AssetName:  record[index[ColumnAssetName]],
			Quantity:   record[index[ColumnQuantity]],
			Amount:     record[index[ColumnAmount]],
			CashAmount: record[index[ColumnCashAmount]],
		}, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}

	return out, nil
}

// readError separates malformed CSV from a reader that failed underneath us
func readError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &domain.SchemaError{Row: parseErr.Line - 1, Field: fmt.Sprintf("column %d", parseErr.Column), Err: parseErr.Err}
	}
	return &domain.SourceError{Source: "csv stream", Err: err}
}
