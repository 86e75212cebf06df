// Package dividends pivots dividend cash events into an asset-by-year matrix.
package dividends

import (
	"math"
	"sort"

	"github.com/aristath/folio/internal/domain"
	"gonum.org/v1/gonum/floats"
)

// Summarize builds the dividend matrix from all Dividend events.
//
// Each event contributes the absolute value of its cash amount to the cell of
// its asset name and calendar year. Assets are sorted by name and years
// ascending; combinations without events are 0. Input without dividends gives
// an empty matrix.
func Summarize(txs []domain.Transaction) domain.DividendMatrix {
	sums := make(map[string]map[int]float64)
	yearSet := make(map[int]struct{})

	for _, tx := range txs {
		if tx.Type != domain.TransactionDividend {
			continue
		}
		year := tx.Timestamp.Year()
		row, ok := sums[tx.AssetName]
		if !ok {
			row = make(map[int]float64)
			sums[tx.AssetName] = row
		}
		row[year] += math.Abs(tx.CashAmount)
		yearSet[year] = struct{}{}
	}

	assets := make([]string, 0, len(sums))
	for name := range sums {
		assets = append(assets, name)
	}
	sort.Strings(assets)

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	m := domain.DividendMatrix{
		Assets:      assets,
		Years:       years,
		Cells:       make([][]float64, len(assets)),
		YearTotals:  make([]float64, len(years)),
		AssetTotals: make([]float64, len(assets)),
	}
	for i, name := range assets {
		m.Cells[i] = make([]float64, len(years))
		for j, y := range years {
			m.Cells[i][j] = sums[name][y]
		}
		m.AssetTotals[i] = floats.Sum(m.Cells[i])
	}

	column := make([]float64, len(assets))
	for j := range years {
		for i := range assets {
			column[i] = m.Cells[i][j]
		}
		m.YearTotals[j] = floats.Sum(column)
	}
	m.GrandTotal = floats.Sum(m.AssetTotals)

	return m
}
