// Package portfolio reconstructs open positions from the transaction history
// and resolves them to market-data tickers.
package portfolio

import (
	"sort"

	"github.com/aristath/folio/internal/domain"
)

type positionKey struct {
	assetID   string
	assetName string
}

// AggregatePositions reduces buys and sells into net open positions.
//
// Sells count negatively for both quantity and amount. Groups are keyed by
// (asset id, asset name); groups whose net quantity is not positive are closed
// or short and are dropped. Output is sorted by asset name, then asset id.
func AggregatePositions(txs []domain.Transaction) []domain.Position {
	sums := make(map[positionKey]*domain.Position)

	for _, tx := range txs {
		var sign float64
		switch tx.Type {
		case domain.TransactionBuy:
			sign = 1
		case domain.TransactionSell:
			sign = -1
		default:
			continue
		}

		key := positionKey{assetID: tx.AssetID, assetName: tx.AssetName}
		p, ok := sums[key]
		if !ok {
			p = &domain.Position{AssetID: tx.AssetID, AssetName: tx.AssetName}
			sums[key] = p
		}
		p.NetQuantity += sign * tx.Quantity
		p.NetCostAmount += sign * tx.Amount
	}

	positions := make([]domain.Position, 0, len(sums))
	for _, p := range sums {
		if p.NetQuantity <= 0 {
			continue
		}
		p.AverageCostPrice = p.NetCostAmount / p.NetQuantity
		positions = append(positions, *p)
	}

	SortPositions(positions)
	return positions
}

// SortPositions orders positions by asset name, then asset id
func SortPositions(positions []domain.Position) {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].AssetName != positions[j].AssetName {
			return positions[i].AssetName < positions[j].AssetName
		}
		return positions[i].AssetID < positions[j].AssetID
	})
}
