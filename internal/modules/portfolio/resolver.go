package portfolio

import "github.com/aristath/folio/internal/domain"

// DustThreshold is the smallest net quantity worth valuing. Anything below it
// is rounding residue from partial sells.
const DustThreshold = 0.001

// Resolve pairs positions with their tickers. Positions without a mapping or
// below minQuantity are returned separately as unmapped; they are never an error.
func Resolve(positions []domain.Position, tickers *TickerMap, minQuantity float64) (resolved []domain.ResolvedPosition, unmapped []domain.Position) {
	resolved = make([]domain.ResolvedPosition, 0, len(positions))
	for _, p := range positions {
		ticker, ok := tickers.Lookup(p.AssetID)
		if !ok || p.NetQuantity < minQuantity {
			unmapped = append(unmapped, p)
			continue
		}
		resolved = append(resolved, domain.ResolvedPosition{Position: p, Ticker: ticker})
	}
	return resolved, unmapped
}
