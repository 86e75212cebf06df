package display

import (
	"sort"

	"github.com/aristath/folio/internal/domain"
)

// AllocationSlice is one holding's share of the portfolio market value
type AllocationSlice struct {
	Ticker      string  `json:"ticker" msgpack:"ticker"`
	AssetName   string  `json:"asset_name" msgpack:"asset_name"`
	MarketValue float64 `json:"market_value" msgpack:"market_value"`
	Weight      float64 `json:"weight" msgpack:"weight"` // percent of total market value
}

// Allocation breaks the total market value down by holding, largest first.
// Positions valued at 0 are left out.
func Allocation(result *domain.CycleResult) []AllocationSlice {
	slices := make([]AllocationSlice, 0, len(result.ValuedPositions))
	if result.TotalMarketValue <= 0 {
		return slices
	}
	for _, p := range result.ValuedPositions {
		if p.MarketValue <= 0 {
			continue
		}
		slices = append(slices, AllocationSlice{
			Ticker:      p.Ticker,
			AssetName:   p.AssetName,
			MarketValue: p.MarketValue,
			Weight:      p.MarketValue / result.TotalMarketValue * 100,
		})
	}
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].MarketValue > slices[j].MarketValue
	})
	return slices
}
