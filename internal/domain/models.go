// Package domain holds the types shared by the folio pipeline: transactions,
// positions, valuations and the dividend matrix. It has no infrastructure dependencies.
package domain

import "time"

// TransactionType classifies an exported event
type TransactionType string

const (
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
	TransactionDividend TransactionType = "dividend"
	TransactionOther    TransactionType = "other"
)

// Export labels used by the broker export for the types we act on.
const (
	LabelBuyTrade     = "Buy Trade"
	LabelSellTrade    = "Sell Trade"
	LabelCashDividend = "Cash Dividend"
)

// ParseTransactionType maps an export label to a TransactionType.
// Labels outside the known set are Other; they are loaded but never aggregated.
func ParseTransactionType(label string) TransactionType {
	switch label {
	case LabelBuyTrade:
		return TransactionBuy
	case LabelSellTrade:
		return TransactionSell
	case LabelCashDividend:
		return TransactionDividend
	default:
		return TransactionOther
	}
}

// Transaction is one exported event. Immutable once loaded.
type Transaction struct {
	Timestamp  time.Time       `json:"timestamp" msgpack:"timestamp"`
	Type       TransactionType `json:"type" msgpack:"type"`
	RawType    string          `json:"raw_type" msgpack:"raw_type"`
	AssetID    string          `json:"asset_id" msgpack:"asset_id"`
	AssetName  string          `json:"asset_name" msgpack:"asset_name"`
	Quantity   float64         `json:"quantity" msgpack:"quantity"`
	Amount     float64         `json:"amount" msgpack:"amount"`           // trade amount, transaction currency
	CashAmount float64         `json:"cash_amount" msgpack:"cash_amount"` // transaction amount, used for dividends
}

// Position is the net holding of one asset derived from all buys and sells
type Position struct {
	AssetID          string  `json:"asset_id" msgpack:"asset_id"`
	AssetName        string  `json:"asset_name" msgpack:"asset_name"`
	NetQuantity      float64 `json:"net_quantity" msgpack:"net_quantity"`
	NetCostAmount    float64 `json:"net_cost_amount" msgpack:"net_cost_amount"`
	AverageCostPrice float64 `json:"average_cost_price" msgpack:"average_cost_price"`
}

// ResolvedPosition pairs a position with its market-data symbol
type ResolvedPosition struct {
	Position
	Ticker string `json:"ticker" msgpack:"ticker"`
}

// ValuedPosition is a resolved position priced in the home currency
type ValuedPosition struct {
	ResolvedPosition
	CurrentPrice      float64       `json:"current_price" msgpack:"current_price"`
	MarketValue       float64       `json:"market_value" msgpack:"market_value"`
	UnrealizedGain    float64       `json:"unrealized_gain" msgpack:"unrealized_gain"`
	UnrealizedGainPct float64       `json:"unrealized_gain_pct" msgpack:"unrealized_gain_pct"`
	PriceFailure      LookupFailure `json:"price_failure,omitempty" msgpack:"price_failure,omitempty"`
}

// Valuation is the output of the valuation engine for one cycle
type Valuation struct {
	Positions        []ValuedPosition `json:"positions" msgpack:"positions"`
	TotalMarketValue float64          `json:"total_market_value" msgpack:"total_market_value"`
	TotalGain        float64          `json:"total_gain" msgpack:"total_gain"`
}

// DividendMatrix is a dense asset-by-year table of dividend cash received.
// Cells[i][j] belongs to Assets[i] and Years[j]. The totals are kept apart from
// the cells so the synthetic row and column never collide with a real asset name.
type DividendMatrix struct {
	Assets      []string    `json:"assets" msgpack:"assets"`
	Years       []int       `json:"years" msgpack:"years"`
	Cells       [][]float64 `json:"cells" msgpack:"cells"`
	YearTotals  []float64   `json:"year_totals" msgpack:"year_totals"`   // synthetic "Total" row
	AssetTotals []float64   `json:"asset_totals" msgpack:"asset_totals"` // synthetic "Total per asset" column
	GrandTotal  float64     `json:"grand_total" msgpack:"grand_total"`
}

// Labels for the synthetic total row and column.
const (
	TotalRowLabel    = "Total"
	TotalColumnLabel = "Total per asset"
)

// Cell returns the amount for an asset and year, or 0 when either is absent
func (m *DividendMatrix) Cell(asset string, year int) float64 {
	for i, a := range m.Assets {
		if a != asset {
			continue
		}
		for j, y := range m.Years {
			if y == year {
				return m.Cells[i][j]
			}
		}
	}
	return 0
}

// Row returns the asset's cells followed by its row total, as displayed.
// The TotalRowLabel returns the column sums followed by the grand total.
func (m *DividendMatrix) Row(asset string) ([]float64, bool) {
	if asset == TotalRowLabel {
		return append(append([]float64{}, m.YearTotals...), m.GrandTotal), true
	}
	for i, a := range m.Assets {
		if a == asset {
			return append(append([]float64{}, m.Cells[i]...), m.AssetTotals[i]), true
		}
	}
	return nil, false
}

// IsEmpty reports whether the matrix holds no dividend events
func (m *DividendMatrix) IsEmpty() bool {
	return len(m.Assets) == 0
}

// CycleResult is everything the presentation layer receives from one refresh cycle
type CycleResult struct {
	ID               string           `json:"id" msgpack:"id"`
	ComputedAt       time.Time        `json:"computed_at" msgpack:"computed_at"`
	HomeCurrency     string           `json:"home_currency" msgpack:"home_currency"`
	FXRate           float64          `json:"fx_rate" msgpack:"fx_rate"`
	FXFallback       bool             `json:"fx_fallback" msgpack:"fx_fallback"`
	ValuedPositions  []ValuedPosition `json:"valued_positions" msgpack:"valued_positions"`
	TotalMarketValue float64          `json:"total_market_value" msgpack:"total_market_value"`
	TotalGain        float64          `json:"total_gain" msgpack:"total_gain"`
	TotalGainPct     float64          `json:"total_gain_pct" msgpack:"total_gain_pct"`
	DividendMatrix   DividendMatrix   `json:"dividend_matrix" msgpack:"dividend_matrix"`
	Unmapped         []Position       `json:"unmapped" msgpack:"unmapped"`
}
