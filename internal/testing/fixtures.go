package testing

import (
	"time"

	"github.com/aristath/folio/internal/domain"
)

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}

// NewTransactionFixtures returns a small export history:
// ASML (EUR) with a partial sell, Apple (USD), a fully sold Tesla position,
// an unmapped holding and dividends over two years.
func NewTransactionFixtures() []domain.Transaction {
	return []domain.Transaction{
		{Timestamp: at(2023, 1, 5), Type: domain.TransactionBuy, RawType: domain.LabelBuyTrade, AssetID: "NL0010273215", AssetName: "ASML", Quantity: 10, Amount: 1000, CashAmount: -1000},
		{Timestamp: at(2023, 2, 5), Type: domain.TransactionSell, RawType: domain.LabelSellTrade, AssetID: "NL0010273215", AssetName: "ASML", Quantity: 3, Amount: 330, CashAmount: 330},
		{Timestamp: at(2023, 3, 1), Type: domain.TransactionBuy, RawType: domain.LabelBuyTrade, AssetID: "US0378331005", AssetName: "Apple", Quantity: 5, Amount: 750, CashAmount: -750},
		{Timestamp: at(2023, 4, 1), Type: domain.TransactionBuy, RawType: domain.LabelBuyTrade, AssetID: "US88160R1014", AssetName: "Tesla", Quantity: 2, Amount: 400, CashAmount: -400},
		{Timestamp: at(2023, 9, 1), Type: domain.TransactionSell, RawType: domain.LabelSellTrade, AssetID: "US88160R1014", AssetName: "Tesla", Quantity: 2, Amount: 500, CashAmount: 500},
		{Timestamp: at(2023, 5, 1), Type: domain.TransactionBuy, RawType: domain.LabelBuyTrade, AssetID: "XX0000000001", AssetName: "Unlisted", Quantity: 4, Amount: 40, CashAmount: -40},
		{Timestamp: at(2023, 6, 1), Type: domain.TransactionDividend, RawType: domain.LabelCashDividend, AssetID: "NL0010273215", AssetName: "ASML", CashAmount: 50},
		{Timestamp: at(2024, 6, 1), Type: domain.TransactionDividend, RawType: domain.LabelCashDividend, AssetID: "NL0010273215", AssetName: "ASML", CashAmount: 30},
		{Timestamp: at(2023, 8, 1), Type: domain.TransactionDividend, RawType: domain.LabelCashDividend, AssetID: "US0378331005", AssetName: "Apple", CashAmount: 20},
		{Timestamp: at(2023, 12, 1), Type: domain.TransactionOther, RawType: "Deposit", CashAmount: 5000},
	}
}

// FixtureTickers maps the fixture assets, leaving the unlisted holding unmapped
func FixtureTickers() map[string]string {
	return map[string]string{
		"NL0010273215": "ASML.AS",
		"US0378331005": "AAPL",
		"US88160R1014": "TSLA",
	}
}
