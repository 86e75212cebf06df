package domain

import "context"

// TransactionLoader supplies the normalized transaction table for one cycle
type TransactionLoader interface {
	Load(ctx context.Context) ([]Transaction, error)
}

// PriceFeed returns the latest close for a ticker in the ticker's native currency.
// One attempt per call; failures are reported in the Quote, never retried.
type PriceFeed interface {
	LatestClose(ctx context.Context, ticker string) Quote
}

// RateFeed returns how many 'to' units one 'from' unit buys
type RateFeed interface {
	Rate(ctx context.Context, from, to string) Quote
}
