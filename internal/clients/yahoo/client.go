// Package yahoo looks up latest closing prices and FX rates on Yahoo Finance.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// closesFunc returns the daily closes for a symbol, oldest first
type closesFunc func(symbol string) ([]float64, error)

// Client implements domain.PriceFeed and domain.RateFeed using go-yfinance
type Client struct {
	closes closesFunc
	log    zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		closes: fetchCloses,
		log:    log.With().Str("client", "yahoo").Logger(),
	}
}

func fetchCloses(symbol string) ([]float64, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     "1d",
		Interval:   "1d",
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	closes := make([]float64, 0, len(bars))
	for _, bar := range bars {
		closes = append(closes, bar.Close)
	}
	return closes, nil
}

var errNoData = errors.New("no price data returned")

// LatestClose returns the most recent daily close for a ticker
func (c *Client) LatestClose(ctx context.Context, symbol string) domain.Quote {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return domain.QuoteFailed(domain.FailureNoData, errors.New("empty ticker"))
	}

	type result struct {
		closes []float64
		err    error
	}
	done := make(chan result, 1)
	go func() {
		closes, err := c.closes(symbol)
		done <- result{closes: closes, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return domain.QuoteFailed(domain.FailureTransport, ctx.Err())
	case res = <-done:
	}

	if res.err != nil {
		return domain.QuoteFailed(domain.FailureTransport, res.err)
	}
	if len(res.closes) == 0 {
		return domain.QuoteFailed(domain.FailureNoData, errNoData)
	}

	last := res.closes[len(res.closes)-1]
	c.log.Debug().Str("symbol", symbol).Float64("close", last).Msg("Fetched close")
	return domain.QuoteOf(last)
}

// PairSymbol is the Yahoo FX symbol quoting from-currency units per to-currency unit
func PairSymbol(from, to string) string {
	return strings.ToUpper(to) + strings.ToUpper(from) + "=X"
}

// Rate returns to-currency units per from-currency unit. Yahoo quotes the pair
// the other way round (EURUSD=X is USD per EUR), so the close is inverted.
func (c *Client) Rate(ctx context.Context, from, to string) domain.Quote {
	if strings.EqualFold(from, to) {
		return domain.QuoteOf(1)
	}

	q := c.LatestClose(ctx, PairSymbol(from, to))
	if !q.OK() {
		return q
	}
	return domain.QuoteOf(1 / q.Value)
}
