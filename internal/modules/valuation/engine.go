// Package valuation prices resolved positions in the home currency.
package valuation

import (
	"context"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// CurrencyTagger reports which tickers quote in the foreign currency
type CurrencyTagger interface {
	IsForeign(ticker string) bool
}

// Config controls how lookups are issued
type Config struct {
	// Concurrency is the number of price lookups in flight. 1 or less is sequential.
	Concurrency int
	// LookupTimeout bounds a single price lookup. Zero means no per-lookup bound.
	LookupTimeout time.Duration
}

// Engine values positions against a price feed
type Engine struct {
	prices   domain.PriceFeed
	currency CurrencyTagger
	cfg      Config
	log      zerolog.Logger
}

// NewEngine creates a new valuation engine
func NewEngine(prices domain.PriceFeed, currency CurrencyTagger, cfg Config, log zerolog.Logger) *Engine {
	return &Engine{
		prices:   prices,
		currency: currency,
		cfg:      cfg,
		log:      log.With().Str("component", "valuation").Logger(),
	}
}

// Value prices every position once. fxRate converts foreign quotes into the
// home currency. A failed lookup values that position at price 0 and never
// affects the others. Output order matches the input order.
func (e *Engine) Value(ctx context.Context, positions []domain.ResolvedPosition, fxRate float64) domain.Valuation {
	valued := make([]domain.ValuedPosition, len(positions))

	if e.cfg.Concurrency <= 1 {
		for i, p := range positions {
			valued[i] = e.valueOne(ctx, p, fxRate)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.cfg.Concurrency)
		for i, p := range positions {
			g.Go(func() error {
				valued[i] = e.valueOne(ctx, p, fxRate)
				return nil
			})
		}
		_ = g.Wait()
	}

	values := make([]float64, len(valued))
	gains := make([]float64, len(valued))
	for i, v := range valued {
		values[i] = v.MarketValue
		gains[i] = v.UnrealizedGain
	}

	return domain.Valuation{
		Positions:        valued,
		TotalMarketValue: floats.Sum(values),
		TotalGain:        floats.Sum(gains),
	}
}

func (e *Engine) valueOne(ctx context.Context, p domain.ResolvedPosition, fxRate float64) domain.ValuedPosition {
	lookupCtx := ctx
	if e.cfg.LookupTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, e.cfg.LookupTimeout)
		defer cancel()
	}

	quote := e.prices.LatestClose(lookupCtx, p.Ticker).Checked()

	var price float64
	if quote.OK() {
		price = quote.Value
		if e.currency != nil && e.currency.IsForeign(p.Ticker) {
			price *= fxRate
		}
	} else {
		e.log.Warn().
			Err(quote.Err).
			Str("ticker", p.Ticker).
			Str("reason", string(quote.Reason)).
			Msg("Price lookup failed, valuing position at 0")
	}

	return Price(p, price, quote.Reason)
}

// Price computes the valued fields for a position at a home-currency price
func Price(p domain.ResolvedPosition, price float64, failure domain.LookupFailure) domain.ValuedPosition {
	v := domain.ValuedPosition{
		ResolvedPosition: p,
		CurrentPrice:     price,
		MarketValue:      price * p.NetQuantity,
		UnrealizedGain:   (price - p.AverageCostPrice) * p.NetQuantity,
		PriceFailure:     failure,
	}
	if p.AverageCostPrice > 0 {
		v.UnrealizedGainPct = (price - p.AverageCostPrice) / p.AverageCostPrice * 100
	}
	return v
}

// TotalGainPct is the gain relative to what the open positions cost,
// or 0 when nothing is held.
func TotalGainPct(v domain.Valuation) float64 {
	if v.TotalMarketValue <= 0 {
		return 0
	}
	cost := v.TotalMarketValue - v.TotalGain
	if cost == 0 {
		return 0
	}
	return v.TotalGain / cost * 100
}
