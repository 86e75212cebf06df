package valuation

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrices struct {
	mu     sync.Mutex
	quotes map[string]domain.Quote
	calls  map[string]int
	delay  time.Duration
	active int32
	peak   int32
}

func newStubPrices(quotes map[string]domain.Quote) *stubPrices {
	return &stubPrices{quotes: quotes, calls: map[string]int{}}
}

func (s *stubPrices) LatestClose(ctx context.Context, ticker string) domain.Quote {
	n := atomic.AddInt32(&s.active, 1)
	defer atomic.AddInt32(&s.active, -1)
	for {
		peak := atomic.LoadInt32(&s.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&s.peak, peak, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[ticker]++
	q, ok := s.quotes[ticker]
	if !ok {
		return domain.QuoteFailed(domain.FailureNoData, errors.New("no data"))
	}
	return q
}

type foreignSet map[string]bool

func (f foreignSet) IsForeign(ticker string) bool { return f[ticker] }

func resolved(ticker string, qty, avg float64) domain.ResolvedPosition {
	return domain.ResolvedPosition{
		Position: domain.Position{
			AssetID:          ticker + "-id",
			AssetName:        ticker,
			NetQuantity:      qty,
			NetCostAmount:    qty * avg,
			AverageCostPrice: avg,
		},
		Ticker: ticker,
	}
}

func TestEngine_Value(t *testing.T) {
	prices := newStubPrices(map[string]domain.Quote{
		"ASML.AS": domain.QuoteOf(700),
		"AAPL":    domain.QuoteOf(200),
	})
	engine := NewEngine(prices, foreignSet{"AAPL": true}, Config{}, zerolog.Nop())

	v := engine.Value(context.Background(), []domain.ResolvedPosition{
		resolved("ASML.AS", 2, 600),
		resolved("AAPL", 10, 150),
	}, 0.9)

	require.Len(t, v.Positions, 2)

	asml := v.Positions[0]
	assert.Equal(t, 700.0, asml.CurrentPrice)
	assert.Equal(t, 1400.0, asml.MarketValue)
	assert.Equal(t, 200.0, asml.UnrealizedGain)
	assert.InDelta(t, 16.667, asml.UnrealizedGainPct, 0.001)

	aapl := v.Positions[1]
	assert.InDelta(t, 180.0, aapl.CurrentPrice, 1e-9)
	assert.InDelta(t, 1800.0, aapl.MarketValue, 1e-9)
	assert.InDelta(t, 300.0, aapl.UnrealizedGain, 1e-9)
	assert.InDelta(t, 20.0, aapl.UnrealizedGainPct, 1e-9)

	assert.InDelta(t, 3200.0, v.TotalMarketValue, 1e-9)
	assert.InDelta(t, 500.0, v.TotalGain, 1e-9)
}

func TestEngine_SingleFailureIsIsolated(t *testing.T) {
	prices := newStubPrices(map[string]domain.Quote{
		"A": domain.QuoteOf(10),
		"C": domain.QuoteOf(30),
	})
	engine := NewEngine(prices, nil, Config{}, zerolog.Nop())

	v := engine.Value(context.Background(), []domain.ResolvedPosition{
		resolved("A", 1, 5),
		resolved("B", 4, 25),
		resolved("C", 2, 20),
	}, 1)

	require.Len(t, v.Positions, 3)
	failed := v.Positions[1]
	assert.Equal(t, 0.0, failed.MarketValue)
	assert.Equal(t, -25.0*4, failed.UnrealizedGain)
	assert.Equal(t, domain.FailureNoData, failed.PriceFailure)
	assert.Equal(t, -100.0, failed.UnrealizedGainPct)

	assert.Equal(t, 10.0, v.Positions[0].MarketValue)
	assert.Equal(t, 60.0, v.Positions[2].MarketValue)
	assert.Equal(t, domain.FailureNone, v.Positions[0].PriceFailure)
	assert.Equal(t, 70.0, v.TotalMarketValue)
}

func TestEngine_InvalidQuoteValuedAtZero(t *testing.T) {
	prices := newStubPrices(map[string]domain.Quote{"A": domain.QuoteOf(-3)})
	engine := NewEngine(prices, nil, Config{}, zerolog.Nop())

	v := engine.Value(context.Background(), []domain.ResolvedPosition{resolved("A", 2, 10)}, 1)
	assert.Equal(t, 0.0, v.Positions[0].CurrentPrice)
	assert.Equal(t, domain.FailureInvalidValue, v.Positions[0].PriceFailure)
}

func TestEngine_NonFiniteQuoteValuedAtZero(t *testing.T) {
	tests := []struct {
		name  string
		quote domain.Quote
	}{
		{"NaN via QuoteOf", domain.QuoteOf(math.NaN())},
		{"+Inf via QuoteOf", domain.QuoteOf(math.Inf(1))},
		{"NaN built by hand", domain.Quote{Value: math.NaN()}},
		{"+Inf built by hand", domain.Quote{Value: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := newStubPrices(map[string]domain.Quote{
				"A": domain.QuoteOf(10),
				"B": tt.quote,
			})
			engine := NewEngine(prices, foreignSet{"B": true}, Config{}, zerolog.Nop())

			v := engine.Value(context.Background(), []domain.ResolvedPosition{
				resolved("A", 3, 5),
				resolved("B", 2, 10),
			}, 0.9)

			require.Len(t, v.Positions, 2)
			bad := v.Positions[1]
			assert.Equal(t, 0.0, bad.CurrentPrice)
			assert.Equal(t, 0.0, bad.MarketValue)
			assert.Equal(t, -20.0, bad.UnrealizedGain)
			assert.Equal(t, domain.FailureInvalidValue, bad.PriceFailure)

			assert.Equal(t, 30.0, v.Positions[0].MarketValue)
			assert.Equal(t, 30.0, v.TotalMarketValue)
			assert.Equal(t, -5.0, v.TotalGain)
			assert.False(t, math.IsNaN(TotalGainPct(v)))
		})
	}
}

func TestEngine_OneAttemptPerPosition(t *testing.T) {
	prices := newStubPrices(map[string]domain.Quote{})
	engine := NewEngine(prices, nil, Config{}, zerolog.Nop())

	engine.Value(context.Background(), []domain.ResolvedPosition{resolved("A", 1, 1), resolved("B", 1, 1)}, 1)
	assert.Equal(t, map[string]int{"A": 1, "B": 1}, prices.calls)
}

func TestEngine_ConcurrentKeepsOrder(t *testing.T) {
	quotes := map[string]domain.Quote{}
	var positions []domain.ResolvedPosition
	for _, ticker := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		quotes[ticker] = domain.QuoteOf(float64(len(positions) + 1))
		positions = append(positions, resolved(ticker, 1, 1))
	}
	prices := newStubPrices(quotes)
	prices.delay = 5 * time.Millisecond

	engine := NewEngine(prices, nil, Config{Concurrency: 3}, zerolog.Nop())
	v := engine.Value(context.Background(), positions, 1)

	require.Len(t, v.Positions, len(positions))
	for i, p := range v.Positions {
		assert.Equal(t, positions[i].Ticker, p.Ticker)
		assert.Equal(t, float64(i+1), p.CurrentPrice)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&prices.peak), int32(3))
	assert.Equal(t, 36.0, v.TotalMarketValue)
}

func TestEngine_Empty(t *testing.T) {
	engine := NewEngine(newStubPrices(nil), nil, Config{}, zerolog.Nop())

	v := engine.Value(context.Background(), nil, 1)
	assert.Empty(t, v.Positions)
	assert.Equal(t, 0.0, v.TotalMarketValue)
	assert.Equal(t, 0.0, v.TotalGain)
}

func TestPrice_ZeroCostBasis(t *testing.T) {
	v := Price(resolved("FREE", 3, 0), 12, domain.FailureNone)
	assert.Equal(t, 36.0, v.MarketValue)
	assert.Equal(t, 36.0, v.UnrealizedGain)
	assert.Equal(t, 0.0, v.UnrealizedGainPct)
}

func TestTotalGainPct(t *testing.T) {
	tests := []struct {
		name string
		v    domain.Valuation
		want float64
	}{
		{"gain", domain.Valuation{TotalMarketValue: 1100, TotalGain: 100}, 10},
		{"loss", domain.Valuation{TotalMarketValue: 900, TotalGain: -100}, -10},
		{"nothing held", domain.Valuation{}, 0},
		{"zero cost", domain.Valuation{TotalMarketValue: 50, TotalGain: 50}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TotalGainPct(tt.v), 1e-9)
		})
	}
}
