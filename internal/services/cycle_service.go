package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/dividends"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/valuation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CycleService runs the full pipeline once per call.
//
// Load -> aggregate -> resolve -> FX -> value, and independently
// load -> summarize dividends. It keeps no state between calls and never
// writes to the transaction source, so calling it twice on unchanged
// inputs yields the same figures.
type CycleService struct {
	loader       domain.TransactionLoader
	tickers      *portfolio.TickerMap
	engine       *valuation.Engine
	fx           *FXService
	homeCurrency string
	minQuantity  float64
	now          func() time.Time
	log          zerolog.Logger
}

// NewCycleService creates a new cycle service
func NewCycleService(
	loader domain.TransactionLoader,
	tickers *portfolio.TickerMap,
	engine *valuation.Engine,
	fx *FXService,
	homeCurrency string,
	log zerolog.Logger,
) *CycleService {
	return &CycleService{
		loader:       loader,
		tickers:      tickers,
		engine:       engine,
		fx:           fx,
		homeCurrency: homeCurrency,
		minQuantity:  portfolio.DustThreshold,
		now:          time.Now,
		log:          log.With().Str("service", "cycle").Logger(),
	}
}

// RunCycle computes one complete portfolio snapshot.
// Only transaction source failures abort the cycle; market-data failures
// degrade to substitute values.
func (s *CycleService) RunCycle(ctx context.Context) (*domain.CycleResult, error) {
	started := s.now()

	txs, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	positions := portfolio.AggregatePositions(txs)
	resolved, unmapped := portfolio.Resolve(positions, s.tickers, s.minQuantity)
	for _, p := range unmapped {
		s.log.Debug().
			Str("asset_id", p.AssetID).
			Str("asset_name", p.AssetName).
			Float64("quantity", p.NetQuantity).
			Msg("Position excluded from valuation")
	}

	fx := s.fx.Rate(ctx)
	val := s.engine.Value(ctx, resolved, fx.Rate)

	if unmapped == nil {
		unmapped = []domain.Position{}
	}

	result := &domain.CycleResult{
		ID:               uuid.New().String(),
		ComputedAt:       s.now(),
		HomeCurrency:     s.homeCurrency,
		FXRate:           fx.Rate,
		FXFallback:       fx.Fallback,
		ValuedPositions:  val.Positions,
		TotalMarketValue: val.TotalMarketValue,
		TotalGain:        val.TotalGain,
		TotalGainPct:     valuation.TotalGainPct(val),
		DividendMatrix:   dividends.Summarize(txs),
		Unmapped:         unmapped,
	}

	s.log.Info().
		Str("cycle_id", result.ID).
		Int("transactions", len(txs)).
		Int("positions", len(result.ValuedPositions)).
		Int("unmapped", len(unmapped)).
		Float64("total_value", result.TotalMarketValue).
		Bool("fx_fallback", fx.Fallback).
		Dur("duration", s.now().Sub(started)).
		Msg("Cycle completed")

	return result, nil
}
