package di

import (
	"time"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/events"
	"github.com/aristath/folio/internal/modules/valuation"
	"github.com/aristath/folio/internal/scheduler"
	"github.com/aristath/folio/internal/services"
	"github.com/rs/zerolog"
)

// cycleTimeout bounds one refresh cycle run by the refresh job
const cycleTimeout = 5 * time.Minute

// InitializeServices builds the pipeline on top of the source, ticker map and
// market data clients already in the container.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.FXService = services.NewFXService(
		container.RateFeed,
		cfg.ForeignCurrency,
		cfg.HomeCurrency,
		cfg.FallbackFXRate,
		log,
	)

	container.Engine = valuation.NewEngine(
		container.PriceFeed,
		container.Tickers,
		valuation.Config{
			Concurrency:   cfg.Concurrency,
			LookupTimeout: cfg.LookupTimeout,
		},
		log,
	)

	container.CycleService = services.NewCycleService(
		container.Source,
		container.Tickers,
		container.Engine,
		container.FXService,
		cfg.HomeCurrency,
		log,
	)

	container.EventBus = events.NewBus()
	container.EventManager = events.NewManager(container.EventBus, log)
	container.Snapshot = scheduler.NewSnapshot()
	container.RefreshJob = scheduler.NewRefreshJob(
		container.CycleService,
		container.Snapshot,
		container.EventManager,
		cycleTimeout,
		log,
	)

	log.Info().
		Int("concurrency", cfg.Concurrency).
		Dur("lookup_timeout", cfg.LookupTimeout).
		Msg("Services initialized")
	return nil
}
