// Package di provides dependency injection wiring and initialization.
package di

import (
	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/events"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/transactions"
	"github.com/aristath/folio/internal/modules/valuation"
	"github.com/aristath/folio/internal/scheduler"
	"github.com/aristath/folio/internal/services"
	"github.com/rs/zerolog"
)

// Container holds all dependencies for the application.
// It is created by Wire() and passed to the server and CLI.
type Container struct {
	Config *config.Config
	Log    zerolog.Logger

	// Inputs
	Source  transactions.Source // transaction export or ledger
	Tickers *portfolio.TickerMap

	// Clients - market data
	PriceFeed domain.PriceFeed
	RateFeed  domain.RateFeed

	// Services
	FXService    *services.FXService
	Engine       *valuation.Engine
	CycleService *services.CycleService

	// Presentation support
	EventBus     *events.Bus
	EventManager *events.Manager
	Snapshot     *scheduler.Snapshot
	RefreshJob   *scheduler.RefreshJob
}

// Close releases the transaction source
func (c *Container) Close() error {
	if c.Source == nil {
		return nil
	}
	return c.Source.Close()
}
