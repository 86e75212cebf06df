package di

import (
	"context"
	"fmt"

	"github.com/aristath/folio/internal/config"
	"github.com/aristath/folio/internal/modules/portfolio"
	"github.com/aristath/folio/internal/modules/transactions"
	"github.com/rs/zerolog"
)

// Wire initializes all dependencies and returns a fully configured container.
// Order of operations:
// 1. Open the transaction source and load the ticker mapping
// 2. Initialize market data clients
// 3. Initialize services
func Wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Log:    log,
	}

	// Step 1: Inputs
	if err := InitializeInputs(ctx, container, cfg, log); err != nil {
		return nil, fmt.Errorf("failed to initialize inputs: %w", err)
	}

	// Step 2: Clients
	if err := InitializeClients(container, cfg, log); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize clients: %w", err)
	}

	// Step 3: Services
	if err := InitializeServices(container, cfg, log); err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	log.Info().Msg("Dependency injection wiring completed successfully")

	return container, nil
}

// InitializeInputs opens the transaction source and loads the ticker mapping.
// A missing export file is not an error here; it surfaces on each cycle.
func InitializeInputs(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	tickers, err := portfolio.LoadTickerMap(cfg.TickersFile)
	if err != nil {
		return err
	}
	container.Tickers = tickers

	source, err := transactions.Open(ctx, cfg.Transactions, transactions.Options{
		Location: cfg.Location,
		S3: transactions.S3Options{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		},
	}, log)
	if err != nil {
		return fmt.Errorf("failed to open transaction source: %w", err)
	}
	container.Source = source

	log.Info().
		Str("source", source.Name()).
		Int("tickers", len(tickers.Tickers)).
		Msg("Inputs initialized")
	return nil
}
