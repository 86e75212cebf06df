package di

import (
	"fmt"

	"github.com/aristath/folio/internal/clients/exchangerate"
	"github.com/aristath/folio/internal/clients/yahoo"
	"github.com/aristath/folio/internal/config"
	"github.com/rs/zerolog"
)

// InitializeClients creates the market data clients. Prices always come from
// Yahoo Finance; the FX feed follows cfg.FXProvider.
func InitializeClients(container *Container, cfg *config.Config, log zerolog.Logger) error {
	yahooClient := yahoo.NewClient(log)
	container.PriceFeed = yahooClient

	switch cfg.FXProvider {
	case "", config.FXProviderYahoo:
		container.RateFeed = yahooClient
	case config.FXProviderExchangeRate:
		container.RateFeed = exchangerate.NewClient("", log)
	default:
		return fmt.Errorf("unknown FX provider %q", cfg.FXProvider)
	}

	log.Info().
		Str("fx_provider", cfg.FXProvider).
		Msg("Market data clients initialized")
	return nil
}
