package services

import (
	"context"

	"github.com/aristath/folio/internal/domain"
	"github.com/rs/zerolog"
)

// FXRate is the conversion rate used for one cycle
type FXRate struct {
	Rate     float64
	Fallback bool
	Reason   domain.LookupFailure
}

// FXService fetches the foreign-to-home conversion rate once per cycle.
// When the provider fails the configured fallback rate is used instead.
type FXService struct {
	feed     domain.RateFeed
	foreign  string
	home     string
	fallback float64
	log      zerolog.Logger
}

// NewFXService creates a new FX service
func NewFXService(feed domain.RateFeed, foreign, home string, fallback float64, log zerolog.Logger) *FXService {
	return &FXService{
		feed:     feed,
		foreign:  foreign,
		home:     home,
		fallback: fallback,
		log:      log.With().Str("service", "fx").Logger(),
	}
}

// Rate returns home-currency units per foreign-currency unit. Never fails.
func (s *FXService) Rate(ctx context.Context) FXRate {
	q := s.feed.Rate(ctx, s.foreign, s.home).Checked()
	if q.OK() {
		s.log.Debug().
			Str("from", s.foreign).
			Str("to", s.home).
			Float64("rate", q.Value).
			Msg("Got FX rate")
		return FXRate{Rate: q.Value}
	}

	s.log.Warn().
		Err(q.Err).
		Str("from", s.foreign).
		Str("to", s.home).
		Str("reason", string(q.Reason)).
		Float64("fallback", s.fallback).
		Msg("FX lookup failed, using fallback rate")
	return FXRate{Rate: s.fallback, Fallback: true, Reason: q.Reason}
}
