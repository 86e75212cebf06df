// Package handlers provides HTTP handlers for the portfolio valuation.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/display"
	"github.com/aristath/folio/internal/server/respond"
	"github.com/rs/zerolog"
)

// SnapshotReader exposes the latest completed cycle
type SnapshotReader interface {
	Latest() *domain.CycleResult
}

// Refresher runs a cycle on demand
type Refresher interface {
	Refresh(ctx context.Context) (*domain.CycleResult, error)
}

// Handler handles portfolio HTTP requests
type Handler struct {
	snapshot  SnapshotReader
	refresher Refresher
	log       zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(snapshot SnapshotReader, refresher Refresher, log zerolog.Logger) *Handler {
	return &Handler{
		snapshot:  snapshot,
		refresher: refresher,
		log:       log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleGetPortfolio returns the full latest cycle
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	result := h.latest(w, r)
	if result == nil {
		return
	}
	respond.Write(w, r, http.StatusOK, result, h.log)
}

// PositionsResponse lists valued and excluded positions
type PositionsResponse struct {
	CycleID      string                  `json:"cycle_id" msgpack:"cycle_id"`
	HomeCurrency string                  `json:"home_currency" msgpack:"home_currency"`
	Positions    []domain.ValuedPosition `json:"positions" msgpack:"positions"`
	Unmapped     []domain.Position       `json:"unmapped" msgpack:"unmapped"`
}

// HandleGetPositions returns the valued positions
func (h *Handler) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	result := h.latest(w, r)
	if result == nil {
		return
	}
	respond.Write(w, r, http.StatusOK, PositionsResponse{
		CycleID:      result.ID,
		HomeCurrency: result.HomeCurrency,
		Positions:    result.ValuedPositions,
		Unmapped:     result.Unmapped,
	}, h.log)
}

// SummaryResponse holds the headline figures of a cycle
type SummaryResponse struct {
	CycleID          string                    `json:"cycle_id" msgpack:"cycle_id"`
	ComputedAt       time.Time                 `json:"computed_at" msgpack:"computed_at"`
	HomeCurrency     string                    `json:"home_currency" msgpack:"home_currency"`
	TotalMarketValue float64                   `json:"total_market_value" msgpack:"total_market_value"`
	TotalGain        float64                   `json:"total_gain" msgpack:"total_gain"`
	TotalGainPct     float64                   `json:"total_gain_pct" msgpack:"total_gain_pct"`
	TotalDividends   float64                   `json:"total_dividends" msgpack:"total_dividends"`
	FXRate           float64                   `json:"fx_rate" msgpack:"fx_rate"`
	FXFallback       bool                      `json:"fx_fallback" msgpack:"fx_fallback"`
	Positions        int                       `json:"positions" msgpack:"positions"`
	PriceFailures    int                       `json:"price_failures" msgpack:"price_failures"`
	Allocation       []display.AllocationSlice `json:"allocation" msgpack:"allocation"`
	Formatted        map[string]string         `json:"formatted" msgpack:"formatted"`
}

// HandleGetSummary returns the headline figures
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	result := h.latest(w, r)
	if result == nil {
		return
	}
	respond.Write(w, r, http.StatusOK, Summarize(result), h.log)
}

// Summarize builds the summary view of a cycle
func Summarize(result *domain.CycleResult) SummaryResponse {
	failures := 0
	for _, p := range result.ValuedPositions {
		if p.PriceFailure != domain.FailureNone {
			failures++
		}
	}
	cur := result.HomeCurrency
	return SummaryResponse{
		CycleID:          result.ID,
		ComputedAt:       result.ComputedAt,
		HomeCurrency:     cur,
		TotalMarketValue: result.TotalMarketValue,
		TotalGain:        result.TotalGain,
		TotalGainPct:     result.TotalGainPct,
		TotalDividends:   result.DividendMatrix.GrandTotal,
		FXRate:           result.FXRate,
		FXFallback:       result.FXFallback,
		Positions:        len(result.ValuedPositions),
		PriceFailures:    failures,
		Allocation:       display.Allocation(result),
		Formatted: map[string]string{
			"total_market_value": display.Money(result.TotalMarketValue, cur),
			"total_gain":         display.Money(result.TotalGain, cur),
			"total_gain_pct":     display.Percent(result.TotalGainPct),
			"total_dividends":    display.Money(result.DividendMatrix.GrandTotal, cur),
		},
	}
}

// HandleRefresh runs a cycle now and returns its summary
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respond.Error(w, r, http.StatusServiceUnavailable, "refresh is not available", h.log)
		return
	}

	result, err := h.refresher.Refresh(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("Manual refresh failed")
		respond.CycleError(w, r, err, h.log)
		return
	}
	respond.Write(w, r, http.StatusOK, Summarize(result), h.log)
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) *domain.CycleResult {
	var result *domain.CycleResult
	if h.snapshot != nil {
		result = h.snapshot.Latest()
	}
	if result == nil {
		respond.NotReady(w, r, h.log)
	}
	return result
}
