// Package handlers provides HTTP handlers for the dividend summary.
package handlers

import (
	"net/http"
	"strings"

	"github.com/aristath/folio/internal/domain"
	"github.com/aristath/folio/internal/modules/display"
	"github.com/aristath/folio/internal/server/respond"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SnapshotReader exposes the latest completed cycle
type SnapshotReader interface {
	Latest() *domain.CycleResult
}

// Handler handles dividend HTTP requests
type Handler struct {
	snapshot SnapshotReader
	log      zerolog.Logger
}

// NewHandler creates a new dividend handler
func NewHandler(snapshot SnapshotReader, log zerolog.Logger) *Handler {
	return &Handler{
		snapshot: snapshot,
		log:      log.With().Str("handler", "dividends").Logger(),
	}
}

// MatrixRow is one displayed row: per-year cells followed by the row total
type MatrixRow struct {
	Label string    `json:"label" msgpack:"label"`
	Cells []float64 `json:"cells" msgpack:"cells"`
	Total float64   `json:"total" msgpack:"total"`
}

// MatrixResponse is the dividend table as displayed, total row last
type MatrixResponse struct {
	Currency    string      `json:"currency" msgpack:"currency"`
	Years       []int       `json:"years" msgpack:"years"`
	TotalColumn string      `json:"total_column" msgpack:"total_column"`
	Rows        []MatrixRow `json:"rows" msgpack:"rows"`
	GrandTotal  float64     `json:"grand_total" msgpack:"grand_total"`
}

// NewMatrixResponse flattens a matrix into display rows
func NewMatrixResponse(m domain.DividendMatrix, currency string) MatrixResponse {
	rows := make([]MatrixRow, 0, len(m.Assets)+1)
	for i, asset := range m.Assets {
		rows = append(rows, MatrixRow{Label: asset, Cells: m.Cells[i], Total: m.AssetTotals[i]})
	}
	yearTotals := m.YearTotals
	if yearTotals == nil {
		yearTotals = []float64{}
	}
	rows = append(rows, MatrixRow{Label: domain.TotalRowLabel, Cells: yearTotals, Total: m.GrandTotal})

	years := m.Years
	if years == nil {
		years = []int{}
	}
	return MatrixResponse{
		Currency:    currency,
		Years:       years,
		TotalColumn: domain.TotalColumnLabel,
		Rows:        rows,
		GrandTotal:  m.GrandTotal,
	}
}

// HandleGetDividends returns the dividend matrix of the latest cycle.
// ?format=md returns the markdown table instead.
func (h *Handler) HandleGetDividends(w http.ResponseWriter, r *http.Request) {
	result := h.latest(w, r)
	if result == nil {
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "md") {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(display.DividendsMarkdown(&result.DividendMatrix, result.HomeCurrency)))
		return
	}
	respond.Write(w, r, http.StatusOK, NewMatrixResponse(result.DividendMatrix, result.HomeCurrency), h.log)
}

// HandleGetAsset returns one asset's row
func (h *Handler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	result := h.latest(w, r)
	if result == nil {
		return
	}

	asset := chi.URLParam(r, "asset")
	cells, ok := result.DividendMatrix.Row(asset)
	if !ok {
		respond.Error(w, r, http.StatusNotFound, "no dividends for "+asset, h.log)
		return
	}
	respond.Write(w, r, http.StatusOK, MatrixRow{
		Label: asset,
		Cells: cells[:len(cells)-1],
		Total: cells[len(cells)-1],
	}, h.log)
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
