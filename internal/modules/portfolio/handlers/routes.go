package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/", h.HandleGetPortfolio)          // Latest complete cycle
		r.Get("/positions", h.HandleGetPositions) // Valued and unmapped positions
		r.Get("/summary", h.HandleGetSummary)     // Totals, FX and allocation
		r.Post("/refresh", h.HandleRefresh)       // Run a cycle now
	})
}
