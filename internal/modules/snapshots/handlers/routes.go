package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all snapshot routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/mt5/positions", h.HandleIngest)
	r.Get("/summary", h.HandleSummary)
	r.Get("/summary/stream", h.HandleSummaryStream)
}
