package handlers

import (
	"net/http"

	"github.com/AnshRaj112/saferplace/internal/models"
)

type QuoteResponse struct {
	Success bool         `json:"success"`
	Quote   models.Quote `json:"quote"`
}

// GetQuote handles GET /api/quote; ?refresh=true skips the cache.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	get := h.Quotes.Today
	if r.URL.Query().Get("refresh") == "true" {
		get = h.Quotes.Refresh
	}

	q, err := get(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, QuoteResponse{Success: true, Quote: q})
}
