package handler

import (
	"net/http"
	"strconv"

	"github.com/stellarhub/defihub/internal/module/portfolio"
)

// PortfolioHandler serves the portfolio overview and submission history.
type PortfolioHandler struct {
	portfolio *portfolio.Service
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(p *portfolio.Service) *PortfolioHandler {
	return &PortfolioHandler{portfolio: p}
}

// GetOverview handles GET /portfolio
func (h *PortfolioHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.portfolio.Overview(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, overview, http.StatusOK)
}

// GetHistory handles GET /portfolio/history?limit=
func (h *PortfolioHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.portfolio.History(r.Context(), limit)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, records, http.StatusOK)
}
