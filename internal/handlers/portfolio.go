package handlers

import (
	"context"
	"net/http"

	"github.com/hedgie-app/hedgie/internal/models"
)

type PortfolioReader interface {
	GetUserPortfolio(ctx context.Context, userID int64) (*models.PortfolioSummary, error)
}

type PortfolioHandler struct {
	portfolios PortfolioReader
}

func NewPortfolioHandler(portfolios PortfolioReader) *PortfolioHandler {
	return &PortfolioHandler{portfolios: portfolios}
}

// GetPortfolio returns the user's portfolio summary.
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, appErr := pathID(r, "user_id")
	if appErr != nil {
		respondError(w, r, appErr)
		return
	}

	summary, err := h.portfolios.GetUserPortfolio(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
