package handlers

import (
	"context"
	"net/http"

	"github.com/hedgie-app/hedgie/internal/monitoring"
	"github.com/hedgie-app/hedgie/internal/services"
)

type InvestmentExecutor interface {
	ExecuteInvestment(ctx context.Context, userID, trackerID int64, amountCLP float64) (*services.InvestmentResult, error)
}

type InvestHandler struct {
	investments InvestmentExecutor
	metrics     *monitoring.Metrics
}

func NewInvestHandler(investments InvestmentExecutor, metrics *monitoring.Metrics) *InvestHandler {
	return &InvestHandler{investments: investments, metrics: metrics}
}

type InvestRequest struct {
	UserID    int64   `json:"user_id" validate:"required,gt=0"`
	TrackerID int64   `json:"tracker_id" validate:"required,gt=0"`
	AmountCLP float64 `json:"amount_clp" validate:"required,gt=0"`
}

// Invest executes an investment and echoes the resulting state.
func (h *InvestHandler) Invest(w http.ResponseWriter, r *http.Request) {
	var req InvestRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}

	result, err := h.investments.ExecuteInvestment(r.Context(), req.UserID, req.TrackerID, req.AmountCLP)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordInvestment("failure", req.AmountCLP)
		}
		respondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordInvestment("success", req.AmountCLP)
	}
	respondJSON(w, http.StatusOK, result)
}
