package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hedgie-app/hedgie/internal/database"
	apperrors "github.com/hedgie-app/hedgie/internal/errors"
	"github.com/hedgie-app/hedgie/internal/models"
)

// maxTransactionLimit caps how many records a single request may ask for.
const maxTransactionLimit = 500

type TransactionReader interface {
	GetUserTransactions(ctx context.Context, userID int64, limit int) ([]models.TransactionRecord, error)
}

type TransactionHandler struct {
	transactions TransactionReader
}

func NewTransactionHandler(transactions TransactionReader) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// GetTransactions returns the user's transaction history, most recent
// first. An optional ?limit=N query parameter truncates the result.
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, appErr := pathID(r, "user_id")
	if appErr != nil {
		respondError(w, r, appErr)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, r, apperrors.NewValidationError("Invalid limit", nil))
			return
		}
		limit = database.SafeLimit(parsed, maxTransactionLimit)
	}

	records, err := h.transactions.GetUserTransactions(r.Context(), userID, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}
