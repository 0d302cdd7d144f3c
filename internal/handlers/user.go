package handlers

import (
	"context"
	"net/http"

	"github.com/hedgie-app/hedgie/internal/models"
	"github.com/hedgie-app/hedgie/internal/services"
)

type BalanceLedger interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	Deposit(ctx context.Context, userID int64, amountCLP float64) (*services.BalanceResult, error)
	Withdraw(ctx context.Context, userID int64, amountCLP float64) (*services.BalanceResult, error)
}

type UserHandler struct {
	users BalanceLedger
}

func NewUserHandler(users BalanceLedger) *UserHandler {
	return &UserHandler{users: users}
}

type AmountRequest struct {
	AmountCLP float64 `json:"amount_clp" validate:"required"`
}

// Deposit adds funds to the user's balance.
func (h *UserHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, appErr := pathID(r, "id")
	if appErr != nil {
		respondError(w, r, appErr)
		return
	}

	var req AmountRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}

	result, err := h.users.Deposit(r.Context(), userID, req.AmountCLP)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Withdraw removes funds from the user's balance.
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, appErr := pathID(r, "id")
	if appErr != nil {
		respondError(w, r, appErr)
		return
	}

	var req AmountRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}

	result, err := h.users.Withdraw(r.Context(), userID, req.AmountCLP)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetBalance returns the user's current balance.
func (h *UserHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, appErr := pathID(r, "id")
	if appErr != nil {
		respondError(w, r, appErr)
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, services.BalanceResult{
		UserID:     user.ID,
		Name:       user.Name,
		BalanceCLP: user.BalanceCLP,
		Message:    "Balance retrieved successfully",
	})
}
