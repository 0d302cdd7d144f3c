package handlers

import (
	"context"
	"net/http"

	"github.com/hedgie-app/hedgie/internal/auth"
	"github.com/hedgie-app/hedgie/internal/models"
)

type AccountRegistry interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	Register(ctx context.Context, name, email, password string) (*models.User, error)
}

type AuthHandler struct {
	users AccountRegistry
	jwt   *auth.JWTManager
}

func NewAuthHandler(users AccountRegistry, jwt *auth.JWTManager) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type DevLoginRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type DevLoginResponse struct {
	UserID     int64   `json:"user_id"`
	Name       string  `json:"name"`
	BalanceCLP float64 `json:"balance_clp"`
	Token      string  `json:"token,omitempty"`
}

// DevLogin is the simplified MVP login: pick a user by ID. A session
// token is issued for the frontend, but no route enforces it yet.
func (h *AuthHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	var req DevLoginRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}

	user, err := h.users.GetUser(r.Context(), req.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := DevLoginResponse{
		UserID:     user.ID,
		Name:       user.Name,
		BalanceCLP: user.BalanceCLP,
	}
	if h.jwt != nil {
		if token, err := h.jwt.GenerateToken(user.ID, user.Name); err == nil {
			resp.Token = token
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a new account with a zero starting balance.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if appErr := decodeAndValidate(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}
