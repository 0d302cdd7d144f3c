package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/hedgie-app/hedgie/internal/database"
	apperrors "github.com/hedgie-app/hedgie/internal/errors"
	"github.com/hedgie-app/hedgie/internal/models"
)

// UserService manages accounts and the cash balance ledger.
type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// BalanceResult echoes the user's state after a balance operation.
type BalanceResult struct {
	UserID     int64   `json:"user_id"`
	Name       string  `json:"name"`
	BalanceCLP float64 `json:"balance_clp"`
	Message    string  `json:"message"`
}

// GetUser looks up a user by ID. Used by dev-login and balance queries.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(email, ''), balance_clp, created_at FROM users WHERE id = $1`, userID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.BalanceCLP, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewUserNotFoundError(userID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get user", err)
	}
	return &u, nil
}

// uniqueViolation is the Postgres error code for a duplicate key.
const uniqueViolation = "23505"

// Register creates a new account with a zero starting balance.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to hash password", err)
	}

	u := models.User{Name: name, Email: email}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, hashed_password, balance_clp) VALUES ($1, $2, $3, 0)
		 RETURNING id, balance_clp, created_at`,
		name, email, string(hash),
	).Scan(&u.ID, &u.BalanceCLP, &u.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return nil, apperrors.NewValidationError("Email already registered", nil)
		}
		return nil, apperrors.NewDatabaseError("create user", err)
	}

	return &u, nil
}

// Deposit adds funds to the user's balance.
func (s *UserService) Deposit(ctx context.Context, userID int64, amountCLP float64) (*BalanceResult, error) {
	if amountCLP <= 0 {
		return nil, apperrors.NewInvalidAmountError("Deposit amount must be positive")
	}

	var result BalanceResult
	err := s.db.QueryRowContext(ctx,
		`UPDATE users SET balance_clp = balance_clp + $1 WHERE id = $2 RETURNING id, name, balance_clp`,
		amountCLP, userID,
	).Scan(&result.UserID, &result.Name, &result.BalanceCLP)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewUserNotFoundError(userID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("deposit", err)
	}

	result.Message = fmt.Sprintf("Successfully deposited %s CLP", formatCLP(amountCLP))
	return &result, nil
}

// Withdraw removes funds from the user's balance. The balance check and
// debit run in one transaction with the user row locked.
func (s *UserService) Withdraw(ctx context.Context, userID int64, amountCLP float64) (*BalanceResult, error) {
	if amountCLP <= 0 {
		return nil, apperrors.NewInvalidAmountError("Withdrawal amount must be positive")
	}

	var result BalanceResult
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		var name string
		var balance float64
		err := tx.QueryRowContext(ctx,
			`SELECT name, balance_clp FROM users WHERE id = $1 FOR UPDATE`, userID,
		).Scan(&name, &balance)
		if err == sql.ErrNoRows {
			return apperrors.NewUserNotFoundError(userID)
		}
		if err != nil {
			return apperrors.NewDatabaseError("lock user", err)
		}

		if balance < amountCLP {
			return apperrors.NewError(
				apperrors.ErrorTypeInsufficientFunds,
				fmt.Sprintf("Insufficient balance. Available: %s CLP, Requested: %s CLP",
					formatCLP(balance), formatCLP(amountCLP)),
				nil,
			)
		}

		err = tx.QueryRowContext(ctx,
			`UPDATE users SET balance_clp = balance_clp - $1 WHERE id = $2 RETURNING id, name, balance_clp`,
			amountCLP, userID,
		).Scan(&result.UserID, &result.Name, &result.BalanceCLP)
		if err != nil {
			return apperrors.NewDatabaseError("withdraw", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Message = fmt.Sprintf("Successfully withdrew %s CLP", formatCLP(amountCLP))
	return &result, nil
}
