package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hedgie-app/hedgie/internal/broker"
	"github.com/hedgie-app/hedgie/internal/database"
	apperrors "github.com/hedgie-app/hedgie/internal/errors"
	"github.com/hedgie-app/hedgie/internal/models"
)

// InvestmentService executes investments into trackers. The debit,
// portfolio upsert and ledger append happen inside one database
// transaction; nothing is partially visible on failure.
type InvestmentService struct {
	db     *database.DB
	broker broker.Broker
}

func NewInvestmentService(db *database.DB, b broker.Broker) *InvestmentService {
	return &InvestmentService{db: db, broker: b}
}

// InvestmentResult is returned on a successful investment so the caller
// never needs a follow-up read to confirm the effect.
type InvestmentResult struct {
	Success          bool    `json:"success"`
	Message          string  `json:"message"`
	PortfolioItemID  int64   `json:"portfolio_item_id"`
	RemainingBalance float64 `json:"remaining_balance"`
}

const upsertPortfolioItem = `
	INSERT INTO portfolio_items (user_id, tracker_id, invested_amount_clp, current_value_clp)
	VALUES ($1, $2, $3, $3)
	ON CONFLICT (user_id, tracker_id) DO UPDATE SET
		invested_amount_clp = portfolio_items.invested_amount_clp + EXCLUDED.invested_amount_clp,
		current_value_clp = portfolio_items.current_value_clp + EXCLUDED.current_value_clp
	RETURNING id`

// ExecuteInvestment validates the request and, if valid, debits the
// user's balance, upserts the (user, tracker) portfolio item and appends
// a buy transaction, all atomically.
//
// Preconditions are checked in order and short-circuit on the first
// failure: user exists, tracker exists, amount is positive, buying
// power covers the amount.
func (s *InvestmentService) ExecuteInvestment(ctx context.Context, userID, trackerID int64, amountCLP float64) (*InvestmentResult, error) {
	var result InvestmentResult

	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		// Lock the user row so concurrent investments by the same user
		// serialize; the increment itself is done in SQL, never
		// read-modify-write in Go.
		var balance float64
		err := tx.QueryRowContext(ctx,
			`SELECT balance_clp FROM users WHERE id = $1 FOR UPDATE`, userID,
		).Scan(&balance)
		if err == sql.ErrNoRows {
			return apperrors.NewUserNotFoundError(userID)
		}
		if err != nil {
			return apperrors.NewDatabaseError("lock user", err)
		}

		var trackerName string
		err = tx.QueryRowContext(ctx,
			`SELECT name FROM trackers WHERE id = $1`, trackerID,
		).Scan(&trackerName)
		if err == sql.ErrNoRows {
			return apperrors.NewTrackerNotFoundError(trackerID)
		}
		if err != nil {
			return apperrors.NewDatabaseError("get tracker", err)
		}

		if amountCLP <= 0 {
			return apperrors.NewInvalidAmountError("Investment amount must be positive")
		}

		buyingPower, err := s.broker.GetBuyingPower(ctx, userID)
		if err != nil {
			return apperrors.NewInternalError("Failed to check buying power", err)
		}
		if buyingPower < amountCLP {
			return apperrors.NewInsufficientFundsError(buyingPower, amountCLP)
		}

		err = tx.QueryRowContext(ctx,
			`UPDATE users SET balance_clp = balance_clp - $1 WHERE id = $2 RETURNING balance_clp`,
			amountCLP, userID,
		).Scan(&result.RemainingBalance)
		if err != nil {
			return apperrors.NewDatabaseError("debit balance", err)
		}

		err = tx.QueryRowContext(ctx, upsertPortfolioItem, userID, trackerID, amountCLP).
			Scan(&result.PortfolioItemID)
		if err != nil {
			return apperrors.NewDatabaseError("upsert portfolio item", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (user_id, tracker_id, type, amount_clp, timestamp) VALUES ($1, $2, $3, $4, $5)`,
			userID, trackerID, models.TransactionBuy, amountCLP, time.Now().UTC(),
		)
		if err != nil {
			return apperrors.NewDatabaseError("append transaction", err)
		}

		result.Success = true
		result.Message = fmt.Sprintf("Successfully invested %v CLP in %s", amountCLP, trackerName)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
