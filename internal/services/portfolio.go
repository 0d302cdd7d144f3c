package services

import (
	"context"
	"database/sql"

	"github.com/hedgie-app/hedgie/internal/database"
	apperrors "github.com/hedgie-app/hedgie/internal/errors"
	"github.com/hedgie-app/hedgie/internal/models"
)

// PortfolioService aggregates a user's positions into summary totals.
// It only ever reads.
type PortfolioService struct {
	db *database.DB
}

func NewPortfolioService(db *database.DB) *PortfolioService {
	return &PortfolioService{db: db}
}

// GetUserPortfolio returns the user's available balance, totals across
// all positions and a per-tracker breakdown in portfolio-item insertion
// order. Profit/loss percent is 0 whenever the invested amount is 0.
func (s *PortfolioService) GetUserPortfolio(ctx context.Context, userID int64) (*models.PortfolioSummary, error) {
	var balance float64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance_clp FROM users WHERE id = $1`, userID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewUserNotFoundError(userID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get user", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.tracker_id, t.name, p.invested_amount_clp, p.current_value_clp
		FROM portfolio_items p
		JOIN trackers t ON t.id = p.tracker_id
		WHERE p.user_id = $1
		ORDER BY p.id`, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list portfolio items", err)
	}
	defer rows.Close()

	summary := &models.PortfolioSummary{
		UserID:              userID,
		AvailableBalanceCLP: balance,
		ActiveTrackers:      []models.ActiveTracker{},
	}

	for rows.Next() {
		var item models.ActiveTracker
		if err := rows.Scan(&item.TrackerID, &item.TrackerName, &item.InvestedAmountCLP, &item.CurrentValueCLP); err != nil {
			return nil, apperrors.NewDatabaseError("scan portfolio item", err)
		}

		item.ProfitLossCLP = item.CurrentValueCLP - item.InvestedAmountCLP
		item.ProfitLossPercent = profitLossPercent(item.ProfitLossCLP, item.InvestedAmountCLP)

		summary.TotalInvestedCLP += item.InvestedAmountCLP
		summary.TotalCurrentValueCLP += item.CurrentValueCLP
		summary.ActiveTrackers = append(summary.ActiveTrackers, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate portfolio items", err)
	}

	summary.TotalProfitLossCLP = summary.TotalCurrentValueCLP - summary.TotalInvestedCLP
	summary.TotalProfitLossPercent = profitLossPercent(summary.TotalProfitLossCLP, summary.TotalInvestedCLP)

	return summary, nil
}

// profitLossPercent guards the invested == 0 case so a fresh or empty
// position never causes a division by zero.
func profitLossPercent(pl, invested float64) float64 {
	if invested <= 0 {
		return 0
	}
	return pl / invested * 100
}
