package services

import (
	"context"

	"github.com/hedgie-app/hedgie/internal/database"
	apperrors "github.com/hedgie-app/hedgie/internal/errors"
	"github.com/hedgie-app/hedgie/internal/models"
)

// TransactionService serves the query side of the append-only ledger.
type TransactionService struct {
	db *database.DB
}

func NewTransactionService(db *database.DB) *TransactionService {
	return &TransactionService{db: db}
}

// GetUserTransactions returns the user's transactions joined with the
// tracker name, most recent first. A limit <= 0 returns everything.
func (s *TransactionService) GetUserTransactions(ctx context.Context, userID int64, limit int) ([]models.TransactionRecord, error) {
	query := `
		SELECT tx.id, tx.type, tx.tracker_id, t.name, tx.amount_clp, tx.timestamp
		FROM transactions tx
		JOIN trackers t ON t.id = tx.tracker_id
		WHERE tx.user_id = $1
		ORDER BY tx.timestamp DESC`
	args := []interface{}{userID}

	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list transactions", err)
	}
	defer rows.Close()

	records := []models.TransactionRecord{}
	for rows.Next() {
		var rec models.TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.TrackerID, &rec.TrackerName, &rec.AmountCLP, &rec.Timestamp); err != nil {
			return nil, apperrors.NewDatabaseError("scan transaction", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate transactions", err)
	}

	return records, nil
}
