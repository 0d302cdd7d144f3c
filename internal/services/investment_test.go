package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/hedgie-app/hedgie/internal/broker"
	"github.com/hedgie-app/hedgie/internal/database"
	apperrors "github.com/hedgie-app/hedgie/internal/errors"
)

// stubBroker returns a fixed buying power.
type stubBroker struct {
	power float64
	err   error
}

func (b *stubBroker) GetBuyingPower(context.Context, int64) (float64, error) { return b.power, b.err }
func (b *stubBroker) GetCurrentPrice(context.Context, string) float64        { return 100 }
func (b *stubBroker) ExecuteTrade(context.Context, int64, string, float64, broker.Action) (*broker.TradeResult, error) {
	return nil, errors.New("not implemented")
}

func newInvestmentTestService(t *testing.T, power float64) (*InvestmentService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	svc := NewInvestmentService(database.New(db), &stubBroker{power: power})
	return svc, mock, func() { db.Close() }
}

func TestInvestmentService_ExecuteInvestment(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful investment debits, upserts and records atomically", func(t *testing.T) {
		svc, mock, done := newInvestmentTestService(t, 1_000_000)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT balance_clp FROM users WHERE id = (.+) FOR UPDATE").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance_clp"}).AddRow(1_000_000.0))
		mock.ExpectQuery("SELECT name FROM trackers WHERE id = (.+)").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Nancy Pelosi"))
		mock.ExpectQuery("UPDATE users SET balance_clp = balance_clp - (.+) RETURNING balance_clp").
			WithArgs(50_000.0, int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance_clp"}).AddRow(950_000.0))
		mock.ExpectQuery("INSERT INTO portfolio_items (.+) ON CONFLICT (.+) RETURNING id").
			WithArgs(int64(1), int64(2), 50_000.0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(int64(1), int64(2), "buy", 50_000.0, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		result, err := svc.ExecuteInvestment(ctx, 1, 2, 50_000)
		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 950_000.0, result.RemainingBalance)
		assert.Equal(t, int64(7), result.PortfolioItemID)
		assert.Equal(t, "Successfully invested 50000 CLP in Nancy Pelosi", result.Message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Second investment into the same tracker hits the same portfolio item", func(t *testing.T) {
		svc, mock, done := newInvestmentTestService(t, 1_000_000)
		defer done()

		for _, amount := range []float64{50_000.0, 30_000.0} {
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT balance_clp FROM users WHERE id = (.+) FOR UPDATE").
				WithArgs(int64(1)).
				WillReturnRows(sqlmock.NewRows([]string{"balance_clp"}).AddRow(1_000_000.0))
			mock.ExpectQuery("SELECT name FROM trackers WHERE id = (.+)").
				WithArgs(int64(2)).
				WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Nancy Pelosi"))
			mock.ExpectQuery("UPDATE users SET balance_clp = balance_clp - (.+) RETURNING balance_clp").
				WithArgs(amount, int64(1)).
				WillReturnRows(sqlmock.NewRows([]string{"balance_clp"}).AddRow(1_000_000.0 - amount))
			mock.ExpectQuery("INSERT INTO portfolio_items (.+) ON CONFLICT (.+) RETURNING id").
				WithArgs(int64(1), int64(2), amount).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
			mock.ExpectExec("INSERT INTO transactions").
				WithArgs(int64(1), int64(2), "buy", amount, sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectCommit()
		}

		first, err := svc.ExecuteInvestment(ctx, 1, 2, 50_000)
		assert.NoError(t, err)
		second, err := svc.ExecuteInvestment(ctx, 1, 2, 30_000)
		assert.NoError(t, err)

		assert.Equal(t, first.PortfolioItemID, second.PortfolioItemID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown user fails before any mutation", func(t *testing.T) {
		svc, mock, done := newInvestmentTestService(t, 0)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT balance_clp FROM users WHERE id = (.+) FOR UPDATE").
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows([]string{"balance_clp"}))
		mock.ExpectRollback()

		result, err := svc.ExecuteInvestment(ctx, 999, 2, 50_000)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.NewUserNotFoundError(999))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown tracker fails after the user check", func(t *testing.T) {
		svc, mock, done := newInvestmentTestService(t, 1_000_000)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT balance_clp FROM users WHERE id = (.+) FOR UPDATE").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance_clp"}).AddRow(1_000_000.0))
		mock.ExpectQuery("SELECT name FROM trackers WHERE id = (.+)").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}))
		mock.ExpectRollback()

		result, err := svc.ExecuteInvestment(ctx, 1, 42, 50_000)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.NewTrackerNotFoundError(42))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Non-positive amount is rejected", func(t *testing.T) {
		svc, mock, done := newInvestmentTestService(t, 1_000_000)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT balance_clp FROM users WHERE id = (.+) FOR UPDATE").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance_clp"}).AddRow(1_000_000.0))
		mock.ExpectQuery("SELECT name FROM trackers WHERE id = (.+)").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Nancy Pelosi"))
		mock.ExpectRollback()

		result, err := svc.ExecuteInvestment(ctx, 1, 2, -100)
		assert.Nil(t, result)

		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeInvalidAmount, appErr.Type)
		assert.Equal(t, "Investment amount must be positive", appErr.Message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient funds reports both figures and rolls back", func(t *testing.T) {
		svc, mock, done := newInvestmentTestService(t, 20_000)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT balance_clp FROM users WHERE id = (.+) FOR UPDATE").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance_clp"}).AddRow(20_000.0))
		mock.ExpectQuery("SELECT name FROM trackers WHERE id = (.+)").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Nancy Pelosi"))
		mock.ExpectRollback()

		result, err := svc.ExecuteInvestment(ctx, 1, 2, 50_000)
		assert.Nil(t, result)

		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeInsufficientFunds, appErr.Type)
		assert.Equal(t, "Insufficient funds. Available: 20000 CLP, Required: 50000 CLP", appErr.Message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Persistence failure mid-flight rolls everything back", func(t *testing.T) {
		svc, mock, done := newInvestmentTestService(t, 1_000_000)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT balance_clp FROM users WHERE id = (.+) FOR UPDATE").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance_clp"}).AddRow(1_000_000.0))
		mock.ExpectQuery("SELECT name FROM trackers WHERE id = (.+)").
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Nancy Pelosi"))
		mock.ExpectQuery("UPDATE users SET balance_clp = balance_clp - (.+) RETURNING balance_clp").
			WithArgs(50_000.0, int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"balance_clp"}).AddRow(950_000.0))
		mock.ExpectQuery("INSERT INTO portfolio_items (.+) ON CONFLICT (.+) RETURNING id").
			WithArgs(int64(1), int64(2), 50_000.0).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		result, err := svc.ExecuteInvestment(ctx, 1, 2, 50_000)
		assert.Nil(t, result)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
