package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/hedgie-app/hedgie/internal/database"
	apperrors "github.com/hedgie-app/hedgie/internal/errors"
)

func newUserTestService(t *testing.T) (*UserService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	return NewUserService(database.New(db)), mock, func() { db.Close() }
}

func TestUserService_Deposit(t *testing.T) {
	ctx := context.Background()

	t.Run("Adds funds and reports the new balance", func(t *testing.T) {
		svc, mock, done := newUserTestService(t)
		defer done()

		mock.ExpectQuery("UPDATE users SET balance_clp = balance_clp \\+ (.+) RETURNING id, name, balance_clp").
			WithArgs(50_000.0, int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "balance_clp"}).
				AddRow(int64(1), "User 1", 1_050_000.0))

		result, err := svc.Deposit(ctx, 1, 50_000)
		assert.NoError(t, err)
		assert.Equal(t, 1_050_000.0, result.BalanceCLP)
		assert.Equal(t, "Successfully deposited 50,000 CLP", result.Message)
	})

	t.Run("Non-positive amount is rejected without touching the database", func(t *testing.T) {
		svc, mock, done := newUserTestService(t)
		defer done()

		result, err := svc.Deposit(ctx, 1, 0)
		assert.Nil(t, result)

		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeInvalidAmount, appErr.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown user fails with not found", func(t *testing.T) {
		svc, mock, done := newUserTestService(t)
		defer done()

		mock.ExpectQuery("UPDATE users SET balance_clp = balance_clp \\+ (.+) RETURNING id, name, balance_clp").
			WithArgs(50_000.0, int64(999)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "balance_clp"}))

		result, err := svc.Deposit(ctx, 999, 50_000)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, apperrors.NewUserNotFoundError(999))
	})
}

func TestUserService_Withdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("Debits funds inside a transaction", func(t *testing.T) {
		svc, mock, done := newUserTestService(t)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT name, balance_clp FROM users WHERE id = (.+) FOR UPDATE").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "balance_clp"}).AddRow("User 1", 1_000_000.0))
		mock.ExpectQuery("UPDATE users SET balance_clp = balance_clp - (.+) RETURNING id, name, balance_clp").
			WithArgs(200_000.0, int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "balance_clp"}).
				AddRow(int64(1), "User 1", 800_000.0))
		mock.ExpectCommit()

		result, err := svc.Withdraw(ctx, 1, 200_000)
		assert.NoError(t, err)
		assert.Equal(t, 800_000.0, result.BalanceCLP)
		assert.Equal(t, "Successfully withdrew 200,000 CLP", result.Message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Withdrawal above balance fails and rolls back", func(t *testing.T) {
		svc, mock, done := newUserTestService(t)
		defer done()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT name, balance_clp FROM users WHERE id = (.+) FOR UPDATE").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"name", "balance_clp"}).AddRow("User 1", 20_000.0))
		mock.ExpectRollback()

		result, err := svc.Withdraw(ctx, 1, 50_000)
		assert.Nil(t, result)

		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeInsufficientFunds, appErr.Type)
		assert.Equal(t, "Insufficient balance. Available: 20,000 CLP, Requested: 50,000 CLP", appErr.Message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Non-positive amount is rejected", func(t *testing.T) {
		svc, _, done := newUserTestService(t)
		defer done()

		result, err := svc.Withdraw(ctx, 1, -5)
		assert.Nil(t, result)

		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeInvalidAmount, appErr.Type)
	})
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a user with zero balance", func(t *testing.T) {
		svc, mock, done := newUserTestService(t)
		defer done()

		mock.ExpectQuery("INSERT INTO users (.+) RETURNING id, balance_clp, created_at").
			WithArgs("Ana", "ana@example.com", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "balance_clp", "created_at"}).
				AddRow(int64(4), 0.0, time.Now()))

		user, err := svc.Register(ctx, "Ana", "ana@example.com", "s3cret-pass")
		assert.NoError(t, err)
		assert.Equal(t, int64(4), user.ID)
		assert.Equal(t, 0.0, user.BalanceCLP)
	})

	t.Run("Duplicate email fails with a validation error", func(t *testing.T) {
		svc, mock, done := newUserTestService(t)
		defer done()

		mock.ExpectQuery("INSERT INTO users (.+) RETURNING id, balance_clp, created_at").
			WithArgs("Ana", "ana@example.com", sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505"})

		user, err := svc.Register(ctx, "Ana", "ana@example.com", "s3cret-pass")
		assert.Nil(t, user)

		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	})
}

func TestFormatCLP(t *testing.T) {
	assert.Equal(t, "0", formatCLP(0))
	assert.Equal(t, "950", formatCLP(950))
	assert.Equal(t, "50,000", formatCLP(50_000))
	assert.Equal(t, "1,000,000", formatCLP(1_000_000))
	assert.Equal(t, "-20,000", formatCLP(-20_000))
}
