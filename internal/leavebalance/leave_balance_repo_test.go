package leavebalance_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"hr-dashboard/internal/leavebalance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (leavebalance.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return leavebalance.NewRepository(gdb), mock
}

var balanceColumns = []string{"id", "employee_id", "leave_type", "year", "total_days", "used_days", "created_at", "updated_at"}

func TestRepository_IncrementUsed(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("row updated", func(t *testing.T) {
		repo, mock := setupRepo(t)
		balanceID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows(balanceColumns).
			AddRow(balanceID.String(), employeeID.String(), "annual", 2024, 20, 15, now, now)
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE leave_balances`)).
			WithArgs(5, employeeID.String(), "annual", 2024, 5).
			WillReturnRows(rows)

		b, ok, err := repo.IncrementUsed(ctx, employeeID.String(), "annual", 2024, 5)

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 15, b.UsedDays)
		assert.Equal(t, 5, b.RemainingDays())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row matched", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE leave_balances`)).
			WithArgs(30, employeeID.String(), "annual", 2024, 30).
			WillReturnRows(sqlmock.NewRows(balanceColumns))

		b, ok, err := repo.IncrementUsed(ctx, employeeID.String(), "annual", 2024, 30)

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, b)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE leave_balances`)).
			WillReturnError(errors.New("connection reset"))

		_, ok, err := repo.IncrementUsed(ctx, employeeID.String(), "annual", 2024, 1)

		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestRepository_FindByEmployeeAndYear(t *testing.T) {
	repo, mock := setupRepo(t)
	employeeID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(balanceColumns).
		AddRow(uuid.NewString(), employeeID.String(), "annual", 2024, 20, 10, now, now).
		AddRow(uuid.NewString(), employeeID.String(), "sick", 2024, 12, 0, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "leave_balances" WHERE employee_id = $1 AND year = $2 ORDER BY leave_type ASC`)).
		WithArgs(employeeID.String(), 2024).
		WillReturnRows(rows)

	balances, err := repo.FindByEmployeeAndYear(context.Background(), employeeID.String(), 2024)

	assert.NoError(t, err)
	assert.Len(t, balances, 2)
	assert.Equal(t, "annual", balances[0].LeaveType)
	assert.Equal(t, 12, balances[1].RemainingDays())
	assert.NoError(t, mock.ExpectationsWereMet())
}
