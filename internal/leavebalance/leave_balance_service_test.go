package leavebalance_test

import (
	"context"
	"errors"
	"testing"

	"hr-dashboard/internal/leavebalance"
	leavebalanceerrors "hr-dashboard/internal/leavebalance/errors"
	leavebalanceMock "hr-dashboard/internal/leavebalance/mock"
	"hr-dashboard/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func setupServiceTest(t *testing.T) (leavebalance.Service, *leavebalanceMock.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := leavebalanceMock.NewMockRepository(ctrl)
	return leavebalance.NewService(repo), repo
}

func TestService_Deduct(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("approving five days against 20 total and 10 used", func(t *testing.T) {
		svc, repo := setupServiceTest(t)

		repo.EXPECT().
			IncrementUsed(ctx, employeeID.String(), "annual", 2024, 5).
			Return(&leavebalance.LeaveBalance{
				ID:         uuid.New(),
				EmployeeID: employeeID,
				LeaveType:  "annual",
				Year:       2024,
				TotalDays:  20,
				UsedDays:   15,
			}, true, nil)

		res, err := svc.Deduct(ctx, employeeID.String(), "annual", 2024, 5)

		assert.NoError(t, err)
		assert.Equal(t, 15, res.UsedDays)
		assert.Equal(t, 5, res.RemainingDays)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		svc, repo := setupServiceTest(t)

		repo.EXPECT().
			IncrementUsed(ctx, employeeID.String(), "annual", 2024, 11).
			Return(nil, false, nil)
		repo.EXPECT().
			FindOne(ctx, employeeID.String(), "annual", 2024).
			Return(&leavebalance.LeaveBalance{TotalDays: 20, UsedDays: 10}, nil)

		_, err := svc.Deduct(ctx, employeeID.String(), "annual", 2024, 11)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)
	})

	t.Run("balance not provisioned", func(t *testing.T) {
		svc, repo := setupServiceTest(t)

		repo.EXPECT().
			IncrementUsed(ctx, employeeID.String(), "sick", 2024, 2).
			Return(nil, false, nil)
		repo.EXPECT().
			FindOne(ctx, employeeID.String(), "sick", 2024).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Deduct(ctx, employeeID.String(), "sick", 2024, 2)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrBalanceNotFound)
	})

	t.Run("gateway failure becomes persistence error", func(t *testing.T) {
		svc, repo := setupServiceTest(t)
		dbErr := errors.New("connection refused")

		repo.EXPECT().
			IncrementUsed(ctx, employeeID.String(), "annual", 2024, 1).
			Return(nil, false, dbErr)

		_, err := svc.Deduct(ctx, employeeID.String(), "annual", 2024, 1)

		assert.ErrorIs(t, err, dbErr)
		assert.True(t, apperror.HasCode(err, apperror.CodePersistence))
	})

	t.Run("rejects non positive days without touching the store", func(t *testing.T) {
		svc, _ := setupServiceTest(t)

		_, err := svc.Deduct(ctx, employeeID.String(), "annual", 2024, 0)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidDays)
	})

	t.Run("rejects malformed employee id", func(t *testing.T) {
		svc, _ := setupServiceTest(t)

		_, err := svc.Deduct(ctx, "not-a-uuid", "annual", 2024, 1)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidEmployeeID)
	})
}

func TestService_GetBalances(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("maps remaining days", func(t *testing.T) {
		svc, repo := setupServiceTest(t)

		repo.EXPECT().
			FindByEmployeeAndYear(ctx, employeeID.String(), 2024).
			Return([]leavebalance.LeaveBalance{
				{ID: uuid.New(), EmployeeID: employeeID, LeaveType: "annual", Year: 2024, TotalDays: 20, UsedDays: 10},
				{ID: uuid.New(), EmployeeID: employeeID, LeaveType: "sick", Year: 2024, TotalDays: 12, UsedDays: 3},
			}, nil)

		res, err := svc.GetBalances(ctx, employeeID.String(), 2024)

		assert.NoError(t, err)
		assert.Len(t, res, 2)
		assert.Equal(t, 10, res[0].RemainingDays)
		assert.Equal(t, 9, res[1].RemainingDays)
	})

	t.Run("no rows yields empty list", func(t *testing.T) {
		svc, repo := setupServiceTest(t)

		repo.EXPECT().
			FindByEmployeeAndYear(ctx, employeeID.String(), 2030).
			Return(nil, nil)

		res, err := svc.GetBalances(ctx, employeeID.String(), 2030)

		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})

	t.Run("invalid year", func(t *testing.T) {
		svc, _ := setupServiceTest(t)

		_, err := svc.GetBalances(ctx, employeeID.String(), 24)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidYear)
	})
}

func TestService_WithTxUsesTransactionalRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := leavebalanceMock.NewMockRepository(ctrl)
	txRepo := leavebalanceMock.NewMockRepository(ctrl)
	employeeID := uuid.New()

	repo.EXPECT().WithTx(gomock.Nil()).Return(txRepo)
	txRepo.EXPECT().
		IncrementUsed(gomock.Any(), employeeID.String(), "annual", 2024, 1).
		Return(&leavebalance.LeaveBalance{EmployeeID: employeeID, TotalDays: 5, UsedDays: 1}, true, nil)

	svc := leavebalance.NewService(repo).WithTx(nil)
	res, err := svc.Deduct(context.Background(), employeeID.String(), "annual", 2024, 1)

	assert.NoError(t, err)
	assert.Equal(t, 4, res.RemainingDays)
}
