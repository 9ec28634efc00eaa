package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"hr-dashboard/internal/employee"
	employeeerrors "hr-dashboard/internal/employee/errors"
	employeeMock "hr-dashboard/internal/employee/mock"
	"hr-dashboard/internal/events"
	"hr-dashboard/internal/leave"
	leaveerrors "hr-dashboard/internal/leave/errors"
	leaveMock "hr-dashboard/internal/leave/mock"
	"hr-dashboard/internal/leavebalance"
	leavebalanceerrors "hr-dashboard/internal/leavebalance/errors"
	leavebalanceMock "hr-dashboard/internal/leavebalance/mock"
	"hr-dashboard/internal/messaging/kafka"
	outboxMock "hr-dashboard/internal/messaging/kafka/mock"
	"hr-dashboard/internal/shared/apperror"
	counterMock "hr-dashboard/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	svc       leave.Service
	sqlMock   sqlmock.Sqlmock
	repo      *leaveMock.MockRepository
	employees *employeeMock.MockRepository
	ledger    *leavebalanceMock.MockService
	counter   *counterMock.MockRepository
	outbox    *outboxMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	d := &serviceDeps{
		sqlMock:   sqlMock,
		repo:      leaveMock.NewMockRepository(ctrl),
		employees: employeeMock.NewMockRepository(ctrl),
		ledger:    leavebalanceMock.NewMockService(ctrl),
		counter:   counterMock.NewMockRepository(ctrl),
		outbox:    outboxMock.NewMockOutboxRepository(ctrl),
	}
	d.svc = leave.NewService(db, d.repo, d.employees, d.ledger, d.counter, d.outbox)
	return d
}

func (d *serviceDeps) expectTx() {
	d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo).AnyTimes()
	d.employees.EXPECT().WithTx(gomock.Any()).Return(d.employees).AnyTimes()
	d.ledger.EXPECT().WithTx(gomock.Any()).Return(d.ledger).AnyTimes()
	d.counter.EXPECT().WithTx(gomock.Any()).Return(d.counter).AnyTimes()
	d.outbox.EXPECT().WithTx(gomock.Any()).Return(d.outbox).AnyTimes()
}

func date(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", v)
	require.NoError(t, err)
	return d
}

func pendingLeave(t *testing.T, employeeID, managerID uuid.UUID) *leave.LeaveRequest {
	return &leave.LeaveRequest{
		ID:            uuid.New(),
		RequestNumber: "LV-2024-000001",
		EmployeeID:    employeeID,
		ManagerID:     &managerID,
		LeaveType:     leave.TypeAnnual,
		Status:        leave.StatusPending,
		StartDate:     date(t, "2024-06-03"),
		EndDate:       date(t, "2024-06-07"),
		DaysRequested: 5,
		RequestedAt:   time.Now().UTC(),
	}
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	managerID := uuid.New()

	validReq := leave.SubmitLeaveRequest{
		LeaveType: "annual",
		StartDate: "2024-06-03",
		EndDate:   "2024-06-07",
		Reason:    "family trip",
	}

	t.Run("success creates pending request with five working days", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()

		d.sqlMock.ExpectBegin()
		d.employees.EXPECT().FindByID(ctx, employeeID.String()).Return(&employee.Employee{
			ID:        employeeID,
			FullName:  "Dina Kartika",
			ManagerID: &managerID,
		}, nil)
		d.repo.EXPECT().
			HasOverlappingPeriod(ctx, employeeID.String(), date(t, "2024-06-03"), date(t, "2024-06-07")).
			Return(false, nil)
		d.counter.EXPECT().
			GetNextValue(ctx, fmt.Sprintf("leave_request_%d", time.Now().UTC().Year())).
			Return(int64(7), nil)
		d.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.StatusPending, l.Status)
			assert.Equal(t, 5, l.DaysRequested)
			assert.Equal(t, &managerID, l.ManagerID)
			return nil
		})
		d.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.LeaveSubmitted, e.EventType)
			assert.Equal(t, events.LeaveLifecycleTopic, e.Topic)

			var payload events.LeaveLifecycleEvent
			require.NoError(t, json.Unmarshal(e.Payload, &payload))
			assert.Equal(t, "Dina Kartika", payload.EmployeeName)
			assert.Equal(t, managerID.String(), payload.ManagerID)
			return nil
		})
		d.sqlMock.ExpectCommit()

		res, err := d.svc.Submit(ctx, employeeID.String(), validReq)

		require.NoError(t, err)
		assert.Equal(t, "pending", res.Status)
		assert.Equal(t, 5, res.DaysRequested)
		assert.Equal(t, fmt.Sprintf("LV-%d-000007", time.Now().UTC().Year()), res.RequestNumber)
		require.NotNil(t, res.Reason)
		assert.Equal(t, "family trip", *res.Reason)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("start after end is rejected before any write", func(t *testing.T) {
		d := setupServiceTest(t)
		req := validReq
		req.StartDate, req.EndDate = "2024-06-07", "2024-06-03"

		_, err := d.svc.Submit(ctx, employeeID.String(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
	})

	t.Run("weekend only range is rejected", func(t *testing.T) {
		d := setupServiceTest(t)
		req := validReq
		req.StartDate, req.EndDate = "2024-06-01", "2024-06-02"

		_, err := d.svc.Submit(ctx, employeeID.String(), req)

		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
	})

	t.Run("malformed date", func(t *testing.T) {
		d := setupServiceTest(t)
		req := validReq
		req.StartDate = "03/06/2024"

		_, err := d.svc.Submit(ctx, employeeID.String(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("unknown leave type", func(t *testing.T) {
		d := setupServiceTest(t)
		req := validReq
		req.LeaveType = "sabbatical"

		_, err := d.svc.Submit(ctx, employeeID.String(), req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})

	t.Run("unlinked employee", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()

		d.sqlMock.ExpectBegin()
		d.employees.EXPECT().FindByID(ctx, employeeID.String()).Return(nil, gorm.ErrRecordNotFound)
		d.sqlMock.ExpectRollback()

		_, err := d.svc.Submit(ctx, employeeID.String(), validReq)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotLinked)
	})

	t.Run("overlapping request", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()

		d.sqlMock.ExpectBegin()
		d.employees.EXPECT().FindByID(ctx, employeeID.String()).Return(&employee.Employee{ID: employeeID}, nil)
		d.repo.EXPECT().HasOverlappingPeriod(ctx, employeeID.String(), gomock.Any(), gomock.Any()).Return(true, nil)
		d.sqlMock.ExpectRollback()

		_, err := d.svc.Submit(ctx, employeeID.String(), validReq)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()

		d.sqlMock.ExpectBegin()
		d.employees.EXPECT().FindByID(ctx, employeeID.String()).Return(&employee.Employee{ID: employeeID}, nil)
		d.repo.EXPECT().HasOverlappingPeriod(ctx, employeeID.String(), gomock.Any(), gomock.Any()).Return(false, nil)
		d.counter.EXPECT().GetNextValue(ctx, gomock.Any()).Return(int64(1), nil)
		d.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("db down"))
		d.sqlMock.ExpectRollback()

		_, err := d.svc.Submit(ctx, employeeID.String(), validReq)

		assert.True(t, apperror.HasCode(err, apperror.CodePersistence))
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})
}

func TestService_Review(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	managerID := uuid.New()

	t.Run("approve deducts the ledger once", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		l := pendingLeave(t, employeeID, managerID)

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
		d.repo.EXPECT().
			TransitionFromPending(ctx, l.ID.String(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, tr leave.Transition) (bool, error) {
				assert.Equal(t, leave.StatusApproved, tr.To)
				assert.Equal(t, &managerID, tr.ReviewedBy)
				return true, nil
			})
		d.ledger.EXPECT().
			Deduct(ctx, employeeID.String(), "annual", 2024, 5).
			Return(leavebalance.BalanceResponse{UsedDays: 15, RemainingDays: 5}, nil).
			Times(1)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.LeaveApproved, e.EventType)
			return nil
		})
		d.sqlMock.ExpectCommit()

		res, err := d.svc.Review(ctx, managerID.String(), false, l.ID.String(), leave.ReviewLeaveRequest{Decision: "approved"})

		require.NoError(t, err)
		assert.Equal(t, "approved", res.Status)
		require.NotNil(t, res.ReviewedBy)
		assert.Equal(t, managerID.String(), *res.ReviewedBy)
		assert.NotNil(t, res.ReviewedAt)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject leaves the ledger untouched", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		l := pendingLeave(t, employeeID, managerID)

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
		d.repo.EXPECT().TransitionFromPending(ctx, l.ID.String(), gomock.Any()).Return(true, nil)
		d.ledger.EXPECT().Deduct(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			var payload events.LeaveLifecycleEvent
			require.NoError(t, json.Unmarshal(e.Payload, &payload))
			assert.Equal(t, events.LeaveRejected, payload.EventType)
			assert.Equal(t, "insufficient coverage", payload.Comments)
			return nil
		})
		d.sqlMock.ExpectCommit()

		res, err := d.svc.Review(ctx, managerID.String(), false, l.ID.String(), leave.ReviewLeaveRequest{
			Decision: "rejected",
			Comments: "insufficient coverage",
		})

		require.NoError(t, err)
		assert.Equal(t, "rejected", res.Status)
		require.NotNil(t, res.ManagerComments)
		assert.Equal(t, "insufficient coverage", *res.ManagerComments)
	})

	t.Run("second review of a decided request fails without deducting", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		l := pendingLeave(t, employeeID, managerID)
		l.Status = leave.StatusApproved

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
		d.ledger.EXPECT().Deduct(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		d.sqlMock.ExpectRollback()

		_, err := d.svc.Review(ctx, managerID.String(), false, l.ID.String(), leave.ReviewLeaveRequest{Decision: "approved"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidState))
	})

	t.Run("concurrent reviewer wins the conditional update", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		l := pendingLeave(t, employeeID, managerID)

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
		d.repo.EXPECT().TransitionFromPending(ctx, l.ID.String(), gomock.Any()).Return(false, nil)
		d.ledger.EXPECT().Deduct(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		d.sqlMock.ExpectRollback()

		_, err := d.svc.Review(ctx, managerID.String(), false, l.ID.String(), leave.ReviewLeaveRequest{Decision: "approved"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})

	t.Run("insufficient balance blocks approval", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		l := pendingLeave(t, employeeID, managerID)

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
		d.repo.EXPECT().TransitionFromPending(ctx, l.ID.String(), gomock.Any()).Return(true, nil)
		d.ledger.EXPECT().
			Deduct(ctx, employeeID.String(), "annual", 2024, 5).
			Return(leavebalance.BalanceResponse{}, leavebalanceerrors.ErrInsufficientBalance)
		d.sqlMock.ExpectRollback()

		_, err := d.svc.Review(ctx, managerID.String(), false, l.ID.String(), leave.ReviewLeaveRequest{Decision: "approved"})

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("reviewer who is not the manager", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		l := pendingLeave(t, employeeID, managerID)

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
		d.sqlMock.ExpectRollback()

		_, err := d.svc.Review(ctx, uuid.NewString(), false, l.ID.String(), leave.ReviewLeaveRequest{Decision: "approved"})

		assert.ErrorIs(t, err, leaveerrors.ErrNotRequestManager)
	})

	t.Run("admin may review any request", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		l := pendingLeave(t, employeeID, managerID)
		adminID := uuid.New()

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
		d.repo.EXPECT().TransitionFromPending(ctx, l.ID.String(), gomock.Any()).Return(true, nil)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		d.sqlMock.ExpectCommit()

		res, err := d.svc.Review(ctx, adminID.String(), true, l.ID.String(), leave.ReviewLeaveRequest{Decision: "rejected"})

		require.NoError(t, err)
		assert.Equal(t, adminID.String(), *res.ReviewedBy)
	})

	t.Run("self review is forbidden even with review_any", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		l := pendingLeave(t, employeeID, managerID)

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
		d.sqlMock.ExpectRollback()

		_, err := d.svc.Review(ctx, employeeID.String(), true, l.ID.String(), leave.ReviewLeaveRequest{Decision: "approved"})

		assert.ErrorIs(t, err, leaveerrors.ErrSelfReview)
	})

	t.Run("unknown decision", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.svc.Review(ctx, managerID.String(), false, uuid.NewString(), leave.ReviewLeaveRequest{Decision: "cancelled"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDecision)
	})

	t.Run("missing request", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		id := uuid.NewString()

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, id).Return(nil, gorm.ErrRecordNotFound)
		d.sqlMock.ExpectRollback()

		_, err := d.svc.Review(ctx, managerID.String(), false, id, leave.ReviewLeaveRequest{Decision: "approved"})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	managerID := uuid.New()

	t.Run("owner cancels pending request without touching the ledger", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		l := pendingLeave(t, employeeID, managerID)

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
		d.repo.EXPECT().
			TransitionFromPending(ctx, l.ID.String(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, tr leave.Transition) (bool, error) {
				assert.Equal(t, leave.StatusCancelled, tr.To)
				assert.Nil(t, tr.ReviewedBy)
				return true, nil
			})
		d.ledger.EXPECT().Deduct(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		d.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.LeaveCancelled, e.EventType)
			return nil
		})
		d.sqlMock.ExpectCommit()

		res, err := d.svc.Cancel(ctx, employeeID.String(), l.ID.String())

		require.NoError(t, err)
		assert.Equal(t, "cancelled", res.Status)
		assert.NotNil(t, res.ReviewedAt)
	})

	for _, status := range []leave.Status{leave.StatusPending, leave.StatusApproved, leave.StatusRejected} {
		t.Run("non owner is forbidden when "+string(status), func(t *testing.T) {
			d := setupServiceTest(t)
			d.expectTx()
			l := pendingLeave(t, employeeID, managerID)
			l.Status = status

			d.sqlMock.ExpectBegin()
			d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
			d.sqlMock.ExpectRollback()

			_, err := d.svc.Cancel(ctx, managerID.String(), l.ID.String())

			assert.ErrorIs(t, err, leaveerrors.ErrNotRequestOwner)
			assert.True(t, apperror.HasCode(err, apperror.CodeForbidden))
		})
	}

	t.Run("approved request cannot be cancelled", func(t *testing.T) {
		d := setupServiceTest(t)
		d.expectTx()
		l := pendingLeave(t, employeeID, managerID)
		l.Status = leave.StatusApproved

		d.sqlMock.ExpectBegin()
		d.repo.EXPECT().FindByIDForUpdate(ctx, l.ID.String()).Return(l, nil)
		d.sqlMock.ExpectRollback()

		_, err := d.svc.Cancel(ctx, employeeID.String(), l.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	managerID := uuid.New()

	t.Run("owner and manager can read", func(t *testing.T) {
		d := setupServiceTest(t)
		l := pendingLeave(t, employeeID, managerID)
		d.repo.EXPECT().FindByID(ctx, l.ID.String()).Return(l, nil).Times(2)

		_, err := d.svc.GetByID(ctx, employeeID.String(), false, l.ID.String())
		assert.NoError(t, err)

		_, err = d.svc.GetByID(ctx, managerID.String(), false, l.ID.String())
		assert.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		d := setupServiceTest(t)
		l := pendingLeave(t, employeeID, managerID)
		d.repo.EXPECT().FindByID(ctx, l.ID.String()).Return(l, nil)

		_, err := d.svc.GetByID(ctx, uuid.NewString(), false, l.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveAccessDenied)
	})

	t.Run("invalid id", func(t *testing.T) {
		d := setupServiceTest(t)

		_, err := d.svc.GetByID(ctx, employeeID.String(), false, "nope")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveID)
	})
}

func TestService_ListPendingApprovals(t *testing.T) {
	ctx := context.Background()
	managerID := uuid.New()

	t.Run("manager sees own queue", func(t *testing.T) {
		d := setupServiceTest(t)
		l := pendingLeave(t, uuid.New(), managerID)
		id := managerID.String()

		d.repo.EXPECT().FindPendingForManager(ctx, &id).Return([]leave.PendingApproval{
			{LeaveRequest: *l, EmployeeName: "Dina Kartika", EmployeeEmail: "dina@example.com"},
		}, nil)

		res, err := d.svc.ListPendingApprovals(ctx, id, false)

		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "Dina Kartika", res[0].EmployeeName)
		assert.Equal(t, l.ID.String(), res[0].ID)
	})

	t.Run("review_any sees every pending request", func(t *testing.T) {
		d := setupServiceTest(t)
		d.repo.EXPECT().FindPendingForManager(ctx, (*string)(nil)).Return(nil, nil)

		res, err := d.svc.ListPendingApprovals(ctx, managerID.String(), true)

		require.NoError(t, err)
		assert.Empty(t, res)
	})
}

func TestService_ListMine(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	d := setupServiceTest(t)
	d.repo.EXPECT().FindByEmployee(ctx, employeeID.String()).Return(nil, errors.New("conn reset"))

	_, err := d.svc.ListMine(ctx, employeeID.String())

	assert.True(t, apperror.HasCode(err, apperror.CodePersistence))
}
