package leave

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"hr-dashboard/internal/employee"
	"hr-dashboard/internal/events"
	leaveerrors "hr-dashboard/internal/leave/errors"
	"hr-dashboard/internal/leavebalance"
	"hr-dashboard/internal/messaging/kafka"
	"hr-dashboard/internal/observability/metrics"
	"hr-dashboard/internal/shared/apperror"
	"hr-dashboard/internal/shared/contextutil"
	"hr-dashboard/internal/shared/counter"
	"hr-dashboard/internal/shared/workday"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxReasonLength = 1000
	aggregateType   = "leave_request"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error)
	Review(ctx context.Context, reviewerID string, canReviewAny bool, id string, req ReviewLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, requesterID, id string) (LeaveResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAny bool, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	ListPendingApprovals(ctx context.Context, managerID string, all bool) ([]PendingApprovalResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	ledger       leavebalance.Service
	counter      counter.Repository
	outbox       kafka.OutboxRepository
	calendar     *workday.Calendar
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	ledger leavebalance.Service,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		ledger:       ledger,
		counter:      counterRepo,
		outbox:       outboxRepo,
		calendar:     workday.Default,
		logger:       l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("submit leave requested",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	startDate, endDate, days, err := s.validateSubmit(req)
	if err != nil {
		log.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Persistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := s.employeeRepo.WithTx(tx).FindByID(ctx, employeeID)
	if err != nil {
		log.Warn("submit leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, employee.MapRepositoryError(err)
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, employeeID, startDate, endDate)
	if err != nil {
		log.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if overlap {
		log.Warn("submit leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	now := time.Now().UTC()
	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, fmt.Sprintf("leave_request_%d", now.Year()))
	if err != nil {
		log.Error("submit leave request number allocation failed", zap.Error(err))
		return LeaveResponse{}, apperror.Persistence(err)
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		RequestNumber: formatRequestNumber(now.Year(), seq),
		EmployeeID:    employeeUUID,
		ManagerID:     empl.ManagerID,
		LeaveType:     LeaveType(req.LeaveType),
		Status:        StatusPending,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysRequested: days,
		Reason:        optionalText(req.Reason),
		RequestedAt:   now,
		UpdatedAt:     now,
	}

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, events.LeaveSubmitted, l, empl.FullName); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, apperror.Persistence(err)
	}

	metrics.ObserveLeaveTransition(string(StatusPending), "success")
	log.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("request_number", l.RequestNumber),
		zap.Int("days_requested", days),
	)
	return mapToResponse(*l), nil
}

func (s *service) validateSubmit(req SubmitLeaveRequest) (time.Time, time.Time, int, error) {
	if !LeaveType(req.LeaveType).Valid() {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := workday.Parse(req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := workday.Parse(req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrInvalidDateRange
	}
	if workday.IsWeekend(startDate) || workday.IsWeekend(endDate) {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrWeekendDate
	}
	if utf8.RuneCountInString(req.Reason) > maxReasonLength {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrReasonTooLong
	}

	days := s.calendar.CountBetween(startDate, endDate)
	if days == 0 {
		return time.Time{}, time.Time{}, 0, leaveerrors.ErrNoWorkingDays
	}
	return startDate, endDate, days, nil
}

// Review approves or rejects a pending request. Approval deducts the ledger
// inside the same transaction, so a failed deduction leaves the request
// pending.
func (s *service) Review(ctx context.Context, reviewerID string, canReviewAny bool, id string, req ReviewLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx).With(zap.String("leave_id", id), zap.String("reviewer_id", reviewerID))
	log.Debug("review leave requested", zap.String("decision", req.Decision))

	target := Status(req.Decision)
	if target != StatusApproved && target != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}
	reviewerUUID, err := uuid.Parse(reviewerID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("review leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Persistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if l.EmployeeID == reviewerUUID {
		log.Warn("review leave self review rejected")
		return LeaveResponse{}, leaveerrors.ErrSelfReview
	}
	if !canReviewAny && (l.ManagerID == nil || *l.ManagerID != reviewerUUID) {
		log.Warn("review leave reviewer is not the manager")
		return LeaveResponse{}, leaveerrors.ErrNotRequestManager
	}
	if l.Status.Terminal() {
		log.Warn("review leave invalid transition",
			zap.String("from_status", string(l.Status)),
			zap.String("to_status", string(target)),
		)
		metrics.ObserveLeaveTransition(string(target), "invalid_state")
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	transition := Transition{
		To:              target,
		ManagerComments: optionalText(req.Comments),
		ReviewedBy:      &reviewerUUID,
		ReviewedAt:      time.Now().UTC(),
	}
	ok, err := qtx.TransitionFromPending(ctx, id, transition)
	if err != nil {
		log.Error("review leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !ok {
		metrics.ObserveLeaveTransition(string(target), "invalid_state")
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}
	applyTransition(l, transition)

	if target == StatusApproved {
		_, err := s.ledger.WithTx(tx).Deduct(ctx, l.EmployeeID.String(), string(l.LeaveType), l.StartDate.Year(), l.DaysRequested)
		if err != nil {
			log.Warn("review leave ledger deduction failed", zap.Error(err))
			metrics.ObserveLeaveTransition(string(target), apperror.CodeOf(err))
			return LeaveResponse{}, err
		}
	}

	eventType := events.LeaveRejected
	if target == StatusApproved {
		eventType = events.LeaveApproved
	}
	if err := s.queueEvent(ctx, tx, eventType, l, ""); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("review leave commit failed", zap.Error(err))
		return LeaveResponse{}, apperror.Persistence(err)
	}

	metrics.ObserveLeaveTransition(string(target), "success")
	log.Info("review leave success", zap.String("status", string(target)))
	return mapToResponse(*l), nil
}

// Cancel withdraws a pending request. Ownership is checked before state so
// non-owners learn nothing about the request.
func (s *service) Cancel(ctx context.Context, requesterID, id string) (LeaveResponse, error) {
	log := s.log(ctx).With(zap.String("leave_id", id), zap.String("requester_id", requesterID))
	log.Debug("cancel leave requested")

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("cancel leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Persistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if l.EmployeeID != requesterUUID {
		log.Warn("cancel leave requester is not the owner")
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if l.Status.Terminal() {
		metrics.ObserveLeaveTransition(string(StatusCancelled), "invalid_state")
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	transition := Transition{To: StatusCancelled, ReviewedAt: time.Now().UTC()}
	ok, err := qtx.TransitionFromPending(ctx, id, transition)
	if err != nil {
		log.Error("cancel leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !ok {
		metrics.ObserveLeaveTransition(string(StatusCancelled), "invalid_state")
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}
	applyTransition(l, transition)

	if err := s.queueEvent(ctx, tx, events.LeaveCancelled, l, ""); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("cancel leave commit failed", zap.Error(err))
		return LeaveResponse{}, apperror.Persistence(err)
	}

	metrics.ObserveLeaveTransition(string(StatusCancelled), "success")
	log.Info("cancel leave success")
	return mapToResponse(*l), nil
}

// GetByID is visible to the requester, the routed manager and anyone
// allowed to read every request.
func (s *service) GetByID(ctx context.Context, actorID string, canReadAny bool, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if !canReadAny {
		isOwner := l.EmployeeID.String() == actorID
		isManager := l.ManagerID != nil && l.ManagerID.String() == actorID
		if !isOwner && !isManager {
			return LeaveResponse{}, leaveerrors.ErrLeaveAccessDenied
		}
	}

	return mapToResponse(*l), nil
}

func (s *service) ListMine(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	leaves, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		s.log(ctx).Error("list my leaves failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(leaves), nil
}

// ListPendingApprovals returns requests waiting on managerID, or every
// pending request when all is set.
func (s *service) ListPendingApprovals(ctx context.Context, managerID string, all bool) ([]PendingApprovalResponse, error) {
	var filter *string
	if !all {
		if _, err := uuid.Parse(managerID); err != nil {
			return nil, leaveerrors.ErrInvalidEmployeeID
		}
		filter = &managerID
	}

	rows, err := s.repo.FindPendingForManager(ctx, filter)
	if err != nil {
		s.log(ctx).Error("list pending approvals failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]PendingApprovalResponse, 0, len(rows))
	for _, row := range rows {
		res = append(res, PendingApprovalResponse{
			LeaveResponse: mapToResponse(row.LeaveRequest),
			EmployeeName:  row.EmployeeName,
			EmployeeEmail: row.EmployeeEmail,
		})
	}
	return res, nil
}

func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, eventType string, l *LeaveRequest, employeeName string) error {
	rid := contextutil.GetRequestID(ctx)
	event := events.LeaveLifecycleEvent{
		EventType:     eventType,
		RequestID:     rid,
		LeaveID:       l.ID.String(),
		RequestNumber: l.RequestNumber,
		EmployeeID:    l.EmployeeID.String(),
		EmployeeName:  employeeName,
		LeaveType:     string(l.LeaveType),
		StartDate:     l.StartDate.Format(workday.DateLayout),
		EndDate:       l.EndDate.Format(workday.DateLayout),
		DaysRequested: l.DaysRequested,
		Status:        string(l.Status),
		OccurredAt:    time.Now().UTC(),
	}
	if l.ManagerID != nil {
		event.ManagerID = l.ManagerID.String()
	}
	if l.ReviewedBy != nil {
		event.ReviewerID = l.ReviewedBy.String()
	}
	if l.ManagerComments != nil {
		event.Comments = *l.ManagerComments
	}

	outboxEvent, err := kafka.NewEvent(rid, aggregateType, l.ID.String(), eventType, events.LeaveLifecycleTopic, event)
	if err != nil {
		s.log(ctx).Error("marshal leave event failed", zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.log(ctx).Error("queue leave event failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return apperror.Persistence(err)
	}
	return nil
}

func applyTransition(l *LeaveRequest, t Transition) {
	reviewedAt := t.ReviewedAt
	l.Status = t.To
	l.ManagerComments = t.ManagerComments
	l.ReviewedBy = t.ReviewedBy
	l.ReviewedAt = &reviewedAt
	l.UpdatedAt = reviewedAt
}

func formatRequestNumber(year int, seq int64) string {
	return fmt.Sprintf("LV-%d-%06d", year, seq)
}

func optionalText(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	res := LeaveResponse{
		ID:              l.ID.String(),
		RequestNumber:   l.RequestNumber,
		EmployeeID:      l.EmployeeID.String(),
		LeaveType:       string(l.LeaveType),
		Status:          string(l.Status),
		StartDate:       l.StartDate.Format(workday.DateLayout),
		EndDate:         l.EndDate.Format(workday.DateLayout),
		DaysRequested:   l.DaysRequested,
		Reason:          l.Reason,
		ManagerComments: l.ManagerComments,
		RequestedAt:     l.RequestedAt.Format(time.RFC3339),
	}
	if l.ManagerID != nil {
		v := l.ManagerID.String()
		res.ManagerID = &v
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		res.ReviewedBy = &v
	}
	if l.ReviewedAt != nil {
		v := l.ReviewedAt.Format(time.RFC3339)
		res.ReviewedAt = &v
	}
	return res
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	res := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		res = append(res, mapToResponse(l))
	}
	return res
}
