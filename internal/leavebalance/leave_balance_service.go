package leavebalance

import (
	"context"
	"database/sql"
	"strings"

	leavebalanceerrors "hr-dashboard/internal/leavebalance/errors"
	"hr-dashboard/internal/observability/metrics"
	"hr-dashboard/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minYear = 1000
	maxYear = 9999
)

//go:generate mockgen -source=leave_balance_service.go -destination=mock/leave_balance_service_mock.go -package=mock
type Service interface {
	WithTx(tx *sql.Tx) Service
	GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
	Deduct(ctx context.Context, employeeID, leaveType string, year, days int) (BalanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave_balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave_balance.service")
	}
	return &service{repo: repo, logger: l}
}

// WithTx binds the ledger to the caller's transaction so a deduction commits
// or rolls back together with the status change that triggered it.
func (s *service) WithTx(tx *sql.Tx) Service {
	return &service{repo: s.repo.WithTx(tx), logger: s.logger}
}

func (s *service) GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}
	if year < minYear || year > maxYear {
		return nil, leavebalanceerrors.ErrInvalidYear
	}

	balances, err := s.repo.FindByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		s.logger.Error("get balances failed",
			zap.String("employee_id", employeeID),
			zap.Int("year", year),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(balances), nil
}

func (s *service) Deduct(ctx context.Context, employeeID, leaveType string, year, days int) (BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidEmployeeID
	}
	if strings.TrimSpace(leaveType) == "" {
		return BalanceResponse{}, apperror.RequiredField("leave_type")
	}
	if year < minYear || year > maxYear {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidYear
	}
	if days <= 0 {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidDays
	}

	updated, ok, err := s.repo.IncrementUsed(ctx, employeeID, leaveType, year, days)
	if err != nil {
		s.logger.Error("deduct balance failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", leaveType),
			zap.Int("year", year),
			zap.Error(err),
		)
		metrics.ObserveBalanceDeduction("error")
		return BalanceResponse{}, mapRepositoryError(err)
	}
	if ok {
		s.logger.Info("balance deducted",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", leaveType),
			zap.Int("year", year),
			zap.Int("days", days),
			zap.Int("remaining_days", updated.RemainingDays()),
		)
		metrics.ObserveBalanceDeduction("success")
		return mapToResponse(*updated), nil
	}

	// Nothing matched: tell a missing row apart from an exhausted one.
	current, err := s.repo.FindOne(ctx, employeeID, leaveType, year)
	if err != nil {
		mapped := mapRepositoryError(err)
		if apperror.HasCode(mapped, apperror.CodeBalanceNotFound) {
			s.logger.Warn("deduct balance not provisioned",
				zap.String("employee_id", employeeID),
				zap.String("leave_type", leaveType),
				zap.Int("year", year),
			)
			metrics.ObserveBalanceDeduction("not_found")
		} else {
			metrics.ObserveBalanceDeduction("error")
		}
		return BalanceResponse{}, mapped
	}

	s.logger.Warn("deduct balance insufficient",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", leaveType),
		zap.Int("year", year),
		zap.Int("requested_days", days),
		zap.Int("remaining_days", current.RemainingDays()),
	)
	metrics.ObserveBalanceDeduction("insufficient")
	return BalanceResponse{}, leavebalanceerrors.ErrInsufficientBalance
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:            b.ID.String(),
		EmployeeID:    b.EmployeeID.String(),
		LeaveType:     b.LeaveType,
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays(),
	}
}

func mapToListResponse(balances []LeaveBalance) []BalanceResponse {
	res := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		res = append(res, mapToResponse(b))
	}
	return res
}
