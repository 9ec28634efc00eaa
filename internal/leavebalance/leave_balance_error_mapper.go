package leavebalance

import (
	"errors"

	leavebalanceerrors "hr-dashboard/internal/leavebalance/errors"
	"hr-dashboard/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgCheckViolation   = "23514"
	usedDaysConstraint = "chk_leave_balances_used"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavebalanceerrors.ErrBalanceNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation && pgErr.ConstraintName == usedDaysConstraint {
		return leavebalanceerrors.ErrInsufficientBalance
	}

	return apperror.Persistence(err)
}
