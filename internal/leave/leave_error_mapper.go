package leave

import (
	"errors"

	leaveerrors "hr-dashboard/internal/leave/errors"
	"hr-dashboard/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation       = "23505"
	requestNumberConstraint = "uq_leave_requests_number"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == requestNumberConstraint {
		return leaveerrors.ErrRequestNumberConflict
	}

	return apperror.Persistence(err)
}
