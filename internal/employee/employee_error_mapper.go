package employee

import (
	"errors"

	employeeerrors "hr-dashboard/internal/employee/errors"
	"hr-dashboard/internal/shared/apperror"

	"gorm.io/gorm"
)

// MapRepositoryError translates lookup failures. A missing row means the
// caller has no linked employee record.
func MapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotLinked
	}

	return apperror.Persistence(err)
}
