package employeeerrors

import (
	"net/http"

	"hr-dashboard/internal/shared/apperror"
)

var (
	ErrEmployeeNotLinked = apperror.New(
		apperror.CodeIdentityUnresolved,
		"No employee record is linked to this user",
		http.StatusForbidden,
	)
)
