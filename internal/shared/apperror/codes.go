package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeIdentityUnresolved  = "IDENTITY_UNRESOLVED"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInvalidState        = "INVALID_STATE"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeBalanceNotFound     = "BALANCE_NOT_FOUND"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodePersistence        = "PERSISTENCE_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
