package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidState      = "INVALID_STATE"
	CodeAlreadyResolved   = "ALREADY_RESOLVED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeSecurityMismatch  = "SECURITY_MISMATCH"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
