package apierror

// Code identifies an error category in API responses. The set is closed:
// every error leaving the service maps to exactly one of these.
type Code string

const (
	CodeDuplicateEntry      Code = "DUPLICATE_ENTRY"
	CodeForeignKeyViolation Code = "FOREIGN_KEY_VIOLATION"
	CodeResourceNotFound    Code = "RESOURCE_NOT_FOUND"
	CodeValidationError     Code = "VALIDATION_ERROR"
	CodeBadRequest          Code = "BAD_REQUEST"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeForbidden           Code = "FORBIDDEN"
	CodeConflict            Code = "CONFLICT"
	CodeDatabaseError       Code = "DATABASE_ERROR"
	CodeInternalError       Code = "INTERNAL_ERROR"
	CodeUnknownError        Code = "UNKNOWN_ERROR"
)
