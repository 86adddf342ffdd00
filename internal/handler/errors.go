package handler

// Common error codes
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeNotAuthenticated = "NOT_AUTHENTICATED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidationError  = "VALIDATION_ERROR"
)
