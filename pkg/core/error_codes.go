package core

import "errors"

// ErrorCode is the machine-readable classification of a rejected request.
type ErrorCode string

// The closed set of rejection codes. Only ErrCodeStaleNonce is recoverable.
const (
	// ErrCodeStaleNonce is a 401 reporting the highest nonce the server has seen.
	ErrCodeStaleNonce ErrorCode = "STALE_NONCE"
	// ErrCodeUnauthorized is any other 401.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest   ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	// ErrCodeValidation is a 422 with field-level messages.
	ErrCodeValidation  ErrorCode = "VALIDATION"
	ErrCodeRateLimit   ErrorCode = "RATE_LIMIT"
	ErrCodeServerError ErrorCode = "SERVER_ERROR"
	// ErrCodeUnexpectedStatus covers every other status that was not expected.
	ErrCodeUnexpectedStatus ErrorCode = "UNEXPECTED_STATUS"
)

// IsErrorCode checks if err carries a StatusError with the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == code
	}
	return false
}
