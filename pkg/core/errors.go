package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed session or client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNoCredentials is returned when no API credentials are configured.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrNoSigner is returned by settlement requests when no signing key is configured.
	ErrNoSigner = errors.New("no settlement signer configured")
	// ErrNonceRecoveryExhausted is matched by the error of a failed recovery resend.
	ErrNonceRecoveryExhausted = errors.New("nonce recovery exhausted")
	// ErrTimeoutWaiting is returned when a polling helper gives up.
	ErrTimeoutWaiting = errors.New("timed out waiting")
	// ErrSandboxNotConfigured is returned for sandbox routes when no sandbox URL is set.
	ErrSandboxNotConfigured = errors.New("sandbox url not configured")
)

// StatusError is returned when the exchange answers with a status other than the one
// a request expected.
type StatusError struct {
	// Code classifies the rejection.
	Code       ErrorCode `json:"code"`
	StatusCode int       `json:"status_code"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	// Body is the raw response body.
	Body []byte `json:"body,omitempty"`
	// Messages are the errors[].message values of the body, when it has that shape.
	Messages []string `json:"messages,omitempty"`
	// Resent is set when this response answered the nonce recovery resend.
	Resent bool `json:"resent"`
}

// Error returns the method, URL, status and the server's messages or raw body.
func (e *StatusError) Error() string {
	detail := strings.Join(e.Messages, "; ")
	if detail == "" {
		detail = string(e.Body)
	}
	prefix := ""
	if e.Resent {
		prefix = "after nonce resync: "
	}
	return fmt.Sprintf("%s%s %s: unexpected status %d (%s): %s", prefix, e.Method, e.URL, e.StatusCode, e.Code, detail)
}

// Is reports a resent failure as ErrNonceRecoveryExhausted.
func (e *StatusError) Is(target error) bool {
	return e.Resent && target == ErrNonceRecoveryExhausted
}

// Message returns the first server message, or "".
func (e *StatusError) Message() string {
	if len(e.Messages) == 0 {
		return ""
	}
	return e.Messages[0]
}

func statusCode(err error) ErrorCode {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return ""
}

// IsNotFound returns true if the exchange answered 404.
func IsNotFound(err error) bool {
	return statusCode(err) == ErrCodeNotFound
}

// IsValidation returns true if the exchange rejected the payload with field errors.
func IsValidation(err error) bool {
	return statusCode(err) == ErrCodeValidation
}

// IsAuthentication returns true for any 401, recoverable or not.
func IsAuthentication(err error) bool {
	code := statusCode(err)
	return code == ErrCodeUnauthorized || code == ErrCodeStaleNonce
}

// IsStaleNonce returns true if the exchange rejected the nonce as too low.
func IsStaleNonce(err error) bool {
	return statusCode(err) == ErrCodeStaleNonce
}
