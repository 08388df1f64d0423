package auth

import (
	"math"
	"net/http"
	"regexp"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/StrikeProtocols/api-code-samples/pkg/core"
)

var staleNonce = regexp.MustCompile(`The nonce is too low\. The highest used nonce is (\d+)`)

type errorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Rejection is a classified non-expected response.
type Rejection struct {
	Code core.ErrorCode
	// HighestNonce is the server's high-water mark, set only for ErrCodeStaleNonce.
	HighestNonce int64
	Messages     []string
}

// Recoverable is true only for a stale nonce.
func (r Rejection) Recoverable() bool {
	return r.Code == core.ErrCodeStaleNonce
}

// Classify maps a status and raw body to a Rejection. Bodies that are not of the
// {"errors":[{"message":...}]} shape classify by status alone.
func Classify(status int, body []byte) Rejection {
	r := Rejection{Messages: messages(body)}

	switch {
	case status == http.StatusUnauthorized:
		r.Code = core.ErrCodeUnauthorized
		if len(r.Messages) > 0 {
			if m := staleNonce.FindStringSubmatch(r.Messages[0]); m != nil {
				// A mark at MaxInt64 leaves no nonce to resend with.
				if n, err := strconv.ParseInt(m[1], 10, 64); err == nil && n < math.MaxInt64 {
					r.Code = core.ErrCodeStaleNonce
					r.HighestNonce = n
				}
			}
		}
	case status == http.StatusForbidden:
		r.Code = core.ErrCodeForbidden
	case status == http.StatusBadRequest:
		r.Code = core.ErrCodeBadRequest
	case status == http.StatusNotFound:
		r.Code = core.ErrCodeNotFound
	case status == http.StatusUnprocessableEntity:
		r.Code = core.ErrCodeValidation
	case status == http.StatusTooManyRequests:
		r.Code = core.ErrCodeRateLimit
	case status >= 500:
		r.Code = core.ErrCodeServerError
	default:
		r.Code = core.ErrCodeUnexpectedStatus
	}
	return r
}

func messages(body []byte) []string {
	if len(body) == 0 {
		return nil
	}
	var eb errorBody
	if err := sonic.Unmarshal(body, &eb); err != nil {
		return nil
	}
	out := make([]string, 0, len(eb.Errors))
	for _, e := range eb.Errors {
		out = append(out, e.Message)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// StatusError builds the error surfaced to callers for a rejection.
func (r Rejection) StatusError(method, url string, status int, body []byte, resent bool) *core.StatusError {
	return &core.StatusError{
		Code:       r.Code,
		StatusCode: status,
		Method:     method,
		URL:        url,
		Body:       body,
		Messages:   r.Messages,
		Resent:     resent,
	}
}
