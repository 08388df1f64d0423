// Package auth builds the HMAC-style Authorization header and classifies rejected
// requests.
package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/StrikeProtocols/api-code-samples/pkg/core"
	"github.com/StrikeProtocols/api-code-samples/pkg/hashing"
)

// Header names.
const (
	HeaderAuthorization = "Authorization"
	HeaderIdempotencyID = "X-Idempotency-ID"
	HeaderAccept        = "Accept"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"
)

// TimestampLayout is the second-precision UTC timestamp signed into every request.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Timestamp formats t for the Authorization header.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Attempt is everything that varies between two sends of the same request.
type Attempt struct {
	Timestamp     string
	Nonce         int64
	IdempotencyID string
}

// Input is the signed content of one attempt.
type Input struct {
	Credentials core.Credentials
	Attempt     Attempt
	Method      string
	// Route is the version-prefixed route, see core.JoinRoute.
	Route  string
	Params core.Params
	// Body holds the exact transmitted bytes, nil when there is no body.
	Body []byte
}

// Unencoded returns the pipe-joined digest input:
// key_id|key_secret|timestamp|nonce|METHOD|route|params|body|idempotency_id.
func (in Input) Unencoded() string {
	return strings.Join([]string{
		in.Credentials.KeyID,
		in.Credentials.KeySecret,
		in.Attempt.Timestamp,
		strconv.FormatInt(in.Attempt.Nonce, 10),
		strings.ToUpper(in.Method),
		in.Route,
		in.Params.Canonical(),
		string(in.Body),
		in.Attempt.IdempotencyID,
	}, hashing.Separator)
}

// Digest returns the lowercase hex SHA-256 of the unencoded input.
func (in Input) Digest() string {
	return hashing.SHA256Hex(in.Unencoded())
}

// Authorization returns "HMAC {key_id}|{timestamp}|{nonce}|{digest}".
func (in Input) Authorization() string {
	return "HMAC " + strings.Join([]string{
		in.Credentials.KeyID,
		in.Attempt.Timestamp,
		strconv.FormatInt(in.Attempt.Nonce, 10),
		in.Digest(),
	}, hashing.Separator)
}

// Headers returns the full set of authentication headers for the attempt.
// Non-GET methods also carry a JSON content type and the idempotency id.
func (in Input) Headers() map[string]string {
	h := map[string]string{
		HeaderAccept:        ContentTypeJSON,
		HeaderAuthorization: in.Authorization(),
	}
	if RequiresIdempotency(in.Method) {
		h[HeaderContentType] = ContentTypeJSON
		h[HeaderIdempotencyID] = in.Attempt.IdempotencyID
	}
	return h
}

// RequiresIdempotency is true for every method except GET.
func RequiresIdempotency(method string) bool {
	return !strings.EqualFold(method, "GET")
}
