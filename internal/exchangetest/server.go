// Package exchangetest provides an in-process exchange that verifies request
// authentication the way the real API does and records every call it sees.
package exchangetest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-softwarelab/common/pkg/to"

	"github.com/StrikeProtocols/api-code-samples/internal/auth"
	"github.com/StrikeProtocols/api-code-samples/pkg/core"
)

// Credentials used by servers created without WithCredentials.
var DefaultCredentials = core.Credentials{KeyID: "test-key", KeySecret: "test-secret"}

// Call is one request received by the server.
type Call struct {
	Method        string
	Path          string
	RawQuery      string
	Params        core.Params
	Body          []byte
	Header        http.Header
	KeyID         string
	Timestamp     string
	Nonce         int64
	Digest        string
	IdempotencyID string
	// Authenticated is set when the digest matched the server's own computation.
	Authenticated bool
}

// Reply is what a Handler answers with. A nil Body writes no body.
type Reply struct {
	Status int
	Body   any
}

// Handler answers an authenticated call.
type Handler func(call Call) Reply

// Options configures a Server.
type Options struct {
	Credentials core.Credentials
	// EnforceNonce rejects nonces not above the highest accepted one with the
	// stale nonce message, like the real exchange does.
	EnforceNonce bool
	// HighestNonce is the highest nonce considered used before the first request.
	HighestNonce int64
}

// WithCredentials sets the credentials the server verifies digests with.
func WithCredentials(creds core.Credentials) func(*Options) {
	return func(o *Options) {
		o.Credentials = creds
	}
}

// WithNonceEnforcement enables stale nonce rejection starting above highest.
func WithNonceEnforcement(highest int64) func(*Options) {
	return func(o *Options) {
		o.EnforceNonce = true
		o.HighestNonce = highest
	}
}

// Server is a fake exchange backed by httptest.
type Server struct {
	*httptest.Server

	options Options

	mu       sync.Mutex
	routes   map[string]Handler
	calls    []Call
	highest  int64
	override []Reply
}

// New starts a Server that is closed when the test ends.
func New(t testing.TB, opts ...func(*Options)) *Server {
	options := to.OptionsWithDefault(Options{Credentials: DefaultCredentials}, opts...)

	s := &Server{
		options: options,
		routes:  make(map[string]Handler),
		highest: options.HighestNonce,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// NewConfig returns a config pointing both live and sandbox traffic at the server,
// without rate limiting.
func (s *Server) NewConfig() *core.Config {
	creds := s.options.Credentials
	return core.DefaultConfig(s.URL).
		WithSandboxURL(s.URL).
		WithCredentials(&creds).
		WithRateLimit(0, 0).
		WithLogLevel("debug")
}

// Handle registers handler for method and the full request path, e.g. "/v1/trades".
func (s *Server) Handle(method, path string, handler Handler) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[strings.ToUpper(method)+" "+path] = handler
	return s
}

// HandleJSON registers a fixed reply.
func (s *Server) HandleJSON(method, path string, status int, body any) *Server {
	return s.Handle(method, path, func(Call) Reply {
		return Reply{Status: status, Body: body}
	})
}

// ReplyNext makes the next len(replies) authenticated calls answer with replies in
// order, ahead of any registered route.
func (s *Server) ReplyNext(replies ...Reply) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = append(s.override, replies...)
	return s
}

// Calls returns a copy of every call received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// HighestNonce returns the highest nonce the server has accepted.
func (s *Server) HighestNonce() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highest
}

// StaleNonce returns the rejection the exchange sends for a nonce at or below highest.
func StaleNonce(highest int64) Reply {
	return Reply{
		Status: http.StatusUnauthorized,
		Body:   ErrorBody(fmt.Sprintf("The nonce is too low. The highest used nonce is %d", highest)),
	}
}

// ErrorBody builds the exchange error envelope.
func ErrorBody(messages ...string) map[string]any {
	errs := make([]map[string]string, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, map[string]string{"message": m})
	}
	return map[string]any{"errors": errs}
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	if len(body) == 0 {
		body = nil
	}
	call := s.parse(r, body)

	s.mu.Lock()
	s.calls = append(s.calls, call)
	reply := s.dispatch(call)
	s.mu.Unlock()

	write(w, reply)
}

// dispatch must be called with mu held.
func (s *Server) dispatch(call Call) Reply {
	if !call.Authenticated {
		return Reply{Status: http.StatusUnauthorized, Body: ErrorBody("Invalid request signature")}
	}
	if s.options.EnforceNonce {
		if call.Nonce <= s.highest {
			return StaleNonce(s.highest)
		}
		s.highest = call.Nonce
	}
	if len(s.override) > 0 {
		reply := s.override[0]
		s.override = s.override[1:]
		return reply
	}
	handler, ok := s.routes[call.Method+" "+call.Path]
	if !ok {
		return Reply{Status: http.StatusNotFound, Body: ErrorBody("Not found")}
	}
	return handler(call)
}

func (s *Server) parse(r *http.Request, body []byte) Call {
	call := Call{
		Method:        r.Method,
		Path:          r.URL.Path,
		RawQuery:      r.URL.RawQuery,
		Params:        parseParams(r.URL.RawQuery),
		Body:          body,
		Header:        r.Header.Clone(),
		IdempotencyID: r.Header.Get(auth.HeaderIdempotencyID),
	}

	parts := strings.Split(strings.TrimPrefix(r.Header.Get(auth.HeaderAuthorization), "HMAC "), "|")
	if len(parts) != 4 {
		return call
	}
	nonce, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return call
	}
	call.KeyID, call.Timestamp, call.Nonce, call.Digest = parts[0], parts[1], nonce, parts[3]

	expected := auth.Input{
		Credentials: s.options.Credentials,
		Attempt: auth.Attempt{
			Timestamp:     call.Timestamp,
			Nonce:         call.Nonce,
			IdempotencyID: call.IdempotencyID,
		},
		Method: call.Method,
		Route:  call.Path,
		Params: call.Params,
		Body:   body,
	}
	call.Authenticated = call.KeyID == s.options.Credentials.KeyID && expected.Digest() == call.Digest
	return call
}

// parseParams keeps the transmitted order, which the digest depends on.
func parseParams(raw string) core.Params {
	if raw == "" {
		return nil
	}
	var params core.Params
	for _, pair := range strings.Split(raw, "&") {
		k, v, _ := strings.Cut(pair, "=")
		key, _ := url.QueryUnescape(k)
		value, _ := url.QueryUnescape(v)
		params = append(params, core.Param{Key: key, Value: value})
	}
	return params
}

func write(w http.ResponseWriter, reply Reply) {
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	if reply.Body == nil {
		w.WriteHeader(status)
		return
	}

	var data []byte
	switch b := reply.Body.(type) {
	case []byte:
		data = b
	case string:
		data = []byte(b)
	default:
		encoded, err := sonic.Marshal(b)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data = encoded
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
