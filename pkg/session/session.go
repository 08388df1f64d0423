// Package session implements the authenticated request primitive: every call is
// signed with a fresh nonce, timestamp and digest, and a rejection for a stale nonce
// is recovered with exactly one resend after resynchronising the nonce.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-softwarelab/common/pkg/to"
	"github.com/rs/zerolog"

	"github.com/StrikeProtocols/api-code-samples/internal/auth"
	"github.com/StrikeProtocols/api-code-samples/internal/nonce"
	"github.com/StrikeProtocols/api-code-samples/internal/ratelimit"
	"github.com/StrikeProtocols/api-code-samples/internal/transport"
	"github.com/StrikeProtocols/api-code-samples/pkg/core"
)

// State represents the lifecycle state of a Session.
type State int

const (
	// StateActive indicates a session that is ready to process requests.
	StateActive State = iota
	// StateClosed indicates a session that has been shut down.
	StateClosed
)

// String returns the string representation of the State.
func (s State) String() string {
	return [...]string{"ACTIVE", "CLOSED"}[s]
}

// Session signs and sends requests for one credential. It is safe for concurrent use;
// requests are sent one at a time so the server observes nonces in issue order.
type Session struct {
	config      *core.Config
	credentials core.Credentials
	sequencer   *nonce.Sequencer
	limiter     *ratelimit.Limiter
	transport   transport.Doer
	owned       *transport.Client
	logger      zerolog.Logger
	clock       func() time.Time
	newID       func() string

	// sendMu is held across nonce issue and send, including the recovery resend.
	sendMu sync.Mutex

	mu        sync.RWMutex
	state     State
	createdAt time.Time
	lastUsed  time.Time
}

// New creates a Session from a validated config.
func New(config *core.Config, opts ...Option) (*Session, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	if config.Credentials == nil {
		return nil, core.ErrNoCredentials
	}

	o := to.OptionsWithDefault(defaultOptions(), opts...)

	logger := o.logger
	if config.LogLevel != "" {
		level, err := zerolog.ParseLevel(config.LogLevel)
		if err != nil {
			level = zerolog.InfoLevel
		}
		logger = logger.Level(level)
	}
	logger = logger.With().Str("component", "session").Str("key_id", config.Credentials.KeyID).Logger()

	strategy := o.strategy
	if strategy == nil {
		kind, err := nonce.ParseKind(config.NonceStrategy)
		if err != nil {
			return nil, err
		}
		strategy = nonce.NewStrategy(kind, o.clock)
	}

	s := &Session{
		config:      config,
		credentials: *config.Credentials,
		sequencer:   nonce.NewSequencer(strategy, config.NonceSeed),
		limiter:     ratelimit.New(config.RateLimitRequests, config.RateLimitPeriod),
		transport:   o.transport,
		logger:      logger,
		clock:       o.clock,
		newID:       o.idGenerator,
		state:       StateActive,
		createdAt:   o.clock(),
	}
	if s.transport == nil {
		s.owned = transport.NewClient(config.Timeout, logger)
		s.transport = s.owned
	}
	s.lastUsed = s.createdAt

	return s, nil
}

// attempt is one signed send of a request.
type attempt struct {
	number int
	auth.Attempt
}

// prepared holds the parts of a request that do not change between attempts.
type prepared struct {
	method   string
	baseURL  string
	route    string
	query    string
	params   core.Params
	body     []byte
	expected int
}

func (p *prepared) url() string {
	r := transport.Request{BaseURL: p.baseURL, Path: p.route, Query: p.query}
	return r.URL()
}

// Do signs and sends req. On the expected status the body is decoded into out when
// out is non-nil and the body is not empty. Any other status returns a
// *core.StatusError; a stale nonce is resynchronised and resent exactly once, and a
// failed resend also matches core.ErrNonceRecoveryExhausted.
func (s *Session) Do(ctx context.Context, req *core.Request, out any) (*core.Response, error) {
	if req == nil {
		return nil, errors.New("request is required")
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil, core.ErrClientClosed
	}
	s.lastUsed = s.clock()
	s.mu.Unlock()

	p, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.exchange(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := resp.Decode(out); err != nil {
		return resp, fmt.Errorf("%s %s: %w", p.method, p.route, err)
	}
	return resp, nil
}

func (s *Session) prepare(req *core.Request) (*prepared, error) {
	baseURL, err := s.config.URLFor(req.Sandbox)
	if err != nil {
		return nil, err
	}
	body, err := req.EncodeBody()
	if err != nil {
		return nil, err
	}
	return &prepared{
		method:   req.Method,
		baseURL:  baseURL,
		route:    core.JoinRoute(s.config.APIVersion, req.Sandbox, req.Route),
		query:    req.Params.Encode(),
		params:   req.Params,
		body:     body,
		expected: req.Expected(),
	}, nil
}

// exchange runs the BUILD, SEND and optional RESYNC, RESEND steps under sendMu.
func (s *Session) exchange(ctx context.Context, p *prepared) (*core.Response, error) {
	var idempotencyID string
	if auth.RequiresIdempotency(p.method) {
		idempotencyID = s.newID()
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	first := attempt{number: 1, Attempt: auth.Attempt{IdempotencyID: idempotencyID}}
	raw, err := s.send(ctx, p, &first)
	if err != nil {
		return nil, err
	}
	if raw.StatusCode == p.expected {
		return s.success(raw, first, false), nil
	}

	rejection := auth.Classify(raw.StatusCode, raw.Body)
	if !rejection.Recoverable() {
		s.logRejection(p, first, raw.StatusCode, rejection)
		return nil, rejection.StatusError(p.method, p.url(), raw.StatusCode, raw.Body, false)
	}

	s.logger.Warn().
		Str("method", p.method).
		Str("route", p.route).
		Int64("nonce", first.Nonce).
		Int64("highest_nonce", rejection.HighestNonce).
		Msg("nonce rejected as too low, resynchronising")
	s.sequencer.Resync(rejection.HighestNonce)

	second := attempt{number: 2, Attempt: auth.Attempt{IdempotencyID: idempotencyID}}
	if idempotencyID != "" && s.config.IdempotencyPolicy == core.IdempotencyRegenerate {
		second.IdempotencyID = s.newID()
	}

	raw, err = s.send(ctx, p, &second)
	if err != nil {
		return nil, fmt.Errorf("resend after nonce resync: %w", err)
	}
	if raw.StatusCode == p.expected {
		return s.success(raw, second, true), nil
	}

	rejection = auth.Classify(raw.StatusCode, raw.Body)
	s.logRejection(p, second, raw.StatusCode, rejection)
	return nil, rejection.StatusError(p.method, p.url(), raw.StatusCode, raw.Body, true)
}

// send builds a fresh nonce, timestamp and digest for at and transmits it.
func (s *Session) send(ctx context.Context, p *prepared, at *attempt) (*transport.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	at.Nonce = s.sequencer.Next()
	at.Timestamp = auth.Timestamp(s.clock())

	in := auth.Input{
		Credentials: s.credentials,
		Attempt:     at.Attempt,
		Method:      p.method,
		Route:       p.route,
		Params:      p.params,
		Body:        p.body,
	}

	s.logger.Debug().
		Str("method", p.method).
		Str("route", p.route).
		Int64("nonce", at.Nonce).
		Int("attempt", at.number).
		Msg("sending authenticated request")

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:  p.method,
		BaseURL: p.baseURL,
		Path:    p.route,
		Query:   p.query,
		Headers: in.Headers(),
		Body:    p.body,
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Session) success(raw *transport.Response, at attempt, resent bool) *core.Response {
	s.logger.Debug().
		Int("status", raw.StatusCode).
		Int64("nonce", at.Nonce).
		Int("attempt", at.number).
		Msg("request accepted")
	return &core.Response{
		StatusCode: raw.StatusCode,
		Header:     raw.Header,
		Body:       raw.Body,
		Nonce:      at.Nonce,
		Resent:     resent,
	}
}

func (s *Session) logRejection(p *prepared, at attempt, status int, r auth.Rejection) {
	s.logger.Debug().
		Str("method", p.method).
		Str("route", p.route).
		Int("status", status).
		Str("code", string(r.Code)).
		Int64("nonce", at.Nonce).
		Int("attempt", at.number).
		Msg("request rejected")
}

// LastNonce returns the most recently issued nonce and whether any has been issued.
func (s *Session) LastNonce() (int64, bool) {
	return s.sequencer.Last()
}

// Close shuts down the session. Further calls to Do return core.ErrClientClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed
	if s.owned != nil {
		return s.owned.Close()
	}
	return nil
}

// State returns the current lifecycle state of the session.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Config returns the configuration used to create the session.
func (s *Session) Config() *core.Config {
	return s.config
}

// Logger returns the session logger.
func (s *Session) Logger() zerolog.Logger {
	return s.logger
}

// CreatedAt returns the timestamp when the session was created.
func (s *Session) CreatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.createdAt
}

// LastUsed returns the timestamp of the last request executed by the session.
func (s *Session) LastUsed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed
}
