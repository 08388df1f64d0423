package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/StrikeProtocols/api-code-samples/internal/nonce"
	"github.com/StrikeProtocols/api-code-samples/internal/transport"
)

type options struct {
	logger      zerolog.Logger
	clock       func() time.Time
	idGenerator func() string
	strategy    nonce.Strategy
	transport   transport.Doer
}

// Option configures a Session.
type Option = func(*options)

func defaultOptions() options {
	return options{
		logger:      zerolog.Nop(),
		clock:       time.Now,
		idGenerator: func() string { return uuid.NewString() },
	}
}

// WithLogger sets the session logger. Config.LogLevel is applied on top of it.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock replaces the clock used for timestamps and time based nonces.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithIDGenerator replaces the X-Idempotency-ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		if gen != nil {
			o.idGenerator = gen
		}
	}
}

// WithStrategy overrides the nonce strategy selected by Config.NonceStrategy.
func WithStrategy(strategy nonce.Strategy) Option {
	return func(o *options) {
		o.strategy = strategy
	}
}

// WithTransport sends requests through doer instead of a resty client built from the
// config. The session does not close a transport it did not create.
func WithTransport(doer transport.Doer) Option {
	return func(o *options) {
		o.transport = doer
	}
}
