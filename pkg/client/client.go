// Package client exposes the exchange resources on top of an authenticated session.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-softwarelab/common/pkg/to"
	"github.com/rs/zerolog"

	"github.com/StrikeProtocols/api-code-samples/pkg/core"
	"github.com/StrikeProtocols/api-code-samples/pkg/session"
	"github.com/StrikeProtocols/api-code-samples/pkg/signer"
)

// Polling defaults of the wait helpers.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultWaitTimeout  = 10 * time.Second
)

var validate = validator.New()

type options struct {
	sessionOptions []session.Option
	signer         signer.Signer
	pollInterval   time.Duration
}

// Option configures a Client.
type Option = func(*options)

// WithSessionOptions passes options through to the underlying session.
func WithSessionOptions(opts ...session.Option) Option {
	return func(o *options) {
		o.sessionOptions = append(o.sessionOptions, opts...)
	}
}

// WithSigner sets the settlement flow signer, taking precedence over
// Config.SigningKeyFile.
func WithSigner(s signer.Signer) Option {
	return func(o *options) {
		o.signer = s
	}
}

// WithPollInterval sets the sleep between polls of the wait helpers.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// Client is the exchange API for one venue.
type Client struct {
	session      *session.Session
	signer       signer.Signer
	venueID      string
	pollInterval time.Duration
	logger       zerolog.Logger
}

// New creates a Client. When config.VenueID is empty the venue id is discovered from
// the api-key resource, which costs one request.
func New(ctx context.Context, config *core.Config, opts ...Option) (*Client, error) {
	o := to.OptionsWithDefault(options{pollInterval: DefaultPollInterval}, opts...)

	sess, err := session.New(config, o.sessionOptions...)
	if err != nil {
		return nil, err
	}

	c := &Client{
		session:      sess,
		signer:       o.signer,
		venueID:      config.VenueID,
		pollInterval: o.pollInterval,
		logger:       sess.Logger().With().Str("component", "client").Logger(),
	}

	if c.signer == nil && config.SigningKeyFile != "" {
		s, err := signer.LoadPEMFile(config.SigningKeyFile)
		if err != nil {
			_ = sess.Close()
			return nil, fmt.Errorf("load signing key: %w", err)
		}
		c.signer = s
	}

	if c.venueID == "" {
		key, err := c.GetAPIKey(ctx)
		if err != nil {
			_ = sess.Close()
			return nil, fmt.Errorf("discover venue id: %w", err)
		}
		if key.VenueIdentifier == "" {
			_ = sess.Close()
			return nil, errors.New("discover venue id: api key has no venue identifier")
		}
		c.venueID = key.VenueIdentifier
	}

	c.logger.Info().Str("venue_id", c.venueID).Bool("signer", c.signer != nil).Msg("client ready")
	return c, nil
}

// VenueID returns the caller's venue identifier, the first field of every trade hash.
func (c *Client) VenueID() string {
	return c.venueID
}

// Session returns the underlying authenticated session.
func (c *Client) Session() *session.Session {
	return c.session
}

// Close closes the underlying session.
func (c *Client) Close() error {
	return c.session.Close()
}

// GetAPIKey returns the key the client authenticates with.
func (c *Client) GetAPIKey(ctx context.Context) (core.APIKey, error) {
	return call[core.APIKey](ctx, c, core.NewRequest(http.MethodGet, "api-key"))
}

// ListSymbols returns the symbols traded on the exchange.
func (c *Client) ListSymbols(ctx context.Context) ([]core.Symbol, error) {
	return call[[]core.Symbol](ctx, c, core.NewRequest(http.MethodGet, "symbols"))
}

// call sends req and decodes the answer into a T.
func call[T any](ctx context.Context, c *Client, req *core.Request) (T, error) {
	var out T
	if _, err := c.session.Do(ctx, req, &out); err != nil {
		return out, err
	}
	return out, nil
}

// exec sends req and discards any answer body.
func (c *Client) exec(ctx context.Context, req *core.Request) error {
	_, err := c.session.Do(ctx, req, nil)
	return err
}

// path joins resource segments. Segments are used verbatim.
func path(segments ...string) string {
	p := ""
	for i, s := range segments {
		if i > 0 {
			p += "/"
		}
		p += s
	}
	return p
}

// DateRange bounds list calls. Zero times are left out of the query.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) apply(req *core.Request) *core.Request {
	return req.SetParam("from", r.From).SetParam("to", r.To)
}
