package core

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
)

// IdempotencyPolicy decides which X-Idempotency-ID a nonce recovery resend carries.
type IdempotencyPolicy string

const (
	// IdempotencyReuse resends with the original identifier so the server can
	// deduplicate a first attempt it already applied.
	IdempotencyReuse IdempotencyPolicy = "reuse"
	// IdempotencyRegenerate issues a fresh identifier for the resend.
	IdempotencyRegenerate IdempotencyPolicy = "regenerate"
)

// Nonce strategy names accepted by Config.NonceStrategy.
const (
	NonceStrategyCounter    = "counter"
	NonceStrategyTimeMicros = "time_micros"
)

// Credentials is the API key pair that authenticates requests.
type Credentials struct {
	// KeyID identifies the key to the exchange and appears in the Authorization header.
	KeyID string `json:"key_id" validate:"required"`
	// KeySecret participates in every request digest and is never transmitted.
	KeySecret string `json:"key_secret" validate:"required"`
}

// String masks both values so credentials are safe to print.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{KeyID: %s, KeySecret: %s}", mask(c.KeyID), mask(c.KeySecret))
}

func mask(v string) string {
	if len(v) <= 8 {
		return "****"
	}
	return v[:4] + "****" + v[len(v)-4:]
}

// Config contains all options for an authenticated exchange session.
type Config struct {
	BaseURL    string `json:"base_url" validate:"required,url"`
	SandboxURL string `json:"sandbox_url,omitempty" validate:"omitempty,url"`
	APIVersion string `json:"api_version" validate:"required"`

	Credentials *Credentials `json:"credentials,omitempty"`
	// VenueID is the caller's own customer identifier. When empty it is discovered
	// from the api-key resource.
	VenueID string `json:"venue_id,omitempty"`
	// SigningKeyFile is a PEM encoded EC private key used to sign settlement flows.
	SigningKeyFile string `json:"signing_key_file,omitempty"`

	NonceStrategy     string            `json:"nonce_strategy" validate:"omitempty,oneof=counter time_micros"`
	NonceSeed         int64             `json:"nonce_seed" validate:"min=0"`
	IdempotencyPolicy IdempotencyPolicy `json:"idempotency_policy" validate:"omitempty,oneof=reuse regenerate"`

	// Timeout is the maximum duration of one HTTP exchange.
	Timeout time.Duration `json:"timeout" validate:"min=1ms"`

	// RateLimitRequests per RateLimitPeriod paces outgoing requests. Zero disables pacing.
	RateLimitRequests int           `json:"rate_limit_requests" validate:"min=0"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" validate:"min=0"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config for baseURL with a 30s timeout, API version v1, a
// counter nonce seeded at 1, idempotency id reuse on resend and 600 requests per minute.
func DefaultConfig(baseURL string) *Config {
	return &Config{
		BaseURL:           baseURL,
		APIVersion:        "v1",
		NonceStrategy:     NonceStrategyCounter,
		NonceSeed:         1,
		IdempotencyPolicy: IdempotencyReuse,
		Timeout:           30 * time.Second,

		RateLimitRequests: 600,
		RateLimitPeriod:   time.Minute,

		LogLevel: "info",
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.RateLimitRequests > 0 && c.RateLimitPeriod <= 0 {
		return errors.New("RateLimitPeriod must be positive when RateLimitRequests is set")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Host == "" {
		return fmt.Errorf("BaseURL %q has no host", c.BaseURL)
	}
	return nil
}

// URLFor returns the base URL a request goes to. Sandbox requests use SandboxURL.
func (c *Config) URLFor(sandbox bool) (string, error) {
	if !sandbox {
		return c.BaseURL, nil
	}
	if c.SandboxURL == "" {
		return "", ErrSandboxNotConfigured
	}
	return c.SandboxURL, nil
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithSandboxURL sets the host sandbox routes are sent to and returns the config for chaining.
func (c *Config) WithSandboxURL(sandboxURL string) *Config {
	c.SandboxURL = sandboxURL
	return c
}

// WithAPIVersion sets the route version prefix and returns the config for chaining.
func (c *Config) WithAPIVersion(version string) *Config {
	c.APIVersion = version
	return c
}

// WithVenueID sets the caller's customer identifier and returns the config for chaining.
func (c *Config) WithVenueID(venueID string) *Config {
	c.VenueID = venueID
	return c
}

// WithSigningKeyFile sets the settlement signing key path and returns the config for chaining.
func (c *Config) WithSigningKeyFile(path string) *Config {
	c.SigningKeyFile = path
	return c
}

// WithNonce sets the nonce strategy and seed and returns the config for chaining.
func (c *Config) WithNonce(strategy string, seed int64) *Config {
	c.NonceStrategy = strategy
	c.NonceSeed = seed
	return c
}

// WithIdempotencyPolicy sets the resend idempotency policy and returns the config for chaining.
func (c *Config) WithIdempotencyPolicy(policy IdempotencyPolicy) *Config {
	c.IdempotencyPolicy = policy
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRateLimit sets the rate limiting parameters and returns the config for chaining.
func (c *Config) WithRateLimit(requests int, period time.Duration) *Config {
	c.RateLimitRequests = requests
	c.RateLimitPeriod = period
	return c
}

// WithLogLevel sets the session log level and returns the config for chaining.
func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}
