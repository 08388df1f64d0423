package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig("https://api.exchange.test")

	assert.Equal(t, "https://api.exchange.test", config.BaseURL)
	assert.Empty(t, config.SandboxURL)
	assert.Equal(t, "v1", config.APIVersion)
	assert.Equal(t, NonceStrategyCounter, config.NonceStrategy)
	assert.Equal(t, int64(1), config.NonceSeed)
	assert.Equal(t, IdempotencyReuse, config.IdempotencyPolicy)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 600, config.RateLimitRequests)
	assert.Equal(t, time.Minute, config.RateLimitPeriod)
	assert.Equal(t, "info", config.LogLevel)
	assert.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return DefaultConfig("https://api.exchange.test").
			WithCredentials(&Credentials{KeyID: "key", KeySecret: "secret"})
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid_config",
			config: valid(),
		},
		{
			name:    "empty_base_url",
			config:  &Config{APIVersion: "v1", Timeout: time.Second},
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name:    "base_url_not_a_url",
			config:  &Config{BaseURL: "not a url", APIVersion: "v1", Timeout: time.Second},
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name:    "invalid_sandbox_url",
			config:  valid().WithSandboxURL("::nope"),
			wantErr: true,
			errMsg:  "SandboxURL",
		},
		{
			name:    "missing_api_version",
			config:  valid().WithAPIVersion(""),
			wantErr: true,
			errMsg:  "APIVersion",
		},
		{
			name:    "missing_key_secret",
			config:  valid().WithCredentials(&Credentials{KeyID: "key"}),
			wantErr: true,
			errMsg:  "KeySecret",
		},
		{
			name:    "unknown_nonce_strategy",
			config:  valid().WithNonce("random", 1),
			wantErr: true,
			errMsg:  "NonceStrategy",
		},
		{
			name:    "negative_nonce_seed",
			config:  valid().WithNonce(NonceStrategyCounter, -1),
			wantErr: true,
			errMsg:  "NonceSeed",
		},
		{
			name:    "unknown_idempotency_policy",
			config:  valid().WithIdempotencyPolicy("sometimes"),
			wantErr: true,
			errMsg:  "IdempotencyPolicy",
		},
		{
			name:    "invalid_timeout",
			config:  valid().WithTimeout(-1 * time.Second),
			wantErr: true,
			errMsg:  "Timeout",
		},
		{
			name:    "invalid_log_level",
			config:  valid().WithLogLevel("verbose"),
			wantErr: true,
			errMsg:  "LogLevel",
		},
		{
			name:    "rate_limit_without_period",
			config:  valid().WithRateLimit(10, 0),
			wantErr: true,
			errMsg:  "RateLimitPeriod",
		},
		{
			name:   "rate_limit_disabled",
			config: valid().WithRateLimit(0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), tt.errMsg), "expected error to contain %q, got %q", tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_URLFor(t *testing.T) {
	config := DefaultConfig("https://api.exchange.test")

	u, err := config.URLFor(false)
	require.NoError(t, err)
	assert.Equal(t, "https://api.exchange.test", u)

	_, err = config.URLFor(true)
	assert.ErrorIs(t, err, ErrSandboxNotConfigured)

	config.WithSandboxURL("https://sandbox.exchange.test")
	u, err = config.URLFor(true)
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.exchange.test", u)
}

func TestConfig_Setters(t *testing.T) {
	config := DefaultConfig("https://api.exchange.test")
	creds := &Credentials{KeyID: "key", KeySecret: "secret"}

	result := config.
		WithCredentials(creds).
		WithVenueID("123456").
		WithSigningKeyFile("/keys/signing.pem").
		WithNonce(NonceStrategyTimeMicros, 0).
		WithIdempotencyPolicy(IdempotencyRegenerate).
		WithRateLimit(100, 10*time.Second).
		WithLogLevel("debug")

	assert.Same(t, config, result)
	assert.Equal(t, creds, config.Credentials)
	assert.Equal(t, "123456", config.VenueID)
	assert.Equal(t, "/keys/signing.pem", config.SigningKeyFile)
	assert.Equal(t, NonceStrategyTimeMicros, config.NonceStrategy)
	assert.Equal(t, int64(0), config.NonceSeed)
	assert.Equal(t, IdempotencyRegenerate, config.IdempotencyPolicy)
	assert.Equal(t, 100, config.RateLimitRequests)
	assert.Equal(t, 10*time.Second, config.RateLimitPeriod)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestCredentials_String(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{"long values", Credentials{KeyID: "abcd1234efgh", KeySecret: "s3cr3t-v4lu3-xyz"}, "Credentials{KeyID: abcd****efgh, KeySecret: s3cr****-xyz}"},
		{"short values", Credentials{KeyID: "key", KeySecret: "secret"}, "Credentials{KeyID: ****, KeySecret: ****}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.creds.String())
			assert.NotContains(t, tt.creds.String(), tt.creds.KeySecret)
		})
	}
}
