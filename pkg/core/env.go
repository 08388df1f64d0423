package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv.
const (
	EnvBaseURL           = "EXCHANGE_BASE_URL"
	EnvSandboxURL        = "EXCHANGE_SANDBOX_URL"
	EnvAPIVersion        = "EXCHANGE_API_VERSION"
	EnvKeyID             = "EXCHANGE_KEY_ID"
	EnvKeySecret         = "EXCHANGE_KEY_SECRET"
	EnvVenueID           = "EXCHANGE_VENUE_ID"
	EnvSigningKeyFile    = "EXCHANGE_SIGNING_KEY_FILE"
	EnvNonceStrategy     = "EXCHANGE_NONCE_STRATEGY"
	EnvNonceSeed         = "EXCHANGE_NONCE_SEED"
	EnvIdempotencyPolicy = "EXCHANGE_IDEMPOTENCY_POLICY"
	EnvTimeout           = "EXCHANGE_TIMEOUT"
	EnvRateLimitRequests = "EXCHANGE_RATE_LIMIT_REQUESTS"
	EnvRateLimitPeriod   = "EXCHANGE_RATE_LIMIT_PERIOD"
	EnvLogLevel          = "EXCHANGE_LOG_LEVEL"
)

// LoadEnv builds a Config from EXCHANGE_* variables over DefaultConfig. The given
// .env files are loaded first and must exist; without arguments an optional ./.env is
// loaded. Variables already set in the process environment take precedence.
func LoadEnv(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	cfg := DefaultConfig(getEnv(EnvBaseURL, ""))
	cfg.SandboxURL = getEnv(EnvSandboxURL, cfg.SandboxURL)
	cfg.APIVersion = getEnv(EnvAPIVersion, cfg.APIVersion)
	cfg.VenueID = getEnv(EnvVenueID, cfg.VenueID)
	cfg.SigningKeyFile = getEnv(EnvSigningKeyFile, cfg.SigningKeyFile)
	cfg.NonceStrategy = getEnv(EnvNonceStrategy, cfg.NonceStrategy)
	cfg.IdempotencyPolicy = IdempotencyPolicy(getEnv(EnvIdempotencyPolicy, string(cfg.IdempotencyPolicy)))
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)

	if keyID, secret := getEnv(EnvKeyID, ""), getEnv(EnvKeySecret, ""); keyID != "" || secret != "" {
		cfg.Credentials = &Credentials{KeyID: keyID, KeySecret: secret}
	}

	var err error
	if cfg.NonceSeed, err = getEnvInt(EnvNonceSeed, cfg.NonceSeed); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = getEnvDuration(EnvTimeout, cfg.Timeout); err != nil {
		return nil, err
	}
	requests, err := getEnvInt(EnvRateLimitRequests, int64(cfg.RateLimitRequests))
	if err != nil {
		return nil, err
	}
	cfg.RateLimitRequests = int(requests)
	if cfg.RateLimitPeriod, err = getEnvDuration(EnvRateLimitPeriod, cfg.RateLimitPeriod); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid environment config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) (int64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
