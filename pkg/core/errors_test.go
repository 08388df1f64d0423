package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StatusError
		want string
	}{
		{
			name: "with_messages",
			err: &StatusError{
				Code:       ErrCodeValidation,
				StatusCode: 422,
				Method:     "POST",
				URL:        "https://api.exchange.test/v1/trades",
				Messages:   []string{"dealt is required", "rate is required"},
			},
			want: "POST https://api.exchange.test/v1/trades: unexpected status 422 (VALIDATION): dealt is required; rate is required",
		},
		{
			name: "raw_body",
			err: &StatusError{
				Code:       ErrCodeServerError,
				StatusCode: 502,
				Method:     "GET",
				URL:        "https://api.exchange.test/v1/symbols",
				Body:       []byte("bad gateway"),
			},
			want: "GET https://api.exchange.test/v1/symbols: unexpected status 502 (SERVER_ERROR): bad gateway",
		},
		{
			name: "resent",
			err: &StatusError{
				Code:       ErrCodeStaleNonce,
				StatusCode: 401,
				Method:     "GET",
				URL:        "https://api.exchange.test/v1/api-key",
				Messages:   []string{"The nonce is too low. The highest used nonce is 7"},
				Resent:     true,
			},
			want: "after nonce resync: GET https://api.exchange.test/v1/api-key: unexpected status 401 (STALE_NONCE): The nonce is too low. The highest used nonce is 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestStatusError_Is(t *testing.T) {
	first := &StatusError{Code: ErrCodeStaleNonce, StatusCode: 401}
	resent := &StatusError{Code: ErrCodeStaleNonce, StatusCode: 401, Resent: true}

	assert.False(t, errors.Is(first, ErrNonceRecoveryExhausted))
	assert.True(t, errors.Is(resent, ErrNonceRecoveryExhausted))
	assert.True(t, errors.Is(fmt.Errorf("list trades: %w", resent), ErrNonceRecoveryExhausted))
}

func TestStatusError_Message(t *testing.T) {
	assert.Empty(t, (&StatusError{}).Message())
	assert.Equal(t, "first", (&StatusError{Messages: []string{"first", "second"}}).Message())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name             string
		err              error
		wantNotFound     bool
		wantValidation   bool
		wantAuth         bool
		wantStaleNonce   bool
		wantCodeMatching ErrorCode
	}{
		{"not_found", &StatusError{Code: ErrCodeNotFound}, true, false, false, false, ErrCodeNotFound},
		{"validation", &StatusError{Code: ErrCodeValidation}, false, true, false, false, ErrCodeValidation},
		{"unauthorized", &StatusError{Code: ErrCodeUnauthorized}, false, false, true, false, ErrCodeUnauthorized},
		{"stale_nonce_wrapped", fmt.Errorf("get trade: %w", &StatusError{Code: ErrCodeStaleNonce}), false, false, true, true, ErrCodeStaleNonce},
		{"plain_error", errors.New("connection refused"), false, false, false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNotFound, IsNotFound(tt.err))
			assert.Equal(t, tt.wantValidation, IsValidation(tt.err))
			assert.Equal(t, tt.wantAuth, IsAuthentication(tt.err))
			assert.Equal(t, tt.wantStaleNonce, IsStaleNonce(tt.err))
			if tt.wantCodeMatching != "" {
				assert.True(t, IsErrorCode(tt.err, tt.wantCodeMatching))
			}
			assert.False(t, IsErrorCode(tt.err, ErrCodeRateLimit))
		})
	}
}
