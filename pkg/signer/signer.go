// Package signer produces the detached ECDSA signature the exchange requires over a
// settlement flow hash before it accepts a settlement request.
//
// A signature is base64(DER(ECDSA(SHA-256(content)))). Keys on the NIST curves are
// handled by crypto/ecdsa; secp256k1 keys go through the go-sdk ec primitives.
package signer

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

var (
	// ErrUnsupportedKey is returned for keys that are not ECDSA private keys on a
	// supported curve.
	ErrUnsupportedKey = errors.New("unsupported signing key")
	// ErrNoKey is returned when the input holds no private key block.
	ErrNoKey = errors.New("no private key found")
)

// Signer signs settlement flow hashes.
type Signer interface {
	Sign(content string) (string, error)
}

// ECDSASigner signs with a fixed private key. It is safe for concurrent use.
type ECDSASigner struct {
	curve string
	sign  func(digest []byte) ([]byte, error)
}

var _ Signer = (*ECDSASigner)(nil)

// NewECDSASigner wraps a private key on a NIST curve.
func NewECDSASigner(key *ecdsa.PrivateKey) (*ECDSASigner, error) {
	if key == nil || key.Curve == nil {
		return nil, fmt.Errorf("%w: nil key", ErrUnsupportedKey)
	}
	return &ECDSASigner{
		curve: key.Curve.Params().Name,
		sign: func(digest []byte) ([]byte, error) {
			return ecdsa.SignASN1(rand.Reader, key, digest)
		},
	}, nil
}

// NewSecp256k1Signer wraps a secp256k1 private key. Signatures are deterministic
// (RFC 6979) and low-S.
func NewSecp256k1Signer(key *ec.PrivateKey) (*ECDSASigner, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: nil key", ErrUnsupportedKey)
	}
	return &ECDSASigner{
		curve: curveSecp256k1,
		sign: func(digest []byte) ([]byte, error) {
			sig, err := key.Sign(digest)
			if err != nil {
				return nil, err
			}
			return sig.Serialize(), nil
		},
	}, nil
}

// Curve names the curve of the wrapped key, e.g. "P-256" or "secp256k1".
func (s *ECDSASigner) Curve() string {
	return s.curve
}

// Sign hashes content with SHA-256 and returns the base64 DER signature.
func (s *ECDSASigner) Sign(content string) (string, error) {
	digest := sha256.Sum256([]byte(content))
	der, err := s.sign(digest[:])
	if err != nil {
		return "", fmt.Errorf("sign with %s key: %w", s.curve, err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}
