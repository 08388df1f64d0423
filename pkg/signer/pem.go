package signer

import (
	"crypto/ecdsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

const (
	blockECParameters = "EC PARAMETERS"
	blockECPrivateKey = "EC PRIVATE KEY"
	blockPKCS8        = "PRIVATE KEY"

	curveSecp256k1 = "secp256k1"
)

var (
	oidPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidSecp256k1      = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// SEC 1 ECPrivateKey.
type ecPrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// PKCS #8 PrivateKeyInfo.
type pkcs8 struct {
	Version    int
	Algo       pkix.AlgorithmIdentifier
	PrivateKey []byte
}

// LoadPEMFile reads a PEM encoded EC private key from path.
func LoadPEMFile(path string) (*ECDSASigner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}
	s, err := ParsePEM(data)
	if err != nil {
		return nil, fmt.Errorf("signing key %s: %w", path, err)
	}
	return s, nil
}

// ParsePEM builds a signer from the first private key block in data. Both SEC 1
// ("EC PRIVATE KEY") and PKCS #8 ("PRIVATE KEY") blocks are accepted, and a leading
// "EC PARAMETERS" block is used for the curve when the key omits it.
func ParsePEM(data []byte) (*ECDSASigner, error) {
	var params asn1.ObjectIdentifier
	for {
		block, rest := pem.Decode(data)
		if block == nil {
			return nil, ErrNoKey
		}
		data = rest

		switch block.Type {
		case blockECParameters:
			var oid asn1.ObjectIdentifier
			if _, err := asn1.Unmarshal(block.Bytes, &oid); err == nil {
				params = oid
			}
		case blockECPrivateKey:
			return parseSEC1(block.Bytes, params)
		case blockPKCS8:
			return parsePKCS8(block.Bytes)
		}
	}
}

func parseSEC1(der []byte, params asn1.ObjectIdentifier) (*ECDSASigner, error) {
	var raw ecPrivateKey
	if _, err := asn1.Unmarshal(der, &raw); err != nil {
		return nil, fmt.Errorf("parse ec private key: %w", err)
	}
	curve := raw.NamedCurveOID
	if len(curve) == 0 {
		curve = params
	}
	if curve.Equal(oidSecp256k1) {
		return secp256k1FromScalar(raw.PrivateKey)
	}

	key, err := x509.ParseECPrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKey, err)
	}
	return NewECDSASigner(key)
}

func parsePKCS8(der []byte) (*ECDSASigner, error) {
	var raw pkcs8
	if _, err := asn1.Unmarshal(der, &raw); err != nil {
		return nil, fmt.Errorf("parse pkcs8 private key: %w", err)
	}
	if !raw.Algo.Algorithm.Equal(oidPublicKeyECDSA) {
		return nil, fmt.Errorf("%w: algorithm %s", ErrUnsupportedKey, raw.Algo.Algorithm)
	}

	var curve asn1.ObjectIdentifier
	if _, err := asn1.Unmarshal(raw.Algo.Parameters.FullBytes, &curve); err != nil {
		return nil, fmt.Errorf("%w: missing named curve", ErrUnsupportedKey)
	}
	if curve.Equal(oidSecp256k1) {
		var inner ecPrivateKey
		if _, err := asn1.Unmarshal(raw.PrivateKey, &inner); err != nil {
			return nil, fmt.Errorf("parse ec private key: %w", err)
		}
		return secp256k1FromScalar(inner.PrivateKey)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKey, err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, parsed)
	}
	return NewECDSASigner(key)
}

func secp256k1FromScalar(d []byte) (*ECDSASigner, error) {
	if len(d) == 0 || len(d) > 32 {
		return nil, fmt.Errorf("%w: secp256k1 scalar of %d bytes", ErrUnsupportedKey, len(d))
	}
	padded := make([]byte, 32)
	copy(padded[32-len(d):], d)

	key, err := ec.PrivateKeyFromHex(hex.EncodeToString(padded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKey, err)
	}
	return NewSecp256k1Signer(key)
}
