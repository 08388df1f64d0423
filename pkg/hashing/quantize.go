package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Scale is the number of fractional digits every amount is quantized to.
const Scale = 18

// zeroScientific is a zero coefficient at exponent -Scale in scientific form.
const zeroScientific = "0E-18"

// Separator joins fields and records in every canonical string.
const Separator = "|"

var (
	// ErrInvalidAmount is returned when an amount is not a finite decimal or does not fit
	// the canonical precision.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrHashMismatch is returned when a recomputed hash differs from the expected one.
	ErrHashMismatch = errors.New("hash mismatch")
)

// quantizeContext mirrors a default decimal context: 28 significant digits and
// banker's rounding.
var quantizeContext = apd.Context{
	Precision:   28,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Traps:       apd.DefaultTraps,
	Rounding:    apd.RoundHalfEven,
}

// Quantize parses amount and renders it with exactly Scale fractional digits.
// "1", "1.0" and "1.000" all yield "1.000000000000000000".
//
// Rendering follows the decimal to-scientific-string rule, so values whose adjusted
// exponent drops below -6 (zero included) come out in exponent form, e.g. "0E-18".
func Quantize(amount string) (string, error) {
	d, _, err := apd.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidAmount, amount, err)
	}
	return QuantizeDecimal(d)
}

// QuantizeDecimal is Quantize for an already parsed decimal.
func QuantizeDecimal(d *apd.Decimal) (string, error) {
	if d == nil || d.Form != apd.Finite {
		return "", fmt.Errorf("%w: not a finite number", ErrInvalidAmount)
	}
	var q apd.Decimal
	if _, err := quantizeContext.Quantize(&q, d, -Scale); err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrInvalidAmount, d.String(), err)
	}
	if q.IsZero() {
		// apd prints zero in plain notation whatever its exponent.
		if q.Negative {
			return "-" + zeroScientific, nil
		}
		return zeroScientific, nil
	}
	return q.String(), nil
}

// SHA256Hex returns the lowercase hex SHA-256 digest of the UTF-8 bytes of content.
func SHA256Hex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func join(fields ...string) string {
	return strings.Join(fields, Separator)
}
