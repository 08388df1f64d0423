package hashing

import (
	"fmt"
	"time"
)

// ExecutionDateLayout renders an execution date with millisecond precision and a numeric
// UTC offset ("+00:00" for UTC).
const ExecutionDateLayout = "2006-01-02T15:04:05.000-07:00"

// TradeRecord is the trade content bound by a trade hash. Field order in the canonical
// string is fixed by this schema, not by the data.
type TradeRecord struct {
	VenueID        string
	CounterpartyID string
	TradeID        string
	Side           string
	BaseSymbol     string
	TermSymbol     string
	Dealt          string
	Rate           string
	Counter        string
	ExecutionDate  time.Time
}

// Canonical returns the pipe-delimited string hashed by TradeHash.
func (t TradeRecord) Canonical() (string, error) {
	dealt, err := Quantize(t.Dealt)
	if err != nil {
		return "", fmt.Errorf("dealt: %w", err)
	}
	rate, err := Quantize(t.Rate)
	if err != nil {
		return "", fmt.Errorf("rate: %w", err)
	}
	counter, err := Quantize(t.Counter)
	if err != nil {
		return "", fmt.Errorf("counter: %w", err)
	}

	return join(
		t.VenueID,
		t.CounterpartyID,
		t.TradeID,
		t.Side,
		t.BaseSymbol,
		t.TermSymbol,
		dealt,
		rate,
		counter,
		t.ExecutionDate.Format(ExecutionDateLayout),
	), nil
}

// TradeHash returns the hex SHA-256 of the trade's canonical string.
func TradeHash(t TradeRecord) (string, error) {
	content, err := t.Canonical()
	if err != nil {
		return "", fmt.Errorf("trade %s: %w", t.TradeID, err)
	}
	return SHA256Hex(content), nil
}

// Verify recomputes the trade hash and compares it with expected.
func (t TradeRecord) Verify(expected string) error {
	actual, err := TradeHash(t)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("trade %s: %w: computed %s, expected %s", t.TradeID, ErrHashMismatch, actual, expected)
	}
	return nil
}
