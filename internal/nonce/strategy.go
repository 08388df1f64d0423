// Package nonce issues strictly increasing per-credential nonces.
package nonce

import (
	"fmt"
	"time"
)

// Kind selects how a Sequencer derives new values.
type Kind int

const (
	// Counter starts from a seed and adds one per request.
	Counter Kind = iota
	// TimeMicros uses the current Unix time in microseconds, clamped above the last value.
	TimeMicros
)

func (k Kind) String() string {
	if k < Counter || k > TimeMicros {
		return "unknown"
	}
	return [...]string{"counter", "time_micros"}[k]
}

// ParseKind maps a configuration value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "counter":
		return Counter, nil
	case "time_micros":
		return TimeMicros, nil
	default:
		return Counter, fmt.Errorf("unknown nonce strategy %q", s)
	}
}

// Strategy proposes the next nonce given the last issued one. The Sequencer enforces
// strict monotonicity on whatever a Strategy returns.
type Strategy interface {
	Propose(last int64) int64
}

type counter struct{}

func (counter) Propose(last int64) int64 { return last + 1 }

// Clock returns the current time.
type Clock func() time.Time

type timeMicros struct {
	now Clock
}

func (s timeMicros) Propose(last int64) int64 {
	return max(s.now().UnixMicro(), last+1)
}

// NewStrategy returns the Strategy for kind. now is only used by TimeMicros and
// defaults to time.Now.
func NewStrategy(kind Kind, now Clock) Strategy {
	if kind == TimeMicros {
		if now == nil {
			now = time.Now
		}
		return timeMicros{now: now}
	}
	return counter{}
}
