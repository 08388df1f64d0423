package nonce

import "sync"

// DefaultSeed is the first value issued by a Counter sequencer.
const DefaultSeed int64 = 1

// Sequencer hands out nonces for a single credential. Next and Resync are mutually
// atomic.
type Sequencer struct {
	mu       sync.Mutex
	strategy Strategy
	last     int64
	issued   bool
	pinned   bool
}

// NewSequencer returns a sequencer whose first Counter value is seed. Seeds below one
// fall back to DefaultSeed.
func NewSequencer(strategy Strategy, seed int64) *Sequencer {
	if strategy == nil {
		strategy = counter{}
	}
	if seed < DefaultSeed {
		seed = DefaultSeed
	}
	return &Sequencer{strategy: strategy, last: seed - 1}
}

// Next returns a value strictly greater than every value returned before.
func (s *Sequencer) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if s.pinned {
		n = s.last + 1
		s.pinned = false
	} else {
		n = max(s.strategy.Propose(s.last), s.last+1)
	}
	s.last = n
	s.issued = true
	return n
}

// Resync records that the server has already seen highest. The next value is exactly
// highest+1, or last+1 when the sequencer is already past highest.
func (s *Sequencer) Resync(highest int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if highest > s.last {
		s.last = highest
	}
	s.pinned = true
}

// Last returns the most recently issued value and whether any has been issued.
func (s *Sequencer) Last() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.issued
}
