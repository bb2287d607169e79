package dice

import (
	"math/rand/v2"
	"sync"
)

// Source supplies uniform random integers.
//
// Implementations shared between goroutines must be safe for concurrent use.
type Source interface {
	// IntN returns a uniform random int in [0, n). n is always > 0.
	IntN(n int) int
}

// globalSource draws from the math/rand/v2 top-level generator, which is
// safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// lockedSource serializes access to a seeded generator.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// NewSource returns a deterministic Source seeded with seed.
// The returned Source is safe for concurrent use.
func NewSource(seed uint64) Source {
	return NewSourceWithStream(seed, 0)
}

// NewSourceWithStream is like NewSource but selects an independent stream,
// so callers can derive many distinct sources from one seed.
func NewSourceWithStream(seed, stream uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, stream))}
}

// DefaultSource returns the process-wide Source.
func DefaultSource() Source {
	return globalSource{}
}
