// Package interval produces the randomized delays between keystroke cycles.
package interval

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand"
	"os"
	"time"

	"winfresh/internal/logging"
)

// Delay bounds must fall strictly inside this range, in seconds.
const (
	BoundFloor = 0.0
	BoundCeil  = 3600.0
)

// Bounds holds the minimum and maximum delay in seconds. Callers are
// expected to have normalized Min <= Max before sampling (the config
// loader swaps inverted bounds on load).
type Bounds struct {
	Min float64
	Max float64
}

// InRange reports whether v is a usable delay value.
func InRange(v float64) bool {
	return v > BoundFloor && v < BoundCeil
}

// Source draws delay values from the system's cryptographic random
// source, falling back to a seeded pseudo-random generator when the
// strong source fails. Sampling never returns an error: the fallback
// guarantees a usable value.
type Source struct {
	log      *logging.Logger
	fallback *mrand.Rand
}

// NewSource creates a Source. The fallback generator is seeded once from
// the wall clock, the high-resolution clock, and the process ID so that
// concurrent runs do not share a sequence.
func NewSource(log *logging.Logger) *Source {
	seed := time.Now().Unix() ^ time.Now().UnixNano() ^ int64(os.Getpid())
	return &Source{
		log:      log,
		fallback: mrand.New(mrand.NewSource(seed)),
	}
}

// Sample returns a random delay in [b.Min, b.Max) seconds. If the bounds
// span no range, b.Min is returned immediately.
func (s *Source) Sample(b Bounds) float64 {
	if b.Min >= b.Max {
		s.log.Debugf("Sample: min %.2f >= max %.2f, returning min.", b.Min, b.Max)
		return b.Min
	}
	return b.Min + s.scalar()*(b.Max-b.Min)
}

// scalar returns a value in [0, 1).
func (s *Source) scalar() float64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		s.log.Errorf("Sample: crypto random source failed: %v. Falling back to pseudo-random.", err)
		return s.fallback.Float64()
	}
	// Keep 53 bits so the quotient is uniform over representable floats.
	v := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(v) / (1 << 53)
}

// Duration converts a delay in seconds to a time.Duration.
func Duration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
