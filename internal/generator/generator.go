// Package generator provides random sources for drawing target numbers.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// ErrInvalidRange is returned when a draw is requested with min > max.
var ErrInvalidRange = errors.New("invalid range")

// Source draws an integer uniformly from the closed range [min, max].
type Source interface {
	Next(min, max int) (int, error)
}

// Generator is the production Source backed by math/rand.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator whose sequence is fully determined by seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Next returns a value in [min, max]. Any valid range is accepted, including
// spans wider than math.MaxInt.
func (g *Generator) Next(min, max int) (int, error) {
	if err := checkRange(min, max); err != nil {
		return 0, err
	}
	span := uint64(max) - uint64(min)
	return min + int(g.offset(span)), nil
}

// offset draws uniformly from [0, span]. The sum min+offset wraps back into
// [min, max] when offset exceeds math.MaxInt.
func (g *Generator) offset(span uint64) uint64 {
	if span == math.MaxUint64 {
		return g.rnd.Uint64()
	}
	if span < math.MaxInt64 {
		return uint64(g.rnd.Int63n(int64(span) + 1))
	}
	n := span + 1
	// Values below threshold would bias the modulo.
	threshold := -n % n
	for {
		if v := g.rnd.Uint64(); v >= threshold {
			return v % n
		}
	}
}

// Scripted replays a fixed sequence of values, cycling when exhausted.
// Values are returned as given, even when they fall outside [min, max].
type Scripted struct {
	values []int
	pos    int
}

// NewScripted returns a Source that yields values in order.
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: append([]int(nil), values...)}
}

// Next returns the next scripted value.
func (s *Scripted) Next(min, max int) (int, error) {
	if err := checkRange(min, max); err != nil {
		return 0, err
	}
	if len(s.values) == 0 {
		return min, nil
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v, nil
}

// Calls reports how many values have been drawn.
func (s *Scripted) Calls() int {
	return s.pos
}

func checkRange(min, max int) error {
	if min > max {
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, min, max)
	}
	return nil
}
