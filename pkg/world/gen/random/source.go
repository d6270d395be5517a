// Package random implements the deterministic random sources used by world
// generation: the 48-bit legacy LCG and xoroshiro128++. Both reproduce the
// reference output sequences bit for bit for a given seed.
package random

import (
	"fmt"
	"math"
	"strings"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
)

// Source is a seeded random generator. A Source is owned by a single
// generation task and must not be shared between goroutines.
type Source interface {
	// SetSeed resets the generator state from seed.
	SetSeed(seed int64)
	NextInt() int32
	// NextBoundedInt returns a value in [0, bound). A non-positive bound logs a
	// warning and returns 0.
	NextBoundedInt(bound int32) int32
	// NextIntBetween returns a value in [lo, hi]. lo > hi logs a warning and
	// returns lo.
	NextIntBetween(lo, hi int32) int32
	NextLong() int64
	NextBool() bool
	NextFloat() float32
	NextDouble() float64
	NextGaussian() float64
	// Consume advances the generator by n int draws.
	Consume(n int)
	// Fork derives an independent source from the current state and salt
	// without advancing this source.
	Fork(salt int64) Source
	// Split derives a new source from draws of this one, advancing it.
	Split() Source
	// ForkPositional derives a positional factory from draws of this source.
	ForkPositional() Positional
}

// Positional creates sources keyed by a block position or a name.
type Positional interface {
	At(x, y, z int) Source
	FromHashOf(name string) Source
	FromSeed(seed int64) Source
}

// Algorithm selects a Source implementation.
type Algorithm uint8

const (
	AlgorithmLegacy Algorithm = iota
	AlgorithmXoroshiro
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmLegacy:
		return "legacy"
	case AlgorithmXoroshiro:
		return "xoroshiro"
	}
	return fmt.Sprintf("algorithm(%d)", uint8(a))
}

// ParseAlgorithm parses the configuration name of an algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy", "lcg", "java":
		return AlgorithmLegacy, nil
	case "xoroshiro", "xoroshiro128++":
		return AlgorithmXoroshiro, nil
	}
	return 0, fmt.Errorf("unknown random algorithm %q", s)
}

// New creates a Source of the given algorithm seeded with seed.
func New(a Algorithm, seed int64) Source {
	if a == AlgorithmXoroshiro {
		return NewXoroshiro(seed)
	}
	return NewLegacy(seed)
}

// PositionSeed hashes a block position into a seed.
func PositionSeed(x, y, z int) int64 {
	l := int64(int32(x)*3129871) ^ int64(z)*116129781 ^ int64(y)
	l = l*l*42317861 + l*11
	return l >> 16
}

// javaStringHash is String.hashCode over UTF-16 code units.
func javaStringHash(s string) int32 {
	var h int32
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			h = 31*h + int32(0xD800+(r>>10))
			h = 31*h + int32(0xDC00+(r&0x3FF))
			continue
		}
		h = 31*h + int32(r)
	}
	return h
}

func boundWarning(bound int32) int32 {
	diag.Warn("random bound must be positive", "bound", bound)
	return 0
}

func betweenInclusive(r Source, lo, hi int32) int32 {
	if lo > hi {
		diag.Warn("empty random range", "min", lo, "max", hi)
		return lo
	}
	return r.NextBoundedInt(hi-lo+1) + lo
}

// gaussian is the Marsaglia polar method shared by both algorithms.
type gaussian struct {
	next float64
	have bool
}

func (g *gaussian) sample(nextDouble func() float64) float64 {
	if g.have {
		g.have = false
		return g.next
	}
	for {
		v1 := 2*nextDouble() - 1
		v2 := 2*nextDouble() - 1
		s := float64(v1*v1) + float64(v2*v2)
		if s >= 1 || s == 0 {
			continue
		}
		m := sqrtLog(s)
		g.next = v2 * m
		g.have = true
		return v1 * m
	}
}

func (g *gaussian) reset() { g.have = false }

func sqrtLog(s float64) float64 {
	return math.Sqrt(-2 * math.Log(s) / s)
}

// stafford13 is the Stafford variant 13 64-bit mixer.
func stafford13(v int64) int64 {
	u := uint64(v)
	u = (u ^ u>>30) * 0xBF58476D1CE4E5B9
	u = (u ^ u>>27) * 0x94D049BB133111EB
	return int64(u ^ u>>31)
}
