package random

const (
	lcgMultiplier = 0x5DEECE66D
	lcgAddend     = 0xB
	lcgMask       = 1<<48 - 1
)

// Legacy is the 48-bit linear congruential generator of java.util.Random.
type Legacy struct {
	seed int64
	g    gaussian
}

// NewLegacy creates a Legacy source seeded with seed.
func NewLegacy(seed int64) *Legacy {
	l := &Legacy{}
	l.SetSeed(seed)
	return l
}

func (l *Legacy) SetSeed(seed int64) {
	l.seed = (seed ^ lcgMultiplier) & lcgMask
	l.g.reset()
}

func (l *Legacy) next(bits uint) int32 {
	l.seed = (l.seed*lcgMultiplier + lcgAddend) & lcgMask
	return int32(l.seed >> (48 - bits))
}

func (l *Legacy) NextInt() int32 { return l.next(32) }

func (l *Legacy) NextBoundedInt(bound int32) int32 {
	if bound <= 0 {
		return boundWarning(bound)
	}
	if bound&(bound-1) == 0 {
		return int32(int64(bound) * int64(l.next(31)) >> 31)
	}
	for {
		bits := l.next(31)
		val := bits % bound
		// int32 overflow here means the draw fell in the biased tail.
		if bits-val+(bound-1) >= 0 {
			return val
		}
	}
}

func (l *Legacy) NextIntBetween(lo, hi int32) int32 { return betweenInclusive(l, lo, hi) }

func (l *Legacy) NextLong() int64 {
	hi := int64(l.next(32))
	lo := int64(l.next(32))
	return hi<<32 + lo
}

func (l *Legacy) NextBool() bool { return l.next(1) != 0 }

func (l *Legacy) NextFloat() float32 {
	return float32(l.next(24)) * (1.0 / (1 << 24))
}

func (l *Legacy) NextDouble() float64 {
	hi := int64(l.next(26))
	lo := int64(l.next(27))
	return float64(hi<<27+lo) * (1.0 / (1 << 53))
}

func (l *Legacy) NextGaussian() float64 { return l.g.sample(l.NextDouble) }

func (l *Legacy) Consume(n int) {
	for i := 0; i < n; i++ {
		l.next(32)
	}
}

func (l *Legacy) Fork(salt int64) Source {
	return NewLegacy(l.seed ^ stafford13(salt))
}

func (l *Legacy) Split() Source { return NewLegacy(l.NextLong()) }

func (l *Legacy) ForkPositional() Positional {
	return LegacyPositional{seed: l.NextLong()}
}

// LegacyPositional derives Legacy sources from positions and names.
type LegacyPositional struct {
	seed int64
}

func (p LegacyPositional) At(x, y, z int) Source {
	return NewLegacy(PositionSeed(x, y, z) ^ p.seed)
}

func (p LegacyPositional) FromHashOf(name string) Source {
	return NewLegacy(int64(javaStringHash(name)) ^ p.seed)
}

func (p LegacyPositional) FromSeed(seed int64) Source { return NewLegacy(seed) }
