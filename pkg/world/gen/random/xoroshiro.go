package random

import (
	"crypto/md5"
	"encoding/binary"
	"math/bits"
)

const (
	goldenRatio64 = -7046029254386353131
	silverRatio64 = 7640891576956012809
)

// Xoroshiro is the xoroshiro128++ generator.
type Xoroshiro struct {
	lo, hi int64
	g      gaussian
}

// NewXoroshiro creates a Xoroshiro source from a 64-bit seed, upgraded to
// 128 bits through the Stafford mixer.
func NewXoroshiro(seed int64) *Xoroshiro {
	x := &Xoroshiro{}
	x.SetSeed(seed)
	return x
}

// NewXoroshiroState creates a Xoroshiro source from raw 128-bit state.
func NewXoroshiroState(lo, hi int64) *Xoroshiro {
	if lo == 0 && hi == 0 {
		lo, hi = goldenRatio64, silverRatio64
	}
	return &Xoroshiro{lo: lo, hi: hi}
}

func (x *Xoroshiro) SetSeed(seed int64) {
	lo := seed ^ silverRatio64
	hi := lo + goldenRatio64
	*x = *NewXoroshiroState(stafford13(lo), stafford13(hi))
}

func (x *Xoroshiro) nextLong() int64 {
	lo, hi := uint64(x.lo), uint64(x.hi)
	n := bits.RotateLeft64(lo+hi, 17) + lo
	hi ^= lo
	x.lo = int64(bits.RotateLeft64(lo, 49) ^ hi ^ hi<<21)
	x.hi = int64(bits.RotateLeft64(hi, 28))
	return int64(n)
}

func (x *Xoroshiro) nextBits(n uint) int64 {
	return int64(uint64(x.nextLong()) >> (64 - n))
}

func (x *Xoroshiro) NextInt() int32 { return int32(x.nextLong()) }

func (x *Xoroshiro) NextBoundedInt(bound int32) int32 {
	if bound <= 0 {
		return boundWarning(bound)
	}
	b := uint64(bound)
	m := uint64(uint32(x.NextInt())) * b
	low := m & 0xFFFFFFFF
	if low < b {
		threshold := uint64(uint32(-bound) % uint32(bound))
		for low < threshold {
			m = uint64(uint32(x.NextInt())) * b
			low = m & 0xFFFFFFFF
		}
	}
	return int32(m >> 32)
}

func (x *Xoroshiro) NextIntBetween(lo, hi int32) int32 { return betweenInclusive(x, lo, hi) }

func (x *Xoroshiro) NextLong() int64 { return x.nextLong() }

func (x *Xoroshiro) NextBool() bool { return x.nextLong()&1 != 0 }

func (x *Xoroshiro) NextFloat() float32 {
	return float32(x.nextBits(24)) * (1.0 / (1 << 24))
}

func (x *Xoroshiro) NextDouble() float64 {
	return float64(x.nextBits(53)) * (1.0 / (1 << 53))
}

func (x *Xoroshiro) NextGaussian() float64 { return x.g.sample(x.NextDouble) }

func (x *Xoroshiro) Consume(n int) {
	for i := 0; i < n; i++ {
		x.nextLong()
	}
}

func (x *Xoroshiro) Fork(salt int64) Source {
	return NewXoroshiroState(x.lo^stafford13(salt), x.hi^stafford13(salt^goldenRatio64))
}

func (x *Xoroshiro) Split() Source {
	lo := x.nextLong()
	hi := x.nextLong()
	return NewXoroshiroState(lo, hi)
}

func (x *Xoroshiro) ForkPositional() Positional {
	lo := x.nextLong()
	hi := x.nextLong()
	return XoroshiroPositional{lo: lo, hi: hi}
}

// XoroshiroPositional derives Xoroshiro sources from positions and names.
type XoroshiroPositional struct {
	lo, hi int64
}

func (p XoroshiroPositional) At(x, y, z int) Source {
	return NewXoroshiroState(PositionSeed(x, y, z)^p.lo, p.hi)
}

// FromHashOf keys the source by the MD5 digest of name.
func (p XoroshiroPositional) FromHashOf(name string) Source {
	sum := md5.Sum([]byte(name))
	lo := int64(binary.BigEndian.Uint64(sum[:8]))
	hi := int64(binary.BigEndian.Uint64(sum[8:]))
	return NewXoroshiroState(lo^p.lo, hi^p.hi)
}

func (p XoroshiroPositional) FromSeed(seed int64) Source {
	return NewXoroshiroState(seed^p.lo, seed^p.hi)
}
