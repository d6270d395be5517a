package noise

import (
	"fmt"
	"math"
	"strconv"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// Parameters describe an octave noise: the exponent of the lowest octave and
// one amplitude per octave. Parameters are shared read-only.
type Parameters struct {
	FirstOctave int       `json:"firstOctave"`
	Amplitudes  []float64 `json:"amplitudes"`
}

// NewParameters copies amplitudes into a new Parameters value.
func NewParameters(firstOctave int, amplitudes ...float64) *Parameters {
	return &Parameters{FirstOctave: firstOctave, Amplitudes: append([]float64(nil), amplitudes...)}
}

// Validate reports parameters that cannot build a sampler.
func (p *Parameters) Validate() error {
	if len(p.Amplitudes) == 0 {
		return fmt.Errorf("noise parameters: no amplitudes")
	}
	for _, a := range p.Amplitudes {
		if a != 0 {
			return nil
		}
	}
	return fmt.Errorf("noise parameters: all amplitudes are zero")
}

const wrapPeriod = 3.3554432e7

// Perlin sums octaves of Improved noise with doubling frequency and halving
// amplitude weight.
type Perlin struct {
	levels      []*Improved
	amplitudes  []float64
	firstOctave int
	inputFactor float64
	valueFactor float64
	maxValue    float64
}

// NewPerlin builds an octave sampler keyed per octave through a positional
// factory forked from r.
func NewPerlin(r random.Source, p *Parameters) *Perlin {
	n := newPerlinShape(p)
	factory := r.ForkPositional()
	for k, a := range n.amplitudes {
		if a == 0 {
			continue
		}
		n.levels[k] = NewImproved(factory.FromHashOf("octave_" + strconv.Itoa(n.firstOctave+k)))
	}
	n.finish()
	return n
}

// NewLegacyPerlin builds an octave sampler by drawing octaves sequentially
// from r, highest frequency first. Octaves above 1 are not supported.
func NewLegacyPerlin(r random.Source, p *Parameters) (*Perlin, error) {
	n := newPerlinShape(p)
	size := len(n.amplitudes)
	j := -n.firstOctave
	if j < size-1 {
		return nil, fmt.Errorf("legacy perlin noise: positive octaves are not supported (first octave %d, %d amplitudes)", n.firstOctave, size)
	}

	first := NewImproved(r)
	if j >= 0 && j < size && n.amplitudes[j] != 0 {
		n.levels[j] = first
	}
	for k := j - 1; k >= 0; k-- {
		if k < size && n.amplitudes[k] != 0 {
			n.levels[k] = NewImproved(r)
			continue
		}
		skipOctave(r)
	}
	n.finish()
	return n, nil
}

func newPerlinShape(p *Parameters) *Perlin {
	return &Perlin{
		levels:      make([]*Improved, len(p.Amplitudes)),
		amplitudes:  p.Amplitudes,
		firstOctave: p.FirstOctave,
	}
}

func (n *Perlin) finish() {
	size := len(n.amplitudes)
	n.inputFactor = math.Pow(2, float64(n.firstOctave))
	n.valueFactor = math.Pow(2, float64(size-1)) / (math.Pow(2, float64(size)) - 1)
	n.maxValue = n.edgeValue(2)
}

// skipOctave consumes the draws one Improved lattice would have taken.
func skipOctave(r random.Source) { r.Consume(262) }

// Sample returns the summed octave value at (x, y, z).
func (n *Perlin) Sample(x, y, z float64) float64 {
	var sum float64
	in := n.inputFactor
	val := n.valueFactor
	for i, level := range n.levels {
		if level != nil {
			v := level.SampleScaled(wrap(float64(x*in)), wrap(float64(y*in)), wrap(float64(z*in)), 0, 0)
			sum += float64(float64(n.amplitudes[i]*v) * val)
		}
		in *= 2
		val /= 2
	}
	return sum
}

// MaxValue is the largest magnitude Sample can return.
func (n *Perlin) MaxValue() float64 { return n.maxValue }

func (n *Perlin) edgeValue(v float64) float64 {
	var sum float64
	val := n.valueFactor
	for i, level := range n.levels {
		if level != nil {
			sum += n.amplitudes[i] * v * val
		}
		val /= 2
	}
	return sum
}

// Octave returns the lattice of octave i counted from the highest frequency,
// or nil when that octave has zero amplitude.
func (n *Perlin) Octave(i int) *Improved {
	idx := len(n.levels) - 1 - i
	if idx < 0 || idx >= len(n.levels) {
		return nil
	}
	return n.levels[idx]
}

func wrap(v float64) float64 {
	return v - float64(float64(int64(math.Floor(v/wrapPeriod+0.5)))*wrapPeriod)
}
