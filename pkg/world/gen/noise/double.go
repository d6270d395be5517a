package noise

import "github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"

// inputShift scales the input of the second sampler.
const inputShift = 1.0181268882175227

// DoublePerlin averages two octave samplers built from the same parameters,
// normalised so the output is roughly within [-1, 1].
type DoublePerlin struct {
	first, second *Perlin
	params        *Parameters
	valueFactor   float64
	maxValue      float64
}

// NewDoublePerlin builds both octave samplers from consecutive positional
// forks of r.
func NewDoublePerlin(r random.Source, p *Parameters) *DoublePerlin {
	return newDoublePerlin(NewPerlin(r, p), NewPerlin(r, p), p)
}

// NewLegacyDoublePerlin builds both octave samplers with sequential legacy
// octave seeding.
func NewLegacyDoublePerlin(r random.Source, p *Parameters) (*DoublePerlin, error) {
	first, err := NewLegacyPerlin(r, p)
	if err != nil {
		return nil, err
	}
	second, err := NewLegacyPerlin(r, p)
	if err != nil {
		return nil, err
	}
	return newDoublePerlin(first, second, p), nil
}

func newDoublePerlin(first, second *Perlin, p *Parameters) *DoublePerlin {
	lo, hi := len(p.Amplitudes), -1
	for i, a := range p.Amplitudes {
		if a == 0 {
			continue
		}
		lo = min(lo, i)
		hi = max(hi, i)
	}
	d := &DoublePerlin{first: first, second: second, params: p}
	d.valueFactor = (1.0 / 6.0) / expectedDeviation(hi-lo)
	d.maxValue = (first.MaxValue() + second.MaxValue()) * d.valueFactor
	return d
}

func expectedDeviation(octaves int) float64 {
	return 0.1 * (1 + 1/float64(octaves+1))
}

// Sample returns the noise value at (x, y, z).
func (d *DoublePerlin) Sample(x, y, z float64) float64 {
	sx := float64(x * inputShift)
	sy := float64(y * inputShift)
	sz := float64(z * inputShift)
	return (d.first.Sample(x, y, z) + d.second.Sample(sx, sy, sz)) * d.valueFactor
}

// MaxValue is the largest magnitude Sample can return.
func (d *DoublePerlin) MaxValue() float64 { return d.maxValue }

// Parameters returns the parameters the sampler was built from.
func (d *DoublePerlin) Parameters() *Parameters { return d.params }
