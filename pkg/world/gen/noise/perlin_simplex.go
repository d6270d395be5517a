package noise

import (
	"fmt"
	"math"
	"slices"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// PerlinSimplex layers 2D simplex octaves. Octaves are given as exponents
// relative to the base frequency, e.g. {0} or {-2, -1, 0}.
type PerlinSimplex struct {
	levels      []*Simplex
	inputFactor float64
	valueFactor float64
}

// NewPerlinSimplex builds the octave stack from r.
func NewPerlinSimplex(r random.Source, octaves []int) (*PerlinSimplex, error) {
	if len(octaves) == 0 {
		return nil, fmt.Errorf("perlin simplex noise: no octaves")
	}
	set := slices.Clone(octaves)
	slices.Sort(set)
	set = slices.Compact(set)
	has := func(o int) bool {
		_, ok := slices.BinarySearch(set, o)
		return ok
	}

	lowest := -set[0]
	highest := set[len(set)-1]
	total := lowest + highest + 1
	if total < 1 {
		return nil, fmt.Errorf("perlin simplex noise: octave set %v is empty", octaves)
	}

	base := NewSimplex(r)
	n := &PerlinSimplex{levels: make([]*Simplex, total)}
	l := highest
	if l >= 0 && l < total && has(0) {
		n.levels[l] = base
	}
	for m := l + 1; m < total; m++ {
		if m >= 0 && has(l-m) {
			n.levels[m] = NewSimplex(r)
			continue
		}
		r.Consume(262)
	}

	if highest > 0 {
		seed := int64(float64(base.Sample3D(base.XO, base.YO, base.ZO)) * float64(float32(9.223372e18)))
		sub := random.NewLegacy(seed)
		for o := l - 1; o >= 0; o-- {
			if o < total && has(l-o) {
				n.levels[o] = NewSimplex(sub)
				continue
			}
			sub.Consume(262)
		}
	}

	n.inputFactor = math.Pow(2, float64(highest))
	n.valueFactor = 1 / (math.Pow(2, float64(total)) - 1)
	return n, nil
}

// Sample returns the layered value at (x, y). offsets adds each octave's
// random origin to the input.
func (n *PerlinSimplex) Sample(x, y float64, offsets bool) float64 {
	var sum float64
	in := n.inputFactor
	val := n.valueFactor
	for _, level := range n.levels {
		if level != nil {
			sx, sy := float64(x*in), float64(y*in)
			if offsets {
				sx += level.XO
				sy += level.YO
			}
			sum += float64(level.Sample2D(sx, sy) * val)
		}
		in /= 2
		val *= 2
	}
	return sum
}
