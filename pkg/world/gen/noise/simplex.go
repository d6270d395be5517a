package noise

import (
	"math"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

var (
	sqrt3 = math.Sqrt(3)
	f2    = 0.5 * (sqrt3 - 1)
	g2    = (3 - sqrt3) / 6
)

const (
	f3 = 1.0 / 3.0
	g3 = 1.0 / 6.0
)

// Simplex produces deterministic simplex noise from a seeded permutation
// table. Output is in the range [-1, 1].
type Simplex struct {
	XO, YO, ZO float64
	perm       [512]int
}

// NewSimplex creates a simplex sampler, drawing its origin offset and
// permutation from r.
func NewSimplex(r random.Source) *Simplex {
	s := &Simplex{
		XO: r.NextDouble() * 256,
		YO: r.NextDouble() * 256,
		ZO: r.NextDouble() * 256,
	}

	var p [256]int
	for i := range p {
		p[i] = i
	}
	for i := 0; i < 256; i++ {
		j := int(r.NextBoundedInt(int32(256 - i)))
		p[i], p[i+j] = p[i+j], p[i]
	}

	// Double the permutation table for wrapping.
	for i := 0; i < 512; i++ {
		s.perm[i] = p[i&255]
	}
	return s
}

func (s *Simplex) p(i int) int { return s.perm[i&0xFF] }

// Sample2D returns 2D simplex noise for the given coordinates.
func (s *Simplex) Sample2D(x, y float64) float64 {
	// Skew input space to determine simplex cell.
	sk := float64(x+y) * f2
	i := floor(x + sk)
	j := floor(y + sk)

	t := float64(i+j) * g2
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)

	// Determine which simplex we are in.
	var i1, j1 int
	if x0 > y0 {
		i1 = 1
	} else {
		j1 = 1
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1.0 + float64(2.0*g2)
	y2 := y0 - 1.0 + float64(2.0*g2)

	ii := i & 255
	jj := j & 255
	gi0 := s.p(ii+s.p(jj)) % 12
	gi1 := s.p(ii+i1+s.p(jj+j1)) % 12
	gi2 := s.p(ii+1+s.p(jj+1)) % 12

	n0 := corner(gi0, x0, y0, 0, 0.5)
	n1 := corner(gi1, x1, y1, 0, 0.5)
	n2 := corner(gi2, x2, y2, 0, 0.5)
	return 70.0 * (n0 + n1 + n2)
}

// Sample3D returns 3D simplex noise for the given coordinates.
func (s *Simplex) Sample3D(x, y, z float64) float64 {
	sk := float64(x+y+z) * f3
	i := floor(x + sk)
	j := floor(y + sk)
	k := floor(z + sk)

	t := float64(i+j+k) * g3
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)
	z0 := z - (float64(k) - t)

	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		if y0 >= z0 {
			i1, j1, k1 = 1, 0, 0
			i2, j2, k2 = 1, 1, 0
		} else if x0 >= z0 {
			i1, j1, k1 = 1, 0, 0
			i2, j2, k2 = 1, 0, 1
		} else {
			i1, j1, k1 = 0, 0, 1
			i2, j2, k2 = 1, 0, 1
		}
	} else {
		if y0 < z0 {
			i1, j1, k1 = 0, 0, 1
			i2, j2, k2 = 0, 1, 1
		} else if x0 < z0 {
			i1, j1, k1 = 0, 1, 0
			i2, j2, k2 = 0, 1, 1
		} else {
			i1, j1, k1 = 0, 1, 0
			i2, j2, k2 = 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + g3
	y1 := y0 - float64(j1) + g3
	z1 := z0 - float64(k1) + g3
	x2 := x0 - float64(i2) + 2.0*g3
	y2 := y0 - float64(j2) + 2.0*g3
	z2 := z0 - float64(k2) + 2.0*g3
	x3 := x0 - 1.0 + 3.0*g3
	y3 := y0 - 1.0 + 3.0*g3
	z3 := z0 - 1.0 + 3.0*g3

	ii := i & 255
	jj := j & 255
	kk := k & 255
	gi0 := s.p(ii+s.p(jj+s.p(kk))) % 12
	gi1 := s.p(ii+i1+s.p(jj+j1+s.p(kk+k1))) % 12
	gi2 := s.p(ii+i2+s.p(jj+j2+s.p(kk+k2))) % 12
	gi3 := s.p(ii+1+s.p(jj+1+s.p(kk+1))) % 12

	n0 := corner(gi0, x0, y0, z0, 0.6)
	n1 := corner(gi1, x1, y1, z1, 0.6)
	n2 := corner(gi2, x2, y2, z2, 0.6)
	n3 := corner(gi3, x3, y3, z3, 0.6)
	return 32.0 * (n0 + n1 + n2 + n3)
}

func corner(g int, x, y, z, base float64) float64 {
	t := base - float64(x*x) - float64(y*y) - float64(z*z)
	if t < 0 {
		return 0
	}
	t *= t
	return float64(t*t) * dot3(gradients[g], x, y, z)
}
