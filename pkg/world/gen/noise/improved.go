// Package noise implements seeded gradient noise: single lattice Perlin noise,
// octave Perlin noise, double Perlin noise and 2D/3D simplex noise.
package noise

import "github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"

// gradients are the 12 cube-edge gradients of classic Perlin noise followed by
// four repeats so that a hash can be masked with 15.
var gradients = [16][3]float64{
	{1, 1, 0},
	{-1, 1, 0},
	{1, -1, 0},
	{-1, -1, 0},
	{1, 0, 1},
	{-1, 0, 1},
	{1, 0, -1},
	{-1, 0, -1},
	{0, 1, 1},
	{0, -1, 1},
	{0, 1, -1},
	{0, -1, -1},
	{1, 1, 0},
	{0, -1, 1},
	{-1, 1, 0},
	{0, -1, -1},
}

// Improved is a single lattice of Perlin's improved noise with a random
// origin offset and permutation table.
type Improved struct {
	XO, YO, ZO float64
	perm       [256]uint8
}

// NewImproved builds an Improved sampler from r. It draws three doubles for
// the origin and 256 bounded ints for the permutation.
func NewImproved(r random.Source) *Improved {
	n := &Improved{
		XO: r.NextDouble() * 256,
		YO: r.NextDouble() * 256,
		ZO: r.NextDouble() * 256,
	}
	for i := range n.perm {
		n.perm[i] = uint8(i)
	}
	for i := 0; i < 256; i++ {
		j := int(r.NextBoundedInt(int32(256 - i)))
		n.perm[i], n.perm[i+j] = n.perm[i+j], n.perm[i]
	}
	return n
}

func (n *Improved) p(i int) int { return int(n.perm[i&0xFF]) }

// Sample returns the noise value at (x, y, z).
func (n *Improved) Sample(x, y, z float64) float64 {
	return n.SampleScaled(x, y, z, 0, 0)
}

// SampleScaled samples with the y lattice coordinate quantised to yScale,
// capped at yMax. yScale == 0 disables quantisation.
func (n *Improved) SampleScaled(x, y, z, yScale, yMax float64) float64 {
	dx := x + n.XO
	dy := y + n.YO
	dz := z + n.ZO
	ix, iy, iz := floor(dx), floor(dy), floor(dz)
	fx := dx - float64(ix)
	fy := dy - float64(iy)
	fz := dz - float64(iz)

	var shift float64
	if yScale != 0 {
		m := fy
		if yMax >= 0 && yMax < fy {
			m = yMax
		}
		shift = float64(floor(m/yScale+float64(float32(1.0e-7)))) * yScale
	}
	return n.sampleAndLerp(ix, iy, iz, fx, fy-shift, fz, fy)
}

func (n *Improved) sampleAndLerp(sx, sy, sz int, lx, ly, lz, fadeY float64) float64 {
	i := n.p(sx)
	j := n.p(sx + 1)
	k := n.p(i + sy)
	l := n.p(i + sy + 1)
	m := n.p(j + sy)
	o := n.p(j + sy + 1)

	d000 := gradDot(n.p(k+sz), lx, ly, lz)
	d100 := gradDot(n.p(m+sz), lx-1, ly, lz)
	d010 := gradDot(n.p(l+sz), lx, ly-1, lz)
	d110 := gradDot(n.p(o+sz), lx-1, ly-1, lz)
	d001 := gradDot(n.p(k+sz+1), lx, ly, lz-1)
	d101 := gradDot(n.p(m+sz+1), lx-1, ly, lz-1)
	d011 := gradDot(n.p(l+sz+1), lx, ly-1, lz-1)
	d111 := gradDot(n.p(o+sz+1), lx-1, ly-1, lz-1)

	return lerp3(smoothstep(lx), smoothstep(fadeY), smoothstep(lz),
		d000, d100, d010, d110, d001, d101, d011, d111)
}

func gradDot(hash int, x, y, z float64) float64 {
	return dot3(gradients[hash&15], x, y, z)
}

// Products below are wrapped in float64 conversions: each is rounded before
// the following add, never fused into a multiply-add.

func dot3(g [3]float64, x, y, z float64) float64 {
	return float64(g[0]*x) + float64(g[1]*y) + float64(g[2]*z)
}

func smoothstep(t float64) float64 {
	a := float64(t*6) - 15
	b := float64(t*a) + 10
	return float64(float64(t*t)*t) * b
}

func lerp(t, a, b float64) float64 {
	return a + float64(t*(b-a))
}

func lerp2(dx, dy, x0y0, x1y0, x0y1, x1y1 float64) float64 {
	return lerp(dy, lerp(dx, x0y0, x1y0), lerp(dx, x0y1, x1y1))
}

func lerp3(dx, dy, dz, a, b, c, d, e, f, g, h float64) float64 {
	return lerp(dz, lerp2(dx, dy, a, b, c, d), lerp2(dx, dy, e, f, g, h))
}

func floor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}
