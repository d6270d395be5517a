// Package terrain shapes the base terrain that carvers and features decorate:
// a noise heightmap with biome-dependent amplitude, the biome layout, surface
// blocks and sea water. A flat variant is provided for testing.
package terrain

import (
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/noise"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// Source fills chunks with base terrain and reports the biome layout.
type Source interface {
	// Fill sets blocks and biomes of every column of c.
	Fill(c *chunk.ProtoChunk)
	// BiomeAt returns the biome of the column at block x, z.
	BiomeAt(x, z int) *chunk.Biome
}

// BiomeLookup resolves biome definitions by name.
type BiomeLookup interface {
	Biome(name string) (*chunk.Biome, bool)
}

// Options configures a Noise source.
type Options struct {
	Seed      int64
	Algorithm random.Algorithm
	MinY      int8
	Height    uint16
	SeaLevel  int
}

// DefaultOptions returns the overworld dimensions.
func DefaultOptions(seed int64) Options {
	return Options{Seed: seed, Algorithm: random.AlgorithmXoroshiro, MinY: -64, Height: 384, SeaLevel: 62}
}

// Continentalness thresholds of the non-climate biomes.
const (
	oceanShape = -0.3
	beachShape = -0.24
	hillsShape = 0.4
)

// Noise produces rolling terrain from layered simplex noise.
type Noise struct {
	opts    Options
	terrain *noise.PerlinSimplex
	detail  *noise.PerlinSimplex
	temp    *noise.PerlinSimplex
	rain    *noise.PerlinSimplex
	shape   *noise.PerlinSimplex
	bedrock random.Positional
	biomes  map[string]*chunk.Biome
}

// NewNoise builds the noise source. Biomes missing from lookup get an empty
// definition with no features or carvers.
func NewNoise(opts Options, lookup BiomeLookup) (*Noise, error) {
	f := random.New(opts.Algorithm, opts.Seed).ForkPositional()
	n := &Noise{
		opts:    opts,
		bedrock: f.FromHashOf("minecraft:bedrock_floor").ForkPositional(),
		biomes:  make(map[string]*chunk.Biome, len(BiomeNames)),
	}
	for _, s := range []struct {
		dst     **noise.PerlinSimplex
		name    string
		octaves []int
	}{
		{&n.terrain, "terrain", []int{-5, -4, -3, -2, -1, 0}},
		{&n.detail, "terrain_detail", []int{-2, -1, 0}},
		{&n.temp, "temperature", []int{-3, -2, -1, 0}},
		{&n.rain, "vegetation", []int{-3, -2, -1, 0}},
		{&n.shape, "continentalness", []int{-5, -4, -3, -2, -1, 0}},
	} {
		p, err := noise.NewPerlinSimplex(f.FromHashOf("minecraft:"+s.name), s.octaves)
		if err != nil {
			return nil, err
		}
		*s.dst = p
	}
	for _, name := range BiomeNames {
		b, ok := (*chunk.Biome)(nil), false
		if lookup != nil {
			b, ok = lookup.Biome(name)
		}
		if !ok {
			b = &chunk.Biome{Name: name}
		}
		n.biomes[name] = b
	}
	return n, nil
}

// BiomeAt returns the biome at the given world block coordinates.
func (n *Noise) BiomeAt(bx, bz int) *chunk.Biome {
	return n.biomes[n.biomeName(bx, bz)]
}

func (n *Noise) biomeName(bx, bz int) string {
	shape := n.shape.Sample(float64(bx)/8, float64(bz)/8, true)
	switch {
	case shape < oceanShape:
		return Ocean
	case shape < beachShape:
		return Beach
	case shape > hillsShape:
		return WindsweptHills
	}

	// Temperature and rainfall vary slowly.
	tx := float64(bx) / 64
	tz := float64(bz) / 64
	temp := n.temp.Sample(tx, tz, true)*0.8 + 0.75
	rain := n.rain.Sample(tx+100, tz+100, true)*0.5 + 0.5
	return selectBiome(temp, rain)
}

// HeightAt returns the y of the top terrain block of the column.
func (n *Noise) HeightAt(bx, bz int) int {
	return n.terrainHeight(bx, bz, n.biomeName(bx, bz))
}

// terrainHeight computes the terrain height at a world block coordinate.
// Different biomes scale noise amplitude differently.
func (n *Noise) terrainHeight(bx, bz int, biome string) int {
	base := n.terrain.Sample(float64(bx)/4, float64(bz)/4, true)
	detail := n.detail.Sample(float64(bx)/8, float64(bz)/8, true)

	amplitude, baseHeight := biomeTerrainParams(biome, n.opts.SeaLevel)
	h := int(baseHeight + base*amplitude + detail*4.0)
	lo := int(n.opts.MinY) + 8
	hi := int(n.opts.MinY) + int(n.opts.Height) - 16
	return min(max(h, lo), hi)
}

// Fill writes the terrain of every column of c.
func (n *Noise) Fill(c *chunk.ProtoChunk) {
	pos := c.Pos()
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			bx, bz := pos.MinBlockX()+x, pos.MinBlockZ()+z
			name := n.biomeName(bx, bz)
			c.SetBiome(x, z, n.biomes[name])
			n.fillColumn(c, bx, bz, n.terrainHeight(bx, bz, name), name)
		}
	}
}

// fillColumn fills a single block column with terrain blocks.
func (n *Noise) fillColumn(c *chunk.ProtoChunk, bx, bz, height int, biome string) {
	var (
		bedrock   = block.MustDefault("bedrock")
		deepslate = block.MustDefault("deepslate")
		stone     = block.MustDefault("stone")
		water     = block.MustDefault("water")
	)
	minY := int(c.BottomY())

	// Bedrock thins out over the bottom five layers.
	c.SetBlockState(chunk.Pos{X: bx, Y: minY, Z: bz}, bedrock)
	for y := minY + 1; y < minY+5; y++ {
		chance := 1 - float32(y-minY)/5
		p := chunk.Pos{X: bx, Y: y, Z: bz}
		if n.bedrock.At(bx, y, bz).NextFloat() < chance {
			c.SetBlockState(p, bedrock)
		} else {
			c.SetBlockState(p, deepslate)
		}
	}

	stoneTop := max(height-surfaceLayerDepth(biome), minY+5)
	for y := minY + 5; y <= stoneTop && y <= height; y++ {
		if y < 0 {
			c.SetBlockState(chunk.Pos{X: bx, Y: y, Z: bz}, deepslate)
		} else {
			c.SetBlockState(chunk.Pos{X: bx, Y: y, Z: bz}, stone)
		}
	}

	applySurface(c, bx, bz, height, biome, n.opts.SeaLevel, minY+5)

	for y := height + 1; y <= n.opts.SeaLevel; y++ {
		c.SetBlockState(chunk.Pos{X: bx, Y: y, Z: bz}, water)
	}
}
