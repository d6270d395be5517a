package terrain

import (
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
)

// Flat generates a classic superflat world: bedrock at the bottom, two
// layers of dirt and grass on top, all plains.
type Flat struct {
	biome *chunk.Biome
}

// NewFlat creates a Flat source. The plains definition is taken from lookup
// when it has one.
func NewFlat(lookup BiomeLookup) *Flat {
	if lookup != nil {
		if b, ok := lookup.Biome(Plains); ok {
			return &Flat{biome: b}
		}
	}
	return &Flat{biome: &chunk.Biome{Name: Plains}}
}

var flatLayers = []string{"bedrock", "dirt", "dirt", "grass_block"}

func (f *Flat) Fill(c *chunk.ProtoChunk) {
	pos := c.Pos()
	minY := int(c.BottomY())
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			for i, name := range flatLayers {
				p := chunk.Pos{X: pos.MinBlockX() + x, Y: minY + i, Z: pos.MinBlockZ() + z}
				c.SetBlockState(p, block.MustDefault(name))
			}
			c.SetBiome(x, z, f.biome)
		}
	}
}

func (f *Flat) BiomeAt(_, _ int) *chunk.Biome { return f.biome }

// HeightAt returns the y of the grass layer for a chunk starting at minY.
func (f *Flat) HeightAt(minY int) int {
	return minY + len(flatLayers) - 1
}
