package chunk

import (
	"slices"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
)

// Access is read/write access to the blocks and biomes of the chunk being
// generated.
type Access interface {
	BlockState(p Pos) block.State
	SetBlockState(p Pos, s block.State)
	IsAir(p Pos) bool
	Biome(p Pos) *Biome
	// TopBlockHeightExclusive returns one above the highest non-air block
	// of the column at world (x, z), or BottomY when the column is empty or
	// unknown.
	TopBlockHeightExclusive(x, z int) int
	BottomY() int8
	Height() uint16
}

// Biome is the generation-relevant part of a biome: its placed features by
// generation step and its carvers.
type Biome struct {
	Name     string
	Features [][]string
	Carvers  []string
}

// HasFeature reports whether the biome lists the placed feature in any step.
func (b *Biome) HasFeature(name string) bool {
	if b == nil {
		return false
	}
	for _, step := range b.Features {
		if slices.Contains(step, name) {
			return true
		}
	}
	return false
}

// Generation steps indexing Biome.Features.
const (
	StepRawGeneration = iota
	StepLakes
	StepLocalModifications
	StepUndergroundStructures
	StepSurfaceStructures
	StepStrongholds
	StepUndergroundOres
	StepUndergroundDecoration
	StepFluidSprings
	StepVegetalDecoration
	StepTopLayerModification

	StepCount
)
