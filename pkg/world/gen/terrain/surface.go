package terrain

import (
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
)

// surfaceLayerDepth is how many blocks below the column top belong to the
// biome surface rather than stone.
func surfaceLayerDepth(biome string) int {
	switch biome {
	case Desert:
		return 6
	case Ocean, Beach:
		return 5
	default:
		return 4
	}
}

// applySurface places the biome-specific surface blocks on top of the stone
// column. Nothing is placed at or below floor.
func applySurface(c *chunk.ProtoChunk, bx, bz, height int, biome string, seaLevel, floor int) {
	set := func(y int, name string) {
		if y > floor {
			c.SetBlockState(chunk.Pos{X: bx, Y: y, Z: bz}, block.MustDefault(name))
		}
	}

	switch biome {
	case Desert:
		// Sand on top, sandstone below.
		for y := height; y > height-4; y-- {
			set(y, "sand")
		}
		set(height-4, "sandstone")
		set(height-5, "sandstone")

	case Ocean:
		// Gravel on the ocean floor.
		for y := height; y > height-3; y-- {
			set(y, "gravel")
		}
		set(height-3, "dirt")
		set(height-4, "dirt")

	case Beach:
		for y := height; y > height-4; y-- {
			set(y, "sand")
		}
		set(height-4, "sandstone")

	case WindsweptHills:
		// Bare stone peaks.
		if height > seaLevel+38 {
			for y := height; y > height-4; y-- {
				set(y, "stone")
			}
			return
		}
		applyDefaultSurface(set, height, seaLevel)

	default:
		applyDefaultSurface(set, height, seaLevel)
	}
}

// applyDefaultSurface places grass on top with dirt below.
func applyDefaultSurface(set func(y int, name string), height, seaLevel int) {
	if height > seaLevel {
		set(height, "grass_block")
	} else {
		// Underwater: dirt instead of grass.
		set(height, "dirt")
	}
	for y := height - 1; y > height-4; y-- {
		set(y, "dirt")
	}
}
