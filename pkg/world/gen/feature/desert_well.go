package feature

import (
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
)

// DesertWell stamps a small sandstone well with water into a sand surface.
type DesertWell struct{}

func (*DesertWell) isFeature() {}

func (*DesertWell) Generate(ctx *Context, pos chunk.Pos) bool {
	c := ctx.Chunk
	minY := int(c.BottomY())
	for pos = pos.Up(); c.IsAir(pos) && pos.Y > minY+2; {
		pos = pos.Down()
	}
	if c.BlockState(pos).Name() != "sand" {
		return false
	}
	for dx := -2; dx <= 2; dx++ {
		for dz := -2; dz <= 2; dz++ {
			if !c.IsAir(pos.Add(dx, -1, dz)) || !c.IsAir(pos.Add(dx, -2, dz)) {
				return false
			}
		}
	}

	var (
		sandstone = block.MustDefault("sandstone")
		slab      = block.MustDefault("sandstone_slab")
		water     = block.MustDefault("water")
		sand      = block.MustDefault("sand")
	)
	for dy := -2; dy <= 0; dy++ {
		for dx := -2; dx <= 2; dx++ {
			for dz := -2; dz <= 2; dz++ {
				c.SetBlockState(pos.Add(dx, dy, dz), sandstone)
			}
		}
	}
	plus(c, pos, water)
	plus(c, pos.Down(), sand)
	for dx := -2; dx <= 2; dx++ {
		for dz := -2; dz <= 2; dz++ {
			if dx == -2 || dx == 2 || dz == -2 || dz == 2 {
				c.SetBlockState(pos.Add(dx, 1, dz), sandstone)
			}
		}
	}
	c.SetBlockState(pos.Add(2, 1, 0), slab)
	c.SetBlockState(pos.Add(-2, 1, 0), slab)
	c.SetBlockState(pos.Add(0, 1, 2), slab)
	c.SetBlockState(pos.Add(0, 1, -2), slab)
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			if dx == 0 && dz == 0 {
				c.SetBlockState(pos.Add(dx, 4, dz), sandstone)
			} else {
				c.SetBlockState(pos.Add(dx, 4, dz), slab)
			}
		}
	}
	for dy := 1; dy <= 3; dy++ {
		c.SetBlockState(pos.Add(-1, dy, -1), sandstone)
		c.SetBlockState(pos.Add(-1, dy, 1), sandstone)
		c.SetBlockState(pos.Add(1, dy, -1), sandstone)
		c.SetBlockState(pos.Add(1, dy, 1), sandstone)
	}
	return true
}

// plus sets s at pos and its four horizontal neighbours.
func plus(c chunk.Access, pos chunk.Pos, s block.State) {
	c.SetBlockState(pos, s)
	c.SetBlockState(pos.Add(1, 0, 0), s)
	c.SetBlockState(pos.Add(-1, 0, 0), s)
	c.SetBlockState(pos.Add(0, 0, 1), s)
	c.SetBlockState(pos.Add(0, 0, -1), s)
}
