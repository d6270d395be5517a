package chunk

import (
	"sort"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
)

// Section holds state ids for a 16×16×16 vertical slice of a chunk.
// Index = y*256 + z*16 + x.
type Section struct {
	States [4096]uint16
}

// ProtoChunk is an in-memory chunk under generation. Reads outside the chunk
// return air and writes outside it are dropped.
type ProtoChunk struct {
	pos      ChunkPos
	minY     int8
	height   uint16
	sections []*Section // nil = all-air
	biomes   [256]*Biome
	top      [256]int16 // exclusive surface height per column
}

// NewProtoChunk creates an empty chunk at pos spanning height blocks from
// minY.
func NewProtoChunk(pos ChunkPos, minY int8, height uint16) *ProtoChunk {
	c := &ProtoChunk{
		pos:      pos,
		minY:     minY,
		height:   height,
		sections: make([]*Section, (int(height)+15)/16),
	}
	for i := range c.top {
		c.top[i] = int16(minY)
	}
	return c
}

// Pos returns the chunk position.
func (c *ProtoChunk) Pos() ChunkPos { return c.pos }

func (c *ProtoChunk) BottomY() int8 { return c.minY }

func (c *ProtoChunk) Height() uint16 { return c.height }

// SectionCount returns the number of 16-block sections in the chunk.
func (c *ProtoChunk) SectionCount() int { return len(c.sections) }

func (c *ProtoChunk) maxY() int { return int(c.minY) + int(c.height) }

func (c *ProtoChunk) columnIndex(x, z int) int { return (z&0xF)*16 + x&0xF }

// Contains reports whether p lies inside the chunk.
func (c *ProtoChunk) Contains(p Pos) bool {
	return p.X>>4 == c.pos.X && p.Z>>4 == c.pos.Z && p.Y >= int(c.minY) && p.Y < c.maxY()
}

func (c *ProtoChunk) get(p Pos) uint16 {
	if !c.Contains(p) {
		return 0
	}
	ry := p.Y - int(c.minY)
	sec := c.sections[ry>>4]
	if sec == nil {
		return 0
	}
	return sec.States[(ry&0xF)*256+(p.Z&0xF)*16+p.X&0xF]
}

// BlockState returns the state at p.
func (c *ProtoChunk) BlockState(p Pos) block.State {
	return block.StateByID(c.get(p))
}

// IsAir reports whether the state at p is any kind of air.
func (c *ProtoChunk) IsAir(p Pos) bool {
	return block.StateByID(c.get(p)).Air
}

// SetBlockState writes s at p and keeps the column heightmap current.
func (c *ProtoChunk) SetBlockState(p Pos, s block.State) {
	if !c.Contains(p) {
		return
	}
	ry := p.Y - int(c.minY)
	sec := c.sections[ry>>4]
	if sec == nil {
		if s.ID == 0 {
			return
		}
		sec = &Section{}
		c.sections[ry>>4] = sec
	}
	sec.States[(ry&0xF)*256+(p.Z&0xF)*16+p.X&0xF] = s.ID

	col := c.columnIndex(p.X, p.Z)
	switch {
	case !s.Air && p.Y+1 > int(c.top[col]):
		c.top[col] = int16(p.Y + 1)
	case s.Air && p.Y+1 == int(c.top[col]):
		c.top[col] = int16(c.scanDown(p.X, p.Y-1, p.Z))
	}
}

func (c *ProtoChunk) scanDown(x, y, z int) int {
	for ; y >= int(c.minY); y-- {
		if !block.StateByID(c.get(Pos{x, y, z})).Air {
			return y + 1
		}
	}
	return int(c.minY)
}

// TopBlockHeightExclusive returns one above the highest non-air block of the
// column at world (x, z). Columns outside the chunk report BottomY.
func (c *ProtoChunk) TopBlockHeightExclusive(x, z int) int {
	if x>>4 != c.pos.X || z>>4 != c.pos.Z {
		return int(c.minY)
	}
	return int(c.top[c.columnIndex(x, z)])
}

// Biome returns the biome of the column at p. Positions outside the chunk use
// the nearest edge column.
func (c *ProtoChunk) Biome(p Pos) *Biome {
	x := clampLocal(p.X - c.pos.MinBlockX())
	z := clampLocal(p.Z - c.pos.MinBlockZ())
	return c.biomes[z*16+x]
}

// SetBiome sets the biome at the given local x, z coordinates.
func (c *ProtoChunk) SetBiome(x, z int, b *Biome) {
	c.biomes[(z&0xF)*16+x&0xF] = b
}

// Biomes returns the distinct biomes of the chunk sorted by name.
func (c *ProtoChunk) Biomes() []*Biome {
	seen := make(map[*Biome]bool)
	var out []*Biome
	for _, b := range c.biomes {
		if b != nil && !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func clampLocal(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 15:
		return 15
	}
	return v
}
