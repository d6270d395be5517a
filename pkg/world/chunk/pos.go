// Package chunk defines block positions, the chunk access interface used by
// world generation, biomes, and ProtoChunk, the in-memory chunk the generator
// fills.
package chunk

import "fmt"

// Pos is a block position in world coordinates.
type Pos struct {
	X, Y, Z int
}

// Add returns p offset by (dx, dy, dz).
func (p Pos) Add(dx, dy, dz int) Pos {
	return Pos{p.X + dx, p.Y + dy, p.Z + dz}
}

// Offset returns p offset by o.
func (p Pos) Offset(o Pos) Pos {
	return Pos{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Up returns the position above p.
func (p Pos) Up() Pos { return Pos{p.X, p.Y + 1, p.Z} }

// Down returns the position below p.
func (p Pos) Down() Pos { return Pos{p.X, p.Y - 1, p.Z} }

// Chunk returns the chunk column containing p.
func (p Pos) Chunk() ChunkPos { return ChunkPos{p.X >> 4, p.Z >> 4} }

func (p Pos) String() string { return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z) }

// ChunkPos identifies a chunk column by its X and Z coordinates.
type ChunkPos struct{ X, Z int }

// MinBlockX returns the lowest block X inside the chunk.
func (c ChunkPos) MinBlockX() int { return c.X << 4 }

// MinBlockZ returns the lowest block Z inside the chunk.
func (c ChunkPos) MinBlockZ() int { return c.Z << 4 }

// MiddleBlockX returns the block X at the centre of the chunk.
func (c ChunkPos) MiddleBlockX() int { return c.X<<4 + 8 }

// MiddleBlockZ returns the block Z at the centre of the chunk.
func (c ChunkPos) MiddleBlockZ() int { return c.Z<<4 + 8 }

func (c ChunkPos) String() string { return fmt.Sprintf("[%d, %d]", c.X, c.Z) }
