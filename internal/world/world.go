// Package world caches generated chunks and layers block overrides on top of
// them.
package world

import (
	"context"
	"sync"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen"
)

// World tracks block state with a generator for base terrain and overrides
// for later modifications. Cached chunks are never written after generation.
type World struct {
	mu        sync.RWMutex
	blocks    map[chunk.Pos]block.State
	generator *gen.Generator
	chunks    map[chunk.ChunkPos]*chunk.ProtoChunk
}

// NewWorld creates a new World with the given generator.
func NewWorld(generator *gen.Generator) *World {
	return &World{
		blocks:    make(map[chunk.Pos]block.State),
		generator: generator,
		chunks:    make(map[chunk.ChunkPos]*chunk.ProtoChunk),
	}
}

// Chunk returns the chunk at pos, generating and caching it if needed.
func (w *World) Chunk(pos chunk.ChunkPos) *chunk.ProtoChunk {
	w.mu.RLock()
	if c, ok := w.chunks[pos]; ok {
		w.mu.RUnlock()
		return c
	}
	w.mu.RUnlock()

	return w.store(w.generator.Generate(pos))
}

// store caches c unless another goroutine got there first, and returns the
// cached chunk.
func (w *World) store(c *chunk.ProtoChunk) *chunk.ProtoChunk {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Double-check after acquiring write lock.
	if existing, ok := w.chunks[c.Pos()]; ok {
		return existing
	}
	w.chunks[c.Pos()] = c
	return c
}

// BlockState returns the block at p. Overrides win over generated blocks.
func (w *World) BlockState(p chunk.Pos) block.State {
	w.mu.RLock()
	s, ok := w.blocks[p]
	w.mu.RUnlock()
	if ok {
		return s
	}
	return w.Chunk(p.Chunk()).BlockState(p)
}

// SetBlockState stores a block override. Setting the generated state removes
// the override.
func (w *World) SetBlockState(p chunk.Pos, s block.State) {
	// Ensure the chunk is generated so we know the base state.
	base := w.Chunk(p.Chunk()).BlockState(p)

	w.mu.Lock()
	defer w.mu.Unlock()
	if s.Equal(base) {
		delete(w.blocks, p)
	} else {
		w.blocks[p] = s
	}
}

// ForEachOverride calls fn for every block override under a read lock.
func (w *World) ForEachOverride(fn func(p chunk.Pos, s block.State)) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for p, s := range w.blocks {
		fn(p, s)
	}
}

// SpawnHeight returns the y a player at (0, 0) stands on: one above the
// highest generated block of the column.
func (w *World) SpawnHeight() int {
	return w.Chunk(chunk.ChunkPos{}).TopBlockHeightExclusive(0, 0)
}

// PreGenerateRadius generates every chunk within radius of center in parallel
// and returns how many chunks are cached for that square.
func (w *World) PreGenerateRadius(ctx context.Context, center chunk.ChunkPos, radius int) (int, error) {
	var missing []chunk.ChunkPos
	w.mu.RLock()
	for _, pos := range gen.Square(center, radius) {
		if _, ok := w.chunks[pos]; !ok {
			missing = append(missing, pos)
		}
	}
	w.mu.RUnlock()

	err := w.generator.GenerateRegion(ctx, missing, func(c *chunk.ProtoChunk) error {
		w.store(c)
		return nil
	})
	if err != nil {
		return 0, err
	}
	side := 2*radius + 1
	return side * side, nil
}

// Len returns the number of cached chunks.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}
