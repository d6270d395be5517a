// Package gen drives chunk generation: base terrain, then carvers, then
// biome-driven feature decoration step by step.
package gen

import (
	"cmp"
	"context"
	"log/slog"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/carver"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/feature"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/terrain"
)

// Registry is the read-only worldgen data a Generator decorates with.
type Registry interface {
	feature.Lookup
	carver.Lookup
	// Biomes returns every biome definition.
	Biomes() []*chunk.Biome
}

// Options configures a Generator.
type Options struct {
	Seed int64
	// Algorithm selects the decoration random source. Carvers always use
	// the legacy source.
	Algorithm random.Algorithm
	MinY      int8
	Height    uint16
	Carve     bool
	Decorate  bool
	// Workers bounds GenerateRegion concurrency; zero means GOMAXPROCS.
	Workers int
}

// Generator produces chunks deterministically from a seed. It is safe for
// concurrent use.
type Generator struct {
	opts    Options
	terrain terrain.Source
	reg     Registry
	// order lists, per step, every placed feature any biome uses, in the
	// order features of that step are seeded and run.
	order [][]string
	log   *slog.Logger
}

// New creates a Generator over the terrain source and registry. A nil logger
// uses slog.Default().
func New(opts Options, src terrain.Source, reg Registry, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		opts:    opts,
		terrain: src,
		reg:     reg,
		order:   featureOrder(reg.Biomes()),
		log:     logger,
	}
}

// featureOrder merges the per-step feature lists of biomes sorted by name,
// keeping the first occurrence of each feature.
func featureOrder(biomes []*chunk.Biome) [][]string {
	sorted := slices.Clone(biomes)
	slices.SortFunc(sorted, func(a, b *chunk.Biome) int { return cmp.Compare(a.Name, b.Name) })

	order := make([][]string, chunk.StepCount)
	seen := make([]map[string]bool, chunk.StepCount)
	for step := range order {
		seen[step] = make(map[string]bool)
	}
	for _, b := range sorted {
		for step, names := range b.Features {
			if step >= chunk.StepCount {
				break
			}
			for _, name := range names {
				if !seen[step][name] {
					seen[step][name] = true
					order[step] = append(order[step], name)
				}
			}
		}
	}
	return order
}

// Generate produces the chunk at pos.
func (g *Generator) Generate(pos chunk.ChunkPos) *chunk.ProtoChunk {
	c := chunk.NewProtoChunk(pos, g.opts.MinY, g.opts.Height)
	g.terrain.Fill(c)

	if g.opts.Carve {
		ctx := carver.CarveChunk(c, pos, g.opts.Seed, g.originBiome, g.reg)
		g.log.Debug("carved chunk", "pos", pos, "cells", ctx.Carved)
	}
	if g.opts.Decorate {
		placed := g.decorate(c)
		g.log.Debug("decorated chunk", "pos", pos, "placed", placed)
	}
	return c
}

// originBiome returns the biome whose carvers start in the chunk at pos.
func (g *Generator) originBiome(pos chunk.ChunkPos) *chunk.Biome {
	return g.terrain.BiomeAt(pos.MiddleBlockX(), pos.MiddleBlockZ())
}

// decorate runs every placed feature of the chunk's biomes, step by step, and
// returns how many of them placed something.
func (g *Generator) decorate(c *chunk.ProtoChunk) int {
	pos := c.Pos()
	origin := chunk.Pos{X: pos.MinBlockX(), Y: int(c.BottomY()), Z: pos.MinBlockZ()}
	biomes := c.Biomes()

	r := random.New(g.opts.Algorithm, 0)
	seed := random.DecorationSeed(r, g.opts.Seed, origin.X, origin.Z)
	ctx := &feature.Context{Chunk: c, Random: r, Lookup: g.reg}

	placed := 0
	for step, names := range g.order {
		for index, name := range names {
			if !inStep(biomes, step, name) {
				continue
			}
			p, ok := g.reg.Placed(name)
			if !ok {
				diag.Unimplemented("placed feature", name)
				continue
			}
			random.FeatureSeed(r, seed, index, step)
			ctx.Name = name
			if p.Generate(ctx, origin) {
				placed++
			}
		}
	}
	return placed
}

func inStep(biomes []*chunk.Biome, step int, name string) bool {
	for _, b := range biomes {
		if step < len(b.Features) && slices.Contains(b.Features[step], name) {
			return true
		}
	}
	return false
}

// GenerateRegion generates every chunk of positions in parallel and calls fn
// with each one. fn may be called concurrently. The first error cancels the
// remaining chunks and is returned.
func (g *Generator) GenerateRegion(ctx context.Context, positions []chunk.ChunkPos, fn func(*chunk.ProtoChunk) error) error {
	workers := g.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, pos := range positions {
		pos := pos
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(g.Generate(pos))
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Square returns the chunk positions within radius of center, row by row.
func Square(center chunk.ChunkPos, radius int) []chunk.ChunkPos {
	if radius < 0 {
		return nil
	}
	side := 2*radius + 1
	out := make([]chunk.ChunkPos, 0, side*side)
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			out = append(out, chunk.ChunkPos{X: center.X + dx, Z: center.Z + dz})
		}
	}
	return out
}
