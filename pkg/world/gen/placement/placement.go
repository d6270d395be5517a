// Package placement implements placement modifiers, the stages that turn a
// feature origin into the candidate positions the feature is generated at.
package placement

import (
	"fmt"
	"slices"
	"sync"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/tagged"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/noise"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/predicate"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/provider"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// Context is the state shared by the stages of one pipeline run.
type Context struct {
	Chunk  chunk.Access
	Random random.Source
	// Feature is the name of the placed feature being generated, used by the
	// biome filter.
	Feature string
}

// Modifier maps one candidate position to zero or more positions.
type Modifier interface {
	Positions(ctx *Context, pos chunk.Pos) []chunk.Pos
	isModifier()
}

// Apply runs the stages in order starting from origin. Each stage consumes the
// whole stream of the previous one, so random draws happen stage by stage.
func Apply(ctx *Context, modifiers []Codec, origin chunk.Pos) []chunk.Pos {
	stream := []chunk.Pos{origin}
	for _, m := range modifiers {
		var next []chunk.Pos
		for _, p := range stream {
			next = append(next, m.Positions(ctx, p)...)
		}
		stream = next
		if len(stream) == 0 {
			return nil
		}
	}
	return stream
}

func one(p chunk.Pos) []chunk.Pos { return []chunk.Pos{p} }

// Count repeats the position a drawn number of times.
type Count struct {
	Count provider.IntCodec `json:"count"`
}

func (m *Count) Positions(ctx *Context, pos chunk.Pos) []chunk.Pos {
	n := m.Count.Get(ctx.Random)
	if n <= 0 {
		return nil
	}
	out := make([]chunk.Pos, n)
	for i := range out {
		out[i] = pos
	}
	return out
}

func (*Count) isModifier() {}

// RarityFilter keeps the position with probability 1/Chance.
type RarityFilter struct {
	Chance int32 `json:"chance"`
}

func (m *RarityFilter) Positions(ctx *Context, pos chunk.Pos) []chunk.Pos {
	if ctx.Random.NextFloat() < 1/float32(m.Chance) {
		return one(pos)
	}
	return nil
}

func (*RarityFilter) isModifier() {}

// InSquare moves the position to a random column of the 16×16 square whose
// corner it is.
type InSquare struct{}

func (*InSquare) Positions(ctx *Context, pos chunk.Pos) []chunk.Pos {
	x := int(ctx.Random.NextBoundedInt(16)) + pos.X
	z := int(ctx.Random.NextBoundedInt(16)) + pos.Z
	return one(chunk.Pos{X: x, Y: pos.Y, Z: z})
}

func (*InSquare) isModifier() {}

// HeightRange replaces y with a drawn height.
type HeightRange struct {
	Height provider.HeightCodec `json:"height"`
}

func (m *HeightRange) Positions(ctx *Context, pos chunk.Pos) []chunk.Pos {
	y := m.Height.Get(ctx.Random, ctx.Chunk.BottomY(), ctx.Chunk.Height())
	return one(chunk.Pos{X: pos.X, Y: int(y), Z: pos.Z})
}

func (*HeightRange) isModifier() {}

// RandomOffset displaces the position by drawn offsets, x then y then z.
type RandomOffset struct {
	XZSpread provider.IntCodec `json:"xz_spread"`
	YSpread  provider.IntCodec `json:"y_spread"`
}

func (m *RandomOffset) Positions(ctx *Context, pos chunk.Pos) []chunk.Pos {
	x := pos.X + int(m.XZSpread.Get(ctx.Random))
	y := pos.Y + int(m.YSpread.Get(ctx.Random))
	z := pos.Z + int(m.XZSpread.Get(ctx.Random))
	return one(chunk.Pos{X: x, Y: y, Z: z})
}

func (*RandomOffset) isModifier() {}

var heightmapTypes = []string{
	"WORLD_SURFACE_WG", "WORLD_SURFACE", "OCEAN_FLOOR_WG", "OCEAN_FLOOR", "MOTION_BLOCKING", "MOTION_BLOCKING_NO_LEAVES",
}

// Heightmap moves the position to the surface of its column and drops it when
// the column has no blocks.
type Heightmap struct {
	Heightmap string `json:"heightmap"`
}

func (m *Heightmap) Positions(ctx *Context, pos chunk.Pos) []chunk.Pos {
	y := ctx.Chunk.TopBlockHeightExclusive(pos.X, pos.Z)
	if y > int(ctx.Chunk.BottomY()) {
		return one(chunk.Pos{X: pos.X, Y: y, Z: pos.Z})
	}
	return nil
}

func (*Heightmap) isModifier() {}

// BlockPredicateFilter keeps positions that satisfy Predicate.
type BlockPredicateFilter struct {
	Predicate predicate.Codec `json:"predicate"`
}

func (m *BlockPredicateFilter) Positions(ctx *Context, pos chunk.Pos) []chunk.Pos {
	if m.Predicate.Test(ctx.Chunk, pos) {
		return one(pos)
	}
	return nil
}

func (*BlockPredicateFilter) isModifier() {}

// Biome keeps positions whose biome lists the feature being placed.
type Biome struct{}

func (*Biome) Positions(ctx *Context, pos chunk.Pos) []chunk.Pos {
	if ctx.Chunk.Biome(pos).HasFeature(ctx.Feature) {
		return one(pos)
	}
	return nil
}

func (*Biome) isModifier() {}

var biomeInfoNoise = sync.OnceValue(func() *noise.PerlinSimplex {
	n, err := noise.NewPerlinSimplex(random.NewLegacy(2345), []int{0})
	if err != nil {
		panic(err)
	}
	return n
})

// NoiseThresholdCount repeats the position BelowNoise or AboveNoise times
// depending on the biome information noise of its column.
type NoiseThresholdCount struct {
	NoiseLevel float64 `json:"noise_level"`
	BelowNoise int32   `json:"below_noise"`
	AboveNoise int32   `json:"above_noise"`
}

func (m *NoiseThresholdCount) Positions(_ *Context, pos chunk.Pos) []chunk.Pos {
	v := biomeInfoNoise().Sample(float64(pos.X)/200, float64(pos.Z)/200, false)
	n := m.AboveNoise
	if v < m.NoiseLevel {
		n = m.BelowNoise
	}
	if n <= 0 {
		return nil
	}
	out := make([]chunk.Pos, n)
	for i := range out {
		out[i] = pos
	}
	return out
}

func (*NoiseThresholdCount) isModifier() {}

// Declared is a stage kind without behaviour. It passes positions through.
type Declared struct {
	Kind string
}

func (m *Declared) Positions(_ *Context, pos chunk.Pos) []chunk.Pos {
	diag.Unimplemented("placement_modifier", m.Kind)
	return one(pos)
}

func (*Declared) isModifier() {}

// Codec decodes a typed placement modifier. Unknown types decode to Declared.
type Codec struct {
	Modifier
}

// Wrap returns a codec holding m.
func Wrap(m Modifier) Codec { return Codec{m} }

func (c *Codec) UnmarshalJSON(data []byte) error {
	typ, err := tagged.Type(data)
	if err != nil {
		return fmt.Errorf("placement modifier: %w", err)
	}
	var m Modifier
	switch typ {
	case "count":
		m = &Count{}
	case "rarity_filter":
		m = &RarityFilter{}
	case "in_square":
		c.Modifier = &InSquare{}
		return nil
	case "height_range":
		m = &HeightRange{}
	case "random_offset":
		m = &RandomOffset{}
	case "heightmap":
		m = &Heightmap{}
	case "block_predicate_filter":
		m = &BlockPredicateFilter{}
	case "biome":
		c.Modifier = &Biome{}
		return nil
	case "noise_threshold_count":
		m = &NoiseThresholdCount{}
	default:
		c.Modifier = &Declared{Kind: typ}
		return nil
	}
	if err := tagged.Decode(typ, data, m); err != nil {
		return fmt.Errorf("placement modifier: %w", err)
	}
	if err := validate(m); err != nil {
		return fmt.Errorf("placement modifier: %s: %w", typ, err)
	}
	c.Modifier = m
	return nil
}

func validate(m Modifier) error {
	switch m := m.(type) {
	case *Count:
		if m.Count.Int == nil {
			return fmt.Errorf("missing count")
		}
	case *RarityFilter:
		if m.Chance <= 0 {
			return fmt.Errorf("chance must be positive, got %d", m.Chance)
		}
	case *HeightRange:
		if m.Height.Height == nil {
			return fmt.Errorf("missing height")
		}
	case *RandomOffset:
		if m.XZSpread.Int == nil || m.YSpread.Int == nil {
			return fmt.Errorf("missing spread")
		}
	case *Heightmap:
		if !slices.Contains(heightmapTypes, m.Heightmap) {
			return fmt.Errorf("unknown heightmap %q", m.Heightmap)
		}
	case *BlockPredicateFilter:
		if m.Predicate.Predicate == nil {
			return fmt.Errorf("missing predicate")
		}
	}
	return nil
}
