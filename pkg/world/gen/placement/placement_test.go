package placement

import (
	"encoding/json"
	"testing"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/predicate"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/provider"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

func newContext(seed int64) *Context {
	c := chunk.NewProtoChunk(chunk.ChunkPos{X: 1, Z: 2}, -64, 384)
	return &Context{Chunk: c, Random: random.NewLegacy(seed), Feature: "patch_grass"}
}

func decodeAll(t *testing.T, s string) []Codec {
	t.Helper()
	var mods []Codec
	if err := json.Unmarshal([]byte(s), &mods); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return mods
}

func TestCountZeroIsEmpty(t *testing.T) {
	inputs := []chunk.Pos{{X: 0, Y: 0, Z: 0}, {X: 16, Y: 70, Z: 32}, {X: -5, Y: -64, Z: 9}}
	m := &Count{Count: provider.Const(0)}
	for _, p := range inputs {
		if got := m.Positions(newContext(1), p); len(got) != 0 {
			t.Errorf("Count(0) at %v = %v, want empty", p, got)
		}
	}
	if got := Apply(newContext(1), []Codec{Wrap(m), Wrap(&InSquare{})}, chunk.Pos{}); got != nil {
		t.Errorf("pipeline after Count(0) = %v", got)
	}
}

func TestRarityOneKeepsAll(t *testing.T) {
	ctx := newContext(7)
	m := &RarityFilter{Chance: 1}
	for i := 0; i < 1000; i++ {
		p := chunk.Pos{X: i, Y: i % 50, Z: -i}
		if got := m.Positions(ctx, p); len(got) != 1 || got[0] != p {
			t.Fatalf("RarityFilter(1) dropped %v", p)
		}
	}
}

func TestRarityDrawsOncePerPosition(t *testing.T) {
	ctx := newContext(3)
	ref := random.NewLegacy(3)
	m := &RarityFilter{Chance: 4}
	for i := 0; i < 100; i++ {
		kept := len(m.Positions(ctx, chunk.Pos{})) == 1
		if want := ref.NextFloat() < 0.25; kept != want {
			t.Fatalf("draw %d kept=%v, want %v", i, kept, want)
		}
	}
}

func TestInSquareStaysInChunk(t *testing.T) {
	ctx := newContext(11)
	origin := chunk.Pos{X: 16, Y: -64, Z: 32}
	for i := 0; i < 500; i++ {
		p := (&InSquare{}).Positions(ctx, origin)[0]
		if p.X < 16 || p.X > 31 || p.Z < 32 || p.Z > 47 || p.Y != -64 {
			t.Fatalf("InSquare moved to %v", p)
		}
	}
}

func TestApplyStageOrder(t *testing.T) {
	ctx := newContext(42)
	mods := []Codec{
		Wrap(&Count{Count: provider.Const(3)}),
		Wrap(&InSquare{}),
		Wrap(&RandomOffset{XZSpread: provider.Const(0), YSpread: provider.IntCodec{Int: provider.UniformInt{MinInclusive: 0, MaxInclusive: 4}}}),
	}
	got := Apply(ctx, mods, chunk.Pos{X: 16, Y: 0, Z: 32})

	// All square offsets are drawn before any y offset.
	ref := random.NewLegacy(42)
	var want []chunk.Pos
	for i := 0; i < 3; i++ {
		x := 16 + int(ref.NextBoundedInt(16))
		z := 32 + int(ref.NextBoundedInt(16))
		want = append(want, chunk.Pos{X: x, Z: z})
	}
	for i := range want {
		want[i].Y = int(ref.NextIntBetween(0, 4))
	}
	if len(got) != len(want) {
		t.Fatalf("got %d positions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHeightmap(t *testing.T) {
	ctx := newContext(0)
	pc := ctx.Chunk.(*chunk.ProtoChunk)
	pc.SetBlockState(chunk.Pos{X: 17, Y: 63, Z: 33}, block.MustDefault("grass_block"))

	m := &Heightmap{Heightmap: "MOTION_BLOCKING"}
	got := m.Positions(ctx, chunk.Pos{X: 17, Y: 0, Z: 33})
	if len(got) != 1 || got[0].Y != 64 {
		t.Errorf("Heightmap = %v, want y=64", got)
	}
	if got := m.Positions(ctx, chunk.Pos{X: 18, Y: 0, Z: 33}); len(got) != 0 {
		t.Errorf("empty column kept: %v", got)
	}
}

func TestBiomeFilter(t *testing.T) {
	ctx := newContext(0)
	pc := ctx.Chunk.(*chunk.ProtoChunk)
	plains := &chunk.Biome{Name: "plains", Features: make([][]string, chunk.StepCount)}
	plains.Features[chunk.StepVegetalDecoration] = []string{"patch_grass"}
	desert := &chunk.Biome{Name: "desert", Features: make([][]string, chunk.StepCount)}
	for z := 0; z < 16; z++ {
		pc.SetBiome(0, z, plains)
		pc.SetBiome(1, z, desert)
	}

	if got := (&Biome{}).Positions(ctx, chunk.Pos{X: 16, Y: 70, Z: 40}); len(got) != 1 {
		t.Error("plains should accept patch_grass")
	}
	if got := (&Biome{}).Positions(ctx, chunk.Pos{X: 17, Y: 70, Z: 40}); len(got) != 0 {
		t.Error("desert should reject patch_grass")
	}
}

func TestBlockPredicateFilter(t *testing.T) {
	ctx := newContext(0)
	pc := ctx.Chunk.(*chunk.ProtoChunk)
	pc.SetBlockState(chunk.Pos{X: 20, Y: 63, Z: 40}, block.MustDefault("sand"))

	m := &BlockPredicateFilter{Predicate: predicate.Wrap(&predicate.MatchingBlocks{
		Blocks: predicate.Names{"sand"},
		Offset: predicate.Offset{0, -1, 0},
	})}
	if len(m.Positions(ctx, chunk.Pos{X: 20, Y: 64, Z: 40})) != 1 {
		t.Error("filter dropped a position above sand")
	}
	if len(m.Positions(ctx, chunk.Pos{X: 21, Y: 64, Z: 40})) != 0 {
		t.Error("filter kept a position above air")
	}
}

func TestNoiseThresholdCount(t *testing.T) {
	m := &NoiseThresholdCount{NoiseLevel: -0.8, BelowNoise: 5, AboveNoise: 10}
	for _, p := range []chunk.Pos{{X: 0, Z: 0}, {X: 400, Z: -1200}, {X: -3000, Z: 77}} {
		v := biomeInfoNoise().Sample(float64(p.X)/200, float64(p.Z)/200, false)
		want := 10
		if v < -0.8 {
			want = 5
		}
		if got := len(m.Positions(newContext(0), p)); got != want {
			t.Errorf("count at %v = %d, want %d", p, got, want)
		}
	}
}

func TestDeclaredPassThrough(t *testing.T) {
	mods := decodeAll(t, `[
		{"type": "minecraft:surface_water_depth_filter", "max_water_depth": 0},
		{"type": "minecraft:environment_scan", "direction_of_search": "down", "max_steps": 32},
		{"type": "minecraft:something_new"}
	]`)
	for _, m := range mods {
		if _, ok := m.Modifier.(*Declared); !ok {
			t.Fatalf("decoded %T, want *Declared", m.Modifier)
		}
	}
	p := chunk.Pos{X: 5, Y: 6, Z: 7}
	got := Apply(newContext(0), mods, p)
	if len(got) != 1 || got[0] != p {
		t.Errorf("declared stages changed the stream: %v", got)
	}
}

func TestDecode(t *testing.T) {
	mods := decodeAll(t, `[
		{"type": "minecraft:count", "count": {"type": "minecraft:uniform", "min_inclusive": 0, "max_inclusive": 3}},
		{"type": "minecraft:rarity_filter", "chance": 32},
		{"type": "minecraft:in_square"},
		{"type": "minecraft:height_range", "height": {"type": "minecraft:uniform", "min_inclusive": {"above_bottom": 0}, "max_inclusive": {"absolute": 80}}},
		{"type": "minecraft:random_offset", "xz_spread": 0, "y_spread": {"type": "minecraft:uniform", "min_inclusive": -1, "max_inclusive": 1}},
		{"type": "minecraft:heightmap", "heightmap": "WORLD_SURFACE_WG"},
		{"type": "minecraft:block_predicate_filter", "predicate": {"type": "minecraft:true"}},
		{"type": "minecraft:biome"},
		{"type": "minecraft:noise_threshold_count", "noise_level": -0.8, "below_noise": 5, "above_noise": 10}
	]`)
	wantTypes := []Modifier{
		&Count{}, &RarityFilter{}, &InSquare{}, &HeightRange{}, &RandomOffset{},
		&Heightmap{}, &BlockPredicateFilter{}, &Biome{}, &NoiseThresholdCount{},
	}
	for i, m := range mods {
		if got, want := typeName(m.Modifier), typeName(wantTypes[i]); got != want {
			t.Errorf("modifier %d = %s, want %s", i, got, want)
		}
	}

	for _, s := range []string{
		`[{"type":"minecraft:rarity_filter","chance":0}]`,
		`[{"type":"minecraft:heightmap","heightmap":"NOPE"}]`,
		`[{"type":"minecraft:count"}]`,
		`[{"count":3}]`,
	} {
		var out []Codec
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			t.Errorf("%s: expected error", s)
		}
	}
}

func typeName(m Modifier) string {
	switch m.(type) {
	case *Count:
		return "count"
	case *RarityFilter:
		return "rarity_filter"
	case *InSquare:
		return "in_square"
	case *HeightRange:
		return "height_range"
	case *RandomOffset:
		return "random_offset"
	case *Heightmap:
		return "heightmap"
	case *BlockPredicateFilter:
		return "block_predicate_filter"
	case *Biome:
		return "biome"
	case *NoiseThresholdCount:
		return "noise_threshold_count"
	}
	return "declared"
}
