package feature

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/blockstate"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

type countingAccess struct {
	*chunk.ProtoChunk
	writes int
}

func (c *countingAccess) SetBlockState(p chunk.Pos, s block.State) {
	c.writes++
	c.ProtoChunk.SetBlockState(p, s)
}

func newChunk() *countingAccess {
	return &countingAccess{ProtoChunk: chunk.NewProtoChunk(chunk.ChunkPos{}, -64, 384)}
}

func newContext(c chunk.Access, seed int64, l Lookup) *Context {
	return &Context{Chunk: c, Random: random.NewLegacy(seed), Lookup: l}
}

func decodeConfigured(t *testing.T, s string) *Configured {
	t.Helper()
	var c Configured
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return &c
}

func expectBlock(t *testing.T, c chunk.Access, p chunk.Pos, name string) {
	t.Helper()
	if got := c.BlockState(p).Name(); got != name {
		t.Errorf("block at %v = %s, want %s", p, got, name)
	}
}

func TestTrunkPlacerFixedHeight(t *testing.T) {
	tp := TrunkPlacer{Type: "straight_trunk_placer", BaseHeight: 4}
	for seed := int64(0); seed < 50; seed++ {
		for _, r := range []random.Source{random.NewLegacy(seed), random.NewXoroshiro(seed)} {
			if h := tp.Height(r); h != 4 {
				t.Fatalf("seed %d: height %d, want 4", seed, h)
			}
		}
	}
}

func TestDesertWell(t *testing.T) {
	c := newChunk()
	origin := chunk.Pos{X: 8, Y: 64, Z: 8}
	c.SetBlockState(origin, block.MustDefault("sand"))

	if !(&DesertWell{}).Generate(newContext(c, 0, nil), origin) {
		t.Fatal("well on sand over air was not placed")
	}
	for _, d := range []chunk.Pos{{}, {X: 1}, {X: -1}, {Z: 1}, {Z: -1}} {
		expectBlock(t, c, origin.Offset(d), "water")
		expectBlock(t, c, origin.Offset(d).Down(), "sand")
	}
	for _, d := range []chunk.Pos{{X: 2, Y: 1}, {X: -2, Y: 1}, {Y: 1, Z: 2}, {Y: 1, Z: -2}} {
		expectBlock(t, c, origin.Offset(d), "sandstone_slab")
	}
	walls := []chunk.Pos{
		{X: -2, Y: 0, Z: -2}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: -2, Z: 0},
		{X: -2, Y: 1, Z: -2}, {X: 2, Y: 1, Z: 1}, {X: 0, Y: 4, Z: 0},
		{X: -1, Y: 1, Z: -1}, {X: 1, Y: 3, Z: 1},
	}
	for _, d := range walls {
		expectBlock(t, c, origin.Offset(d), "sandstone")
	}
	expectBlock(t, c, origin.Add(1, 4, 0), "sandstone_slab")
	expectBlock(t, c, origin.Add(0, 2, 0), "air")
}

func TestDesertWellRejects(t *testing.T) {
	origin := chunk.Pos{X: 8, Y: 64, Z: 8}
	tests := []struct {
		name  string
		setup func(c *chunk.ProtoChunk)
	}{
		{"stone", func(c *chunk.ProtoChunk) {
			c.SetBlockState(origin, block.MustDefault("stone"))
		}},
		{"solid below", func(c *chunk.ProtoChunk) {
			c.SetBlockState(origin, block.MustDefault("sand"))
			c.SetBlockState(origin.Add(2, -2, -2), block.MustDefault("stone"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newChunk()
			tt.setup(c.ProtoChunk)
			before := c.Digest()
			c.writes = 0
			if (&DesertWell{}).Generate(newContext(c, 0, nil), origin) {
				t.Fatal("well placed")
			}
			if c.writes != 0 || c.Digest() != before {
				t.Errorf("rejected well made %d writes", c.writes)
			}
		})
	}
}

const oakTree = `{
	"type": "minecraft:tree",
	"config": {
		"trunk_provider": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:oak_log", "Properties": {"axis": "y"}}},
		"foliage_provider": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:oak_leaves"}},
		"dirt_provider": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:dirt"}},
		"trunk_placer": {"type": "minecraft:straight_trunk_placer", "base_height": 5, "height_rand_a": 0, "height_rand_b": 0},
		"foliage_placer": {"type": "minecraft:blob_foliage_placer", "radius": 2, "offset": 0, "height": 3},
		"minimum_size": {"type": "minecraft:two_layers_feature_size", "limit": 1, "lower_size": 0, "upper_size": 1},
		"decorators": [],
		"ignore_vines": true,
		"force_dirt": false
	}
}`

func TestTreeGrows(t *testing.T) {
	tree := decodeConfigured(t, oakTree)
	c := newChunk()
	origin := chunk.Pos{X: 8, Y: 64, Z: 8}
	c.SetBlockState(origin.Down(), block.MustDefault("grass_block"))

	if !tree.Generate(newContext(c, 3, nil), origin) {
		t.Fatal("tree was not placed")
	}
	expectBlock(t, c, origin.Down(), "dirt")
	for y := 0; y < 5; y++ {
		expectBlock(t, c, origin.Add(0, y, 0), "oak_log")
	}
	expectBlock(t, c, origin.Add(0, 5, 0), "oak_leaves")
	expectBlock(t, c, origin.Add(1, 5, 0), "oak_leaves")
	expectBlock(t, c, origin.Add(1, 5, 1), "air")
	expectBlock(t, c, origin.Add(2, 3, 0), "oak_leaves")
	expectBlock(t, c, origin.Add(0, 6, 0), "air")

	again := newChunk()
	again.SetBlockState(origin.Down(), block.MustDefault("grass_block"))
	tree.Generate(newContext(again, 3, nil), origin)
	if c.Digest() != again.Digest() {
		t.Error("same seed grew different trees")
	}
}

func TestTreeBlocked(t *testing.T) {
	tree := decodeConfigured(t, oakTree)
	c := newChunk()
	origin := chunk.Pos{X: 8, Y: 64, Z: 8}
	c.SetBlockState(origin.Add(1, 3, 0), block.MustDefault("stone"))
	c.writes = 0
	if tree.Generate(newContext(c, 0, nil), origin) {
		t.Fatal("tree grew into stone")
	}
	if c.writes != 0 {
		t.Errorf("blocked tree made %d writes", c.writes)
	}

	top := chunk.Pos{X: 8, Y: 318, Z: 8}
	if tree.Generate(newContext(c, 0, nil), top) {
		t.Error("tree grew past the build height")
	}
}

func TestTreeDeclaredPartsFailClosed(t *testing.T) {
	tree := decodeConfigured(t, `{
		"type": "minecraft:tree",
		"config": {
			"trunk_provider": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:oak_log"}},
			"foliage_provider": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:oak_leaves"}},
			"trunk_placer": {"type": "minecraft:fancy_trunk_placer", "base_height": 3, "height_rand_a": 11, "height_rand_b": 0},
			"foliage_placer": {"type": "minecraft:fancy_foliage_placer", "radius": 2, "offset": 4, "height": 4},
			"minimum_size": {"type": "minecraft:two_layers_feature_size", "limit": 0, "lower_size": 0, "upper_size": 0, "min_clipped_height": 4}
		}
	}`)
	c := newChunk()
	c.writes = 0
	if tree.Generate(newContext(c, 0, nil), chunk.Pos{X: 8, Y: 64, Z: 8}) {
		t.Fatal("fancy tree placed")
	}
	if c.writes != 0 {
		t.Errorf("declared tree made %d writes", c.writes)
	}
}

func TestFeatureSize(t *testing.T) {
	three := FeatureSize{Type: "three_layers_feature_size", Limit: 1, UpperLimit: 1, LowerSize: 0, MiddleSize: 1, UpperSize: 2}
	for y, want := range []int32{0, 1, 1, 1, 2, 2} {
		if got := three.SizeAt(5, int32(y)); got != want {
			t.Errorf("three layers SizeAt(5, %d) = %d, want %d", y, got, want)
		}
	}
	two := FeatureSize{Type: "two_layers_feature_size", Limit: 2, LowerSize: 0, UpperSize: 1}
	for y, want := range []int32{0, 0, 1, 1} {
		if got := two.SizeAt(5, int32(y)); got != want {
			t.Errorf("two layers SizeAt(5, %d) = %d, want %d", y, got, want)
		}
	}
}

func simpleBlock(name string) Feature {
	return &SimpleBlock{ToPlace: blockstate.Codec{Provider: blockstate.NewSimple(block.MustDefault(name))}}
}

func TestSimpleBlock(t *testing.T) {
	c := newChunk()
	p := chunk.Pos{X: 3, Y: 70, Z: 3}
	if !simpleBlock("dandelion").Generate(newContext(c, 0, nil), p) {
		t.Fatal("simple block reported nothing placed")
	}
	expectBlock(t, c, p, "dandelion")

	weighted := decodeConfigured(t, `{"type": "minecraft:simple_block", "config": {"to_place": {
		"type": "minecraft:weighted_state_provider",
		"entries": [{"data": {"Name": "minecraft:poppy"}, "weight": 1}]
	}}}`)
	c.writes = 0
	if weighted.Generate(newContext(c, 0, nil), p.Up()) || c.writes != 0 {
		t.Error("weighted provider placed a block")
	}
}

func TestRandomPatch(t *testing.T) {
	patch := &RandomPatch{Tries: 32, XZSpread: 3, YSpread: 0, Feature: Inline(simpleBlock("short_grass"))}
	c := newChunk()
	origin := chunk.Pos{X: 8, Y: 70, Z: 8}
	if !patch.Generate(newContext(c, 9, nil), origin) {
		t.Fatal("patch placed nothing")
	}

	ref := random.NewLegacy(9)
	for i := 0; i < 32; i++ {
		dx := ref.NextBoundedInt(4) - ref.NextBoundedInt(4)
		dy := ref.NextBoundedInt(1) - ref.NextBoundedInt(1)
		dz := ref.NextBoundedInt(4) - ref.NextBoundedInt(4)
		expectBlock(t, c, origin.Add(int(dx), int(dy), int(dz)), "short_grass")
	}
	if c.writes != 32 {
		t.Errorf("patch made %d writes, want 32", c.writes)
	}

	empty := &RandomPatch{Tries: 0, Feature: Inline(simpleBlock("short_grass"))}
	if empty.Generate(newContext(newChunk(), 9, nil), origin) {
		t.Error("patch with no tries placed")
	}
}

func TestSelectors(t *testing.T) {
	p := chunk.Pos{X: 1, Y: 70, Z: 1}

	c := newChunk()
	sel := &RandomSelector{
		Features: []WeightedPlaced{{Chance: 0, Feature: Inline(simpleBlock("poppy"))}},
		Default:  Inline(simpleBlock("dandelion")),
	}
	if !sel.Generate(newContext(c, 0, nil), p) {
		t.Fatal("random selector placed nothing")
	}
	expectBlock(t, c, p, "dandelion")

	// A failing entry falls through to the next one.
	c = newChunk()
	sel = &RandomSelector{
		Features: []WeightedPlaced{
			{Chance: 1, Feature: Inline(&Declared{Kind: "huge_fungus"})},
			{Chance: 1, Feature: Inline(simpleBlock("poppy"))},
		},
		Default: Inline(simpleBlock("dandelion")),
	}
	sel.Generate(newContext(c, 0, nil), p)
	expectBlock(t, c, p, "poppy")

	if (&SimpleRandomSelector{}).Generate(newContext(newChunk(), 0, nil), p) {
		t.Error("empty simple selector placed")
	}

	for seed := int64(0); seed < 20; seed++ {
		c = newChunk()
		want := "poppy"
		if random.NewLegacy(seed).NextBool() {
			want = "dandelion"
		}
		b := &RandomBooleanSelector{FeatureTrue: Inline(simpleBlock("dandelion")), FeatureFalse: Inline(simpleBlock("poppy"))}
		b.Generate(newContext(c, seed, nil), p)
		expectBlock(t, c, p, want)
	}
}

func TestDeclaredFeatures(t *testing.T) {
	for _, s := range []string{
		`{"type": "minecraft:ore", "config": {"size": 9, "discard_chance_on_air_exposure": 0, "targets": []}}`,
		`{"type": "minecraft:fallen_tree", "config": {"trunk_provider": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:oak_log"}}, "log_length": {"type": "minecraft:uniform", "min_inclusive": 4, "max_inclusive": 7}}}`,
		`{"type": "minecraft:huge_brown_mushroom", "config": {"foliage_radius": 3}}`,
	} {
		f := decodeConfigured(t, s)
		c := newChunk()
		if f.Generate(newContext(c, 0, nil), chunk.Pos{X: 4, Y: 64, Z: 4}) || c.writes != 0 {
			t.Errorf("%s placed blocks", f.Type)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, s := range []string{
		`{"config": {}}`,
		`{"type": "minecraft:simple_block", "config": {}}`,
		`{"type": "minecraft:random_patch", "config": {"tries": -1, "feature": "x"}}`,
		`{"type": "minecraft:random_selector", "config": {"features": []}}`,
		`{"type": "minecraft:tree", "config": {"trunk_provider": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:oak_log"}}}}`,
	} {
		var c Configured
		if err := json.Unmarshal([]byte(s), &c); err == nil {
			t.Errorf("%s: expected error", s)
		}
	}
}

func registryOf(t *testing.T, placed, configured map[string]string) *Registry {
	t.Helper()
	r := NewRegistry()
	for name, s := range placed {
		var p Placed
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			t.Fatalf("placed %s: %v", name, err)
		}
		r.AddPlaced(name, &p)
	}
	for name, s := range configured {
		r.AddConfigured(name, decodeConfigured(t, s))
	}
	return r
}

func TestRegistryLookup(t *testing.T) {
	r := registryOf(t,
		map[string]string{"minecraft:flower": `{"feature": "minecraft:flower", "placement": [{"type": "minecraft:count", "count": 2}]}`},
		map[string]string{"flower": `{"type": "minecraft:random_patch", "config": {"tries": 4, "xz_spread": 0, "y_spread": 0, "feature": {"feature": {"type": "minecraft:simple_block", "config": {"to_place": {"type": "minecraft:simple_state_provider", "state": {"Name": "minecraft:poppy"}}}}, "placement": []}}}`},
	)
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	p, ok := r.Placed("minecraft:flower")
	if !ok {
		t.Fatal("flower not registered")
	}
	c := newChunk()
	at := chunk.Pos{X: 5, Y: 66, Z: 5}
	if !p.Generate(newContext(c, 0, r), at) {
		t.Fatal("flower placed nothing")
	}
	expectBlock(t, c, at, "poppy")
	if c.writes != 8 {
		t.Errorf("writes = %d, want 8", c.writes)
	}
}

func TestRegistryValidate(t *testing.T) {
	patch := func(ref string) string {
		return `{"type": "minecraft:random_patch", "config": {"feature": "` + ref + `"}}`
	}
	tests := []struct {
		name       string
		placed     map[string]string
		configured map[string]string
		want       error
	}{
		{
			name:       "self cycle",
			placed:     map[string]string{"a": `{"feature": "a", "placement": []}`},
			configured: map[string]string{"a": patch("a")},
			want:       ErrCycle,
		},
		{
			name:       "long cycle",
			placed:     map[string]string{"a": `{"feature": "a", "placement": []}`, "b": `{"feature": "b", "placement": []}`},
			configured: map[string]string{"a": patch("b"), "b": `{"type": "minecraft:random_selector", "config": {"features": [], "default": "a"}}`},
			want:       ErrCycle,
		},
		{
			name:   "dangling configured",
			placed: map[string]string{"a": `{"feature": "missing", "placement": []}`},
			want:   ErrUnknownFeature,
		},
		{
			name:       "dangling placed",
			configured: map[string]string{"a": patch("missing")},
			want:       ErrUnknownFeature,
		},
		{
			name:       "shared child",
			placed:     map[string]string{"a": `{"feature": "a", "placement": []}`, "b": `{"feature": "b", "placement": []}`, "leaf": `{"feature": "leaf", "placement": []}`},
			configured: map[string]string{"a": patch("leaf"), "b": patch("leaf"), "leaf": `{"type": "minecraft:desert_well", "config": {}}`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := registryOf(t, tt.placed, tt.configured).Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}
