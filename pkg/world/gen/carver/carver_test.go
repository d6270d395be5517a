package carver

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

const caveJSON = `{
	"type": "minecraft:cave",
	"config": {
		"probability": %s,
		"y": {"type": "minecraft:uniform", "min_inclusive": {"above_bottom": 8}, "max_inclusive": {"absolute": 180}},
		"yScale": {"type": "minecraft:uniform", "min_inclusive": 0.1, "max_exclusive": 0.9},
		"lava_level": {"above_bottom": 8},
		"replaceable": "#minecraft:overworld_carver_replaceables",
		"horizontal_radius_multiplier": {"type": "minecraft:uniform", "min_inclusive": 0.7, "max_exclusive": 1.4},
		"vertical_radius_multiplier": {"type": "minecraft:uniform", "min_inclusive": 0.8, "max_exclusive": 1.3},
		"floor_level": {"type": "minecraft:uniform", "min_inclusive": -1.0, "max_exclusive": -0.4},
		"debug_settings": {"debug_mode": false}
	}
}`

func decodeCave(t *testing.T, probability string) *Configured {
	t.Helper()
	var c Configured
	if err := json.Unmarshal([]byte(fmt.Sprintf(caveJSON, probability)), &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return &c
}

func TestMask(t *testing.T) {
	m := NewMask(-64, 384)
	if m.Get(3, 10, 4) {
		t.Fatal("new mask has marked cells")
	}
	m.Set(3, 10, 4)
	m.Set(3, 10, 4)
	if !m.Get(3, 10, 4) || m.Count() != 1 {
		t.Fatalf("after two sets: get=%v count=%d", m.Get(3, 10, 4), m.Count())
	}
	for _, p := range [][3]int{{4, 10, 4}, {3, 11, 4}, {3, 10, 5}, {3, 9, 4}} {
		if m.Get(p[0], p[1], p[2]) {
			t.Errorf("neighbour %v marked", p)
		}
	}
	m.Set(15, -64, 15)
	m.Set(0, 319, 0)
	m.Set(0, 320, 0)
	m.Set(0, -65, 0)
	if m.Count() != 3 {
		t.Errorf("count = %d, want 3", m.Count())
	}
	if m.Get(0, 320, 0) || m.Get(0, -65, 0) {
		t.Error("out of range cells reported as marked")
	}
}

func TestTrig(t *testing.T) {
	tests := []struct {
		got, want float32
	}{
		{sin(0), 0},
		{cos(0), 1},
		{sin(math.Pi / 2), 1},
		{sin(-math.Pi / 2), -1},
		{cos(math.Pi), -1},
	}
	for i, tt := range tests {
		if math.Abs(float64(tt.got-tt.want)) > 1e-4 {
			t.Errorf("case %d = %v, want %v", i, tt.got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	c := decodeCave(t, "0.15")
	cave, ok := c.Carver.(*Cave)
	if !ok {
		t.Fatalf("decoded %T, want *Cave", c.Carver)
	}
	if cave.Probability != 0.15 {
		t.Errorf("probability = %v", cave.Probability)
	}
	if got := cave.LavaLevel.Resolve(-64, 384); got != -56 {
		t.Errorf("lava level = %d, want -56", got)
	}
	if !cave.Replaceable.Contains(block.MustDefault("deepslate")) || cave.Replaceable.Contains(block.Air()) {
		t.Error("replaceable set does not match the carver tag")
	}

	var canyon Configured
	if err := json.Unmarshal([]byte(`{"type": "minecraft:canyon", "config": {"probability": 0.01}}`), &canyon); err != nil {
		t.Fatal(err)
	}
	if _, ok := canyon.Carver.(*Declared); !ok {
		t.Errorf("canyon decoded to %T", canyon.Carver)
	}

	if err := json.Unmarshal([]byte(fmt.Sprintf(caveJSON, "1.5")), &Configured{}); err == nil {
		t.Error("probability above 1 accepted")
	}
}

func TestShouldCarve(t *testing.T) {
	never := decodeCave(t, "0").Carver
	always := decodeCave(t, "1").Carver
	for seed := int64(0); seed < 100; seed++ {
		if never.ShouldCarve(random.NewLegacy(seed)) {
			t.Fatalf("seed %d: probability 0 started", seed)
		}
		if !always.ShouldCarve(random.NewLegacy(seed)) {
			t.Fatalf("seed %d: probability 1 did not start", seed)
		}
	}
}

func TestCanReach(t *testing.T) {
	pos := chunk.ChunkPos{X: 0, Z: 0}
	if !canReach(pos, mgl64.Vec3{8, 40, 8}, 100, 112, 1) {
		t.Error("walk inside the chunk cannot reach it")
	}
	if canReach(pos, mgl64.Vec3{400, 40, 400}, 100, 112, 1) {
		t.Error("walk far away with few steps left reaches the chunk")
	}
}

type testCarvers map[string]*Configured

func (m testCarvers) Carver(name string) (*Configured, bool) {
	c, ok := m[block.StripNamespace(name)]
	return c, ok
}

func stoneChunk(pos chunk.ChunkPos) *chunk.ProtoChunk {
	c := chunk.NewProtoChunk(pos, -64, 384)
	stone := block.MustDefault("stone")
	for y := -64; y <= 100; y++ {
		for x := 0; x < 16; x++ {
			for z := 0; z < 16; z++ {
				c.SetBlockState(chunk.Pos{X: pos.MinBlockX() + x, Y: y, Z: pos.MinBlockZ() + z}, stone)
			}
		}
	}
	return c
}

func TestCarveChunk(t *testing.T) {
	carvers := testCarvers{"cave": decodeCave(t, "1")}
	biome := &chunk.Biome{Name: "plains", Carvers: []string{"minecraft:cave"}}
	biomes := func(chunk.ChunkPos) *chunk.Biome { return biome }
	pos := chunk.ChunkPos{X: 3, Z: -2}

	a := stoneChunk(pos)
	ctx := CarveChunk(a, pos, 1234, biomes, carvers)
	if ctx.Carved == 0 {
		t.Fatal("nothing carved")
	}
	if ctx.Mask.Count() < ctx.Carved {
		t.Errorf("mask has %d cells, carved %d", ctx.Mask.Count(), ctx.Carved)
	}

	b := stoneChunk(pos)
	again := CarveChunk(b, pos, 1234, biomes, carvers)
	if a.Digest() != b.Digest() || again.Carved != ctx.Carved {
		t.Error("same seed carved different caves")
	}

	for y := -64; y <= 100; y++ {
		for x := 0; x < 16; x++ {
			for z := 0; z < 16; z++ {
				p := chunk.Pos{X: pos.MinBlockX() + x, Y: y, Z: pos.MinBlockZ() + z}
				s := a.BlockState(p)
				switch name := s.Name(); {
				case name == "stone":
				case name == "lava" && y <= -56:
				case name == "air" && y > -56:
				default:
					t.Fatalf("%s at %v", name, p)
				}
				if y <= -63 && s.Name() != "stone" {
					t.Fatalf("bottom cell %v carved", p)
				}
				if s.Name() != "stone" && !ctx.Mask.Get(x, y, z) {
					t.Fatalf("carved cell %v missing from the mask", p)
				}
			}
		}
	}

	// Replaying with the same mask touches nothing.
	before := a.Digest()
	ctx.Carved = 0
	carveInto(ctx, 1234, biomes, carvers)
	if ctx.Carved != 0 || a.Digest() != before {
		t.Errorf("second pass carved %d cells", ctx.Carved)
	}
}

func TestCarveChunkDeclared(t *testing.T) {
	var canyon Configured
	if err := json.Unmarshal([]byte(`{"type": "minecraft:canyon", "config": {}}`), &canyon); err != nil {
		t.Fatal(err)
	}
	pos := chunk.ChunkPos{}
	c := stoneChunk(pos)
	before := c.Digest()
	biome := &chunk.Biome{Name: "plains", Carvers: []string{"canyon", "missing"}}
	ctx := CarveChunk(c, pos, 1, func(chunk.ChunkPos) *chunk.Biome { return biome }, testCarvers{"canyon": &canyon})
	if ctx.Carved != 0 || c.Digest() != before {
		t.Error("declared carver changed the chunk")
	}
}
