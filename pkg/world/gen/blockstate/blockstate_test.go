package blockstate

import (
	"encoding/json"
	"testing"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

func decode(t *testing.T, s string) Provider {
	t.Helper()
	var c Codec
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return c.Provider
}

func TestSimple(t *testing.T) {
	p := decode(t, `{"type":"minecraft:simple_state_provider","state":{"Name":"minecraft:oak_log","Properties":{"axis":"y"}}}`)
	if !Implemented(p) {
		t.Fatal("simple provider should be implemented")
	}
	got := p.Get(random.NewLegacy(0), chunk.Pos{})
	if !got.Equal(block.MustDefault("oak_log")) {
		t.Errorf("Get = %s", block.Format(got))
	}
}

const noiseProvider = `{
	"type": "minecraft:noise_provider",
	"seed": 2345,
	"noise": {"firstOctave": 0, "amplitudes": [1.0]},
	"scale": 0.020833334,
	"states": [
		{"Name": "minecraft:dandelion"},
		{"Name": "minecraft:poppy"},
		{"Name": "minecraft:allium"},
		{"Name": "minecraft:azure_bluet"}
	]
}`

func TestNoiseBuckets(t *testing.T) {
	p := decode(t, noiseProvider)
	r := random.NewLegacy(0)
	tests := []struct {
		pos  chunk.Pos
		want string
	}{
		{chunk.Pos{X: 0, Y: 64, Z: 0}, "poppy"},
		{chunk.Pos{X: 10, Y: 70, Z: -3}, "poppy"},
		{chunk.Pos{X: -37, Y: 80, Z: 12}, "dandelion"},
	}
	for _, tt := range tests {
		if got := p.Get(r, tt.pos).Name(); got != tt.want {
			t.Errorf("Get(%v) = %s, want %s", tt.pos, got, tt.want)
		}
	}
	if r.NextLong() != random.NewLegacy(0).NextLong() {
		t.Error("noise provider consumed randomness")
	}
}

func TestBucketClamps(t *testing.T) {
	states := []block.StateCodec{
		{State: block.MustDefault("stone")},
		{State: block.MustDefault("dirt")},
		{State: block.MustDefault("sand")},
	}
	tests := []struct {
		v    float64
		want string
	}{
		{-5, "stone"},
		{-1, "stone"},
		{0, "dirt"},
		{1, "sand"},
		{1.3, "sand"},
	}
	for _, tt := range tests {
		if got := Bucket(states, tt.v).Name(); got != tt.want {
			t.Errorf("Bucket(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
	if !Bucket(nil, 0).Air {
		t.Error("empty bucket should be air")
	}
}

func TestNoiseThreshold(t *testing.T) {
	p := decode(t, `{
		"type": "minecraft:noise_threshold_provider",
		"seed": 2345,
		"noise": {"firstOctave": 0, "amplitudes": [1.0]},
		"scale": 0.005,
		"threshold": -0.5,
		"high_chance": 0.33333334,
		"default_state": {"Name": "minecraft:dandelion"},
		"low_states": [{"Name": "minecraft:orange_tulip"}, {"Name": "minecraft:red_tulip"}],
		"high_states": [{"Name": "minecraft:poppy"}, {"Name": "minecraft:cornflower"}]
	}`).(*NoiseThreshold)

	// Noise at (-37, 80, 12) is about -0.52, below the threshold.
	a, b := random.NewXoroshiro(9), random.NewXoroshiro(9)
	low := p.Get(a, chunk.Pos{X: -37, Y: 80, Z: 12})
	if want := p.LowStates[b.NextBoundedInt(2)].State; !low.Equal(want) {
		t.Errorf("low pick = %s, want %s", block.Format(low), block.Format(want))
	}

	// Noise at (0, 64, 0) is about -0.46, above the threshold.
	for i := 0; i < 50; i++ {
		got := p.Get(a, chunk.Pos{X: 0, Y: 64, Z: 0})
		want := p.DefaultState.State
		if b.NextFloat() < p.HighChance {
			want = p.HighStates[b.NextBoundedInt(2)].State
		}
		if !got.Equal(want) {
			t.Fatalf("draw %d = %s, want %s", i, block.Format(got), block.Format(want))
		}
	}
}

func TestNoiseThresholdValidation(t *testing.T) {
	var c Codec
	err := json.Unmarshal([]byte(`{
		"type": "noise_threshold_provider", "seed": 1,
		"noise": {"firstOctave": 0, "amplitudes": [1.0]}, "scale": 1, "threshold": 0, "high_chance": 0,
		"default_state": {"Name": "stone"}, "low_states": [], "high_states": [{"Name": "dirt"}]
	}`), &c)
	if err == nil {
		t.Error("expected error for empty low_states")
	}
	err = json.Unmarshal([]byte(`{"type": "noise_provider", "seed": 1, "noise": {"firstOctave": 0, "amplitudes": []}, "scale": 1, "states": [{"Name": "stone"}]}`), &c)
	if err == nil {
		t.Error("expected error for empty amplitudes")
	}
}

func TestDeclaredProvidersReturnAir(t *testing.T) {
	tests := []string{
		`{"type":"minecraft:weighted_state_provider","entries":[{"data":{"Name":"minecraft:poppy"},"weight":2}]}`,
		`{"type":"minecraft:rotated_block_provider","state":{"Name":"minecraft:oak_log"}}`,
		`{"type":"minecraft:dual_noise_provider","seed":1,"noise":{"firstOctave":0,"amplitudes":[1]},"scale":1,"states":[{"Name":"minecraft:stone"}],"variety":{"min_inclusive":1,"max_inclusive":3},"slow_noise":{"firstOctave":-10,"amplitudes":[1]},"slow_scale":1}`,
		`{"type":"minecraft:randomized_int_state_provider","source":{"type":"minecraft:simple_state_provider","state":{"Name":"minecraft:cactus"}},"property":"age","values":{"type":"minecraft:uniform","min_inclusive":0,"max_inclusive":3}}`,
	}
	for _, s := range tests {
		var c Codec
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			t.Fatalf("decode %s: %v", s, err)
		}
		if Implemented(c.Provider) {
			t.Errorf("%T should not be implemented", c.Provider)
		}
		if !c.Get(random.NewLegacy(0), chunk.Pos{}).Air {
			t.Errorf("%T should return air", c.Provider)
		}
	}
}

func TestUnknownProvider(t *testing.T) {
	var c Codec
	if err := json.Unmarshal([]byte(`{"type":"minecraft:mystery"}`), &c); err == nil {
		t.Error("expected error for unknown type")
	}
}
