// Package blockstate implements block state providers: strategies that pick
// the block placed at a position.
package blockstate

import (
	"fmt"
	"math"
	"sync"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/tagged"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/noise"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/provider"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// Provider selects a block state for a position.
type Provider interface {
	Get(r random.Source, pos chunk.Pos) block.State
	isProvider()
}

// Implemented reports whether p has generation behaviour. Declared providers
// always return air, so features placing them should fail instead.
func Implemented(p Provider) bool {
	switch p.(type) {
	case *Simple, *NoiseThreshold, *Noise:
		return true
	}
	return false
}

// Simple always returns State.
type Simple struct {
	State block.StateCodec `json:"state"`
}

// NewSimple returns a provider for a fixed state.
func NewSimple(s block.State) *Simple { return &Simple{State: block.StateCodec{State: s}} }

func (p *Simple) Get(random.Source, chunk.Pos) block.State { return p.State.State }
func (*Simple) isProvider()                                 {}

// noiseField is the sampler shared by the noise based providers. The sampler
// is built on first use from a legacy source seeded with Seed.
type noiseField struct {
	Seed  int64            `json:"seed"`
	Noise noise.Parameters `json:"noise"`
	Scale float32          `json:"scale"`

	once    sync.Once
	sampler *noise.DoublePerlin
}

func (f *noiseField) value(pos chunk.Pos) float64 {
	f.once.Do(func() {
		f.sampler = noise.NewDoublePerlin(random.NewLegacy(f.Seed), &f.Noise)
	})
	s := float64(f.Scale)
	return f.sampler.Sample(float64(pos.X)*s, float64(pos.Y)*s, float64(pos.Z)*s)
}

// NoiseThreshold picks from LowStates where the noise is below Threshold.
// Elsewhere it picks from HighStates with probability HighChance and returns
// DefaultState otherwise.
type NoiseThreshold struct {
	noiseField
	Threshold    float32            `json:"threshold"`
	HighChance   float32            `json:"high_chance"`
	DefaultState block.StateCodec   `json:"default_state"`
	LowStates    []block.StateCodec `json:"low_states"`
	HighStates   []block.StateCodec `json:"high_states"`
}

func (p *NoiseThreshold) Get(r random.Source, pos chunk.Pos) block.State {
	v := p.value(pos)
	if v < float64(p.Threshold) {
		return pick(p.LowStates, r)
	}
	if r.NextFloat() < p.HighChance {
		return pick(p.HighStates, r)
	}
	return p.DefaultState.State
}

func (*NoiseThreshold) isProvider() {}

// Noise maps the noise value at a position onto States in order.
type Noise struct {
	noiseField
	States []block.StateCodec `json:"states"`
}

func (p *Noise) Get(_ random.Source, pos chunk.Pos) block.State {
	return Bucket(p.States, p.value(pos))
}

func (*Noise) isProvider() {}

// Bucket maps v in [-1, 1] onto an index of states. Values outside the range
// are clamped to the first or last entry.
func Bucket(states []block.StateCodec, v float64) block.State {
	if len(states) == 0 {
		return block.Air()
	}
	e := math.Min(math.Max((1+v)/2, 0), 0.9999)
	return states[int(e*float64(len(states)))].State
}

func pick(states []block.StateCodec, r random.Source) block.State {
	if len(states) == 0 {
		return block.Air()
	}
	return states[r.NextBoundedInt(int32(len(states)))].State
}

// WeightedState is one entry of a Weighted provider.
type WeightedState struct {
	Data   block.StateCodec `json:"data"`
	Weight int32            `json:"weight"`
}

// Weighted decodes a weighted state list; it has no selection behaviour yet.
type Weighted struct {
	Entries []WeightedState `json:"entries"`
}

func (p *Weighted) Get(random.Source, chunk.Pos) block.State {
	return declared("weighted_state_provider")
}

func (*Weighted) isProvider() {}

// RotatedBlock decodes a pillar block provider; it has no behaviour yet.
type RotatedBlock struct {
	State block.StateCodec `json:"state"`
}

func (p *RotatedBlock) Get(random.Source, chunk.Pos) block.State {
	return declared("rotated_block_provider")
}

func (*RotatedBlock) isProvider() {}

// DualNoise decodes a two-noise provider; it has no behaviour yet.
type DualNoise struct {
	Seed      int64              `json:"seed"`
	Noise     noise.Parameters   `json:"noise"`
	Scale     float32            `json:"scale"`
	States    []block.StateCodec `json:"states"`
	Variety   IntRange           `json:"variety"`
	SlowNoise noise.Parameters   `json:"slow_noise"`
	SlowScale float32            `json:"slow_scale"`
}

func (p *DualNoise) Get(random.Source, chunk.Pos) block.State {
	return declared("dual_noise_provider")
}

func (*DualNoise) isProvider() {}

// IntRange is an inclusive int range.
type IntRange struct {
	MinInclusive int32 `json:"min_inclusive"`
	MaxInclusive int32 `json:"max_inclusive"`
}

// RandomizedInt decodes a provider that overrides an int property of another
// provider's state; it has no behaviour yet.
type RandomizedInt struct {
	Source   Codec             `json:"source"`
	Property string            `json:"property"`
	Values   provider.IntCodec `json:"values"`
}

func (p *RandomizedInt) Get(random.Source, chunk.Pos) block.State {
	return declared("randomized_int_state_provider")
}

func (*RandomizedInt) isProvider() {}

func declared(name string) block.State {
	diag.Unimplemented("block_state_provider", name)
	return block.Air()
}

// Codec decodes a typed block state provider.
type Codec struct {
	Provider
}

func (c *Codec) UnmarshalJSON(data []byte) error {
	typ, err := tagged.Type(data)
	if err != nil {
		return fmt.Errorf("block state provider: %w", err)
	}
	var p Provider
	switch typ {
	case "simple_state_provider":
		p = &Simple{}
	case "noise_threshold_provider":
		p = &NoiseThreshold{}
	case "noise_provider":
		p = &Noise{}
	case "weighted_state_provider":
		p = &Weighted{}
	case "rotated_block_provider":
		p = &RotatedBlock{}
	case "dual_noise_provider":
		p = &DualNoise{}
	case "randomized_int_state_provider":
		p = &RandomizedInt{}
	default:
		return fmt.Errorf("block state provider: unknown type %q", typ)
	}
	if err := tagged.Decode(typ, data, p); err != nil {
		return fmt.Errorf("block state provider: %w", err)
	}
	if err := validate(p); err != nil {
		return fmt.Errorf("block state provider: %s: %w", typ, err)
	}
	c.Provider = p
	return nil
}

func validate(p Provider) error {
	switch p := p.(type) {
	case *NoiseThreshold:
		if err := p.Noise.Validate(); err != nil {
			return err
		}
		if len(p.LowStates) == 0 || len(p.HighStates) == 0 {
			return fmt.Errorf("low_states and high_states must not be empty")
		}
	case *Noise:
		if err := p.Noise.Validate(); err != nil {
			return err
		}
		if len(p.States) == 0 {
			return fmt.Errorf("states must not be empty")
		}
	}
	return nil
}
