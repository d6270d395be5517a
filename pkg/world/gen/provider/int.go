// Package provider implements the scalar value providers used by feature and
// carver configurations: int, height and float distributions.
package provider

import (
	"encoding/json"
	"fmt"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/tagged"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// Int draws an int32. Min and Max bound every value Get can return and do not
// consume randomness.
type Int interface {
	Get(r random.Source) int32
	Min() int32
	Max() int32
	isInt()
}

// ConstantInt always returns Value.
type ConstantInt struct {
	Value int32 `json:"value"`
}

func (p ConstantInt) Get(random.Source) int32 { return p.Value }
func (p ConstantInt) Min() int32              { return p.Value }
func (p ConstantInt) Max() int32              { return p.Value }
func (ConstantInt) isInt()                    {}

// UniformInt draws uniformly from [MinInclusive, MaxInclusive].
type UniformInt struct {
	MinInclusive int32 `json:"min_inclusive"`
	MaxInclusive int32 `json:"max_inclusive"`
}

func (p UniformInt) Get(r random.Source) int32 { return r.NextIntBetween(p.MinInclusive, p.MaxInclusive) }
func (p UniformInt) Min() int32                { return p.MinInclusive }
func (p UniformInt) Max() int32                { return p.MaxInclusive }
func (UniformInt) isInt()                      {}

// BiasedToBottomInt is meant to favour low values of its range. It currently
// returns MinInclusive without drawing.
type BiasedToBottomInt struct {
	MinInclusive int32 `json:"min_inclusive"`
	MaxInclusive int32 `json:"max_inclusive"`
}

func (p BiasedToBottomInt) Get(random.Source) int32 { return p.MinInclusive }
func (p BiasedToBottomInt) Min() int32              { return p.MinInclusive }
func (p BiasedToBottomInt) Max() int32              { return p.MaxInclusive }
func (BiasedToBottomInt) isInt()                    {}

// ClampedInt clamps the draws and the bounds of Source into
// [MinInclusive, MaxInclusive].
type ClampedInt struct {
	Source       IntCodec `json:"source"`
	MinInclusive int32    `json:"min_inclusive"`
	MaxInclusive int32    `json:"max_inclusive"`
}

func (p ClampedInt) Get(r random.Source) int32 {
	return clamp(p.Source.Get(r), p.MinInclusive, p.MaxInclusive)
}

func (p ClampedInt) Min() int32 { return max(p.MinInclusive, p.Source.Min()) }
func (p ClampedInt) Max() int32 { return min(p.MaxInclusive, p.Source.Max()) }
func (ClampedInt) isInt()       {}

// WeightedInt is one entry of a weighted list.
type WeightedInt struct {
	Data   IntCodec `json:"data"`
	Weight int32    `json:"weight"`
}

// WeightedListInt decodes its distribution but has no draw behaviour yet: Get
// returns 0.
type WeightedListInt struct {
	Distribution []WeightedInt `json:"distribution"`
}

func (p WeightedListInt) Get(random.Source) int32 {
	diag.Unimplemented("int_provider", "weighted_list")
	return 0
}

func (p WeightedListInt) Min() int32 {
	if len(p.Distribution) == 0 {
		return 0
	}
	m := p.Distribution[0].Data.Min()
	for _, e := range p.Distribution[1:] {
		m = min(m, e.Data.Min())
	}
	return m
}

func (p WeightedListInt) Max() int32 {
	if len(p.Distribution) == 0 {
		return 0
	}
	m := p.Distribution[0].Data.Max()
	for _, e := range p.Distribution[1:] {
		m = max(m, e.Data.Max())
	}
	return m
}

func (WeightedListInt) isInt() {}

// IntCodec decodes an int provider from a bare integer or a typed object.
type IntCodec struct {
	Int
}

// Const wraps a constant in a codec.
func Const(v int32) IntCodec { return IntCodec{ConstantInt{Value: v}} }

func (c *IntCodec) UnmarshalJSON(data []byte) error {
	if tagged.IsNumber(data) {
		var v int32
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("int provider: %w", err)
		}
		c.Int = ConstantInt{Value: v}
		return nil
	}
	typ, err := tagged.Type(data)
	if err != nil {
		return fmt.Errorf("int provider: %w", err)
	}
	switch typ {
	case "constant":
		var p ConstantInt
		err = tagged.Decode(typ, data, &p)
		c.Int = p
	case "uniform":
		var p UniformInt
		err = tagged.Decode(typ, data, &p)
		c.Int = p
	case "biased_to_bottom":
		var p BiasedToBottomInt
		err = tagged.Decode(typ, data, &p)
		c.Int = p
	case "clamped":
		var p ClampedInt
		err = tagged.Decode(typ, data, &p)
		c.Int = p
	case "weighted_list":
		var p WeightedListInt
		err = tagged.Decode(typ, data, &p)
		c.Int = p
	default:
		return fmt.Errorf("int provider: unknown type %q", typ)
	}
	if err != nil {
		return fmt.Errorf("int provider: %w", err)
	}
	return nil
}

func clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
