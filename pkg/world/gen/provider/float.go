package provider

import (
	"encoding/json"
	"fmt"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/tagged"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// Float draws a float32.
type Float interface {
	Get(r random.Source) float32
	Min() float32
	Max() float32
	isFloat()
}

// ConstantFloat always returns Value.
type ConstantFloat struct {
	Value float32 `json:"value"`
}

func (p ConstantFloat) Get(random.Source) float32 { return p.Value }
func (p ConstantFloat) Min() float32              { return p.Value }
func (p ConstantFloat) Max() float32              { return p.Value }
func (ConstantFloat) isFloat()                    {}

// UniformFloat draws from [MinInclusive, MaxExclusive).
type UniformFloat struct {
	MinInclusive float32 `json:"min_inclusive"`
	MaxExclusive float32 `json:"max_exclusive"`
}

func (p UniformFloat) Get(r random.Source) float32 {
	return float32(r.NextFloat()*(p.MaxExclusive-p.MinInclusive)) + p.MinInclusive
}

func (p UniformFloat) Min() float32 { return p.MinInclusive }
func (p UniformFloat) Max() float32 { return p.MaxExclusive }
func (UniformFloat) isFloat()       {}

// TrapezoidFloat sums two uniform draws into a trapezoidal density.
type TrapezoidFloat struct {
	MinValue float32 `json:"min"`
	MaxValue float32 `json:"max"`
	Plateau  float32 `json:"plateau"`
}

func (p TrapezoidFloat) Get(r random.Source) float32 {
	f := p.MaxValue - p.MinValue
	g := (f - p.Plateau) / 2
	h := f - g
	return p.MinValue + float32(r.NextFloat()*h) + float32(r.NextFloat()*g)
}

func (p TrapezoidFloat) Min() float32 { return p.MinValue }
func (p TrapezoidFloat) Max() float32 { return p.MaxValue }
func (TrapezoidFloat) isFloat()       {}

// ClampedNormalFloat draws from a normal distribution clamped to
// [MinValue, MaxValue].
type ClampedNormalFloat struct {
	Mean      float32 `json:"mean"`
	Deviation float32 `json:"deviation"`
	MinValue  float32 `json:"min"`
	MaxValue  float32 `json:"max"`
}

func (p ClampedNormalFloat) Get(r random.Source) float32 {
	v := p.Mean + float32(float32(r.NextGaussian())*p.Deviation)
	return min(max(v, p.MinValue), p.MaxValue)
}

func (p ClampedNormalFloat) Min() float32 { return p.MinValue }
func (p ClampedNormalFloat) Max() float32 { return p.MaxValue }
func (ClampedNormalFloat) isFloat()       {}

// FloatCodec decodes a float provider from a bare number or a typed object.
type FloatCodec struct {
	Float
}

func (c *FloatCodec) UnmarshalJSON(data []byte) error {
	if tagged.IsNumber(data) {
		var v float32
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("float provider: %w", err)
		}
		c.Float = ConstantFloat{Value: v}
		return nil
	}
	typ, err := tagged.Type(data)
	if err != nil {
		return fmt.Errorf("float provider: %w", err)
	}
	switch typ {
	case "constant":
		var p ConstantFloat
		err = tagged.Decode(typ, data, &p)
		c.Float = p
	case "uniform":
		var p UniformFloat
		err = tagged.Decode(typ, data, &p)
		c.Float = p
	case "trapezoid":
		var p TrapezoidFloat
		err = tagged.Decode(typ, data, &p)
		c.Float = p
	case "clamped_normal":
		var p ClampedNormalFloat
		err = tagged.Decode(typ, data, &p)
		c.Float = p
	default:
		return fmt.Errorf("float provider: unknown type %q", typ)
	}
	if err != nil {
		return fmt.Errorf("float provider: %w", err)
	}
	return nil
}
