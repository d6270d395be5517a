package provider

import (
	"encoding/json"
	"fmt"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/tagged"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// AnchorKind selects what a YOffset is measured from.
type AnchorKind uint8

const (
	Absolute AnchorKind = iota
	AboveBottom
	BelowTop
)

// YOffset is a vertical anchor: an absolute y, or an offset from the bottom or
// top of the world.
type YOffset struct {
	Kind  AnchorKind
	Value int32
}

// Resolve returns the absolute y for a world of height blocks starting at
// minY.
func (o YOffset) Resolve(minY int8, height uint16) int32 {
	switch o.Kind {
	case AboveBottom:
		return int32(minY) + o.Value
	case BelowTop:
		return int32(minY) + int32(height) - 1 - o.Value
	}
	return o.Value
}

func (o *YOffset) UnmarshalJSON(data []byte) error {
	var raw map[string]int32
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("y offset: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("y offset: want exactly one of absolute, above_bottom, below_top")
	}
	for k, v := range raw {
		switch k {
		case "absolute":
			o.Kind = Absolute
		case "above_bottom":
			o.Kind = AboveBottom
		case "below_top":
			o.Kind = BelowTop
		default:
			return fmt.Errorf("y offset: unknown anchor %q", k)
		}
		o.Value = v
	}
	return nil
}

func (o YOffset) MarshalJSON() ([]byte, error) {
	key := "absolute"
	switch o.Kind {
	case AboveBottom:
		key = "above_bottom"
	case BelowTop:
		key = "below_top"
	}
	return json.Marshal(map[string]int32{key: o.Value})
}

// Height draws a y coordinate for a world of the given extent.
type Height interface {
	Get(r random.Source, minY int8, height uint16) int32
	isHeight()
}

// ConstantHeight always returns its anchor.
type ConstantHeight struct {
	Value YOffset `json:"value"`
}

func (p ConstantHeight) Get(_ random.Source, minY int8, height uint16) int32 {
	return p.Value.Resolve(minY, height)
}

func (ConstantHeight) isHeight() {}

// UniformHeight draws uniformly between two anchors.
type UniformHeight struct {
	MinInclusive YOffset `json:"min_inclusive"`
	MaxInclusive YOffset `json:"max_inclusive"`
}

func (p UniformHeight) Get(r random.Source, minY int8, height uint16) int32 {
	lo := p.MinInclusive.Resolve(minY, height)
	hi := p.MaxInclusive.Resolve(minY, height)
	if lo > hi {
		diag.Warn("empty height range", "provider", "uniform", "min", lo, "max", hi)
		return lo
	}
	return r.NextIntBetween(lo, hi)
}

func (UniformHeight) isHeight() {}

// TrapezoidHeight draws with a trapezoidal density whose flat top is Plateau
// blocks wide.
type TrapezoidHeight struct {
	MinInclusive YOffset `json:"min_inclusive"`
	MaxInclusive YOffset `json:"max_inclusive"`
	Plateau      int32   `json:"plateau"`
}

func (p TrapezoidHeight) Get(r random.Source, minY int8, height uint16) int32 {
	lo := p.MinInclusive.Resolve(minY, height)
	hi := p.MaxInclusive.Resolve(minY, height)
	if lo > hi {
		diag.Warn("empty height range", "provider", "trapezoid", "min", lo, "max", hi)
		return lo
	}
	k := hi - lo
	if p.Plateau >= k {
		return r.NextIntBetween(lo, hi)
	}
	l := (k - p.Plateau) / 2
	m := k - l
	return lo + r.NextIntBetween(0, m) + r.NextIntBetween(0, l)
}

func (TrapezoidHeight) isHeight() {}

// HeightCodec decodes a height provider from a bare anchor or a typed object.
type HeightCodec struct {
	Height
}

func (c *HeightCodec) UnmarshalJSON(data []byte) error {
	typ, err := tagged.Type(data)
	if err != nil {
		var anchor YOffset
		if aerr := json.Unmarshal(data, &anchor); aerr != nil {
			return fmt.Errorf("height provider: %w", err)
		}
		c.Height = ConstantHeight{Value: anchor}
		return nil
	}
	switch typ {
	case "constant":
		var p ConstantHeight
		err = tagged.Decode(typ, data, &p)
		c.Height = p
	case "uniform":
		var p UniformHeight
		err = tagged.Decode(typ, data, &p)
		c.Height = p
	case "trapezoid":
		var p TrapezoidHeight
		err = tagged.Decode(typ, data, &p)
		c.Height = p
	default:
		return fmt.Errorf("height provider: unknown type %q", typ)
	}
	if err != nil {
		return fmt.Errorf("height provider: %w", err)
	}
	return nil
}
