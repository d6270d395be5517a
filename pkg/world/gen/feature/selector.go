package feature

import (
	"fmt"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/blockstate"
)

// SimpleBlock places one block from its provider.
type SimpleBlock struct {
	ToPlace blockstate.Codec `json:"to_place"`
	// ScheduleTick is decoded but has no effect.
	ScheduleTick bool `json:"schedule_tick"`
}

func (f *SimpleBlock) Generate(ctx *Context, pos chunk.Pos) bool {
	if !blockstate.Implemented(f.ToPlace.Provider) {
		// Declared providers report themselves on Get.
		f.ToPlace.Get(ctx.Random, pos)
		return false
	}
	ctx.Chunk.SetBlockState(pos, f.ToPlace.Get(ctx.Random, pos))
	return true
}

func (*SimpleBlock) isFeature() {}

func (f *SimpleBlock) validate() error {
	if f.ToPlace.Provider == nil {
		return fmt.Errorf("missing to_place")
	}
	return nil
}

// RandomPatch tries its feature Tries times at positions jittered around the
// origin.
type RandomPatch struct {
	Tries    int32     `json:"tries"`
	XZSpread int32     `json:"xz_spread"`
	YSpread  int32     `json:"y_spread"`
	Feature  PlacedRef `json:"feature"`
}

func (f *RandomPatch) Generate(ctx *Context, pos chunk.Pos) bool {
	xz := f.XZSpread + 1
	y := f.YSpread + 1
	r := ctx.Random
	placed := 0
	for i := int32(0); i < f.Tries; i++ {
		dx := r.NextBoundedInt(xz) - r.NextBoundedInt(xz)
		dy := r.NextBoundedInt(y) - r.NextBoundedInt(y)
		dz := r.NextBoundedInt(xz) - r.NextBoundedInt(xz)
		if f.Feature.Generate(ctx, pos.Add(int(dx), int(dy), int(dz))) {
			placed++
		}
	}
	return placed > 0
}

func (*RandomPatch) isFeature() {}

func (f *RandomPatch) validate() error {
	if f.Tries < 0 || f.XZSpread < 0 || f.YSpread < 0 {
		return fmt.Errorf("tries and spreads must not be negative")
	}
	if f.Feature.empty() {
		return fmt.Errorf("missing feature")
	}
	return nil
}

// WeightedPlaced is one entry of a RandomSelector.
type WeightedPlaced struct {
	Chance  float32   `json:"chance"`
	Feature PlacedRef `json:"feature"`
}

// RandomSelector tries each entry with its own chance and generates the first
// entry that passes and places. Default runs when none did.
type RandomSelector struct {
	Features []WeightedPlaced `json:"features"`
	Default  PlacedRef        `json:"default"`
}

func (f *RandomSelector) Generate(ctx *Context, pos chunk.Pos) bool {
	for _, e := range f.Features {
		if ctx.Random.NextFloat() < e.Chance && e.Feature.Generate(ctx, pos) {
			return true
		}
	}
	return f.Default.Generate(ctx, pos)
}

func (*RandomSelector) isFeature() {}

func (f *RandomSelector) validate() error {
	if f.Default.empty() {
		return fmt.Errorf("missing default")
	}
	return nil
}

// SimpleRandomSelector generates one uniformly chosen feature.
type SimpleRandomSelector struct {
	Features []PlacedRef `json:"features"`
}

func (f *SimpleRandomSelector) Generate(ctx *Context, pos chunk.Pos) bool {
	if len(f.Features) == 0 {
		return false
	}
	i := ctx.Random.NextBoundedInt(int32(len(f.Features)))
	return f.Features[i].Generate(ctx, pos)
}

func (*SimpleRandomSelector) isFeature() {}

// RandomBooleanSelector flips a coin between two features.
type RandomBooleanSelector struct {
	FeatureTrue  PlacedRef `json:"feature_true"`
	FeatureFalse PlacedRef `json:"feature_false"`
}

func (f *RandomBooleanSelector) Generate(ctx *Context, pos chunk.Pos) bool {
	if ctx.Random.NextBool() {
		return f.FeatureTrue.Generate(ctx, pos)
	}
	return f.FeatureFalse.Generate(ctx, pos)
}

func (*RandomBooleanSelector) isFeature() {}

func (f *RandomBooleanSelector) validate() error {
	if f.FeatureTrue.empty() || f.FeatureFalse.empty() {
		return fmt.Errorf("missing feature_true or feature_false")
	}
	return nil
}
