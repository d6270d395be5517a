package feature

import (
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/blockstate"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/provider"
)

// FallenTree decodes its trunk but places nothing yet.
type FallenTree struct {
	TrunkProvider blockstate.Codec  `json:"trunk_provider"`
	LogLength     provider.IntCodec `json:"log_length"`
}

func (*FallenTree) Generate(*Context, chunk.Pos) bool {
	diag.Unimplemented("feature", "fallen_tree")
	return false
}

func (*FallenTree) isFeature() {}

// Ore covers ore and scattered_ore. Ore placement is not generated.
type Ore struct {
	Kind string `json:"-"`
	Size int32  `json:"size"`
	// DiscardChanceOnAirExposure is the chance an ore block touching air is
	// skipped.
	DiscardChanceOnAirExposure float32 `json:"discard_chance_on_air_exposure"`
}

func (f *Ore) Generate(*Context, chunk.Pos) bool {
	diag.Unimplemented("feature", f.Kind)
	return false
}

func (*Ore) isFeature() {}

// Declared stands in for any other feature type. Its configuration is
// ignored.
type Declared struct {
	Kind string `json:"-"`
}

func (f *Declared) Generate(*Context, chunk.Pos) bool {
	diag.Unimplemented("feature", f.Kind)
	return false
}

func (*Declared) isFeature() {}
