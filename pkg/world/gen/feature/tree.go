package feature

import (
	"encoding/json"
	"fmt"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/blockstate"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/tagged"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/provider"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// TrunkPlacer describes the trunk shape. Only straight_trunk_placer has
// behaviour.
type TrunkPlacer struct {
	Type        string `json:"type"`
	BaseHeight  int32  `json:"base_height"`
	HeightRandA int32  `json:"height_rand_a"`
	HeightRandB int32  `json:"height_rand_b"`
}

// Height draws the trunk height.
func (t TrunkPlacer) Height(r random.Source) int32 {
	return t.BaseHeight + r.NextBoundedInt(t.HeightRandA+1) + r.NextBoundedInt(t.HeightRandB+1)
}

func (t TrunkPlacer) implemented() bool { return t.Type == "straight_trunk_placer" }

// FoliagePlacer describes the canopy shape. Only blob_foliage_placer has
// behaviour.
type FoliagePlacer struct {
	Type   string            `json:"type"`
	Radius provider.IntCodec `json:"radius"`
	Offset provider.IntCodec `json:"offset"`
	Height int32             `json:"height"`
}

func (f FoliagePlacer) implemented() bool { return f.Type == "blob_foliage_placer" }

// FeatureSize limits how much space a tree needs around its trunk at each
// height: two_layers_feature_size or three_layers_feature_size.
type FeatureSize struct {
	Type             string `json:"type"`
	Limit            int32  `json:"limit"`
	UpperLimit       int32  `json:"upper_limit"`
	LowerSize        int32  `json:"lower_size"`
	MiddleSize       int32  `json:"middle_size"`
	UpperSize        int32  `json:"upper_size"`
	MinClippedHeight *int32 `json:"min_clipped_height"`
}

// SizeAt returns the clearance radius required y blocks above the base of a
// tree of the given height.
func (s FeatureSize) SizeAt(height, y int32) int32 {
	if s.Type == "three_layers_feature_size" {
		switch {
		case y < s.Limit:
			return s.LowerSize
		case y >= height-s.UpperLimit:
			return s.UpperSize
		}
		return s.MiddleSize
	}
	if y < s.Limit {
		return s.LowerSize
	}
	return s.UpperSize
}

func (s *FeatureSize) UnmarshalJSON(data []byte) error {
	typ, err := tagged.Type(data)
	if err != nil {
		return fmt.Errorf("feature size: %w", err)
	}
	type plain FeatureSize
	v := plain{Limit: 1, UpperLimit: 1, LowerSize: 0, MiddleSize: 1, UpperSize: 1}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("feature size: %w", err)
	}
	switch typ {
	case "two_layers_feature_size", "three_layers_feature_size":
	default:
		return fmt.Errorf("feature size: unknown type %q", typ)
	}
	v.Type = typ
	*s = FeatureSize(v)
	return nil
}

func (t *TrunkPlacer) UnmarshalJSON(data []byte) error {
	typ, err := tagged.Type(data)
	if err != nil {
		return fmt.Errorf("trunk placer: %w", err)
	}
	type plain TrunkPlacer
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("trunk placer: %w", err)
	}
	if v.BaseHeight < 0 || v.BaseHeight > 32 || v.HeightRandA < 0 || v.HeightRandA > 24 || v.HeightRandB < 0 || v.HeightRandB > 24 {
		return fmt.Errorf("trunk placer: height out of range")
	}
	v.Type = typ
	*t = TrunkPlacer(v)
	return nil
}

func (f *FoliagePlacer) UnmarshalJSON(data []byte) error {
	typ, err := tagged.Type(data)
	if err != nil {
		return fmt.Errorf("foliage placer: %w", err)
	}
	type plain FoliagePlacer
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("foliage placer: %w", err)
	}
	if v.Radius.Int == nil {
		v.Radius = provider.Const(0)
	}
	if v.Offset.Int == nil {
		v.Offset = provider.Const(0)
	}
	v.Type = typ
	*f = FoliagePlacer(v)
	return nil
}

// Tree grows a trunk and its canopy when there is room for it.
type Tree struct {
	TrunkProvider   blockstate.Codec  `json:"trunk_provider"`
	FoliageProvider blockstate.Codec  `json:"foliage_provider"`
	DirtProvider    *blockstate.Codec `json:"dirt_provider"`
	TrunkPlacer     TrunkPlacer       `json:"trunk_placer"`
	FoliagePlacer   FoliagePlacer     `json:"foliage_placer"`
	MinimumSize     FeatureSize       `json:"minimum_size"`
	RootPlacer      json.RawMessage   `json:"root_placer"`
	Decorators      []json.RawMessage `json:"decorators"`
	IgnoreVines     bool              `json:"ignore_vines"`
	ForceDirt       bool              `json:"force_dirt"`
}

func (*Tree) isFeature() {}

func (f *Tree) validate() error {
	if f.TrunkProvider.Provider == nil || f.FoliageProvider.Provider == nil {
		return fmt.Errorf("missing trunk_provider or foliage_provider")
	}
	if f.TrunkPlacer.Type == "" || f.FoliagePlacer.Type == "" || f.MinimumSize.Type == "" {
		return fmt.Errorf("missing trunk_placer, foliage_placer or minimum_size")
	}
	return nil
}

// supported reports whether every part of the tree has behaviour. Trees with
// declared parts place nothing.
func (f *Tree) supported() bool {
	ok := true
	if !f.TrunkPlacer.implemented() {
		diag.Unimplemented("trunk_placer", f.TrunkPlacer.Type)
		ok = false
	}
	if !f.FoliagePlacer.implemented() {
		diag.Unimplemented("foliage_placer", f.FoliagePlacer.Type)
		ok = false
	}
	if len(f.RootPlacer) > 0 && string(f.RootPlacer) != "null" {
		diag.Unimplemented("tree", "root_placer")
		ok = false
	}
	if len(f.Decorators) > 0 {
		diag.Unimplemented("tree", "decorators")
	}
	providers := []blockstate.Provider{f.TrunkProvider.Provider, f.FoliageProvider.Provider}
	if f.DirtProvider != nil {
		providers = append(providers, f.DirtProvider.Provider)
	}
	for _, p := range providers {
		if !blockstate.Implemented(p) {
			diag.Unimplemented("tree", "block_state_provider")
			ok = false
		}
	}
	return ok
}

func (f *Tree) Generate(ctx *Context, pos chunk.Pos) bool {
	if !f.supported() {
		return false
	}
	r := ctx.Random
	height := f.TrunkPlacer.Height(r)
	foliageHeight := f.FoliagePlacer.Height
	foliageRadius := f.FoliagePlacer.Radius.Get(r)

	minY := int(ctx.Chunk.BottomY())
	top := minY + int(ctx.Chunk.Height())
	if pos.Y < minY+1 || pos.Y+int(height)+1 > top {
		return false
	}
	free := f.maxFreeHeight(ctx.Chunk, height, pos)
	if free < height && (f.MinimumSize.MinClippedHeight == nil || free < *f.MinimumSize.MinClippedHeight) {
		return false
	}

	attach := f.placeTrunk(ctx, pos, free)
	f.placeBlob(ctx, attach, foliageHeight, foliageRadius, f.FoliagePlacer.Offset.Get(r))
	return true
}

// maxFreeHeight scans up the trunk column and the clearance around it and
// returns how tall the tree can grow.
func (f *Tree) maxFreeHeight(c chunk.Access, height int32, pos chunk.Pos) int32 {
	for y := int32(0); y <= height+1; y++ {
		s := int(f.MinimumSize.SizeAt(height, y))
		for dx := -s; dx <= s; dx++ {
			for dz := -s; dz <= s; dz++ {
				st := c.BlockState(pos.Add(dx, int(y), dz))
				if !isFree(st) || (!f.IgnoreVines && st.Name() == "vine") {
					return y - 2
				}
			}
		}
	}
	return height
}

// validTreePos reports whether a tree may overwrite s.
func validTreePos(s block.State) bool {
	return s.Air || block.HasTag(s, "replaceable_by_trees")
}

func isFree(s block.State) bool {
	return validTreePos(s) || block.HasTag(s, "logs")
}

func (f *Tree) placeTrunk(ctx *Context, pos chunk.Pos, free int32) chunk.Pos {
	below := pos.Down()
	if f.DirtProvider != nil {
		s := ctx.Chunk.BlockState(below)
		dirt := block.HasTag(s, "dirt") && s.Name() != "grass_block" && s.Name() != "mycelium"
		if f.ForceDirt || !dirt {
			ctx.Chunk.SetBlockState(below, f.DirtProvider.Get(ctx.Random, below))
		}
	}
	for i := 0; i < int(free); i++ {
		p := pos.Add(0, i, 0)
		if validTreePos(ctx.Chunk.BlockState(p)) {
			ctx.Chunk.SetBlockState(p, f.TrunkProvider.Get(ctx.Random, p))
		}
	}
	return pos.Add(0, int(free), 0)
}

// placeBlob stamps the rounded canopy layers down from the attachment point.
func (f *Tree) placeBlob(ctx *Context, attach chunk.Pos, foliageHeight, radius, offset int32) {
	for y := offset; y >= offset-foliageHeight; y-- {
		rng := max(radius-1-y/2, 0)
		for dx := -rng; dx <= rng; dx++ {
			for dz := -rng; dz <= rng; dz++ {
				if abs(dx) == rng && abs(dz) == rng && (ctx.Random.NextBoundedInt(2) == 0 || y == 0) {
					continue
				}
				p := attach.Add(int(dx), int(y), int(dz))
				if validTreePos(ctx.Chunk.BlockState(p)) {
					ctx.Chunk.SetBlockState(p, f.FoliageProvider.Get(ctx.Random, p))
				}
			}
		}
	}
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
