package carver

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/tagged"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/provider"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

const (
	// Range is how many chunks away a carver may start and still reach the
	// chunk being carved.
	Range = 8

	branchRange  = 4
	maxCaveCount = 15
)

// Cave carves branching tunnels and the occasional round room.
type Cave struct {
	Probability                float32              `json:"probability"`
	Y                          provider.HeightCodec `json:"y"`
	YScale                     provider.FloatCodec  `json:"yScale"`
	LavaLevel                  provider.YOffset     `json:"lava_level"`
	Replaceable                BlockSet             `json:"replaceable"`
	HorizontalRadiusMultiplier provider.FloatCodec  `json:"horizontal_radius_multiplier"`
	VerticalRadiusMultiplier   provider.FloatCodec  `json:"vertical_radius_multiplier"`
	FloorLevel                 provider.FloatCodec  `json:"floor_level"`
}

func (*Cave) isCarver() {}

// ShouldCarve draws whether a cave system starts in the current chunk.
func (c *Cave) ShouldCarve(r random.Source) bool {
	return r.NextFloat() <= c.Probability
}

// shape holds the per-system values every ellipsoid of one cave shares.
type shape struct {
	horizontal, vertical float64
	floor                float64
}

// Carve walks every cave system started from origin and excavates the parts
// that fall inside ctx.Pos.
func (c *Cave) Carve(ctx *Context, r random.Source, origin chunk.ChunkPos) {
	length := int32((branchRange*2 - 1) * 16)
	count := r.NextBoundedInt(r.NextBoundedInt(r.NextBoundedInt(maxCaveCount)+1) + 1)
	minY, height := ctx.Chunk.BottomY(), ctx.Chunk.Height()

	for i := int32(0); i < count; i++ {
		x := float64(origin.MinBlockX() + int(r.NextBoundedInt(16)))
		y := float64(c.Y.Get(r, minY, height))
		z := float64(origin.MinBlockZ() + int(r.NextBoundedInt(16)))
		start := mgl64.Vec3{x, y, z}
		s := shape{
			horizontal: float64(c.HorizontalRadiusMultiplier.Get(r)),
			vertical:   float64(c.VerticalRadiusMultiplier.Get(r)),
			floor:      float64(c.FloorLevel.Get(r)),
		}

		tunnels := int32(1)
		if r.NextBoundedInt(4) == 0 {
			yScale := float64(c.YScale.Get(r))
			radius := 1 + float32(r.NextFloat()*6)
			c.room(ctx, start, radius, yScale, s)
			tunnels += r.NextBoundedInt(4)
		}

		for j := int32(0); j < tunnels; j++ {
			yaw := r.NextFloat() * float32(2*math.Pi)
			pitch := (r.NextFloat() - 0.5) / 4
			thickness := tunnelThickness(r)
			branches := length - r.NextBoundedInt(length/4)
			c.tunnel(ctx, segment{
				seed:      r.NextLong(),
				pos:       start,
				thickness: thickness,
				yaw:       yaw,
				pitch:     pitch,
				count:     branches,
				ratio:     1,
			}, s)
		}
	}
}

func tunnelThickness(r random.Source) float32 {
	t := float32(r.NextFloat()*2) + r.NextFloat()
	if r.NextBoundedInt(10) == 0 {
		t *= float32(r.NextFloat()*r.NextFloat()*3) + 1
	}
	return t
}

func (c *Cave) room(ctx *Context, center mgl64.Vec3, radius float32, yScale float64, s shape) {
	h := 1.5 + float64(sin(float64(float32(math.Pi/2)))*radius)
	v := h * yScale
	c.ellipsoid(ctx, center.Add(mgl64.Vec3{1, 0, 0}), h, v, s.floor)
}

// segment is one tunnel walk still to be carved.
type segment struct {
	seed       int64
	pos        mgl64.Vec3
	thickness  float32
	yaw, pitch float32
	index      int32
	count      int32
	ratio      float64
}

// tunnel carves the walk and every branch it forks into. Branches are kept on
// an explicit stack; each fork starts at a later index of the same count, so
// the walk terminates.
func (c *Cave) tunnel(ctx *Context, root segment, s shape) {
	stack := []segment{root}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if left, right, forked := c.walk(ctx, t, s); forked {
			stack = append(stack, right, left)
		}
	}
}

func (c *Cave) walk(ctx *Context, t segment, s shape) (left, right segment, forked bool) {
	r := random.NewLegacy(t.seed)
	fork := r.NextBoundedInt(t.count/2) + t.count/4
	steep := r.NextBoundedInt(6) == 0
	var yawSpeed, pitchSpeed float32

	for j := t.index; j < t.count; j++ {
		h := 1.5 + float64(sin(float64(float32(math.Pi)*float32(j)/float32(t.count)))*t.thickness)
		v := h * t.ratio
		cp := cos(float64(t.pitch))
		t.pos = t.pos.Add(mgl64.Vec3{
			float64(cos(float64(t.yaw)) * cp),
			float64(sin(float64(t.pitch))),
			float64(sin(float64(t.yaw)) * cp),
		})

		if steep {
			t.pitch *= 0.92
		} else {
			t.pitch *= 0.7
		}
		t.pitch += float32(pitchSpeed * 0.1)
		t.yaw += float32(yawSpeed * 0.1)
		pitchSpeed *= 0.9
		yawSpeed *= 0.75
		pitchSpeed += float32((r.NextFloat() - r.NextFloat()) * r.NextFloat() * 2)
		yawSpeed += float32((r.NextFloat() - r.NextFloat()) * r.NextFloat() * 4)

		if j == fork && t.thickness > 1 {
			left = segment{
				seed:      r.NextLong(),
				pos:       t.pos,
				thickness: float32(r.NextFloat()*0.5) + 0.5,
				yaw:       t.yaw - float32(math.Pi/2),
				pitch:     t.pitch / 3,
				index:     j,
				count:     t.count,
				ratio:     1,
			}
			right = segment{
				seed:      r.NextLong(),
				pos:       t.pos,
				thickness: float32(r.NextFloat()*0.5) + 0.5,
				yaw:       t.yaw + float32(math.Pi/2),
				pitch:     t.pitch / 3,
				index:     j,
				count:     t.count,
				ratio:     1,
			}
			return left, right, true
		}

		if r.NextBoundedInt(4) == 0 {
			continue
		}
		if !canReach(ctx.Pos, t.pos, j, t.count, t.thickness) {
			return
		}
		c.ellipsoid(ctx, t.pos, h*s.horizontal, v*s.vertical, s.floor)
	}
	return
}

// canReach reports whether a walk at p with the given steps left can still
// get close enough to pos to carve into it.
func canReach(pos chunk.ChunkPos, p mgl64.Vec3, index, count int32, thickness float32) bool {
	dx := p.X() - float64(pos.MiddleBlockX())
	dz := p.Z() - float64(pos.MiddleBlockZ())
	left := float64(count - index)
	reach := float64(thickness + 2 + 16)
	return float64(dx*dx)+float64(dz*dz)-float64(left*left) <= float64(reach*reach)
}

// ellipsoid excavates the part of the ellipsoid around center that lies in
// ctx.Pos. Cells at or below the relative floor are kept.
func (c *Cave) ellipsoid(ctx *Context, center mgl64.Vec3, hr, vr, floor float64) {
	cx, cy, cz := center.Elem()
	if math.Abs(cx-float64(ctx.Pos.MiddleBlockX())) > 16+hr*2 || math.Abs(cz-float64(ctx.Pos.MiddleBlockZ())) > 16+hr*2 {
		return
	}
	minX, minZ := ctx.Pos.MinBlockX(), ctx.Pos.MinBlockZ()
	bottom := int(ctx.Chunk.BottomY())
	top := bottom + int(ctx.Chunk.Height())

	x0 := max(ifloor(cx-hr)-minX-1, 0)
	x1 := min(ifloor(cx+hr)-minX, 15)
	y0 := max(ifloor(cy-vr)-1, bottom+1)
	y1 := min(ifloor(cy+vr)+1, top-1-7)
	z0 := max(ifloor(cz-hr)-minZ-1, 0)
	z1 := min(ifloor(cz+hr)-minZ, 15)

	for lx := x0; lx <= x1; lx++ {
		bx := minX + lx
		nx := (float64(bx) + 0.5 - cx) / hr
		for lz := z0; lz <= z1; lz++ {
			bz := minZ + lz
			nz := (float64(bz) + 0.5 - cz) / hr
			if float64(nx*nx)+float64(nz*nz) >= 1 {
				continue
			}
			surface := false
			for y := y1; y > y0; y-- {
				ny := (float64(y) - 0.5 - cy) / vr
				if ny <= floor || lenSqr(mgl64.Vec3{nx, ny, nz}) >= 1 || ctx.Mask.Get(lx, y, lz) {
					continue
				}
				ctx.Mask.Set(lx, y, lz)
				c.carveBlock(ctx, chunk.Pos{X: bx, Y: y, Z: bz}, &surface)
			}
		}
	}
}

// carveBlock replaces one cell. surface becomes true once the column passes
// through grass or mycelium; the dirt below is not turned into grass.
func (c *Cave) carveBlock(ctx *Context, pos chunk.Pos, surface *bool) {
	s := ctx.Chunk.BlockState(pos)
	if n := s.Name(); n == "grass_block" || n == "mycelium" {
		*surface = true
	}
	if !c.Replaceable.Contains(s) {
		return
	}
	state := block.Air()
	if int32(pos.Y) <= c.LavaLevel.Resolve(ctx.Chunk.BottomY(), ctx.Chunk.Height()) {
		state = block.MustDefault("lava")
	}
	ctx.Chunk.SetBlockState(pos, state)
	ctx.Carved++
}

func lenSqr(v mgl64.Vec3) float64 {
	return float64(v[0]*v[0]) + float64(v[1]*v[1]) + float64(v[2]*v[2])
}

func ifloor(v float64) int { return int(math.Floor(v)) }

func (c *Cave) validate() error {
	if c.Probability < 0 || c.Probability > 1 {
		return fmt.Errorf("probability %v out of [0, 1]", c.Probability)
	}
	if c.Y.Height == nil || c.YScale.Float == nil {
		return fmt.Errorf("missing y or yScale")
	}
	if c.HorizontalRadiusMultiplier.Float == nil || c.VerticalRadiusMultiplier.Float == nil || c.FloorLevel.Float == nil {
		return fmt.Errorf("missing radius multipliers or floor_level")
	}
	if c.Replaceable.Set == nil {
		return fmt.Errorf("missing replaceable")
	}
	return nil
}

// BlockSet decodes a tag reference, a block name or a list of either.
type BlockSet struct {
	block.Set
}

func (s *BlockSet) UnmarshalJSON(data []byte) error {
	var refs []string
	if tagged.IsString(data) {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		refs = []string{one}
	} else if err := json.Unmarshal(data, &refs); err != nil {
		return err
	}
	s.Set = make(block.Set)
	for _, ref := range refs {
		set, err := block.ResolveSet(ref)
		if err != nil {
			return err
		}
		for id := range set {
			s.Set[id] = struct{}{}
		}
	}
	return nil
}
