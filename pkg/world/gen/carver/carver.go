// Package carver excavates caves into generated chunks. A carver started in
// one chunk may cut into every chunk within Range of it; CarveChunk replays
// all of them for a single chunk.
package carver

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/tagged"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// Context is the chunk being carved.
type Context struct {
	Chunk chunk.Access
	Pos   chunk.ChunkPos
	Mask  *Mask
	// Carved counts the cells replaced so far.
	Carved int
}

// NewContext returns a context with an empty mask for the chunk at pos.
func NewContext(c chunk.Access, pos chunk.ChunkPos) *Context {
	return &Context{Chunk: c, Pos: pos, Mask: NewMask(c.BottomY(), c.Height())}
}

// Carver is one kind of carver.
type Carver interface {
	// ShouldCarve draws whether the carver starts in the chunk r was seeded
	// for.
	ShouldCarve(r random.Source) bool
	// Carve excavates everything started from origin that reaches ctx.Pos.
	Carve(ctx *Context, r random.Source, origin chunk.ChunkPos)
	isCarver()
}

// Declared is a carver kind without behaviour. It never starts.
type Declared struct {
	Kind string
}

func (c *Declared) ShouldCarve(random.Source) bool {
	diag.Unimplemented("carver", c.Kind)
	return false
}

func (*Declared) Carve(*Context, random.Source, chunk.ChunkPos) {}

func (*Declared) isCarver() {}

// Configured is a carver kind with its configuration.
type Configured struct {
	Type   string
	Carver Carver
}

func (c *Configured) UnmarshalJSON(data []byte) error {
	typ, err := tagged.Type(data)
	if err != nil {
		return fmt.Errorf("configured carver: %w", err)
	}
	var raw struct {
		Config json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("configured carver: %s: %w", typ, err)
	}
	c.Type = typ
	if typ != "cave" {
		c.Carver = &Declared{Kind: typ}
		return nil
	}
	cave := &Cave{}
	if err := tagged.Decode(typ, raw.Config, cave); err != nil {
		return fmt.Errorf("configured carver: %w", err)
	}
	if err := cave.validate(); err != nil {
		return fmt.Errorf("configured carver: %s: %w", typ, err)
	}
	c.Carver = cave
	return nil
}

// Lookup resolves configured carvers by name.
type Lookup interface {
	Carver(name string) (*Configured, bool)
}

// Registry holds configured carvers by bare name.
type Registry struct {
	carvers map[string]*Configured
}

func NewRegistry() *Registry {
	return &Registry{carvers: make(map[string]*Configured)}
}

func (r *Registry) Add(name string, c *Configured) {
	r.carvers[block.StripNamespace(name)] = c
}

func (r *Registry) Carver(name string) (*Configured, bool) {
	c, ok := r.carvers[block.StripNamespace(name)]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.carvers))
	for n := range r.carvers {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// BiomeSource returns the biome whose carvers start in the chunk at pos.
type BiomeSource func(pos chunk.ChunkPos) *chunk.Biome

// CarveChunk runs every carver that may reach the chunk at pos, in origin
// order, and returns the context holding the mask and the carved cell count.
// Each carver of an origin chunk is seeded from the level seed, its index in
// the biome's carver list and the origin coordinates.
func CarveChunk(c chunk.Access, pos chunk.ChunkPos, seed int64, biomes BiomeSource, carvers Lookup) *Context {
	ctx := NewContext(c, pos)
	carveInto(ctx, seed, biomes, carvers)
	return ctx
}

func carveInto(ctx *Context, seed int64, biomes BiomeSource, carvers Lookup) {
	pos := ctx.Pos
	r := random.NewLegacy(0)
	for dx := -Range; dx <= Range; dx++ {
		for dz := -Range; dz <= Range; dz++ {
			origin := chunk.ChunkPos{X: pos.X + dx, Z: pos.Z + dz}
			b := biomes(origin)
			if b == nil {
				continue
			}
			for i, name := range b.Carvers {
				cc, ok := carvers.Carver(name)
				if !ok {
					diag.Unimplemented("carver", name)
					continue
				}
				random.LargeFeatureSeed(r, seed+int64(i), origin.X, origin.Z)
				if cc.Carver.ShouldCarve(r) {
					cc.Carver.Carve(ctx, r, origin)
				}
			}
		}
	}
}
