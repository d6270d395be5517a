// Package feature implements the feature tree: configured features that
// mutate a chunk, placed features that run a placement pipeline first, and
// the registry that resolves references between them by name.
package feature

import (
	"encoding/json"
	"fmt"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/tagged"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/placement"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/random"
)

// Lookup resolves feature names. Implementations are read-only.
type Lookup interface {
	Placed(name string) (*Placed, bool)
	Configured(name string) (*Configured, bool)
}

// Context carries what a feature needs while generating.
type Context struct {
	Chunk  chunk.Access
	Random random.Source
	// Name is the placed feature being decorated.
	Name   string
	Lookup Lookup
}

// Feature is one kind of generation logic.
type Feature interface {
	// Generate mutates the chunk around pos and reports whether anything
	// was placed.
	Generate(ctx *Context, pos chunk.Pos) bool
	isFeature()
}

// Configured is a feature kind with its configuration.
type Configured struct {
	Type    string
	Feature Feature
}

// Generate runs the feature at pos.
func (c *Configured) Generate(ctx *Context, pos chunk.Pos) bool {
	return c.Feature.Generate(ctx, pos)
}

func (c *Configured) UnmarshalJSON(data []byte) error {
	typ, err := tagged.Type(data)
	if err != nil {
		return fmt.Errorf("configured feature: %w", err)
	}
	var raw struct {
		Config json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("configured feature: %s: %w", typ, err)
	}
	if len(raw.Config) == 0 {
		raw.Config = json.RawMessage("{}")
	}
	f := newFeature(typ)
	if err := tagged.Decode(typ, raw.Config, f); err != nil {
		return fmt.Errorf("configured feature: %w", err)
	}
	if v, ok := f.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return fmt.Errorf("configured feature: %s: %w", typ, err)
		}
	}
	c.Type = typ
	c.Feature = f
	return nil
}

func newFeature(typ string) Feature {
	switch typ {
	case "simple_block":
		return &SimpleBlock{}
	case "random_patch":
		return &RandomPatch{Tries: 128, XZSpread: 7, YSpread: 3}
	case "random_selector":
		return &RandomSelector{}
	case "simple_random_selector":
		return &SimpleRandomSelector{}
	case "random_boolean_selector":
		return &RandomBooleanSelector{}
	case "tree":
		return &Tree{}
	case "desert_well":
		return &DesertWell{}
	case "fallen_tree":
		return &FallenTree{}
	case "ore", "scattered_ore":
		return &Ore{Kind: typ}
	}
	return &Declared{Kind: typ}
}

// Placed is a configured feature reference with its placement pipeline.
type Placed struct {
	Feature   ConfiguredRef     `json:"feature"`
	Placement []placement.Codec `json:"placement"`
}

// Generate runs the placement pipeline from pos and the configured feature at
// every resulting position. It reports whether any position placed.
func (p *Placed) Generate(ctx *Context, pos chunk.Pos) bool {
	cf, ok := p.Feature.Resolve(ctx.Lookup)
	if !ok {
		diag.Warn("unresolved configured feature", "name", p.Feature.Name)
		return false
	}
	pctx := &placement.Context{Chunk: ctx.Chunk, Random: ctx.Random, Feature: ctx.Name}
	placed := false
	for _, q := range placement.Apply(pctx, p.Placement, pos) {
		if cf.Generate(ctx, q) {
			placed = true
		}
	}
	return placed
}

// ConfiguredRef names a configured feature or holds one inline.
type ConfiguredRef struct {
	Name   string
	Inline *Configured
}

// Resolve returns the referenced feature.
func (r ConfiguredRef) Resolve(l Lookup) (*Configured, bool) {
	if r.Inline != nil {
		return r.Inline, true
	}
	if l == nil {
		return nil, false
	}
	return l.Configured(r.Name)
}

func (r *ConfiguredRef) UnmarshalJSON(data []byte) error {
	if tagged.IsString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		r.Name = block.StripNamespace(s)
		return nil
	}
	r.Inline = &Configured{}
	return json.Unmarshal(data, r.Inline)
}

// PlacedRef names a placed feature or holds one inline.
type PlacedRef struct {
	Name   string
	Inline *Placed
}

// Resolve returns the referenced feature.
func (r PlacedRef) Resolve(l Lookup) (*Placed, bool) {
	if r.Inline != nil {
		return r.Inline, true
	}
	if l == nil {
		return nil, false
	}
	return l.Placed(r.Name)
}

func (r PlacedRef) empty() bool { return r.Inline == nil && r.Name == "" }

// Generate resolves the reference and generates it at pos.
func (r PlacedRef) Generate(ctx *Context, pos chunk.Pos) bool {
	p, ok := r.Resolve(ctx.Lookup)
	if !ok {
		diag.Warn("unresolved placed feature", "name", r.Name)
		return false
	}
	return p.Generate(ctx, pos)
}

func (r *PlacedRef) UnmarshalJSON(data []byte) error {
	if tagged.IsString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		r.Name = block.StripNamespace(s)
		return nil
	}
	r.Inline = &Placed{}
	return json.Unmarshal(data, r.Inline)
}

// Inline wraps a configured feature in a placed feature without placement.
func Inline(f Feature) PlacedRef {
	return PlacedRef{Inline: &Placed{Feature: ConfiguredRef{Inline: &Configured{Feature: f}}}}
}
