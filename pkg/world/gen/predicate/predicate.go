// Package predicate implements block predicates: composable tests of the
// chunk content at a position.
package predicate

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/diag"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/internal/tagged"
)

// Predicate tests the chunk at a position.
type Predicate interface {
	Test(c chunk.Access, pos chunk.Pos) bool
	isPredicate()
}

// Offset is a fixed [x, y, z] displacement applied before the lookup.
type Offset [3]int

// Apply returns pos displaced by o.
func (o Offset) Apply(pos chunk.Pos) chunk.Pos { return pos.Add(o[0], o[1], o[2]) }

// Names is a list of bare block names. It decodes from a single string or a
// list.
type Names []string

func (n *Names) UnmarshalJSON(data []byte) error {
	if tagged.IsString(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Names{block.StripNamespace(s)}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := make(Names, len(list))
	for i, s := range list {
		out[i] = block.StripNamespace(s)
	}
	*n = out
	return nil
}

// MatchingBlocks holds when the block at the offset position is one of
// Blocks.
type MatchingBlocks struct {
	Blocks Names  `json:"blocks"`
	Offset Offset `json:"offset"`
}

// NewMatchingBlocks returns a MatchingBlocks predicate without offset.
func NewMatchingBlocks(names ...string) *MatchingBlocks {
	p := &MatchingBlocks{}
	for _, n := range names {
		p.Blocks = append(p.Blocks, block.StripNamespace(n))
	}
	return p
}

func (p *MatchingBlocks) Test(c chunk.Access, pos chunk.Pos) bool {
	return slices.Contains(p.Blocks, c.BlockState(p.Offset.Apply(pos)).Name())
}

func (*MatchingBlocks) isPredicate() {}

// Solid holds when the block at the offset position blocks movement.
type Solid struct {
	Offset Offset `json:"offset"`
}

func (p *Solid) Test(c chunk.Access, pos chunk.Pos) bool {
	return c.BlockState(p.Offset.Apply(pos)).Solid()
}

func (*Solid) isPredicate() {}

// Replaceable holds when the block at the offset position may be overwritten.
type Replaceable struct {
	Offset Offset `json:"offset"`
}

func (p *Replaceable) Test(c chunk.Access, pos chunk.Pos) bool {
	return c.BlockState(p.Offset.Apply(pos)).Replaceable()
}

func (*Replaceable) isPredicate() {}

// AnyOf holds when any child holds. It is false without children.
type AnyOf struct {
	Predicates []Codec `json:"predicates"`
}

func (p *AnyOf) Test(c chunk.Access, pos chunk.Pos) bool {
	for _, child := range p.Predicates {
		if child.Test(c, pos) {
			return true
		}
	}
	return false
}

func (*AnyOf) isPredicate() {}

// AllOf holds when every child holds. It is true without children.
type AllOf struct {
	Predicates []Codec `json:"predicates"`
}

func (p *AllOf) Test(c chunk.Access, pos chunk.Pos) bool {
	for _, child := range p.Predicates {
		if !child.Test(c, pos) {
			return false
		}
	}
	return true
}

func (*AllOf) isPredicate() {}

// Not negates its child.
type Not struct {
	Predicate Codec `json:"predicate"`
}

func (p *Not) Test(c chunk.Access, pos chunk.Pos) bool {
	return !p.Predicate.Test(c, pos)
}

func (*Not) isPredicate() {}

// True always holds.
type True struct{}

func (True) Test(chunk.Access, chunk.Pos) bool { return true }
func (True) isPredicate()                      {}

// Declared is a predicate kind that decodes but has no behaviour. It never
// holds.
type Declared struct {
	Kind string
}

func (p *Declared) Test(chunk.Access, chunk.Pos) bool {
	diag.Unimplemented("block_predicate", p.Kind)
	return false
}

func (*Declared) isPredicate() {}

var declaredKinds = []string{
	"matching_block_tag",
	"matching_fluids",
	"has_sturdy_face",
	"would_survive",
	"inside_world_bounds",
	"unobstructed",
}

// Codec decodes a typed block predicate.
type Codec struct {
	Predicate
}

// Wrap returns a codec holding p.
func Wrap(p Predicate) Codec { return Codec{p} }

func (c *Codec) UnmarshalJSON(data []byte) error {
	typ, err := tagged.Type(data)
	if err != nil {
		return fmt.Errorf("block predicate: %w", err)
	}
	var p Predicate
	switch typ {
	case "matching_blocks":
		p = &MatchingBlocks{}
	case "solid":
		p = &Solid{}
	case "replaceable":
		p = &Replaceable{}
	case "any_of":
		p = &AnyOf{}
	case "all_of":
		p = &AllOf{}
	case "not":
		p = &Not{}
	case "true":
		c.Predicate = True{}
		return nil
	default:
		if !slices.Contains(declaredKinds, typ) {
			return fmt.Errorf("block predicate: unknown type %q", typ)
		}
		c.Predicate = &Declared{Kind: typ}
		return nil
	}
	if err := tagged.Decode(typ, data, p); err != nil {
		return fmt.Errorf("block predicate: %w", err)
	}
	if m, ok := p.(*MatchingBlocks); ok {
		for _, name := range m.Blocks {
			if _, ok := block.ByName(name); !ok {
				return fmt.Errorf("block predicate: matching_blocks: unknown block %q", name)
			}
		}
	}
	if n, ok := p.(*Not); ok && n.Predicate.Predicate == nil {
		return fmt.Errorf("block predicate: not: missing predicate")
	}
	c.Predicate = p
	return nil
}
