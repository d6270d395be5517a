// Package block holds the block table used by world generation: blocks with
// their properties, the flat state id space derived from them, and block tags.
//
// State ids are assigned in table order. Each block owns a contiguous range of
// ids, one per combination of its property values, with the last property
// varying fastest. Air is always state 0.
package block

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// State is one concrete block state. Two states are the same state when their
// IDs are equal; BlockID and Air are cached lookups.
type State struct {
	ID      uint16
	BlockID uint16
	Air     bool
}

// Equal reports whether s and o are the same state.
func (s State) Equal(o State) bool { return s.ID == o.ID }

// Block returns the block this state belongs to.
func (s State) Block() *Block { return table().blocks[s.BlockID] }

// Name returns the bare block name of s.
func (s State) Name() string { return s.Block().Name }

// Solid reports whether the block blocks movement.
func (s State) Solid() bool { return s.Block().flags&flagSolid != 0 }

// Replaceable reports whether placing a block may overwrite s.
func (s State) Replaceable() bool { return s.Block().flags&flagReplaceable != 0 }

// Property is a named block property and its allowed values in id order.
type Property struct {
	Name   string
	Values []string
}

func (p Property) index(v string) int {
	for i, pv := range p.Values {
		if pv == v {
			return i
		}
	}
	return -1
}

// Block is one entry of the block table.
type Block struct {
	ID         uint16
	Name       string
	Properties []Property

	// MinStateID and MaxStateID bound the block's state range, inclusive.
	MinStateID uint16
	MaxStateID uint16
	// DefaultStateID is the state used when a block is named without
	// properties.
	DefaultStateID uint16

	defaults map[string]string
	flags    uint8
	strides  []uint16
}

// DefaultState returns the default state of b.
func (b *Block) DefaultState() State { return StateByID(b.DefaultStateID) }

// StateCount returns the number of states of b.
func (b *Block) StateCount() int { return int(b.MaxStateID-b.MinStateID) + 1 }

// Solid reports whether the block blocks movement.
func (b *Block) Solid() bool { return b.flags&flagSolid != 0 }

// Replaceable reports whether placing a block may overwrite this one.
func (b *Block) Replaceable() bool { return b.flags&flagReplaceable != 0 }

// WithProperties returns the state of b with the given property values. Unset
// properties keep their default value.
func (b *Block) WithProperties(props map[string]string) (State, error) {
	id := b.MinStateID
	for i, p := range b.Properties {
		v, ok := props[p.Name]
		if !ok {
			v = b.defaults[p.Name]
		}
		idx := p.index(v)
		if idx < 0 {
			return State{}, fmt.Errorf("block %s: invalid value %q for property %s", b.Name, v, p.Name)
		}
		id += uint16(idx) * b.strides[i]
	}
	for k := range props {
		if !b.hasProperty(k) {
			return State{}, fmt.Errorf("block %s: unknown property %s", b.Name, k)
		}
	}
	return StateByID(id), nil
}

func (b *Block) hasProperty(name string) bool {
	for _, p := range b.Properties {
		if p.Name == name {
			return true
		}
	}
	return false
}

// PropertiesOf decodes the property values of a state belonging to b.
func (b *Block) PropertiesOf(s State) map[string]string {
	if len(b.Properties) == 0 {
		return nil
	}
	rel := s.ID - b.MinStateID
	out := make(map[string]string, len(b.Properties))
	for i, p := range b.Properties {
		idx := rel / b.strides[i]
		rel %= b.strides[i]
		out[p.Name] = p.Values[idx]
	}
	return out
}

const (
	flagSolid uint8 = 1 << iota
	flagReplaceable
	flagAir
)

type registry struct {
	blocks []*Block
	byName map[string]*Block
	states []uint16 // state id -> block id
	tags   map[string]Set
}

var table = sync.OnceValue(func() *registry {
	r := &registry{byName: make(map[string]*Block, len(definitions))}
	var next uint16
	for i, d := range definitions {
		b := &Block{
			ID:         uint16(i),
			Name:       d.name,
			Properties: d.props,
			defaults:   d.defaults,
			flags:      d.flags,
			strides:    make([]uint16, len(d.props)),
		}
		count := uint16(1)
		for j := len(d.props) - 1; j >= 0; j-- {
			b.strides[j] = count
			count *= uint16(len(d.props[j].Values))
		}
		b.MinStateID = next
		b.MaxStateID = next + count - 1
		next += count

		b.DefaultStateID = b.MinStateID
		for j, p := range d.props {
			b.DefaultStateID += uint16(p.index(d.defaults[p.Name])) * b.strides[j]
		}

		r.blocks = append(r.blocks, b)
		r.byName[b.Name] = b
		for s := b.MinStateID; ; s++ {
			r.states = append(r.states, b.ID)
			if s == b.MaxStateID {
				break
			}
		}
	}
	r.tags = buildTags(r)
	return r
})

// StripNamespace removes a leading "namespace:" from name.
func StripNamespace(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// ByName looks up a block by name, with or without a namespace.
func ByName(name string) (*Block, bool) {
	b, ok := table().byName[StripNamespace(name)]
	return b, ok
}

// ByID looks up a block by its table index.
func ByID(id uint16) (*Block, bool) {
	t := table()
	if int(id) >= len(t.blocks) {
		return nil, false
	}
	return t.blocks[id], true
}

// All returns every block in id order.
func All() []*Block {
	return append([]*Block(nil), table().blocks...)
}

// StateCount returns the size of the state id space.
func StateCount() int { return len(table().states) }

// StateByID returns the state with the given id. Unknown ids resolve to air.
func StateByID(id uint16) State {
	t := table()
	if int(id) >= len(t.states) {
		return State{Air: true}
	}
	bid := t.states[id]
	return State{ID: id, BlockID: bid, Air: t.blocks[bid].flags&flagAir != 0}
}

// Default returns the default state of the named block.
func Default(name string) (State, error) {
	b, ok := ByName(name)
	if !ok {
		return State{}, fmt.Errorf("unknown block: %s", name)
	}
	return b.DefaultState(), nil
}

// MustDefault is Default for names known to be in the table. It panics on an
// unknown name.
func MustDefault(name string) State {
	s, err := Default(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Air is the air state.
func Air() State { return StateByID(0) }

// Format renders s as name[prop=value,...] with properties sorted by name.
func Format(s State) string {
	b := s.Block()
	props := b.PropertiesOf(s)
	if len(props) == 0 {
		return "minecraft:" + b.Name
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString("minecraft:")
	sb.WriteString(b.Name)
	sb.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(props[k])
	}
	sb.WriteByte(']')
	return sb.String()
}

func boolProp(name string) Property {
	return Property{Name: name, Values: []string{"true", "false"}}
}

func intProp(name string, lo, hi int) Property {
	p := Property{Name: name}
	for i := lo; i <= hi; i++ {
		p.Values = append(p.Values, strconv.Itoa(i))
	}
	return p
}

func enumProp(name string, values ...string) Property {
	return Property{Name: name, Values: values}
}
