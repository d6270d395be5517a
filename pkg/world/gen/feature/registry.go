package feature

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
)

var (
	// ErrUnknownFeature is returned when a reference names a feature that is
	// not registered.
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrCycle is returned when features reference each other in a loop.
	ErrCycle = errors.New("feature reference cycle")
)

// Registry holds placed and configured features by bare name. It is filled
// once and read-only afterwards.
type Registry struct {
	placed     map[string]*Placed
	configured map[string]*Configured
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		placed:     make(map[string]*Placed),
		configured: make(map[string]*Configured),
	}
}

// AddPlaced registers p under name, replacing any earlier definition.
func (r *Registry) AddPlaced(name string, p *Placed) {
	r.placed[block.StripNamespace(name)] = p
}

// AddConfigured registers c under name, replacing any earlier definition.
func (r *Registry) AddConfigured(name string, c *Configured) {
	r.configured[block.StripNamespace(name)] = c
}

func (r *Registry) Placed(name string) (*Placed, bool) {
	p, ok := r.placed[block.StripNamespace(name)]
	return p, ok
}

func (r *Registry) Configured(name string) (*Configured, bool) {
	c, ok := r.configured[block.StripNamespace(name)]
	return c, ok
}

// PlacedNames returns the registered placed feature names in sorted order.
func (r *Registry) PlacedNames() []string {
	names := make([]string, 0, len(r.placed))
	for n := range r.placed {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ConfiguredNames returns the registered configured feature names in sorted
// order.
func (r *Registry) ConfiguredNames() []string {
	names := make([]string, 0, len(r.configured))
	for n := range r.configured {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Validate checks that every named reference resolves and that no feature
// reaches itself through references.
func (r *Registry) Validate() error {
	v := &validator{r: r, state: make(map[string]uint8)}
	for _, name := range r.PlacedNames() {
		if err := v.placedRef(PlacedRef{Name: name}); err != nil {
			return err
		}
	}
	for _, name := range r.ConfiguredNames() {
		if err := v.configuredRef(ConfiguredRef{Name: name}); err != nil {
			return err
		}
	}
	return nil
}

// parent is implemented by features that reference other placed features.
type parent interface {
	children() []PlacedRef
}

func (f *RandomPatch) children() []PlacedRef { return []PlacedRef{f.Feature} }

func (f *RandomSelector) children() []PlacedRef {
	refs := make([]PlacedRef, 0, len(f.Features)+1)
	for _, e := range f.Features {
		refs = append(refs, e.Feature)
	}
	return append(refs, f.Default)
}

func (f *SimpleRandomSelector) children() []PlacedRef { return f.Features }

func (f *RandomBooleanSelector) children() []PlacedRef {
	return []PlacedRef{f.FeatureTrue, f.FeatureFalse}
}

const (
	visiting uint8 = iota + 1
	visited
)

type validator struct {
	r     *Registry
	state map[string]uint8
	path  []string
}

func (v *validator) from() string {
	if len(v.path) == 0 {
		return "registry"
	}
	return v.path[len(v.path)-1]
}

func (v *validator) enter(key string, walk func() error) error {
	switch v.state[key] {
	case visited:
		return nil
	case visiting:
		i := slices.Index(v.path, key)
		return fmt.Errorf("%w: %s -> %s", ErrCycle, strings.Join(v.path[i:], " -> "), key)
	}
	v.state[key] = visiting
	v.path = append(v.path, key)
	if err := walk(); err != nil {
		return err
	}
	v.path = v.path[:len(v.path)-1]
	v.state[key] = visited
	return nil
}

func (v *validator) placedRef(ref PlacedRef) error {
	if ref.Inline != nil {
		return v.configuredRef(ref.Inline.Feature)
	}
	p, ok := v.r.placed[ref.Name]
	if !ok {
		return fmt.Errorf("%w: placed feature %q referenced from %s", ErrUnknownFeature, ref.Name, v.from())
	}
	return v.enter("placed/"+ref.Name, func() error {
		return v.configuredRef(p.Feature)
	})
}

func (v *validator) configuredRef(ref ConfiguredRef) error {
	if ref.Inline != nil {
		return v.configured(ref.Inline)
	}
	c, ok := v.r.configured[ref.Name]
	if !ok {
		return fmt.Errorf("%w: configured feature %q referenced from %s", ErrUnknownFeature, ref.Name, v.from())
	}
	return v.enter("configured/"+ref.Name, func() error {
		return v.configured(c)
	})
}

func (v *validator) configured(c *Configured) error {
	p, ok := c.Feature.(parent)
	if !ok {
		return nil
	}
	for _, ref := range p.children() {
		if err := v.placedRef(ref); err != nil {
			return err
		}
	}
	return nil
}
