// Package registry loads the worldgen data bundle: placed and configured
// features, configured carvers and biomes. Documents are validated against
// their JSON schemas, decoded into the generation types and cross-checked
// before anything is generated.
package registry

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/carver"
	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/gen/feature"
)

//go:embed data/*.json
var bundle embed.FS

// Document names, without extension.
const (
	DocPlacedFeatures     = "placed_feature"
	DocConfiguredFeatures = "configured_feature"
	DocCarvers            = "configured_carver"
	DocBiomes             = "biome"
)

// ErrUnknownCarver is returned when a biome names a carver that is not
// registered.
var ErrUnknownCarver = errors.New("unknown carver")

// Registry is a loaded, validated data bundle. It is read-only and safe for
// concurrent use.
type Registry struct {
	features *feature.Registry
	carvers  *carver.Registry
	biomes   map[string]*chunk.Biome
}

func (r *Registry) Placed(name string) (*feature.Placed, bool) { return r.features.Placed(name) }

func (r *Registry) Configured(name string) (*feature.Configured, bool) {
	return r.features.Configured(name)
}

func (r *Registry) Carver(name string) (*carver.Configured, bool) { return r.carvers.Carver(name) }

// Biome returns the biome definition by name, with or without namespace.
func (r *Registry) Biome(name string) (*chunk.Biome, bool) {
	b, ok := r.biomes[block.StripNamespace(name)]
	return b, ok
}

// Biomes returns every biome sorted by name.
func (r *Registry) Biomes() []*chunk.Biome {
	out := make([]*chunk.Biome, 0, len(r.biomes))
	for _, name := range r.BiomeNames() {
		out = append(out, r.biomes[name])
	}
	return out
}

// BiomeNames returns the registered biome names in sorted order.
func (r *Registry) BiomeNames() []string {
	names := make([]string, 0, len(r.biomes))
	for n := range r.biomes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Stats summarises the bundle for logging.
func (r *Registry) Stats() (placed, configured, carvers, biomes int) {
	return len(r.features.PlacedNames()), len(r.features.ConfiguredNames()), len(r.carvers.Names()), len(r.biomes)
}

var defaultRegistry = sync.OnceValues(func() (*Registry, error) {
	sub, err := fs.Sub(bundle, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
})

// Default returns the registry of the embedded bundle. It is loaded on first
// use.
func Default() (*Registry, error) {
	return defaultRegistry()
}

// LoadDir loads a bundle from a directory. Empty dir loads the embedded
// bundle.
func LoadDir(dir string) (*Registry, error) {
	if dir == "" {
		return Default()
	}
	return Load(os.DirFS(dir))
}

// Load reads, validates and decodes a bundle from fsys. Each document is
// read from <name>.json.zst when present, otherwise <name>.json.
func Load(fsys fs.FS) (*Registry, error) {
	r := &Registry{
		features: feature.NewRegistry(),
		carvers:  carver.NewRegistry(),
		biomes:   make(map[string]*chunk.Biome),
	}

	if err := decodeDocument(fsys, DocConfiguredFeatures, func(name string, raw json.RawMessage) error {
		var c feature.Configured
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		r.features.AddConfigured(name, &c)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := decodeDocument(fsys, DocPlacedFeatures, func(name string, raw json.RawMessage) error {
		var p feature.Placed
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		r.features.AddPlaced(name, &p)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := decodeDocument(fsys, DocCarvers, func(name string, raw json.RawMessage) error {
		var c carver.Configured
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		r.carvers.Add(name, &c)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := decodeDocument(fsys, DocBiomes, func(name string, raw json.RawMessage) error {
		var b biomeDoc
		if err := json.Unmarshal(raw, &b); err != nil {
			return err
		}
		bare := block.StripNamespace(name)
		r.biomes[bare] = &chunk.Biome{Name: bare, Features: b.Features, Carvers: b.Carvers}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// validate checks the feature graph and every biome reference.
func (r *Registry) validate() error {
	if err := r.features.Validate(); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	for _, name := range r.BiomeNames() {
		b := r.biomes[name]
		if len(b.Features) > chunk.StepCount {
			return fmt.Errorf("registry: biome %s: %d feature steps, at most %d", name, len(b.Features), chunk.StepCount)
		}
		for step, names := range b.Features {
			for _, f := range names {
				if _, ok := r.features.Placed(f); !ok {
					return fmt.Errorf("registry: biome %s step %d: %w: placed feature %q", name, step, feature.ErrUnknownFeature, f)
				}
			}
		}
		for _, c := range b.Carvers {
			if _, ok := r.carvers.Carver(c); !ok {
				return fmt.Errorf("registry: biome %s: %w: %q", name, ErrUnknownCarver, c)
			}
		}
	}
	return nil
}

// decodeDocument reads the named document, validates it against its schema
// and calls fn for every entry in name order.
func decodeDocument(fsys fs.FS, doc string, fn func(name string, raw json.RawMessage) error) error {
	data, err := readDocument(fsys, doc)
	if err != nil {
		return fmt.Errorf("registry: %s: %w", doc, err)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("registry: %s: %w", doc, err)
	}
	sch, err := schemaFor(doc)
	if err != nil {
		return fmt.Errorf("registry: %s: %w", doc, err)
	}
	if err := sch.Validate(generic); err != nil {
		return fmt.Errorf("registry: %s: %w", doc, err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("registry: %s: %w", doc, err)
	}
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		if err := fn(n, entries[n]); err != nil {
			return fmt.Errorf("registry: %s %s: %w", doc, n, err)
		}
	}
	return nil
}

// readDocument returns the decompressed bytes of doc.
func readDocument(fsys fs.FS, doc string) ([]byte, error) {
	f, err := fsys.Open(doc + ".json.zst")
	if errors.Is(err, fs.ErrNotExist) {
		return fs.ReadFile(fsys, doc+".json")
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, dec); err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	return buf.Bytes(), nil
}

// biomeDoc is the generation part of a biome document.
type biomeDoc struct {
	Features [][]string `json:"features"`
	Carvers  carverList `json:"carvers"`
}

// carverList accepts a carver name, a list of names, or a map of carving
// stage to either.
type carverList []string

func (l *carverList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = carverList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var staged map[string]json.RawMessage
	if err := json.Unmarshal(data, &staged); err != nil {
		return fmt.Errorf("carvers: %w", err)
	}
	stages := make([]string, 0, len(staged))
	for s := range staged {
		stages = append(stages, s)
	}
	slices.Sort(stages)
	var out carverList
	for _, s := range stages {
		var part carverList
		if err := part.UnmarshalJSON(staged[s]); err != nil {
			return err
		}
		out = append(out, part...)
	}
	*l = out
	return nil
}
