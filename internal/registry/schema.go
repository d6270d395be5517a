package registry

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

const schemaBase = "https://worldgen.local/schema/"

var (
	schemaMu sync.Mutex
	schemas  = map[string]*jsonschema.Schema{}
)

// schemaFor returns the compiled schema of a document, compiling it on first
// use.
func schemaFor(doc string) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemas[doc]; ok {
		return s, nil
	}

	file := doc + ".schema.json"
	data, err := schemaFS.ReadFile("schema/" + file)
	if err != nil {
		return nil, fmt.Errorf("no schema for %s: %w", doc, err)
	}
	url := schemaBase + file
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("schema %s: %w", file, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", file, err)
	}
	schemas[doc] = s
	return s, nil
}
