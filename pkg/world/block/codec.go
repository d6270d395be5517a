package block

import (
	"encoding/json"
	"fmt"
)

// StateCodec decodes and encodes a state in the worldgen data form
// {"Name": "minecraft:stone", "Properties": {...}}.
type StateCodec struct {
	State
}

type stateJSON struct {
	Name       string            `json:"Name"`
	Properties map[string]string `json:"Properties,omitempty"`
}

// UnmarshalJSON resolves the named block and its properties against the table.
func (c *StateCodec) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("block state: %w", err)
	}
	b, ok := ByName(raw.Name)
	if !ok {
		return fmt.Errorf("block state: unknown block %q", raw.Name)
	}
	s, err := b.WithProperties(raw.Properties)
	if err != nil {
		return fmt.Errorf("block state: %w", err)
	}
	c.State = s
	return nil
}

// MarshalJSON writes the namespaced block name and the non-default
// properties.
func (c StateCodec) MarshalJSON() ([]byte, error) {
	b := c.Block()
	out := stateJSON{Name: "minecraft:" + b.Name}
	for k, v := range b.PropertiesOf(c.State) {
		if b.defaults[k] == v {
			continue
		}
		if out.Properties == nil {
			out.Properties = make(map[string]string)
		}
		out.Properties[k] = v
	}
	return json.Marshal(out)
}

// Codecs converts decoded codecs to states.
func Codecs(cs []StateCodec) []State {
	out := make([]State, len(cs))
	for i, c := range cs {
		out[i] = c.State
	}
	return out
}
