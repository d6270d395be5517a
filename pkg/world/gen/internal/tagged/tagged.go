// Package tagged decodes the "type" discriminator shared by every polymorphic
// worldgen JSON object.
package tagged

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/OCharnyshevich/minecraft-worldgen/pkg/world/block"
)

// Type returns the bare (namespace stripped) "type" field of a JSON object.
func Type(data []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", err
	}
	if head.Type == "" {
		return "", fmt.Errorf("missing type")
	}
	return block.StripNamespace(head.Type), nil
}

// IsNumber reports whether data holds a bare JSON number.
func IsNumber(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9'))
}

// IsString reports whether data holds a bare JSON string.
func IsString(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '"'
}

// Decode unmarshals data into v, prefixing errors with the variant type.
func Decode(typ string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", typ, err)
	}
	return nil
}
