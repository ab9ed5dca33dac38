package bindit

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Codec defines the serialization contract for feed documents and tree
// snapshots. Implement this interface to use alternative formats like
// TOML, HCL, or custom binary formats.
type Codec interface {
	// Marshal serializes a value into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Marshal serializes v into JSON bytes.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// Ensure JSONCodec implements Codec.
var _ Codec = JSONCodec{}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Marshal serializes v into YAML bytes.
func (YAMLCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// Ensure YAMLCodec implements Codec.
var _ Codec = YAMLCodec{}
