package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// It produces byte-identical output to GoJSON for the plain structs used in
// manifests and is kept as a portable fallback.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// MarshalIndent encodes the value as indented JSON for human-facing output.
func (JSON) MarshalIndent(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

// Default is the codec used for newly written manifests.
var Default Codec = GoJSON{}

// Indenter is implemented by codecs that can pretty-print.
type Indenter interface {
	MarshalIndent(v any) ([]byte, error)
}

// MarshalIndent pretty-prints v with c when supported and falls back to
// compact output otherwise.
func MarshalIndent(c Codec, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	if ind, ok := c.(Indenter); ok {
		return ind.MarshalIndent(v)
	}
	return c.Marshal(v)
}
