// Package codec centralizes encoding of dataset manifests and reports.
//
// A manifest records the name of the codec that wrote it. All built-in
// codecs emit JSON, so any of them reads any manifest; the name is kept so
// a manifest can be re-encoded byte for byte.
package codec

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownCodec is returned by ByName for names no codec registers.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

var builtin = []Codec{GoJSON{}, JSON{}}

// ByName returns a built-in codec by its stable name. An empty name
// selects Default.
func ByName(name string) (Codec, error) {
	if name == "" {
		return Default, nil
	}
	for _, c := range builtin {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownCodec, name, Names())
}

// Names lists the built-in codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for _, c := range builtin {
		names = append(names, c.Name())
	}
	slices.Sort(names)
	return names
}
