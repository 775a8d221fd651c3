// Package codec centralizes checkpoint payload encoding.
//
// Codec selection is a breaking-change boundary: manifests record the codec
// name, and group blobs created by one codec may not decode with another.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// This is used by self-describing persistence (checkpoint manifests store
// the codec name and select the codec by name on load).
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "zstd+json":
		return NewZstd(JSON{}), true
	case "lz4+json":
		return NewLZ4(JSON{}), true
	default:
		return nil, false
	}
}

// Default is the default codec used by the library.
var Default Codec = JSON{}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
