package state

import (
	"strconv"
	"strings"
)

// Path is an ordered sequence of Keys addressing a value in a nested state
// tree. Paths are value-semantic; mutating methods return copies.
type Path []Key

// NewPath creates a Path from keys.
func NewPath(keys ...Key) Path {
	p := make(Path, len(keys))
	copy(p, keys)
	return p
}

// ParsePath parses a "/"-separated rendering of a path. Segments consisting
// only of digits become index keys, everything else becomes field keys.
// The empty string parses to the empty (root) path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	segments := strings.Split(s, "/")
	p := make(Path, 0, len(segments))
	for _, seg := range segments {
		if i, err := strconv.Atoi(seg); err == nil {
			p = append(p, IndexKey(i))
		} else {
			p = append(p, FieldKey(seg))
		}
	}
	return p
}

// String renders the path with "/" separators, e.g. "layers/0/kernel".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	segments := make([]string, len(p))
	for i, k := range p {
		segments[i] = k.String()
	}
	return strings.Join(segments, "/")
}

// Contains reports whether key appears anywhere in the path.
func (p Path) Contains(key Key) bool {
	for _, k := range p {
		if k == key {
			return true
		}
	}
	return false
}

// Equal reports whether two paths are identical.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Compare orders paths by their keys, shorter prefixes first.
// It is consistent with the order Flatten emits entries in.
func (p Path) Compare(o Path) int {
	n := len(p)
	if len(o) < n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		if c := p[i].Compare(o[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}

// Join returns a new path with key appended.
func (p Path) Join(key Key) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}
