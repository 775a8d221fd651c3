package state

import "github.com/borgorg/flax/variable"

// Entry is a single flattened state entry: a Variable addressed by its Path.
type Entry struct {
	Path     Path              `json:"path"`
	Variable variable.Variable `json:"variable"`
}

// Flat is an ordered collection of entries, as produced by State.Flatten.
// Paths are unique within a Flat.
type Flat []Entry

// Get returns the Variable at path.
func (f Flat) Get(path Path) (variable.Variable, bool) {
	for _, e := range f {
		if e.Path.Equal(path) {
			return e.Variable, true
		}
	}
	return variable.Variable{}, false
}

// Paths returns the paths of all entries in order.
func (f Flat) Paths() []Path {
	out := make([]Path, len(f))
	for i, e := range f {
		out[i] = e.Path
	}
	return out
}
