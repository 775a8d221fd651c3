// Package state models nested model-parameter state: paths, variables at
// paths, and deterministic conversion between the nested tree and a flat
// ordered entry list.
//
// The flat form is the unit the partitioner works on. Flatten guarantees
// each path is emitted exactly once and in a stable order (index keys
// numerically, then field keys lexicographically, depth-first), so
// partitioning and checkpointing are deterministic.
package state

import (
	"fmt"
	"sort"

	"github.com/borgorg/flax/variable"
)

// ErrPathConflict indicates a path collides with existing structure:
// a leaf where a subtree exists, a subtree where a leaf exists, or a
// duplicate path in flat input.
type ErrPathConflict struct {
	Path Path
}

func (e *ErrPathConflict) Error() string {
	return fmt.Sprintf("state: conflicting path %q", e.Path)
}

// State is a nested tree of Variables. The zero value is not usable;
// create trees with New or FromFlat.
type State struct {
	children map[Key]*State
	leaf     *variable.Variable
}

// New creates an empty state tree.
func New() *State {
	return &State{children: make(map[Key]*State)}
}

func (s *State) isLeaf() bool { return s.leaf != nil }

// Set stores a Variable at path, creating intermediate nodes as needed.
// Setting the empty path, a path through an existing leaf, or a path at an
// existing interior node fails with ErrPathConflict.
func (s *State) Set(path Path, v variable.Variable) error {
	if len(path) == 0 {
		return &ErrPathConflict{Path: path}
	}

	node := s
	for i, key := range path[:len(path)-1] {
		if node.isLeaf() {
			return &ErrPathConflict{Path: NewPath(path[:i]...)}
		}
		child, ok := node.children[key]
		if !ok {
			child = New()
			node.children[key] = child
		}
		node = child
	}

	if node.isLeaf() {
		return &ErrPathConflict{Path: NewPath(path[:len(path)-1]...)}
	}

	last := path[len(path)-1]
	if existing, ok := node.children[last]; ok && !existing.isLeaf() {
		return &ErrPathConflict{Path: path}
	}

	node.children[last] = &State{leaf: &v}
	return nil
}

// Get returns the Variable at path.
func (s *State) Get(path Path) (variable.Variable, bool) {
	node := s
	for _, key := range path {
		if node.isLeaf() {
			return variable.Variable{}, false
		}
		child, ok := node.children[key]
		if !ok {
			return variable.Variable{}, false
		}
		node = child
	}
	if !node.isLeaf() {
		return variable.Variable{}, false
	}
	return *node.leaf, true
}

// Delete removes the Variable at path, pruning empty interior nodes.
// It reports whether a Variable was removed.
func (s *State) Delete(path Path) bool {
	if len(path) == 0 {
		return false
	}
	return s.delete(path)
}

func (s *State) delete(path Path) bool {
	key := path[0]
	child, ok := s.children[key]
	if !ok {
		return false
	}

	if len(path) == 1 {
		if !child.isLeaf() {
			return false
		}
		delete(s.children, key)
		return true
	}

	if child.isLeaf() {
		return false
	}
	removed := child.delete(path[1:])
	if removed && len(child.children) == 0 {
		delete(s.children, key)
	}
	return removed
}

// Len returns the number of Variables in the tree.
func (s *State) Len() int {
	if s.isLeaf() {
		return 1
	}
	n := 0
	for _, child := range s.children {
		n += child.Len()
	}
	return n
}

// Flatten converts the tree to its flat ordered form.
func (s *State) Flatten() Flat {
	var flat Flat
	s.flatten(nil, &flat)
	return flat
}

func (s *State) flatten(prefix Path, out *Flat) {
	if s.isLeaf() {
		*out = append(*out, Entry{Path: prefix, Variable: *s.leaf})
		return
	}

	keys := make([]Key, 0, len(s.children))
	for k := range s.children {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })

	for _, k := range keys {
		s.children[k].flatten(prefix.Join(k), out)
	}
}

// Equal reports whether two trees hold the same Variables at the same paths.
func (s *State) Equal(o *State) bool {
	if s == nil || o == nil {
		return s == o
	}

	a, b := s.Flatten(), o.Flatten()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Path.Equal(b[i].Path) || !a[i].Variable.Equal(b[i].Variable) {
			return false
		}
	}
	return true
}

// FromFlat rebuilds a tree from flat entries. Duplicate or conflicting
// paths fail with ErrPathConflict.
func FromFlat(flat Flat) (*State, error) {
	s := New()
	for _, e := range flat {
		if _, exists := s.Get(e.Path); exists {
			return nil, &ErrPathConflict{Path: e.Path}
		}
		if err := s.Set(e.Path, e.Variable); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Merge combines disjoint trees into a new tree. Any path present in more
// than one input fails with ErrPathConflict.
func Merge(states ...*State) (*State, error) {
	out := New()
	for _, s := range states {
		if s == nil {
			continue
		}
		for _, e := range s.Flatten() {
			if _, exists := out.Get(e.Path); exists {
				return nil, &ErrPathConflict{Path: e.Path}
			}
			if err := out.Set(e.Path, e.Variable); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
