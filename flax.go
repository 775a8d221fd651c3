package flax

import (
	"github.com/borgorg/flax/filterlib"
	"github.com/borgorg/flax/state"
)

// Re-exported sentinels for call-site ergonomics.
var (
	// Everything matches every entry.
	Everything = filterlib.Everything
	// Nothing matches no entry.
	Nothing = filterlib.Nothing
)

// SplitFlat partitions flattened entries into one group per filter literal,
// in literal order.
//
// All literals are compiled before any entry is evaluated; an invalid
// literal aborts the call with ErrInvalidFilter. Each entry is assigned to
// the first literal whose predicate matches it, and remaining predicates
// are not evaluated for that entry. An entry matching no literal aborts
// with *ErrUnmatchedEntry. The returned groups are a disjoint partition of
// the input, preserving entry order within each group.
func SplitFlat(entries state.Flat, literals ...any) ([]state.Flat, error) {
	preds := make([]filterlib.Predicate, len(literals))
	for i, lit := range literals {
		pred, err := filterlib.Compile(lit)
		if err != nil {
			return nil, translateError(err)
		}
		preds[i] = pred
	}

	groups := make([]state.Flat, len(literals))
	for _, e := range entries {
		matched := false
		for i, pred := range preds {
			if pred(e.Path, e.Variable) {
				groups[i] = append(groups[i], e)
				matched = true
				break
			}
		}
		if !matched {
			return nil, &ErrUnmatchedEntry{Path: e.Path, Variable: e.Variable}
		}
	}

	return groups, nil
}

// Split flattens the state tree and partitions it into one tree per filter
// literal. See SplitFlat for the matching semantics.
func Split(s *state.State, literals ...any) ([]*state.State, error) {
	flatGroups, err := SplitFlat(s.Flatten(), literals...)
	if err != nil {
		return nil, err
	}

	groups := make([]*state.State, len(flatGroups))
	for i, fg := range flatGroups {
		g, err := state.FromFlat(fg)
		if err != nil {
			return nil, err
		}
		groups[i] = g
	}

	return groups, nil
}

// Merge combines disjoint state trees into one, the inverse of Split under
// full coverage. Any path present in more than one input is an error.
func Merge(states ...*state.State) (*state.State, error) {
	return state.Merge(states...)
}
