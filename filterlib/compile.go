package filterlib

import (
	"fmt"

	"github.com/borgorg/flax/state"
	"github.com/borgorg/flax/variable"
)

// ErrInvalidFilterLiteral indicates a literal outside the recognized
// grammar. It is returned at compile time, before any entry is evaluated.
type ErrInvalidFilterLiteral struct {
	Literal any
}

func (e *ErrInvalidFilterLiteral) Error() string {
	return fmt.Sprintf("filterlib: invalid filter literal %v (%T)", e.Literal, e.Literal)
}

// Compile converts a filter literal into a Predicate.
//
// Accepted literal forms:
//   - a Filter combinator node
//   - a variable.Kind (kind or sub-kind match)
//   - a string (exact tag match)
//   - true / false (match-all / match-none), nil (match-none)
//   - a []any or []Filter (any-of, compiled element-wise)
//   - a Predicate or bare func(state.Path, variable.Variable) bool (identity)
//
// Compilation is recursive and total over the grammar; anything else fails
// with *ErrInvalidFilterLiteral. Compiling equal literals twice yields
// behaviorally equal but distinct predicates.
func Compile(literal any) (Predicate, error) {
	switch lit := literal.(type) {
	case nil:
		return matchNone, nil
	case Filter:
		return compileFilter(lit)
	case Predicate:
		return lit, nil
	case func(state.Path, variable.Variable) bool:
		return lit, nil
	case variable.Kind:
		return compileKind(lit), nil
	case string:
		return compileTag(lit), nil
	case bool:
		if lit {
			return matchAll, nil
		}
		return matchNone, nil
	case []any:
		return compileAny(lit)
	case []Filter:
		literals := make([]any, len(lit))
		for i, f := range lit {
			literals[i] = f
		}
		return compileAny(literals)
	default:
		return nil, &ErrInvalidFilterLiteral{Literal: literal}
	}
}

func compileFilter(f Filter) (Predicate, error) {
	switch node := f.(type) {
	case everything:
		return matchAll, nil
	case nothing:
		return matchNone, nil
	case ofKind:
		return compileKind(node.kind), nil
	case withTag:
		return compileTag(node.tag), nil
	case pathContains:
		key := node.key
		return func(p state.Path, _ variable.Variable) bool {
			return p.Contains(key)
		}, nil
	case anyOf:
		return compileAny(node.literals)
	case allOf:
		return compileAll(node.literals)
	case not:
		inner, err := Compile(node.literal)
		if err != nil {
			return nil, err
		}
		return func(p state.Path, v variable.Variable) bool {
			return !inner(p, v)
		}, nil
	case opaque:
		return node.fn, nil
	default:
		return nil, &ErrInvalidFilterLiteral{Literal: f}
	}
}

func compileKind(kind variable.Kind) Predicate {
	return func(_ state.Path, v variable.Variable) bool {
		return v.Kind.Is(kind)
	}
}

func compileTag(tag string) Predicate {
	return func(_ state.Path, v variable.Variable) bool {
		return v.Tag == tag
	}
}

func compileAny(literals []any) (Predicate, error) {
	preds, err := compileEach(literals)
	if err != nil {
		return nil, err
	}
	return func(p state.Path, v variable.Variable) bool {
		for _, pred := range preds {
			if pred(p, v) {
				return true
			}
		}
		return false
	}, nil
}

func compileAll(literals []any) (Predicate, error) {
	preds, err := compileEach(literals)
	if err != nil {
		return nil, err
	}
	return func(p state.Path, v variable.Variable) bool {
		for _, pred := range preds {
			if !pred(p, v) {
				return false
			}
		}
		return true
	}, nil
}

func compileEach(literals []any) ([]Predicate, error) {
	preds := make([]Predicate, len(literals))
	for i, lit := range literals {
		pred, err := Compile(lit)
		if err != nil {
			return nil, err
		}
		preds[i] = pred
	}
	return preds, nil
}

func matchAll(state.Path, variable.Variable) bool  { return true }
func matchNone(state.Path, variable.Variable) bool { return false }
