// Package filterlib defines the filter literal grammar used to select state
// entries, and compiles literals into predicates.
//
// Filters are declarative data, not code: the grammar is a closed set of
// combinator nodes (Everything, Nothing, OfKind, WithTag, PathContains,
// Any, All, Not, None) that render to readable strings and compile recursively to
// predicates. Callers may also pass raw literals anywhere a filter is
// expected: a variable.Kind, a tag string, a bool sentinel, a slice of
// literals (meaning "any of"), or an already-compiled Predicate.
package filterlib

import (
	"fmt"
	"strings"

	"github.com/borgorg/flax/state"
	"github.com/borgorg/flax/variable"
)

// Predicate is a pure decision function over a flattened state entry.
// Predicates must not mutate their inputs or depend on evaluation order.
type Predicate func(p state.Path, v variable.Variable) bool

// Filter is a node of the filter combinator tree. The set of
// implementations is closed; construct nodes with the package functions.
type Filter interface {
	fmt.Stringer
	filterNode()
}

type everything struct{}

// Everything matches every entry. Append it as the last filter of a split
// to collect the remainder.
var Everything Filter = everything{}

func (everything) filterNode()    {}
func (everything) String() string { return "Everything" }

type nothing struct{}

// Nothing matches no entry.
var Nothing Filter = nothing{}

func (nothing) filterNode()    {}
func (nothing) String() string { return "Nothing" }

type ofKind struct {
	kind variable.Kind
}

// OfKind matches entries whose kind equals k or is registered below it.
func OfKind(k variable.Kind) Filter { return ofKind{kind: k} }

func (ofKind) filterNode()      {}
func (f ofKind) String() string { return fmt.Sprintf("OfKind(%s)", f.kind) }

type withTag struct {
	tag string
}

// WithTag matches entries whose tag equals tag exactly.
func WithTag(tag string) Filter { return withTag{tag: tag} }

func (withTag) filterNode()      {}
func (f withTag) String() string { return fmt.Sprintf("WithTag(%q)", f.tag) }

type pathContains struct {
	key state.Key
}

// PathContains matches entries whose path contains key anywhere.
func PathContains(key state.Key) Filter { return pathContains{key: key} }

func (pathContains) filterNode()      {}
func (f pathContains) String() string { return fmt.Sprintf("PathContains(%s)", f.key) }

type anyOf struct {
	literals []any
}

// Any matches entries matched by at least one of the literals.
// Any() with no literals behaves like Nothing.
func Any(literals ...any) Filter { return anyOf{literals: literals} }

func (anyOf) filterNode()      {}
func (f anyOf) String() string { return renderCombinator("Any", f.literals) }

type allOf struct {
	literals []any
}

// All matches entries matched by every one of the literals.
// All() with no literals behaves like Everything.
func All(literals ...any) Filter { return allOf{literals: literals} }

func (allOf) filterNode()      {}
func (f allOf) String() string { return renderCombinator("All", f.literals) }

type not struct {
	literal any
}

// Not matches entries not matched by the literal.
func Not(literal any) Filter { return not{literal: literal} }

// None matches entries matched by none of the literals, i.e.
// Not(Any(literals...)). None() with no literals behaves like Everything.
func None(literals ...any) Filter { return not{literal: anyOf{literals: literals}} }

func (not) filterNode()      {}
func (f not) String() string { return fmt.Sprintf("Not(%s)", Render(f.literal)) }

type opaque struct {
	fn Predicate
}

// FromPredicate wraps an already-compiled Predicate as a Filter node so it
// can participate in combinator trees.
func FromPredicate(fn Predicate) Filter { return opaque{fn: fn} }

func (opaque) filterNode()    {}
func (opaque) String() string { return "Predicate" }

// Render returns a readable representation of any filter literal, compiled
// or raw. Used in manifests and error messages.
func Render(literal any) string {
	switch lit := literal.(type) {
	case nil:
		return "Nothing"
	case Filter:
		return lit.String()
	case variable.Kind:
		return fmt.Sprintf("OfKind(%s)", lit)
	case string:
		return fmt.Sprintf("WithTag(%q)", lit)
	case bool:
		if lit {
			return "Everything"
		}
		return "Nothing"
	case Predicate, func(state.Path, variable.Variable) bool:
		return "Predicate"
	case []any:
		return renderCombinator("Any", lit)
	case []Filter:
		literals := make([]any, len(lit))
		for i, f := range lit {
			literals[i] = f
		}
		return renderCombinator("Any", literals)
	default:
		return fmt.Sprintf("<invalid %T>", literal)
	}
}

func renderCombinator(name string, literals []any) string {
	parts := make([]string, len(literals))
	for i, lit := range literals {
		parts[i] = Render(lit)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}
