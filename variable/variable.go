package variable

import (
	"fmt"
	"reflect"
	"sync"
)

// Kind is the nominal classification of a Variable.
//
// Kinds form a registered hierarchy: a filter asking for a kind also matches
// every kind registered below it. The hierarchy is an explicit table rather
// than Go type identity so that matching stays data-driven and printable.
type Kind string

// Built-in kinds. KindVariable is the root of the hierarchy.
const (
	KindVariable     Kind = "variable"
	KindParam        Kind = "param"
	KindBatchStat    Kind = "batch_stat"
	KindIntermediate Kind = "intermediate"
	KindRngState     Kind = "rng_state"
	KindRngKey       Kind = "rng_key"
	KindRngCount     Kind = "rng_count"
)

var registry = struct {
	mu      sync.RWMutex
	parents map[Kind]Kind
}{
	parents: map[Kind]Kind{
		KindVariable:     "",
		KindParam:        KindVariable,
		KindBatchStat:    KindVariable,
		KindIntermediate: KindVariable,
		KindRngState:     KindVariable,
		KindRngKey:       KindRngState,
		KindRngCount:     KindRngState,
	},
}

// Register adds a kind to the hierarchy below parent.
//
// Registration is typically done from init functions. Registering the same
// kind twice, or below an unknown parent, is an error.
func Register(kind, parent Kind) error {
	if kind == "" {
		return fmt.Errorf("variable: empty kind")
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.parents[kind]; exists {
		return fmt.Errorf("variable: kind %q already registered", kind)
	}
	if _, exists := registry.parents[parent]; !exists {
		return fmt.Errorf("variable: unknown parent kind %q", parent)
	}

	registry.parents[kind] = parent
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(kind, parent Kind) {
	if err := Register(kind, parent); err != nil {
		panic(err)
	}
}

// Registered reports whether the kind is present in the hierarchy.
func Registered(kind Kind) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	_, ok := registry.parents[kind]
	return ok
}

// Is reports whether k equals ancestor or is registered below it.
//
// Is is reflexive for any kind, registered or not. An unregistered kind has
// no ancestors.
func (k Kind) Is(ancestor Kind) bool {
	if k == ancestor {
		return true
	}

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	cur := k
	for {
		parent, ok := registry.parents[cur]
		if !ok || parent == "" {
			return false
		}
		if parent == ancestor {
			return true
		}
		cur = parent
	}
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// Variable is a single entry of model state: a payload value classified by a
// Kind and optionally labeled with a free-form Tag.
//
// The payload is opaque to filtering and partitioning; only Kind and Tag
// participate in predicate evaluation.
type Variable struct {
	Kind  Kind   `json:"kind"`
	Tag   string `json:"tag,omitempty"`
	Value any    `json:"value"`
}

// New creates a Variable of the given kind.
func New(kind Kind, value any) Variable {
	return Variable{Kind: kind, Value: value}
}

// Param creates a trainable-parameter Variable.
func Param(value any) Variable { return New(KindParam, value) }

// BatchStat creates a batch-statistic Variable (e.g. running mean/var).
func BatchStat(value any) Variable { return New(KindBatchStat, value) }

// Intermediate creates an intermediate-activation Variable.
func Intermediate(value any) Variable { return New(KindIntermediate, value) }

// RngKey creates an RNG key Variable.
func RngKey(value any) Variable { return New(KindRngKey, value) }

// RngCount creates an RNG counter Variable.
func RngCount(value any) Variable { return New(KindRngCount, value) }

// WithTag returns a copy of the Variable carrying the given tag.
func (v Variable) WithTag(tag string) Variable {
	v.Tag = tag
	return v
}

// Equal reports whether two Variables have the same kind, tag and payload.
// Payloads are compared with reflect.DeepEqual.
func (v Variable) Equal(o Variable) bool {
	return v.Kind == o.Kind && v.Tag == o.Tag && reflect.DeepEqual(v.Value, o.Value)
}

// String returns a compact representation for logs and error messages.
func (v Variable) String() string {
	if v.Tag != "" {
		return fmt.Sprintf("%s(#%s)", v.Kind, v.Tag)
	}
	return v.Kind.String()
}
