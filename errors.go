package flax

import (
	"errors"
	"fmt"

	"github.com/borgorg/flax/filterlib"
	"github.com/borgorg/flax/state"
	"github.com/borgorg/flax/variable"
)

var (
	// ErrInvalidFilter is returned when a filter literal is outside the
	// recognized grammar. Check the wrapped *filterlib.ErrInvalidFilterLiteral
	// for the offending literal.
	ErrInvalidFilter = errors.New("invalid filter literal")

	// ErrUnmatched is returned when a state entry matches none of the
	// supplied filters.
	ErrUnmatched = errors.New("unmatched state entry")
)

// ErrUnmatchedEntry identifies the entry that matched no filter.
//
// It satisfies errors.Is(err, ErrUnmatched).
type ErrUnmatchedEntry struct {
	Path     state.Path
	Variable variable.Variable
}

func (e *ErrUnmatchedEntry) Error() string {
	return fmt.Sprintf("unmatched state entry at %q (%s): add a catch-all filter such as flax.Everything", e.Path, e.Variable)
}

func (e *ErrUnmatchedEntry) Unwrap() error { return ErrUnmatched }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var inv *filterlib.ErrInvalidFilterLiteral
	if errors.As(err, &inv) {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	return err
}
