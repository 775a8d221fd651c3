package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want Path
	}{
		{name: "Empty is root", s: "", want: nil},
		{name: "Single field", s: "kernel", want: NewPath(FieldKey("kernel"))},
		{name: "Digits become indexes", s: "layers/0/kernel", want: NewPath(FieldKey("layers"), IndexKey(0), FieldKey("kernel"))},
		{name: "Mixed segment stays field", s: "layer0", want: NewPath(FieldKey("layer0"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePath(tt.s)
			assert.True(t, got.Equal(tt.want), "got %q", got)
		})
	}
}

func TestPathString(t *testing.T) {
	p := NewPath(FieldKey("layers"), IndexKey(0), FieldKey("kernel"))
	assert.Equal(t, "layers/0/kernel", p.String())
	assert.Equal(t, "", Path(nil).String())
}

func TestPathContains(t *testing.T) {
	p := ParsePath("encoder/layers/0/kernel")

	assert.True(t, p.Contains(FieldKey("layers")))
	assert.True(t, p.Contains(IndexKey(0)))
	assert.False(t, p.Contains(FieldKey("bias")))
	assert.False(t, p.Contains(FieldKey("0")), "field key does not match index key")
}

func TestPathCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "Equal", a: "a/b", b: "a/b", want: 0},
		{name: "Prefix first", a: "a", b: "a/b", want: -1},
		{name: "Lexicographic", a: "a/b", b: "a/c", want: -1},
		{name: "Index before field at same depth", a: "a/0", b: "a/b", want: -1},
		{name: "Numeric index order", a: "a/2", b: "a/10", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePath(tt.a).Compare(ParsePath(tt.b)))
			assert.Equal(t, -tt.want, ParsePath(tt.b).Compare(ParsePath(tt.a)))
		})
	}
}

func TestPathJoinCopies(t *testing.T) {
	base := NewPath(FieldKey("a"), FieldKey("b"))
	joined := base.Join(FieldKey("c"))

	assert.Equal(t, "a/b/c", joined.String())
	assert.Equal(t, "a/b", base.String(), "base must be unchanged")

	// Joining twice from the same base must not alias.
	j1 := base.Join(FieldKey("x"))
	j2 := base.Join(FieldKey("y"))
	assert.Equal(t, "a/b/x", j1.String())
	assert.Equal(t, "a/b/y", j2.String())
}
