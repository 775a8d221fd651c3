package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Key
		want int
	}{
		{name: "Index before field", a: IndexKey(99), b: FieldKey("a"), want: -1},
		{name: "Field after index", a: FieldKey("a"), b: IndexKey(0), want: 1},
		{name: "Indexes numeric", a: IndexKey(2), b: IndexKey(10), want: -1},
		{name: "Fields lexicographic", a: FieldKey("bias"), b: FieldKey("kernel"), want: -1},
		{name: "Equal indexes", a: IndexKey(3), b: IndexKey(3), want: 0},
		{name: "Equal fields", a: FieldKey("kernel"), b: FieldKey("kernel"), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
		})
	}
}

func TestKeyAccessors(t *testing.T) {
	f := FieldKey("kernel")
	assert.True(t, f.IsField())
	assert.False(t, f.IsIndex())
	assert.Equal(t, "kernel", f.Field())
	assert.Equal(t, -1, f.Index())

	i := IndexKey(7)
	assert.True(t, i.IsIndex())
	assert.False(t, i.IsField())
	assert.Equal(t, 7, i.Index())
	assert.Equal(t, "", i.Field())
}

func TestKeyJSONRoundTrip(t *testing.T) {
	// Field "0" and index 0 render identically but must stay distinct
	// through persistence.
	tests := []struct {
		name string
		key  Key
	}{
		{name: "Field", key: FieldKey("kernel")},
		{name: "Numeric-looking field", key: FieldKey("0")},
		{name: "Index", key: IndexKey(0)},
		{name: "Empty field", key: FieldKey("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.key)
			require.NoError(t, err)

			var got Key
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.key, got)
		})
	}
}

func TestKeyJSONDistinguishesFieldFromIndex(t *testing.T) {
	fieldData, err := json.Marshal(FieldKey("0"))
	require.NoError(t, err)
	indexData, err := json.Marshal(IndexKey(0))
	require.NoError(t, err)
	assert.NotEqual(t, fieldData, indexData)
}

func TestKeyUnmarshalInvalid(t *testing.T) {
	var k Key
	require.Error(t, json.Unmarshal([]byte(`{}`), &k))
}
