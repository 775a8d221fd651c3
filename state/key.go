package state

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type keyKind uint8

const (
	keyInvalid keyKind = iota
	keyField
	keyIndex
)

// Key is a single step of a Path: either a string field name or an integer
// index. Keys are comparable and can be used as map keys.
type Key struct {
	kind keyKind
	s    string
	i    int
}

// FieldKey creates a string field key.
func FieldKey(name string) Key { return Key{kind: keyField, s: name} }

// IndexKey creates an integer index key.
func IndexKey(i int) Key { return Key{kind: keyIndex, i: i} }

// IsField reports whether the key is a string field name.
func (k Key) IsField() bool { return k.kind == keyField }

// IsIndex reports whether the key is an integer index.
func (k Key) IsIndex() bool { return k.kind == keyIndex }

// Field returns the field name, or "" if the key is not a field.
func (k Key) Field() string {
	if k.kind != keyField {
		return ""
	}
	return k.s
}

// Index returns the index, or -1 if the key is not an index.
func (k Key) Index() int {
	if k.kind != keyIndex {
		return -1
	}
	return k.i
}

// String renders the key as a path segment.
func (k Key) String() string {
	switch k.kind {
	case keyField:
		return k.s
	case keyIndex:
		return strconv.Itoa(k.i)
	default:
		return "<invalid>"
	}
}

// Compare orders keys: index keys numerically first, then field keys
// lexicographically. This is the order Flatten emits entries in.
func (k Key) Compare(o Key) int {
	if k.kind != o.kind {
		if k.kind == keyIndex {
			return -1
		}
		return 1
	}
	switch k.kind {
	case keyIndex:
		switch {
		case k.i < o.i:
			return -1
		case k.i > o.i:
			return 1
		}
		return 0
	default:
		switch {
		case k.s < o.s:
			return -1
		case k.s > o.s:
			return 1
		}
		return 0
	}
}

// keyJSON is the persisted form of a Key. The field/index split is kept
// explicit so "0" (field) and 0 (index) survive a round trip.
type keyJSON struct {
	F *string `json:"f,omitempty"`
	I *int    `json:"i,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (k Key) MarshalJSON() ([]byte, error) {
	switch k.kind {
	case keyField:
		s := k.s
		return json.Marshal(keyJSON{F: &s})
	case keyIndex:
		i := k.i
		return json.Marshal(keyJSON{I: &i})
	default:
		return nil, fmt.Errorf("state: cannot marshal invalid key")
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Key) UnmarshalJSON(data []byte) error {
	var aux keyJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.F != nil:
		*k = FieldKey(*aux.F)
	case aux.I != nil:
		*k = IndexKey(*aux.I)
	default:
		return fmt.Errorf("state: key is neither field nor index")
	}
	return nil
}
