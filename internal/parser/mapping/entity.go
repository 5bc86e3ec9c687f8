package mapping

import (
	"bytes"
	"encoding/json"
)

// Entity is the nested key/value output built from a payload. Keys keep
// insertion order, and serialization preserves it; values are strings,
// *Entity, []*Entity, or ints (version tags).
type Entity struct {
	keys   []string
	values map[string]any
}

// NewEntity creates an empty Entity.
func NewEntity() *Entity {
	return &Entity{values: make(map[string]any)}
}

// Set adds or replaces a key. A new key is appended to the order.
func (e *Entity) Set(key string, value any) {
	if _, exists := e.values[key]; !exists {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Get returns the value for key.
func (e *Entity) Get(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Len returns the number of keys.
func (e *Entity) Len() int {
	return len(e.keys)
}

// Keys returns the keys in insertion order.
func (e *Entity) Keys() []string {
	return e.keys
}

// MarshalJSON serializes the entity with keys in insertion order.
func (e *Entity) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
