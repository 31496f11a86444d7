// ABOUTME: Insertion-ordered string-to-string mapping for custom fields
// ABOUTME: Marshals to and from a plain JSON object, preserving key order

package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Map is an ordered mapping from string keys to string values. Keys keep
// their insertion order, which is also the order they appear in JSON.
// The zero value is an empty, ready-to-use map.
type Map struct {
	keys   []string
	values map[string]string
}

// FromPairs builds a Map from alternating key, value strings.
func FromPairs(pairs ...string) Map {
	var m Map
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Get returns the value for key and whether it exists.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set inserts key with value, or overwrites the existing value in place.
func (m *Map) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete removes key if present; removing an absent key is a no-op.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Rename moves oldKey to newKey and sets its value. When newKey collides
// with another existing key, that entry is silently overwritten.
func (m *Map) Rename(oldKey, newKey, value string) {
	if oldKey != newKey {
		m.Delete(oldKey)
	}
	m.Set(newKey, value)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (m *Map) Each(fn func(key, value string)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Clone returns a deep copy.
func (m Map) Clone() Map {
	if len(m.keys) == 0 {
		return Map{}
	}
	out := Map{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]string, len(m.values)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether both maps hold the same entries in the same order.
func (m *Map) Equal(other Map) bool {
	if len(m.keys) != len(other.keys) {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || other.values[k] != m.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping keys in document order.
// All values must be strings.
func (m *Map) UnmarshalJSON(data []byte) error {
	*m = Map{}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("custom fields: expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("custom fields: non-string key %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("custom fields: value for %q is not a string: %w", key, err)
		}
		m.Set(key, value)
	}
	_, err = dec.Token() // closing brace
	return err
}
