// Package omap provides an insertion-ordered map used to hold decoded YAML
// mappings.
//
// Go maps do not remember the order in which keys were added, so a document
// read into map[string]any and written back out comes out sorted. Map keeps
// the order keys were first inserted in and serializes in that order, both
// through rtyaml and through plain gopkg.in/yaml.v3.
package omap

import (
	"fmt"
	"iter"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   any
	Value any
}

// Map is a mapping that iterates in insertion order.
//
// Keys must be comparable (strings, numbers, booleans, nil and so on).
// Re-setting an existing key updates its value in place without moving it.
// The zero value is an empty map ready to use.
type Map struct {
	entries []Entry
	index   map[any]int
}

// Ensure Map works with gopkg.in/yaml.v3 directly.
var (
	_ yaml.Marshaler   = (*Map)(nil)
	_ yaml.Unmarshaler = (*Map)(nil)
)

// New creates a Map holding the given entries in order.
//
// Example:
//
//	m := omap.New(
//	    omap.Entry{Key: "name", Value: "app"},
//	    omap.Entry{Key: "port", Value: 8080},
//	)
func New(entries ...Entry) *Map {
	m := &Map{index: make(map[any]int, len(entries))}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Hashable reports whether key can be used as a Map key.
func Hashable(key any) bool {
	if key == nil {
		return true
	}
	return reflect.ValueOf(key).Comparable()
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	if m == nil || !Hashable(key) {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present.
func (m *Map) Has(key any) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. New keys are appended at the end.
// Set panics if key is not comparable; see Hashable.
func (m *Map) Set(key, value any) {
	if !Hashable(key) {
		panic(fmt.Sprintf("omap: unhashable key of type %T", key))
	}
	if m.index == nil {
		m.index = make(map[any]int)
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Delete removes key and reports whether it was present.
// The relative order of the remaining keys is unchanged.
func (m *Map) Delete(key any) bool {
	if m == nil || !Hashable(key) {
		return false
	}
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}
	return true
}

// Keys returns the keys in order.
func (m *Map) Keys() []any {
	if m == nil {
		return nil
	}
	keys := make([]any, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	return append([]Entry(nil), m.entries...)
}

// All iterates over the entries in order.
func (m *Map) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		if m == nil {
			return
		}
		for _, e := range m.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Equal reports whether m and other hold equal entries in the same order.
// Nested Maps and []any values are compared the same way; everything else
// is compared with reflect.DeepEqual.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i := range m.Len() {
		a, b := m.entries[i], other.entries[i]
		if !equalValue(a.Key, b.Key) || !equalValue(a.Value, b.Value) {
			return false
		}
	}
	return true
}

// EqualValues compares two decoded value trees, honoring mapping order.
func EqualValues(a, b any) bool {
	return equalValue(a, b)
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case *Map:
		bv, ok := b.(*Map)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// MarshalYAML implements yaml.Marshaler, emitting entries in order.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range m.entries {
		var k, v yaml.Node
		if err := k.Encode(e.Key); err != nil {
			return nil, fmt.Errorf("failed to encode key %v: %w", e.Key, err)
		}
		if err := v.Encode(e.Value); err != nil {
			return nil, fmt.Errorf("failed to encode value of %v: %w", e.Key, err)
		}
		node.Content = append(node.Content, &k, &v)
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Nested mappings are decoded
// into *Map and sequences into []any.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	node = resolveAlias(node)
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: cannot decode %s into an ordered map", node.Line, kindString(node.Kind))
	}
	m.entries = nil
	m.index = make(map[any]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, err := decodeNode(node.Content[i])
		if err != nil {
			return err
		}
		if !Hashable(key) {
			return fmt.Errorf("line %d: unhashable mapping key", node.Content[i].Line)
		}
		value, err := decodeNode(node.Content[i+1])
		if err != nil {
			return err
		}
		m.Set(key, value)
	}
	return nil
}

func decodeNode(node *yaml.Node) (any, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		m := &Map{}
		if err := m.UnmarshalYAML(node); err != nil {
			return nil, err
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]any, 0, len(node.Content))
		for _, n := range node.Content {
			v, err := decodeNode(n)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		return s, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func kindString(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
