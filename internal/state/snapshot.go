package state

import (
	"fmt"
	"maps"
	"slices"
)

// Snapshot is a read-only view of the state at one point in a run.
type Snapshot struct {
	values map[string]any
}

// NewSnapshot builds a snapshot directly from values. It is mostly useful
// for tests and for evaluating transforms outside a run.
func NewSnapshot(values map[string]any) Snapshot {
	return Snapshot{values: cloneValues(values)}
}

// Get returns the value stored under key.
func (s Snapshot) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// String returns the value under key rendered as a string. The boolean is
// false when the key is missing.
func (s Snapshot) String(key string) (string, bool) {
	v, ok := s.values[key]
	if !ok {
		return "", false
	}
	if str, isStr := v.(string); isStr {
		return str, true
	}
	return fmt.Sprint(v), true
}

// List returns the entries of an Append key, or nil.
func (s Snapshot) List(key string) []any {
	list, _ := s.values[key].([]any)
	return list
}

// Keys returns all keys in lexical order.
func (s Snapshot) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Len returns the number of keys.
func (s Snapshot) Len() int {
	return len(s.values)
}

// Map returns a deep copy of the underlying values.
func (s Snapshot) Map() map[string]any {
	return cloneValues(s.values)
}
