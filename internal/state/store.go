package state

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrReservedKey is returned when a reserved key is written through Merge.
var ErrReservedKey = errors.New("reserved state key")

// Store is the mutable workflow state of a single run. All methods are safe
// for concurrent use; merges are serialized so contribution order equals call
// order.
type Store struct {
	mu     sync.RWMutex
	schema Schema
	values map[string]any
}

// New creates a store using schema and seeded with initial values. Initial
// values of Append keys must be slices (or nil).
func New(schema Schema, initial map[string]any) (*Store, error) {
	if schema == nil {
		schema = Schema{}
	}
	s := &Store{
		schema: schema,
		values: make(map[string]any, len(initial)+1),
	}
	for key, value := range initial {
		value = cloneValue(value)
		if schema.PolicyOf(key) != Append {
			s.values[key] = value
			continue
		}
		if value == nil {
			s.values[key] = []any{}
			continue
		}
		list, ok := toList(value)
		if !ok {
			return nil, fmt.Errorf("initial value for append key %q must be a list, got %T", key, value)
		}
		s.values[key] = append([]any(nil), list...)
	}
	if _, ok := s.values[MetricsKey]; !ok {
		s.values[MetricsKey] = []any{}
	}
	return s, nil
}

// Policy returns the effective merge policy of key.
func (s *Store) Policy(key string) Policy {
	return s.schema.PolicyOf(key)
}

// Merge combines value into key according to the key's policy. Reserved keys
// are refused.
func (s *Store) Merge(key string, value any) error {
	if IsReserved(key) {
		return fmt.Errorf("%w: %q", ErrReservedKey, key)
	}
	s.merge(key, value)
	return nil
}

// MergeReserved appends value to a reserved key. It is the only write path
// into reserved keys and is used by the node wrapper.
func (s *Store) MergeReserved(key string, value any) error {
	if !IsReserved(key) {
		return fmt.Errorf("key %q is not reserved", key)
	}
	s.merge(key, value)
	return nil
}

func (s *Store) merge(key string, value any) {
	value = cloneValue(value)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schema.PolicyOf(key) == Replace {
		s.values[key] = value
		return
	}

	existing, _ := s.values[key].([]any)
	if items, ok := toList(value); ok {
		s.values[key] = append(existing, items...)
		return
	}
	s.values[key] = append(existing, value)
}

// Snapshot returns a deep copy of the current state. Maps and slices in it
// can be changed by the reader without affecting the store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{values: cloneValues(s.values)}
}

// toList flattens any slice or array (except byte slices) into []any.
func toList(value any) ([]any, bool) {
	if list, ok := value.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}
