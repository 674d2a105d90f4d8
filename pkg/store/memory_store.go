package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrEmptyPath is returned for reads and writes addressed at "".
var ErrEmptyPath = errors.New("store: path must not be empty")

// MemoryStore is a concurrency-safe nested map tree.
type MemoryStore struct {
	mu   sync.RWMutex
	root map[string]any
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: map[string]any{}}
}

// NewMemoryStoreFrom returns a store seeded with a deep copy of tree.
func NewMemoryStoreFrom(tree map[string]any) *MemoryStore {
	s := NewMemoryStore()
	s.Replace(tree)
	return s
}

// Get returns a copy of the value at path.
func (s *MemoryStore) Get(path string) (any, bool, error) {
	if path == "" {
		return nil, false, ErrEmptyPath
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var current any = s.root
	for _, segment := range strings.Split(path, ".") {
		next, ok := child(current, segment)
		if !ok {
			return nil, false, nil
		}
		current = next
	}
	return CloneValue(current), true, nil
}

// Set writes a copy of value at path. A nil value removes the key.
func (s *MemoryStore) Set(path string, value any) error {
	if path == "" {
		return ErrEmptyPath
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return fmt.Errorf("store: path %q has an empty segment", path)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parent := s.root
	for _, segment := range segments[:len(segments)-1] {
		next, ok := parent[segment].(map[string]any)
		if !ok {
			if value == nil {
				return nil
			}
			next = map[string]any{}
			parent[segment] = next
		}
		parent = next
	}
	leaf := segments[len(segments)-1]
	if value == nil {
		delete(parent, leaf)
		return nil
	}
	parent[leaf] = CloneValue(value)
	return nil
}

// Replace swaps the whole tree for a deep copy of tree.
func (s *MemoryStore) Replace(tree map[string]any) {
	cloned := Clone(tree)
	if cloned == nil {
		cloned = map[string]any{}
	}
	s.mu.Lock()
	s.root = cloned
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the whole tree.
func (s *MemoryStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Clone(s.root)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

// Keys returns the sorted dotted paths of every leaf value.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	collectKeys(s.root, "", &keys)
	sort.Strings(keys)
	return keys
}

// MergeDefaults fills every leaf of defaults that is missing from the store.
// Existing values are never overwritten.
func (s *MemoryStore) MergeDefaults(defaults map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = Merge(s.root, defaults)
}

func child(node any, segment string) (any, bool) {
	switch typed := node.(type) {
	case map[string]any:
		value, ok := typed[segment]
		return value, ok
	case map[any]any:
		value, ok := typed[segment]
		return value, ok
	default:
		return nil, false
	}
}

func collectKeys(tree map[string]any, prefix string, keys *[]string) {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok && len(nested) > 0 {
			collectKeys(nested, path, keys)
			continue
		}
		*keys = append(*keys, path)
	}
}
