package config

import (
	"errors"
	"strings"
)

// mapStore is a flat path-keyed store used by the package tests.
type mapStore struct {
	values map[string]any
	getErr error
	sets   int
}

func newMapStore(values map[string]any) *mapStore {
	if values == nil {
		values = map[string]any{}
	}
	return &mapStore{values: values}
}

func (s *mapStore) Get(path string) (any, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	value, ok := s.values[path]
	return value, ok, nil
}

func (s *mapStore) Set(path string, value any) error {
	s.sets++
	if value == nil {
		delete(s.values, path)
		return nil
	}
	s.values[path] = value
	return nil
}

type savingWrapper struct {
	store   *mapStore
	saves   int
	saveErr error
}

func (w *savingWrapper) Store() Store { return w.store }

func (w *savingWrapper) Save() error {
	w.saves++
	return w.saveErr
}

// lockRegistry locks options by template, optionally only for one argument
// list joined with "|".
type lockRegistry struct {
	wrapper *savingWrapper
	locks   map[string]any
	only    map[string]string
	calls   []string
}

func (r *lockRegistry) IsLocked(option Descriptor, replacements ...string) bool {
	r.calls = append(r.calls, option.Path())
	if _, ok := r.locks[option.Path()]; !ok {
		return false
	}
	if want, ok := r.only[option.Path()]; ok {
		return want == strings.Join(replacements, "|")
	}
	return true
}

func (r *lockRegistry) LockedValue(option Descriptor, _ ...string) (any, bool) {
	value, ok := r.locks[option.Path()]
	return value, ok
}

func (r *lockRegistry) Config() Wrapper {
	if r.wrapper == nil {
		return nil
	}
	return r.wrapper
}

var errBoom = errors.New("boom")
