// Package viperstore adapts a viper instance to config.Store and
// config.Wrapper, so options can live in an application's main config file.
//
// Viper keys are case-insensitive; paths are matched without regard to case.
package viperstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	config "github.com/CodeMyAss/Commodus"
)

// ErrNoConfigFile is returned by Save when the viper instance has no file.
var ErrNoConfigFile = errors.New("viperstore: no config file set")

// Store reads and writes option values through viper.
type Store struct {
	mu sync.RWMutex
	v  *viper.Viper
}

var (
	_ config.Store   = (*Store)(nil)
	_ config.Wrapper = (*Store)(nil)
)

// New wraps v. A nil v gets a fresh viper instance.
func New(v *viper.Viper) *Store {
	if v == nil {
		v = viper.New()
	}
	return &Store{v: v}
}

// Open reads the file at path when it exists and remembers it for Save.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("viperstore: read %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("viperstore: %w", err)
	}
	return New(v), nil
}

// Viper returns the wrapped instance.
func (s *Store) Viper() *viper.Viper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

func (s *Store) Get(path string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.v.IsSet(path) {
		return nil, false, nil
	}
	return s.v.Get(path), true, nil
}

// Set writes value as a viper override. Setting nil removes the key, which
// rebuilds the instance from its merged settings.
func (s *Store) Set(path string, value any) error {
	if path == "" {
		return errors.New("viperstore: path must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if value != nil {
		s.v.Set(path, value)
		return nil
	}
	if !s.v.IsSet(path) {
		return nil
	}
	return s.remove(path)
}

func (s *Store) remove(path string) error {
	settings := s.v.AllSettings()
	deletePath(settings, strings.Split(strings.ToLower(path), config.PathSeparator))

	rebuilt := viper.New()
	if file := s.v.ConfigFileUsed(); file != "" {
		rebuilt.SetConfigFile(file)
	}
	if err := rebuilt.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("viperstore: remove %s: %w", path, err)
	}
	s.v = rebuilt
	return nil
}

func deletePath(tree map[string]any, segments []string) {
	if len(segments) == 0 {
		return
	}
	if len(segments) == 1 {
		delete(tree, segments[0])
		return
	}
	child, ok := tree[segments[0]].(map[string]any)
	if !ok {
		return
	}
	deletePath(child, segments[1:])
	if len(child) == 0 {
		delete(tree, segments[0])
	}
}

// Store returns s itself.
func (s *Store) Store() config.Store {
	return s
}

// Save writes every setting to the config file, creating it when needed.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	file := s.v.ConfigFileUsed()
	if file == "" {
		return ErrNoConfigFile
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("viperstore: %w", err)
	}
	if err := s.v.WriteConfig(); err != nil {
		return fmt.Errorf("viperstore: write %s: %w", file, err)
	}
	return nil
}
