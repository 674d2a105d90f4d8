package config

// Store is the hierarchical key-value backing an option reads from and writes
// to. Paths are dot separated. Get reports ok=false when nothing is stored at
// path. Implementations own their thread safety.
type Store interface {
	Get(path string) (value any, ok bool, err error)
	Set(path string, value any) error
}

// Wrapper is a Store that can be persisted to durable storage.
type Wrapper interface {
	Store() Store
	Save() error
}

// Registry resolves locked (forced) option values ahead of the backing store.
type Registry interface {
	IsLocked(option Descriptor, replacements ...string) bool
	LockedValue(option Descriptor, replacements ...string) (any, bool)
	Config() Wrapper
}

// Descriptor is the untyped view of an Option used by holders, registries and
// documentation generators.
type Descriptor interface {
	Path() string
	DefaultValue() any
	HasDefault() bool
	Comments() []string
	TypeName() string
	Placeholders() int
}

type holderBinder interface {
	boundHolder() *Holder
	bindHolder(*Holder)
}
