package store

import config "github.com/CodeMyAss/Commodus"

// SaveFunc persists a snapshot of the tree.
type SaveFunc func(snapshot map[string]any) error

// Wrapper exposes a MemoryStore as a config.Wrapper. Save hands a snapshot to
// the configured SaveFunc, or does nothing when there is none.
type Wrapper struct {
	store  *MemoryStore
	onSave SaveFunc
}

var _ config.Wrapper = (*Wrapper)(nil)

// NewWrapper wraps s. A nil s gets a fresh empty store.
func NewWrapper(s *MemoryStore, onSave SaveFunc) *Wrapper {
	if s == nil {
		s = NewMemoryStore()
	}
	return &Wrapper{store: s, onSave: onSave}
}

func (w *Wrapper) Store() config.Store {
	return w.store
}

// Memory returns the wrapped MemoryStore.
func (w *Wrapper) Memory() *MemoryStore {
	return w.store
}

func (w *Wrapper) Save() error {
	if w.onSave == nil {
		return nil
	}
	return w.onSave(w.store.Snapshot())
}
