package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/CodeMyAss/Commodus/pkg/activity"
)

// Holder groups the options declared for one settings domain, in declaration
// order. It stands in for enumerating the option fields of a type.
type Holder struct {
	name string

	mu      sync.RWMutex
	options []Descriptor
	byPath  map[string]Descriptor

	accessLogger AccessLogger
	emitter      *activity.Emitter
}

// HolderOption configures a Holder.
type HolderOption func(*holderConfig)

type holderConfig struct {
	logger   AccessLogger
	hooks    activity.Hooks
	channel  string
	disabled bool
}

// WithAccessLogger records every read and write of the holder's options.
func WithAccessLogger(logger AccessLogger) HolderOption {
	return func(cfg *holderConfig) {
		cfg.logger = logger
	}
}

// WithActivityHooks emits activity events when the holder's options are
// written or reset.
func WithActivityHooks(hooks activity.Hooks) HolderOption {
	return func(cfg *holderConfig) {
		cfg.hooks = append(cfg.hooks, hooks...)
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) HolderOption {
	return func(cfg *holderConfig) {
		cfg.channel = channel
	}
}

// NewHolder creates an empty holder named after its settings domain.
func NewHolder(name string, opts ...HolderOption) *Holder {
	cfg := holderConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	h := &Holder{
		name:         name,
		byPath:       map[string]Descriptor{},
		accessLogger: cfg.logger,
	}
	if len(cfg.hooks) > 0 {
		h.emitter = activity.NewEmitter(cfg.hooks, activity.Config{
			Enabled: true,
			Channel: cfg.channel,
		})
	}
	return h
}

// Name returns the holder's name.
func (h *Holder) Name() string {
	return h.name
}

// Register adds option to h and returns it, so it can be used directly in a
// package-level var declaration. It panics if the path is already registered.
func Register[T any](h *Holder, option *Option[T]) *Option[T] {
	if err := h.Add(option); err != nil {
		panic(err)
	}
	return option
}

// Add appends option to the holder. Options implemented by this package are
// bound to the holder so they pick up its logger and activity hooks; an option
// belongs to at most one holder.
func (h *Holder) Add(option Descriptor) error {
	if option == nil {
		return fmt.Errorf("config: holder %q: option is nil", h.name)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.byPath[option.Path()]; exists {
		return fmt.Errorf("%w: %s (holder %q)", ErrDuplicatePath, option.Path(), h.name)
	}
	binder, bindable := option.(holderBinder)
	if bindable {
		if owner := binder.boundHolder(); owner != nil && owner != h {
			return fmt.Errorf("%w: %s (holder %q, owned by %q)", ErrAlreadyBound, option.Path(), h.name, owner.name)
		}
	}
	h.byPath[option.Path()] = option
	h.options = append(h.options, option)
	if bindable {
		binder.bindHolder(h)
	}
	return nil
}

// Options returns every registered option in declaration order.
func (h *Holder) Options() []Descriptor {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Descriptor, len(h.options))
	copy(out, h.options)
	return out
}

// OptionsOf returns the registered options whose concrete type is D, in
// declaration order, e.g. OptionsOf[*Option[string]](h).
func OptionsOf[D Descriptor](h *Holder) []D {
	var out []D
	for _, option := range h.Options() {
		if typed, ok := option.(D); ok {
			out = append(out, typed)
		}
	}
	return out
}

// Lookup finds an option by its path template.
func (h *Holder) Lookup(path string) (Descriptor, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	option, ok := h.byPath[path]
	return option, ok
}

// Len returns the number of registered options.
func (h *Holder) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.options)
}

// CopyDefaults writes the default of every placeholder-free option that has
// no value in store yet. It returns the paths it wrote.
func (h *Holder) CopyDefaults(store Store) ([]string, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	var written []string
	for _, option := range h.Options() {
		if !option.HasDefault() || option.Placeholders() > 0 {
			continue
		}
		path, err := ResolvePath(option.Path())
		if err != nil {
			return written, err
		}
		_, ok, err := store.Get(path)
		if err != nil {
			return written, fmt.Errorf("config: read %q: %w", path, err)
		}
		if ok {
			continue
		}
		if err := store.Set(path, option.DefaultValue()); err != nil {
			return written, fmt.Errorf("config: write default %q: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Comments maps every placeholder-free option path to its wrapped comments.
func (h *Holder) Comments() map[string][]string {
	out := map[string][]string{}
	for _, option := range h.Options() {
		comments := option.Comments()
		if len(comments) == 0 || option.Placeholders() > 0 {
			continue
		}
		path, err := ResolvePath(option.Path())
		if err != nil {
			continue
		}
		out[path] = comments
	}
	return out
}

func (h *Holder) logger() AccessLogger {
	if h == nil || h.accessLogger == nil {
		return noopAccessLogger{}
	}
	return h.accessLogger
}

func (h *Holder) String() string {
	names := make([]string, 0, h.Len())
	for _, option := range h.Options() {
		names = append(names, option.Path())
	}
	return fmt.Sprintf("%s[%s]", h.name, strings.Join(names, ", "))
}
