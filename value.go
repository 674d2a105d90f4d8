package config

import (
	"context"
	"time"

	"github.com/CodeMyAss/Commodus/pkg/activity"
)

// Lookup reads the option from store without applying defaults. ok is false
// when the store has no value at the resolved path or when the stored value
// cannot be read as a T. Generic lists, maps and integral numbers decoded by a
// store are converted when no information is lost.
func (o *Option[T]) Lookup(store Store, replacements ...string) (value T, ok bool, err error) {
	var zero T
	path, err := o.ResolvePath(replacements...)
	if err != nil {
		return zero, false, err
	}
	value, trace, err := o.read(store, path)
	if err != nil || trace.Source != SourceStore {
		return zero, false, err
	}
	return value, true, nil
}

// Value reads the option from store, falling back to the built-in default or
// the zero value of T.
func (o *Option[T]) Value(store Store, replacements ...string) (T, error) {
	var zero T
	return o.ValueOr(store, zero, replacements...)
}

// ValueOr reads the option from store. When nothing usable is stored the
// built-in default is returned, or fallback if the option declares none.
func (o *Option[T]) ValueOr(store Store, fallback T, replacements ...string) (T, error) {
	value, _, err := o.ResolveWithTrace(store, fallback, replacements...)
	return value, err
}

// Get reads the option from the store it was declared against.
func (o *Option[T]) Get(replacements ...string) (T, error) {
	return o.Value(o.config, replacements...)
}

// ResolveWithTrace behaves like ValueOr and also reports where the value came
// from.
func (o *Option[T]) ResolveWithTrace(store Store, fallback T, replacements ...string) (T, Trace, error) {
	path, err := o.ResolvePath(replacements...)
	if err != nil {
		var zero T
		return zero, Trace{Option: o.path}, err
	}
	value, trace, err := o.read(store, path)
	if err != nil {
		var zero T
		return zero, trace, err
	}
	if trace.Source == SourceStore {
		return value, trace, nil
	}
	value, trace.Source = o.fallback(fallback)
	trace.Value = value
	return value, trace, nil
}

// ValueFrom reads the option through a registry: a locked value wins,
// otherwise the registry's backing store is consulted. Replacements may be
// any value convertible to a string.
func (o *Option[T]) ValueFrom(registry Registry, replacements ...any) (T, error) {
	var zero T
	return o.ValueFromOr(registry, zero, replacements...)
}

// ValueFromOr is ValueFrom with a caller supplied fallback.
func (o *Option[T]) ValueFromOr(registry Registry, fallback T, replacements ...any) (T, error) {
	value, _, err := o.ResolveFromWithTrace(registry, fallback, replacements...)
	return value, err
}

// ResolveFromWithTrace behaves like ValueFromOr and also reports where the
// value came from.
func (o *Option[T]) ResolveFromWithTrace(registry Registry, fallback T, replacements ...any) (T, Trace, error) {
	var zero T
	args, err := Replacements(replacements...)
	if err != nil {
		return zero, Trace{Option: o.path}, err
	}

	if registry != nil && registry.IsLocked(o, args...) {
		start := time.Now()
		raw, ok := registry.LockedValue(o, args...)
		if value, match := coerce[T](raw); ok && match {
			path, _ := o.ResolvePath(args...)
			o.logger().LogAccess(AccessEvent{
				Op:       AccessRead,
				Option:   o.path,
				Path:     path,
				Source:   SourceLock,
				Found:    true,
				Locked:   true,
				Duration: time.Since(start),
			})
			return value, Trace{
				Option: o.path,
				Path:   path,
				Source: SourceLock,
				Value:  value,
				Found:  true,
				Locked: true,
			}, nil
		}
		o.logger().LogAccess(AccessEvent{
			Op:       AccessRead,
			Option:   o.path,
			Source:   SourceLock,
			Locked:   true,
			Mismatch: ok,
			Duration: time.Since(start),
		})
	}

	return o.ResolveWithTrace(registryStore(registry), fallback, args...)
}

func registryStore(registry Registry) Store {
	if registry == nil {
		return nil
	}
	wrapper := registry.Config()
	if wrapper == nil {
		return nil
	}
	return wrapper.Store()
}

func (o *Option[T]) read(store Store, path string) (T, Trace, error) {
	var zero T
	trace := Trace{Option: o.path, Path: path}
	if store == nil {
		return zero, trace, nil
	}

	start := time.Now()
	raw, found, err := store.Get(path)
	event := AccessEvent{
		Op:     AccessRead,
		Option: o.path,
		Path:   path,
		Found:  found && raw != nil,
		Err:    err,
	}
	defer func() {
		event.Duration = time.Since(start)
		o.logger().LogAccess(event)
	}()
	if err != nil {
		return zero, trace, err
	}
	if !found || raw == nil {
		return zero, trace, nil
	}

	trace.Found = true
	value, ok := coerce[T](raw)
	if !ok {
		trace.Mismatch = true
		event.Mismatch = true
		return zero, trace, nil
	}
	trace.Source = SourceStore
	trace.Value = value
	event.Source = SourceStore
	return value, trace, nil
}

// Set writes value at the resolved path of store.
func (o *Option[T]) Set(store Store, value T, replacements ...string) error {
	return o.write(store, AccessWrite, value, replacements...)
}

// Update writes value into the store the option was declared against.
func (o *Option[T]) Update(value T, replacements ...string) error {
	return o.Set(o.config, value, replacements...)
}

// SetAndSave writes value into the wrapper's store and persists the wrapper
// before returning.
func (o *Option[T]) SetAndSave(wrapper Wrapper, value T, replacements ...any) error {
	if wrapper == nil {
		return ErrNilWrapper
	}
	args, err := Replacements(replacements...)
	if err != nil {
		return err
	}
	if err := o.Set(wrapper.Store(), value, args...); err != nil {
		return err
	}
	return wrapper.Save()
}

// SetVia writes value through the registry's config wrapper, which is saved
// immediately.
func (o *Option[T]) SetVia(registry Registry, value T, replacements ...any) error {
	if registry == nil {
		return ErrNilRegistry
	}
	return o.SetAndSave(registry.Config(), value, replacements...)
}

// Reset writes the built-in default at the resolved path, or removes the
// stored value when the option has no default.
func (o *Option[T]) Reset(store Store, replacements ...string) error {
	if o.hasDefault {
		return o.write(store, AccessReset, o.defaultValue, replacements...)
	}
	return o.write(store, AccessReset, nil, replacements...)
}

func (o *Option[T]) write(store Store, op AccessOp, value any, replacements ...string) error {
	if store == nil {
		return ErrNilStore
	}
	path, err := o.ResolvePath(replacements...)
	if err != nil {
		return err
	}

	emitter := o.emitter()
	var previous any
	if emitter.Enabled() {
		previous, _, _ = store.Get(path)
	}

	start := time.Now()
	err = store.Set(path, value)
	event := AccessEvent{
		Op:       op,
		Option:   o.path,
		Path:     path,
		Duration: time.Since(start),
		Err:      err,
	}
	if err == nil && emitter.Enabled() {
		input := activity.OptionEventInput{
			Holder:   o.holderName(),
			Option:   o.path,
			Path:     path,
			OldValue: previous,
			NewValue: value,
		}
		var evt activity.Event
		if op == AccessReset {
			evt = activity.BuildOptionResetEvent(input)
		} else {
			evt = activity.BuildOptionUpdatedEvent(input)
		}
		event.NotifyErr = emitter.Emit(context.Background(), evt)
	}
	o.logger().LogAccess(event)
	return err
}

func (o *Option[T]) emitter() *activity.Emitter {
	if o.holder == nil {
		return nil
	}
	return o.holder.emitter
}

func (o *Option[T]) holderName() string {
	if o.holder == nil {
		return ""
	}
	return o.holder.name
}
