package config

import (
	"fmt"
	"slices"
)

// Option binds a dotted path template to a typed value with an optional
// default and documentation comments. Options are meant to be declared once as
// package-level values and never mutated afterwards.
type Option[T any] struct {
	config       Store
	path         string
	defaultValue T
	hasDefault   bool
	comments     []string
	placeholders int
	holder       *Holder
}

// New declares an option without a default value. Reads of an absent value
// return the caller supplied fallback, or the zero value of T.
func New[T any](store Store, path string, comments ...string) *Option[T] {
	return &Option[T]{
		config:       store,
		path:         path,
		comments:     WrapComments(comments...),
		placeholders: CountPlaceholders(path),
	}
}

// NewWithDefault declares an option whose default is returned whenever the
// store holds no usable value.
func NewWithDefault[T any](store Store, path string, defaultValue T, comments ...string) *Option[T] {
	option := New[T](store, path, comments...)
	option.defaultValue = defaultValue
	option.hasDefault = true
	return option
}

// Config returns the store the option was declared against.
func (o *Option[T]) Config() Store {
	return o.config
}

// Path returns the unresolved path template.
func (o *Option[T]) Path() string {
	return o.path
}

// Default returns the built-in default and whether one was declared.
func (o *Option[T]) Default() (T, bool) {
	return o.defaultValue, o.hasDefault
}

// DefaultValue returns the built-in default as an untyped value, or nil.
func (o *Option[T]) DefaultValue() any {
	if !o.hasDefault {
		return nil
	}
	return o.defaultValue
}

// HasDefault reports whether the option declares a built-in default.
func (o *Option[T]) HasDefault() bool {
	return o.hasDefault
}

// Comments returns a copy of the wrapped comment lines.
func (o *Option[T]) Comments() []string {
	return slices.Clone(o.comments)
}

// Placeholders returns how many replacement values the path requires.
func (o *Option[T]) Placeholders() int {
	return o.placeholders
}

// TypeName reports the declared value type, e.g. "int" or "[]string".
func (o *Option[T]) TypeName() string {
	var zero T
	if name := fmt.Sprintf("%T", zero); name != "<nil>" {
		return name
	}
	return fmt.Sprintf("%T", (*T)(nil))[1:]
}

// ResolvePath substitutes replacements into the option's path template.
func (o *Option[T]) ResolvePath(replacements ...string) (string, error) {
	return ResolvePath(o.path, replacements...)
}

func (o *Option[T]) String() string {
	return o.path
}

func (o *Option[T]) boundHolder() *Holder {
	return o.holder
}

func (o *Option[T]) bindHolder(h *Holder) {
	o.holder = h
}

func (o *Option[T]) logger() AccessLogger {
	if o.holder == nil {
		return noopAccessLogger{}
	}
	return o.holder.logger()
}

// fallback applies default resolution: the built-in default wins over the
// caller supplied fallback when the option declares one.
func (o *Option[T]) fallback(fallback T) (T, Source) {
	if o.hasDefault {
		return o.defaultValue, SourceDefault
	}
	return fallback, SourceFallback
}
