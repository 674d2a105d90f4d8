package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a path template resolved with too few
	// replacement values.
	ErrInvalidArgument = errors.New("config: not enough path arguments provided")
	// ErrNilStore indicates a write was attempted without a store.
	ErrNilStore = errors.New("config: store is required")
	// ErrNilWrapper indicates a persisted write was attempted without a wrapper.
	ErrNilWrapper = errors.New("config: config wrapper is required")
	// ErrNilRegistry indicates a registry write was attempted without a registry.
	ErrNilRegistry = errors.New("config: registry is required")
	// ErrDuplicatePath indicates a holder already declares an option for the path.
	ErrDuplicatePath = errors.New("config: option path already registered")
	// ErrAlreadyBound indicates the option is registered on another holder.
	ErrAlreadyBound = errors.New("config: option already registered on another holder")
)

// PathError captures the template and argument counts of a failed path
// resolution. It unwraps to ErrInvalidArgument.
type PathError struct {
	Template     string
	Placeholders int
	Supplied     int
}

func (e *PathError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("config: path %q needs %d argument(s), got %d", e.Template, e.Placeholders, e.Supplied)
}

func (e *PathError) Unwrap() error {
	return ErrInvalidArgument
}
