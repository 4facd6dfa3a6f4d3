package busyflag

import (
	"errors"
	"fmt"
)

// ErrNotRegistered indicates a strict-mode operation targeted a key absent
// from the registry. Match with errors.Is.
var ErrNotRegistered = errors.New("flag not registered")

// UnregisteredKeyError reports which operation failed on which key.
// It wraps ErrNotRegistered so callers can match either the type or the
// sentinel.
type UnregisteredKeyError struct {
	// Key is the flag key the operation targeted.
	Key string

	// Op is the failing operation: "remove", "set", "get" or "hold".
	Op string
}

// Error implements the error interface.
func (e *UnregisteredKeyError) Error() string {
	return fmt.Sprintf("%s %q: flag not registered (register it before use)", e.Op, e.Key)
}

// Unwrap returns ErrNotRegistered.
func (e *UnregisteredKeyError) Unwrap() error {
	return ErrNotRegistered
}
