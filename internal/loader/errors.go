package loader

import (
	"errors"
	"fmt"
)

// ErrNotInBundle is returned when the resource context lacks the library.
var ErrNotInBundle = errors.New("library not found in bundle")

// LoadError reports a library that could neither be found on the system
// nor extracted and loaded.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s error: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// notInBundle names the missing library while still matching ErrNotInBundle.
func notInBundle(name string) error {
	return fmt.Errorf("%s was not found inside package: %w", name, ErrNotInBundle)
}
