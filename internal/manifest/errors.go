package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldAbsent marks a required key that is missing.
	ErrFieldAbsent = errors.New("key is missing")

	// ErrFieldType marks a key holding a value of the wrong type.
	ErrFieldType = errors.New("key has the wrong type")

	// ErrFieldValue marks a well-typed key whose value is not allowed, such
	// as a target name containing a path separator.
	ErrFieldValue = errors.New("key has an invalid value")
)

// FieldError locates one schema violation by its dotted key, e.g.
// "package.name" or "bin[1].path".
type FieldError struct {
	Key    string
	Err    error
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("Cargo.toml `%s`: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("Cargo.toml `%s`: %v (%s)", e.Key, e.Err, e.Detail)
}

func (e *FieldError) Unwrap() error { return e.Err }
