package naming

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName marks a library name or bundle prefix that could place a
// file outside its extraction root.
var ErrInvalidName = errors.New("invalid library name")

// NameError reports a rejected library name or prefix.
type NameError struct {
	Name   string
	Reason string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid library name %q: %s", e.Name, e.Reason)
}

func (e *NameError) Unwrap() error { return ErrInvalidName }

// ValidateName rejects logical names carrying a path separator or "..".
func ValidateName(name string) error {
	if strings.ContainsAny(name, `/\`) {
		return &NameError{Name: name, Reason: "contains a path separator"}
	}
	if strings.Contains(name, "..") {
		return &NameError{Name: name, Reason: `contains ".."`}
	}
	return nil
}

// ValidatePrefix rejects bundle prefixes with backslashes or ".." segments.
// Forward slashes are allowed; a prefix may name nested directories.
func ValidatePrefix(prefix string) error {
	if strings.Contains(prefix, `\`) {
		return &NameError{Name: prefix, Reason: "prefix contains a backslash"}
	}
	for _, seg := range strings.Split(prefix, "/") {
		if seg == ".." {
			return &NameError{Name: prefix, Reason: `prefix contains a ".." segment`}
		}
	}
	return nil
}
