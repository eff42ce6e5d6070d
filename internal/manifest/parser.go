package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ParseCargo reads, validates and decodes the Cargo.toml at path.
// Schema violations are returned as *FieldError values joined into one
// error.
func ParseCargo(path string) (*Cargo, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCargoBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return c, nil
}

// ParseCargoBytes validates and decodes Cargo.toml content.
func ParseCargoBytes(data []byte) (*Cargo, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		fieldErrs := result.Errors()
		if len(fieldErrs) == 0 {
			return nil, fmt.Errorf("schema validation failed: %s", result.Issues[0].Message)
		}
		errs := make([]error, len(fieldErrs))
		for i, fe := range fieldErrs {
			errs[i] = fe
		}
		return nil, errors.Join(errs...)
	}

	var c Cargo
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding TOML: %w", err)
	}
	return &c, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
