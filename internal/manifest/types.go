package manifest

import "slices"

// Cargo is the typed view of a validated Cargo.toml.
type Cargo struct {
	Package Package `toml:"package" json:"package"`
	Lib     *Lib    `toml:"lib,omitempty" json:"lib,omitempty"`
	Bin     []Bin   `toml:"bin,omitempty" json:"bin,omitempty"`
}

// Package is the [package] table.
type Package struct {
	Name string `toml:"name" json:"name"`
}

// Lib is the [lib] table. Name is nil when the table does not set one.
type Lib struct {
	Name            *string  `toml:"name,omitempty" json:"name,omitempty"`
	CrateType       []string `toml:"crate-type,omitempty" json:"crate-type,omitempty"`
	LegacyCrateType []string `toml:"crate_type,omitempty" json:"crate_type,omitempty"`
}

// HasCrateType reports whether kind appears under either spelling of the
// crate type key.
func (l *Lib) HasCrateType(kind string) bool {
	if l == nil {
		return false
	}
	return slices.Contains(l.CrateType, kind) || slices.Contains(l.LegacyCrateType, kind)
}

// Bin is one [[bin]] entry.
type Bin struct {
	Name string  `toml:"name" json:"name"`
	Path *string `toml:"path,omitempty" json:"path,omitempty"`
}
