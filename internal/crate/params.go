package crate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidVerbosity is returned for a verbosity other than "", "-q", "-v"
// or "-vv".
var ErrInvalidVerbosity = errors.New("invalid verbosity")

// Params configures cargo invocations and artifact copying.
type Params struct {
	// Verbosity is passed to cargo as-is: "", "-q", "-v" or "-vv".
	Verbosity string
	// Env overrides are applied on top of the inherited environment.
	Env map[string]string
	// CargoPath is the cargo executable; "cargo" from PATH when empty.
	CargoPath string
	Release   bool
	// Features may contain blank entries; see CleanedFeatures.
	Features          []string
	AllFeatures       bool
	NoDefaultFeatures bool
	// Tests adds --tests.
	Tests bool
	// ExtraArgs are appended after all generated arguments.
	ExtraArgs []string
	// CopyToDir receives artifacts after a build. Empty disables copying.
	CopyToDir string
	// CopyWithPlatformDir copies into CopyToDir/{os}-{arch}.
	CopyWithPlatformDir bool
}

// CleanedFeatures returns the features trimmed, without empty entries and
// without repeats, in their original order.
func (p Params) CleanedFeatures() []string {
	var cleaned []string
	seen := make(map[string]bool)
	for _, f := range p.Features {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		cleaned = append(cleaned, f)
	}
	return cleaned
}

// Validate checks the parameters that cargo would otherwise reject late.
func (p Params) Validate() error {
	switch p.Verbosity {
	case "", "-q", "-v", "-vv":
		return nil
	}
	return fmt.Errorf("%w %q: expected one of -q, -v, -vv", ErrInvalidVerbosity, p.Verbosity)
}
