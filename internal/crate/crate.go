package crate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/cargonative/internal/logging"
	"github.com/agentx-labs/cargonative/internal/manifest"
	"github.com/agentx-labs/cargonative/internal/naming"
	"github.com/agentx-labs/cargonative/internal/toolchain"
)

// ArtifactKind distinguishes shared libraries from executables.
type ArtifactKind string

const (
	Library    ArtifactKind = "library"
	Executable ArtifactKind = "executable"
)

// Artifact is one file cargo is expected to produce.
type Artifact struct {
	Kind ArtifactKind `json:"kind"`
	Name string       `json:"name"`
	Path string       `json:"path"`
}

// Crate controls cargo tasks on one crate directory.
type Crate struct {
	root      string
	targetDir string
	params    Params
	cargo     *manifest.Cargo
	namer     naming.Namer
	checker   *toolchain.Checker
	log       logging.Logger
}

// Option configures a Crate.
type Option func(*Crate)

// WithNamer overrides the platform naming rules.
func WithNamer(n naming.Namer) Option {
	return func(c *Crate) { c.namer = n }
}

// WithChecker shares a toolchain availability cache.
func WithChecker(ch *toolchain.Checker) Option {
	return func(c *Crate) { c.checker = ch }
}

// WithLogger sets the logger for commands, cargo output and copies.
func WithLogger(log logging.Logger) Option {
	return func(c *Crate) { c.log = log }
}

// New loads the crate at root. Build output goes to
// targetRoot/{base name of root}.
func New(root, targetRoot string, params Params, opts ...Option) (*Crate, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tomlPath := filepath.Join(root, "Cargo.toml")
	if _, err := os.Lstat(tomlPath); err != nil {
		return nil, fmt.Errorf("Cargo.toml file expected under: %s", root)
	}
	cargo, err := manifest.ParseCargo(tomlPath)
	if err != nil {
		return nil, err
	}

	c := &Crate{
		root:      root,
		targetDir: filepath.Join(targetRoot, filepath.Base(root)),
		params:    params,
		cargo:     cargo,
		namer:     naming.ForCurrent(),
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.checker == nil {
		c.checker = toolchain.NewChecker()
	}
	return c, nil
}

// Root returns the crate directory.
func (c *Crate) Root() string { return c.root }

// TargetDir returns the cargo --target-dir for this crate.
func (c *Crate) TargetDir() string { return c.targetDir }

// PackageName returns package.name from Cargo.toml.
func (c *Crate) PackageName() string { return c.cargo.Package.Name }

// Profile returns the cargo output profile directory name.
func (c *Crate) Profile() string {
	if c.params.Release {
		return "release"
	}
	return "debug"
}

// LibraryName returns the cdylib name: lib.name when set, otherwise the
// package name if the crate type includes cdylib.
func (c *Crate) LibraryName() (string, bool) {
	lib := c.cargo.Lib
	if lib != nil && lib.Name != nil {
		return *lib.Name, true
	}
	if lib.HasCrateType("cdylib") {
		return c.cargo.Package.Name, true
	}
	return "", false
}

// ExecutableNames returns the binary targets in cargo's order. The default
// binary (src/main.rs, named after the package) comes first; a [[bin]]
// entry with path src/main.rs renames it.
func (c *Crate) ExecutableNames() []string {
	var names []string
	defaultBin := ""
	if _, err := os.Stat(filepath.Join(c.root, "src", "main.rs")); err == nil {
		defaultBin = c.cargo.Package.Name
		names = append(names, defaultBin)
	}

	for _, bin := range c.cargo.Bin {
		if bin.Path != nil && *bin.Path == "src/main.rs" {
			if defaultBin != "" {
				names[0] = bin.Name
			} else {
				names = append([]string{bin.Name}, names...)
			}
			defaultBin = bin.Name
		}
		// An entry naming the default binary only configures it.
		if bin.Name != defaultBin {
			names = append(names, bin.Name)
		}
	}
	return names
}

// Artifacts returns the files a successful build leaves in the target
// directory: the library first, then executables.
func (c *Crate) Artifacts() []Artifact {
	dir := filepath.Join(c.targetDir, c.Profile())

	var artifacts []Artifact
	if lib, ok := c.LibraryName(); ok {
		artifacts = append(artifacts, Artifact{
			Kind: Library,
			Name: lib,
			Path: filepath.Join(dir, c.namer.CanonicalLoadName(lib)),
		})
	}
	for _, bin := range c.ExecutableNames() {
		artifacts = append(artifacts, Artifact{
			Kind: Executable,
			Name: bin,
			Path: filepath.Join(dir, c.namer.ExecutableName(bin)),
		})
	}
	return artifacts
}

// Build runs "cargo build".
func (c *Crate) Build(ctx context.Context) error {
	return c.cargoCmd(ctx, "build")
}

// Test runs "cargo test".
func (c *Crate) Test(ctx context.Context) error {
	return c.cargoCmd(ctx, "test")
}

func (c *Crate) cargoCmd(ctx context.Context, subcommand string) error {
	args, err := c.Args(subcommand)
	if err != nil {
		return err
	}
	inv := &toolchain.Invoker{
		ToolPath: c.params.CargoPath,
		Dir:      c.root,
		Env:      c.params.Env,
		Checker:  c.checker,
		Log:      c.log,
	}
	return inv.Run(ctx, args...)
}

// Args returns the full cargo argument list for subcommand.
func (c *Crate) Args(subcommand string) ([]string, error) {
	targetDir, err := filepath.Abs(c.targetDir)
	if err != nil {
		return nil, fmt.Errorf("resolving target dir: %w", err)
	}

	args := []string{subcommand}
	if c.params.Verbosity != "" {
		args = append(args, c.params.Verbosity)
	}
	args = append(args, "--target-dir", targetDir)
	if c.params.Release {
		args = append(args, "--release")
	}
	if c.params.AllFeatures {
		args = append(args, "--all-features")
	}
	if c.params.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if features := c.params.CleanedFeatures(); len(features) > 0 {
		args = append(args, "--features", strings.Join(features, ","))
	}
	if c.params.Tests {
		args = append(args, "--tests")
	}
	return append(args, c.params.ExtraArgs...), nil
}
