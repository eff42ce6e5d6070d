// Package branding provides compile-time identity values for the CLI.
//
// The values come from branding.yaml, embedded at build time, overlaid on
// hard defaults so a missing or empty file still yields a working binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	ProjectFile  string `yaml:"project_file"`
	TargetSubdir string `yaml:"target_subdir"`
	InstallURL   string `yaml:"install_url"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:      "cargonative",
			DisplayName:  "cargonative",
			Description:  "Build Rust crates and provision their native artifacts",
			HomeDir:      ".cargonative",
			EnvPrefix:    "CARGONATIVE",
			ProjectFile:  "cargonative.yaml",
			TargetSubdir: "cargonative",
			InstallURL:   "https://www.rust-lang.org/tools/install",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "cargonative").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".cargonative").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "CARGONATIVE").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ProjectFile returns the per-crate override file name (e.g., "cargonative.yaml").
func ProjectFile() string { load(); return defaults.ProjectFile }

// TargetSubdir returns the directory name used under a build directory
// when no explicit target root is configured.
func TargetSubdir() string { load(); return defaults.TargetSubdir }

// InstallURL returns the toolchain installation pointer shown in diagnostics.
func InstallURL() string { load(); return defaults.InstallURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "CARGONATIVE_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
