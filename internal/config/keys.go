package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/cargonative/internal/branding"
	"github.com/agentx-labs/cargonative/internal/crate"
	"github.com/agentx-labs/cargonative/internal/toolchain"
	"github.com/spf13/viper"
)

// Keys understood by BuildParams and the CLI.
const (
	KeyCargoPath           = "cargo_path"
	KeyTargetDir           = "target_dir"
	KeyRelease             = "release"
	KeyFeatures            = "features"
	KeyAllFeatures         = "all_features"
	KeyNoDefaultFeatures   = "no_default_features"
	KeyVerbosity           = "verbosity"
	KeyTests               = "tests"
	KeyExtraArgs           = "extra_args"
	KeyEnv                 = "env"
	KeyCopyTo              = "copy_to"
	KeyCopyWithPlatformDir = "copy_with_platform_dir"
	KeyTmpDir              = "tmp_dir"
	KeyMinCargoVersion     = "min_cargo_version"
)

// DefaultTargetDir is the target root used when none is configured,
// relative to the working directory.
var DefaultTargetDir = filepath.Join("target", branding.TargetSubdir())

func setDefaults() {
	viper.SetDefault(KeyCargoPath, toolchain.DefaultTool)
	viper.SetDefault(KeyTargetDir, DefaultTargetDir)
}

// BuildParams snapshots the effective settings into crate parameters. A
// malformed env entry is an error.
func BuildParams() (crate.Params, error) {
	env, err := ParseEnv(viper.GetStringSlice(KeyEnv))
	if err != nil {
		return crate.Params{}, fmt.Errorf("config key %s: %w", KeyEnv, err)
	}
	return crate.Params{
		Verbosity:           viper.GetString(KeyVerbosity),
		Env:                 env,
		CargoPath:           viper.GetString(KeyCargoPath),
		Release:             viper.GetBool(KeyRelease),
		Features:            splitList(viper.GetStringSlice(KeyFeatures)),
		AllFeatures:         viper.GetBool(KeyAllFeatures),
		NoDefaultFeatures:   viper.GetBool(KeyNoDefaultFeatures),
		Tests:               viper.GetBool(KeyTests),
		ExtraArgs:           viper.GetStringSlice(KeyExtraArgs),
		CopyToDir:           viper.GetString(KeyCopyTo),
		CopyWithPlatformDir: viper.GetBool(KeyCopyWithPlatformDir),
	}, nil
}

// TargetDir returns the configured target root.
func TargetDir() string {
	return viper.GetString(KeyTargetDir)
}

// TmpDir returns the configured extraction root, empty for the OS default.
func TmpDir() string {
	return viper.GetString(KeyTmpDir)
}

// MinCargoVersion returns the configured cargo version constraint.
func MinCargoVersion() string {
	return viper.GetString(KeyMinCargoVersion)
}

// ParseEnv parses "KEY=VALUE" entries. Keys keep their case; a later entry
// replaces an earlier one.
func ParseEnv(entries []string) (map[string]string, error) {
	env := make(map[string]string, len(entries))
	for _, e := range entries {
		key, value, ok := strings.Cut(e, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid environment entry %q: expected KEY=VALUE", e)
		}
		env[key] = value
	}
	return env, nil
}

// splitList expands comma-separated entries, so that a value set through
// "config set features a,b" or CARGONATIVE_FEATURES behaves like a list.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}
