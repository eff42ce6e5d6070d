package cli

import (
	"fmt"

	"github.com/agentx-labs/cargonative/internal/config"
	"github.com/agentx-labs/cargonative/internal/crate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// crateFlags holds the flags shared by commands that run cargo.
type crateFlags struct {
	env       []string
	extraArgs []string
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"cargo-path":             config.KeyCargoPath,
	"target-dir":             config.KeyTargetDir,
	"release":                config.KeyRelease,
	"features":               config.KeyFeatures,
	"all-features":           config.KeyAllFeatures,
	"no-default-features":    config.KeyNoDefaultFeatures,
	"verbosity":              config.KeyVerbosity,
	"tests":                  config.KeyTests,
	"copy-to":                config.KeyCopyTo,
	"copy-with-platform-dir": config.KeyCopyWithPlatformDir,
}

func addCrateFlags(fs *pflag.FlagSet, cf *crateFlags) {
	fs.String("cargo-path", "", "Cargo executable (default \"cargo\" from PATH)")
	fs.String("target-dir", "", "Root directory for cargo build output")
	fs.Bool("release", false, "Build with the release profile")
	fs.StringSlice("features", nil, "Cargo features to enable (repeatable, comma-separated)")
	fs.Bool("all-features", false, "Enable all cargo features")
	fs.Bool("no-default-features", false, "Disable default cargo features")
	fs.String("verbosity", "", "Cargo verbosity: -q, -v or -vv")
	fs.Bool("tests", false, "Pass --tests to cargo")
	fs.StringArrayVar(&cf.env, "env", nil, "Environment variable KEY=VALUE for cargo (repeatable)")
	fs.StringArrayVar(&cf.extraArgs, "extra-arg", nil, "Extra argument appended to the cargo command (repeatable)")
}

func addCopyFlags(fs *pflag.FlagSet) {
	fs.String("copy-to", "", "Directory to copy built artifacts into")
	fs.Bool("copy-with-platform-dir", false, "Copy into an {os}-{arch} subdirectory")
}

// bindFlags binds the command's own flags to their config keys. Binding
// happens per run because several commands define the same flag names.
func bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// splitDashArgs separates positional arguments from the arguments after
// "--", which are passed to cargo unchanged.
func splitDashArgs(cmd *cobra.Command, args []string) ([]string, []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}

// openCrate resolves configuration for the crate named by args and loads it.
func openCrate(cmd *cobra.Command, args []string, cf *crateFlags) (*crate.Crate, error) {
	positional, passthrough := splitDashArgs(cmd, args)
	dir := "."
	if len(positional) > 0 {
		dir = positional[0]
	}

	config.Load()
	if err := config.LoadProject(dir); err != nil {
		return nil, err
	}
	if err := bindFlags(cmd); err != nil {
		return nil, err
	}

	params, err := config.BuildParams()
	if err != nil {
		return nil, err
	}
	flagEnv, err := config.ParseEnv(cf.env)
	if err != nil {
		return nil, err
	}
	if len(flagEnv) > 0 && params.Env == nil {
		params.Env = make(map[string]string, len(flagEnv))
	}
	for k, v := range flagEnv {
		params.Env[k] = v
	}
	if len(cf.extraArgs) > 0 {
		params.ExtraArgs = cf.extraArgs
	}
	params.ExtraArgs = append(params.ExtraArgs, passthrough...)

	return crate.New(dir, config.TargetDir(), params,
		crate.WithChecker(checker),
		crate.WithLogger(log),
	)
}
