package cli

import (
	"fmt"
	"io"

	"github.com/agentx-labs/cargonative/internal/config"
	"github.com/agentx-labs/cargonative/internal/manifest"
	"github.com/agentx-labs/cargonative/internal/naming"
	"github.com/agentx-labs/cargonative/internal/platform"
	"github.com/agentx-labs/cargonative/internal/toolchain"
	"github.com/spf13/cobra"
)

var (
	doctorCargoPath string
	checkManifest   string
)

func init() {
	doctorCmd.Flags().StringVar(&doctorCargoPath, "cargo-path", "", "Cargo executable to check (default: config cargo_path)")
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a Cargo.toml at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the platform and Rust toolchain",
	Long:  `Report the detected platform naming rules and verify that cargo is installed and recent enough.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		out := cmd.OutOrStdout()

		runPlatformCheck(out)
		cargoErr := runCargoCheck(cmd, out)

		if checkManifest != "" {
			if err := runManifestCheck(out, checkManifest); err != nil {
				return err
			}
		}
		return cargoErr
	},
}

func runPlatformCheck(w io.Writer) {
	id := platform.Current()
	namer := naming.New(id)
	fmt.Fprintln(w, "Platform check:")
	fmt.Fprintf(w, "  [INFO] platform: %s\n", id.Tag())
	fmt.Fprintf(w, "  [INFO] library file: %s\n", namer.CanonicalLoadName("example"))
	fmt.Fprintf(w, "  [INFO] flat resource: %s\n", namer.ResourcePath("", "example", false))
	fmt.Fprintf(w, "  [INFO] nested resource: %s\n", namer.ResourcePath("", "example", true))
}

func runCargoCheck(cmd *cobra.Command, w io.Writer) error {
	cargoPath := doctorCargoPath
	if cargoPath == "" {
		cargoPath = config.Get(config.KeyCargoPath)
	}
	cargoPath = toolchain.ExpandHome(cargoPath)

	fmt.Fprintln(w, "Toolchain check:")
	if err := checker.Check(cmd.Context(), cargoPath); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("cargo is %s", checker.State(cargoPath))
	}

	v, err := toolchain.Version(cmd.Context(), cargoPath)
	if err != nil {
		fmt.Fprintf(w, "  [WARN] cargo installed but version unknown: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "  [ OK ] cargo %s\n", v)

	if constraint := config.MinCargoVersion(); constraint != "" {
		if err := toolchain.CheckVersion(v, constraint); err != nil {
			fmt.Fprintf(w, "  [FAIL] %v\n", err)
			return err
		}
		fmt.Fprintf(w, "  [ OK ] satisfies %s\n", constraint)
	}
	return nil
}

func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		c, err := manifest.ParseCargo(path)
		if err != nil {
			fmt.Fprintf(w, "  [ OK ] Valid manifest\n")
			return nil
		}
		fmt.Fprintf(w, "  [ OK ] Valid manifest for package %s\n", c.Package.Name)
		return nil
	}

	errs := result.Errors()
	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(errs))
	for _, fe := range errs {
		fmt.Fprintf(w, "    - %v\n", fe)
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(errs))
}
