package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildFlags crateFlags

func init() {
	addCrateFlags(buildCmd.Flags(), &buildFlags)
	addCopyFlags(buildCmd.Flags())
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build [crate-path] [-- cargo-args...]",
	Short: "Build a crate and copy its artifacts",
	Long: `Run "cargo build" for the crate (default: the current directory) and copy
the produced cdylib and executables into the copy directory, if one is
configured. Flat layouts name files {lib}{name}-{os}-{arch}{suffix}; with
--copy-with-platform-dir files keep cargo's names under {os}-{arch}/.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCrate(cmd, args, &buildFlags)
		if err != nil {
			return err
		}
		if err := c.Build(cmd.Context()); err != nil {
			return err
		}

		copied, err := c.CopyArtifacts()
		if err != nil {
			return err
		}
		for _, path := range copied {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}
