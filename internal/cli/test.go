package cli

import (
	"github.com/spf13/cobra"
)

var (
	testFlags crateFlags
	skipTests bool
)

func init() {
	addCrateFlags(testCmd.Flags(), &testFlags)
	testCmd.Flags().BoolVar(&skipTests, "skip-tests", false, "Skip running cargo test")
	rootCmd.AddCommand(testCmd)
}

var testCmd = &cobra.Command{
	Use:   "test [crate-path] [-- cargo-args...]",
	Short: "Run cargo test for a crate",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if skipTests {
			log.Infof("Skipping tests")
			return nil
		}
		c, err := openCrate(cmd, args, &testFlags)
		if err != nil {
			return err
		}
		return c.Test(cmd.Context())
	},
}
