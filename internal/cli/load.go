package cli

import (
	"fmt"
	"io/fs"

	"github.com/agentx-labs/cargonative/internal/bundle"
	"github.com/agentx-labs/cargonative/internal/config"
	"github.com/agentx-labs/cargonative/internal/loader"
	"github.com/spf13/cobra"
)

var (
	loadBundle      string
	loadPrefix      string
	loadPlatformDir bool
	loadTmpDir      string
)

func init() {
	loadCmd.Flags().StringVar(&loadBundle, "bundle", "", "Directory or archive (.zip, .jar, .tar, .tar.gz, .tar.xz) holding the library (default: the executable's directory)")
	loadCmd.Flags().StringVar(&loadPrefix, "prefix", "", "Directory prefix inside the bundle")
	loadCmd.Flags().BoolVar(&loadPlatformDir, "platform-dir", false, "Use the nested {os}-{arch}/ layout")
	loadCmd.Flags().StringVar(&loadTmpDir, "tmp-dir", "", "Extraction root (default: config tmp_dir or the OS temp dir)")
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Load a native library into this process",
	Long: `Try the system library search path first, then extract the library from the
bundle into the extraction root and load it from there. Useful to verify that
a bundle layout and the current platform agree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		var resources fs.FS
		if loadBundle != "" {
			b, err := bundle.Open(loadBundle)
			if err != nil {
				return err
			}
			defer b.Close()
			resources = b
		}

		l := loader.New(loader.WithLogger(log), loader.WithTempDir(tmpDir(loadTmpDir)))
		outcome, err := l.LoadLibrary(loader.Request{
			Name:            args[0],
			Prefix:          loadPrefix,
			WithPlatformDir: loadPlatformDir,
			Resources:       resources,
		})
		if err != nil {
			return err
		}

		switch outcome {
		case loader.SystemLoaded:
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s from the system library path\n", args[0])
		case loader.ExtractedAndLoaded:
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s from the bundle\n", args[0])
		}
		return nil
	},
}
