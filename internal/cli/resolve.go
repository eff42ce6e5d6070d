package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agentx-labs/cargonative/internal/config"
	"github.com/agentx-labs/cargonative/internal/naming"
	"github.com/agentx-labs/cargonative/internal/platform"
	"github.com/spf13/cobra"
)

var (
	resolvePrefix      string
	resolvePlatformDir bool
	resolveTmpDir      string
	resolveOS          string
	resolveArch        string
	resolveJSON        bool
)

func init() {
	resolveCmd.Flags().StringVar(&resolvePrefix, "prefix", "", "Directory prefix inside the bundle")
	resolveCmd.Flags().BoolVar(&resolvePlatformDir, "platform-dir", false, "Use the nested {os}-{arch}/ layout")
	resolveCmd.Flags().StringVar(&resolveTmpDir, "tmp-dir", "", "Extraction root (default: config tmp_dir or the OS temp dir)")
	resolveCmd.Flags().StringVar(&resolveOS, "os", "", "Target operating system (default: current)")
	resolveCmd.Flags().StringVar(&resolveArch, "arch", "", "Target architecture (default: current)")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>",
	Short: "Show the file names derived for a library",
	Long: `Print the platform load name, the path inside a bundle and the extraction
path the loader uses for a logical library name such as "my-lib".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		namer := naming.New(targetPlatform(resolveOS, resolveArch))

		resolved, err := namer.Resolve(tmpDir(resolveTmpDir), resolvePrefix, args[0], resolvePlatformDir)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if resolveJSON {
			data, err := json.MarshalIndent(map[string]string{
				"platform":      namer.Platform.Tag(),
				"load_name":     resolved.LoadName,
				"resource_path": resolved.ResourcePath,
				"cache_path":    resolved.CachePath,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Platform:      %s\n", namer.Platform.Tag())
		fmt.Fprintf(out, "Load name:     %s\n", resolved.LoadName)
		fmt.Fprintf(out, "Resource path: %s\n", resolved.ResourcePath)
		fmt.Fprintf(out, "Cache path:    %s\n", resolved.CachePath)
		return nil
	},
}

// targetPlatform returns the current platform with any overrides applied.
func targetPlatform(osName, arch string) platform.Identity {
	id := platform.Current()
	if osName == "" && arch == "" {
		return id
	}
	if osName != "" {
		id.OS = platform.Classify(osName)
	}
	if arch != "" {
		id.Arch = platform.NormalizeArch(arch)
	}
	return id
}

// tmpDir picks the flag value, then config, then the OS temp dir.
func tmpDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if dir := config.TmpDir(); dir != "" {
		return dir
	}
	return os.TempDir()
}
