package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	artifactsFlags crateFlags
	artifactsJSON  bool
)

func init() {
	addCrateFlags(artifactsCmd.Flags(), &artifactsFlags)
	addCopyFlags(artifactsCmd.Flags())
	artifactsCmd.Flags().BoolVar(&artifactsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(artifactsCmd)
}

// artifactEntry is one artifact with its copy destination name.
type artifactEntry struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	CopyName string `json:"copy_name"`
}

var artifactsCmd = &cobra.Command{
	Use:   "artifacts [crate-path]",
	Short: "List the artifacts a build produces",
	Long:  `Print the library and executable paths cargo will produce for the crate, and the file name each gets when copied.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCrate(cmd, args, &artifactsFlags)
		if err != nil {
			return err
		}

		var entries []artifactEntry
		for _, a := range c.Artifacts() {
			entries = append(entries, artifactEntry{
				Kind:     string(a.Kind),
				Name:     a.Name,
				Path:     a.Path,
				CopyName: c.CopyName(a),
			})
		}

		out := cmd.OutOrStdout()
		if artifactsJSON {
			if entries == nil {
				entries = []artifactEntry{}
			}
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(entries) == 0 {
			fmt.Fprintf(out, "Crate %s produces no cdylib or executable.\n", c.PackageName())
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAME\tPATH\tCOPY AS")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Kind, e.Name, e.Path, e.CopyName)
		}
		return w.Flush()
	},
}
