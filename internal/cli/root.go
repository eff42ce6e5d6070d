package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/agentx-labs/cargonative/internal/branding"
	"github.com/agentx-labs/cargonative/internal/logging"
	"github.com/agentx-labs/cargonative/internal/toolchain"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	quiet bool
	debug bool

	// log is configured from --quiet/--debug before any command runs.
	log logging.Logger = logging.Nop()

	// checker is shared by every cargo invocation of one CLI run.
	checker = toolchain.NewChecker()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` builds Rust crates with cargo, copies the produced native libraries
and executables into platform-tagged bundle layouts, and loads those libraries back at run time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = newLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print warnings and errors")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print debug output")
}

func newLogger() logging.Logger {
	level := logging.LevelInfo
	switch {
	case debug:
		level = logging.LevelDebug
	case quiet:
		level = logging.LevelWarn
	}
	return logging.New(os.Stderr, level)
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel the running command's context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
