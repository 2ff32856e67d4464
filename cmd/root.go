package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	configFlag string

	// logger is replaced by a real logger in PersistentPreRunE; the nop
	// default keeps commands constructed with injected dependencies quiet
	// in tests.
	logger = zap.NewNop()
)

// newRootCommand creates the root cobra command. All persistent flag
// registration and logger setup is centralized here.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copilot-costs",
		Short: "Manage GitHub Copilot cost center assignments",
		Long: `Assign Copilot license holders in a GitHub Enterprise to one of two
billing cost centers using a simple PRUs exception model:

- Every license holder goes to the default (no PRU overages) cost center.
- Logins on the configured exception list go to the PRU-overages-allowed
  cost center.

Every apply pushes the complete desired grouping; there is no diffing
against the enterprise's current assignments.

Examples:
  # Show the desired grouping without changing anything
  copilot-costs assign

  # Push assignments (prompts for confirmation)
  copilot-costs assign --mode apply

  # Non-interactive apply of seats created since the last run
  copilot-costs assign --mode apply --incremental --yes`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path (default ~/.copilot-costs/config.yaml)")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text or json")

	return cmd
}

// initLogger builds the process logger. Verbose runs get development
// output at debug level; everything else gets production JSON at info.
func initLogger() error {
	zapCfg := zap.NewProductionConfig()
	if verbose {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = l
	return nil
}

var rootCmd = newRootCommand()

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if !verbose {
			fmt.Fprintln(os.Stderr, "Hint: re-run with --verbose for more details")
		}
		os.Exit(1)
	}
}

// errInvalidMode is returned for a --mode value other than plan or apply.
var errInvalidMode = errors.New("invalid mode: must be plan or apply")
