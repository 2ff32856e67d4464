package cmd

import (
	"context"
	"fmt"

	"github.com/aaearon/copilot-costs/internal/config"
	"github.com/spf13/cobra"
)

// newCostCentersCommand creates the create-cost-centers cobra command with
// the given RunE.
func newCostCentersCommand(runFn func(*cobra.Command, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "create-cost-centers",
		Short: "Create the two cost centers if they don't exist",
		Long: `Create the no-PRUs and PRUs-allowed cost centers in the enterprise,
resolving name conflicts to the existing active cost center. Creation is
idempotent; re-running prints the same IDs.

Example:
  copilot-costs create-cost-centers`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runFn,
	}
}

// NewCostCentersCommand creates the production create-cost-centers command.
func NewCostCentersCommand() *cobra.Command {
	return newCostCentersCommand(func(cmd *cobra.Command, args []string) error {
		cfg, client, err := bootstrap()
		if err != nil {
			return err
		}
		return runCostCenters(cmd, cfg, client)
	})
}

// NewCostCentersCommandWithDeps creates a create-cost-centers command with
// injected dependencies for testing.
func NewCostCentersCommandWithDeps(cfg *config.Config, ensurer costCenterEnsurer) *cobra.Command {
	return newCostCentersCommand(func(cmd *cobra.Command, args []string) error {
		return runCostCenters(cmd, cfg, ensurer)
	})
}

func runCostCenters(cmd *cobra.Command, cfg *config.Config, ensurer costCenterEnsurer) error {
	ids, err := ensurer.EnsureCostCenters(context.Background(), cfg.CostCenters.NoPRUsName, cfg.CostCenters.PRUsAllowedName)
	if err != nil {
		return fmt.Errorf("failed to create cost centers: %w", err)
	}

	out := cmd.OutOrStdout()
	if isJSONOutput() {
		return writeJSON(out, map[string]string{
			"noPRUs":      ids.NoPRUs,
			"prusAllowed": ids.PRUsAllowed,
		})
	}

	fmt.Fprintf(out, "No PRUs cost center: %s\n", ids.NoPRUs)
	fmt.Fprintf(out, "  → %s\n", costCenterURL(cfg.GitHub.Enterprise, ids.NoPRUs))
	fmt.Fprintf(out, "PRUs allowed cost center: %s\n", ids.PRUsAllowed)
	fmt.Fprintf(out, "  → %s\n", costCenterURL(cfg.GitHub.Enterprise, ids.PRUsAllowed))
	fmt.Fprintln(out, "\nUpdate your config with these IDs (or keep auto_create enabled).")

	return nil
}
