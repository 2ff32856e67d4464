package cmd

import (
	"context"
	"fmt"

	"github.com/aaearon/copilot-costs/internal/config"
	"github.com/aaearon/copilot-costs/internal/costcenter"
	"github.com/spf13/cobra"
)

// newSummaryCommand creates the summary cobra command with the given RunE.
func newSummaryCommand(runFn func(*cobra.Command, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Report the desired cost center distribution",
		Long: `Classify every Copilot license holder and report how many land in each
cost center, without mutating anything.

Examples:
  copilot-costs summary
  copilot-costs summary --output json`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runFn,
	}
}

// NewSummaryCommand creates the production summary command.
func NewSummaryCommand() *cobra.Command {
	return newSummaryCommand(func(cmd *cobra.Command, args []string) error {
		cfg, client, err := bootstrap()
		if err != nil {
			return err
		}
		return runSummary(cmd, cfg, client)
	})
}

// NewSummaryCommandWithDeps creates a summary command with injected
// dependencies for testing.
func NewSummaryCommandWithDeps(cfg *config.Config, seats seatLister) *cobra.Command {
	return newSummaryCommand(func(cmd *cobra.Command, args []string) error {
		return runSummary(cmd, cfg, seats)
	})
}

func runSummary(cmd *cobra.Command, cfg *config.Config, seatSource seatLister) error {
	seats, err := seatSource.ListSeats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch copilot seats: %w", err)
	}

	planner := costcenter.NewPlanner(cfg.CostCenters.NoPRUsID, cfg.CostCenters.PRUsAllowedID, cfg.CostCenters.ExceptionUsers)
	for i := range seats {
		planner.Classify(&seats[i])
	}
	stats := planner.Stats(seats)

	out := cmd.OutOrStdout()
	if isJSONOutput() {
		return writeJSON(out, stats)
	}

	fmt.Fprintln(out, "=== Cost Center Summary ===")
	fmt.Fprintf(out, "Total users: %d\n", stats.TotalSeats)
	fmt.Fprintf(out, "%s: %d users\n", stats.NoPRUsCostCenter, len(stats.NoPRUsLogins))
	fmt.Fprintf(out, "%s: %d users\n", stats.PRUsAllowedCenter, len(stats.PRUsAllowedLogins))
	fmt.Fprintf(out, "Configured exceptions: %d (matched: %d)\n", stats.ConfiguredExceptions, stats.ActualExceptions)

	return nil
}
