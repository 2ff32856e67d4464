package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/aaearon/copilot-costs/internal/checkpoint"
	"github.com/aaearon/copilot-costs/internal/config"
	"github.com/aaearon/copilot-costs/internal/costcenter"
	"github.com/aaearon/copilot-costs/internal/github"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// assignFlags holds the command-line flags for the assign command.
type assignFlags struct {
	mode              string
	yes               bool
	incremental       bool
	users             string
	createCostCenters bool
}

// planOutput is the JSON representation of a plan-mode run.
type planOutput struct {
	Mode   string      `json:"mode"`
	Total  int         `json:"total"`
	Groups []planGroup `json:"groups"`
}

type planGroup struct {
	CostCenter string   `json:"costCenter"`
	Count      int      `json:"count"`
	Logins     []string `json:"logins"`
}

// newAssignCommand creates the assign cobra command with the given RunE.
func newAssignCommand(runFn func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Compute and optionally apply cost center assignments",
		Long: `Compute the desired cost center grouping for every Copilot license
holder and, in apply mode, push it to GitHub Enterprise.

The full desired state is pushed on every apply; assignments made manually
in the billing console are overwritten.

Examples:
  # Plan only (default): show the grouping, change nothing
  copilot-costs assign

  # Apply with an interactive confirmation prompt
  copilot-costs assign --mode apply

  # Apply without a prompt, creating the cost centers if needed
  copilot-costs assign --mode apply --yes --create-cost-centers

  # Only seats created since the last successful apply run
  copilot-costs assign --mode apply --incremental --yes

  # Restrict to specific logins
  copilot-costs assign --users alice,bob`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runFn,
	}

	cmd.Flags().String("mode", "plan", "execution mode: plan (no changes) or apply")
	cmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt in apply mode")
	cmd.Flags().Bool("incremental", false, "only process seats created since the last apply run")
	cmd.Flags().String("users", "", "comma-separated list of logins to restrict processing to")
	cmd.Flags().Bool("create-cost-centers", false, "create the two cost centers if they don't exist")

	return cmd
}

func assignFlagsFrom(cmd *cobra.Command) *assignFlags {
	flags := &assignFlags{}
	flags.mode, _ = cmd.Flags().GetString("mode")
	flags.yes, _ = cmd.Flags().GetBool("yes")
	flags.incremental, _ = cmd.Flags().GetBool("incremental")
	flags.users, _ = cmd.Flags().GetString("users")
	flags.createCostCenters, _ = cmd.Flags().GetBool("create-cost-centers")
	return flags
}

// NewAssignCommand creates the production assign command.
func NewAssignCommand() *cobra.Command {
	return newAssignCommand(func(cmd *cobra.Command, args []string) error {
		cfg, client, err := bootstrap()
		if err != nil {
			return err
		}

		checkpoints := checkpoint.NewStore(cfg.Export.Directory)
		return runAssign(cmd, assignFlagsFrom(cmd), cfg, client, client, client, &uiConfirmPrompter{}, checkpoints)
	})
}

// NewAssignCommandWithDeps creates an assign command with injected
// dependencies for testing.
func NewAssignCommandWithDeps(
	cfg *config.Config,
	seats seatLister,
	ensurer costCenterEnsurer,
	assigner bulkAssigner,
	prompter confirmPrompter,
	checkpoints checkpointStore,
) *cobra.Command {
	return newAssignCommand(func(cmd *cobra.Command, args []string) error {
		return runAssign(cmd, assignFlagsFrom(cmd), cfg, seats, ensurer, assigner, prompter, checkpoints)
	})
}

func runAssign(
	cmd *cobra.Command,
	flags *assignFlags,
	cfg *config.Config,
	seatSource seatLister,
	ensurer costCenterEnsurer,
	assigner bulkAssigner,
	prompter confirmPrompter,
	checkpoints checkpointStore,
) error {
	if flags.mode != "plan" && flags.mode != "apply" {
		return fmt.Errorf("%w: %q", errInvalidMode, flags.mode)
	}
	applyMode := flags.mode == "apply"
	incremental := flags.incremental || cfg.CostCenters.Incremental
	autoCreate := flags.createCostCenters || cfg.CostCenters.AutoCreate

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if !isJSONOutput() {
		printConfigSummary(out, cfg)
	}

	// Fetch all seats. Any fetch failure is fatal for the run.
	seats, err := seatSource.ListSeats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch copilot seats: %w", err)
	}
	totalSeats := len(seats)

	if incremental {
		if lastRun, ok := checkpoints.Load(); ok {
			seats = github.FilterCreatedAfter(seats, lastRun, logger)
			logger.Info("incremental mode: filtered seats by creation time",
				zap.Time("since", lastRun),
				zap.Int("kept", len(seats)),
				zap.Int("total", totalSeats),
			)

			if len(seats) == 0 {
				fmt.Fprintln(out, "No new seats since last run - nothing to process.")
				if applyMode {
					if _, err := checkpoints.Save(); err != nil {
						logger.Warn("failed to save run checkpoint", zap.Error(err))
					}
				}
				return nil
			}
		} else {
			logger.Info("incremental mode: no previous run checkpoint, processing all seats")
		}
	}

	planner := costcenter.NewPlanner(cfg.CostCenters.NoPRUsID, cfg.CostCenters.PRUsAllowedID, cfg.CostCenters.ExceptionUsers)

	if autoCreate {
		if applyMode {
			ids, err := ensurer.EnsureCostCenters(ctx, cfg.CostCenters.NoPRUsName, cfg.CostCenters.PRUsAllowedName)
			if err != nil {
				return fmt.Errorf("failed to create required cost centers: %w", err)
			}
			planner = costcenter.NewPlanner(ids.NoPRUs, ids.PRUsAllowed, cfg.CostCenters.ExceptionUsers)
		} else {
			fmt.Fprintf(out, "Would create cost centers if absent: %q, %q\n",
				cfg.CostCenters.NoPRUsName, cfg.CostCenters.PRUsAllowedName)
		}
	}

	if flags.users != "" {
		subset := splitUsersFlag(flags.users)
		seats = filterSeatsByLogin(seats, subset)
		logger.Info("restricted to explicit user subset", zap.Int("kept", len(seats)))
	}

	groups := planner.PlanGroups(seats)

	if !applyMode {
		return reportPlan(out, seats, groups)
	}

	printGroupCounts(out, seats, groups)

	// Confirmation gate: mutations require the literal phrase unless --yes.
	if !flags.yes {
		fmt.Fprintln(out, "\nYou are about to APPLY cost center assignments to GitHub Enterprise.")
		fmt.Fprintln(out, "This pushes assignments for ALL processed users (no diff against current state).")

		confirmed, err := prompter.ConfirmApply()
		if err != nil {
			return err
		}
		if !confirmed {
			logger.Warn("aborted by user before applying assignments")
			fmt.Fprintln(out, "Aborted. No changes were made.")
			return nil
		}
	}

	result := assigner.BulkAssign(ctx, groups)
	reportAssignmentResult(out, result)

	if incremental {
		savedAt, err := checkpoints.Save()
		if err != nil {
			logger.Warn("failed to save run checkpoint", zap.Error(err))
		} else {
			logger.Info("saved run checkpoint", zap.Time("last_run", savedAt))
		}
	}

	return nil
}

// reportPlan renders a plan-mode run: the desired grouping, no mutation.
func reportPlan(out io.Writer, seats []github.Seat, groups []github.Group) error {
	if isJSONOutput() {
		plan := planOutput{Mode: "plan", Total: len(seats)}
		for _, group := range groups {
			plan.Groups = append(plan.Groups, planGroup{
				CostCenter: group.CostCenterID,
				Count:      len(group.Logins),
				Logins:     group.Logins,
			})
		}
		return writeJSON(out, plan)
	}

	printGroupCounts(out, seats, groups)
	fmt.Fprintln(out, "\nPlan mode - no changes were made. Re-run with --mode apply to push assignments.")
	return nil
}

func printGroupCounts(out io.Writer, seats []github.Seat, groups []github.Group) {
	fmt.Fprintln(out, "\n=== Assignment Summary ===")
	for _, group := range groups {
		fmt.Fprintf(out, "%s: %d users\n", group.CostCenterID, len(group.Logins))
	}
	fmt.Fprintf(out, "Total: %d users\n", len(seats))
}

// reportAssignmentResult renders the per-cost-center breakdown and the
// aggregate tally. Partial failures are reported, not fatal.
func reportAssignmentResult(out io.Writer, result github.AssignmentResult) {
	fmt.Fprintln(out, "\n=== Assignment Results ===")
	costCenterIDs := make([]string, 0, len(result.PerCostCenter))
	for id := range result.PerCostCenter {
		costCenterIDs = append(costCenterIDs, id)
	}
	sort.Strings(costCenterIDs)

	for _, costCenterID := range costCenterIDs {
		logins := result.PerCostCenter[costCenterID]
		succeeded := 0
		for _, ok := range logins {
			if ok {
				succeeded++
			}
		}
		fmt.Fprintf(out, "%s: %d/%d users assigned\n", costCenterID, succeeded, len(logins))

		if failed := result.FailedLogins(costCenterID); len(failed) > 0 {
			for _, login := range failed {
				fmt.Fprintf(out, "  failed: %s\n", login)
			}
		}
	}

	if result.Failed > 0 {
		fmt.Fprintf(out, "FINAL RESULT: %d/%d users successfully assigned (%d failed)\n",
			result.Succeeded, result.Attempted, result.Failed)
	} else {
		fmt.Fprintf(out, "FINAL RESULT: all %d users successfully assigned\n", result.Succeeded)
	}
}
