package cmd

import (
	"context"
	"fmt"

	"github.com/aaearon/copilot-costs/internal/config"
	"github.com/aaearon/copilot-costs/internal/costcenter"
	"github.com/spf13/cobra"
)

// listOutput is the JSON representation of the list command output.
type listOutput struct {
	Total int        `json:"total"`
	Users []listUser `json:"users"`
}

// listUser is a single license holder in JSON output.
type listUser struct {
	Login     string  `json:"login"`
	Name      *string `json:"name,omitempty"`
	CreatedAt *string `json:"createdAt,omitempty"`
	Exception bool    `json:"exception"`
}

// newListCommand creates the list cobra command with the given RunE.
func newListCommand(runFn func(*cobra.Command, []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List Copilot license holders",
		Long: `List every Copilot license holder in the enterprise, marking logins on
the PRUs exception list.

Examples:
  # List all license holders
  copilot-costs list

  # Restrict to specific logins
  copilot-costs list --users alice,bob

  # JSON output for programmatic use
  copilot-costs list --output json`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runFn,
	}

	cmd.Flags().String("users", "", "comma-separated list of logins to restrict the listing to")

	return cmd
}

// NewListCommand creates the production list command.
func NewListCommand() *cobra.Command {
	return newListCommand(func(cmd *cobra.Command, args []string) error {
		cfg, client, err := bootstrap()
		if err != nil {
			return err
		}
		return runList(cmd, cfg, client)
	})
}

// NewListCommandWithDeps creates a list command with injected dependencies
// for testing.
func NewListCommandWithDeps(cfg *config.Config, seats seatLister) *cobra.Command {
	return newListCommand(func(cmd *cobra.Command, args []string) error {
		return runList(cmd, cfg, seats)
	})
}

func runList(cmd *cobra.Command, cfg *config.Config, seatSource seatLister) error {
	seats, err := seatSource.ListSeats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch copilot seats: %w", err)
	}

	if usersFlag, _ := cmd.Flags().GetString("users"); usersFlag != "" {
		seats = filterSeatsByLogin(seats, splitUsersFlag(usersFlag))
	}

	planner := costcenter.NewPlanner(cfg.CostCenters.NoPRUsID, cfg.CostCenters.PRUsAllowedID, cfg.CostCenters.ExceptionUsers)
	out := cmd.OutOrStdout()

	if isJSONOutput() {
		output := listOutput{Total: len(seats), Users: []listUser{}}
		for _, seat := range seats {
			output.Users = append(output.Users, listUser{
				Login:     seat.Login,
				Name:      seat.Name,
				CreatedAt: seat.CreatedAt,
				Exception: planner.IsException(seat.Login),
			})
		}
		return writeJSON(out, output)
	}

	fmt.Fprintln(out, "=== Copilot License Holders ===")
	fmt.Fprintf(out, "Total users: %d\n", len(seats))
	for _, seat := range seats {
		marker := ""
		if planner.IsException(seat.Login) {
			marker = " [PRUs exception]"
		}
		fmt.Fprintf(out, "- %s%s\n", seat.Login, marker)
	}

	return nil
}
