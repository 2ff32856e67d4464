package cmd

import (
	"bytes"

	"github.com/aaearon/copilot-costs/internal/config"
	"github.com/aaearon/copilot-costs/internal/github"
	"github.com/spf13/cobra"
)

// executeCommand runs a command with the given args and returns its
// combined output.
func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// testConfig returns a valid configuration for command tests: alice is the
// only exception user.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.GitHub.Enterprise = "acme"
	cfg.GitHub.Token = "token"
	cfg.CostCenters.NoPRUsID = "cc-no-prus"
	cfg.CostCenters.PRUsAllowedID = "cc-prus-allowed"
	cfg.CostCenters.ExceptionUsers = []string{"alice"}
	return cfg
}

// seatWithCreation builds a Seat with a creation timestamp.
func seatWithCreation(login, createdAt string) github.Seat {
	seat := github.Seat{Login: login}
	if createdAt != "" {
		seat.CreatedAt = &createdAt
	}
	return seat
}
