package cmd

import (
	"fmt"
	"strings"

	survey "github.com/Iilun/survey/v2"
	"github.com/aaearon/copilot-costs/internal/config"
	"github.com/spf13/cobra"
)

// configWriter saves a config to a path. It allows dependency injection
// for testing.
type configWriter interface {
	Save(cfg *config.Config, path string) error
}

type fileConfigWriter struct{}

func (fileConfigWriter) Save(cfg *config.Config, path string) error {
	return config.Save(cfg, path)
}

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Create the copilot-costs config file",
		Long: `Create the config file by prompting for the enterprise slug and cost
center settings.

The GitHub token is intentionally not written to the file; set it via the
GITHUB_TOKEN environment variable (github.token in the file also works if
you accept a credential on disk).`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, fileConfigWriter{}, "", "", "")
		},
	}

	return cmd
}

// NewConfigureCommandWithDeps creates a configure command with injected
// dependencies for testing. Non-empty answers skip the prompts.
func NewConfigureCommandWithDeps(writer configWriter, enterprise, noPRUsID, prusAllowedID string) *cobra.Command {
	return &cobra.Command{
		Use:           "configure",
		Short:         "Create the copilot-costs config file",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd, writer, enterprise, noPRUsID, prusAllowedID)
		},
	}
}

func runConfigure(cmd *cobra.Command, writer configWriter, enterprise, noPRUsID, prusAllowedID string) error {
	if enterprise == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Enterprise slug:",
			Help:    "The enterprise name as it appears in https://github.com/enterprises/<slug>",
		}, &enterprise, survey.WithValidator(survey.Required)); err != nil {
			return fmt.Errorf("failed to read enterprise slug: %w", err)
		}

		if err := survey.AskOne(&survey.Input{
			Message: "No PRUs cost center ID (blank to auto-create later):",
		}, &noPRUsID); err != nil {
			return fmt.Errorf("failed to read cost center ID: %w", err)
		}

		if err := survey.AskOne(&survey.Input{
			Message: "PRUs allowed cost center ID (blank to auto-create later):",
		}, &prusAllowedID); err != nil {
			return fmt.Errorf("failed to read cost center ID: %w", err)
		}
	}

	enterprise = strings.TrimSpace(enterprise)
	if enterprise == "" {
		return fmt.Errorf("enterprise slug is required")
	}

	cfg := config.DefaultConfig()
	cfg.GitHub.Enterprise = enterprise
	if id := strings.TrimSpace(noPRUsID); id != "" {
		cfg.CostCenters.NoPRUsID = id
	}
	if id := strings.TrimSpace(prusAllowedID); id != "" {
		cfg.CostCenters.PRUsAllowedID = id
	}
	// Without real IDs the run can't proceed; auto-create fills them in.
	cfg.CostCenters.AutoCreate = strings.TrimSpace(noPRUsID) == "" || strings.TrimSpace(prusAllowedID) == ""

	path, err := resolveConfigPath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}

	if err := writer.Save(cfg, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Set GITHUB_TOKEN in your environment, then run: copilot-costs assign")
	return nil
}
