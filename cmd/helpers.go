package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/aaearon/copilot-costs/internal/config"
	"github.com/aaearon/copilot-costs/internal/github"
	"github.com/aaearon/copilot-costs/internal/ui"
)

// resolveConfigPath honors the --config flag, then the env override, then
// the default location.
func resolveConfigPath() (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	return config.ConfigPath()
}

// bootstrap loads and validates the configuration and builds the API
// client. Shared by every production command that talks to the enterprise.
func bootstrap() (*config.Config, *github.Client, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to determine config path: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client := github.NewClient(cfg.GitHub.Enterprise, cfg.GitHub.Token, logger)
	return cfg, client, nil
}

// costCenterURL builds the enterprise billing console URL for a cost center.
func costCenterURL(enterprise, costCenterID string) string {
	return fmt.Sprintf("https://github.com/enterprises/%s/billing/cost_centers/%s", enterprise, costCenterID)
}

// printConfigSummary writes the resolved configuration block shown at the
// start of assign runs.
func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "===== Current Configuration =====")
	fmt.Fprintf(w, "Enterprise: %s\n", cfg.GitHub.Enterprise)

	cc := cfg.CostCenters
	if cc.AutoCreate {
		fmt.Fprintf(w, "No PRUs Cost Center: %q (created if absent)\n", cc.NoPRUsName)
		fmt.Fprintf(w, "PRUs Allowed Cost Center: %q (created if absent)\n", cc.PRUsAllowedName)
	} else {
		fmt.Fprintf(w, "No PRUs Cost Center: %s\n", cc.NoPRUsID)
		fmt.Fprintf(w, "  → %s\n", costCenterURL(cfg.GitHub.Enterprise, cc.NoPRUsID))
		fmt.Fprintf(w, "PRUs Allowed Cost Center: %s\n", cc.PRUsAllowedID)
		fmt.Fprintf(w, "  → %s\n", costCenterURL(cfg.GitHub.Enterprise, cc.PRUsAllowedID))
	}

	fmt.Fprintf(w, "PRUs Exception Users (%d):\n", len(cc.ExceptionUsers))
	for _, login := range cc.ExceptionUsers {
		fmt.Fprintf(w, "  - %s\n", login)
	}
	fmt.Fprintln(w, "===== End of Configuration =====")
}

// splitUsersFlag parses the comma-separated --users value into logins.
func splitUsersFlag(value string) []string {
	var logins []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			logins = append(logins, trimmed)
		}
	}
	return logins
}

// filterSeatsByLogin keeps only seats whose login is in the given subset.
func filterSeatsByLogin(seats []github.Seat, logins []string) []github.Seat {
	wanted := make(map[string]bool, len(logins))
	for _, login := range logins {
		wanted[login] = true
	}

	var kept []github.Seat
	for _, seat := range seats {
		if wanted[seat.Login] {
			kept = append(kept, seat)
		}
	}
	return kept
}

// uiConfirmPrompter is the production confirmPrompter: it requires a
// terminal and the literal confirmation phrase.
type uiConfirmPrompter struct{}

func (p *uiConfirmPrompter) ConfirmApply() (bool, error) {
	if !ui.IsInteractive() {
		return false, fmt.Errorf("%w (use --yes for non-interactive runs)", ui.ErrNotInteractive)
	}
	return ui.ConfirmApply()
}
