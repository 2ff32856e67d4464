// Package config manages copilot-costs application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Placeholder bucket IDs shipped with the starter config. Runs that still
// carry them get a warning so real IDs are set before applying.
const (
	PlaceholderNoPRUsID      = "CC-001-NO-PRUS"
	PlaceholderPRUsAllowedID = "CC-002-PRUS-ALLOWED"
)

// GitHub holds the enterprise identity and credentials.
type GitHub struct {
	Token      string `yaml:"token"`
	Enterprise string `yaml:"enterprise"`
}

// Export holds settings for locally written artifacts (the incremental-run
// checkpoint lives under the export directory).
type Export struct {
	Directory string `yaml:"directory"`
}

// CostCenters holds the two-bucket assignment configuration.
type CostCenters struct {
	NoPRUsID        string   `yaml:"no_prus_cost_center"`
	PRUsAllowedID   string   `yaml:"prus_allowed_cost_center"`
	ExceptionUsers  []string `yaml:"prus_exception_users"`
	AutoCreate      bool     `yaml:"auto_create"`
	NoPRUsName      string   `yaml:"no_pru_name"`
	PRUsAllowedName string   `yaml:"pru_allowed_name"`
	Incremental     bool     `yaml:"enable_incremental"`
}

// Config is the resolved application configuration. It is built once at
// startup and passed by value reference into the components that need it;
// there is no ambient global configuration.
type Config struct {
	GitHub      GitHub      `yaml:"github"`
	Export      Export      `yaml:"export"`
	CostCenters CostCenters `yaml:"cost_centers"`
}

// envOverrides are environment variables that win over file values.
type envOverrides struct {
	Token      string `envconfig:"GITHUB_TOKEN"`
	Enterprise string `envconfig:"GITHUB_ENTERPRISE"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Export: Export{Directory: "exports"},
		CostCenters: CostCenters{
			NoPRUsID:        PlaceholderNoPRUsID,
			PRUsAllowedID:   PlaceholderPRUsAllowedID,
			NoPRUsName:      "00 - No PRU overages",
			PRUsAllowedName: "01 - PRU overages allowed",
		},
	}
}

// Load reads a config file from the given path and applies environment
// overrides. A missing file yields the default config (env vars can still
// supply the token and enterprise).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if env.Token != "" {
		cfg.GitHub.Token = env.Token
	}
	if env.Enterprise != "" {
		cfg.GitHub.Enterprise = env.Enterprise
	}

	return cfg, nil
}

// Save writes a config to the given path, creating parent directories as
// needed.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks the configuration before any remote call is made.
func (c *Config) Validate() error {
	if c.GitHub.Enterprise == "" {
		return errors.New("github enterprise must be configured (set GITHUB_ENTERPRISE or github.enterprise)")
	}
	if c.GitHub.Token == "" {
		return errors.New("github token must be configured (set GITHUB_TOKEN or github.token)")
	}

	cc := c.CostCenters
	if cc.AutoCreate {
		if cc.NoPRUsName == "" || cc.PRUsAllowedName == "" {
			return errors.New("auto_create requires no_pru_name and pru_allowed_name")
		}
		if cc.NoPRUsName == cc.PRUsAllowedName {
			return errors.New("no_pru_name and pru_allowed_name cannot be the same")
		}
		return nil
	}

	if cc.NoPRUsID == "" {
		return errors.New("no_prus_cost_center is not defined")
	}
	if cc.PRUsAllowedID == "" {
		return errors.New("prus_allowed_cost_center is not defined")
	}
	if cc.NoPRUsID == cc.PRUsAllowedID {
		return errors.New("no_prus_cost_center and prus_allowed_cost_center cannot be the same")
	}
	return nil
}

// Warnings returns non-fatal configuration findings: placeholder bucket IDs
// and an empty exception list. Placeholder warnings are skipped when
// auto-creation will replace the IDs anyway.
func (c *Config) Warnings() []string {
	var warnings []string

	if !c.CostCenters.AutoCreate {
		if c.CostCenters.NoPRUsID == PlaceholderNoPRUsID {
			warnings = append(warnings, fmt.Sprintf("no_prus_cost_center is a placeholder (%q); set a real cost center ID before applying", c.CostCenters.NoPRUsID))
		}
		if c.CostCenters.PRUsAllowedID == PlaceholderPRUsAllowedID {
			warnings = append(warnings, fmt.Sprintf("prus_allowed_cost_center is a placeholder (%q); set a real cost center ID before applying", c.CostCenters.PRUsAllowedID))
		}
	}
	if len(c.CostCenters.ExceptionUsers) == 0 {
		warnings = append(warnings, "no PRUs exception users configured; every seat will go to the default cost center")
	}

	return warnings
}

// ConfigDir returns the default config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".copilot-costs"), nil
}

// ConfigPath returns the config file path, respecting the
// COPILOT_COSTS_CONFIG env var.
func ConfigPath() (string, error) {
	if p := os.Getenv("COPILOT_COSTS_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
