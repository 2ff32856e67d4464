package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/aaearon/copilot-costs/internal/github"
)

func TestCostCentersCommand(t *testing.T) {
	ensurer := &mockCostCenterEnsurer{ids: github.CostCenterIDs{NoPRUs: "id-1", PRUsAllowed: "id-2"}}

	cmd := NewCostCentersCommandWithDeps(testConfig(), ensurer)
	out, err := executeCommand(cmd)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if ensurer.calls != 1 {
		t.Fatalf("EnsureCostCenters calls = %d, want 1", ensurer.calls)
	}
	if got := ensurer.gotNames[0]; got[0] != "00 - No PRU overages" || got[1] != "01 - PRU overages allowed" {
		t.Errorf("EnsureCostCenters names = %v, want default cost center names", got)
	}

	for _, want := range []string{
		"No PRUs cost center: id-1",
		"PRUs allowed cost center: id-2",
		"https://github.com/enterprises/acme/billing/cost_centers/id-1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestCostCentersCommand_Error(t *testing.T) {
	ensurer := &mockCostCenterEnsurer{ensureErr: errors.New("api down")}

	cmd := NewCostCentersCommandWithDeps(testConfig(), ensurer)
	_, err := executeCommand(cmd)
	if err == nil || !strings.Contains(err.Error(), "failed to create cost centers") {
		t.Fatalf("Execute() error = %v, want creation failure", err)
	}
}
