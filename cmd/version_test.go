package cmd

import (
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(NewVersionCommand())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "copilot-costs dev (commit unknown, built unknown)") {
		t.Errorf("unexpected version output: %s", out)
	}
}
