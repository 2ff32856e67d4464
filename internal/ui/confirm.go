package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/Iilun/survey/v2"
)

// confirmPhrase is the literal input required before assignments are
// pushed to the enterprise.
const confirmPhrase = "apply"

// PhraseMatches reports whether the operator's input is the confirmation
// phrase, ignoring surrounding whitespace and case.
func PhraseMatches(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), confirmPhrase)
}

// ConfirmApply prompts the operator to type the confirmation phrase before
// assignments are applied. Any other input declines.
func ConfirmApply() (bool, error) {
	var answer string
	prompt := &survey.Input{
		Message: fmt.Sprintf("Type %q to continue:", confirmPhrase),
	}

	if err := survey.AskOne(prompt, &answer, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)); err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}

	return PhraseMatches(answer), nil
}
