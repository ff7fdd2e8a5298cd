package ui

import (
	"os"

	"golang.org/x/term"
)

// CanRun reports whether the browser can take over the terminal: both stdin
// and stdout must be terminals and RIND_NON_INTERACTIVE or CI must be unset.
func CanRun() bool {
	if os.Getenv("RIND_NON_INTERACTIVE") == "1" {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
