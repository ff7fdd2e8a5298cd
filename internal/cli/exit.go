package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"rind/internal/config"
	"rind/internal/services"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitPanic        = 3
)

// ErrUsage marks errors caused by arguments, flags or the config file.
var ErrUsage = errors.New("usage error")

func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var buildErr *services.BuildError
	if errors.As(err, &buildErr) {
		return ExitGeneralError
	}
	if errors.Is(err, ErrUsage) || errors.Is(err, config.ErrInvalidOption) || errors.Is(err, config.ErrConfigNotFound) {
		return ExitUsageError
	}
	return ExitGeneralError
}

// usageArgs tags argument count errors from validate as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}

// flagError is installed on the root command; subcommands inherit it.
func flagError(cmd *cobra.Command, err error) error {
	return fmt.Errorf("%w: %w", ErrUsage, err)
}
