package cli

import (
	"errors"

	"github.com/rshade/cellscope/internal/scenario"
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitError         = 1
	ExitInvalidConfig = 2
	ExitDomainMath    = 3
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, scenario.ErrInvalidConfiguration):
		return ExitInvalidConfig
	case errors.Is(err, scenario.ErrDomainMath):
		return ExitDomainMath
	default:
		return ExitError
	}
}
