package cli

import clierrors "github.com/ariel-frischer/relnotes/internal/errors"

// Exit codes for the relnotes CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRenderFailed indicates rendering or writing a changelog failed
	ExitRenderFailed = 1

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = 3

	// ExitMissingInput indicates the releases file or repository is missing
	ExitMissingInput = 4
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument, clierrors.Configuration:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitMissingInput
		}
	}
	return ExitRenderFailed
}
