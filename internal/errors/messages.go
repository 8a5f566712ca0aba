package errors

import "fmt"

// Common error messages for the relnotes CLI.
// These templates ensure consistent, actionable error messages.

// MissingReleasesInput creates an error when neither a file nor --git is given.
func MissingReleasesInput() *CLIError {
	return NewArgumentErrorWithUsage(
		"no release input given",
		"relnotes render <releases.yml> | relnotes render --git <repo>",
		"Pass a releases file (YAML or JSON) as the first argument",
		"Or read releases from a repository with --git .",
	)
}

// ReleasesFileNotFound creates an error for a missing releases file.
func ReleasesFileNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("releases file not found: %s", path),
		"Check the path and try again",
		"Generate a releases file with your release tooling, or use --git",
	)
}

// InvalidReleasesFile creates an error for a releases file that fails to load.
func InvalidReleasesFile(path string, err error) *CLIError {
	return WrapWithMessage(err, Argument,
		fmt.Sprintf("invalid releases file %s", path),
		"Each release needs a name like 'pkg@1.2.3' and a date like '2024-01-31'",
		"Every commit needs a commitSHA; issues need user.login",
	)
}

// ConfigLoadFailed creates an error for configuration that cannot be loaded.
func ConfigLoadFailed(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check .relnotes/config.yml and ~/.config/relnotes/config.yml",
		"Run 'relnotes config show' to see the effective values",
	)
}

// GitSourceFailed creates an error for a repository that cannot be read.
func GitSourceFailed(path string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("cannot read releases from repository %s", path),
		"Make sure the path is inside a git repository",
		"Release tags must match git.tag_pattern (default '*@*')",
	)
}

// RenderFailed creates an error for a changelog that could not be rendered.
func RenderFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"failed to render changelog",
		"Check commit messages and issue titles for invalid UTF-8 or NUL bytes",
		"Re-run with --debug to see which release failed",
	)
}

// OutputFailed creates an error for documents that could not be written.
func OutputFailed(target string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("failed to write %s", target),
		"Check that the output directory exists and is writable",
	)
}

// ReleaseNotFound creates an error when --package matches no release.
func ReleaseNotFound(scope string, available []string) *CLIError {
	remediation := []string{"Check the package name (scope prefixes are stripped)"}
	if len(available) > 0 {
		remediation = append(remediation, fmt.Sprintf("Available releases: %v", available))
	}
	return NewArgumentError(fmt.Sprintf("no releases found for package %q", scope), remediation...)
}

// ConflictingFlags creates an error for mutually exclusive flags.
func ConflictingFlags(a, b string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("--%s and --%s cannot be used together", a, b),
		fmt.Sprintf("Remove either --%s or --%s", a, b),
	)
}
