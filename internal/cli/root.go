package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ariel-frischer/relnotes/internal/build"
	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/spf13/cobra"
)

// Command group IDs shown in 'relnotes --help'.
const (
	GroupRendering     = "rendering"
	GroupConfiguration = "configuration"
)

var (
	configPath string
	debugFlag  bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "relnotes",
	Short: "Render markdown changelogs from monorepo releases",
	Long: `relnotes renders markdown changelogs for monorepo releases.

Releases are read from a YAML or JSON releases file or straight from a git
repository's lerna style tags (pkg@1.2.3). Commits are split into category
sections (UI, fix, feat by default), linked to the issues and pull requests
they close, and credited to their authors. The output is one document, or one
document per package written into the output directory.

Source: https://github.com/ariel-frischer/relnotes`,
	Example: `  # Render a releases file to stdout
  relnotes render releases.yml

  # Render from the current repository, one document per package
  relnotes render --git . --aggregation per-group --output-dir docs/changelog

  # Append the committers section
  relnotes render releases.yml --contributors

  # Preview in the terminal
  relnotes render releases.yml --preview

  # List committers only
  relnotes contributors releases.yml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRendering, Title: "Rendering:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	rootCmd.Version = build.Version
	rootCmd.SetVersionTemplate(build.Summary() + "\n")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: .relnotes/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable info logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
}

// Execute runs the root command. Errors have been reported to stderr when
// it returns; use ExitCode to pick the process exit status.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	reportError(err)
	return err
}

// reportError prints err to stderr in the CLIError format.
func reportError(err error) {
	if err == nil {
		return
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(rootCmd.ErrOrStderr(), cliErr)
		return
	}
	fmt.Fprint(rootCmd.ErrOrStderr(), clierrors.FormatSimpleError(err, clierrors.Runtime))
}

// maxArgs is cobra.MaximumNArgs reporting violations as argument errors.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
		}
		return nil
	}
}

// stdoutIsFile reports whether the command writes to the real stdout.
func stdoutIsFile(cmd *cobra.Command) (*os.File, bool) {
	f, ok := cmd.OutOrStdout().(*os.File)
	return f, ok
}
