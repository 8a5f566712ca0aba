package cli

import (
	"fmt"

	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/spf13/cobra"
)

var (
	contributorsGit      string
	contributorsPackages []string
)

var contributorsCmd = &cobra.Command{
	Use:   "contributors [releases-file]",
	Short: "Render the committers section",
	Long: `Render the committers section: a "#### Committers: <n>" heading followed
by one line per contributor.

Contributors are taken from the releases file's contributors list, or
collected from the authors of the issues linked by the releases' commits.
Ordering follows contributor_sort.`,
	Example: `  relnotes contributors releases.yml
  relnotes contributors releases.yml --package table`,
	Args: maxArgs(1),
	RunE: runContributors,
}

func init() {
	contributorsCmd.GroupID = GroupRendering
	rootCmd.AddCommand(contributorsCmd)

	contributorsCmd.Flags().StringVar(&contributorsGit, "git", "", "Read releases from the git repository at this path")
	contributorsCmd.Flags().StringSliceVarP(&contributorsPackages, "package", "p", nil, "Only consider releases of these packages (repeatable)")
}

func runContributors(cmd *cobra.Command, args []string) error {
	src, err := newInputSource(args, contributorsGit)
	if err != nil {
		return err
	}

	env, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	doc, err := src.load(cmd.Context(), env)
	if err != nil {
		return err
	}
	releases, err := selectReleases(doc, contributorsPackages, env.cfg.ScopePrefixes)
	if err != nil {
		return err
	}

	out, err := env.renderer.RenderCommitters(cmd.Context(), committers(doc, releases))
	if err != nil {
		return clierrors.RenderFailed(err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
