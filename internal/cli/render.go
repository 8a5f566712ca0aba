package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/ariel-frischer/relnotes/internal/changelog"
	"github.com/ariel-frischer/relnotes/internal/config"
	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/ariel-frischer/relnotes/internal/progress"
	"github.com/ariel-frischer/relnotes/internal/sink"
	"github.com/ariel-frischer/relnotes/internal/watch"
	"github.com/spf13/cobra"
)

// CommittersDocument is the per-group mode file holding the committers section.
const CommittersDocument = "committers.md"

var (
	renderGit          string
	renderOutput       string
	renderOutputDir    string
	renderAggregation  string
	renderContributors bool
	renderWatch        bool
	renderPreview      bool
	renderPlain        bool
	renderPackages     []string
)

var renderCmd = &cobra.Command{
	Use:   "render [releases-file]",
	Short: "Render releases as a markdown changelog",
	Long: `Render releases as a markdown changelog.

Releases come from a YAML or JSON releases file, or from a git repository's
release tags with --git. With the default "single" aggregation one document is
written to stdout (or --output). With "per-group" aggregation one document per
package is written to the output directory as <package>.changelog.md.

Commits without a linked issue are dropped unless on_missing_issue is set to
sha-fallback, which links them to their commit instead.`,
	Example: `  relnotes render releases.yml
  relnotes render releases.yml -o CHANGELOG.md --contributors
  relnotes render --git . --aggregation per-group --output-dir docs/changelog
  relnotes render releases.yml --package table --preview
  relnotes render releases.yml -o CHANGELOG.md --watch`,
	Args: maxArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.GroupID = GroupRendering
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.StringVar(&renderGit, "git", "", "Read releases from the git repository at this path")
	f.StringVarP(&renderOutput, "output", "o", "", "Write the single document to this file instead of stdout")
	f.StringVar(&renderOutputDir, "output-dir", "", "Directory for per-group documents (overrides output_dir)")
	f.StringVar(&renderAggregation, "aggregation", "", "single | per-group (overrides aggregation)")
	f.BoolVar(&renderContributors, "contributors", false, "Append the committers section")
	f.BoolVarP(&renderWatch, "watch", "w", false, "Re-render whenever the releases file changes")
	f.BoolVar(&renderPreview, "preview", false, "Print a colored terminal summary instead of markdown")
	f.BoolVar(&renderPlain, "plain", false, "Disable colors and icons in --preview")
	f.StringSliceVarP(&renderPackages, "package", "p", nil, "Only render releases of these packages (repeatable)")
}

func runRender(cmd *cobra.Command, args []string) error {
	src, err := newInputSource(args, renderGit)
	if err != nil {
		return err
	}
	if renderWatch && src.gitRepo != "" {
		return clierrors.ConflictingFlags("watch", "git")
	}

	env, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	aggregation := env.cfg.Aggregation
	if renderAggregation != "" {
		aggregation = renderAggregation
	}
	if aggregation != config.AggregationSingle && aggregation != config.AggregationPerGroup {
		return clierrors.NewArgumentError(
			fmt.Sprintf("unknown aggregation %q", aggregation),
			"Use --aggregation single or --aggregation per-group",
		)
	}

	outputDir := env.cfg.OutputDir
	if renderOutputDir != "" {
		outputDir = renderOutputDir
	}

	r := &renderRun{
		cmd:         cmd,
		env:         env,
		src:         src,
		aggregation: aggregation,
		outputDir:   outputDir,
	}

	if renderWatch {
		env.log.WithField("file", src.file).Info("watching for changes")
		return watch.New(0, env.log).Run(cmd.Context(), src.file, r.run)
	}
	return r.run(cmd.Context())
}

// renderRun holds one resolved render invocation so watch mode can repeat it.
type renderRun struct {
	cmd         *cobra.Command
	env         *runtimeEnv
	src         inputSource
	aggregation string
	outputDir   string
}

func (r *renderRun) run(ctx context.Context) error {
	doc, err := r.src.load(ctx, r.env)
	if err != nil {
		return err
	}
	releases, err := selectReleases(doc, renderPackages, r.env.cfg.ScopePrefixes)
	if err != nil {
		return err
	}

	switch {
	case renderPreview:
		return r.preview(releases)
	case r.aggregation == config.AggregationPerGroup:
		return r.writeDocuments(ctx, doc, releases)
	default:
		return r.writeSingle(ctx, doc, releases)
	}
}

func (r *renderRun) preview(releases []changelog.Release) error {
	opts := changelog.PreviewOptions{Plain: renderPlain}
	if f, ok := stdoutIsFile(r.cmd); ok {
		caps := progress.DetectTerminalCapabilities(f)
		opts.Plain = opts.Plain || !caps.SupportsColor
		opts.MaxWidth = caps.Width
	} else {
		opts.Plain = true
	}
	if err := r.env.renderer.Preview(releases, r.cmd.OutOrStdout(), opts); err != nil {
		return clierrors.RenderFailed(err)
	}
	return nil
}

func (r *renderRun) writeSingle(ctx context.Context, doc *changelog.Document, releases []changelog.Release) error {
	out, err := r.env.renderer.RenderMarkdown(ctx, releases)
	if err != nil {
		return clierrors.RenderFailed(err)
	}

	if renderContributors {
		section, err := r.env.renderer.RenderCommitters(ctx, committers(doc, releases))
		if err != nil {
			return clierrors.RenderFailed(err)
		}
		out += "\n" + section
	}

	if renderOutput == "" {
		_, err := fmt.Fprint(r.cmd.OutOrStdout(), out)
		return err
	}

	if dir := filepath.Dir(renderOutput); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return clierrors.OutputFailed(renderOutput, err)
		}
	}
	if err := os.WriteFile(renderOutput, []byte(out), 0o644); err != nil {
		return clierrors.OutputFailed(renderOutput, err)
	}
	r.env.log.WithField("file", renderOutput).Info("changelog written")
	return nil
}

func (r *renderRun) writeDocuments(ctx context.Context, doc *changelog.Document, releases []changelog.Release) error {
	var caps progress.TerminalCapabilities
	if f, ok := r.cmd.ErrOrStderr().(*os.File); ok {
		caps = progress.DetectTerminalCapabilities(f)
	}
	spin := progress.NewSpinner(r.cmd.ErrOrStderr(), caps)

	dir := &countingSink{DocumentSink: sink.NewDir(r.outputDir)}
	spin.Start(fmt.Sprintf("Writing changelogs to %s", r.outputDir))

	if err := r.env.renderer.RenderDocuments(ctx, releases, dir); err != nil {
		spin.Fail("Rendering changelogs failed")
		return clierrors.RenderFailed(err)
	}

	if renderContributors {
		section, err := r.env.renderer.RenderCommitters(ctx, committers(doc, releases))
		if err != nil {
			spin.Fail("Rendering committers failed")
			return clierrors.RenderFailed(err)
		}
		if err := dir.Write(ctx, CommittersDocument, section); err != nil {
			spin.Fail("Writing committers failed")
			return clierrors.OutputFailed(CommittersDocument, err)
		}
	}

	spin.Succeed(fmt.Sprintf("Wrote %d documents to %s", dir.count.Load(), r.outputDir))
	return nil
}

// countingSink counts successful writes.
type countingSink struct {
	changelog.DocumentSink
	count atomic.Int64
}

func (s *countingSink) Write(ctx context.Context, name, content string) error {
	if err := s.DocumentSink.Write(ctx, name, content); err != nil {
		return err
	}
	s.count.Add(1)
	return nil
}
