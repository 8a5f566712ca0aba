package changelog

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ariel-frischer/relnotes/internal/logging"
	"github.com/ariel-frischer/relnotes/internal/mdfmt"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// closingRefPattern finds issue-closing phrases such as "Fixes #42",
// "resolved T7" or "closes #3".
var closingRefPattern = regexp.MustCompile(`(?i)(fix|close|resolve)(e?s|e?d)? [T#](\d+)`)

const (
	breakingMarker = "💥"
	bugMarker      = "🐛"
	releaseChore   = "chore(release)"
)

// Renderer turns releases into markdown. It holds no per-call state and may
// be shared between goroutines.
type Renderer struct {
	opts      Options
	formatter Formatter
	log       logrus.FieldLogger
}

// NewRenderer builds a Renderer. A nil formatter selects the default
// markdown formatter and a nil logger discards log output.
func NewRenderer(opts Options, formatter Formatter, log logrus.FieldLogger) *Renderer {
	if formatter == nil {
		formatter = mdfmt.New(mdfmt.Options{})
	}
	if log == nil {
		log = logging.Discard()
	}
	if opts.OnMissingIssue == "" {
		opts.OnMissingIssue = MissingIssueDrop
	}
	if opts.ContributorSort == "" {
		opts.ContributorSort = SortByDisplayKey
	}
	return &Renderer{opts: opts, formatter: formatter, log: log}
}

// Options returns the renderer configuration.
func (r *Renderer) Options() Options {
	return r.opts
}

// RewriteClosingReference replaces the first issue-closing phrase in title
// with a "Closes [#id](<baseIssueURL>id)" link. Titles without such a phrase
// are returned unchanged.
func RewriteClosingReference(title, baseIssueURL string) string {
	loc := closingRefPattern.FindStringSubmatchIndex(title)
	if loc == nil {
		return title
	}
	id := title[loc[6]:loc[7]]
	return title[:loc[0]] + fmt.Sprintf("Closes [#%s](%s%s)", id, baseIssueURL, id) + title[loc[1]:]
}

// RenderContribution renders one commit as a markdown list line. The boolean
// is false when the commit produces nothing.
//
// The issue title is rewritten before anything else, so every part of the
// line sees the "Closes [#id](...)" form.
func (r *Renderer) RenderContribution(c Commit) (string, bool) {
	issue := c.GitHubIssue
	if issue == nil {
		return r.renderWithoutIssue(c)
	}

	title := RewriteClosingReference(issue.Title, r.opts.BaseIssueURL)

	line := addTypeMarker("- " + title)
	if prURL := issue.PullRequestURL(); issue.Number != 0 && prURL != "" {
		line += fmt.Sprintf("  [#%d](%s) ", issue.Number, prURL)
	}
	line += fmt.Sprintf(" [@%s](%s)", issue.User.Login, issue.User.HTMLURL)

	if strings.TrimSpace(line) == "" {
		return "", false
	}
	return line, true
}

func addTypeMarker(line string) string {
	switch {
	case strings.HasPrefix(line, "- feat("):
		return "- " + breakingMarker + " " + strings.TrimPrefix(line, "- ")
	case strings.HasPrefix(line, "- fix("):
		return "- " + bugMarker + " " + strings.TrimPrefix(line, "- ")
	}
	return line
}

func (r *Renderer) renderWithoutIssue(c Commit) (string, bool) {
	entry := r.log.WithField("sha", c.CommitSHA)

	if r.opts.OnMissingIssue != MissingIssueSHAFallback {
		entry.Debug("skipping commit without linked issue")
		return "", false
	}
	if strings.Contains(c.Message, releaseChore) {
		entry.Debug("skipping release chore commit")
		return "", false
	}

	subject := strings.TrimSpace(firstLine(c.Message))
	if subject == "" || c.CommitSHA == "" {
		entry.Debug("skipping commit with empty subject")
		return "", false
	}

	link := strings.TrimSuffix(r.opts.RepoURL, "/") + "/commit/" + c.CommitSHA
	return fmt.Sprintf("- %s ([%s](%s))", subject, shortSHA(c.CommitSHA), link), true
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// RenderContributionList renders commits as list lines, each prefixed with
// linePrefix. Commits that render nothing are dropped; the result is empty
// when nothing survives.
func (r *Renderer) RenderContributionList(commits []Commit, linePrefix string) string {
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		line, ok := r.RenderContribution(c)
		if !ok || strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, linePrefix+line)
	}
	return strings.Join(lines, "\n")
}

// RenderContributionsByPackage renders commits as a two-level list: one
// entry per package label, with the label's contributions nested below.
// Labels whose contributions all render nothing are omitted.
func (r *Renderer) RenderContributionsByPackage(commits []Commit) string {
	var sections []string
	for _, g := range GroupByPackage(commits) {
		list := r.RenderContributionList(g.Commits, "  ")
		if list == "" {
			continue
		}
		sections = append(sections, "- "+g.Label+"\n"+list)
	}
	return strings.Join(sections, "\n\n")
}

// ReleaseTitle is the heading text of a release.
func (r *Renderer) ReleaseTitle(release Release) string {
	if release.IsUnreleased(r.opts.unreleasedTag()) {
		return r.opts.UnreleasedName
	}
	return release.Name
}

// RenderRelease renders one release as a formatted markdown section. It
// returns "" when no category yields a rendered line.
func (r *Renderer) RenderRelease(ctx context.Context, release Release) (string, error) {
	sections := r.renderSections(release)
	if len(sections) == 0 {
		r.log.WithField("release", release.Name).Debug("release has nothing to render")
		return "", nil
	}

	var b strings.Builder
	b.WriteString("## " + r.ReleaseTitle(release) + "\n")
	if release.Date != "" {
		b.WriteString("\n`" + release.Date + "`\n")
	}
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(s)
		b.WriteString("\n")
	}

	out, err := r.formatter.Format(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("formatting release %s: %w", release.Name, err)
	}
	return out, nil
}

// renderSections renders the non-empty category sections of a release.
func (r *Renderer) renderSections(release Release) []string {
	groups := NonEmptyGroups(ClassifyByCategory(release, r.opts.Categories, r.opts.ScopePrefixes))

	sections := make([]string, 0, len(groups))
	for _, g := range groups {
		var body string
		if r.opts.GroupByPackage {
			body = r.RenderContributionsByPackage(g.Commits)
		} else {
			body = r.RenderContributionList(g.Commits, "")
		}
		if body == "" {
			continue
		}
		if title := r.opts.CategoryTitles[g.Name]; title != "" {
			body = "#### " + title + "\n\n" + body
		}
		sections = append(sections, body)
	}
	return sections
}

// ReleaseKey is the key releases are sorted and grouped by: the scope of
// the release name.
func (r *Renderer) ReleaseKey(release Release) string {
	return ScopeOf(release.Name, r.opts.ScopePrefixes)
}

// RenderMarkdown renders all releases into a single document, ordered by
// release key. Releases that render nothing are left out; the result is
// empty when none remain.
func (r *Renderer) RenderMarkdown(ctx context.Context, releases []Release) (string, error) {
	sorted := append([]Release(nil), releases...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return r.ReleaseKey(sorted[i]) < r.ReleaseKey(sorted[j])
	})

	var docs []string
	for _, rel := range sorted {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		doc, err := r.RenderRelease(ctx, rel)
		if err != nil {
			return "", err
		}
		if doc != "" {
			docs = append(docs, doc)
		}
	}

	if len(docs) == 0 {
		return "", nil
	}
	return "\n" + strings.Join(docs, "\n\n\n"), nil
}

// ReleaseGroup is the set of releases written to one per-group document.
type ReleaseGroup struct {
	Key      string
	Releases []Release
}

// GroupReleases partitions releases by release key, in order of first
// appearance.
func (r *Renderer) GroupReleases(releases []Release) []ReleaseGroup {
	var groups []ReleaseGroup
	index := make(map[string]int)
	for _, rel := range releases {
		key := r.ReleaseKey(rel)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ReleaseGroup{Key: key})
		}
		groups[i].Releases = append(groups[i].Releases, rel)
	}
	return groups
}

// DocumentName is the sink name of the per-group document for key.
func DocumentName(key string) string {
	return key + ".changelog.md"
}

// RenderDocuments renders one document per release group and hands each to
// sink under DocumentName(key). Groups are rendered concurrently; the first
// failure cancels the remaining groups and is returned.
func (r *Renderer) RenderDocuments(ctx context.Context, releases []Release, sink DocumentSink) error {
	g, ctx := errgroup.WithContext(ctx)
	if r.opts.Parallelism > 0 {
		g.SetLimit(r.opts.Parallelism)
	}

	for _, group := range r.GroupReleases(releases) {
		group := group
		g.Go(func() error {
			return r.renderDocument(ctx, group, sink)
		})
	}

	return g.Wait()
}

func (r *Renderer) renderDocument(ctx context.Context, group ReleaseGroup, sink DocumentSink) error {
	var parts []string
	for _, rel := range group.Releases {
		doc, err := r.RenderRelease(ctx, rel)
		if err != nil {
			return err
		}
		if doc != "" {
			parts = append(parts, doc)
		}
	}
	if len(parts) == 0 {
		r.log.WithField("group", group.Key).Debug("group has nothing to render")
		return nil
	}

	header, err := documentHeader(group.Key)
	if err != nil {
		return err
	}

	doc, err := r.formatter.Format(ctx, header+strings.Join(parts, "\n"))
	if err != nil {
		return fmt.Errorf("formatting document %s: %w", group.Key, err)
	}

	name := DocumentName(group.Key)
	if err := sink.Write(ctx, name, doc); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	r.log.WithFields(logrus.Fields{
		"group":    group.Key,
		"document": name,
		"releases": len(parts),
	}).Info("changelog document written")
	return nil
}

// frontMatter is the YAML block that opens every per-group document.
type frontMatter struct {
	Title string `yaml:"title"`
	Nav   struct {
		Title string `yaml:"title"`
		Path  string `yaml:"path"`
	} `yaml:"nav"`
	Group struct {
		Title string `yaml:"title"`
	} `yaml:"group"`
}

// documentHeader renders the front matter and title of a group document.
func documentHeader(key string) (string, error) {
	var fm frontMatter
	fm.Title = key
	fm.Nav.Title = "Changelog"
	fm.Nav.Path = "/changelog"
	fm.Group.Title = key

	data, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("encoding front matter for %s: %w", key, err)
	}
	return "---\n" + string(data) + "---\n\n# " + key + "\n\n", nil
}
