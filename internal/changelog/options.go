package changelog

import (
	"context"
	"fmt"
)

// MissingIssuePolicy decides what happens to commits without a linked issue.
type MissingIssuePolicy string

const (
	// MissingIssueDrop silently omits commits without a linked issue.
	MissingIssueDrop MissingIssuePolicy = "drop"
	// MissingIssueSHAFallback renders the commit subject linked to the commit
	// by SHA, unless it is a release chore.
	MissingIssueSHAFallback MissingIssuePolicy = "sha-fallback"
)

// ContributorSort selects the ordering of the committers list.
type ContributorSort string

const (
	// SortByDisplayKey orders contributors by name (or login), ignoring case.
	SortByDisplayKey ContributorSort = "display"
	// SortRenderedLines orders the already rendered "- ..." lines bytewise.
	// Output matches older changelogs byte for byte.
	SortRenderedLines ContributorSort = "rendered"
)

// DefaultCategories is the category order used when none is configured.
var DefaultCategories = []string{"UI", "fix", "feat"}

// Formatter normalises a markdown document. Errors indicate malformed input
// and are fatal for the document being rendered.
type Formatter interface {
	Format(ctx context.Context, src string) (string, error)
}

// DocumentSink persists rendered documents. Implementations must be safe for
// concurrent use.
type DocumentSink interface {
	Write(ctx context.Context, name, content string) error
}

// Options configures a Renderer.
type Options struct {
	// Categories lists category labels in section order. Empty means the
	// whole commit list renders as one section.
	Categories []string
	// CategoryTitles optionally maps a category to a "#### <title>" heading.
	CategoryTitles map[string]string
	// BaseIssueURL prefixes issue numbers in "Closes [#n](...)" references.
	BaseIssueURL string
	// RepoURL is the repository URL used for commit links under
	// MissingIssueSHAFallback.
	RepoURL string
	// UnreleasedName replaces the unreleased sentinel in headings.
	UnreleasedName string
	// UnreleasedTag is the sentinel release name.
	UnreleasedTag string
	// ScopePrefixes are organisation prefixes stripped when deriving scopes.
	ScopePrefixes   []string
	OnMissingIssue  MissingIssuePolicy
	ContributorSort ContributorSort
	// GroupByPackage renders each category section as a per-package list.
	GroupByPackage bool
	// Parallelism bounds concurrent per-group documents (0 = unbounded).
	Parallelism int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Categories:      append([]string(nil), DefaultCategories...),
		UnreleasedName:  "Unreleased",
		UnreleasedTag:   DefaultUnreleasedTag,
		OnMissingIssue:  MissingIssueDrop,
		ContributorSort: SortByDisplayKey,
	}
}

// Validate checks the enumerated option values.
func (o Options) Validate() error {
	switch o.OnMissingIssue {
	case "", MissingIssueDrop, MissingIssueSHAFallback:
	default:
		return fmt.Errorf("unknown missing-issue policy %q (expected %q or %q)",
			o.OnMissingIssue, MissingIssueDrop, MissingIssueSHAFallback)
	}
	switch o.ContributorSort {
	case "", SortByDisplayKey, SortRenderedLines:
	default:
		return fmt.Errorf("unknown contributor sort %q (expected %q or %q)",
			o.ContributorSort, SortByDisplayKey, SortRenderedLines)
	}
	if o.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative, got %d", o.Parallelism)
	}
	return nil
}

func (o Options) unreleasedTag() string {
	if o.UnreleasedTag == "" {
		return DefaultUnreleasedTag
	}
	return o.UnreleasedTag
}
