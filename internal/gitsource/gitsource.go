// Package gitsource builds changelog releases from a local git repository.
// Release tags follow the lerna convention "<package>@<version>"; each tag
// covers the commits since the previous tag of the same package, and
// commits newer than every tag form the unreleased release.
//
// Commit walks assume a mostly linear history: a walk stops at the first
// commit carrying the boundary tag.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/ariel-frischer/relnotes/internal/changelog"
	"github.com/ariel-frischer/relnotes/internal/logging"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/sirupsen/logrus"
)

// DefaultTagPattern matches lerna style "<package>@<version>" tags.
const DefaultTagPattern = "*@*"

// Options controls how tags and commits map to releases.
type Options struct {
	// TagPattern is a path.Match pattern selecting release tags.
	TagPattern string
	// PackageRoots are directories whose immediate children are packages,
	// e.g. "packages" makes packages/table/src/x.ts belong to "table".
	PackageRoots []string
	// ScopePrefixes are passed to changelog.ScopeOf to group tags.
	ScopePrefixes []string
	// UnreleasedTag names the release holding untagged commits.
	UnreleasedTag string
}

// Source reads release history from a repository.
type Source struct {
	repo *git.Repository
	opts Options
	log  logrus.FieldLogger
}

// releaseTag is a parsed release tag.
type releaseTag struct {
	name    string
	scope   string
	version *semver.Version
	commit  *object.Commit
	date    time.Time
}

// Open opens the repository containing path ("" means the working
// directory), searching parent directories for .git.
func Open(repoPath string, opts Options, log logrus.FieldLogger) (*Source, error) {
	if repoPath == "" {
		var err error
		repoPath, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}
	if opts.TagPattern == "" {
		opts.TagPattern = DefaultTagPattern
	}
	if opts.UnreleasedTag == "" {
		opts.UnreleasedTag = changelog.DefaultUnreleasedTag
	}
	if log == nil {
		log = logging.Discard()
	}

	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", repoPath, err)
	}

	return &Source{repo: repo, opts: opts, log: log.WithField("repo", repoPath)}, nil
}

// Releases returns the unreleased release (when HEAD is ahead of every
// tag) followed by each package's releases, packages in scope order and
// releases newest first.
func (s *Source) Releases(ctx context.Context) ([]changelog.Release, error) {
	tags, err := s.releaseTags()
	if err != nil {
		return nil, err
	}

	var releases []changelog.Release

	unreleased, err := s.unreleased(ctx, tags)
	if err != nil {
		return nil, err
	}
	if unreleased != nil {
		releases = append(releases, *unreleased)
	}

	byScope := make(map[string][]releaseTag)
	var scopes []string
	for _, t := range tags {
		if _, ok := byScope[t.scope]; !ok {
			scopes = append(scopes, t.scope)
		}
		byScope[t.scope] = append(byScope[t.scope], t)
	}
	sort.Strings(scopes)

	for _, scope := range scopes {
		chain := byScope[scope]
		sort.SliceStable(chain, func(i, j int) bool {
			return chain[i].version.GreaterThan(chain[j].version)
		})
		for i, t := range chain {
			stop := map[plumbing.Hash]bool{}
			if i+1 < len(chain) {
				stop[chain[i+1].commit.Hash] = true
			}
			commits, err := s.walk(ctx, t.commit.Hash, stop)
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", t.name, err)
			}
			s.log.WithFields(logrus.Fields{"tag": t.name, "commits": len(commits)}).Debug("release tag walked")
			releases = append(releases, changelog.Release{
				Name:    t.name,
				Date:    t.date.Format(time.DateOnly),
				Commits: commits,
			})
		}
	}

	return releases, nil
}

// unreleased collects commits from HEAD down to the first tagged commit.
func (s *Source) unreleased(ctx context.Context, tags []releaseTag) (*changelog.Release, error) {
	head, err := s.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}

	stop := make(map[plumbing.Hash]bool, len(tags))
	for _, t := range tags {
		stop[t.commit.Hash] = true
	}

	commits, err := s.walk(ctx, head.Hash(), stop)
	if err != nil {
		return nil, fmt.Errorf("walking unreleased commits: %w", err)
	}
	if len(commits) == 0 {
		return nil, nil
	}

	headCommit, err := s.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading HEAD commit: %w", err)
	}
	return &changelog.Release{
		Name:    s.opts.UnreleasedTag,
		Date:    headCommit.Committer.When.Format(time.DateOnly),
		Commits: commits,
	}, nil
}

// releaseTags lists tags matching the pattern with a semver version.
func (s *Source) releaseTags() ([]releaseTag, error) {
	iter, err := s.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var tags []releaseTag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if ok, _ := path.Match(s.opts.TagPattern, name); !ok {
			return nil
		}
		version, err := semver.NewVersion(changelog.VersionOf(name))
		if err != nil {
			s.log.WithField("tag", name).Debug("skipping tag without semver version")
			return nil
		}
		commit, date, err := s.resolveTag(ref)
		if err != nil {
			return fmt.Errorf("resolving tag %s: %w", name, err)
		}
		tags = append(tags, releaseTag{
			name:    name,
			scope:   changelog.ScopeOf(name, s.opts.ScopePrefixes),
			version: version,
			commit:  commit,
			date:    date,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// resolveTag peels annotated and lightweight tags to their commit.
func (s *Source) resolveTag(ref *plumbing.Reference) (*object.Commit, time.Time, error) {
	tag, err := s.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := tag.Commit()
		if err != nil {
			return nil, time.Time{}, err
		}
		return commit, tag.Tagger.When, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		commit, err := s.repo.CommitObject(ref.Hash())
		if err != nil {
			return nil, time.Time{}, err
		}
		return commit, commit.Committer.When, nil
	default:
		return nil, time.Time{}, err
	}
}

// walk returns commits reachable from start, newest first, stopping at the
// first commit in stop.
func (s *Source) walk(ctx context.Context, start plumbing.Hash, stop map[plumbing.Hash]bool) ([]changelog.Commit, error) {
	iter, err := s.repo.Log(&git.LogOptions{From: start, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var commits []changelog.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if stop[c.Hash] {
			return storer.ErrStop
		}
		pkgs, err := s.packagesOf(c)
		if err != nil {
			return fmt.Errorf("reading changes of %s: %w", c.Hash, err)
		}
		commits = append(commits, changelog.Commit{
			Message:   strings.TrimSpace(c.Message),
			CommitSHA: c.Hash.String(),
			Packages:  pkgs,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// packagesOf maps the files a commit touches to package names.
func (s *Source) packagesOf(c *object.Commit) ([]string, error) {
	if len(s.opts.PackageRoots) == 0 {
		return nil, nil
	}
	stats, err := c.Stats()
	if err != nil {
		return nil, err
	}

	var pkgs []string
	seen := make(map[string]bool)
	for _, st := range stats {
		if pkg := PackageOf(st.Name, s.opts.PackageRoots); pkg != "" && !seen[pkg] {
			seen[pkg] = true
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs, nil
}

// PackageOf returns the package a repository path belongs to, or "".
func PackageOf(file string, roots []string) string {
	for _, root := range roots {
		root = strings.Trim(root, "/")
		if root == "" {
			continue
		}
		rest, ok := strings.CutPrefix(file, root+"/")
		if !ok {
			continue
		}
		if pkg, _, found := strings.Cut(rest, "/"); found && pkg != "" {
			return pkg
		}
	}
	return ""
}
