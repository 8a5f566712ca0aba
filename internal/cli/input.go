package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/ariel-frischer/relnotes/internal/changelog"
	"github.com/ariel-frischer/relnotes/internal/config"
	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/ariel-frischer/relnotes/internal/gitsource"
	"github.com/ariel-frischer/relnotes/internal/logging"
	"github.com/ariel-frischer/relnotes/internal/mdfmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// runtimeEnv is what every command needs after flags are parsed.
type runtimeEnv struct {
	cfg      *config.Configuration
	log      *logrus.Logger
	renderer *changelog.Renderer
}

// loadRuntime loads configuration and builds the logger and renderer.
func loadRuntime(cmd *cobra.Command) (*runtimeEnv, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, clierrors.ConfigLoadFailed(err)
	}

	level := cfg.LogLevel
	switch {
	case debugFlag:
		level = "debug"
	case verbose:
		level = "info"
	}
	log := logging.New(logging.Options{Level: level, JSON: cfg.LogJSON, Out: cmd.ErrOrStderr()})

	opts := cfg.RenderOptions()
	if err := opts.Validate(); err != nil {
		return nil, clierrors.Wrap(err, clierrors.Configuration)
	}

	return &runtimeEnv{
		cfg:      cfg,
		log:      log,
		renderer: changelog.NewRenderer(opts, mdfmt.New(cfg.FormatOptions()), log),
	}, nil
}

// inputSource names where releases come from: a file path or a repository.
type inputSource struct {
	file    string
	gitRepo string
}

// newInputSource validates that exactly one input was given.
func newInputSource(args []string, gitRepo string) (inputSource, error) {
	switch {
	case len(args) > 0 && gitRepo != "":
		return inputSource{}, clierrors.NewArgumentError(
			"a releases file and --git cannot be used together",
			"Pass either a releases file or --git <repo>",
		)
	case len(args) > 0:
		return inputSource{file: args[0]}, nil
	case gitRepo != "":
		return inputSource{gitRepo: gitRepo}, nil
	default:
		return inputSource{}, clierrors.MissingReleasesInput()
	}
}

// load reads the releases document from the source.
func (s inputSource) load(ctx context.Context, env *runtimeEnv) (*changelog.Document, error) {
	if s.gitRepo != "" {
		src, err := gitsource.Open(s.gitRepo, env.cfg.GitOptions(), env.log)
		if err != nil {
			return nil, clierrors.GitSourceFailed(s.gitRepo, err)
		}
		releases, err := src.Releases(ctx)
		if err != nil {
			return nil, clierrors.GitSourceFailed(s.gitRepo, err)
		}
		env.log.WithField("releases", len(releases)).Debug("releases read from repository")
		return &changelog.Document{Releases: releases}, nil
	}

	doc, err := changelog.Load(s.file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, clierrors.ReleasesFileNotFound(s.file)
		}
		return nil, clierrors.InvalidReleasesFile(s.file, err)
	}
	env.log.WithFields(logrus.Fields{
		"file":     s.file,
		"releases": len(doc.Releases),
		"commits":  doc.CommitCount(),
	}).Debug("releases file loaded")
	return doc, nil
}

// selectReleases applies the --package filter.
func selectReleases(doc *changelog.Document, packages []string, prefixes []string) ([]changelog.Release, error) {
	releases := doc.FilterByScope(packages, prefixes)
	if len(packages) > 0 && len(releases) == 0 {
		return nil, clierrors.ReleaseNotFound(packages[0], doc.ListReleases())
	}
	return releases, nil
}

// committers returns the document's contributor list, or the issue authors
// of releases when the document has none.
func committers(doc *changelog.Document, releases []changelog.Release) []changelog.User {
	if len(doc.Contributors) > 0 {
		return doc.Contributors
	}
	return changelog.Contributors(releases)
}
