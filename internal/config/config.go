// relnotes - Changelog rendering for monorepo releases
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/relnotes

// Package config provides hierarchical configuration management for relnotes using koanf.
// Configuration is loaded with priority: environment variables > project config (.relnotes/config.yml)
// > user config (~/.config/relnotes/config.yml) > defaults. Project config may also be JSON when an
// explicit path ending in .json is given.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/relnotes/internal/changelog"
	"github.com/ariel-frischer/relnotes/internal/gitsource"
	"github.com/ariel-frischer/relnotes/internal/mdfmt"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. RELNOTES_REPO_URL.
const EnvPrefix = "RELNOTES_"

// Aggregation policies for the render command.
const (
	AggregationSingle   = "single"
	AggregationPerGroup = "per-group"
)

// Configuration represents the relnotes CLI configuration
type Configuration struct {
	// Categories are the category names releases are split into, in output order.
	Categories []string `koanf:"categories" json:"categories" yaml:"categories" validate:"dive,required"`
	// CategoryTitles optionally maps a category to a "#### <title>" heading.
	CategoryTitles map[string]string `koanf:"category_titles" json:"category_titles" yaml:"category_titles"`

	BaseIssueURL   string   `koanf:"base_issue_url" json:"base_issue_url" yaml:"base_issue_url" validate:"omitempty,url"`
	RepoURL        string   `koanf:"repo_url" json:"repo_url" yaml:"repo_url" validate:"omitempty,url"`
	UnreleasedName string   `koanf:"unreleased_name" json:"unreleased_name" yaml:"unreleased_name" validate:"required"`
	UnreleasedTag  string   `koanf:"unreleased_tag" json:"unreleased_tag" yaml:"unreleased_tag" validate:"required"`
	ScopePrefixes  []string `koanf:"scope_prefixes" json:"scope_prefixes" yaml:"scope_prefixes"`

	// OnMissingIssue decides what happens to commits without issue metadata.
	// Valid values: "drop" (default), "sha-fallback"
	OnMissingIssue string `koanf:"on_missing_issue" json:"on_missing_issue" yaml:"on_missing_issue" validate:"oneof=drop sha-fallback"`
	// ContributorSort orders the committers section.
	// Valid values: "display" (default), "rendered"
	ContributorSort string `koanf:"contributor_sort" json:"contributor_sort" yaml:"contributor_sort" validate:"oneof=display rendered"`
	GroupByPackage  bool   `koanf:"group_by_package" json:"group_by_package" yaml:"group_by_package"`

	// Aggregation selects one document for all releases or one per scope.
	// Valid values: "single" (default), "per-group"
	Aggregation string `koanf:"aggregation" json:"aggregation" yaml:"aggregation" validate:"oneof=single per-group"`
	OutputDir   string `koanf:"output_dir" json:"output_dir" yaml:"output_dir" validate:"required"`
	Parallelism int    `koanf:"parallelism" json:"parallelism" yaml:"parallelism" validate:"min=0,max=64"`

	Format FormatConfig `koanf:"format" json:"format" yaml:"format"`
	Git    GitConfig    `koanf:"git" json:"git" yaml:"git"`

	LogLevel string `koanf:"log_level" json:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogJSON  bool   `koanf:"log_json" json:"log_json" yaml:"log_json"`
}

// FormatConfig configures the markdown formatter.
type FormatConfig struct {
	PrintWidth int    `koanf:"print_width" json:"print_width" yaml:"print_width" validate:"min=20,max=1000"`
	ProseWrap  string `koanf:"prose_wrap" json:"prose_wrap" yaml:"prose_wrap" validate:"oneof=preserve always"`
}

// GitConfig configures reading releases from a repository.
type GitConfig struct {
	TagPattern   string   `koanf:"tag_pattern" json:"tag_pattern" yaml:"tag_pattern" validate:"required"`
	PackageRoots []string `koanf:"package_roots" json:"package_roots" yaml:"package_roots"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .relnotes/config.yml)
	ProjectConfigPath string
	// SkipUserConfig ignores the user-level config file (used by tests)
	SkipUserConfig bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/relnotes/config.yml when present.
func loadUserConfig(k *koanf.Koanf) error {
	userPath, _ := UserConfigPath()
	if !fileExists(userPath) {
		return nil
	}
	if err := loadFileConfig(k, userPath, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project config. An explicit path must exist;
// the default path is optional.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	path := ProjectConfigPath()
	if customPath != "" {
		if !fileExists(customPath) {
			return fmt.Errorf("config file not found: %s", customPath)
		}
		path = customPath
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadFileConfig(k, path, "project"); err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}
	return nil
}

// loadFileConfig loads a YAML or JSON config file, picking the parser by extension.
func loadFileConfig(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
		return nil
	}
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.OutputDir = expandHomePath(cfg.OutputDir)

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// nestedSections are config sections addressable from the environment.
var nestedSections = []string{"format", "git"}

// listKeys are split on commas when set from the environment.
var listKeys = map[string]bool{
	"categories":        true,
	"scope_prefixes":    true,
	"git.package_roots": true,
}

// envTransform converts environment variables to config keys and values.
// Example: RELNOTES_FORMAT_PRINT_WIDTH -> format.print_width,
// RELNOTES_CATEGORIES=feat,fix -> categories: [feat fix]
func envTransform(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	for _, section := range nestedSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			key = section + "." + rest
			break
		}
	}
	if listKeys[key] {
		return key, splitList(value)
	}
	return key, value
}

// splitList splits a comma separated list, dropping empty items.
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// RenderOptions converts the configuration into renderer options.
func (c *Configuration) RenderOptions() changelog.Options {
	titles := make(map[string]string, len(c.CategoryTitles))
	for k, v := range c.CategoryTitles {
		titles[k] = v
	}
	return changelog.Options{
		Categories:      append([]string(nil), c.Categories...),
		CategoryTitles:  titles,
		BaseIssueURL:    c.BaseIssueURL,
		RepoURL:         c.RepoURL,
		UnreleasedName:  c.UnreleasedName,
		UnreleasedTag:   c.UnreleasedTag,
		ScopePrefixes:   append([]string(nil), c.ScopePrefixes...),
		OnMissingIssue:  changelog.MissingIssuePolicy(c.OnMissingIssue),
		ContributorSort: changelog.ContributorSort(c.ContributorSort),
		GroupByPackage:  c.GroupByPackage,
		Parallelism:     c.Parallelism,
	}
}

// FormatOptions converts the format section into formatter options.
func (c *Configuration) FormatOptions() mdfmt.Options {
	return mdfmt.Options{
		PrintWidth: c.Format.PrintWidth,
		ProseWrap:  mdfmt.ProseWrap(c.Format.ProseWrap),
	}
}

// GitOptions converts the git section into git source options.
func (c *Configuration) GitOptions() gitsource.Options {
	return gitsource.Options{
		TagPattern:    c.Git.TagPattern,
		PackageRoots:  append([]string(nil), c.Git.PackageRoots...),
		ScopePrefixes: append([]string(nil), c.ScopePrefixes...),
		UnreleasedTag: c.UnreleasedTag,
	}
}
