package config

import (
	"github.com/ariel-frischer/relnotes/internal/changelog"
	"github.com/ariel-frischer/relnotes/internal/gitsource"
	"github.com/ariel-frischer/relnotes/internal/mdfmt"
)

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# relnotes configuration
# See 'relnotes config show' for the effective values

# Classification
categories: [UI, fix, feat]           # Category sections, in output order
category_titles: {}                   # Optional "#### <title>" per category, e.g. {feat: Features}
scope_prefixes: []                    # Organisation prefixes stripped from release names

# Links
base_issue_url: ""                    # Prefix for "Closes #n" links, e.g. https://github.com/org/repo/issues/
repo_url: ""                          # Repository URL for commit links (sha-fallback)

# Releases
unreleased_name: Unreleased           # Heading used for the unreleased release
unreleased_tag: ___unreleased___      # Release name marking unreleased work

# Rendering
on_missing_issue: drop                # Commits without an issue: drop | sha-fallback
contributor_sort: display             # Committers order: display | rendered
group_by_package: false               # Group each category by affected packages
aggregation: single                   # single | per-group
output_dir: .                         # Directory for per-group documents
parallelism: 0                        # Concurrent per-group documents (0 = unbounded)

# Formatter
format:
  print_width: 80                     # Line width for prose wrapping
  prose_wrap: preserve                # preserve | always

# Git source (render --git)
git:
  tag_pattern: "*@*"                  # Release tag glob
  package_roots: [packages]           # Directories whose children are packages

log_level: warn                       # debug | info | warn | error
log_json: false                       # Emit log lines as JSON
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"categories":      append([]string(nil), changelog.DefaultCategories...),
		"category_titles": map[string]interface{}{},
		"base_issue_url":  "",
		"repo_url":        "",
		"unreleased_name": "Unreleased",
		"unreleased_tag":  changelog.DefaultUnreleasedTag,
		"scope_prefixes":  []string{},
		// on_missing_issue: "drop" keeps the historical output where commits
		// without an issue never appear.
		"on_missing_issue": string(changelog.MissingIssueDrop),
		"contributor_sort": string(changelog.SortByDisplayKey),
		"group_by_package": false,
		"aggregation":      AggregationSingle,
		"output_dir":       ".",
		"parallelism":      0,
		"format": map[string]interface{}{
			"print_width": mdfmt.DefaultPrintWidth,
			"prose_wrap":  string(mdfmt.ProseWrapPreserve),
		},
		"git": map[string]interface{}{
			"tag_pattern":   gitsource.DefaultTagPattern,
			"package_roots": []string{"packages"},
		},
		"log_level": "warn",
		"log_json":  false,
	}
}
