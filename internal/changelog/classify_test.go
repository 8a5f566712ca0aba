package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeOf(t *testing.T) {
	tests := map[string]struct {
		name     string
		prefixes []string
		want     string
	}{
		"org scoped package":   {name: "@scope/pkg@1.0.0", want: "pkg"},
		"plain package":        {name: "pkg@2.0.0", want: "pkg"},
		"unreleased sentinel":  {name: DefaultUnreleasedTag, want: DefaultUnreleasedTag},
		"no version":           {name: "@scope/pkg", want: "pkg"},
		"configured prefix":    {name: "@ant-design/pro-table@2.1.0", prefixes: []string{"@ant-design/pro-"}, want: "table"},
		"first prefix wins":    {name: "@acme/ui-kit@1.0.0", prefixes: []string{"@acme/ui-", "@acme/"}, want: "kit"},
		"non matching prefix":  {name: "@acme/kit@1.0.0", prefixes: []string{"@other/"}, want: "kit"},
		"prerelease version":   {name: "form@1.0.0-beta.1", want: "form"},
		"bare at is not a org": {name: "@pkg", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScopeOf(tt.name, tt.prefixes))
		})
	}
}

func TestClassifyByCategory(t *testing.T) {
	labelled := Commit{CommitSHA: "1", Message: "chore: bump", Categories: []string{"fix"}}
	heuristic := Commit{CommitSHA: "2", Message: "feat(table): sorting"}
	both := Commit{CommitSHA: "3", Message: "fix(table): crash", Categories: []string{"feat"}}
	otherScope := Commit{CommitSHA: "4", Message: "fix(form): typo"}
	unmatched := Commit{CommitSHA: "5", Message: "docs: readme"}

	release := Release{
		Name:    "@acme/table@1.2.0",
		Commits: []Commit{labelled, heuristic, both, otherScope, unmatched},
	}

	groups := ClassifyByCategory(release, []string{"UI", "fix", "feat"}, nil)
	require.Len(t, groups, 3)

	assert.Equal(t, "UI", groups[0].Name)
	assert.Empty(t, groups[0].Commits)

	assert.Equal(t, "fix", groups[1].Name)
	assert.Equal(t, []Commit{labelled, both}, groups[1].Commits)

	assert.Equal(t, "feat", groups[2].Name)
	assert.Equal(t, []Commit{heuristic, both}, groups[2].Commits)
}

func TestClassifyByCategoryKeepsOrderWithinGroups(t *testing.T) {
	var commits []Commit
	for _, sha := range []string{"a", "b", "c", "d"} {
		commits = append(commits, Commit{CommitSHA: sha, Message: "fix(pkg): " + sha})
	}
	release := Release{Name: "pkg@1.0.0", Commits: commits}

	groups := ClassifyByCategory(release, []string{"fix", "feat"}, nil)

	seen := make(map[string]bool)
	for _, c := range commits {
		seen[c.CommitSHA] = true
	}
	for _, g := range groups {
		last := -1
		for _, c := range g.Commits {
			require.True(t, seen[c.CommitSHA], "classified commit must come from the release")
			idx := indexOf(commits, c.CommitSHA)
			assert.Greater(t, idx, last, "group %s out of order", g.Name)
			last = idx
		}
	}
}

func indexOf(commits []Commit, sha string) int {
	for i, c := range commits {
		if c.CommitSHA == sha {
			return i
		}
	}
	return -1
}

func TestClassifyByCategoryWithoutCategories(t *testing.T) {
	release := Release{
		Name:    "pkg@1.0.0",
		Commits: []Commit{{CommitSHA: "1", Message: "anything"}},
	}

	groups := ClassifyByCategory(release, nil, nil)
	require.Len(t, groups, 1)
	assert.Equal(t, "", groups[0].Name)
	assert.Equal(t, release.Commits, groups[0].Commits)
}

func TestClassifyByCategoryEmptyRelease(t *testing.T) {
	groups := ClassifyByCategory(Release{Name: "pkg@1.0.0"}, []string{"fix", "feat"}, nil)
	require.Len(t, groups, 2)
	assert.Empty(t, NonEmptyGroups(groups))
}

func TestPackageLabel(t *testing.T) {
	tests := map[string]struct {
		packages []string
		want     string
	}{
		"none":     {packages: nil, want: "Other"},
		"empty":    {packages: []string{}, want: "Other"},
		"single":   {packages: []string{"a"}, want: "`a`"},
		"multiple": {packages: []string{"a", "b"}, want: "`a`, `b`"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, PackageLabel(tt.packages))
		})
	}
}

func TestGroupByPackage(t *testing.T) {
	a := Commit{CommitSHA: "1", Packages: []string{"a"}}
	ab := Commit{CommitSHA: "2", Packages: []string{"a", "b"}}
	none := Commit{CommitSHA: "3"}
	a2 := Commit{CommitSHA: "4", Packages: []string{"a"}}

	groups := GroupByPackage([]Commit{a, ab, none, a2})

	require.Len(t, groups, 3)
	assert.Equal(t, PackageGroup{Label: "`a`", Commits: []Commit{a, a2}}, groups[0])
	assert.Equal(t, PackageGroup{Label: "`a`, `b`", Commits: []Commit{ab}}, groups[1])
	assert.Equal(t, PackageGroup{Label: "Other", Commits: []Commit{none}}, groups[2])
}

func TestGroupByPackageEmpty(t *testing.T) {
	assert.Empty(t, GroupByPackage(nil))
}
