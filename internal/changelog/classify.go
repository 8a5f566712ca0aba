package changelog

import (
	"strings"
)

// OtherPackageLabel labels commits that touch no known package.
const OtherPackageLabel = "Other"

// ScopeOf derives the scope of a release name: the package identifier with
// its organisation prefix and version suffix stripped.
//
// The first matching entry of prefixes is removed (for example
// "@ant-design/pro-"); without a match an "@org/" prefix is removed instead.
// Whatever follows the next "@" is treated as the version.
//
//	ScopeOf("@scope/pkg@1.0.0", nil) == "pkg"
//	ScopeOf("pkg@2.0.0", nil)        == "pkg"
func ScopeOf(name string, prefixes []string) string {
	scope := name
	stripped := false
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(scope, p) {
			scope = strings.TrimPrefix(scope, p)
			stripped = true
			break
		}
	}
	if !stripped && strings.HasPrefix(scope, "@") {
		if slash := strings.Index(scope, "/"); slash > 0 {
			scope = scope[slash+1:]
		}
	}
	if at := strings.Index(scope, "@"); at >= 0 {
		scope = scope[:at]
	}
	return scope
}

// ClassifyByCategory partitions a release's commits into one group per
// category name, in the order of categoryNames.
//
// A commit joins group C when it is explicitly labelled C, or when the
// release scope occurs in its message together with the conventional-commit
// marker "C(". Commits may land in several groups and groups may be empty.
// With no category names the whole commit list forms a single unnamed group.
func ClassifyByCategory(release Release, categoryNames []string, prefixes []string) []CategoryGroup {
	if len(categoryNames) == 0 {
		return []CategoryGroup{{Commits: append([]Commit(nil), release.Commits...)}}
	}

	scope := ScopeOf(release.Name, prefixes)
	groups := make([]CategoryGroup, 0, len(categoryNames))
	for _, name := range categoryNames {
		group := CategoryGroup{Name: name}
		for _, c := range release.Commits {
			if matchesCategory(c, name, scope) {
				group.Commits = append(group.Commits, c)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func matchesCategory(c Commit, name, scope string) bool {
	if c.HasCategory(name) {
		return true
	}
	return strings.Contains(c.Message, scope) && strings.Contains(c.Message, name+"(")
}

// NonEmptyGroups filters out groups without commits, keeping order.
func NonEmptyGroups(groups []CategoryGroup) []CategoryGroup {
	out := make([]CategoryGroup, 0, len(groups))
	for _, g := range groups {
		if len(g.Commits) > 0 {
			out = append(out, g)
		}
	}
	return out
}

// PackageLabel renders the package label of a commit: its packages quoted in
// backticks and joined by ", ", or "Other" when it has none.
func PackageLabel(packages []string) string {
	if len(packages) == 0 {
		return OtherPackageLabel
	}
	quoted := make([]string, len(packages))
	for i, p := range packages {
		quoted[i] = "`" + p + "`"
	}
	return strings.Join(quoted, ", ")
}

// GroupByPackage groups commits by package label. Labels keep the order in
// which they are first seen and commits keep their input order.
func GroupByPackage(commits []Commit) []PackageGroup {
	var groups []PackageGroup
	index := make(map[string]int)

	for _, c := range commits {
		label := PackageLabel(c.Packages)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, PackageGroup{Label: label})
		}
		groups[i].Commits = append(groups[i].Commits, c)
	}

	return groups
}
