package changelog

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// RenderContributor renders a user as "[@login](url)", preceded by the
// display name when one is known.
func RenderContributor(u User) string {
	link := fmt.Sprintf("[@%s](%s)", u.Login, u.HTMLURL)
	if u.Name != "" {
		return fmt.Sprintf("%s (%s)", u.Name, link)
	}
	return link
}

// RenderContributorList renders the committers section: a count heading
// followed by one list line per contributor.
func (r *Renderer) RenderContributorList(users []User) string {
	var lines []string

	if r.opts.ContributorSort == SortRenderedLines {
		lines = make([]string, len(users))
		for i, u := range users {
			lines[i] = "- " + RenderContributor(u)
		}
		sort.Strings(lines)
	} else {
		sorted := append([]User(nil), users...)
		sort.SliceStable(sorted, func(i, j int) bool {
			ki, kj := strings.ToLower(sorted[i].DisplayKey()), strings.ToLower(sorted[j].DisplayKey())
			if ki != kj {
				return ki < kj
			}
			return sorted[i].Login < sorted[j].Login
		})
		lines = make([]string, len(sorted))
		for i, u := range sorted {
			lines[i] = "- " + RenderContributor(u)
		}
	}

	return fmt.Sprintf("#### Committers: %d\n%s", len(users), strings.Join(lines, "\n"))
}

// Contributors collects the distinct authors of the issues linked from the
// releases' commits, by login, in order of first appearance.
func Contributors(releases []Release) []User {
	var users []User
	seen := make(map[string]bool)
	for _, rel := range releases {
		for _, c := range rel.Commits {
			if c.GitHubIssue == nil {
				continue
			}
			u := c.GitHubIssue.User
			if u.Login == "" || seen[u.Login] {
				continue
			}
			seen[u.Login] = true
			users = append(users, u)
		}
	}
	return users
}

// RenderCommitters renders and formats the committers section as a
// standalone document.
func (r *Renderer) RenderCommitters(ctx context.Context, users []User) (string, error) {
	out, err := r.formatter.Format(ctx, r.RenderContributorList(users))
	if err != nil {
		return "", fmt.Errorf("formatting committers: %w", err)
	}
	return out, nil
}
